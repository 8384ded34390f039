// Package transfer imports and exports tracker state as JSON or YAML.
//
// Exports wrap the state in an Envelope. Imports accept either an envelope
// or a bare state document, and only the keys present in the document
// override the current state.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/strive/internal/model"
)

// Version is the document version written by Encode.
const Version = 1

// Format is a serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrUnknownFormat is returned for a format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Document is the portable shape of a state. Every field is optional so a
// partial document can patch an existing state.
type Document struct {
	SimTargetAmount *float64        `json:"simTargetAmount,omitempty" yaml:"simTargetAmount,omitempty"`
	SimTargetDays   *int            `json:"simTargetDays,omitempty" yaml:"simTargetDays,omitempty"`
	SimWeeksConfig  []model.Block   `json:"simWeeksConfig,omitempty" yaml:"simWeeksConfig,omitempty"`
	ActTargetAmount *float64        `json:"actTargetAmount,omitempty" yaml:"actTargetAmount,omitempty"`
	ActTargetDays   *int            `json:"actTargetDays,omitempty" yaml:"actTargetDays,omitempty"`
	ActWeeksConfig  []model.Block   `json:"actWeeksConfig,omitempty" yaml:"actWeeksConfig,omitempty"`
	DailyLogs       map[int]float64 `json:"dailyLogs,omitempty" yaml:"dailyLogs,omitempty"`
	LogThresholds   map[int]float64 `json:"logThresholds,omitempty" yaml:"logThresholds,omitempty"`
	ActStartDate    *int64          `json:"actStartDate,omitempty" yaml:"actStartDate,omitempty"`
	IsLocked        *bool           `json:"isLocked,omitempty" yaml:"isLocked,omitempty"`

	// Legacy single-goal keys.
	WeeksConfig  []model.Block `json:"weeksConfig,omitempty" yaml:"weeksConfig,omitempty"`
	TargetAmount *float64      `json:"targetAmount,omitempty" yaml:"targetAmount,omitempty"`
	TargetDays   *int          `json:"targetDays,omitempty" yaml:"targetDays,omitempty"`
}

// Envelope wraps an exported document.
type Envelope struct {
	ExportID   string    `json:"exportId" yaml:"exportId"`
	ExportedAt time.Time `json:"exportedAt" yaml:"exportedAt"`
	Version    int       `json:"version" yaml:"version"`
	State      *Document `json:"state" yaml:"state"`
}

// FromState converts a full state into a document.
func FromState(st model.State) *Document {
	amounts, thresholds := model.SplitLog(st.Log)
	doc := &Document{
		SimTargetAmount: ptr(st.SimGoal.TargetAmount),
		SimTargetDays:   ptr(st.SimGoal.TargetDays),
		SimWeeksConfig:  model.CloneBlocks(st.SimBlocks),
		ActTargetAmount: ptr(st.ActGoal.TargetAmount),
		ActTargetDays:   ptr(st.ActGoal.TargetDays),
		ActWeeksConfig:  model.CloneBlocks(st.ActBlocks),
		DailyLogs:       amounts,
		LogThresholds:   thresholds,
		IsLocked:        ptr(st.Locked),
	}
	if !st.StartDate.IsZero() {
		doc.ActStartDate = ptr(st.StartDate.UnixMilli())
	}
	return doc
}

// Encode writes st to w as an envelope in the given format and returns the
// envelope's export id.
func Encode(w io.Writer, st model.State, format Format, now time.Time) (string, error) {
	env := Envelope{
		ExportID:   uuid.NewString(),
		ExportedAt: now.UTC(),
		Version:    Version,
		State:      FromState(st),
	}

	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return "", fmt.Errorf("encoding json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return env.ExportID, nil
}

// Decode reads an envelope or a bare document from r. Legacy keys are
// migrated before returning.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty import document")
	}

	var env Envelope
	var doc Document
	switch format {
	case JSON:
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		if env.State == nil {
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("parsing json: %w", err)
			}
		}
	case YAML:
		if err := yaml.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		if env.State == nil {
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("parsing yaml: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if env.State != nil {
		doc = *env.State
	}
	doc.migrateLegacy()
	return &doc, nil
}

// migrateLegacy moves single-goal keys onto both goals. Legacy keys only
// fill fields the document does not already set.
func (d *Document) migrateLegacy() {
	if d.WeeksConfig != nil && d.SimWeeksConfig == nil {
		d.SimWeeksConfig = d.WeeksConfig
	}
	if d.TargetAmount != nil {
		if d.SimTargetAmount == nil {
			d.SimTargetAmount = ptr(*d.TargetAmount)
		}
		if d.ActTargetAmount == nil {
			d.ActTargetAmount = ptr(*d.TargetAmount)
		}
	}
	if d.TargetDays != nil {
		if d.SimTargetDays == nil {
			d.SimTargetDays = ptr(*d.TargetDays)
		}
		if d.ActTargetDays == nil {
			d.ActTargetDays = ptr(*d.TargetDays)
		}
	}
	d.WeeksConfig = nil
	d.TargetAmount = nil
	d.TargetDays = nil
}

// Apply returns a copy of st with every field present in d overridden.
// Blocks are taken as given; callers re-sync them against the goals.
func (d *Document) Apply(st model.State) model.State {
	out := st.Clone()
	if d.SimTargetAmount != nil {
		out.SimGoal.TargetAmount = *d.SimTargetAmount
	}
	if d.SimTargetDays != nil {
		out.SimGoal.TargetDays = *d.SimTargetDays
	}
	if d.SimWeeksConfig != nil {
		out.SimBlocks = model.CloneBlocks(d.SimWeeksConfig)
	}
	if d.ActTargetAmount != nil {
		out.ActGoal.TargetAmount = *d.ActTargetAmount
	}
	if d.ActTargetDays != nil {
		out.ActGoal.TargetDays = *d.ActTargetDays
	}
	if d.ActWeeksConfig != nil {
		out.ActBlocks = model.CloneBlocks(d.ActWeeksConfig)
	}

	// The log and its thresholds travel together as in a shallow merge:
	// a present key replaces the whole map.
	if d.DailyLogs != nil || d.LogThresholds != nil {
		amounts, thresholds := model.SplitLog(out.Log)
		if d.DailyLogs != nil {
			amounts = d.DailyLogs
		}
		if d.LogThresholds != nil {
			thresholds = d.LogThresholds
		}
		out.Log = model.JoinLog(amounts, thresholds)
	}
	if d.ActStartDate != nil {
		out.StartDate = time.UnixMilli(*d.ActStartDate)
	}
	if d.IsLocked != nil {
		out.Locked = *d.IsLocked
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
