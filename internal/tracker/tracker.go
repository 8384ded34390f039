// Package tracker owns the persisted goal state and applies user actions to it.
//
// Every mutation works on a copy: validate, apply, persist, then publish the
// new state. Derived views are recomputed from scratch by Report.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/strive/internal/engine"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
)

// Goal bounds enforced before the engine sees a goal.
const (
	MinTargetAmount = 2000
	MinTargetDays   = 1
)

var (
	// ErrLocked is returned when a goal change is attempted while locked.
	ErrLocked = errors.New("goal is locked")
	// ErrUnknownBlock is returned for a block id that does not exist.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrInvalidDay is returned for a negative day index.
	ErrInvalidDay = errors.New("invalid day")
	// ErrInvalidAmount is returned for a negative amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrUnknownGoal is returned for a goal kind other than sim or act.
	ErrUnknownGoal = errors.New("unknown goal")
)

// Store persists state.
type Store interface {
	Load() (model.State, bool, error)
	Save(model.State) error
}

// Tracker serializes state mutations and persists each one.
type Tracker struct {
	mu       sync.RWMutex
	store    Store
	policy   engine.Policy
	defaults model.GoalConfig
	now      func() time.Time
	log      *zap.Logger
	state    model.State
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPolicy sets the engine constants.
func WithPolicy(p engine.Policy) Option {
	return func(t *Tracker) { t.policy = p }
}

// WithDefaults sets the goal used for a fresh or reset state.
func WithDefaults(g model.GoalConfig) Option {
	return func(t *Tracker) { t.defaults = g }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// New loads state from store, seeding defaults when nothing was saved, and
// syncs blocks and the start date.
func New(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:    store,
		policy:   engine.DefaultPolicy(),
		defaults: model.GoalConfig{TargetAmount: 500000, TargetDays: 30},
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-reads state from the store.
func (t *Tracker) Reload() error {
	st, ok, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if !ok {
		st = model.DefaultState(t.defaults.TargetAmount, t.defaults.TargetDays)
		t.log.Debug("no saved state, using defaults",
			zap.Float64("target_amount", t.defaults.TargetAmount),
			zap.Int("target_days", t.defaults.TargetDays))
	}
	if st.Log == nil {
		st.Log = model.DailyLog{}
	}
	changed := t.sync(&st)

	t.mu.Lock()
	t.state = st
	t.mu.Unlock()

	if !ok || changed {
		if err := t.store.Save(st); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
	}
	return nil
}

// State returns a copy of the current state.
func (t *Tracker) State() model.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone()
}

// Policy returns the engine constants in use.
func (t *Tracker) Policy() engine.Policy {
	return t.policy
}

// Today returns the current day index relative to the start date.
func (t *Tracker) Today() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return engine.DayIndex(t.state.StartDate, t.now())
}

// sync fills a missing start date and brings both block lists in line with
// their goals. Empty block lists are rebuilt; a locked state never forces a
// rebuild. It reports whether st changed.
func (t *Tracker) sync(st *model.State) bool {
	changed := false
	if st.StartDate.IsZero() {
		st.StartDate = engine.Midnight(t.now())
		changed = true
	}
	if t.recalculate(st, model.GoalSim, len(st.SimBlocks) == 0) {
		changed = true
	}
	if t.recalculate(st, model.GoalAct, len(st.ActBlocks) == 0) {
		changed = true
	}
	return changed
}

func (t *Tracker) recalculate(st *model.State, kind model.GoalKind, rebuild bool) bool {
	if st.Locked && rebuild {
		return false
	}
	goal, blocks := st.Goal(kind)
	next := t.policy.Allocate(goal, blocks, rebuild)
	if blocksEqual(blocks, next) {
		return false
	}
	if kind == model.GoalSim {
		st.SimBlocks = next
	} else {
		st.ActBlocks = next
	}
	return true
}

func blocksEqual(a, b []model.Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mutate applies fn to a copy of the state and persists the result. The
// in-memory state only changes when the save succeeds.
func (t *Tracker) mutate(op string, fn func(st *model.State) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := t.store.Save(next); err != nil {
		return fmt.Errorf("%s: saving state: %w", op, err)
	}
	t.state = next
	t.log.Debug("state updated", zap.String("op", op))
	return nil
}

// UpdateGoal sets the target of the given goal. Amount and days are clamped
// to their minimums. Blocks are rebuilt when the day count changes and only
// re-floored otherwise. Shortening the actual goal drops logs beyond its end.
func (t *Tracker) UpdateGoal(kind model.GoalKind, amount float64, days int) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGoal, kind)
	}
	return t.mutate("update "+string(kind)+" goal", func(st *model.State) error {
		if st.Locked {
			return ErrLocked
		}
		goal := model.GoalConfig{
			TargetAmount: max(MinTargetAmount, amount),
			TargetDays:   max(MinTargetDays, days),
		}

		var oldDays int
		if kind == model.GoalSim {
			oldDays = st.SimGoal.TargetDays
			st.SimGoal = goal
		} else {
			oldDays = st.ActGoal.TargetDays
			st.ActGoal = goal
			if goal.TargetDays < oldDays {
				pruned := st.Log.Before(goal.TargetDays)
				if dropped := len(st.Log) - len(pruned); dropped > 0 {
					t.log.Info("pruned logs beyond new goal end",
						zap.Int("target_days", goal.TargetDays),
						zap.Int("dropped", dropped))
				}
				st.Log = pruned
			}
		}
		t.recalculate(st, kind, oldDays != goal.TargetDays)
		return nil
	})
}

// UpdateSimGoal sets the simulation goal.
func (t *Tracker) UpdateSimGoal(amount float64, days int) error {
	return t.UpdateGoal(model.GoalSim, amount, days)
}

// UpdateActGoal sets the tracked goal.
func (t *Tracker) UpdateActGoal(amount float64, days int) error {
	return t.UpdateGoal(model.GoalAct, amount, days)
}

// SetBlockAmount sets a block's amount and returns the amount actually
// stored after clamping to the block's floor.
func (t *Tracker) SetBlockAmount(kind model.GoalKind, id int, amount float64) (float64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGoal, kind)
	}
	var stored float64
	err := t.mutate("set block amount", func(st *model.State) error {
		if st.Locked {
			return ErrLocked
		}
		goal, blocks := st.Goal(kind)
		next, v, ok := t.policy.SetBlockAmount(goal, blocks, id, amount)
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownBlock, id)
		}
		stored = v
		if kind == model.GoalSim {
			st.SimBlocks = next
		} else {
			st.ActBlocks = next
		}
		return nil
	})
	return stored, err
}

// LogDay records amount for day. When minK is non-nil it is frozen as the
// day's threshold; otherwise a previously frozen threshold is kept. Logging
// is allowed while locked.
func (t *Tracker) LogDay(day int, amount float64, minK *float64) error {
	if day < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %.0f", ErrInvalidAmount, amount)
	}
	return t.mutate("log day", func(st *model.State) error {
		t.logDay(st, day, amount, minK)
		return nil
	})
}

func (t *Tracker) logDay(st *model.State, day int, amount float64, minK *float64) {
	entry := model.Amount(amount)
	switch {
	case minK != nil:
		entry = model.AmountWithThreshold(amount, *minK)
	default:
		if k, ok := st.Log[day].Threshold(); ok {
			entry = model.AmountWithThreshold(amount, k)
		}
	}
	st.Log[day] = entry
	if st.StartDate.IsZero() {
		st.StartDate = engine.Midnight(t.now())
	}
	t.log.Debug("logged day",
		zap.Int("day", day),
		zap.Float64("amount", amount),
		zap.Bool("frozen", entry.Frozen))
}

// UnlogDay removes day's entry and its frozen threshold.
func (t *Tracker) UnlogDay(day int) error {
	if day < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	return t.mutate("unlog day", func(st *model.State) error {
		delete(st.Log, day)
		return nil
	})
}

// QuickCheck toggles day against the daily minimum: a day that already
// meets its minimum is unlogged, anything else is logged at the current
// minimum with that minimum frozen. It reports whether the day is logged
// afterwards.
func (t *Tracker) QuickCheck(day int) (bool, error) {
	if day < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	var logged bool
	err := t.mutate("quick check", func(st *model.State) error {
		minK := t.policy.DisplayMinK(st.ActGoal, st.Log)
		if e, ok := st.Log[day]; ok {
			threshold := minK
			if k, frozen := e.Threshold(); frozen {
				threshold = k
			}
			if e.Amount/money.Thousand >= threshold {
				delete(st.Log, day)
				return nil
			}
		}
		t.logDay(st, day, money.FromK(minK), &minK)
		logged = true
		return nil
	})
	return logged, err
}

// QuickStrive logs day at its block's strive hint, or drops it back to the
// daily minimum when the hint is already met. Both freeze the current
// minimum. It returns the amount logged.
func (t *Tracker) QuickStrive(day int) (float64, error) {
	if day < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}
	var amount float64
	err := t.mutate("quick strive", func(st *model.State) error {
		minK := t.policy.DisplayMinK(st.ActGoal, st.Log)
		hintK := t.policy.StriveHintK(st.ActGoal, st.ActBlocks, st.Log, day)
		currentK := st.Log[day].Amount / money.Thousand

		floorK := t.policy.Normalized().MinDailyRate / money.Thousand
		amount = money.FromK(max(floorK, hintK))
		if currentK >= hintK {
			amount = money.FromK(minK)
		}
		t.logDay(st, day, amount, &minK)
		return nil
	})
	return amount, err
}

// ToggleLock flips the lock and returns the new value.
func (t *Tracker) ToggleLock() (bool, error) {
	var locked bool
	err := t.mutate("toggle lock", func(st *model.State) error {
		st.Locked = !st.Locked
		locked = st.Locked
		return nil
	})
	return locked, err
}

// Reset replaces the state with defaults and a fresh start date.
func (t *Tracker) Reset() error {
	return t.mutate("reset", func(st *model.State) error {
		*st = model.DefaultState(t.defaults.TargetAmount, t.defaults.TargetDays)
		t.sync(st)
		return nil
	})
}

// Patch applies a partial state to the current one and re-syncs blocks.
type Patch interface {
	Apply(model.State) model.State
}

// Import merges p into the state.
func (t *Tracker) Import(p Patch) error {
	return t.mutate("import", func(st *model.State) error {
		next := p.Apply(*st)
		if next.Log == nil {
			next.Log = model.DailyLog{}
		}
		next.SimGoal.TargetAmount = max(MinTargetAmount, next.SimGoal.TargetAmount)
		next.SimGoal.TargetDays = max(MinTargetDays, next.SimGoal.TargetDays)
		next.ActGoal.TargetAmount = max(MinTargetAmount, next.ActGoal.TargetAmount)
		next.ActGoal.TargetDays = max(MinTargetDays, next.ActGoal.TargetDays)
		t.sync(&next)
		*st = next
		return nil
	})
}
