package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/strive/internal/config"
	"github.com/theirongolddev/strive/internal/tracker"
	"github.com/theirongolddev/strive/internal/transfer"
)

func TestParseDay(t *testing.T) {
	cases := []struct {
		arg   string
		today int
		want  int
		ok    bool
	}{
		{"1", 5, 0, true},
		{"12", 5, 11, true},
		{"today", 5, 5, true},
		{"TODAY", 0, 0, true},
		{"today", -1, 0, false},
		{"0", 5, 0, false},
		{"-3", 5, 0, false},
		{"x", 5, 0, false},
	}
	for _, c := range cases {
		got, err := parseDay(c.arg, c.today)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("parseDay(%q, %d) = %d, %v; want %d", c.arg, c.today, got, err, c.want)
		}
		if !c.ok && !errors.Is(err, tracker.ErrInvalidDay) {
			t.Errorf("parseDay(%q, %d) err = %v, want ErrInvalidDay", c.arg, c.today, err)
		}
	}
}

func TestParseK(t *testing.T) {
	for in, want := range map[string]float64{"18.5": 18.5, "20k": 20, " 7K ": 7} {
		got, err := parseK(in)
		if err != nil || got != want {
			t.Errorf("parseK(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseK("lots"); err == nil {
		t.Error("parseK(lots) should fail")
	}
}

func TestParseGoalKind(t *testing.T) {
	if k, err := parseGoalKind("ACT"); err != nil || k != "act" {
		t.Fatalf("parseGoalKind(ACT) = %q, %v", k, err)
	}
	if _, err := parseGoalKind("both"); !errors.Is(err, tracker.ErrUnknownGoal) {
		t.Fatalf("parseGoalKind(both) err = %v, want ErrUnknownGoal", err)
	}
}

func TestClockToday(t *testing.T) {
	defer func() { flagToday = "" }()

	flagToday = "2026-03-12"
	now, err := clock()
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	got := now()
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 12 || got.Hour() != 12 {
		t.Fatalf("clock() = %v, want 2026-03-12 12:00 local", got)
	}

	flagToday = "12/03/2026"
	if _, err := clock(); err == nil {
		t.Fatal("clock should reject a non-ISO date")
	}
}

func TestTransferFormat(t *testing.T) {
	defer func() { flagTransferFormat = "" }()

	cases := map[string]transfer.Format{
		"":           transfer.JSON,
		"-":          transfer.JSON,
		"state.json": transfer.JSON,
		"state.yml":  transfer.YAML,
		"state.yaml": transfer.YAML,
	}
	for path, want := range cases {
		got, err := transferFormat(path)
		if err != nil || got != want {
			t.Errorf("transferFormat(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := transferFormat("state.toml"); !errors.Is(err, transfer.ErrUnknownFormat) {
		t.Errorf("transferFormat(state.toml) err = %v, want ErrUnknownFormat", err)
	}

	flagTransferFormat = "yaml"
	if got, _ := transferFormat("state.json"); got != transfer.YAML {
		t.Errorf("--format should win over the extension, got %q", got)
	}
}

func TestServeConfigFlagsOverrideFile(t *testing.T) {
	// Persistent flags only join Flags() once merged.
	_ = serveCmd.LocalFlags()

	cfg := config.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Server.PollIntervalSec = 30

	got := serveConfig(serveCmd, cfg)
	if got.Addr != "127.0.0.1:9000" || got.Interval != 30*time.Second {
		t.Fatalf("without flags got %+v, want the config file values", got)
	}

	if err := serveCmd.Flags().Set("addr", "0.0.0.0:7000"); err != nil {
		t.Fatalf("set addr: %v", err)
	}
	defer func() {
		_ = serveCmd.Flags().Set("addr", config.DefaultConfig().Server.Addr)
		serveCmd.Flags().Lookup("addr").Changed = false
	}()

	got = serveConfig(serveCmd, cfg)
	if got.Addr != "0.0.0.0:7000" {
		t.Fatalf("Addr = %q, want the flag value", got.Addr)
	}
	if got.RolloverCron != cfg.Server.RolloverCron {
		t.Fatalf("RolloverCron = %q, want %q", got.RolloverCron, cfg.Server.RolloverCron)
	}
}
