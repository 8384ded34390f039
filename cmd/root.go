// Package cmd implements the strive CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/strive/internal/config"
	"github.com/theirongolddev/strive/internal/logging"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/store"
	"github.com/theirongolddev/strive/internal/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDB    string
	flagToday string
	flagQuiet bool
)

var rootCmd = &cobra.Command{
	Use:   "strive",
	Short: "Savings goal planner and streak tracker",
	Long: "Plan a savings goal in weekly blocks, log what you put away each day,\n" +
		"and see whether you finish early, on time or late.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Treat this date (YYYY-MM-DD) as today")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
}

// session bundles what every command needs: config, logger, the open
// database and a tracker on top of it.
type session struct {
	cfg config.Config
	log *zap.Logger
	db  *store.DB
	tr  *tracker.Tracker
	now func() time.Time
}

// openSession loads config, opens the database and builds the tracker. The
// caller must Close it.
func openSession(format logging.Format) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.General.LogLevel
	if flagQuiet {
		level = "error"
	}
	logger, err := logging.New(level, format)
	if err != nil {
		return nil, err
	}

	now, err := clock()
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath()
	if flagDB != "" {
		dbPath = flagDB
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tr, err := tracker.New(db,
		tracker.WithPolicy(cfg.EnginePolicy()),
		tracker.WithDefaults(model.GoalConfig{
			TargetAmount: cfg.Defaults.TargetAmount,
			TargetDays:   cfg.Defaults.TargetDays,
		}),
		tracker.WithClock(now),
		tracker.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("session opened", zap.String("db", dbPath))

	cfg.General.DBPath = dbPath
	return &session{cfg: cfg, log: logger, db: db, tr: tr, now: now}, nil
}

func (s *session) Close() {
	_ = s.log.Sync()
	if err := s.db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "  closing database: %v\n", err)
	}
}

// clock returns the wall clock, or a fixed midday on the --today date.
func clock() (func() time.Time, error) {
	if flagToday == "" {
		return time.Now, nil
	}
	d, err := time.ParseInLocation("2006-01-02", flagToday, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--today: want YYYY-MM-DD, got %q", flagToday)
	}
	fixed := d.Add(12 * time.Hour)
	return func() time.Time { return fixed }, nil
}

// parseDay resolves a 1-based day number or "today" to a day index.
func parseDay(arg string, today int) (int, error) {
	if strings.EqualFold(arg, "today") {
		if today < 0 {
			return 0, tracker.ErrInvalidDay
		}
		return today, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q (days start at 1)", tracker.ErrInvalidDay, arg)
	}
	return n - 1, nil
}

// parseK parses a thousands value with an optional trailing "K".
func parseK(arg string) (float64, error) {
	k, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(arg)), "K"), 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: want thousands, e.g. 18.5", arg)
	}
	return k, nil
}

// parseGoalKind accepts "sim" or "act".
func parseGoalKind(arg string) (model.GoalKind, error) {
	kind := model.GoalKind(strings.ToLower(arg))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q (want sim or act)", tracker.ErrUnknownGoal, arg)
	}
	return kind, nil
}
