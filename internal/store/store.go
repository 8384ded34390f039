// Package store persists tracker state in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/strive/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	metaStartDate = "start_date"
	metaLocked    = "locked"
	metaSavedAt   = "saved_at"
)

// DB is a SQLite-backed state store.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and migrates it to
// the current schema.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	// One connection keeps the pragmas and serializes writers.
	db.SetMaxOpenConns(1)

	s := &DB{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// Version returns the schema version recorded in the database.
func (s *DB) Version() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

func (s *DB) migrate() error {
	current, err := s.Version()
	if err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range migrations[v] {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("version %d: %w", v+1, err)
			}
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the stored state. ok is false when nothing was ever saved.
func (s *DB) Load() (model.State, bool, error) {
	var st model.State

	goals, err := s.loadGoals()
	if err != nil {
		return st, false, err
	}
	if len(goals) == 0 {
		return st, false, nil
	}
	st.SimGoal = goals[model.GoalSim]
	st.ActGoal = goals[model.GoalAct]

	if st.SimBlocks, err = s.loadBlocks(model.GoalSim); err != nil {
		return st, false, err
	}
	if st.ActBlocks, err = s.loadBlocks(model.GoalAct); err != nil {
		return st, false, err
	}
	if st.Log, err = s.loadLog(); err != nil {
		return st, false, err
	}

	meta, err := s.loadMeta()
	if err != nil {
		return st, false, err
	}
	if v := meta[metaStartDate]; v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return st, false, fmt.Errorf("parsing start date: %w", err)
		}
		st.StartDate = t
	}
	st.Locked = meta[metaLocked] == "1"

	return st, true, nil
}

func (s *DB) loadGoals() (map[model.GoalKind]model.GoalConfig, error) {
	rows, err := s.db.Query("SELECT kind, target_amount, target_days FROM goals")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	goals := make(map[model.GoalKind]model.GoalConfig)
	for rows.Next() {
		var kind string
		var g model.GoalConfig
		if err := rows.Scan(&kind, &g.TargetAmount, &g.TargetDays); err != nil {
			return nil, err
		}
		goals[model.GoalKind(kind)] = g
	}
	return goals, rows.Err()
}

func (s *DB) loadBlocks(kind model.GoalKind) ([]model.Block, error) {
	rows, err := s.db.Query("SELECT id, total_amount FROM blocks WHERE kind = ? ORDER BY id", string(kind))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var blocks []model.Block
	for rows.Next() {
		var b model.Block
		if err := rows.Scan(&b.ID, &b.TotalAmount); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *DB) loadLog() (model.DailyLog, error) {
	rows, err := s.db.Query(`SELECT l.day, l.amount, t.min_k
		FROM daily_logs l LEFT JOIN log_thresholds t ON t.day = l.day`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	amounts := make(map[int]float64)
	thresholds := make(map[int]float64)
	for rows.Next() {
		var day int
		var amount float64
		var minK sql.NullFloat64
		if err := rows.Scan(&day, &amount, &minK); err != nil {
			return nil, err
		}
		amounts[day] = amount
		if minK.Valid {
			thresholds[day] = minK.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.JoinLog(amounts, thresholds), nil
}

func (s *DB) loadMeta() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// Save replaces the stored state with st in a single transaction.
func (s *DB) Save(st model.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM log_thresholds",
		"DELETE FROM daily_logs",
		"DELETE FROM blocks",
		"DELETE FROM goals",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	goals := []struct {
		kind   model.GoalKind
		goal   model.GoalConfig
		blocks []model.Block
	}{
		{model.GoalSim, st.SimGoal, st.SimBlocks},
		{model.GoalAct, st.ActGoal, st.ActBlocks},
	}
	for _, g := range goals {
		if _, err := tx.Exec("INSERT INTO goals (kind, target_amount, target_days) VALUES (?, ?, ?)",
			string(g.kind), g.goal.TargetAmount, g.goal.TargetDays); err != nil {
			return fmt.Errorf("saving %s goal: %w", g.kind, err)
		}
		for _, b := range g.blocks {
			if _, err := tx.Exec("INSERT INTO blocks (kind, id, total_amount) VALUES (?, ?, ?)",
				string(g.kind), b.ID, b.TotalAmount); err != nil {
				return fmt.Errorf("saving %s block %d: %w", g.kind, b.ID, err)
			}
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	amounts, thresholds := model.SplitLog(st.Log)
	for day, amount := range amounts {
		if _, err := tx.Exec("INSERT INTO daily_logs (day, amount) VALUES (?, ?)", day, amount); err != nil {
			return fmt.Errorf("saving day %d: %w", day, err)
		}
	}
	for day, minK := range thresholds {
		if _, err := tx.Exec("INSERT INTO log_thresholds (day, min_k) VALUES (?, ?)", day, minK); err != nil {
			return fmt.Errorf("saving threshold for day %d: %w", day, err)
		}
	}

	startDate := ""
	if !st.StartDate.IsZero() {
		startDate = st.StartDate.Format(time.RFC3339)
	}
	locked := "0"
	if st.Locked {
		locked = "1"
	}
	for k, v := range map[string]string{
		metaStartDate: startDate,
		metaLocked:    locked,
		metaSavedAt:   now,
	} {
		if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SavedAt returns when the state was last saved, or the zero time.
func (s *DB) SavedAt() (time.Time, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaSavedAt).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

// LogCount returns the number of logged days.
func (s *DB) LogCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM daily_logs").Scan(&count)
	return count, err
}
