package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/strive/internal/model"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "strive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_Migrates(t *testing.T) {
	db := openTemp(t)
	v, err := db.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != SchemaVersion {
		t.Fatalf("user_version = %d, want %d", v, SchemaVersion)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strive.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Save(model.DefaultState(70000, 7)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	_, ok, err := db.Load()
	if err != nil || !ok {
		t.Fatalf("Load after reopen: ok=%v err=%v", ok, err)
	}
}

func TestLoad_Empty(t *testing.T) {
	db := openTemp(t)
	_, ok, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("Load reported saved state on a fresh database")
	}
	saved, err := db.SavedAt()
	if err != nil || !saved.IsZero() {
		t.Fatalf("SavedAt = %v, %v; want zero", saved, err)
	}
}

func TestSaveLoad(t *testing.T) {
	db := openTemp(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	st := model.State{
		SimGoal:   model.GoalConfig{TargetAmount: 300000, TargetDays: 14},
		SimBlocks: []model.Block{{ID: 0, TotalAmount: 150000}, {ID: 1, TotalAmount: 150000}},
		ActGoal:   model.GoalConfig{TargetAmount: 70000, TargetDays: 7},
		ActBlocks: []model.Block{{ID: 0, TotalAmount: 70000}},
		Log: model.DailyLog{
			0: model.Amount(12000),
			2: model.AmountWithThreshold(9000, 10.5),
		},
		StartDate: start,
		Locked:    true,
	}
	if err := db.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := db.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.SimGoal != st.SimGoal || got.ActGoal != st.ActGoal {
		t.Fatalf("goals = %+v / %+v", got.SimGoal, got.ActGoal)
	}
	if len(got.SimBlocks) != 2 || got.SimBlocks[1] != st.SimBlocks[1] {
		t.Fatalf("SimBlocks = %+v", got.SimBlocks)
	}
	if len(got.ActBlocks) != 1 || got.ActBlocks[0].TotalAmount != 70000 {
		t.Fatalf("ActBlocks = %+v", got.ActBlocks)
	}
	if len(got.Log) != 2 || got.Log[0] != st.Log[0] || got.Log[2] != st.Log[2] {
		t.Fatalf("Log = %+v", got.Log)
	}
	if !got.StartDate.Equal(start) {
		t.Fatalf("StartDate = %v, want %v", got.StartDate, start)
	}
	if !got.Locked {
		t.Fatal("Locked = false, want true")
	}

	n, err := db.LogCount()
	if err != nil || n != 2 {
		t.Fatalf("LogCount = %d, %v; want 2", n, err)
	}
}

func TestSave_ReplacesPreviousState(t *testing.T) {
	db := openTemp(t)

	first := model.DefaultState(70000, 7)
	first.Log = model.DailyLog{0: model.Amount(1), 1: model.AmountWithThreshold(2, 3)}
	if err := db.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := model.DefaultState(70000, 7)
	second.Log = model.DailyLog{5: model.Amount(5000)}
	if err := db.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Log) != 1 || got.Log[5].Amount != 5000 {
		t.Fatalf("Log = %+v, want only day 5", got.Log)
	}
	if got.Locked || !got.StartDate.IsZero() {
		t.Fatalf("meta not replaced: locked=%v start=%v", got.Locked, got.StartDate)
	}
}

func dailyLogColumns(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info('daily_logs') ORDER BY cid")
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}

func TestMigrate_DropsLoggedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strive.db")

	// Build a database as the second schema version left it.
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	for _, stmts := range migrations[:2] {
		for _, stmt := range stmts {
			if _, err := raw.Exec(stmt); err != nil {
				t.Fatalf("exec %q: %v", stmt, err)
			}
		}
	}
	for _, stmt := range []string{
		"PRAGMA user_version = 2",
		"INSERT INTO daily_logs (day, amount, logged_at) VALUES (3, 4200, '2026-01-01T00:00:00Z')",
	} {
		if _, err := raw.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	_ = raw.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	cols := dailyLogColumns(t, db.db)
	if len(cols) != 2 || cols[0] != "day" || cols[1] != "amount" {
		t.Fatalf("daily_logs columns = %v, want [day amount]", cols)
	}
	n, err := db.LogCount()
	if err != nil || n != 1 {
		t.Fatalf("LogCount = %d, %v; want 1", n, err)
	}
}

func TestSave_FreshSchemaHasNoLoggedAt(t *testing.T) {
	db := openTemp(t)
	st := model.DefaultState(70000, 7)
	st.Log = model.DailyLog{0: model.Amount(0)}
	if err := db.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for _, c := range dailyLogColumns(t, db.db) {
		if c == "logged_at" {
			t.Fatal("daily_logs still has logged_at")
		}
	}
}
