package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/store"
	"github.com/theirongolddev/strive/internal/transfer"
)

type memStore struct {
	state   model.State
	saved   bool
	saves   int
	failErr error
}

func (m *memStore) Load() (model.State, bool, error) {
	return m.state.Clone(), m.saved, nil
}

func (m *memStore) Save(st model.State) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.state = st.Clone()
	m.saved = true
	m.saves++
	return nil
}

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newTracker(t *testing.T, amount float64, days int) (*Tracker, *memStore) {
	t.Helper()
	ms := &memStore{}
	tr, err := New(ms,
		WithDefaults(model.GoalConfig{TargetAmount: amount, TargetDays: days}),
		WithClock(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr, ms
}

func TestNew_SeedsDefaults(t *testing.T) {
	tr, ms := newTracker(t, 500000, 30)
	st := tr.State()

	if len(st.SimBlocks) != 5 || len(st.ActBlocks) != 5 {
		t.Fatalf("blocks = %d/%d, want 5/5", len(st.SimBlocks), len(st.ActBlocks))
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !st.StartDate.Equal(want) {
		t.Fatalf("StartDate = %v, want %v", st.StartDate, want)
	}
	if !ms.saved {
		t.Fatal("fresh state was not persisted")
	}
	if tr.Today() != 0 {
		t.Fatalf("Today = %d, want 0", tr.Today())
	}
}

func TestUpdateGoal_ClampsAndRebuilds(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)

	if err := tr.UpdateSimGoal(100, 0); err != nil {
		t.Fatalf("UpdateSimGoal: %v", err)
	}
	st := tr.State()
	if st.SimGoal.TargetAmount != MinTargetAmount || st.SimGoal.TargetDays != MinTargetDays {
		t.Fatalf("SimGoal = %+v, want clamped", st.SimGoal)
	}
	if len(st.SimBlocks) != 1 || st.SimBlocks[0].TotalAmount != 2000 {
		t.Fatalf("SimBlocks = %+v", st.SimBlocks)
	}
	if len(st.ActBlocks) != 5 {
		t.Fatal("act blocks changed by a sim update")
	}
}

func TestUpdateGoal_SameDaysKeepsManualBlocks(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)
	if _, err := tr.SetBlockAmount(model.GoalAct, 0, 200000); err != nil {
		t.Fatalf("SetBlockAmount: %v", err)
	}
	if err := tr.UpdateActGoal(600000, 30); err != nil {
		t.Fatalf("UpdateActGoal: %v", err)
	}
	if got := tr.State().ActBlocks[0].TotalAmount; got != 200000 {
		t.Fatalf("block 0 = %.0f, want manual 200000", got)
	}
}

func TestUpdateActGoal_PrunesLogs(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)
	k := 5.0
	for _, d := range []int{0, 9, 10, 25} {
		if err := tr.LogDay(d, 10000, &k); err != nil {
			t.Fatalf("LogDay(%d): %v", d, err)
		}
	}
	if err := tr.UpdateActGoal(500000, 10); err != nil {
		t.Fatalf("UpdateActGoal: %v", err)
	}
	log := tr.State().Log
	if len(log) != 2 {
		t.Fatalf("Log = %+v, want days 0 and 9", log)
	}
	if _, ok := log[10]; ok {
		t.Fatal("day 10 survived shortening to 10 days")
	}
}

func TestLocked(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)
	locked, err := tr.ToggleLock()
	if err != nil || !locked {
		t.Fatalf("ToggleLock = %v, %v", locked, err)
	}

	if err := tr.UpdateActGoal(1, 1); !errors.Is(err, ErrLocked) {
		t.Fatalf("UpdateActGoal err = %v, want ErrLocked", err)
	}
	if _, err := tr.SetBlockAmount(model.GoalSim, 0, 1); !errors.Is(err, ErrLocked) {
		t.Fatalf("SetBlockAmount err = %v, want ErrLocked", err)
	}
	if err := tr.LogDay(0, 5000, nil); err != nil {
		t.Fatalf("LogDay while locked: %v", err)
	}
	if tr.State().ActGoal.TargetDays != 30 {
		t.Fatal("locked goal changed")
	}
}

func TestSetBlockAmount(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)

	stored, err := tr.SetBlockAmount(model.GoalAct, 4, 100)
	if err != nil {
		t.Fatalf("SetBlockAmount: %v", err)
	}
	if stored != 4000 {
		t.Fatalf("stored = %.0f, want 4000", stored)
	}
	if _, err := tr.SetBlockAmount(model.GoalAct, 7, 100); !errors.Is(err, ErrUnknownBlock) {
		t.Fatalf("err = %v, want ErrUnknownBlock", err)
	}
	if _, err := tr.SetBlockAmount("other", 0, 100); !errors.Is(err, ErrUnknownGoal) {
		t.Fatalf("err = %v, want ErrUnknownGoal", err)
	}
}

func TestLogDay(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)

	if err := tr.LogDay(-1, 1000, nil); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("err = %v, want ErrInvalidDay", err)
	}
	if err := tr.LogDay(0, -5, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}

	k := 16.7
	if err := tr.LogDay(2, 20000, &k); err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	// Re-logging without a threshold keeps the frozen one.
	if err := tr.LogDay(2, 15000, nil); err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	e := tr.State().Log[2]
	if got, ok := e.Threshold(); !ok || got != 16.7 || e.Amount != 15000 {
		t.Fatalf("entry = %+v", e)
	}

	if err := tr.UnlogDay(2); err != nil {
		t.Fatalf("UnlogDay: %v", err)
	}
	if _, ok := tr.State().Log[2]; ok {
		t.Fatal("day 2 still logged")
	}
}

func TestQuickCheck_Toggles(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)

	logged, err := tr.QuickCheck(0)
	if err != nil || !logged {
		t.Fatalf("QuickCheck = %v, %v", logged, err)
	}
	e := tr.State().Log[0]
	// 500000 / 30 -> 16.7K
	if e.Amount != 16700 {
		t.Fatalf("amount = %.0f, want 16700", e.Amount)
	}
	if k, ok := e.Threshold(); !ok || k != 16.7 {
		t.Fatalf("threshold = %v, %v", k, ok)
	}

	logged, err = tr.QuickCheck(0)
	if err != nil || logged {
		t.Fatalf("second QuickCheck = %v, %v; want unlogged", logged, err)
	}
	if len(tr.State().Log) != 0 {
		t.Fatal("log not empty after toggle")
	}
}

func TestQuickStrive(t *testing.T) {
	tr, _ := newTracker(t, 70000, 7)

	amount, err := tr.QuickStrive(0)
	if err != nil {
		t.Fatalf("QuickStrive: %v", err)
	}
	if amount != 10000 {
		t.Fatalf("amount = %.0f, want 10000", amount)
	}
	if k, ok := tr.State().Log[0].Threshold(); !ok || k != 10 {
		t.Fatalf("threshold = %v, %v; want 10", k, ok)
	}

	// Hint met: drop back to the daily minimum, 60000 over 6 days.
	amount, err = tr.QuickStrive(0)
	if err != nil {
		t.Fatalf("QuickStrive: %v", err)
	}
	if amount != 10000 {
		t.Fatalf("amount = %.0f, want 10000", amount)
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	tr, ms := newTracker(t, 500000, 30)
	ms.failErr = errors.New("disk full")

	if err := tr.LogDay(0, 1000, nil); err == nil {
		t.Fatal("LogDay succeeded with a failing store")
	}
	if len(tr.State().Log) != 0 {
		t.Fatal("in-memory state changed despite save failure")
	}
}

func TestReset(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)
	_ = tr.LogDay(0, 1000, nil)
	_ = tr.UpdateActGoal(900000, 60)
	_, _ = tr.ToggleLock()

	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	st := tr.State()
	if st.Locked || len(st.Log) != 0 || st.ActGoal.TargetDays != 30 || len(st.ActBlocks) != 5 {
		t.Fatalf("state after reset = %+v", st)
	}
}

func TestImport(t *testing.T) {
	tr, _ := newTracker(t, 500000, 30)
	days := 14
	amount := 1.0
	doc := &transfer.Document{
		ActTargetDays:   &days,
		ActTargetAmount: &amount,
		ActWeeksConfig:  []model.Block{},
		DailyLogs:       map[int]float64{0: 12000},
	}
	if err := tr.Import(doc); err != nil {
		t.Fatalf("Import: %v", err)
	}
	st := tr.State()
	if st.ActGoal.TargetDays != 14 || st.ActGoal.TargetAmount != MinTargetAmount {
		t.Fatalf("ActGoal = %+v", st.ActGoal)
	}
	if len(st.ActBlocks) != 2 {
		t.Fatalf("ActBlocks = %+v, want rebuilt", st.ActBlocks)
	}
	if st.Log[0].Amount != 12000 {
		t.Fatalf("Log = %+v", st.Log)
	}
}

func TestReport(t *testing.T) {
	tr, _ := newTracker(t, 70000, 7)
	_ = tr.LogDay(0, 10000, nil)
	_ = tr.LogDay(1, 10000, nil)

	r := tr.Report(fixedNow.Add(48 * time.Hour))
	if r.Today != 2 {
		t.Fatalf("Today = %d, want 2", r.Today)
	}
	if r.Actual.Status != model.StatusOnTrack || r.Actual.CompletionDay != 7 {
		t.Fatalf("Actual = %+v", r.Actual)
	}
	if r.Simulation.Status != model.StatusOnTime {
		t.Fatalf("Simulation.Status = %q", r.Simulation.Status)
	}
	want := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	if !r.CompletionDate.Equal(want) {
		t.Fatalf("CompletionDate = %v, want %v", r.CompletionDate, want)
	}
	if r.ActiveBlock != 0 || len(r.Blocks) != 1 {
		t.Fatalf("blocks = %d active %d", len(r.Blocks), r.ActiveBlock)
	}
	if r.Analytics.LastDayLogged != 1 {
		t.Fatalf("LastDayLogged = %d", r.Analytics.LastDayLogged)
	}
}

func TestWithSQLiteStore(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "strive.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer db.Close()

	tr, err := New(db, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	k := 3.0
	if err := tr.LogDay(4, 7000, &k); err != nil {
		t.Fatalf("LogDay: %v", err)
	}

	again, err := New(db)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st := again.State()
	if got, ok := st.Log[4].Threshold(); !ok || got != 3 {
		t.Fatalf("reloaded entry = %+v", st.Log[4])
	}
	if !st.StartDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("StartDate = %v", st.StartDate)
	}
}
