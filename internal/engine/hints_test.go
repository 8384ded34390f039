package engine

import (
	"testing"
	"time"

	"github.com/theirongolddev/strive/internal/model"
)

var monthGoal = model.GoalConfig{TargetAmount: 500000, TargetDays: 30}

func TestDisplayMinK_NeverBelowMinimalRate(t *testing.T) {
	p := DefaultPolicy()
	log := model.DailyLog{0: model.Amount(600000)}
	if got := p.DisplayMinK(monthGoal, log); got != 2 {
		t.Fatalf("DisplayMinK = %.1f, want 2", got)
	}
	if got := p.DisplayMinK(monthGoal, model.DailyLog{}); got != 16.7 {
		t.Fatalf("DisplayMinK = %.1f, want 16.7", got)
	}
}

func TestActiveBlock(t *testing.T) {
	p := DefaultPolicy()
	blocks := p.Allocate(monthGoal, nil, true)

	if got := p.ActiveBlock(0, monthGoal, blocks, nil); got != 0 {
		t.Errorf("today 0 -> %d, want 0", got)
	}
	if got := p.ActiveBlock(29, monthGoal, blocks, nil); got != 4 {
		t.Errorf("today 29 -> %d, want 4", got)
	}

	log := model.DailyLog{}
	for d := 0; d < 10; d++ {
		log[d] = model.Amount(20000)
	}
	if got := p.ActiveBlock(-1, monthGoal, blocks, log); got != 1 {
		t.Errorf("before start with 10 logged days -> %d, want 1", got)
	}
	for d := 0; d < 30; d++ {
		log[d] = model.Amount(20000)
	}
	if got := p.ActiveBlock(45, monthGoal, blocks, log); got != 4 {
		t.Errorf("after end with full log -> %d, want 4", got)
	}
	if got := p.ActiveBlock(3, monthGoal, nil, log); got != -1 {
		t.Errorf("no blocks -> %d, want -1", got)
	}
}

func TestBlockProgress(t *testing.T) {
	p := DefaultPolicy()
	blocks := p.Allocate(monthGoal, nil, true)
	log := model.DailyLog{
		0: model.AmountWithThreshold(20000, 16.7),
		1: model.AmountWithThreshold(5000, 16.7),
		8: model.Amount(30000),
	}
	progress := p.BlockProgress(monthGoal, blocks, log)

	if len(progress) != 5 {
		t.Fatalf("len = %d, want 5", len(progress))
	}
	first := progress[0]
	if first.Logged != 25000 || first.LoggedDays != 2 {
		t.Fatalf("block 0 logged %.0f over %d days", first.Logged, first.LoggedDays)
	}
	if !first.MetDays[0] || first.MetDays[1] {
		t.Fatalf("block 0 MetDays = %v", first.MetDays)
	}
	if progress[1].StartDay != 7 || !progress[1].MetDays[1] {
		t.Fatalf("block 1 = %+v", progress[1])
	}
	if last := progress[4]; last.Span != 2 || len(last.MetDays) != 2 {
		t.Fatalf("trailing block = %+v", last)
	}
}

func TestStriveHintK(t *testing.T) {
	p := DefaultPolicy()
	goal := model.GoalConfig{TargetAmount: 70000, TargetDays: 7}
	blocks := []model.Block{{ID: 0, TotalAmount: 70000}}

	if got := p.StriveHintK(goal, blocks, nil, 0); got != 10 {
		t.Fatalf("empty log hint = %.0f, want 10", got)
	}

	log := model.DailyLog{0: model.Amount(4000), 1: model.Amount(6000)}
	// 60000 left over 5 days.
	if got := p.StriveHintK(goal, blocks, log, 2); got != 12 {
		t.Fatalf("hint = %.0f, want 12", got)
	}
	// Day 1 itself counts as unlogged: 66000 over 6 days.
	if got := p.StriveHintK(goal, blocks, log, 1); got != 11 {
		t.Fatalf("hint for logged day = %.0f, want 11", got)
	}

	if got := p.StriveHintK(goal, blocks, log, 7); got != 0 {
		t.Fatalf("hint outside blocks = %.0f, want 0", got)
	}
}

func TestDayIndex(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	start := time.Date(2026, 3, 1, 18, 30, 0, 0, loc)

	if got := DayIndex(start, time.Date(2026, 3, 1, 8, 0, 0, 0, loc)); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
	if got := DayIndex(start, time.Date(2026, 3, 31, 0, 1, 0, 0, loc)); got != 30 {
		t.Errorf("30 days later = %d, want 30", got)
	}
	if got := DayIndex(start, time.Date(2026, 2, 27, 12, 0, 0, 0, loc)); got != -2 {
		t.Errorf("before start = %d, want -2", got)
	}
	if got := DayIndex(time.Time{}, start); got != -1 {
		t.Errorf("zero start = %d, want -1", got)
	}
}

func TestCompletionDate(t *testing.T) {
	start := time.Date(2026, 1, 30, 15, 0, 0, 0, time.UTC)
	got := CompletionDate(start, 30)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("CompletionDate = %v, want %v", got, want)
	}
	if !CompletionDate(time.Time{}, 5).IsZero() {
		t.Fatal("CompletionDate with zero start should be zero")
	}
}
