package engine

import (
	"testing"

	"github.com/theirongolddev/strive/internal/model"
)

var weekGoal = model.GoalConfig{TargetAmount: 70000, TargetDays: 7}
var weekBlocks = []model.Block{{ID: 0, TotalAmount: 70000}}

func TestCompose_EmptyLogMatchesProjection(t *testing.T) {
	res := Compose(weekGoal, weekBlocks, model.DailyLog{})

	if len(res.ActualPath) != 1 || res.ActualPath[0] != 0 {
		t.Fatalf("ActualPath = %v, want [0]", res.ActualPath)
	}
	if res.CompletionDay != 7 {
		t.Fatalf("CompletionDay = %d, want 7", res.CompletionDay)
	}
	if res.Status != model.StatusOnTrack {
		t.Fatalf("Status = %q, want on-track", res.Status)
	}
	sim := Project(weekGoal, weekBlocks)
	if len(res.ProjectionPath) != len(sim.Path) {
		t.Fatalf("projection len %d, simulation len %d", len(res.ProjectionPath), len(sim.Path))
	}
}

func TestCompose_OnTrack(t *testing.T) {
	log := model.DailyLog{0: model.Amount(10000), 1: model.Amount(10000)}
	res := Compose(weekGoal, weekBlocks, log)

	want := []float64{0, 10000, 20000}
	for i := range want {
		if res.ActualPath[i] != want[i] {
			t.Fatalf("ActualPath = %v, want %v", res.ActualPath, want)
		}
	}
	if res.CompletionDay != 7 || res.Status != model.StatusOnTrack {
		t.Fatalf("got day %d status %q, want 7 on-track", res.CompletionDay, res.Status)
	}
	if res.ProjectionPath[2] != 20000 || res.ProjectionPath[3] != 30000 {
		t.Fatalf("ProjectionPath = %v", res.ProjectionPath)
	}
}

func TestCompose_BehindAfterShortfall(t *testing.T) {
	log := model.DailyLog{0: model.Amount(5000)}
	res := Compose(weekGoal, weekBlocks, log)

	if res.Status != model.StatusBehind {
		t.Fatalf("Status = %q, want behind", res.Status)
	}
	if res.CompletionDay != 8 {
		t.Fatalf("CompletionDay = %d, want 8", res.CompletionDay)
	}
	if res.CompletionDay != len(res.ProjectionPath)-1 {
		t.Fatalf("CompletionDay %d != len(projection)-1 %d", res.CompletionDay, len(res.ProjectionPath)-1)
	}
	assertMonotonic(t, "projection", res.ProjectionPath)
}

func TestCompose_GapCountsAsZero(t *testing.T) {
	log := model.DailyLog{0: model.Amount(10000), 2: model.Amount(10000)}
	res := Compose(weekGoal, weekBlocks, log)

	want := []float64{0, 10000, 10000, 20000}
	if len(res.ActualPath) != len(want) {
		t.Fatalf("ActualPath = %v, want %v", res.ActualPath, want)
	}
	for i := range want {
		if res.ActualPath[i] != want[i] {
			t.Fatalf("ActualPath = %v, want %v", res.ActualPath, want)
		}
	}
	if res.CompletionDay != 8 {
		t.Fatalf("CompletionDay = %d, want 8", res.CompletionDay)
	}
}

func TestCompose_Completed(t *testing.T) {
	log := model.DailyLog{0: model.Amount(30000), 1: model.Amount(45000)}
	res := Compose(weekGoal, weekBlocks, log)

	if res.Status != model.StatusCompleted {
		t.Fatalf("Status = %q, want completed", res.Status)
	}
	if res.CompletionDay != 2 {
		t.Fatalf("CompletionDay = %d, want 2", res.CompletionDay)
	}
	if len(res.ProjectionPath) != len(res.ActualPath) {
		t.Fatalf("projection %v != actual %v", res.ProjectionPath, res.ActualPath)
	}
	res.ProjectionPath[0] = -1
	if res.ActualPath[0] != 0 {
		t.Fatal("ProjectionPath aliases ActualPath")
	}
}

func TestCompose_StrivePathIgnoresLog(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 500000, TargetDays: 30}
	blocks := Allocate(goal, nil, true)
	sim := Project(goal, blocks)

	res := Compose(goal, blocks, model.DailyLog{0: model.Amount(1), 5: model.Amount(90000)})
	if len(res.StrivePath) != len(sim.Path) {
		t.Fatalf("StrivePath len %d, want %d", len(res.StrivePath), len(sim.Path))
	}
	for i := range sim.Path {
		if res.StrivePath[i] != sim.Path[i] {
			t.Fatalf("StrivePath[%d] = %.0f, want %.0f", i, res.StrivePath[i], sim.Path[i])
		}
	}
}

func TestCompose_DoesNotMutateInputs(t *testing.T) {
	log := model.DailyLog{0: model.Amount(10000)}
	blocks := model.CloneBlocks(weekBlocks)
	Compose(weekGoal, blocks, log)

	if len(log) != 1 || log[0].Amount != 10000 {
		t.Fatalf("log mutated: %+v", log)
	}
	if blocks[0].TotalAmount != 70000 {
		t.Fatalf("blocks mutated: %+v", blocks)
	}
}

func TestCompose_SkipsElapsedBlocks(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 100000, TargetDays: 10}
	blocks := []model.Block{{ID: 0, TotalAmount: 70000}, {ID: 1, TotalAmount: 30000}}
	log := model.DailyLog{8: model.Amount(5000)}

	res := Compose(goal, blocks, log)

	// Days 0-8 are actual; block 0 (days 0-6) is over, block 1 adds day 9,
	// then the walk continues at block 1's 10000/day until the target.
	want := make([]float64, 9, 20)
	want = append(want, 5000)
	for v := 15000.0; v <= 105000; v += 10000 {
		want = append(want, v)
	}
	if len(res.ProjectionPath) != len(want) {
		t.Fatalf("ProjectionPath = %v, want %v", res.ProjectionPath, want)
	}
	for i := range want {
		if res.ProjectionPath[i] != want[i] {
			t.Fatalf("ProjectionPath[%d] = %.0f, want %.0f (path %v)", i, res.ProjectionPath[i], want[i], res.ProjectionPath)
		}
	}
	if res.CompletionDay != 19 || res.CompletionDay != len(res.ProjectionPath)-1 {
		t.Fatalf("CompletionDay = %d, projection len %d; want 19", res.CompletionDay, len(res.ProjectionPath))
	}
	if res.Status != model.StatusBehind {
		t.Fatalf("Status = %q, want behind", res.Status)
	}
	assertMonotonic(t, "projection", res.ProjectionPath)
}
