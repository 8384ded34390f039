package engine

import (
	"testing"

	"github.com/theirongolddev/strive/internal/model"
)

func assertMonotonic(t *testing.T, name string, path []float64) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		if path[i] < path[i-1] {
			t.Fatalf("%s not monotonic at %d: %.2f < %.2f", name, i, path[i], path[i-1])
		}
	}
}

func TestProject_SingleBlockOnTime(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 70000, TargetDays: 7}
	res := Project(goal, []model.Block{{ID: 0, TotalAmount: 70000}})

	want := []float64{0, 10000, 20000, 30000, 40000, 50000, 60000, 70000}
	if len(res.Path) != len(want) {
		t.Fatalf("path len = %d, want %d (%v)", len(res.Path), len(want), res.Path)
	}
	for i := range want {
		if res.Path[i] != want[i] {
			t.Errorf("path[%d] = %.0f, want %.0f", i, res.Path[i], want[i])
		}
	}
	if res.CompletionDay != 7 {
		t.Errorf("CompletionDay = %d, want 7", res.CompletionDay)
	}
	if res.Status != model.StatusOnTime {
		t.Errorf("Status = %q, want on-time", res.Status)
	}
	if res.Capped {
		t.Error("Capped = true, want false")
	}
}

func TestProject_EarlyWhenBlocksExceedTarget(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 50000, TargetDays: 7}
	res := Project(goal, []model.Block{{ID: 0, TotalAmount: 70000}})

	if res.CompletionDay != 5 {
		t.Fatalf("CompletionDay = %d, want 5", res.CompletionDay)
	}
	if res.Status != model.StatusEarly {
		t.Fatalf("Status = %q, want early", res.Status)
	}
}

func TestProject_LateUsesFallback(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 100000, TargetDays: 7}
	res := Project(goal, []model.Block{{ID: 0, TotalAmount: 70000}})

	// 7 days at 10000, then 3 more at the last block's rate.
	if res.CompletionDay != 10 {
		t.Fatalf("CompletionDay = %d, want 10", res.CompletionDay)
	}
	if res.Status != model.StatusLate {
		t.Fatalf("Status = %q, want late", res.Status)
	}
	if res.Path[len(res.Path)-1] != 100000 {
		t.Fatalf("final = %.0f, want 100000", res.Path[len(res.Path)-1])
	}
}

func TestProject_FractionalRateKeepsPrecision(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 10000, TargetDays: 3}
	res := Project(goal, []model.Block{{ID: 0, TotalAmount: 10000}})

	want := []float64{0, 3333, 6667}
	for i := range want {
		if res.Path[i] != want[i] {
			t.Fatalf("path = %v, want prefix %v", res.Path, want)
		}
	}
}

func TestProject_DayCap(t *testing.T) {
	p := DefaultPolicy()
	p.DayCap = 50
	goal := model.GoalConfig{TargetAmount: 1e9, TargetDays: 7}
	res := p.Project(goal, []model.Block{{ID: 0, TotalAmount: 14000}})

	if !res.Capped {
		t.Fatal("Capped = false, want true")
	}
	if res.CompletionDay != 50 {
		t.Fatalf("CompletionDay = %d, want 50", res.CompletionDay)
	}
	if len(res.Path) != 51 {
		t.Fatalf("path len = %d, want 51", len(res.Path))
	}
}

func TestProject_NoBlocksFallsBackToMinimumRate(t *testing.T) {
	goal := model.GoalConfig{TargetAmount: 6000, TargetDays: 3}
	res := Project(goal, nil)
	if res.CompletionDay != 3 {
		t.Fatalf("CompletionDay = %d, want 3", res.CompletionDay)
	}
}

func TestProject_Properties(t *testing.T) {
	goals := []model.GoalConfig{
		{TargetAmount: 2000, TargetDays: 1},
		{TargetAmount: 100000, TargetDays: 13},
		{TargetAmount: 500000, TargetDays: 30},
		{TargetAmount: 1234567, TargetDays: 90},
	}
	for _, g := range goals {
		blocks := Allocate(g, nil, true)
		res := Project(g, blocks)

		assertMonotonic(t, "simulation", res.Path)
		if res.Path[0] != 0 {
			t.Errorf("goal %+v path[0] = %.0f", g, res.Path[0])
		}
		if res.CompletionDay != len(res.Path)-1 {
			t.Errorf("goal %+v CompletionDay %d != len(path)-1 %d", g, res.CompletionDay, len(res.Path)-1)
		}
		want := simStatus(res.CompletionDay, g.TargetDays)
		if res.Status != want {
			t.Errorf("goal %+v status %q, want %q", g, res.Status, want)
		}
	}
}
