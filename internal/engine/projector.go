package engine

import (
	"math"

	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
)

// walker accumulates a cumulative path one day at a time. The running total
// keeps full precision; only the values appended to path are rounded.
type walker struct {
	p     Policy
	goal  model.GoalConfig
	total float64
	day   int
	path  []float64
}

func (w *walker) reached() bool {
	return w.total >= w.goal.TargetAmount
}

func (w *walker) step(rate float64) {
	w.total += rate
	w.path = append(w.path, money.RoundWhole(w.total))
	w.day++
}

// walkBlocks advances through blocks at each block's implied daily rate.
// Blocks that ended on or before the current day are skipped and a block
// already under way only contributes its remaining days.
func (w *walker) walkBlocks(blocks []model.Block) {
	n := len(blocks)
	for i, b := range blocks {
		span := w.p.span(i, n, w.goal.TargetDays)
		start := i * w.p.BlockDays
		end := start + span
		if end <= w.day {
			continue
		}
		rate := b.TotalAmount / float64(span)
		for d := end - max(start, w.day); d > 0 && !w.reached(); d-- {
			w.step(rate)
		}
	}
}

// fallback continues at the last block's rate, never below MinDailyRate,
// until the target is met or DayCap is reached.
func (w *walker) fallback(blocks []model.Block) {
	rate := w.p.MinDailyRate
	if n := len(blocks); n > 0 {
		rate = math.Max(rate, blocks[n-1].TotalAmount/float64(w.p.lastSpan(w.goal.TargetDays)))
	}
	for !w.reached() && w.day < w.p.DayCap {
		w.step(rate)
	}
}

// Project simulates goal progress with the default policy.
func Project(goal model.GoalConfig, blocks []model.Block) model.ProjectionResult {
	return DefaultPolicy().Project(goal, blocks)
}

// Project walks blocks front to back from day zero and returns the
// cumulative path until the target is met.
func (p Policy) Project(goal model.GoalConfig, blocks []model.Block) model.ProjectionResult {
	p = p.normalized()
	w := &walker{p: p, goal: goal, path: []float64{0}}
	w.walkBlocks(blocks)
	w.fallback(blocks)

	return model.ProjectionResult{
		Path:          w.path,
		CompletionDay: w.day,
		Status:        simStatus(w.day, goal.TargetDays),
		Capped:        !w.reached(),
	}
}

func simStatus(day, targetDays int) model.SimStatus {
	switch {
	case day < targetDays:
		return model.StatusEarly
	case day == targetDays:
		return model.StatusOnTime
	default:
		return model.StatusLate
	}
}
