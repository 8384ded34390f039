package engine

import "github.com/theirongolddev/strive/internal/model"

// Compose builds the actual, projected and strive paths with the default
// policy.
func Compose(goal model.GoalConfig, blocks []model.Block, log model.DailyLog) model.TrackResult {
	return DefaultPolicy().Compose(goal, blocks, log)
}

// Compose merges the logged history with a forecast from the day after the
// last logged day. The forecast follows the remaining block rates, then the
// fallback rate. The strive path is the pure projection from day zero,
// independent of the log.
func (p Policy) Compose(goal model.GoalConfig, blocks []model.Block, log model.DailyLog) model.TrackResult {
	p = p.normalized()
	last := log.LastDay()

	actual := make([]float64, 1, last+2)
	var total float64
	for d := 0; d <= last; d++ {
		total += log[d].Amount
		actual = append(actual, total)
	}

	strive := p.Project(goal, blocks).Path

	if total >= goal.TargetAmount {
		return model.TrackResult{
			ActualPath:     actual,
			ProjectionPath: append([]float64(nil), actual...),
			StrivePath:     strive,
			Status:         model.StatusCompleted,
			CompletionDay:  last + 1,
		}
	}

	w := &walker{
		p:     p,
		goal:  goal,
		total: total,
		day:   last + 1,
		path:  append(make([]float64, 0, goal.TargetDays+1), actual...),
	}
	w.walkBlocks(blocks)
	w.fallback(blocks)

	status := model.StatusOnTrack
	if w.day > goal.TargetDays {
		status = model.StatusBehind
	}

	return model.TrackResult{
		ActualPath:     actual,
		ProjectionPath: w.path,
		StrivePath:     strive,
		Status:         status,
		CompletionDay:  w.day,
		Capped:         !w.reached(),
	}
}
