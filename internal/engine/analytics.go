package engine

import (
	"fmt"
	"math"

	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
)

// Insight messages, lowest priority first.
const (
	InsightFirstDay  = "Ready to start your journey? Log your first day!"
	InsightKeepGoing = "Keep going! Consistency is the key to financial freedom."
	InsightHalfway   = "Halfway there! You've secured 50% of your real goal. Finish strong!"
	InsightPace      = "The daily requirement is getting high. Try to log a big save soon to stabilize it."
)

// StreakInsight is the celebration message for a streak of n days.
func StreakInsight(n int) string {
	return fmt.Sprintf("Impressive! You are on a %d-day winning streak! 🔥", n)
}

// Analyze computes streaks, heatmap and insight with the default policy.
func Analyze(goal model.GoalConfig, log model.DailyLog) model.AnalyticsResult {
	return DefaultPolicy().Analyze(goal, log)
}

// Analyze scores the log against the goal in a single forward pass over
// days 0..last logged day. Entries at or beyond goal.TargetDays are ignored.
// A logged day is judged against the threshold frozen when it was logged,
// or against the current dynamic minimum when none was frozen.
func (p Policy) Analyze(goal model.GoalConfig, log model.DailyLog) model.AnalyticsResult {
	p = p.normalized()
	inRange := log.Before(goal.TargetDays)
	if len(inRange) == 0 {
		return model.AnalyticsResult{
			Heatmap:       []model.HeatCell{},
			Insight:       InsightFirstDay,
			LastDayLogged: -1,
		}
	}

	total := inRange.Total()
	last := inRange.LastDay()
	minK := p.minK(goal, total, last)

	var streak, maxStreak, freezeDays int
	heatmap := make([]model.HeatCell, 0, last+1)

	for d := 0; d <= last; d++ {
		e, ok := inRange[d]
		if !ok {
			streak = 0
			freezeDays = 0
			heatmap = append(heatmap, model.HeatCell{Day: d})
			continue
		}

		threshold := minK
		if k, frozen := e.Threshold(); frozen {
			threshold = k
		}
		valK := e.Amount / money.Thousand

		switch {
		case valK >= threshold:
			streak++
			freezeDays = 0
		case e.Amount >= p.MinDailyRate:
			// Minimal effort keeps the streak alive for a limited run.
			freezeDays++
			if freezeDays > p.MaxFreezeDays {
				streak = 0
				freezeDays = 0
			}
		default:
			streak = 0
			freezeDays = 0
		}
		maxStreak = max(maxStreak, streak)

		heatmap = append(heatmap, model.HeatCell{
			Day:       d,
			Intensity: intensity(valK / threshold),
			ValK:      valK,
		})
	}

	insight := InsightKeepGoing
	if streak >= p.CelebrateStreak {
		insight = StreakInsight(streak)
	}
	if total >= goal.TargetAmount*p.HalfwayRatio {
		insight = InsightHalfway
	}
	if minK > p.PaceWarningK {
		insight = InsightPace
	}

	return model.AnalyticsResult{
		Streak:        streak,
		MaxStreak:     maxStreak,
		Heatmap:       heatmap,
		Insight:       insight,
		CurrentMinK:   minK,
		LastDayLogged: last,
		TotalLogged:   total,
	}
}

// intensity buckets a value/threshold ratio into 0..4. NaN maps to 0.
func intensity(ratio float64) int {
	level := 0
	if ratio > 0 {
		level = 1
	}
	if ratio >= 1 {
		level = 2
	}
	if ratio >= 1.5 {
		level = 3
	}
	if ratio >= 2 {
		level = 4
	}
	return level
}

// DynamicMinK returns the daily amount, in thousands rounded to one decimal,
// still needed from the day after the last logged day to finish on time.
func DynamicMinK(goal model.GoalConfig, log model.DailyLog) float64 {
	return DefaultPolicy().DynamicMinK(goal, log)
}

// DynamicMinK is the policy-aware form of the package-level DynamicMinK.
// It is well defined for an empty log.
func (p Policy) DynamicMinK(goal model.GoalConfig, log model.DailyLog) float64 {
	inRange := log.Before(goal.TargetDays)
	return p.minK(goal, inRange.Total(), inRange.LastDay())
}

func (p Policy) minK(goal model.GoalConfig, total float64, last int) float64 {
	remaining := math.Max(0, goal.TargetAmount-total)
	remainingDays := max(1, goal.TargetDays-(last+1))
	return money.ToK(remaining/float64(remainingDays), 1)
}
