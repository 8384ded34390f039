package tracker

import (
	"time"

	"github.com/theirongolddev/strive/internal/engine"
	"github.com/theirongolddev/strive/internal/model"
)

// Report derives every view of the current state as of now.
func (t *Tracker) Report(now time.Time) model.Report {
	return BuildReport(t.State(), t.policy, now)
}

// BuildReport derives every view of st as of now. A capped projection has
// no completion date.
func BuildReport(st model.State, p engine.Policy, now time.Time) model.Report {
	today := engine.DayIndex(st.StartDate, now)
	actual := p.Compose(st.ActGoal, st.ActBlocks, st.Log)

	r := model.Report{
		Today:       today,
		Locked:      st.Locked,
		SimGoal:     st.SimGoal,
		ActGoal:     st.ActGoal,
		Simulation:  p.Project(st.SimGoal, st.SimBlocks),
		Actual:      actual,
		Analytics:   p.Analyze(st.ActGoal, st.Log),
		Blocks:      p.BlockProgress(st.ActGoal, st.ActBlocks, st.Log),
		ActiveBlock: p.ActiveBlock(today, st.ActGoal, st.ActBlocks, st.Log),
		DisplayMinK: p.DisplayMinK(st.ActGoal, st.Log),
	}
	if !actual.Capped {
		r.CompletionDate = engine.CompletionDate(st.StartDate, actual.CompletionDay)
	}
	return r
}

// StriveHintK returns the strive suggestion for day in thousands.
func (t *Tracker) StriveHintK(day int) float64 {
	st := t.State()
	return t.policy.StriveHintK(st.ActGoal, st.ActBlocks, st.Log, day)
}
