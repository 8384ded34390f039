package model

import "time"

// State is the full persisted tracker state. The engine only ever reads a
// State; mutations happen in the tracker and produce a new value.
type State struct {
	SimGoal   GoalConfig
	SimBlocks []Block
	ActGoal   GoalConfig
	ActBlocks []Block
	Log       DailyLog
	StartDate time.Time
	Locked    bool
}

// DefaultState returns a fresh state with both goals set to the given target.
// Blocks are left empty for the tracker to build.
func DefaultState(amount float64, days int) State {
	return State{
		SimGoal: GoalConfig{TargetAmount: amount, TargetDays: days},
		ActGoal: GoalConfig{TargetAmount: amount, TargetDays: days},
		Log:     DailyLog{},
	}
}

// Goal returns the goal and blocks for kind.
func (s State) Goal(kind GoalKind) (GoalConfig, []Block) {
	if kind == GoalSim {
		return s.SimGoal, s.SimBlocks
	}
	return s.ActGoal, s.ActBlocks
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.SimBlocks = CloneBlocks(s.SimBlocks)
	c.ActBlocks = CloneBlocks(s.ActBlocks)
	if s.Log != nil {
		c.Log = s.Log.Clone()
	} else {
		c.Log = DailyLog{}
	}
	return c
}
