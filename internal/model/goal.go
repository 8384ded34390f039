// Package model defines domain types for strive goals, logs and derived results.
package model

// GoalKind selects one of the two independent goals a state carries.
type GoalKind string

const (
	// GoalSim is the hypothetical goal used by the simulation lab.
	GoalSim GoalKind = "sim"
	// GoalAct is the goal the daily log is tracked against.
	GoalAct GoalKind = "act"
)

// Valid reports whether k names a known goal.
func (k GoalKind) Valid() bool {
	return k == GoalSim || k == GoalAct
}

// GoalConfig is a target amount to reach within a number of days.
type GoalConfig struct {
	TargetAmount float64 `json:"targetAmount" yaml:"targetAmount"`
	TargetDays   int     `json:"targetDays" yaml:"targetDays"`
}

// Block is a contiguous chunk of days with its own sub-target amount.
// ID matches the block's position at creation time.
type Block struct {
	ID          int     `json:"id" yaml:"id"`
	TotalAmount float64 `json:"totalAmount" yaml:"totalAmount"`
}

// CloneBlocks returns a copy of blocks that shares no memory with the input.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return out
}
