package engine

import (
	"math"

	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
)

// Allocate partitions goal into blocks using the default policy.
func Allocate(goal model.GoalConfig, existing []model.Block, rebuild bool) []model.Block {
	return DefaultPolicy().Allocate(goal, existing, rebuild)
}

// Allocate partitions goal into blocks of BlockDays days, the last one
// holding the remainder. When rebuild is set or the block count no longer
// matches, every block is recomputed from the goal's even daily share.
// Otherwise existing amounts are kept and only raised to their floor, so
// manual per-block edits survive structurally neutral goal changes.
// existing is never modified.
func (p Policy) Allocate(goal model.GoalConfig, existing []model.Block, rebuild bool) []model.Block {
	p = p.normalized()
	days := goal.TargetDays
	if days < 1 {
		days = 1
	}

	full := days / p.BlockDays
	extra := days % p.BlockDays
	total := full
	if extra > 0 {
		total++
	}

	if rebuild || len(existing) != total {
		perDay := goal.TargetAmount / float64(days)
		blocks := make([]model.Block, 0, total)
		for i := 0; i < full; i++ {
			share := money.NearestThousand(perDay * float64(p.BlockDays))
			blocks = append(blocks, model.Block{
				ID:          i,
				TotalAmount: math.Max(p.floor(p.BlockDays), share),
			})
		}
		if extra > 0 {
			share := money.NearestThousand(perDay * float64(extra))
			blocks = append(blocks, model.Block{
				ID:          full,
				TotalAmount: math.Max(p.floor(extra), share),
			})
		}
		return blocks
	}

	blocks := model.CloneBlocks(existing)
	for i := range blocks {
		if minAmount := p.floor(p.span(i, total, days)); blocks[i].TotalAmount < minAmount {
			blocks[i].TotalAmount = minAmount
		}
	}
	return blocks
}

// SetBlockAmount sets the amount of the block with the given id using the
// default policy.
func SetBlockAmount(goal model.GoalConfig, blocks []model.Block, id int, amount float64) ([]model.Block, float64, bool) {
	return DefaultPolicy().SetBlockAmount(goal, blocks, id, amount)
}

// SetBlockAmount returns a copy of blocks with block id set to amount,
// clamped up to the block's floor, and the amount actually stored. ok is
// false when no block has that id.
func (p Policy) SetBlockAmount(goal model.GoalConfig, blocks []model.Block, id int, amount float64) ([]model.Block, float64, bool) {
	p = p.normalized()
	idx := -1
	for i, b := range blocks {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.CloneBlocks(blocks), 0, false
	}

	out := model.CloneBlocks(blocks)
	stored := math.Max(p.floor(p.span(idx, len(out), goal.TargetDays)), amount)
	out[idx].TotalAmount = stored
	return out, stored, true
}
