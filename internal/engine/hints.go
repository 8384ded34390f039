package engine

import (
	"math"

	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
)

// DisplayMinK is the dynamic minimum shown to the user: never below the
// minimal daily rate.
func (p Policy) DisplayMinK(goal model.GoalConfig, log model.DailyLog) float64 {
	p = p.normalized()
	return math.Max(p.MinDailyRate/money.Thousand, p.DynamicMinK(goal, log))
}

// ActiveBlock returns the index of the block the user is working on: the
// one containing today when today is inside the goal, else the one holding
// the first unlogged day, else the last block. It returns -1 without blocks.
func (p Policy) ActiveBlock(today int, goal model.GoalConfig, blocks []model.Block, log model.DailyLog) int {
	p = p.normalized()
	if len(blocks) == 0 {
		return -1
	}
	if today >= 0 && today < goal.TargetDays {
		return min(today/p.BlockDays, len(blocks)-1)
	}
	for d := 0; d < goal.TargetDays; d++ {
		if _, ok := log[d]; !ok {
			return min(d/p.BlockDays, len(blocks)-1)
		}
	}
	return len(blocks) - 1
}

// BlockProgress summarizes each block: what was logged against its target
// and which of its days met their minimum.
func (p Policy) BlockProgress(goal model.GoalConfig, blocks []model.Block, log model.DailyLog) []model.BlockProgress {
	p = p.normalized()
	displayMin := p.DisplayMinK(goal, log)

	out := make([]model.BlockProgress, 0, len(blocks))
	for i, b := range blocks {
		span := p.span(i, len(blocks), goal.TargetDays)
		bp := model.BlockProgress{
			ID:        b.ID,
			StartDay:  i * p.BlockDays,
			Span:      span,
			Target:    b.TotalAmount,
			MinK:      money.RoundWhole(displayMin * float64(span)),
			DayLogged: make([]bool, span),
			MetDays:   make([]bool, span),
		}
		for d := 0; d < span; d++ {
			e, ok := log[bp.StartDay+d]
			if !ok {
				continue
			}
			bp.Logged += e.Amount
			bp.LoggedDays++
			bp.DayLogged[d] = true
			threshold := displayMin
			if k, frozen := e.Threshold(); frozen {
				threshold = k
			}
			bp.MetDays[d] = e.Amount/money.Thousand >= threshold
		}
		out = append(out, bp)
	}
	return out
}

// StriveHintK suggests, in whole thousands, what to log on day so that its
// block still reaches its target: the block's remaining amount spread over
// its unlogged days, counting day itself as unlogged. It returns 0 when day
// falls outside every block.
func (p Policy) StriveHintK(goal model.GoalConfig, blocks []model.Block, log model.DailyLog, day int) float64 {
	p = p.normalized()
	if day < 0 {
		return 0
	}
	idx := day / p.BlockDays
	if idx >= len(blocks) {
		return 0
	}
	block := blocks[idx]
	span := p.span(idx, len(blocks), goal.TargetDays)
	start := idx * p.BlockDays

	var sum float64
	var loggedDays int
	for d := 0; d < span; d++ {
		if e, ok := log[start+d]; ok {
			sum += e.Amount
			loggedDays++
		}
	}

	current, isLogged := log[day]
	if isLogged {
		sum -= current.Amount
		loggedDays--
	}

	remainingDays := span - loggedDays
	if remainingDays <= 0 {
		return money.ToK(block.TotalAmount/float64(span), 0)
	}
	remaining := math.Max(0, block.TotalAmount-sum)
	return money.ToK(remaining/float64(remainingDays), 0)
}
