// Package engine projects goal progress and derives consistency analytics.
//
// Every function here is pure: it reads an immutable snapshot of goal
// configuration and log data and returns freshly allocated results. Callers
// re-run the engine after each state change instead of patching old output.
package engine

// Policy carries the tunable constants of the engine. A non-positive field
// falls back to the corresponding DefaultPolicy value, except MaxFreezeDays
// where zero is meaningful and only a negative value falls back.
type Policy struct {
	BlockDays       int     // days per block; the last block may be shorter
	MinDailyRate    float64 // per-day floor, also the minimal-effort bar for freezes
	MaxFreezeDays   int     // consecutive freeze days tolerated before a reset
	DayCap          int     // hard bound on simulated days
	PaceWarningK    float64 // daily minimum (K) above which pace is flagged
	HalfwayRatio    float64 // share of the target that triggers the halfway insight
	CelebrateStreak int     // streak length that triggers the streak insight
}

// DefaultPolicy returns the standard engine constants.
func DefaultPolicy() Policy {
	return Policy{
		BlockDays:       7,
		MinDailyRate:    2000,
		MaxFreezeDays:   2,
		DayCap:          1000,
		PaceWarningK:    5000,
		HalfwayRatio:    0.5,
		CelebrateStreak: 3,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.BlockDays <= 0 {
		p.BlockDays = d.BlockDays
	}
	if p.MinDailyRate <= 0 {
		p.MinDailyRate = d.MinDailyRate
	}
	if p.MaxFreezeDays < 0 {
		p.MaxFreezeDays = d.MaxFreezeDays
	}
	if p.DayCap <= 0 {
		p.DayCap = d.DayCap
	}
	if p.PaceWarningK <= 0 {
		p.PaceWarningK = d.PaceWarningK
	}
	if p.HalfwayRatio <= 0 {
		p.HalfwayRatio = d.HalfwayRatio
	}
	if p.CelebrateStreak <= 0 {
		p.CelebrateStreak = d.CelebrateStreak
	}
	return p
}

// span returns the number of days covered by block i of n for a goal of
// targetDays days.
func (p Policy) span(i, n, targetDays int) int {
	if rem := targetDays % p.BlockDays; i == n-1 && rem != 0 {
		return rem
	}
	return p.BlockDays
}

// lastSpan is the span of the trailing block implied by targetDays alone.
func (p Policy) lastSpan(targetDays int) int {
	if rem := targetDays % p.BlockDays; rem != 0 {
		return rem
	}
	return p.BlockDays
}

// floor is the minimum amount a block of span days may hold.
func (p Policy) floor(span int) float64 {
	return float64(span) * p.MinDailyRate
}

// Span returns the day span of block i among n blocks.
func (p Policy) Span(i, n, targetDays int) int {
	return p.normalized().span(i, n, targetDays)
}

// Floor returns the minimum amount for a block covering span days.
func (p Policy) Floor(span int) float64 {
	return p.normalized().floor(span)
}

// Normalized returns p with every unset field filled from DefaultPolicy.
func (p Policy) Normalized() Policy {
	return p.normalized()
}
