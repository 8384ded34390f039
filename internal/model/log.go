package model

import "sort"

// LogEntry is one logged day. An entry is either a bare amount or an amount
// carrying the daily minimum (in thousands) that was in force when it was
// logged. Build entries with Amount or AmountWithThreshold.
type LogEntry struct {
	Amount float64
	MinK   float64
	Frozen bool
}

// Amount returns an entry without a frozen threshold.
func Amount(v float64) LogEntry {
	return LogEntry{Amount: v}
}

// AmountWithThreshold returns an entry that keeps minK as its historical
// threshold. A non-positive minK is stored as a bare amount.
func AmountWithThreshold(v, minK float64) LogEntry {
	if minK <= 0 {
		return LogEntry{Amount: v}
	}
	return LogEntry{Amount: v, MinK: minK, Frozen: true}
}

// Threshold returns the frozen threshold and whether one exists.
func (e LogEntry) Threshold() (float64, bool) {
	if !e.Frozen || e.MinK <= 0 {
		return 0, false
	}
	return e.MinK, true
}

// DailyLog maps a 0-based day index to what was logged that day.
// A missing key means nothing was logged, which differs from a logged 0.
type DailyLog map[int]LogEntry

// Days returns the logged day indices in ascending order.
func (l DailyLog) Days() []int {
	days := make([]int, 0, len(l))
	for d := range l {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// LastDay returns the highest logged day index, or -1 when empty.
func (l DailyLog) LastDay() int {
	last := -1
	for d := range l {
		if d > last {
			last = d
		}
	}
	return last
}

// Total returns the sum of all logged amounts.
func (l DailyLog) Total() float64 {
	var total float64
	for _, e := range l {
		total += e.Amount
	}
	return total
}

// Before returns the entries whose day index lies in [0, limit).
func (l DailyLog) Before(limit int) DailyLog {
	out := make(DailyLog, len(l))
	for d, e := range l {
		if d >= 0 && d < limit {
			out[d] = e
		}
	}
	return out
}

// Clone returns a copy of l.
func (l DailyLog) Clone() DailyLog {
	out := make(DailyLog, len(l))
	for d, e := range l {
		out[d] = e
	}
	return out
}

// SplitLog converts a log into the storage shape: amounts and frozen
// thresholds in two sparse maps.
func SplitLog(l DailyLog) (amounts, thresholds map[int]float64) {
	amounts = make(map[int]float64, len(l))
	thresholds = make(map[int]float64)
	for d, e := range l {
		amounts[d] = e.Amount
		if k, ok := e.Threshold(); ok {
			thresholds[d] = k
		}
	}
	return amounts, thresholds
}

// JoinLog rebuilds a log from the storage shape. Thresholds for days that
// have no amount are dropped.
func JoinLog(amounts, thresholds map[int]float64) DailyLog {
	l := make(DailyLog, len(amounts))
	for d, v := range amounts {
		if k, ok := thresholds[d]; ok {
			l[d] = AmountWithThreshold(v, k)
			continue
		}
		l[d] = Amount(v)
	}
	return l
}
