package model

import "time"

// SimStatus classifies a simulated completion day against the target.
type SimStatus string

const (
	StatusEarly  SimStatus = "early"
	StatusOnTime SimStatus = "on-time"
	StatusLate   SimStatus = "late"
)

// TrackStatus classifies the actual/projected completion.
type TrackStatus string

const (
	StatusCompleted TrackStatus = "completed"
	StatusOnTrack   TrackStatus = "on-track"
	StatusBehind    TrackStatus = "behind"
)

// ProjectionResult is a simulated cumulative path. Path[0] is always 0 and
// CompletionDay == len(Path)-1. Capped is set when the day cap stopped the
// walk short of the target.
type ProjectionResult struct {
	Path          []float64 `json:"path"`
	CompletionDay int       `json:"completionDay"`
	Status        SimStatus `json:"status"`
	Capped        bool      `json:"capped,omitempty"`
}

// TrackResult aligns what actually happened with a forecast from the last
// logged day and the ideal path from day zero.
type TrackResult struct {
	ActualPath     []float64   `json:"actualPath"`
	ProjectionPath []float64   `json:"projectionPath"`
	StrivePath     []float64   `json:"strivePath"`
	Status         TrackStatus `json:"status"`
	CompletionDay  int         `json:"completionDay"`
	Capped         bool        `json:"capped,omitempty"`
}

// HeatCell is one day of the consistency heatmap. ValK is the logged value in
// thousands; Intensity is 0..4.
type HeatCell struct {
	Day       int     `json:"day"`
	Intensity int     `json:"intensity"`
	ValK      float64 `json:"val"`
}

// AnalyticsResult holds consistency metrics derived from the daily log.
type AnalyticsResult struct {
	Streak        int        `json:"streak"`
	MaxStreak     int        `json:"maxStreak"`
	Heatmap       []HeatCell `json:"heatmap"`
	Insight       string     `json:"insight"`
	CurrentMinK   float64    `json:"currentMinK"`
	LastDayLogged int        `json:"lastDayLogged"`
	TotalLogged   float64    `json:"totalLogged"`
}

// BlockProgress summarizes one tracking block for display. DayLogged and
// MetDays are indexed by day offset within the block.
type BlockProgress struct {
	ID         int     `json:"id"`
	StartDay   int     `json:"startDay"`
	Span       int     `json:"span"`
	Target     float64 `json:"target"`
	Logged     float64 `json:"logged"`
	LoggedDays int     `json:"loggedDays"`
	MinK       float64 `json:"minK"`
	DayLogged  []bool  `json:"dayLogged"`
	MetDays    []bool  `json:"metDays"`
}

// Report bundles every derived view of a state for one "today".
type Report struct {
	Today          int              `json:"today"`
	Locked         bool             `json:"locked"`
	SimGoal        GoalConfig       `json:"simGoal"`
	ActGoal        GoalConfig       `json:"actGoal"`
	Simulation     ProjectionResult `json:"simulation"`
	Actual         TrackResult      `json:"actual"`
	Analytics      AnalyticsResult  `json:"analytics"`
	Blocks         []BlockProgress  `json:"blocks"`
	ActiveBlock    int              `json:"activeBlock"`
	DisplayMinK    float64          `json:"displayMinK"`
	CompletionDate time.Time        `json:"completionDate,omitempty"`
}
