package model

// Timeframe classifies a goal into one of the four planning horizons.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeYearly  Timeframe = "yearly"
)

// Timeframes lists all valid timeframes in display order.
var Timeframes = []Timeframe{
	TimeframeDaily,
	TimeframeWeekly,
	TimeframeMonthly,
	TimeframeYearly,
}

// TimeframeLabels maps each timeframe to its heading shown in the UI.
var TimeframeLabels = map[Timeframe]string{
	TimeframeDaily:   "Daily goals",
	TimeframeWeekly:  "Weekly goals",
	TimeframeMonthly: "Monthly goals",
	TimeframeYearly:  "Yearly goals",
}

// IsTimeframe reports whether x is one of the four valid timeframes.
func IsTimeframe(x string) bool {
	switch Timeframe(x) {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeYearly:
		return true
	}
	return false
}

// GoalStatus is a goal's lifecycle state. Only DONE is authoritative when
// persisted; FUTURE and IN_PROGRESS are derived from the clock at read time.
type GoalStatus string

const (
	StatusFuture     GoalStatus = "FUTURE"
	StatusInProgress GoalStatus = "IN_PROGRESS"
	StatusDone       GoalStatus = "DONE"
)

// DurationUnit is the unit a goal's duration is expressed in.
type DurationUnit string

const (
	UnitHours  DurationUnit = "hours"
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
)

// IsDurationUnit reports whether x is a known duration unit.
func IsDurationUnit(x string) bool {
	switch DurationUnit(x) {
	case UnitHours, UnitDays, UnitWeeks, UnitMonths:
		return true
	}
	return false
}

// Goal is one trackable objective scoped to a timeframe.
//
// StartAt and EndAt are calendar-naive local datetimes in the fixed
// zero-padded form "2006-01-02T15:04", so lexicographic order matches
// chronological order. CreatedAt, UpdatedAt and DoneAt are millisecond
// Unix timestamps, matching the persisted JSON of earlier versions.
type Goal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Timeframe  Timeframe `json:"timeframe"`
	CategoryID string    `json:"categoryId"`

	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`

	DurationValue float64      `json:"durationValue"`
	DurationUnit  DurationUnit `json:"durationUnit"`

	// Status holds the last persisted state. Only DONE is trusted on read;
	// use stats.LiveStatus for the displayed value.
	Status GoalStatus `json:"status"`

	// DoneAt is set when the goal transitions into DONE and cleared when it
	// transitions out. Older records may lack it.
	DoneAt *int64 `json:"doneAt,omitempty"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`

	// Legacy date-only fields kept for backward migration. New code never
	// writes them.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// StoredState is the full persisted document: the fixed category table and
// every goal across all timeframes.
type StoredState struct {
	Categories []Category `json:"categories"`
	Goals      []Goal     `json:"goals"`
}
