package model

// DurationPolicy defines, for one timeframe, the unit a goal's duration is
// expressed in, the inclusive range accepted at create/edit time, and the
// default value used when migration has to replace a missing or invalid
// duration.
//
// Earlier versions carried two diverging default tables (migration used
// monthly=4 weeks and yearly=12 months while creation used monthly=30 days).
// They are unified here on the creation-time table; see DESIGN.md.
type DurationPolicy struct {
	Unit         DurationUnit
	Min          float64
	Max          float64
	DefaultValue float64
	UnitLabel    string
}

var durationPolicies = map[Timeframe]DurationPolicy{
	TimeframeDaily:   {Unit: UnitHours, Min: 0, Max: 24, DefaultValue: 24, UnitLabel: "hours"},
	TimeframeWeekly:  {Unit: UnitDays, Min: 1, Max: 7, DefaultValue: 7, UnitLabel: "days"},
	TimeframeMonthly: {Unit: UnitDays, Min: 1, Max: 31, DefaultValue: 30, UnitLabel: "days"},
	TimeframeYearly:  {Unit: UnitMonths, Min: 1, Max: 12, DefaultValue: 12, UnitLabel: "months"},
}

// PolicyFor returns the duration policy for tf. Unknown timeframes get the
// daily policy, matching the migration default.
func PolicyFor(tf Timeframe) DurationPolicy {
	if p, ok := durationPolicies[tf]; ok {
		return p
	}
	return durationPolicies[TimeframeDaily]
}
