package domain

import "time"

// SizeProfile names a capacity tuple mapping contact population to daily
// send cap and smoothing parameters.
type SizeProfile string

const (
	SizeSmall      SizeProfile = "small"
	SizeMedium     SizeProfile = "medium"
	SizeLarge      SizeProfile = "large"
	SizeEnterprise SizeProfile = "enterprise"
)

// SizeProfileDefaults holds the numeric tuple a SizeProfile expands to
// before any per-field OrganizationConfig override is applied.
type SizeProfileDefaults struct {
	DailySendPercentageCap float64
	EDDailySoftLimit       int
	EDSmoothingWindowDays  int
	BatchSize              int
}

// sizeProfileTable is the static lookup of tiered volume thresholds keyed
// by organization size.
var sizeProfileTable = map[SizeProfile]SizeProfileDefaults{
	SizeSmall:      {DailySendPercentageCap: 0.10, EDDailySoftLimit: 50, EDSmoothingWindowDays: 7, BatchSize: 500},
	SizeMedium:     {DailySendPercentageCap: 0.08, EDDailySoftLimit: 150, EDSmoothingWindowDays: 10, BatchSize: 1000},
	SizeLarge:      {DailySendPercentageCap: 0.06, EDDailySoftLimit: 400, EDSmoothingWindowDays: 14, BatchSize: 2500},
	SizeEnterprise: {DailySendPercentageCap: 0.04, EDDailySoftLimit: 1000, EDSmoothingWindowDays: 21, BatchSize: 5000},
}

// Defaults returns the base tuple for p, falling back to SizeMedium for an
// unrecognized or empty profile name.
func (p SizeProfile) Defaults() SizeProfileDefaults {
	if d, ok := sizeProfileTable[p]; ok {
		return d
	}
	return sizeProfileTable[SizeMedium]
}

// SizeProfileOverrides lets an organization override individual fields of
// its size profile's defaults without abandoning the profile entirely.
// A nil field means "use the profile default".
type SizeProfileOverrides struct {
	DailySendPercentageCap *float64
	EDDailySoftLimit       *int
	EDSmoothingWindowDays  *int
	BatchSize              *int
}

// Resolve applies non-nil overrides on top of p's defaults.
func (o SizeProfileOverrides) Resolve(p SizeProfile) SizeProfileDefaults {
	d := p.Defaults()
	if o.DailySendPercentageCap != nil {
		d.DailySendPercentageCap = *o.DailySendPercentageCap
	}
	if o.EDDailySoftLimit != nil {
		d.EDDailySoftLimit = *o.EDDailySoftLimit
	}
	if o.EDSmoothingWindowDays != nil {
		d.EDSmoothingWindowDays = *o.EDSmoothingWindowDays
	}
	if o.BatchSize != nil {
		d.BatchSize = *o.BatchSize
	}
	return d
}

// OrganizationConfig carries every run-level business toggle and customer
// preference. The driver's arguments carry this plus the store
// handles; no global mutable configuration is read at plan time.
type OrganizationConfig struct {
	// Business toggles.
	EnablePostWindowEmails          bool
	EffectiveDateFirstEmailMonths   int
	ExcludeFailedUnderwritingGlobal bool
	SendWithoutZipcodeForUniversal  bool
	PreExclusionBufferDays          int

	// Customer preferences.
	BirthdayDaysBefore      int
	EffectiveDateDaysBefore int
	SendTimeHour            int
	SendTimeMinute          int
	Timezone                string

	// Frequency limits.
	LookbackDaysForFollowup int
	FollowupDelayDays       int

	// Load balancing.
	OverageThreshold      float64
	CatchUpSpreadDays     int
	EDPercentageOfDailyCap float64

	// Size profile.
	SizeProfile SizeProfile
	Overrides   SizeProfileOverrides

	// AEP seasonal date, treated as a fixed calendar date rather than a
	// per-contact anniversary.
	AEPMonth int
	AEPDay   int
}

// DefaultOrganizationConfig returns the engine's baseline defaults:
// pre-exclusion buffer 60 days, follow-up lookback 35 days, follow-up
// delay 2 days, overage threshold 1.2, catch-up spread 7 days, ED
// percentage of daily cap 0.3, AEP September 15.
func DefaultOrganizationConfig() OrganizationConfig {
	return OrganizationConfig{
		EnablePostWindowEmails:          true,
		EffectiveDateFirstEmailMonths:   0,
		ExcludeFailedUnderwritingGlobal: true,
		SendWithoutZipcodeForUniversal:  false,
		PreExclusionBufferDays:          60,
		BirthdayDaysBefore:              14,
		EffectiveDateDaysBefore:         14,
		SendTimeHour:                    8,
		SendTimeMinute:                  30,
		Timezone:                        "America/Chicago",
		LookbackDaysForFollowup:         35,
		FollowupDelayDays:               2,
		OverageThreshold:                1.2,
		CatchUpSpreadDays:               7,
		EDPercentageOfDailyCap:          0.3,
		SizeProfile:                     SizeMedium,
		AEPMonth:                        9,
		AEPDay:                          15,
	}
}

// Location resolves the configured timezone, falling back to UTC if the
// name is empty or unrecognized rather than failing the whole run.
// internal/config passes the name through without validating it, so this
// fallback is the only handling a bad timezone name gets.
func (o OrganizationConfig) Location() *time.Location {
	if o.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
