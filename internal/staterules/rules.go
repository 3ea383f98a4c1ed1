// Package staterules maps a contact's home state to its exclusion policy.
// The table is a pure static lookup: one struct literal per entry, no
// behavior beyond the lookup itself.
package staterules

// RuleKind discriminates the closed ExclusionRule union.
type RuleKind int

const (
	NoExclusion RuleKind = iota
	BirthdayWindow
	EffectiveDateWindow
	YearRoundExclusion
)

// Rule is the closed tagged union mapping a state to its exclusion policy.
// Only the fields relevant to Kind are meaningful.
type Rule struct {
	Kind RuleKind

	// BirthdayWindow / EffectiveDateWindow fields.
	BeforeDays    int
	AfterDays     int
	UseMonthStart bool // BirthdayWindow only; NV anchors on the 1st of the birthday month.
}

// table holds the exclusion values kept for compatibility with the
// downstream sender.
var table = map[string]Rule{
	"CA": {Kind: BirthdayWindow, BeforeDays: 30, AfterDays: 60},
	"ID": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 63},
	"KY": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 60},
	"MD": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 30},
	"NV": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 60, UseMonthStart: true},
	"OK": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 60},
	"OR": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 31},
	"VA": {Kind: BirthdayWindow, BeforeDays: 0, AfterDays: 30},

	"MO": {Kind: EffectiveDateWindow, BeforeDays: 30, AfterDays: 33},

	"CT": {Kind: YearRoundExclusion},
	"MA": {Kind: YearRoundExclusion},
	"NY": {Kind: YearRoundExclusion},
	"WA": {Kind: YearRoundExclusion},
}

// Lookup returns the exclusion rule for stateCode. Codes outside the
// table -- including the "Other" variant of domain.State -- resolve to
// NoExclusion. Year-round exclusion states stay first-class members of
// the state enum; they are not special-cased anywhere outside this table.
func Lookup(stateCode string) Rule {
	if r, ok := table[stateCode]; ok {
		return r
	}
	return Rule{Kind: NoExclusion}
}
