// Package exclusion implements jurisdiction-specific exclusion-window
// evaluation with a pre-window buffer.
package exclusion

import (
	"fmt"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/staterules"
)

// Verdict is the result of evaluating a candidate send date against a
// contact's state exclusion policy.
type Verdict struct {
	Excluded     bool
	Reason       string
	WindowEndDate *calendar.Date // set only when Excluded is true and the rule carries a trailing window edge
}

// notExcluded is the zero-value NotExcluded verdict.
var notExcluded = Verdict{}

// Evaluate decides whether sendDate for contact falls inside an exclusion
// window, regardless of email kind (ShouldSkip applies the per-kind
// policy), per the priority-ordered algorithm:
//  1. state-level YearRoundExclusion always wins,
//  2. birthday window (if the contact has a birthday and the state rule is
//     BirthdayWindow),
//  3. effective-date window (if the contact has an effective date and the
//     state rule is EffectiveDateWindow),
//  4. otherwise NotExcluded.
func Evaluate(contact domain.Contact, sendDate calendar.Date, bufferDays int) Verdict {
	rule := staterules.Lookup(contact.State.Code)

	if rule.Kind == staterules.YearRoundExclusion {
		return Verdict{
			Excluded: true,
			Reason:   fmt.Sprintf("Year-round exclusion for %s", contact.State.Code),
		}
	}

	if rule.Kind == staterules.BirthdayWindow && contact.Birthday != nil {
		if v, ok := birthdayVerdict(contact, sendDate, rule, bufferDays); ok {
			return v
		}
	}

	if rule.Kind == staterules.EffectiveDateWindow && contact.EffectiveDate != nil {
		if v, ok := effectiveDateVerdict(contact, sendDate, rule, bufferDays); ok {
			return v
		}
	}

	return notExcluded
}

// birthdayVerdict checks sendDate against the anchor-year, prior-year, and
// next-year incarnations of the birthday window, to cover year-boundary
// crossings.
func birthdayVerdict(contact domain.Contact, sendDate calendar.Date, rule staterules.Rule, bufferDays int) (Verdict, bool) {
	anchor := anchorFor(sendDate, *contact.Birthday, rule)
	for _, candidateAnchor := range []calendar.Date{
		anchorInYear(anchor.Year-1, *contact.Birthday, rule),
		anchor,
		anchorInYear(anchor.Year+1, *contact.Birthday, rule),
	} {
		if inWindow(sendDate, candidateAnchor, rule.BeforeDays+bufferDays, rule.AfterDays) {
			end := candidateAnchor.AddDays(rule.AfterDays)
			return Verdict{
				Excluded:      true,
				Reason:        fmt.Sprintf("Birthday exclusion window for %s", contact.State.Code),
				WindowEndDate: &end,
			}, true
		}
	}
	return Verdict{}, false
}

func effectiveDateVerdict(contact domain.Contact, sendDate calendar.Date, rule staterules.Rule, bufferDays int) (Verdict, bool) {
	anchor := calendar.NextAnniversary(sendDate, *contact.EffectiveDate)
	for _, candidateAnchor := range []calendar.Date{
		calendar.Date{Year: anchor.Year - 1, Month: anchor.Month, Day: anchor.Day},
		anchor,
		calendar.Date{Year: anchor.Year + 1, Month: anchor.Month, Day: anchor.Day},
	} {
		if inWindow(sendDate, candidateAnchor, rule.BeforeDays+bufferDays, rule.AfterDays) {
			end := candidateAnchor.AddDays(rule.AfterDays)
			return Verdict{
				Excluded:      true,
				Reason:        fmt.Sprintf("Effective date exclusion window for %s", contact.State.Code),
				WindowEndDate: &end,
			}, true
		}
	}
	return Verdict{}, false
}

// anchorFor computes the birthday-window anchor relative to sendDate: the
// next anniversary, adjusted to the 1st of the month when the rule sets
// UseMonthStart (NV).
func anchorFor(sendDate calendar.Date, birthday calendar.Date, rule staterules.Rule) calendar.Date {
	anchor := calendar.NextAnniversary(sendDate, birthday)
	if rule.UseMonthStart {
		anchor.Day = 1
	}
	return anchor
}

// anchorInYear computes the birthday anchor for a specific year, honoring
// leap fallback and UseMonthStart, without relying on "next >= sendDate"
// semantics (used for the previous/next year window checks).
func anchorInYear(year int, birthday calendar.Date, rule staterules.Rule) calendar.Date {
	day := birthday.Day
	if birthday.Month == 2 && birthday.Day == 29 && !calendar.IsLeapYear(year) {
		day = 28
	}
	anchor := calendar.Date{Year: year, Month: birthday.Month, Day: day}
	if rule.UseMonthStart {
		anchor.Day = 1
	}
	return anchor
}

// inWindow reports whether d falls in [anchor-beforeDays, anchor+afterDays] inclusive.
func inWindow(d, anchor calendar.Date, beforeDays, afterDays int) bool {
	start := anchor.AddDays(-beforeDays)
	end := anchor.AddDays(afterDays)
	return !d.Before(start) && !d.After(end)
}

// ShouldSkip applies the skipping policy: a Campaign with
// RespectExclusions=false is never skipped; Anniversary(PostWindow) is
// never skipped (it exists to recover from an exclusion window); otherwise
// skip iff Evaluate returns Excluded.
func ShouldSkip(contact domain.Contact, kind domain.EmailKind, sendDate calendar.Date, bufferDays int) (bool, Verdict) {
	if kind.Tag == domain.KindCampaign && !kind.RespectExclusions {
		return false, notExcluded
	}
	if kind.Tag == domain.KindAnniversary && kind.Anniversary == domain.AnniversaryPostWindow {
		return false, notExcluded
	}
	v := Evaluate(contact, sendDate, bufferDays)
	return v.Excluded, v
}

// PostWindowDate returns the earliest date a PostWindow email may be
// scheduled: max(window_end over every currently-active birthday/ED
// exclusion anchored around today) + 1 day, or nil if none apply.
func PostWindowDate(contact domain.Contact, today calendar.Date, bufferDays int) *calendar.Date {
	rule := staterules.Lookup(contact.State.Code)

	var latest *calendar.Date
	consider := func(v Verdict, ok bool) {
		if ok && v.Excluded && v.WindowEndDate != nil {
			if latest == nil || v.WindowEndDate.After(*latest) {
				latest = v.WindowEndDate
			}
		}
	}

	if rule.Kind == staterules.BirthdayWindow && contact.Birthday != nil {
		v, ok := birthdayVerdict(contact, today, rule, bufferDays)
		consider(v, ok)
	}
	if rule.Kind == staterules.EffectiveDateWindow && contact.EffectiveDate != nil {
		v, ok := effectiveDateVerdict(contact, today, rule, bufferDays)
		consider(v, ok)
	}

	if latest == nil {
		return nil
	}
	next := latest.AddDays(1)
	return &next
}
