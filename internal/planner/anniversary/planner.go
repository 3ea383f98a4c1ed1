// Package anniversary implements AnniversaryPlanner: birthday,
// effective-date, post-window, and AEP schedules per contact.
package anniversary

import (
	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/exclusion"
)

// Candidate is a planned schedule before LoadBalancer reordering, carrying
// enough of ExclusionEvaluator's verdict to become a PreScheduled or
// Skipped EmailSchedule row.
type Candidate struct {
	Schedule domain.EmailSchedule
}

// Plan produces the ordered set of anniversary candidates for contact as
// of today, in priority order: Birthday(10), EffectiveDate(20),
// PostWindow(40), AEP(40). Each candidate has already been run through
// ExclusionEvaluator; excluded candidates carry Status=Skipped with their
// reason rather than being dropped.
func Plan(contact domain.Contact, today calendar.Date, org domain.OrganizationConfig) []domain.EmailSchedule {
	var out []domain.EmailSchedule

	if contact.Birthday != nil {
		out = append(out, planBirthday(contact, today, org))
	}
	if contact.EffectiveDate != nil {
		if s, ok := planEffectiveDate(contact, today, org); ok {
			out = append(out, s)
		}
	}
	if org.EnablePostWindowEmails {
		if d := exclusion.PostWindowDate(contact, today, org.PreExclusionBufferDays); d != nil {
			out = append(out, planPostWindow(contact, *d, org))
		}
	}
	out = append(out, planAEP(contact, today, org))

	return out
}

func sendTime(org domain.OrganizationConfig) calendar.Time {
	t, _ := calendar.NewTime(org.SendTimeHour, org.SendTimeMinute, 0)
	return t
}

func stamp(contact domain.Contact, kind domain.EmailKind, date calendar.Date, org domain.OrganizationConfig) domain.EmailSchedule {
	skip, verdict := exclusion.ShouldSkip(contact, kind, date, org.PreExclusionBufferDays)
	sched := domain.EmailSchedule{
		ContactID:     contact.ID,
		Kind:          kind,
		ScheduledDate: date,
		ScheduledTime: sendTime(org),
		Priority:      kind.Priority(),
		Status:        domain.StatusPreScheduled,
	}
	if skip {
		sched.Status = domain.StatusSkipped
		sched.SkipReason = verdict.Reason
	}
	return sched
}

func planBirthday(contact domain.Contact, today calendar.Date, org domain.OrganizationConfig) domain.EmailSchedule {
	anniv := calendar.NextAnniversary(today, *contact.Birthday)
	sendDate := anniv.AddDays(-org.BirthdayDaysBefore)
	kind := domain.NewAnniversaryKind(domain.AnniversaryBirthday)
	return stamp(contact, kind, sendDate, org)
}

// planEffectiveDate returns (schedule, true) unless the contact is too new
// to receive their first effective-date email yet: skip if
// (today - effective_date) in months < org.EffectiveDateFirstEmailMonths.
func planEffectiveDate(contact domain.Contact, today calendar.Date, org domain.OrganizationConfig) (domain.EmailSchedule, bool) {
	if monthsSince(*contact.EffectiveDate, today) < org.EffectiveDateFirstEmailMonths {
		return domain.EmailSchedule{}, false
	}
	anniv := calendar.NextAnniversary(today, *contact.EffectiveDate)
	sendDate := anniv.AddDays(-org.EffectiveDateDaysBefore)
	kind := domain.NewAnniversaryKind(domain.AnniversaryEffectiveDate)
	return stamp(contact, kind, sendDate, org), true
}

// monthsSince returns the whole number of calendar months between from and
// to (to - from), never negative.
func monthsSince(from, to calendar.Date) int {
	months := (to.Year-from.Year)*12 + (to.Month - from.Month)
	if to.Day < from.Day {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func planPostWindow(contact domain.Contact, date calendar.Date, org domain.OrganizationConfig) domain.EmailSchedule {
	kind := domain.NewAnniversaryKind(domain.AnniversaryPostWindow)
	// PostWindow is never skipped by ExclusionEvaluator,
	// but stamp() still runs it through ShouldSkip for uniformity; ShouldSkip
	// short-circuits to NotExcluded for this variant.
	return stamp(contact, kind, date, org)
}

// planAEP emits the fixed seasonal AEP anniversary candidate at
// (current_year, org.AEPMonth, org.AEPDay); AEP is treated as a fixed
// seasonal date rather than a per-contact anniversary.
func planAEP(contact domain.Contact, today calendar.Date, org domain.OrganizationConfig) domain.EmailSchedule {
	date := calendar.Date{Year: today.Year, Month: org.AEPMonth, Day: org.AEPDay}
	kind := domain.NewAnniversaryKind(domain.AnniversaryAEP)
	return stamp(contact, kind, date, org)
}
