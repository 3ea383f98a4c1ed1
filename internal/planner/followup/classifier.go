// Package followup implements FollowupClassifier: classifying each of a
// contact's qualifying sends into one of four follow-up variants, delayed
// by the organization's configured follow-up delay.
package followup

import (
	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
)

// Signal carries the facts about one prior send that the classifier needs:
// whether the recipient clicked through, and whether they answered the
// downstream health questionnaire, and how.
type Signal struct {
	Schedule       domain.EmailSchedule
	Clicked        bool
	AnsweredHQ     bool
	AnsweredYes    bool
}

// Classify inspects the contact's sent history within the lookback window
// and returns one follow-up candidate per qualifying send that is due as of
// today.
//
// Precedence per send:
//  1. answered the health questionnaire with a "yes"  -> HQWithYes
//  2. answered the health questionnaire without a "yes" -> HQNoYes
//  3. clicked through but never reached the questionnaire -> ClickedNoHQ
//  4. sent but never clicked -> Cold
//
// Only sends whose Status is Sent are eligible signals. Every eligible
// signal inside org.LookbackDaysForFollowup gets its own follow-up
// candidate, due FollowupDelayDays after that send's date; a send still
// within its delay window produces no candidate yet.
func Classify(contact domain.Contact, signals []Signal, today calendar.Date, org domain.OrganizationConfig) []domain.EmailSchedule {
	t, _ := calendar.NewTime(org.SendTimeHour, org.SendTimeMinute, 0)

	var out []domain.EmailSchedule
	for _, s := range eligibleSignals(signals, today, org.LookbackDaysForFollowup) {
		dueDate := s.Schedule.ScheduledDate.AddDays(org.FollowupDelayDays)
		if today.Before(dueDate) {
			continue
		}

		kind := domain.NewFollowupKind(classifyVariant(s))
		out = append(out, domain.EmailSchedule{
			ContactID:     contact.ID,
			Kind:          kind,
			ScheduledDate: dueDate,
			ScheduledTime: t,
			Priority:      kind.Priority(),
			Status:        domain.StatusPreScheduled,
		})
	}

	return out
}

func classifyVariant(s Signal) domain.FollowupVariant {
	switch {
	case s.AnsweredHQ && s.AnsweredYes:
		return domain.FollowupHQWithYes
	case s.AnsweredHQ:
		return domain.FollowupHQNoYes
	case s.Clicked:
		return domain.FollowupClickedNoHQ
	default:
		return domain.FollowupCold
	}
}

// eligibleSignals returns every Sent signal whose send date is within
// lookbackDays of today, skipping already-terminal follow-up rows (a
// follow-up never chains off another follow-up), in their original order.
func eligibleSignals(signals []Signal, today calendar.Date, lookbackDays int) []Signal {
	var out []Signal

	for _, s := range signals {
		if s.Schedule.Status != domain.StatusSent {
			continue
		}
		if s.Schedule.Kind.Tag == domain.KindFollowup {
			continue
		}
		age := calendar.DiffDays(s.Schedule.ScheduledDate, today)
		if age < 0 || age > lookbackDays {
			continue
		}
		out = append(out, s)
	}

	return out
}
