// Package campaign implements CampaignPlanner: active-instance
// filtering, targeting, and spread-even/date-based distribution.
package campaign

import (
	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/exclusion"
	"github.com/ignite/policymail-scheduler/internal/jitter"
)

// TypeLookup resolves a campaign_type_config by name.
type TypeLookup func(typeName string) (domain.CampaignTypeConfig, bool)

// Plan produces the set of Campaign candidates for contact against the
// given active instances, as of today. Non-matching or
// inactive instances contribute nothing; matching instances contribute
// exactly one candidate, already run through ExclusionEvaluator according
// to the instance's respect-exclusions flag.
func Plan(
	contact domain.Contact,
	instances []domain.CampaignInstance,
	typeOf TypeLookup,
	today calendar.Date,
	org domain.OrganizationConfig,
) []domain.EmailSchedule {
	var out []domain.EmailSchedule

	for _, inst := range instances {
		if !inst.ActiveOn(today) {
			continue
		}
		ct, ok := typeOf(inst.TypeName)
		if !ok || !ct.Active {
			continue
		}
		if !matches(contact, inst, ct, org) {
			continue
		}

		sendDate := sendDateFor(contact, inst, ct, today)
		kind := domain.NewCampaignKind(ct.Name, inst.ID, ct.RespectExclusionWindows, ct.DaysBeforeEvent, ct.Priority)

		skip, verdict := exclusion.ShouldSkip(contact, kind, sendDate, org.PreExclusionBufferDays)
		sched := domain.EmailSchedule{
			ContactID:          contact.ID,
			Kind:               kind,
			ScheduledDate:      sendDate,
			ScheduledTime:      sendTime(org),
			Priority:           kind.Priority(),
			Status:             domain.StatusPreScheduled,
			CampaignInstanceID: inst.ID,
			TemplateID:         inst.TemplateID,
		}
		if skip {
			sched.Status = domain.StatusSkipped
			sched.SkipReason = verdict.Reason
		}
		out = append(out, sched)
	}

	return out
}

func sendTime(org domain.OrganizationConfig) calendar.Time {
	t, _ := calendar.NewTime(org.SendTimeHour, org.SendTimeMinute, 0)
	return t
}

// matches implements the targeting rule: state/carrier targeting, the
// universal+no-zip gate, and the failed-underwriting exclusion (with an
// AEP exemption from the organization-wide override).
func matches(contact domain.Contact, inst domain.CampaignInstance, ct domain.CampaignTypeConfig, org domain.OrganizationConfig) bool {
	if !inst.MatchesState(contact.State.Code) {
		return false
	}
	if !inst.MatchesCarrier(contact.Carrier) {
		return false
	}
	if inst.TargetsUniversally() && !contact.HasZipOrState() && !org.SendWithoutZipcodeForUniversal {
		return false
	}
	if contact.FailedUnderwriting {
		exemptedFromGlobal := ct.Name == domain.AEPCampaignTypeName
		if ct.SkipFailedUnderwriting {
			return false
		}
		if org.ExcludeFailedUnderwritingGlobal && !exemptedFromGlobal {
			return false
		}
	}
	return true
}

// sendDateFor computes the contact's send date for inst: a
// deterministic point inside [spread_start, spread_end] when spread_evenly
// is configured and both bounds are set, otherwise
// (active_start_date or today) adjusted by days_before_event.
func sendDateFor(contact domain.Contact, inst domain.CampaignInstance, ct domain.CampaignTypeConfig, today calendar.Date) calendar.Date {
	if ct.SpreadEvenly && inst.HasSpreadWindow() {
		span := calendar.DiffDays(*inst.SpreadStartDate, *inst.SpreadEndDate) + 1
		offset := jitter.RendezvousScore(contact.ID, inst.ID, span)
		return inst.SpreadStartDate.AddDays(offset)
	}

	base := today
	if inst.ActiveStartDate != nil {
		base = *inst.ActiveStartDate
	}
	return base.AddDays(-ct.DaysBeforeEvent)
}
