package domain

import (
	"strings"

	"github.com/ignite/policymail-scheduler/internal/calendar"
)

// CampaignTypeConfig is the organization-level configuration shared by all
// instances of a named campaign type.
type CampaignTypeConfig struct {
	Name                    string
	RespectExclusionWindows bool
	EnableFollowups         bool
	DaysBeforeEvent         int
	TargetAllContacts       bool
	Priority                int
	Active                  bool
	SpreadEvenly            bool
	SkipFailedUnderwriting  bool
}

// AEPCampaignTypeName is the reserved campaign type name exempt from the
// global failed-underwriting exclusion.
const AEPCampaignTypeName = "aep"

// targetList is a parsed target_states/target_carriers value: either
// universal (absent or "ALL") or an explicit set of codes.
type targetList struct {
	universal bool
	codes     map[string]bool
}

// parseTargetList parses the comma-separated "ALL" / absent / CSV grammar
// shared by target_states and target_carriers.
func parseTargetList(raw string) targetList {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "ALL") {
		return targetList{universal: true}
	}
	codes := make(map[string]bool)
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			codes[strings.ToUpper(part)] = true
		}
	}
	return targetList{codes: codes}
}

func (t targetList) matches(code string) bool {
	if t.universal {
		return true
	}
	return t.codes[strings.ToUpper(code)]
}

// CampaignInstance is a single scheduled run of a campaign type, with its
// own targeting and activation window.
type CampaignInstance struct {
	ID               string
	TypeName         string
	InstanceName     string
	TemplateID       string
	ActiveStartDate  *calendar.Date
	ActiveEndDate    *calendar.Date
	SpreadStartDate  *calendar.Date
	SpreadEndDate    *calendar.Date
	TargetStates     string // raw grammar: absent/"ALL"/CSV
	TargetCarriers   string // raw grammar: absent/"ALL"/CSV
	Metadata         map[string]string
}

// ActiveOn reports whether the instance is active on today:
// (active_start_date is None or <= today) and (active_end_date is None or >= today).
func (ci CampaignInstance) ActiveOn(today calendar.Date) bool {
	if ci.ActiveStartDate != nil && today.Before(*ci.ActiveStartDate) {
		return false
	}
	if ci.ActiveEndDate != nil && today.After(*ci.ActiveEndDate) {
		return false
	}
	return true
}

// TargetsUniversally reports whether both target_states and
// target_carriers are effectively universal (absent or "ALL"), used by the
// no-zip gate in CampaignPlanner.
func (ci CampaignInstance) TargetsUniversally() bool {
	return parseTargetList(ci.TargetStates).universal && parseTargetList(ci.TargetCarriers).universal
}

// MatchesState reports whether stateCode satisfies target_states.
func (ci CampaignInstance) MatchesState(stateCode string) bool {
	return parseTargetList(ci.TargetStates).matches(stateCode)
}

// MatchesCarrier reports whether carrier satisfies target_carriers.
func (ci CampaignInstance) MatchesCarrier(carrier string) bool {
	return parseTargetList(ci.TargetCarriers).matches(carrier)
}

// HasSpreadWindow reports whether both spread_start_date and
// spread_end_date are set, the precondition for spread-even send-date
// computation.
func (ci CampaignInstance) HasSpreadWindow() bool {
	return ci.SpreadStartDate != nil && ci.SpreadEndDate != nil
}
