package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
)

func typeTable(configs ...domain.CampaignTypeConfig) TypeLookup {
	byName := make(map[string]domain.CampaignTypeConfig, len(configs))
	for _, c := range configs {
		byName[c.Name] = c
	}
	return func(name string) (domain.CampaignTypeConfig, bool) {
		c, ok := byName[name]
		return c, ok
	}
}

func orgDefaults() domain.OrganizationConfig {
	o := domain.DefaultOrganizationConfig()
	return o
}

func TestPlan_InactiveInstanceSkipped(t *testing.T) {
	start := calendar.MustDate(2024, 1, 1)
	end := calendar.MustDate(2024, 1, 31)
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring", ActiveStartDate: &start, ActiveEndDate: &end}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX")}

	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), orgDefaults())
	assert.Empty(t, out)
}

func TestPlan_InactiveTypeSkipped(t *testing.T) {
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring"}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: false}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX")}

	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), orgDefaults())
	assert.Empty(t, out)
}

// Targeting by state excludes non-matching contacts.
func TestPlan_StateTargetingExcludesNonMatch(t *testing.T) {
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring", TargetStates: "CA,NV"}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true}
	tx := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX")}
	ca := domain.Contact{ID: 2, Email: "b@x.com", State: domain.NewState("CA")}

	outTX := Plan(tx, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), orgDefaults())
	outCA := Plan(ca, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), orgDefaults())
	assert.Empty(t, outTX)
	assert.Len(t, outCA, 1)
}

func TestPlan_UniversalNoZipGateBlocksWithoutOverride(t *testing.T) {
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring"}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true}
	c := domain.Contact{ID: 1, Email: "a@x.com"} // no zip, no state

	org := orgDefaults()
	org.SendWithoutZipcodeForUniversal = false
	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), org)
	assert.Empty(t, out)

	org.SendWithoutZipcodeForUniversal = true
	out = Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), org)
	assert.Len(t, out, 1)
}

// The AEP campaign type is exempt from the global
// failed-underwriting exclusion.
func TestPlan_AEPExemptFromGlobalFailedUnderwriting(t *testing.T) {
	inst := domain.CampaignInstance{ID: "i1", TypeName: domain.AEPCampaignTypeName}
	ct := domain.CampaignTypeConfig{Name: domain.AEPCampaignTypeName, Active: true}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX"), FailedUnderwriting: true}

	org := orgDefaults()
	org.ExcludeFailedUnderwritingGlobal = true
	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), org)
	require.Len(t, out, 1)
}

func TestPlan_NonAEPBlockedByGlobalFailedUnderwriting(t *testing.T) {
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring"}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX"), FailedUnderwriting: true}

	org := orgDefaults()
	org.ExcludeFailedUnderwritingGlobal = true
	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), org)
	assert.Empty(t, out)
}

func TestPlan_TypeLevelSkipFailedUnderwritingAppliesRegardlessOfGlobal(t *testing.T) {
	inst := domain.CampaignInstance{ID: "i1", TypeName: domain.AEPCampaignTypeName}
	ct := domain.CampaignTypeConfig{Name: domain.AEPCampaignTypeName, Active: true, SkipFailedUnderwriting: true}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX"), FailedUnderwriting: true}

	org := orgDefaults()
	org.ExcludeFailedUnderwritingGlobal = false
	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), org)
	assert.Empty(t, out)
}

func TestPlan_SpreadEvenlyDeterministicWithinWindow(t *testing.T) {
	spreadStart := calendar.MustDate(2024, 8, 1)
	spreadEnd := calendar.MustDate(2024, 8, 31)
	inst := domain.CampaignInstance{
		ID: "i1", TypeName: "spring",
		SpreadStartDate: &spreadStart, SpreadEndDate: &spreadEnd,
	}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true, SpreadEvenly: true}
	c := domain.Contact{ID: 42, Email: "a@x.com", State: domain.NewState("TX")}

	out1 := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), orgDefaults())
	out2 := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 1), orgDefaults())
	require.Len(t, out1, 1)
	require.Len(t, out2, 1)
	assert.Equal(t, out1[0].ScheduledDate, out2[0].ScheduledDate)
	assert.False(t, out1[0].ScheduledDate.Before(spreadStart))
	assert.False(t, out1[0].ScheduledDate.After(spreadEnd))
}

func TestPlan_DaysBeforeEventOffsetFromActiveStart(t *testing.T) {
	start := calendar.MustDate(2024, 6, 15)
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring", ActiveStartDate: &start}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true, DaysBeforeEvent: 5}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("TX")}

	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), calendar.MustDate(2024, 6, 15), orgDefaults())
	require.Len(t, out, 1)
	assert.Equal(t, calendar.MustDate(2024, 6, 10), out[0].ScheduledDate)
}

func TestPlan_RespectExclusionWindowsSkipsInCABirthdayWindow(t *testing.T) {
	bday := calendar.MustDate(1990, 7, 1)
	inst := domain.CampaignInstance{ID: "i1", TypeName: "spring"}
	ct := domain.CampaignTypeConfig{Name: "spring", Active: true, RespectExclusionWindows: true}
	c := domain.Contact{ID: 1, Email: "a@x.com", State: domain.NewState("CA"), Birthday: &bday}

	today := calendar.MustDate(2024, 7, 15) // inside CA birthday window
	out := Plan(c, []domain.CampaignInstance{inst}, typeTable(ct), today, orgDefaults())
	require.Len(t, out, 1)
	assert.Equal(t, domain.StatusSkipped, out[0].Status)
}
