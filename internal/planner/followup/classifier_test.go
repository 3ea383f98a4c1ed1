package followup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
)

func org() domain.OrganizationConfig {
	o := domain.DefaultOrganizationConfig()
	o.LookbackDaysForFollowup = 35
	o.FollowupDelayDays = 2
	return o
}

func sentSchedule(date calendar.Date) domain.EmailSchedule {
	return domain.EmailSchedule{
		ContactID:     1,
		Kind:          domain.NewAnniversaryKind(domain.AnniversaryBirthday),
		ScheduledDate: date,
		Status:        domain.StatusSent,
	}
}

func TestClassify_NoSignalsNoCandidate(t *testing.T) {
	c := domain.Contact{ID: 1}
	out := Classify(c, nil, calendar.MustDate(2024, 6, 1), org())
	assert.Empty(t, out)
}

func TestClassify_ColdWhenNoClick(t *testing.T) {
	c := domain.Contact{ID: 1}
	sig := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 6, 1))}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 3), org())
	require.Len(t, out, 1)
	assert.Equal(t, domain.FollowupCold, out[0].Kind.Followup)
	assert.Equal(t, calendar.MustDate(2024, 6, 3), out[0].ScheduledDate)
}

func TestClassify_ClickedNoHQ(t *testing.T) {
	c := domain.Contact{ID: 1}
	sig := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 6, 1)), Clicked: true}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 3), org())
	require.Len(t, out, 1)
	assert.Equal(t, domain.FollowupClickedNoHQ, out[0].Kind.Followup)
}

func TestClassify_HQNoYes(t *testing.T) {
	c := domain.Contact{ID: 1}
	sig := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 6, 1)), Clicked: true, AnsweredHQ: true}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 3), org())
	require.Len(t, out, 1)
	assert.Equal(t, domain.FollowupHQNoYes, out[0].Kind.Followup)
}

func TestClassify_HQWithYes(t *testing.T) {
	c := domain.Contact{ID: 1}
	sig := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 6, 1)), Clicked: true, AnsweredHQ: true, AnsweredYes: true}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 3), org())
	require.Len(t, out, 1)
	assert.Equal(t, domain.FollowupHQWithYes, out[0].Kind.Followup)
}

func TestClassify_NotYetDue(t *testing.T) {
	c := domain.Contact{ID: 1}
	sig := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 6, 1))}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 2), org())
	assert.Empty(t, out)
}

func TestClassify_OutsideLookbackWindowIgnored(t *testing.T) {
	c := domain.Contact{ID: 1}
	sig := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 1, 1))}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 1), org())
	assert.Empty(t, out)
}

// A contact with two distinct qualifying sends in the lookback window gets
// a follow-up candidate for each, not just the most recent.
func TestClassify_EmitsOnePerQualifyingSend(t *testing.T) {
	c := domain.Contact{ID: 1}
	older := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 5, 1))}
	newer := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 5, 20)), Clicked: true}
	out := Classify(c, []Signal{older, newer}, calendar.MustDate(2024, 5, 25), org())
	require.Len(t, out, 2)

	byDate := make(map[calendar.Date]domain.EmailSchedule, len(out))
	for _, s := range out {
		byDate[s.ScheduledDate] = s
	}
	olderDue := byDate[calendar.MustDate(2024, 5, 3)]
	newerDue := byDate[calendar.MustDate(2024, 5, 22)]
	assert.Equal(t, domain.FollowupCold, olderDue.Kind.Followup)
	assert.Equal(t, domain.FollowupClickedNoHQ, newerDue.Kind.Followup)
}

// A qualifying send still within its delay window produces no candidate
// yet, even when an older send in the same batch is already due.
func TestClassify_MixOfDueAndNotYetDue(t *testing.T) {
	c := domain.Contact{ID: 1}
	due := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 5, 1))}
	notDue := Signal{Schedule: sentSchedule(calendar.MustDate(2024, 5, 2)), Clicked: true}
	out := Classify(c, []Signal{due, notDue}, calendar.MustDate(2024, 5, 3), org())
	require.Len(t, out, 1)
	assert.Equal(t, calendar.MustDate(2024, 5, 3), out[0].ScheduledDate)
}

func TestClassify_UnsentRowIgnored(t *testing.T) {
	c := domain.Contact{ID: 1}
	unsent := sentSchedule(calendar.MustDate(2024, 6, 1))
	unsent.Status = domain.StatusSkipped
	sig := Signal{Schedule: unsent}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 3), org())
	assert.Empty(t, out)
}

func TestClassify_FollowupRowNeverChains(t *testing.T) {
	c := domain.Contact{ID: 1}
	followupRow := domain.EmailSchedule{
		Kind:          domain.NewFollowupKind(domain.FollowupCold),
		ScheduledDate: calendar.MustDate(2024, 6, 1),
		Status:        domain.StatusSent,
	}
	sig := Signal{Schedule: followupRow}
	out := Classify(c, []Signal{sig}, calendar.MustDate(2024, 6, 3), org())
	assert.Empty(t, out)
}
