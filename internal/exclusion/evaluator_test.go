package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
)

func caContact() domain.Contact {
	bday := calendar.MustDate(1990, 7, 1)
	return domain.Contact{
		ID:       1,
		Email:    "a@example.com",
		State:    domain.NewState("CA"),
		Birthday: &bday,
	}
}

// CA birthday in-window skip.
func TestEvaluate_CABirthdayInWindow(t *testing.T) {
	c := caContact()
	sendDate := calendar.MustDate(2024, 6, 17)
	v := Evaluate(c, sendDate, 0)
	require.True(t, v.Excluded)
	assert.Contains(t, v.Reason, "Birthday exclusion window for CA")
	require.NotNil(t, v.WindowEndDate)
	assert.Equal(t, calendar.MustDate(2024, 8, 30), *v.WindowEndDate)
}

// CA birthday out-of-window allow. Candidate send date 2024-03-01 is
// outside [2024-06-01, 2024-08-30], so it must be allowed.
func TestEvaluate_CABirthdayOutOfWindow(t *testing.T) {
	c := caContact()
	sendDate := calendar.MustDate(2024, 3, 1)
	v := Evaluate(c, sendDate, 0)
	assert.False(t, v.Excluded)
}

// NY year-round.
func TestEvaluate_NYYearRound(t *testing.T) {
	bday := calendar.MustDate(1990, 6, 15)
	c := domain.Contact{ID: 2, Email: "b@example.com", State: domain.NewState("NY"), Birthday: &bday}
	v := Evaluate(c, calendar.MustDate(2024, 1, 1), 60)
	require.True(t, v.Excluded)
	assert.Equal(t, "Year-round exclusion for NY", v.Reason)
}

// Year-round exclusion for CT, MA, NY, WA.
func TestEvaluate_YearRoundStates(t *testing.T) {
	for _, state := range []string{"CT", "MA", "NY", "WA"} {
		bday := calendar.MustDate(1990, 6, 15)
		c := domain.Contact{ID: 9, State: domain.NewState(state), Birthday: &bday}
		ok, v := ShouldSkip(c, domain.NewAnniversaryKind(domain.AnniversaryBirthday), calendar.MustDate(2024, 6, 15), 60)
		require.True(t, ok, "state=%s", state)
		assert.Contains(t, v.Reason, "Year-round")
	}
}

// Exclusion window boundaries, off-by-one at both endpoints.
func TestEvaluate_CABoundaries(t *testing.T) {
	c := caContact() // birthday 1990-07-01
	buffer := 0
	// Window = [07-01 - 30, 07-01 + 60] = [06-01, 08-30]
	start := calendar.MustDate(2024, 6, 1)
	end := calendar.MustDate(2024, 8, 30)

	assert.True(t, Evaluate(c, start, buffer).Excluded, "start boundary must be excluded")
	assert.True(t, Evaluate(c, end, buffer).Excluded, "end boundary must be excluded")
	assert.False(t, Evaluate(c, start.AddDays(-1), buffer).Excluded, "day before start must be allowed")
	assert.False(t, Evaluate(c, end.AddDays(1), buffer).Excluded, "day after end must be allowed")
}

func TestEvaluate_PreExclusionBuffer(t *testing.T) {
	c := caContact()
	// With a 14-day buffer, window start moves from 06-01 to 05-18.
	d := calendar.MustDate(2024, 5, 20)
	assert.False(t, Evaluate(c, d, 0).Excluded)
	assert.True(t, Evaluate(c, d, 14).Excluded)
}

func TestShouldSkip_CampaignIgnoringExclusions(t *testing.T) {
	c := caContact()
	kind := domain.NewCampaignKind("promo", "inst-1", false, 0, 50)
	ok, _ := ShouldSkip(c, kind, calendar.MustDate(2024, 7, 1), 60)
	assert.False(t, ok)
}

func TestShouldSkip_PostWindowNeverSkipped(t *testing.T) {
	c := caContact()
	kind := domain.NewAnniversaryKind(domain.AnniversaryPostWindow)
	ok, _ := ShouldSkip(c, kind, calendar.MustDate(2024, 7, 1), 60)
	assert.False(t, ok)
}

func TestPostWindowDate(t *testing.T) {
	c := caContact()
	today := calendar.MustDate(2024, 7, 15) // inside the 2024 window [06-01,08-30]
	d := PostWindowDate(c, today, 0)
	require.NotNil(t, d)
	assert.Equal(t, calendar.MustDate(2024, 8, 31), *d)
}

func TestPostWindowDate_NoneWhenClear(t *testing.T) {
	c := caContact()
	today := calendar.MustDate(2024, 3, 1) // outside any window
	d := PostWindowDate(c, today, 0)
	assert.Nil(t, d)
}

func TestEvaluate_NoExclusionForOtherState(t *testing.T) {
	bday := calendar.MustDate(1990, 7, 1)
	c := domain.Contact{ID: 3, State: domain.NewState("TX"), Birthday: &bday}
	v := Evaluate(c, calendar.MustDate(2024, 7, 1), 60)
	assert.False(t, v.Excluded)
}
