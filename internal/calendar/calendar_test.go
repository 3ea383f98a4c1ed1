package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate_InvalidComponents(t *testing.T) {
	_, err := NewDate(2024, 13, 1)
	require.Error(t, err)

	_, err = NewDate(2023, 2, 29) // non-leap year
	require.Error(t, err)

	_, err = NewDate(2024, 2, 29) // leap year, valid
	require.NoError(t, err)
}

func TestAddDays_Rollover(t *testing.T) {
	d := MustDate(2024, 1, 31)
	assert.Equal(t, MustDate(2024, 2, 1), d.AddDays(1))

	d = MustDate(2024, 12, 31)
	assert.Equal(t, MustDate(2025, 1, 1), d.AddDays(1))

	d = MustDate(2024, 3, 1)
	assert.Equal(t, MustDate(2024, 2, 29), d.AddDays(-1)) // leap Feb
}

func TestAddDays_Additive(t *testing.T) {
	// Property 2: add_days(add_days(d, a), b) = add_days(d, a+b)
	d := MustDate(2024, 6, 15)
	for _, pair := range [][2]int{{10, 20}, {-5, 15}, {400, -100}, {0, 0}} {
		a, b := pair[0], pair[1]
		lhs := d.AddDays(a).AddDays(b)
		rhs := d.AddDays(a + b)
		assert.Equal(t, rhs, lhs, "a=%d b=%d", a, b)
	}
}

func TestDiffDays(t *testing.T) {
	a := MustDate(2024, 1, 1)
	b := MustDate(2024, 1, 11)
	assert.Equal(t, 10, DiffDays(a, b))
	assert.Equal(t, -10, DiffDays(b, a))
}

func TestCompare(t *testing.T) {
	a := MustDate(2024, 1, 1)
	b := MustDate(2024, 1, 2)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.False(t, IsLeapYear(2023))
	assert.False(t, IsLeapYear(1900))
	assert.True(t, IsLeapYear(2000))
}

func TestNextAnniversary_FutureOrToday(t *testing.T) {
	// Property 1: next_anniversary(today, event) >= today
	cases := []struct{ today, event Date }{
		{MustDate(2024, 7, 10), MustDate(1990, 7, 1)},
		{MustDate(2024, 7, 10), MustDate(1990, 7, 10)},
		{MustDate(2024, 12, 31), MustDate(1990, 1, 1)},
		{MustDate(2024, 1, 1), MustDate(1992, 2, 29)},
	}
	for _, c := range cases {
		next := NextAnniversary(c.today, c.event)
		assert.False(t, next.Before(c.today), "next=%v today=%v", next, c.today)
	}
}

func TestNextAnniversary_LeapFallback(t *testing.T) {
	// Property 3: for a non-leap year Y and event (_,2,29), next_anniversary((Y,1,1), event).day = 28
	event := MustDate(1992, 2, 29)
	next := NextAnniversary(MustDate(2023, 1, 1), event)
	assert.Equal(t, MustDate(2023, 2, 28), next)
}

func TestNextAnniversary_YearWrap(t *testing.T) {
	// Birthday already passed this year -> rolls to next year.
	next := NextAnniversary(MustDate(2024, 7, 10), MustDate(1990, 1, 1))
	assert.Equal(t, MustDate(2025, 1, 1), next)
}

func TestTimeString(t *testing.T) {
	tm, err := NewTime(8, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", tm.String())

	_, err = NewTime(24, 0, 0)
	require.Error(t, err)
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "2024-07-01", MustDate(2024, 7, 1).String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, MustDate(2024, 7, 1), d)

	_, err = ParseDate("not-a-date")
	require.Error(t, err)
}
