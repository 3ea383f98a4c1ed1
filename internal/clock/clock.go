// Package clock provides an injectable time source so no component other
// than this one ever calls the process wall clock directly.
package clock

import (
	"time"

	"github.com/ignite/policymail-scheduler/internal/calendar"
)

// Clock returns "today" and "now" in a configured timezone.
type Clock interface {
	// Today returns the current calendar date in loc.
	Today(loc *time.Location) calendar.Date
	// Now returns the current instant.
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Today returns time.Now() projected onto loc and truncated to a Date.
func (RealClock) Today(loc *time.Location) calendar.Date {
	now := time.Now().In(loc)
	y, m, d := now.Date()
	return calendar.Date{Year: y, Month: int(m), Day: d}
}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }

// Fixed is a deterministic test Clock that always reports the same instant,
// regardless of location -- the engine's tests construct this instead of
// depending on wall-clock time.
type Fixed struct {
	Instant time.Time
}

// NewFixed builds a Fixed clock anchored at instant.
func NewFixed(instant time.Time) Fixed { return Fixed{Instant: instant} }

// Today returns Instant projected onto loc.
func (f Fixed) Today(loc *time.Location) calendar.Date {
	t := f.Instant.In(loc)
	y, m, d := t.Date()
	return calendar.Date{Year: y, Month: int(m), Day: d}
}

// Now returns Instant.
func (f Fixed) Now() time.Time { return f.Instant }
