// Package pickup computes and validates pickup times. All values are
// wall-clock "HH:MM" strings compared on the current calendar day
// only; there is no date component and no rollover past midnight.
package pickup

import (
	"fmt"
	"time"
)

const (
	// DefaultPrepWindow is the minimum preparation time before an order
	// can be picked up.
	DefaultPrepWindow = 20 * time.Minute

	roundingStep = 5 // minutes
)

type Policy struct {
	Prep time.Duration
}

func NewPolicy(prep time.Duration) Policy {
	if prep <= 0 {
		prep = DefaultPrepWindow
	}
	return Policy{Prep: prep}
}

// earliestMinutes returns the earliest pickup moment as minutes since
// midnight: now plus the prep window, rounded up to the next
// five-minute boundary. An exact boundary is kept as-is. Near midnight
// the value can exceed 24h, in which case no same-day candidate
// validates.
func (p Policy) earliestMinutes(now time.Time) int {
	t := now.Add(p.Prep)
	mins := t.Hour()*60 + t.Minute()
	if t.Second() > 0 || t.Nanosecond() > 0 {
		mins++
	}
	if t.Day() != now.Day() {
		mins += 24 * 60
	}
	return (mins + roundingStep - 1) / roundingStep * roundingStep
}

// Earliest returns the earliest allowed pickup time in "HH:MM" form.
func (p Policy) Earliest(now time.Time) string {
	mins := p.earliestMinutes(now) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// Valid reports whether candidate, taken as a time-of-day on the
// current calendar day, is at or after the earliest pickup time.
// Malformed candidates are invalid.
func (p Policy) Valid(candidate string, now time.Time) bool {
	t, err := time.Parse("15:04", candidate)
	if err != nil {
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return mins >= p.earliestMinutes(now)
}
