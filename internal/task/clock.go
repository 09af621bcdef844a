package task

import (
	"fmt"
	"math"
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// DefaultTimezone is the zone timestamps are recorded in unless configured.
const DefaultTimezone = "America/Chicago"

// Clock supplies the current time in a fixed timezone.
type Clock struct {
	Location *time.Location
	// NowFunc overrides time.Now, mostly for tests.
	NowFunc func() time.Time
}

// NewClock creates a clock for the given IANA timezone name.
// An empty name selects DefaultTimezone.
func NewClock(timezone string) (*Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Clock{Location: loc}, nil
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	now := time.Now
	if c.NowFunc != nil {
		now = c.NowFunc
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Today returns the current calendar date in the clock's location.
func (c *Clock) Today() Date {
	return DateOf(c.Now())
}

// AgeDays returns the whole days elapsed between created and now, rounded
// toward negative infinity.
func AgeDays(created, now time.Time) int {
	return int(math.Floor(now.Sub(created).Hours() / 24))
}
