package services

import (
	"time"

	"fintrack/internal/models"
)

// Clock resolves "today" as a calendar date in the ledger's time zone
type Clock struct {
	location *time.Location
	now      func() time.Time
}

// NewClock returns a clock for location. A nil location means UTC and a nil
// now means time.Now.
func NewClock(location *time.Location, now func() time.Time) Clock {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{location: location, now: now}
}

// Today returns the current date in the clock's location at UTC midnight
func (c Clock) Today() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	location := c.location
	if location == nil {
		location = time.UTC
	}
	return models.DateOnly(now().In(location))
}

// Now returns the current instant
func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
