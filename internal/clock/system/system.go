// Package system provides the real clock and sleeper used outside tests.
package system

import (
	"context"
	"fmt"
	"time"
)

// Clock reads wall time in a fixed location and sleeps on real timers.
type Clock struct {
	loc *time.Location
}

// New creates a Clock reporting times in loc; nil means the process's local zone.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Now returns the current time in the configured location.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Sleep blocks for delay or until ctx is done.
func (c *Clock) Sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
