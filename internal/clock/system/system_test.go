// Package system exercises the real-time clock adapter.
package system

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestClockNowLocation ensures the clock reports in its configured zone.
func TestClockNowLocation(t *testing.T) {
	t.Parallel()

	clk := New(time.UTC)
	before := time.Now().UTC().Add(-time.Second)
	got := clk.Now()
	after := time.Now().UTC().Add(time.Second)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected %v to be between %v and %v", got, before, after)
	}
}

func TestClockDefaultsToLocal(t *testing.T) {
	t.Parallel()

	if loc := New(nil).Now().Location(); loc != time.Local {
		t.Fatalf("expected local location, got %v", loc)
	}
}

func TestSleepHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(nil).Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSleepWaits(t *testing.T) {
	t.Parallel()

	start := time.Now()
	if err := New(nil).Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected to sleep at least 20ms, slept %v", elapsed)
	}
	if err := New(nil).Sleep(context.Background(), 0); err != nil {
		t.Fatalf("zero sleep error = %v", err)
	}
}
