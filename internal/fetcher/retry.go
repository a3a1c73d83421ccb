package fetcher

import (
	"math"
	"time"
)

type retryState int

const (
	stateAttempting retryState = iota
	stateSucceeded
	stateFailed
)

func (s retryState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// retryMachine tracks Attempting(i) -> Succeeded | Failed. attempt is the 0-based
// index of the attempt currently in flight.
type retryMachine struct {
	maxAttempts int
	baseDelay   time.Duration
	attempt     int
	state       retryState
}

func newRetryMachine(maxAttempts int, baseDelay time.Duration) *retryMachine {
	return &retryMachine{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		state:       stateAttempting,
	}
}

// record applies the result of the current attempt. When another attempt is due
// it advances the index and returns the delay to wait first.
func (m *retryMachine) record(ok bool) time.Duration {
	if m.state != stateAttempting {
		return 0
	}
	if ok {
		m.state = stateSucceeded
		return 0
	}
	if m.attempt+1 >= m.maxAttempts {
		m.state = stateFailed
		return 0
	}
	delay := backoff(m.baseDelay, m.attempt)
	m.attempt++
	return delay
}

// backoff returns base * 2^index, saturating at the largest Duration.
func backoff(base time.Duration, index int) time.Duration {
	if base <= 0 || index <= 0 {
		return max(base, 0)
	}
	if index >= 63 || base > time.Duration(math.MaxInt64>>uint(index)) {
		return time.Duration(math.MaxInt64)
	}
	return base << uint(index)
}
