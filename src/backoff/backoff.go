// Package backoff computes the delay between two attempts of the same
// request. A Policy holds no state: the delay is a pure function of the
// attempt number, so one Policy can be shared by any number of concurrent
// requests.
package backoff

import (
	"fmt"
	"time"

	jpbackoff "github.com/jpillora/backoff"
)

// Default policy values.
const (
	DefaultMaxAttempts = 10
	DefaultMinBackoff  = 250 * time.Millisecond
	DefaultMaxBackoff  = 8 * time.Second
	DefaultMultiplier  = 2.0
)

// Policy is an exponential backoff bounded by Max, with a ceiling on the
// number of attempts.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
}

// DefaultPolicy returns the default values.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Initial:     DefaultMinBackoff,
		Max:         DefaultMaxBackoff,
		Multiplier:  DefaultMultiplier,
	}
}

// Validate checks the policy can be used.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.Initial < 0 || p.Max < 0 {
		return fmt.Errorf("backoff delays cannot be negative")
	}
	if p.Max < p.Initial {
		return fmt.Errorf("max backoff %v is lower than min backoff %v", p.Max, p.Initial)
	}
	if p.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1, got %v", p.Multiplier)
	}
	return nil
}

// Delay returns the wait after the given failed attempt, counting from 1. It is
// Initial after the first attempt, grows by Multiplier per attempt and never
// exceeds Max.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// jpillora/backoff substitutes its own defaults for zero bounds.
	if p.Initial <= 0 || p.Max <= 0 {
		return 0
	}
	b := jpbackoff.Backoff{
		Min:    p.Initial,
		Max:    p.Max,
		Factor: p.Multiplier,
	}
	return b.ForAttempt(float64(attempt - 1))
}
