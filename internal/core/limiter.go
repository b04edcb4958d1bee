package core

// limiter.go bounds how many SQL verifications run at once.
//
// Verification opens a database connection or an in-memory engine per call,
// so slots are handed out through a buffered channel. A caller that cannot get
// a slot within maxWait receives ErrTooManyVerifications.

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyVerifications is returned when every slot stayed busy for the
// whole wait. Clients should retry after a short delay.
var ErrTooManyVerifications = errors.New("too many verifications in progress, please try again later")

const (
	DefaultMaxConcurrentVerifications = 4
	DefaultVerifyWait                 = 2 * time.Second
)

// Limiter is a counting semaphore with a bounded wait.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewLimiter allows at most maxConcurrent holders. Non-positive arguments
// fall back to the defaults.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentVerifications
	}
	if maxWait <= 0 {
		maxWait = DefaultVerifyWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to maxWait. The caller must Release it.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyVerifications
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *Limiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	<-l.slots
}

// Active is the number of slots in use.
func (l *Limiter) Active() int { return len(l.slots) }

// MaxConcurrent is the slot count.
func (l *Limiter) MaxConcurrent() int { return cap(l.slots) }

// WaitForDrain blocks until no slot is held or ctx ends. Used on shutdown.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a monitoring snapshot.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *Limiter) Status() LimiterStatus {
	active := l.Active()
	return LimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
	}
}
