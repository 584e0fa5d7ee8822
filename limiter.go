package docrender

import (
	"context"
	"runtime"
)

// Limit sizing constants.
const (
	// MinLimit ensures at least one render can run.
	MinLimit = 1

	// MaxLimit caps concurrent engine processes to bound memory (~200MB each).
	MaxLimit = 8

	// cpuDivisor leaves headroom for the engine's child processes.
	cpuDivisor = 2
)

// Limiter caps how many renders run at once. It does not pool engines:
// every render still launches and tears down its own process.
type Limiter struct {
	sem chan struct{}
}

// NewLimiter creates a limiter admitting n concurrent renders.
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{sem: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot if one is free without blocking.
func (l *Limiter) TryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	select {
	case <-l.sem:
	default:
		panic("docrender: Limiter.Release without Acquire")
	}
}

// Size returns the limiter capacity.
func (l *Limiter) Size() int {
	return cap(l.sem)
}

// InUse returns the number of slots currently taken.
func (l *Limiter) InUse() int {
	return len(l.sem)
}

// ResolveLimit determines the render concurrency.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolveLimit(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
