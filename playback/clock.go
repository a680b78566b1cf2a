// Package playback replays a planned flight path against simulated time so a
// mission can be previewed before it is uploaded to a vehicle.
package playback

import (
	"sync"
	"time"
)

// Clock is an interface for accessing playback time. Consumers depend on it
// rather than the concrete Ticker so tests can substitute fixed clocks.
type Clock interface {
	// Now returns the current playback time.
	Now() time.Time
}

// Mode describes how the Ticker advances playback time.
type Mode int

const (
	// RealTime advances according to wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while still stepping by Tick.
	Accelerated
)

// Ticker drives playback time and notifies registered listeners on every step.
type Ticker struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewTicker constructs a playback ticker.
func NewTicker(start time.Time, tick time.Duration, mode Mode) *Ticker {
	return &Ticker{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current playback time. Implements Clock.
func (tc *Ticker) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime jumps playback to an arbitrary time, e.g. for scrubbing.
func (tc *Ticker) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick. Listeners must be
// registered before Start.
func (tc *Ticker) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the ticker for the specified playback duration in a separate
// goroutine and returns a channel that is closed when it finishes. In
// Accelerated mode steps run back to back without sleeping. A non-positive
// duration or tick finishes immediately.
func (tc *Ticker) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if duration <= 0 || tc.Tick <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)

		tc.mu.Lock()
		simTime := tc.StartTime
		tc.currentTime = simTime
		tc.mu.Unlock()

		var ticker *time.Ticker
		if tc.Mode == RealTime {
			ticker = time.NewTicker(tc.Tick)
			defer ticker.Stop()
		}

		elapsed := time.Duration(0)
		for {
			if elapsed >= duration {
				return
			}
			if ticker != nil {
				<-ticker.C
			}

			simTime = simTime.Add(tc.Tick)
			elapsed += tc.Tick

			tc.mu.Lock()
			tc.currentTime = simTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(simTime)
			}
		}
	}()
	return done
}
