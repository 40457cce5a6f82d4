// Package clock provides the time sources used by the incident simulator.
package clock

import (
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/port"
)

// Real is a port.Clock backed by the runtime timers.
type Real struct{}

// NewReal creates a wall-clock implementation.
func NewReal() Real {
	return Real{}
}

// Now returns the current wall time.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f in its own goroutine after d.
func (Real) AfterFunc(d time.Duration, f func()) port.Timer {
	return time.AfterFunc(d, f)
}
