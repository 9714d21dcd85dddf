package anatomy

import (
	"math"
	"time"
)

const (
	idleFrequency = 0.5 // rad/s of the oscillation phase
	idleAmplitude = 0.1 // radians of yaw either side of facing front
)

// Animator drives the idle sway that signals the figure is interactive.
// It only advances while nothing is selected and motion is allowed.
type Animator struct {
	elapsed       time.Duration
	reducedMotion bool
}

// SetReducedMotion turns the idle sway off (or back on).
func (a *Animator) SetReducedMotion(reduced bool) {
	a.reducedMotion = reduced
}

// ReducedMotion reports whether the sway is suppressed.
func (a *Animator) ReducedMotion() bool {
	return a.reducedMotion
}

// Step advances the clock by dt and updates the scene yaw. With a region
// selected the figure holds its current pose so picks stay stable.
func (a *Animator) Step(s *Scene, dt time.Duration, regionSelected bool) {
	if a.reducedMotion {
		s.SetYaw(0)
		return
	}
	if regionSelected || dt <= 0 {
		return
	}
	a.elapsed += dt
	s.SetYaw(math.Sin(a.elapsed.Seconds()*idleFrequency) * idleAmplitude)
}
