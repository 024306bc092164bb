// Package spring implements the critically-damped spring primitives that
// drive cursor and scroll animation. Springs are pure values advanced by
// a scalar dt each frame; there is no event-driven animation runtime.
package spring

import "math"

// Spring1D is a critically damped one-dimensional spring.
type Spring1D struct {
	Position float32
	Velocity float32
	Target   float32
	Omega    float32
}

// New1D creates a spring at rest at position with the given angular
// frequency.
func New1D(position, omega float32) Spring1D {
	return Spring1D{Position: position, Target: position, Omega: omega}
}

// Tick advances the spring by dt seconds using the closed-form
// critically-damped solution (exact, not Euler-integrated, so it stays
// stable at any frame rate).
func (s *Spring1D) Tick(dt float32) {
	if s.Omega <= 0 {
		s.Position = s.Target
		s.Velocity = 0
		return
	}
	x := s.Position - s.Target
	v := s.Velocity
	e := float32(math.Exp(float64(-s.Omega * dt)))
	c := v + s.Omega*x
	s.Position = s.Target + e*(x+c*dt)
	s.Velocity = e * (v - s.Omega*c*dt)
}

// IsSettled reports whether the spring has effectively reached its
// target: both the position error and velocity are under thresh.
func (s *Spring1D) IsSettled(thresh float32) bool {
	return absf(s.Position-s.Target) < thresh && absf(s.Velocity) < thresh
}

// SnapToTarget zeroes velocity without moving the position.
func (s *Spring1D) SnapToTarget() {
	s.Velocity = 0
}

// Snap moves the spring directly to target with zero velocity.
func (s *Spring1D) Snap() {
	s.Position = s.Target
	s.Velocity = 0
}

// SetTarget retargets the spring, leaving position/velocity untouched so
// the motion continues smoothly toward the new target.
func (s *Spring1D) SetTarget(target float32) {
	s.Target = target
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Vec2 is a 2D point used by two-axis springs (corner positions, scroll
// offsets expressed as pixels, etc).
type Vec2 struct {
	X, Y float32
}

// Spring2D advances two independent Spring1D axes together.
type Spring2D struct {
	X, Y Spring1D
}

// New2D creates a 2D spring at rest at position with a shared omega.
func New2D(position Vec2, omega float32) Spring2D {
	return Spring2D{X: New1D(position.X, omega), Y: New1D(position.Y, omega)}
}

// Tick advances both axes by dt.
func (s *Spring2D) Tick(dt float32) {
	s.X.Tick(dt)
	s.Y.Tick(dt)
}

// Position returns the current 2D position.
func (s *Spring2D) Position() Vec2 {
	return Vec2{X: s.X.Position, Y: s.Y.Position}
}

// SetTarget retargets both axes.
func (s *Spring2D) SetTarget(target Vec2) {
	s.X.SetTarget(target.X)
	s.Y.SetTarget(target.Y)
}

// SetOmega sets both axes' angular frequency.
func (s *Spring2D) SetOmega(omega float32) {
	s.X.Omega = omega
	s.Y.Omega = omega
}

// Snap moves both axes directly to their targets.
func (s *Spring2D) Snap() {
	s.X.Snap()
	s.Y.Snap()
}

// IsSettled reports whether both axes have settled.
func (s *Spring2D) IsSettled(thresh float32) bool {
	return s.X.IsSettled(thresh) && s.Y.IsSettled(thresh)
}

// ClampLag moves a corner whose distance from its target exceeds
// (maxX, maxY) toward the target to exactly that bound on each axis,
// preserving velocity so the animation continues from the clamped point.
func (s *Spring2D) ClampLag(maxX, maxY float32) {
	if dx := s.X.Position - s.X.Target; absf(dx) > maxX {
		if dx > 0 {
			s.X.Position = s.X.Target + maxX
		} else {
			s.X.Position = s.X.Target - maxX
		}
	}
	if dy := s.Y.Position - s.Y.Target; absf(dy) > maxY {
		if dy > 0 {
			s.Y.Position = s.Y.Target + maxY
		} else {
			s.Y.Position = s.Y.Target - maxY
		}
	}
}

// ScrollSpring wraps a Spring1D with a clamped target range and soft
// overscroll on position.
type ScrollSpring struct {
	Spring1D
	MaxOffset float32
}

// NewScrollSpring creates a scroll spring at rest at 0.
func NewScrollSpring(omega float32) *ScrollSpring {
	return &ScrollSpring{Spring1D: New1D(0, omega)}
}

const scrollOverscroll = 50

// SetMaxOffset updates the clamp bound, reclamping the current target.
func (s *ScrollSpring) SetMaxOffset(max float32) {
	s.MaxOffset = max
	s.Target = clampf(s.Target, 0, s.MaxOffset)
}

// ScrollBy adds delta to the target, clamped to [0, MaxOffset].
func (s *ScrollSpring) ScrollBy(delta float32) {
	s.Target = clampf(s.Target+delta, 0, s.MaxOffset)
}

// SnapToBottom sets the target to 0 and snaps immediately.
func (s *ScrollSpring) SnapToBottom() {
	s.Target = 0
	s.Snap()
}

// Tick advances the spring and clamps position into the soft-overscroll
// range [0, MaxOffset+50].
func (s *ScrollSpring) Tick(dt float32) {
	s.Spring1D.Tick(dt)
	s.Position = clampf(s.Position, 0, s.MaxOffset+scrollOverscroll)
}

func clampf(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
