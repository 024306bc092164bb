package spring

import "testing"

func TestSpringConverges(t *testing.T) {
	s := New1D(0, 12)
	s.Target = 100
	for i := 0; i < 1000; i++ {
		s.Tick(1.0 / 60.0)
	}
	if absf(s.Position-s.Target) >= 1e-2 {
		t.Fatalf("did not converge: position=%v target=%v", s.Position, s.Target)
	}
}

func TestSpringNoOvershootFromRest(t *testing.T) {
	s := New1D(0, 8)
	s.Target = 10
	step := float32(10)
	for i := 0; i < 500; i++ {
		s.Tick(1.0 / 60.0)
		if s.Position > s.Target+step*0.01 {
			t.Fatalf("overshoot at step %d: position=%v target=%v", i, s.Position, s.Target)
		}
	}
}

func TestScrollSpringClampsTargetAndOverscroll(t *testing.T) {
	s := NewScrollSpring(10)
	s.SetMaxOffset(100)
	s.ScrollBy(1000)
	if s.Target != 100 {
		t.Fatalf("target = %v, want clamped to 100", s.Target)
	}
	s.ScrollBy(-2000)
	if s.Target != 0 {
		t.Fatalf("target = %v, want clamped to 0", s.Target)
	}
}

func TestScrollSpringSnapToBottom(t *testing.T) {
	s := NewScrollSpring(10)
	s.SetMaxOffset(100)
	s.ScrollBy(50)
	s.SnapToBottom()
	if s.Target != 0 || s.Position != 0 || s.Velocity != 0 {
		t.Fatalf("snap to bottom did not zero state: %+v", s)
	}
}

func TestSpring2DClampLagPreservesVelocity(t *testing.T) {
	s := New2D(Vec2{X: 0, Y: 0}, 10)
	s.SetTarget(Vec2{X: 0, Y: 0})
	s.X.Position = 100
	s.X.Velocity = 5
	s.ClampLag(1, 1)
	if s.X.Position != 1 {
		t.Fatalf("clamped position = %v, want 1", s.X.Position)
	}
	if s.X.Velocity != 5 {
		t.Fatalf("velocity changed by clamp: %v", s.X.Velocity)
	}
}
