package cursoranim

import (
	"testing"

	"github.com/ravensplit/smoothterm/internal/spring"
)

func TestNewAnimatorStartsAtRestOnCellCorners(t *testing.T) {
	a := New(spring.Vec2{X: 0, Y: 0}, 30, false)
	a.SnapTo(0, 0, 0, 0, 10, 20, 0)
	corners := a.Corners()
	want := [4]spring.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 20}, {X: 0, Y: 20}}
	if corners != want {
		t.Fatalf("corners = %v, want %v", corners, want)
	}
	if !a.IsSettled(1e-3) {
		t.Fatal("expected settled immediately after snap")
	}
}

func TestMoveToConvergesOverTicks(t *testing.T) {
	a := New(spring.Vec2{X: 0, Y: 0}, 30, false)
	a.SnapTo(0, 0, 0, 0, 10, 20, 0)
	a.MoveTo(5, 0, 0, 0, 10, 20, 0)

	for i := 0; i < 600; i++ {
		a.Tick(1.0 / 60.0)
	}
	if !a.IsSettled(1e-2) {
		t.Fatal("expected convergence after 10s of ticks")
	}
}

func TestShouldSnapThresholdIsFiveCells(t *testing.T) {
	if ShouldSnap(0, 0, 5, 0) {
		t.Fatal("5-cell move should animate, not snap")
	}
	if !ShouldSnap(0, 0, 6, 0) {
		t.Fatal("6-cell move should snap")
	}
	if !ShouldSnap(0, 0, 0, 6) {
		t.Fatal("6-row move should snap")
	}
}

func TestTrailModeSkewsLeadingCornerFaster(t *testing.T) {
	a := New(spring.Vec2{X: 0, Y: 0}, 20, true)
	a.SnapTo(0, 0, 0, 0, 10, 20, 0)
	// Startup suppression is active; burn through it with stationary ticks.
	for i := 0; i < startupTicks+1; i++ {
		a.MoveTo(0, 0, 0, 0, 10, 20, 0)
		a.Tick(1.0 / 60.0)
	}
	// Move right: trailing-edge (left) corners should lag the
	// leading-edge (right) corners after a single tick.
	a.MoveTo(3, 0, 0, 0, 10, 20, 0)
	a.Tick(1.0 / 60.0)

	corners := a.Corners()
	// Both corners started 30px behind their targets; the leading one
	// must have covered more of that distance than the trailing one.
	leadDX := corners[TopRight].X - 10
	lagDX := corners[TopLeft].X - 0
	if leadDX <= lagDX {
		t.Fatalf("expected leading corner (TopRight moved %v) to move further than lagging corner (TopLeft moved %v)", leadDX, lagDX)
	}
}
