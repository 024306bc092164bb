// Package cursoranim implements the four-corner deformable cursor quad:
// one 2D spring per corner of the cell rectangle, optionally modulated by
// travel direction ("trail mode") so the leading corners pull ahead of
// the trailing ones.
package cursoranim

import (
	"math"

	"github.com/ravensplit/smoothterm/internal/spring"
)

// Corner indexes the four corners of a cell rectangle.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
	cornerCount
)

// cornerUnit is the outward-facing unit vector for each corner, used to
// project travel direction onto a corner's lead/lag.
var cornerUnit = [cornerCount]spring.Vec2{
	TopLeft:     {X: -0.70710677, Y: -0.70710677},
	TopRight:    {X: 0.70710677, Y: -0.70710677},
	BottomRight: {X: 0.70710677, Y: 0.70710677},
	BottomLeft:  {X: -0.70710677, Y: 0.70710677},
}

// startupTicks is the number of ticks after an animator is created during
// which trail deformation is suppressed. Only the per-corner omega skew is
// suppressed; MoveTo still animates the corners toward new targets.
const startupTicks = 30

// Animator holds the four corner springs of a cursor quad.
type Animator struct {
	corners     [cornerCount]spring.Spring2D
	baseOmega   float32
	trail       bool
	lastTarget  spring.Vec2
	haveLast    bool
	startupLeft int
}

// New creates an animator at rest at position with the given base omega.
func New(position spring.Vec2, omega float32, trail bool) *Animator {
	a := &Animator{baseOmega: omega, trail: trail, startupLeft: startupTicks}
	for c := Corner(0); c < cornerCount; c++ {
		a.corners[c] = spring.New2D(position, omega)
	}
	return a
}

// SetTrail toggles trail-mode deformation.
func (a *Animator) SetTrail(on bool) { a.trail = on }

// SetOmega updates the base angular frequency for all corners.
func (a *Animator) SetOmega(omega float32) { a.baseOmega = omega }

func normalize(v spring.Vec2) spring.Vec2 {
	mag := float32(math.Hypot(float64(v.X), float64(v.Y)))
	if mag < 1e-6 {
		return spring.Vec2{}
	}
	return spring.Vec2{X: v.X / mag, Y: v.Y / mag}
}

func dot(a, b spring.Vec2) float32 { return a.X*b.X + a.Y*b.Y }

// MoveTo retargets the four corners to the cell at (col, row) within a
// pane whose content origin is (paneX, paneY), offset by the current
// scroll animation. cellW/cellH are the pixel dimensions of one cell.
func (a *Animator) MoveTo(col, row int, paneX, paneY, cellW, cellH, scrollOffset float32) {
	x := paneX + float32(col)*cellW
	y := paneY + float32(row)*cellH + scrollOffset

	targets := [cornerCount]spring.Vec2{
		TopLeft:     {X: x, Y: y},
		TopRight:    {X: x + cellW, Y: y},
		BottomRight: {X: x + cellW, Y: y + cellH},
		BottomLeft:  {X: x, Y: y + cellH},
	}
	center := spring.Vec2{X: x + cellW/2, Y: y + cellH/2}

	travel := spring.Vec2{}
	if a.haveLast {
		travel = normalize(spring.Vec2{X: center.X - a.lastTarget.X, Y: center.Y - a.lastTarget.Y})
	}
	a.lastTarget = center
	a.haveLast = true

	trailActive := a.trail && a.startupLeft <= 0
	for c := Corner(0); c < cornerCount; c++ {
		a.corners[c].SetTarget(targets[c])
		omega := a.baseOmega
		if trailActive {
			d := dot(cornerUnit[c], travel)
			if d > 0 {
				omega = a.baseOmega * (1 + 0.5*d)
			} else {
				omega = a.baseOmega * (1 + 0.3*d)
			}
		}
		a.corners[c].SetOmega(omega)
	}
}

// Tick advances all four corner springs by dt and decrements the
// startup-suppression counter.
func (a *Animator) Tick(dt float32) {
	for c := Corner(0); c < cornerCount; c++ {
		a.corners[c].Tick(dt)
	}
	if a.startupLeft > 0 {
		a.startupLeft--
	}
}

// ClampLag bounds every corner's lag behind its target to (maxX, maxY).
func (a *Animator) ClampLag(maxX, maxY float32) {
	for c := Corner(0); c < cornerCount; c++ {
		a.corners[c].ClampLag(maxX, maxY)
	}
}

// SnapTo immediately places the four corners at the cell's corners with
// zero velocity, bypassing animation (used on large cursor jumps).
func (a *Animator) SnapTo(col, row int, paneX, paneY, cellW, cellH, scrollOffset float32) {
	a.MoveTo(col, row, paneX, paneY, cellW, cellH, scrollOffset)
	for c := Corner(0); c < cornerCount; c++ {
		a.corners[c].Snap()
	}
}

// Corners returns the current positions of the four corners in quad
// winding order (TL, TR, BR, BL).
func (a *Animator) Corners() [4]spring.Vec2 {
	var out [4]spring.Vec2
	for c := Corner(0); c < cornerCount; c++ {
		out[c] = a.corners[c].Position()
	}
	return out
}

// IsSettled reports whether every corner has reached its target.
func (a *Animator) IsSettled(thresh float32) bool {
	for c := Corner(0); c < cornerCount; c++ {
		if !a.corners[c].IsSettled(thresh) {
			return false
		}
	}
	return true
}

// ShouldSnap implements the caller-side movement policy: if the new
// target cell differs from (fromCol, fromRow) by more than 5 cells on
// either axis, the caller should call SnapTo instead of MoveTo.
func ShouldSnap(fromCol, fromRow, toCol, toRow int) bool {
	dc := toCol - fromCol
	if dc < 0 {
		dc = -dc
	}
	dr := toRow - fromRow
	if dr < 0 {
		dr = -dr
	}
	return dc > 5 || dr > 5
}
