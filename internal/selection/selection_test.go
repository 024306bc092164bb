package selection

import (
	"testing"

	"github.com/ravensplit/smoothterm/internal/termgrid"
)

func TestNormalizedOrdersAnchorAndHead(t *testing.T) {
	var s Selection
	s.Begin(termgrid.AbsPos{Row: 3, Col: 5})
	s.Extend(termgrid.AbsPos{Row: 1, Col: 2})
	min, max := s.Normalized()
	if min != (termgrid.AbsPos{Row: 1, Col: 2}) || max != (termgrid.AbsPos{Row: 3, Col: 5}) {
		t.Fatalf("min=%v max=%v", min, max)
	}
}

func TestIsClickWhenAnchorEqualsHead(t *testing.T) {
	var s Selection
	pos := termgrid.AbsPos{Row: 2, Col: 2}
	s.Begin(pos)
	if !s.IsClick() {
		t.Fatal("expected click with no drag")
	}
	s.Extend(termgrid.AbsPos{Row: 2, Col: 3})
	if s.IsClick() {
		t.Fatal("expected non-click after drag")
	}
}

func TestExtractSingleRowRoundTrip(t *testing.T) {
	g := termgrid.New(20, 5)
	for _, r := range "hello" {
		g.Print(r)
	}
	sbLen := g.ScrollbackLen()

	var s Selection
	s.Begin(termgrid.AbsPos{Row: sbLen, Col: 0})
	s.Extend(termgrid.AbsPos{Row: sbLen, Col: 4})
	if got := s.Extract(g); got != "hello" {
		t.Fatalf("Extract = %q, want hello", got)
	}
}

func TestContainsBoundsOnSingleRow(t *testing.T) {
	var s Selection
	s.Begin(termgrid.AbsPos{Row: 0, Col: 2})
	s.Extend(termgrid.AbsPos{Row: 0, Col: 5})

	if !s.Contains(termgrid.AbsPos{Row: 0, Col: 2}) || !s.Contains(termgrid.AbsPos{Row: 0, Col: 5}) {
		t.Fatal("expected bounds inclusive")
	}
	if s.Contains(termgrid.AbsPos{Row: 0, Col: 1}) || s.Contains(termgrid.AbsPos{Row: 0, Col: 6}) {
		t.Fatal("expected out-of-range cols excluded")
	}
}

func TestClearResetsSelection(t *testing.T) {
	var s Selection
	s.Begin(termgrid.AbsPos{Row: 0, Col: 0})
	s.Clear()
	if s.Active() {
		t.Fatal("expected inactive after Clear")
	}
}
