package panes

import (
	"testing"

	"github.com/ravensplit/smoothterm/internal/paneset"
	"github.com/ravensplit/smoothterm/internal/ptyio"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(80, 24, ptyio.Options{Shell: "/bin/sh"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		for _, id := range m.paneIDsLocked() {
			m.ClosePane(id)
		}
	})
	return m
}

func TestSplitHorizontalAddsPaneAndFocusesIt(t *testing.T) {
	m := newTestManager(t)
	firstID := m.FocusedID()

	rect := paneset.Rect{X: 0, Y: 0, W: 800, H: 600}
	newID, err := m.SplitHorizontal(10, 20, rect)
	if err != nil {
		t.Fatalf("SplitHorizontal: %v", err)
	}
	if newID == firstID {
		t.Fatal("new pane id collides with original")
	}
	if m.FocusedID() != newID {
		t.Fatalf("focus = %d, want newly split pane %d", m.FocusedID(), newID)
	}
	if m.Count() != 2 {
		t.Fatalf("count = %d, want 2", m.Count())
	}

	rects := m.Layout().ComputeRects(rect)
	if len(rects) != 2 {
		t.Fatalf("rects = %v", rects)
	}
}

func TestClosePaneMovesFocusToSurvivor(t *testing.T) {
	m := newTestManager(t)
	firstID := m.FocusedID()
	rect := paneset.Rect{X: 0, Y: 0, W: 800, H: 600}
	secondID, err := m.SplitVertical(10, 20, rect)
	if err != nil {
		t.Fatalf("SplitVertical: %v", err)
	}

	m.ClosePane(secondID)
	if m.Count() != 1 {
		t.Fatalf("count after close = %d, want 1", m.Count())
	}
	if m.FocusedID() != firstID {
		t.Fatalf("focus after close = %d, want %d", m.FocusedID(), firstID)
	}
	if m.Pane(secondID) != nil {
		t.Fatal("closed pane is still reachable")
	}
}

func TestFocusNextPrevCycles(t *testing.T) {
	m := newTestManager(t)
	firstID := m.FocusedID()
	rect := paneset.Rect{X: 0, Y: 0, W: 800, H: 600}
	secondID, _ := m.SplitHorizontal(10, 20, rect)

	m.FocusNext()
	if got := m.FocusedID(); got != firstID && got != secondID {
		t.Fatalf("focus after next = %d", got)
	}
	before := m.FocusedID()
	m.FocusNext()
	m.FocusPrev()
	if m.FocusedID() != before {
		t.Fatalf("next/prev did not round-trip: got %d, want %d", m.FocusedID(), before)
	}
}

func TestFocusDirectionPicksGeometricNeighbor(t *testing.T) {
	m := newTestManager(t)
	leftID := m.FocusedID()
	rect := paneset.Rect{X: 0, Y: 0, W: 800, H: 600}
	rightID, err := m.SplitHorizontal(10, 20, rect)
	if err != nil {
		t.Fatalf("SplitHorizontal: %v", err)
	}

	// Focus is now on the right pane; moving left should land back on leftID.
	rects := m.Layout().ComputeRects(rect)
	m.FocusDirection(rects, DirLeft)
	if m.FocusedID() != leftID {
		t.Fatalf("focus after DirLeft = %d, want %d", m.FocusedID(), leftID)
	}

	m.FocusDirection(rects, DirRight)
	if m.FocusedID() != rightID {
		t.Fatalf("focus after DirRight = %d, want %d", m.FocusedID(), rightID)
	}
}

func TestResizeFocusedNudgesRatio(t *testing.T) {
	m := newTestManager(t)
	rect := paneset.Rect{X: 0, Y: 0, W: 800, H: 600}
	if _, err := m.SplitHorizontal(10, 20, rect); err != nil {
		t.Fatalf("SplitHorizontal: %v", err)
	}
	before := m.Layout().Ratio
	m.ResizeFocused(DirRight)
	after := m.Layout().Ratio
	if after <= before {
		t.Fatalf("ratio did not grow: before=%v after=%v", before, after)
	}
}

func TestResizePanesAppliesFloorAndMinimum(t *testing.T) {
	m := newTestManager(t)
	rect := paneset.Rect{X: 0, Y: 0, W: 3, H: 3}
	rects := m.Layout().ComputeRects(rect)
	m.ResizePanes(rects, 10, 20)
	// Must not panic or leave a zero-sized grid; exercised indirectly via
	// DrainAllPTYOutput not blocking forever.
	m.DrainAllPTYOutput()
}

func TestSetFocusMovesFocusToLivePane(t *testing.T) {
	m := newTestManager(t)
	firstID := m.FocusedID()
	rect := paneset.Rect{X: 0, Y: 0, W: 800, H: 600}
	secondID, err := m.SplitHorizontal(10, 20, rect)
	if err != nil {
		t.Fatalf("SplitHorizontal: %v", err)
	}

	if !m.SetFocus(firstID) {
		t.Fatal("SetFocus on live pane returned false")
	}
	if m.FocusedID() != firstID {
		t.Fatalf("focus = %d, want %d", m.FocusedID(), firstID)
	}

	if m.SetFocus(secondID + 100) {
		t.Fatal("SetFocus on unknown id returned true")
	}
	if m.FocusedID() != firstID {
		t.Fatalf("focus changed after SetFocus on unknown id: %d", m.FocusedID())
	}
}
