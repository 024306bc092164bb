// Package selection tracks an anchor/head text selection over a pane's
// grid in absolute-row coordinates and copies the extracted text to the
// system clipboard. Grounded on termgrid.Grid.ExtractText/AbsPos for the
// extraction half; the clipboard collaborator is
// github.com/atotto/clipboard, present in the example pack for exactly
// this copy/paste role.
package selection

import (
	"github.com/atotto/clipboard"

	"github.com/ravensplit/smoothterm/internal/termgrid"
)

// Selection is an anchor/head pair in absolute-row coordinates. A Click
// (anchor == head) selects nothing extractable but still marks hover
// state for rendering.
type Selection struct {
	Anchor termgrid.AbsPos
	Head   termgrid.AbsPos
	active bool
}

// Begin starts a new selection at pos (mouse-down).
func (s *Selection) Begin(pos termgrid.AbsPos) {
	s.Anchor = pos
	s.Head = pos
	s.active = true
}

// Extend moves the head during a drag.
func (s *Selection) Extend(pos termgrid.AbsPos) {
	if !s.active {
		return
	}
	s.Head = pos
}

// Clear drops the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Active reports whether a selection is in progress or has a committed
// non-empty range.
func (s *Selection) Active() bool { return s.active }

// IsClick reports whether release happened with anchor == head (no
// drag), per spec §4.10.
func (s *Selection) IsClick() bool {
	return s.active && s.Anchor == s.Head
}

// Normalized returns (min, max) in reading order.
func (s *Selection) Normalized() (min, max termgrid.AbsPos) {
	a, h := s.Anchor, s.Head
	if h.Row < a.Row || (h.Row == a.Row && h.Col < a.Col) {
		return h, a
	}
	return a, h
}

// Contains reports whether an absolute position falls within the
// normalized selection range, for per-cell reverse-video rendering.
func (s *Selection) Contains(pos termgrid.AbsPos) bool {
	if !s.active || s.Anchor == s.Head {
		return false
	}
	min, max := s.Normalized()
	if pos.Row < min.Row || pos.Row > max.Row {
		return false
	}
	if pos.Row == min.Row && pos.Col < min.Col {
		return false
	}
	if pos.Row == max.Row && pos.Col > max.Col {
		return false
	}
	return true
}

// Extract returns the selected text, or "" if the selection is empty
// (a click).
func (s *Selection) Extract(g *termgrid.Grid) string {
	if !s.active || s.Anchor == s.Head {
		return ""
	}
	min, max := s.Normalized()
	return g.ExtractText(min, max)
}

// Copy extracts the current selection and writes it to the system
// clipboard. No-op (returns nil) for an empty selection.
func (s *Selection) Copy(g *termgrid.Grid) error {
	text := s.Extract(g)
	if text == "" {
		return nil
	}
	return clipboard.WriteAll(text)
}

// Paste reads the system clipboard, for forwarding to the focused pane's
// PTY as bracketed-paste input.
func Paste() (string, error) {
	return clipboard.ReadAll()
}
