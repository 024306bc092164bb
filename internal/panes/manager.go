// Package panes owns one terminal session per leaf of a paneset.Node
// tree: split/close/focus/resize/drain operations. It is the tree-shaped
// generalization of the teacher's tab.TabManager (same RWMutex-guarded,
// id-keyed ownership idiom) driving a paneset.Node instead of a flat
// slice of tabs.
package panes

import (
	"sync"

	"github.com/ravensplit/smoothterm/internal/paneset"
	"github.com/ravensplit/smoothterm/internal/ptyio"
	"github.com/ravensplit/smoothterm/internal/session"
)

// Direction is a screen-space navigation direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Pane is one leaf's identity and owned session.
type Pane struct {
	ID      uint64
	Session *session.Session
}

// Manager owns the pane set and layout tree for one window.
type Manager struct {
	mu        sync.RWMutex
	panes     map[uint64]*Pane
	layout    *paneset.Node
	focusedID uint64
	nextID    uint64
}

// New creates a manager with a single pane filling the window.
func New(cols, rows int, opts ptyio.Options) (*Manager, error) {
	m := &Manager{panes: make(map[uint64]*Pane), nextID: 1}
	sess, err := session.New(cols, rows, opts)
	if err != nil {
		return nil, err
	}
	id := m.nextID
	m.nextID++
	m.panes[id] = &Pane{ID: id, Session: sess}
	m.layout = paneset.Leaf(id)
	m.focusedID = id
	return m, nil
}

// Layout returns the current layout tree (read-only; callers must not
// mutate it).
func (m *Manager) Layout() *paneset.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layout
}

// FocusedID returns the currently focused pane id.
func (m *Manager) FocusedID() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focusedID
}

// Pane returns the pane for id, or nil if absent.
func (m *Manager) Pane(id uint64) *Pane {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.panes[id]
}

// FocusedPane returns the currently focused pane, or nil if the manager
// is empty.
func (m *Manager) FocusedPane() *Pane {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.panes[m.focusedID]
}

// Count returns the number of live panes.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.panes)
}

func (m *Manager) rectFor(id uint64, windowRect paneset.Rect) paneset.Rect {
	for _, pr := range m.layout.ComputeRects(windowRect) {
		if pr.PaneID == id {
			return pr.Rect
		}
	}
	return windowRect
}

func cellsFor(rect paneset.Rect, cellW, cellH float64) (cols, rows int) {
	cols = int(rect.W / cellW)
	rows = int(rect.H / cellH)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return
}

func (m *Manager) split(kind paneset.Kind, cellW, cellH float64, windowRect paneset.Rect) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	focusedRect := m.rectFor(m.focusedID, windowRect)
	var halfRect paneset.Rect
	if kind == paneset.KindHSplit {
		halfRect = paneset.Rect{W: focusedRect.W / 2, H: focusedRect.H}
	} else {
		halfRect = paneset.Rect{W: focusedRect.W, H: focusedRect.H / 2}
	}
	cols, rows := cellsFor(halfRect, cellW, cellH)

	opts := ptyio.Options{}
	if focused := m.panes[m.focusedID]; focused != nil {
		opts.Cwd = focused.Session.Cwd()
	}

	sess, err := session.New(cols, rows, opts)
	if err != nil {
		return 0, err
	}

	newID := m.nextID
	m.nextID++
	m.panes[newID] = &Pane{ID: newID, Session: sess}

	newLayout, ok := m.layout.SplitLeaf(m.focusedID, newID, kind)
	if !ok {
		sess.Close()
		delete(m.panes, newID)
		return 0, errPaneNotFound
	}
	m.layout = newLayout
	m.focusedID = newID
	return newID, nil
}

// SplitHorizontal splits the focused pane left/right.
func (m *Manager) SplitHorizontal(cellW, cellH float64, windowRect paneset.Rect) (uint64, error) {
	return m.split(paneset.KindHSplit, cellW, cellH, windowRect)
}

// SplitVertical splits the focused pane top/bottom.
func (m *Manager) SplitVertical(cellW, cellH float64, windowRect paneset.Rect) (uint64, error) {
	return m.split(paneset.KindVSplit, cellW, cellH, windowRect)
}

// ClosePane removes id from the pane set and layout. If the focused pane
// was closed, focus moves to the new first leaf in depth-first order.
func (m *Manager) ClosePane(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(id)
}

func (m *Manager) closeLocked(id uint64) {
	p, ok := m.panes[id]
	if !ok {
		return
	}
	p.Session.Close()
	delete(m.panes, id)

	newLayout, _ := m.layout.Remove(id)
	m.layout = newLayout

	if m.focusedID == id {
		if ids := m.paneIDsLocked(); len(ids) > 0 {
			m.focusedID = ids[0]
		} else {
			m.focusedID = 0
		}
	}
}

func (m *Manager) paneIDsLocked() []uint64 {
	if m.layout == nil {
		return nil
	}
	return m.layout.PaneIDs()
}

// SetFocus moves focus directly to id, reporting whether id names a live
// pane (used for click-to-focus).
func (m *Manager) SetFocus(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.panes[id]; !ok {
		return false
	}
	m.focusedID = id
	return true
}

// FocusNext cycles focus to the next leaf in depth-first order.
func (m *Manager) FocusNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.paneIDsLocked()
	m.cycleFocus(ids, 1)
}

// FocusPrev cycles focus to the previous leaf in depth-first order.
func (m *Manager) FocusPrev() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.paneIDsLocked()
	m.cycleFocus(ids, -1)
}

func (m *Manager) cycleFocus(ids []uint64, delta int) {
	if len(ids) == 0 {
		return
	}
	idx := 0
	for i, id := range ids {
		if id == m.focusedID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(ids)) % len(ids)
	m.focusedID = ids[idx]
}

// FocusDirection moves focus to the pane geometrically adjacent to the
// focused pane in the given direction: among panes whose opposing edge
// is flush with the focused pane's leading edge, the one with the
// smallest squared center distance wins.
func (m *Manager) FocusDirection(rects []paneset.PaneRect, dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := make(map[uint64]paneset.Rect, len(rects))
	for _, pr := range rects {
		byID[pr.PaneID] = pr.Rect
	}
	focusedRect, ok := byID[m.focusedID]
	if !ok {
		return
	}

	var bestID uint64
	bestDist := -1.0
	for id, r := range byID {
		if id == m.focusedID {
			continue
		}
		if !isFlush(focusedRect, r, dir) {
			continue
		}
		d := centerDistSq(focusedRect, r)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestID = id
		}
	}
	if bestDist >= 0 {
		m.focusedID = bestID
	}
}

func isFlush(from, to paneset.Rect, dir Direction) bool {
	const eps = 0.5
	switch dir {
	case DirRight:
		d := to.X - (from.X + from.W)
		return d > -eps && d < eps
	case DirLeft:
		d := to.X + to.W - from.X
		return d > -eps && d < eps
	case DirDown:
		d := to.Y - (from.Y + from.H)
		return d > -eps && d < eps
	case DirUp:
		d := to.Y + to.H - from.Y
		return d > -eps && d < eps
	}
	return false
}

func centerDistSq(a, b paneset.Rect) float64 {
	acx, acy := a.X+a.W/2, a.Y+a.H/2
	bcx, bcy := b.X+b.W/2, b.Y+b.H/2
	dx, dy := acx-bcx, acy-bcy
	return dx*dx + dy*dy
}

const resizeNudge = 0.05

// ResizeFocused nudges the innermost split containing the focused pane
// by ±5% in the given direction.
func (m *Manager) ResizeFocused(dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var delta float64
	switch dir {
	case DirLeft, DirUp:
		delta = -resizeNudge
	case DirRight, DirDown:
		delta = resizeNudge
	}
	if newLayout, ok := m.layout.NudgeRatioFor(m.focusedID, delta); ok {
		m.layout = newLayout
	}
}

// DrainAllPTYOutput drives every pane's parser with currently queued PTY
// output. Called once per frame.
func (m *Manager) DrainAllPTYOutput() {
	m.mu.RLock()
	sessions := make([]*session.Session, 0, len(m.panes))
	for _, p := range m.panes {
		sessions = append(sessions, p.Session)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.Drain()
	}
}

// ResizePanes computes (cols, rows) for each leaf from its pixel rect
// divided by the cell size (floored, minimum 1) and applies it to both
// the grid and the PTY.
func (m *Manager) ResizePanes(rects []paneset.PaneRect, cellW, cellH float64) {
	m.mu.RLock()
	type job struct {
		sess       *session.Session
		cols, rows int
	}
	jobs := make([]job, 0, len(rects))
	for _, pr := range rects {
		p, ok := m.panes[pr.PaneID]
		if !ok {
			continue
		}
		cols, rows := cellsFor(pr.Rect, cellW, cellH)
		jobs = append(jobs, job{sess: p.Session, cols: cols, rows: rows})
	}
	m.mu.RUnlock()

	for _, j := range jobs {
		j.sess.Resize(j.cols, j.rows)
	}
}

// DeadPaneIDs lists panes whose shell has exited.
func (m *Manager) DeadPaneIDs() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var dead []uint64
	for id, p := range m.panes {
		if p.Session.IsDead() {
			dead = append(dead, id)
		}
	}
	return dead
}

// CloseDeadPanes closes every pane whose shell has exited, returning
// true if the manager is now empty (the caller should close the window).
func (m *Manager) CloseDeadPanes() bool {
	for _, id := range m.DeadPaneIDs() {
		m.ClosePane(id)
	}
	return m.Count() == 0
}

var errPaneNotFound = paneNotFoundError{}

type paneNotFoundError struct{}

func (paneNotFoundError) Error() string { return "panes: pane not found" }
