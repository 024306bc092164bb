package shapecache

import (
	"sync"

	"github.com/ravensplit/smoothterm/internal/termgrid"
)

// sbKey is the scrollback cache key: it only needs to change when the
// rows actually visible through the scroll offset could have changed.
type sbKey struct {
	scrollbackLen      int
	firstVisibleAbsRow int
}

// PaneCache holds the two generation-keyed caches for one pane, per
// spec §4.7.
type PaneCache struct {
	mu sync.Mutex

	visibleGen uint64
	visible    []ShapedGlyph

	sbValid bool
	sbK     sbKey
	sb      []ShapedGlyph
}

// Visible returns the shaped glyph list for the live grid, rebuilding it
// only if grid.Generation() changed since the last call.
func (c *PaneCache) Visible(g *termgrid.Grid, shaper Shaper, palette Palette, layout CellLayout, defaultFg, defaultBg RGB8) []ShapedGlyph {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := g.Generation()
	if c.visible != nil && gen == c.visibleGen {
		return c.visible
	}

	_, rows := g.Size()
	var out []ShapedGlyph
	for row := 0; row < rows; row++ {
		y := layout.ContentY + float32(row)*layout.CellH + layout.ScrollOffsetPx
		glyphs := shapeRow(visibleRowCells(g, row), y, layout, shaper, palette, defaultFg, defaultBg)
		for i := range glyphs {
			glyphs[i].Row = row
		}
		out = append(out, glyphs...)
	}

	c.visible = out
	c.visibleGen = gen
	return out
}

// Scrollback returns the shaped glyph list for scrollback rows currently
// visible through the scroll offset, given the absolute row range
// [firstVisibleAbsRow, firstVisibleAbsRow+count). Per spec §4.7, the
// entry is dropped whenever the scroll offset is at rest (<= 0.5px).
func (c *PaneCache) Scrollback(g *termgrid.Grid, firstVisibleAbsRow, count int, shaper Shaper, palette Palette, layout CellLayout, defaultFg, defaultBg RGB8) []ShapedGlyph {
	c.mu.Lock()
	defer c.mu.Unlock()

	if layout.ScrollOffsetPx <= 0.5 {
		c.sbValid = false
		c.sb = nil
		return nil
	}

	key := sbKey{scrollbackLen: g.ScrollbackLen(), firstVisibleAbsRow: firstVisibleAbsRow}
	if c.sbValid && key == c.sbK {
		return c.sb
	}

	var out []ShapedGlyph
	for i := 0; i < count; i++ {
		absRow := firstVisibleAbsRow + i
		y := layout.ContentY + float32(i)*layout.CellH
		glyphs := shapeRow(scrollbackRowCells(g, absRow), y, layout, shaper, palette, defaultFg, defaultBg)
		for j := range glyphs {
			glyphs[j].Row = i
		}
		out = append(out, glyphs...)
	}

	c.sb = out
	c.sbK = key
	c.sbValid = true
	return out
}

// Invalidate drops both caches, used when config or font changes.
func (c *PaneCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = nil
	c.visibleGen = 0
	c.sbValid = false
	c.sb = nil
}

// Manager owns one PaneCache per pane id.
type Manager struct {
	mu     sync.Mutex
	caches map[uint64]*PaneCache
}

// NewManager creates an empty cache manager.
func NewManager() *Manager {
	return &Manager{caches: make(map[uint64]*PaneCache)}
}

// For returns (creating if absent) the PaneCache for a pane id.
func (m *Manager) For(paneID uint64) *PaneCache {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.caches[paneID]
	if !ok {
		c = &PaneCache{}
		m.caches[paneID] = c
	}
	return c
}

// Remove drops the cache for a closed pane.
func (m *Manager) Remove(paneID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.caches, paneID)
}

// InvalidateAll clears every pane's caches, used on config/font reload.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	caches := make([]*PaneCache, 0, len(m.caches))
	for _, c := range m.caches {
		caches = append(caches, c)
	}
	m.mu.Unlock()
	for _, c := range caches {
		c.Invalidate()
	}
}
