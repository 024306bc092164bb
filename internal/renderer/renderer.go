package renderer

import (
	"math"

	"github.com/ravensplit/smoothterm/internal/cursoranim"
	"github.com/ravensplit/smoothterm/internal/panes"
	"github.com/ravensplit/smoothterm/internal/paneset"
	"github.com/ravensplit/smoothterm/internal/selection"
	"github.com/ravensplit/smoothterm/internal/shapecache"
	"github.com/ravensplit/smoothterm/internal/spring"
	"github.com/ravensplit/smoothterm/internal/termgrid"
	"github.com/ravensplit/smoothterm/internal/urlscan"
)

// Vec2 is a 2D point in physical pixels, used for the cursor quad's four
// (possibly deformed) corners.
type Vec2 struct{ X, Y float32 }

// Theme bundles the resolved config colors used every frame.
type Theme struct {
	Background RGBA
	Foreground RGBA
	CursorColor RGBA
	Palette    shapecache.Palette
}

const (
	borderWidth   = 1
	borderPadding = 8
)

// Renderer owns per-pane animation/cache state and drives a Surface
// through one frame per call to Frame, per spec §4.8's ten-step
// orchestration.
type Renderer struct {
	surface Surface
	caches  *shapecache.Manager
	shaper  shapecache.Shaper

	scrollSprings map[uint64]*spring.ScrollSpring
	cursors       map[uint64]*cursoranim.Animator

	theme            Theme
	cellW, cellH     float32
	scrollOmega      float32
	cursorOmega      float32
	cursorTrail      bool
	bgImagePath      string
	bgImageOpacity   float32
	windowOpacity    float32
}

// New creates a renderer bound to a GPU surface and initial theme/cell
// geometry; SetTheme updates geometry later (e.g. on font change).
func New(surface Surface, shaper shapecache.Shaper, theme Theme, cellW, cellH float32) *Renderer {
	return &Renderer{
		surface:       surface,
		caches:        shapecache.NewManager(),
		shaper:        shaper,
		scrollSprings: make(map[uint64]*spring.ScrollSpring),
		cursors:       make(map[uint64]*cursoranim.Animator),
		theme:         theme,
		cellW:         cellW,
		cellH:         cellH,
		scrollOmega:   2 * math.Pi * 8,
		cursorOmega:   2 * math.Pi * 12,
		windowOpacity: 1,
	}
}

// SetTheme replaces the active theme and cell geometry and clears every
// pane's shape cache (spec: "when config or font changes, both caches
// are cleared").
func (r *Renderer) SetTheme(theme Theme, cellW, cellH float32) {
	r.theme = theme
	r.cellW = cellW
	r.cellH = cellH
	r.caches.InvalidateAll()
}

// SetAnimationParams updates spring frequencies and trail mode from a
// live config reload.
func (r *Renderer) SetAnimationParams(scrollOmega, cursorOmega float32, trail bool) {
	r.scrollOmega = scrollOmega
	r.cursorOmega = cursorOmega
	r.cursorTrail = trail
	for _, s := range r.scrollSprings {
		s.Omega = scrollOmega
	}
	for _, c := range r.cursors {
		c.SetOmega(cursorOmega)
		c.SetTrail(trail)
	}
}

// SetBackgroundImage configures the optional background image overlay.
func (r *Renderer) SetBackgroundImage(path string, opacity float32) {
	r.bgImagePath = path
	r.bgImageOpacity = opacity
}

func (r *Renderer) scrollSpringFor(paneID uint64) *spring.ScrollSpring {
	s, ok := r.scrollSprings[paneID]
	if !ok {
		s = spring.NewScrollSpring(r.scrollOmega)
		r.scrollSprings[paneID] = s
	}
	return s
}

func (r *Renderer) cursorFor(paneID uint64, col, row int, paneX, paneY float32) *cursoranim.Animator {
	c, ok := r.cursors[paneID]
	if !ok {
		c = cursoranim.New(spring.Vec2{X: paneX + float32(col)*r.cellW, Y: paneY + float32(row)*r.cellH}, r.cursorOmega, r.cursorTrail)
		r.cursors[paneID] = c
	}
	return c
}

// ScrollPane moves a pane's scroll target by delta lines worth of
// pixels (positive scrolls back into history).
func (r *Renderer) ScrollPane(paneID uint64, deltaPx float32) {
	r.scrollSpringFor(paneID).ScrollBy(deltaPx)
}

// ReleasePane drops a closed pane's animation and cache state.
func (r *Renderer) ReleasePane(paneID uint64) {
	delete(r.scrollSprings, paneID)
	delete(r.cursors, paneID)
	r.caches.Remove(paneID)
}

// Tick advances every pane's springs by dt; called once per frame before
// Frame (kept separate so callers can tick independent of whether a
// frame is actually drawn, e.g. while minimized).
func (r *Renderer) Tick(dt float32) {
	for _, s := range r.scrollSprings {
		s.Tick(dt)
	}
	for _, c := range r.cursors {
		c.Tick(dt)
	}
}

func contentOrigin(rect, windowRect paneset.Rect) (x, y float32) {
	x, y = float32(rect.X), float32(rect.Y)
	if rect.X > windowRect.X {
		x += borderWidth + borderPadding
	}
	if rect.Y > windowRect.Y {
		y += borderWidth + borderPadding
	}
	return
}

func premultiply(c RGBA, alpha float32) RGBA {
	return RGBA{R: c.R * alpha, G: c.G * alpha, B: c.B * alpha, A: c.A * alpha}
}

func dim(c RGBA, factor, alpha float32) RGBA {
	return RGBA{R: c.R * factor, G: c.G * factor, B: c.B * factor, A: alpha}
}

// Frame renders one frame of the given pane manager into windowRect.
// It implements spec §4.8 steps 1-10 and is a no-op (frame skipped) on
// a transient surface condition.
func (r *Renderer) Frame(m *panes.Manager, windowRect paneset.Rect, sel *selection.Selection) error {
	if err := r.surface.Acquire(); err != nil {
		if err == ErrSurfaceLost || err == ErrSurfaceOutdated {
			r.surface.Reconfigure(int(windowRect.W), int(windowRect.H))
			return nil
		}
		return err
	}

	r.surface.Clear(premultiply(r.theme.Background, r.windowOpacity))
	if r.bgImagePath != "" {
		r.surface.DrawBackgroundImage(r.bgImageOpacity)
	}

	rects := m.Layout().ComputeRects(windowRect)
	focusedID := m.FocusedID()

	for _, pr := range rects {
		pane := m.Pane(pr.PaneID)
		if pane == nil {
			continue
		}
		grid := pane.Session.Parser.Grid
		spr := r.scrollSpringFor(pr.PaneID)
		spr.SetMaxOffset(float32(grid.ScrollbackLen()) * r.cellH)
	}

	var overlayQuads []Quad
	var cursorCorners [4]Vec2
	var cursorColor RGBA
	var urlQuads []Quad
	haveCursor := false

	for _, pr := range rects {
		pane := m.Pane(pr.PaneID)
		if pane == nil {
			continue
		}
		grid := pane.Session.Parser.Grid
		spr := r.scrollSpringFor(pr.PaneID)
		cache := r.caches.For(pr.PaneID)

		contentX, contentY := contentOrigin(pr.Rect, windowRect)
		layout := shapecache.CellLayout{CellW: r.cellW, CellH: r.cellH, ContentX: contentX, ContentY: contentY, ScrollOffsetPx: spr.Position}

		defaultFg := r.theme.Foreground
		defaultBg := r.theme.Background
		fg8 := rgbaToRGB8(defaultFg)
		bg8 := rgbaToRGB8(defaultBg)

		visible := cache.Visible(grid, r.shaper, r.theme.Palette, layout, fg8, bg8)
		r.submitGlyphs(visible, pr.Rect)

		// Called every frame: at rest (offset <= 0.5px) Scrollback shapes
		// nothing, returns nil and drops the pane's scrollback entry.
		firstVisibleAbsRow := grid.ScrollbackLen() - int(spr.Position/r.cellH) - 1
		if firstVisibleAbsRow < 0 {
			firstVisibleAbsRow = 0
		}
		_, rows := grid.Size()
		sb := cache.Scrollback(grid, firstVisibleAbsRow, rows, r.shaper, r.theme.Palette, layout, fg8, bg8)
		r.submitGlyphs(sb, pr.Rect)

		if pr.PaneID == focusedID {
			if sel != nil && sel.Active() {
				overlayQuads = append(overlayQuads, r.selectionQuads(sel, pr.Rect, contentX, contentY)...)
			}
			row, col := grid.Cursor()
			anim := r.cursorFor(pr.PaneID, col, row, contentX, contentY)
			from := anim.Corners()[0]
			fromCol := int(math.Round(float64((from.X - contentX) / r.cellW)))
			fromRow := int(math.Round(float64((from.Y - contentY - spr.Position) / r.cellH)))
			if cursoranim.ShouldSnap(fromCol, fromRow, col, row) {
				anim.SnapTo(col, row, contentX, contentY, r.cellW, r.cellH, spr.Position)
			} else {
				anim.MoveTo(col, row, contentX, contentY, r.cellW, r.cellH, spr.Position)
				anim.ClampLag(r.cellW, r.cellH)
			}
			for i, c := range anim.Corners() {
				cursorCorners[i] = Vec2{X: c.X, Y: c.Y}
			}
			cursorColor = r.theme.CursorColor
			haveCursor = true
			urlQuads = r.urlUnderlineQuads(grid, contentX, contentY)
		}
	}

	if haveCursor {
		overlayQuads = append(overlayQuads, cursorQuadAsRect(cursorCorners, cursorColor))
	}
	overlayQuads = append(overlayQuads, urlQuads...)
	if len(overlayQuads) > 0 {
		r.surface.SubmitQuadBatch("overlay", overlayQuads)
	}

	if len(rects) > 1 {
		borders := r.borderQuads(rects, windowRect)
		r.surface.SubmitQuadBatch("borders", borders)
	}

	r.surface.Present()
	r.surface.TrimAtlas()
	return nil
}

func (r *Renderer) submitGlyphs(glyphs []shapecache.ShapedGlyph, rect paneset.Rect) {
	if len(glyphs) == 0 {
		return
	}
	draws := make([]GlyphDraw, 0, len(glyphs))
	for _, g := range glyphs {
		if float32(g.Y) < float32(rect.Y) || float32(g.Y) > float32(rect.Y+rect.H) {
			continue
		}
		draws = append(draws, GlyphDraw{X: g.X, Y: g.Y, Rune: g.Rune, Color: rgb8ToRGBA(g.Color)})
	}
	if len(draws) == 0 {
		return
	}
	r.surface.SubmitText(TextRun{Glyphs: draws, ClipY0: float32(rect.Y), ClipY1: float32(rect.Y + rect.H)})
}

func (r *Renderer) selectionQuads(sel *selection.Selection, rect paneset.Rect, contentX, contentY float32) []Quad {
	min, max := sel.Normalized()
	color := dim(r.theme.Foreground, 1, 0.3)
	var quads []Quad
	for row := min.Row; row <= max.Row; row++ {
		colStart := 0
		colEnd := int(rect.W / float64(r.cellW))
		if row == min.Row {
			colStart = min.Col
		}
		if row == max.Row {
			colEnd = max.Col
		}
		if colEnd < colStart {
			continue
		}
		quads = append(quads, Quad{
			X: contentX + float32(colStart)*r.cellW,
			Y: contentY + float32(row-min.Row)*r.cellH,
			W: float32(colEnd-colStart+1) * r.cellW,
			H: r.cellH,
			Color: color,
		})
	}
	return quads
}

// urlUnderlineQuads scans the focused pane's visible rows for hyperlinks
// and returns a thin underline quad per match (spec §4.8 step 7 "... then
// URL underline if any").
func (r *Renderer) urlUnderlineQuads(grid *termgrid.Grid, contentX, contentY float32) []Quad {
	cols, rows := grid.Size()
	color := r.theme.Foreground
	var quads []Quad
	for row := 0; row < rows; row++ {
		line := rowText(grid, row, cols)
		for _, m := range urlscan.Detect(line) {
			quads = append(quads, Quad{
				X:     contentX + float32(m.Start)*r.cellW,
				Y:     contentY + float32(row+1)*r.cellH - 1,
				W:     float32(m.End-m.Start) * r.cellW,
				H:     1,
				Color: dim(color, 1, 0.6),
			})
		}
	}
	return quads
}

// rowText flattens one visible grid row into plain text for
// urlscan.Detect, which scans whole-row text rather than individual
// cells.
func rowText(grid *termgrid.Grid, row, cols int) string {
	runes := make([]rune, 0, cols)
	for col := 0; col < cols; col++ {
		c := grid.Cell(row, col)
		if c.Width == 0 {
			continue
		}
		if c.Char == 0 {
			runes = append(runes, ' ')
			continue
		}
		runes = append(runes, c.Char)
	}
	return string(runes)
}

// cursorQuadAsRect collapses the (possibly deformed) four-corner cursor
// quad into its axis-aligned bounding rect. Frame draws the cursor only
// as this rect through SubmitQuadBatch; the deformed quad shape itself
// is not drawn.
func cursorQuadAsRect(corners [4]Vec2, color RGBA) Quad {
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := corners[0].X, corners[0].Y
	for _, c := range corners[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	return Quad{X: minX, Y: minY, W: maxX - minX, H: maxY - minY, Color: color}
}

func (r *Renderer) borderQuads(rects []paneset.PaneRect, windowRect paneset.Rect) []Quad {
	color := dim(r.theme.Foreground, 0.4, 0.4)
	var quads []Quad
	for _, pr := range rects {
		rect := pr.Rect
		if rect.X > windowRect.X {
			quads = append(quads, Quad{X: float32(rect.X - borderWidth), Y: float32(rect.Y), W: borderWidth, H: float32(rect.H), Color: color})
		}
		if rect.Y > windowRect.Y {
			quads = append(quads, Quad{X: float32(rect.X), Y: float32(rect.Y - borderWidth), W: float32(rect.W), H: borderWidth, Color: color})
		}
	}
	return quads
}

func rgbaToRGB8(c RGBA) shapecache.RGB8 {
	return shapecache.RGB8{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255)}
}

func rgb8ToRGBA(c shapecache.RGB8) RGBA {
	return RGBA{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: 1}
}
