// Command smoothterm is the application entry point: it wires the host
// window, GPU surface, pane manager, and renderer together and drives the
// frame loop. Adapted from the teacher's main.go, which does the same
// wiring by hand against window/render/tab instead of the apphost/gpu/
// panes/renderer split used here.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/ravensplit/smoothterm/internal/apphost"
	"github.com/ravensplit/smoothterm/internal/apphost/glfwhost"
	"github.com/ravensplit/smoothterm/internal/config"
	"github.com/ravensplit/smoothterm/internal/gpu/glbackend"
	"github.com/ravensplit/smoothterm/internal/inputdecoder"
	"github.com/ravensplit/smoothterm/internal/panes"
	"github.com/ravensplit/smoothterm/internal/paneset"
	"github.com/ravensplit/smoothterm/internal/ptyio"
	"github.com/ravensplit/smoothterm/internal/renderer"
	"github.com/ravensplit/smoothterm/internal/selection"
	"github.com/ravensplit/smoothterm/internal/shapecache"
	"github.com/ravensplit/smoothterm/internal/termgrid"
	"github.com/ravensplit/smoothterm/internal/urlscan"
)

var logger = log.New(os.Stderr, "smoothterm: ", log.LstdFlags)

func main() {
	shellFlag := flag.String("shell", "", "override the shell to launch (defaults to $SHELL)")
	colsFlag := flag.Int("cols", 0, "initial column count (0: derive from window size)")
	rowsFlag := flag.Int("rows", 0, "initial row count (0: derive from window size)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("load config: %v", err)
	}

	watcher, err := config.NewWatcher()
	if err != nil {
		logger.Printf("watch config: %v; hot reload disabled", err)
	}

	host, err := glfwhost.New(glfwhost.Config{
		Width: int(cfg.Window.Width), Height: int(cfg.Window.Height),
		Title: "Smooth Terminal", FontFamily: cfg.Font.Family, FontSize: cfg.Font.Size,
	})
	if err != nil {
		logger.Fatalf("create window: %v", err)
	}
	defer host.Destroy()

	w, h := host.FramebufferSize()
	surface, err := glbackend.New(w, h, cfg.Font.Family, cfg.Font.Size, host.GLFWWindow().SwapBuffers)
	if err != nil {
		logger.Fatalf("create GPU surface: %v", err)
	}
	surface.SetBackgroundImagePath(cfg.Background.ImagePath)

	cellW, cellH := surface.CellSize()
	cols, rows := *colsFlag, *rowsFlag
	if cols <= 0 {
		cols = int(float32(w) / cellW)
	}
	if rows <= 0 {
		rows = int(float32(h) / cellH)
	}

	mgr, err := panes.New(cols, rows, ptyio.Options{Shell: *shellFlag})
	if err != nil {
		logger.Fatalf("spawn shell: %v", err)
	}

	rend := renderer.New(surface, surface, themeFromConfig(cfg), cellW, cellH)
	rend.SetAnimationParams(cfg.Animation.ScrollSpringFrequency, cfg.Animation.CursorSpringFrequency, cfg.Animation.CursorTrailEnabled)
	rend.SetBackgroundImage(cfg.Background.ImagePath, cfg.Background.ImageOpacity)

	a := &app{
		host: host, surface: surface, renderer: rend, manager: mgr,
		cfg: cfg, watcher: watcher, cellW: cellW, cellH: cellH,
		windowRect: paneset.Rect{W: float64(w), H: float64(h)},
	}
	if err := host.Run(a); err != nil {
		logger.Fatalf("run: %v", err)
	}
}

// app implements apphost.App, owning the per-window UI state that sits
// above the pane manager and renderer: selection, hover, and the mapping
// from input events to pane/action dispatch.
type app struct {
	host     *glfwhost.Host
	surface  *glbackend.Surface
	renderer *renderer.Renderer
	manager  *panes.Manager
	cfg      *config.Config
	watcher  *config.Watcher

	mods       inputdecoder.Mods
	cellW      float32
	cellH      float32
	windowRect paneset.Rect

	mouseX, mouseY float64
	dragging       bool
	sel            selection.Selection

	shouldClose bool
}

func (a *app) OnFramebufferSize(width, height int) {
	a.windowRect = paneset.Rect{W: float64(width), H: float64(height)}
	a.surface.Reconfigure(width, height)
	rects := a.manager.Layout().ComputeRects(a.windowRect)
	a.manager.ResizePanes(rects, float64(a.cellW), float64(a.cellH))
}

func (a *app) OnKey(ev apphost.KeyEvent) {
	a.mods = ev.Mods
	if !ev.Press {
		return
	}
	act := inputdecoder.Decode(ev.Key, ev.Rune, ev.Mods)
	a.dispatch(act)
}

func (a *app) OnChar(r rune) {
	if a.mods&(inputdecoder.ModCtrl|inputdecoder.ModAlt|inputdecoder.ModCmd) != 0 {
		return
	}
	act := inputdecoder.Decode(inputdecoder.KeyUnknown, r, 0)
	a.dispatch(act)
}

func (a *app) dispatch(act inputdecoder.InputAction) {
	switch act.Kind {
	case inputdecoder.ActionNone:
		return
	case inputdecoder.ActionBytes:
		if p := a.manager.FocusedPane(); p != nil {
			_ = p.Session.Write(act.Bytes)
		}
	case inputdecoder.ActionSplitHorizontal:
		a.split(paneset.KindHSplit)
	case inputdecoder.ActionSplitVertical:
		a.split(paneset.KindVSplit)
	case inputdecoder.ActionClosePane:
		a.manager.ClosePane(a.manager.FocusedID())
	case inputdecoder.ActionFocusNextPane:
		a.manager.FocusNext()
	case inputdecoder.ActionFocusPrevPane:
		a.manager.FocusPrev()
	case inputdecoder.ActionFocusDirectionUp:
		a.manager.FocusDirection(a.rects(), panes.DirUp)
	case inputdecoder.ActionFocusDirectionDown:
		a.manager.FocusDirection(a.rects(), panes.DirDown)
	case inputdecoder.ActionFocusDirectionLeft:
		a.manager.FocusDirection(a.rects(), panes.DirLeft)
	case inputdecoder.ActionFocusDirectionRight:
		a.manager.FocusDirection(a.rects(), panes.DirRight)
	case inputdecoder.ActionResizeUp:
		a.manager.ResizeFocused(panes.DirUp)
	case inputdecoder.ActionResizeDown:
		a.manager.ResizeFocused(panes.DirDown)
	case inputdecoder.ActionResizeLeft:
		a.manager.ResizeFocused(panes.DirLeft)
	case inputdecoder.ActionResizeRight:
		a.manager.ResizeFocused(panes.DirRight)
	case inputdecoder.ActionCopy:
		if p := a.manager.FocusedPane(); p != nil {
			if err := a.sel.Copy(p.Session.Parser.Grid); err != nil {
				logger.Printf("copy: %v", err)
			}
		}
	case inputdecoder.ActionPaste:
		a.paste()
	case inputdecoder.ActionScrollUp:
		a.renderer.ScrollPane(a.manager.FocusedID(), float32(a.cellH)*3)
	case inputdecoder.ActionScrollDown:
		a.renderer.ScrollPane(a.manager.FocusedID(), -float32(a.cellH)*3)
	case inputdecoder.ActionOpenConfig:
		if path, err := config.Path(); err == nil {
			a.host.OpenURL().Open(path)
		}
	case inputdecoder.ActionToggleTheme:
		a.cycleTheme()
	case inputdecoder.ActionNewTab, inputdecoder.ActionNewWindow,
		inputdecoder.ActionSwitchTab, inputdecoder.ActionTileLeft,
		inputdecoder.ActionTileRight, inputdecoder.ActionMaximize,
		inputdecoder.ActionRestore:
		// Single-window single-tab posture for this port: these global
		// actions from the teacher's tab manager have no target here.
	}
}

func (a *app) split(kind paneset.Kind) {
	var err error
	if kind == paneset.KindHSplit {
		_, err = a.manager.SplitHorizontal(float64(a.cellW), float64(a.cellH), a.windowRect)
	} else {
		_, err = a.manager.SplitVertical(float64(a.cellW), float64(a.cellH), a.windowRect)
	}
	if err != nil {
		logger.Printf("split: %v", err)
	}
}

func (a *app) rects() []paneset.PaneRect {
	return a.manager.Layout().ComputeRects(a.windowRect)
}

func (a *app) paneAt(x, y float64) (uint64, paneset.Rect, bool) {
	for _, pr := range a.rects() {
		if x >= pr.Rect.X && x < pr.Rect.X+pr.Rect.W && y >= pr.Rect.Y && y < pr.Rect.Y+pr.Rect.H {
			return pr.PaneID, pr.Rect, true
		}
	}
	return 0, paneset.Rect{}, false
}

func (a *app) cellAt(x, y float64, rect paneset.Rect) (row, col int) {
	col = int((x - rect.X) / float64(a.cellW))
	row = int((y - rect.Y) / float64(a.cellH))
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	return
}

func (a *app) OnMouseButton(button apphost.MouseButton, press bool, x, y float64) {
	if button != apphost.MouseLeft {
		return
	}
	id, rect, ok := a.paneAt(x, y)
	if !ok {
		return
	}
	if press {
		a.manager.SetFocus(id)
		row, col := a.cellAt(x, y, rect)
		a.sel.Begin(absPosFor(a.manager, id, row, col))
		a.dragging = true
		return
	}
	a.dragging = false
	if a.sel.IsClick() {
		a.followURLAt(id, rect, x, y)
	}
}

func (a *app) followURLAt(paneID uint64, rect paneset.Rect, x, y float64) {
	p := a.manager.Pane(paneID)
	if p == nil {
		return
	}
	row, col := a.cellAt(x, y, rect)
	line := rowText(p.Session.Parser.Grid, row)
	for _, m := range urlscan.Detect(line) {
		if col >= m.Start && col < m.End {
			a.host.OpenURL().Open(m.URL)
			return
		}
	}
}

// rowText flattens one visible grid row into a plain string for
// urlscan.Detect, which works on whole-row text rather than individual
// cells.
func rowText(g *termgrid.Grid, row int) string {
	cols, _ := g.Size()
	runes := make([]rune, 0, cols)
	for col := 0; col < cols; col++ {
		c := g.Cell(row, col)
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

func (a *app) OnCursorPos(x, y float64) {
	a.mouseX, a.mouseY = x, y
	a.updateHoverCursor(x, y)
	if !a.dragging {
		return
	}
	id, rect, ok := a.paneAt(x, y)
	if !ok {
		return
	}
	row, col := a.cellAt(x, y, rect)
	a.sel.Extend(absPosFor(a.manager, id, row, col))
}

// updateHoverCursor implements spec §4.10's hover behavior: the
// character under the pointer gets a pointer cursor when it falls inside
// a detected URL.
func (a *app) updateHoverCursor(x, y float64) {
	id, rect, ok := a.paneAt(x, y)
	if !ok {
		a.host.SetPointerCursor(false)
		return
	}
	p := a.manager.Pane(id)
	if p == nil {
		a.host.SetPointerCursor(false)
		return
	}
	row, col := a.cellAt(x, y, rect)
	line := rowText(p.Session.Parser.Grid, row)
	for _, m := range urlscan.Detect(line) {
		if col >= m.Start && col < m.End {
			a.host.SetPointerCursor(true)
			return
		}
	}
	a.host.SetPointerCursor(false)
}

func (a *app) OnScroll(dx, dy float64) {
	id, _, ok := a.paneAt(a.mouseX, a.mouseY)
	if !ok {
		id = a.manager.FocusedID()
	}
	a.renderer.ScrollPane(id, float32(dy)*float32(a.cellH))
}

func (a *app) paste() {
	text, err := selection.Paste()
	if err != nil || text == "" {
		return
	}
	p := a.manager.FocusedPane()
	if p == nil {
		return
	}
	grid := p.Session.Parser.Grid
	if grid.BracketedPaste() {
		_ = p.Session.Write(append([]byte("\x1b[200~"+text), []byte("\x1b[201~")...))
		return
	}
	_ = p.Session.Write([]byte(text))
}

func (a *app) cycleTheme() {
	themes := config.Themes()
	if len(themes) == 0 {
		return
	}
	idx := 0
	for i, t := range themes {
		if t.Colors == a.cfg.Colors {
			idx = (i + 1) % len(themes)
			break
		}
	}
	a.cfg.Colors = themes[idx].Colors
	a.renderer.SetTheme(themeFromConfig(a.cfg), a.cellW, a.cellH)
}

func (a *app) Frame(dt float32) {
	a.manager.DrainAllPTYOutput()
	if a.manager.CloseDeadPanes() {
		a.shouldClose = true
		return
	}
	a.pollConfigReload()
	a.renderer.Tick(dt)
	if err := a.renderer.Frame(a.manager, a.windowRect, &a.sel); err != nil {
		logger.Printf("frame: %v", err)
	}
}

func (a *app) pollConfigReload() {
	if a.watcher == nil {
		return
	}
	select {
	case <-a.watcher.Changed():
		cfg, err := config.Reload()
		if err != nil {
			logger.Printf("reload config: %v", err)
			return
		}
		a.cfg = cfg
		a.renderer.SetTheme(themeFromConfig(cfg), a.cellW, a.cellH)
		a.renderer.SetAnimationParams(cfg.Animation.ScrollSpringFrequency, cfg.Animation.CursorSpringFrequency, cfg.Animation.CursorTrailEnabled)
		a.renderer.SetBackgroundImage(cfg.Background.ImagePath, cfg.Background.ImageOpacity)
		a.surface.SetBackgroundImagePath(cfg.Background.ImagePath)
	default:
	}
}

func (a *app) ShouldClose() bool { return a.shouldClose }

func themeFromConfig(cfg *config.Config) renderer.Theme {
	pal := shapecache.DefaultPalette()
	pal.Base[0] = hexToRGB8(cfg.Colors.Black)
	pal.Base[1] = hexToRGB8(cfg.Colors.Red)
	pal.Base[2] = hexToRGB8(cfg.Colors.Green)
	pal.Base[3] = hexToRGB8(cfg.Colors.Yellow)
	pal.Base[4] = hexToRGB8(cfg.Colors.Blue)
	pal.Base[5] = hexToRGB8(cfg.Colors.Magenta)
	pal.Base[6] = hexToRGB8(cfg.Colors.Cyan)
	pal.Base[7] = hexToRGB8(cfg.Colors.White)
	pal.Base[8] = hexToRGB8(cfg.Colors.BrightBlack)
	pal.Base[9] = hexToRGB8(cfg.Colors.BrightRed)
	pal.Base[10] = hexToRGB8(cfg.Colors.BrightGreen)
	pal.Base[11] = hexToRGB8(cfg.Colors.BrightYellow)
	pal.Base[12] = hexToRGB8(cfg.Colors.BrightBlue)
	pal.Base[13] = hexToRGB8(cfg.Colors.BrightMagenta)
	pal.Base[14] = hexToRGB8(cfg.Colors.BrightCyan)
	pal.Base[15] = hexToRGB8(cfg.Colors.BrightWhite)

	return renderer.Theme{
		Background:  rgb8ToRGBA(hexToRGB8(cfg.Colors.Background)),
		Foreground:  rgb8ToRGBA(hexToRGB8(cfg.Colors.Foreground)),
		CursorColor: rgb8ToRGBA(hexToRGB8(cfg.Colors.Cursor)),
		Palette:     pal,
	}
}

func hexToRGB8(hex string) shapecache.RGB8 {
	hex = trimHash(hex)
	if len(hex) < 6 {
		return shapecache.RGB8{}
	}
	r := hexByte(hex[0:2])
	g := hexByte(hex[2:4])
	b := hexByte(hex[4:6])
	return shapecache.RGB8{R: r, G: g, B: b}
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

func hexByte(s string) uint8 {
	var v uint8
	for i := 0; i < len(s); i++ {
		c := s[i]
		var n uint8
		switch {
		case c >= '0' && c <= '9':
			n = c - '0'
		case c >= 'a' && c <= 'f':
			n = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			n = c - 'A' + 10
		}
		v = v*16 + n
	}
	return v
}

func rgb8ToRGBA(c shapecache.RGB8) renderer.RGBA {
	return renderer.RGBA{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: 1}
}

// absPosFor converts a pane-local (row, col) into the absolute-row
// coordinate selection.Selection operates in: scrollback rows precede the
// live grid's rows in that space.
func absPosFor(mgr *panes.Manager, paneID uint64, row, col int) termgrid.AbsPos {
	p := mgr.Pane(paneID)
	if p == nil {
		return termgrid.AbsPos{}
	}
	abs := p.Session.Parser.Grid.ScrollbackLen() + row
	return termgrid.AbsPos{Row: abs, Col: col}
}
