// Package vtparser implements a VT100/xterm-style escape-sequence state
// machine (the "Williams VT" DFA, collapsed to the states this terminal
// actually needs) that consumes a PTY's byte stream and dispatches
// mutations onto an internal/termgrid.Grid. It never touches rendering.
package vtparser

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ravensplit/smoothterm/internal/cell"
	"github.com/ravensplit/smoothterm/internal/termgrid"
)

type state int

const (
	stateGround state = iota
	stateEscape
	stateCSI
	stateOSC
	stateDCS
	stateCharset
	stateHash
)

// Parser drives a termgrid.Grid from a stream of PTY bytes. A Parser owns
// exactly one Grid at a time (the live grid, or the alternate-screen grid
// while DEC private mode 1049/47 is active) and is safe for concurrent
// Process/Resize calls, though in practice only the UI thread ever calls
// either, during the per-frame drain (see internal/session).
type Parser struct {
	mu sync.Mutex

	Grid *termgrid.Grid

	state     state
	csiParams string
	oscBuf    string

	fg    cell.Color
	bg    cell.Color
	flags cell.Flags

	appCursorKeys   bool
	alternateScreen bool
	mainGrid        *termgrid.Grid

	workingDir string

	responseWriter func([]byte)

	utf8Buf       []byte
	utf8Remaining int
}

// New creates a parser over a freshly allocated cols x rows grid.
func New(cols, rows int) *Parser {
	return &Parser{
		Grid:  termgrid.New(cols, rows),
		fg:    cell.DefaultFg(),
		bg:    cell.DefaultBg(),
		state: stateGround,
	}
}

// SetResponseWriter installs the callback used to write terminal replies
// (DSR, etc.) back to the PTY.
func (p *Parser) SetResponseWriter(w func([]byte)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responseWriter = w
}

// AppCursorKeys reports whether DECCKM (application cursor keys) is set.
func (p *Parser) AppCursorKeys() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.appCursorKeys
}

// WorkingDir returns the last directory reported via OSC 7.
func (p *Parser) WorkingDir() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workingDir
}

// Resize resizes the live grid and, if currently swapped out, the saved
// main-screen grid too, so returning from the alternate screen doesn't
// leave a stale size behind.
func (p *Parser) Resize(cols, rows int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Grid.Resize(cols, rows)
	if p.mainGrid != nil {
		p.mainGrid.Resize(cols, rows)
	}
}

// Process feeds a chunk of PTY output through the state machine in order.
func (p *Parser) Process(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range data {
		p.step(b)
	}
}

func (p *Parser) step(b byte) {
	switch p.state {
	case stateGround:
		p.ground(b)
	case stateEscape:
		p.escape(b)
	case stateCSI:
		p.csi(b)
	case stateOSC:
		p.osc(b)
	case stateDCS:
		if b == 0x1b || b == 0x07 {
			p.state = stateGround
		}
	case stateCharset:
		p.state = stateGround
	case stateHash:
		p.state = stateGround
	}
}

func (p *Parser) attrs() cell.Attrs {
	return cell.Attrs{Fg: p.fg, Bg: p.bg, Flags: p.flags}
}

func (p *Parser) ground(b byte) {
	if p.utf8Remaining > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf = append(p.utf8Buf, b)
			p.utf8Remaining--
			if p.utf8Remaining == 0 {
				r, size := utf8.DecodeRune(p.utf8Buf)
				if r == utf8.RuneError && size <= 1 {
					r = utf8.RuneError
				}
				p.Grid.Print(r)
				p.utf8Buf = nil
			}
			return
		}
		// Invalid continuation byte: emit replacement, reprocess b fresh.
		p.Grid.Print(utf8.RuneError)
		p.utf8Buf = nil
		p.utf8Remaining = 0
		p.ground(b)
		return
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b == 0x07, b == 0x08, b == 0x09, b == 0x0a, b == 0x0b, b == 0x0c, b == 0x0d:
		p.Grid.Execute(b)
	case b >= 0x20 && b < 0x7f:
		p.Grid.Print(rune(b))
	case b >= 0xC0 && b < 0xE0:
		p.utf8Buf = []byte{b}
		p.utf8Remaining = 1
	case b >= 0xE0 && b < 0xF0:
		p.utf8Buf = []byte{b}
		p.utf8Remaining = 2
	case b >= 0xF0 && b < 0xF8:
		p.utf8Buf = []byte{b}
		p.utf8Remaining = 3
	case b < 0x20:
		// other C0 controls: ignored
	default:
		// stray UTF-8 continuation/invalid leading byte
		p.Grid.Print(utf8.RuneError)
	}
}

func (p *Parser) escape(b byte) {
	switch b {
	case '[':
		p.state = stateCSI
		p.csiParams = ""
	case ']':
		p.state = stateOSC
		p.oscBuf = ""
	case 'P', '_', '^', 'X':
		p.state = stateDCS
	case '7':
		p.Grid.SaveCursor()
		p.state = stateGround
	case '8':
		p.Grid.RestoreCursor()
		p.state = stateGround
	case 'c':
		p.reset()
		p.state = stateGround
	case 'D':
		p.Grid.Newline()
		p.state = stateGround
	case 'M':
		p.Grid.ReverseIndex()
		p.state = stateGround
	case 'E':
		p.Grid.CarriageReturn()
		p.Grid.Newline()
		p.state = stateGround
	case '(', ')', '*', '+':
		p.state = stateCharset
	case '#':
		p.state = stateHash
	case '=', '>':
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) csi(b byte) {
	switch {
	case b >= 0x30 && b <= 0x3f, b >= 0x20 && b <= 0x2f:
		p.csiParams += string(b)
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCSI(b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func parseParams(s string) []int {
	s = strings.TrimPrefix(s, "?")
	s = strings.TrimPrefix(s, ">")
	s = strings.TrimPrefix(s, "!")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, len(parts))
	for i, part := range parts {
		if idx := strings.IndexByte(part, ':'); idx >= 0 {
			part = part[:idx]
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

func getParam(params []int, idx, def int) int {
	if idx < len(params) && params[idx] > 0 {
		return params[idx]
	}
	return def
}

func (p *Parser) dispatchCSI(final byte) {
	params := parseParams(p.csiParams)
	isPrivate := strings.HasPrefix(p.csiParams, "?")

	switch final {
	case 'A':
		p.Grid.MoveCursor(0, -getParam(params, 0, 1))
	case 'B':
		p.Grid.MoveCursor(0, getParam(params, 0, 1))
	case 'C':
		p.Grid.MoveCursor(getParam(params, 0, 1), 0)
	case 'D':
		p.Grid.MoveCursor(-getParam(params, 0, 1), 0)
	case 'E':
		p.Grid.CarriageReturn()
		p.Grid.MoveCursor(0, getParam(params, 0, 1))
	case 'F':
		p.Grid.CarriageReturn()
		p.Grid.MoveCursor(0, -getParam(params, 0, 1))
	case 'G', '`':
		p.Grid.SetCursorCol(getParam(params, 0, 1) - 1)
	case 'H', 'f':
		row := getParam(params, 0, 1)
		col := getParam(params, 1, 1)
		p.Grid.SetCursorPos(row-1, col-1)
	case 'J':
		switch getParam(params, 0, 0) {
		case 0:
			p.Grid.ClearToEnd()
		case 1:
			p.Grid.ClearToStart()
		case 2, 3:
			p.Grid.ClearAll()
		}
	case 'K':
		switch getParam(params, 0, 0) {
		case 0:
			p.Grid.ClearCurrentLineToEnd()
		case 1:
			p.Grid.ClearCurrentLineToStart()
		case 2:
			p.Grid.ClearCurrentLine()
		}
	case 'L':
		p.Grid.InsertLines(getParam(params, 0, 1))
	case 'M':
		p.Grid.DeleteLines(getParam(params, 0, 1))
	case 'P':
		p.Grid.DeleteChars(getParam(params, 0, 1))
	case 'X':
		p.Grid.EraseChars(getParam(params, 0, 1))
	case '@':
		p.Grid.InsertChars(getParam(params, 0, 1))
	case 'S':
		p.Grid.ScrollUp(getParam(params, 0, 1))
	case 'T':
		p.Grid.ScrollDown(getParam(params, 0, 1))
	case 'd':
		_, col := p.Grid.Cursor()
		p.Grid.SetCursorPos(getParam(params, 0, 1)-1, col)
	case 'e':
		p.Grid.MoveCursor(0, getParam(params, 0, 1))
	case 'a':
		p.Grid.MoveCursor(getParam(params, 0, 1), 0)
	case 'b':
		p.Grid.RepeatChar(getParam(params, 0, 1))
	case 'm':
		p.executeSGR(params)
	case 'h':
		p.setMode(params, isPrivate, true)
	case 'l':
		p.setMode(params, isPrivate, false)
	case 'r':
		top := getParam(params, 0, 1)
		_, rows := p.Grid.Size()
		bottom := getParam(params, 1, rows)
		p.Grid.SetScrollRegion(top, bottom)
	case 's':
		p.Grid.SaveCursor()
	case 'u':
		p.Grid.RestoreCursor()
	case 'n':
		p.handleDSR(params)
	case 'c', 't', 'q':
		// device attributes / window manipulation / cursor style: ignored
	default:
		// unknown final byte: dropped silently, parser already back to ground
	}
}

func (p *Parser) executeSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		v := params[i]
		switch {
		case v == 0:
			p.fg = cell.DefaultFg()
			p.bg = cell.DefaultBg()
			p.flags = 0
		case v == 1:
			p.flags |= cell.FlagBold
		case v == 2:
			p.flags |= cell.FlagDim
		case v == 3:
			p.flags |= cell.FlagItalic
		case v == 4:
			p.flags |= cell.FlagUnderline
		case v == 5 || v == 6:
			p.flags |= cell.FlagBlink
		case v == 7:
			p.flags |= cell.FlagReverse
		case v == 8:
			p.flags |= cell.FlagInvisible
		case v == 9:
			p.flags |= cell.FlagStrikethrough
		case v == 22:
			p.flags &^= cell.FlagBold
			p.flags &^= cell.FlagDim
		case v == 23:
			p.flags &^= cell.FlagItalic
		case v == 24:
			p.flags &^= cell.FlagUnderline
		case v == 25:
			p.flags &^= cell.FlagBlink
		case v == 27:
			p.flags &^= cell.FlagReverse
		case v == 28:
			p.flags &^= cell.FlagInvisible
		case v == 29:
			p.flags &^= cell.FlagStrikethrough
		case v >= 30 && v <= 37:
			p.fg = cell.Indexed(uint8(v - 30))
		case v == 38:
			if i+1 < len(params) {
				if params[i+1] == 5 && i+2 < len(params) {
					p.fg = cell.Indexed(uint8(params[i+2]))
					i += 2
				} else if params[i+1] == 2 && i+4 < len(params) {
					p.fg = cell.RGB(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4]))
					i += 4
				}
			}
		case v == 39:
			p.fg = cell.DefaultFg()
		case v >= 40 && v <= 47:
			p.bg = cell.Indexed(uint8(v - 40))
		case v == 48:
			if i+1 < len(params) {
				if params[i+1] == 5 && i+2 < len(params) {
					p.bg = cell.Indexed(uint8(params[i+2]))
					i += 2
				} else if params[i+1] == 2 && i+4 < len(params) {
					p.bg = cell.RGB(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4]))
					i += 4
				}
			}
		case v == 49:
			p.bg = cell.DefaultBg()
		case v >= 90 && v <= 97:
			p.fg = cell.Indexed(uint8(v - 90 + 8))
		case v >= 100 && v <= 107:
			p.bg = cell.Indexed(uint8(v - 100 + 8))
		}
	}
	p.Grid.SetCurrentAttrs(p.attrs())
}

func (p *Parser) setMode(params []int, private bool, set bool) {
	for _, v := range params {
		if !private {
			continue
		}
		switch v {
		case 1:
			p.appCursorKeys = set
		case 7:
			p.Grid.SetAutoWrap(set)
		case 25:
			p.Grid.SetCursorVisible(set)
		case 2004:
			p.Grid.SetBracketedPaste(set)
		case 47, 1047:
			if set {
				p.enterAltScreen()
			} else {
				p.exitAltScreen()
			}
		case 1049:
			if set {
				p.Grid.SaveCursor()
				p.enterAltScreen()
			} else {
				p.exitAltScreen()
				p.Grid.RestoreCursor()
			}
		}
	}
}

func (p *Parser) enterAltScreen() {
	if p.alternateScreen {
		return
	}
	cols, rows := p.Grid.Size()
	p.mainGrid = p.Grid
	p.Grid = termgrid.New(cols, rows)
	p.alternateScreen = true
}

func (p *Parser) exitAltScreen() {
	if !p.alternateScreen || p.mainGrid == nil {
		return
	}
	p.Grid = p.mainGrid
	p.mainGrid = nil
	p.alternateScreen = false
}

func (p *Parser) osc(b byte) {
	if b == 0x07 || b == 0x1b {
		p.handleOSC(p.oscBuf)
		p.oscBuf = ""
		p.state = stateGround
		return
	}
	p.oscBuf += string(b)
}

func (p *Parser) handleOSC(params string) {
	switch {
	case strings.HasPrefix(params, "0;"), strings.HasPrefix(params, "2;"):
		p.Grid.SetTitle(params[2:])
	case strings.HasPrefix(params, "7;"):
		if path := parseOSC7Path(strings.TrimPrefix(params, "7;")); path != "" {
			p.workingDir = path
		}
	}
}

func parseOSC7Path(value string) string {
	if strings.HasPrefix(value, "file://") {
		u, err := url.Parse(value)
		if err != nil || u.Path == "" {
			return ""
		}
		path, err := url.PathUnescape(u.Path)
		if err != nil {
			return ""
		}
		return path
	}
	if strings.HasPrefix(value, "/") {
		return value
	}
	return ""
}

func (p *Parser) handleDSR(params []int) {
	if p.responseWriter == nil {
		return
	}
	switch getParam(params, 0, 0) {
	case 5:
		p.responseWriter([]byte("\x1b[0n"))
	case 6:
		row, col := p.Grid.Cursor()
		p.responseWriter([]byte("\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "R"))
	}
}

func (p *Parser) reset() {
	p.Grid.ClearAll()
	p.Grid.SetCursorPos(0, 0)
	p.fg = cell.DefaultFg()
	p.bg = cell.DefaultBg()
	p.flags = 0
	p.appCursorKeys = false
	p.Grid.SetCursorVisible(true)
	p.exitAltScreen()
}
