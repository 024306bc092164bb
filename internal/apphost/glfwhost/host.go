// Package glfwhost binds apphost.Host to github.com/go-gl/glfw/v3.3/glfw
// and github.com/go-gl/gl/v4.1-core/gl, adapted from the teacher's
// src/window/window.go (context hints, icon loading, vsync, blend mode)
// generalized from that package's hand-rolled callback wiring in main.go
// into the apphost.App callback contract.
package glfwhost

import (
	"os/exec"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/atotto/clipboard"

	"github.com/ravensplit/smoothterm/internal/apphost"
	"github.com/ravensplit/smoothterm/internal/inputdecoder"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// Config mirrors the teacher's window.Config.
type Config struct {
	Width, Height int
	Title         string
	FontFamily    string
	FontSize      float32
}

// DefaultConfig matches the teacher's window.DefaultConfig dimensions.
func DefaultConfig() Config {
	return Config{Width: 900, Height: 600, Title: "Smooth Terminal", FontSize: 14}
}

// Host is the glfw-backed apphost.Host implementation.
type Host struct {
	win *glfw.Window
	cfg Config

	arrowCursor   *glfw.Cursor
	handCursor    *glfw.Cursor
	pointerActive bool
}

// New creates a window and OpenGL context; ready for Run once an App is
// available.
func New(cfg Config) (*Host, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHintString(glfw.X11ClassName, "smooth-terminal")
	glfw.WindowHintString(glfw.X11InstanceName, "smooth-terminal")

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}

	glfw.SwapInterval(1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Host{
		win:         win,
		cfg:         cfg,
		arrowCursor: glfw.CreateStandardCursor(glfw.ArrowCursor),
		handCursor:  glfw.CreateStandardCursor(glfw.HandCursor),
	}, nil
}

// GLFWWindow exposes the underlying window for callers that need to hand
// it to glbackend.New's swap callback.
func (h *Host) GLFWWindow() *glfw.Window { return h.win }

// FramebufferSize implements apphost.Host.
func (h *Host) FramebufferSize() (int, int) {
	return h.win.GetFramebufferSize()
}

// Clipboard implements apphost.Host.
func (h *Host) Clipboard() apphost.Clipboard { return systemClipboard{} }

// OpenURL implements apphost.Host.
func (h *Host) OpenURL() apphost.URLOpener { return platformOpener{} }

// SetPointerCursor implements apphost.Host.
func (h *Host) SetPointerCursor(hover bool) {
	if hover == h.pointerActive {
		return
	}
	h.pointerActive = hover
	if hover {
		h.win.SetCursor(h.handCursor)
		return
	}
	h.win.SetCursor(h.arrowCursor)
}

// Destroy implements apphost.Host.
func (h *Host) Destroy() {
	h.arrowCursor.Destroy()
	h.handCursor.Destroy()
	h.win.Destroy()
	glfw.Terminate()
}

// Run implements apphost.Host: wires glfw callbacks to app and drives the
// frame loop until the window should close or app reports empty. Each
// frame passes the measured wall-clock time since the previous frame as
// dt; the step is not fixed.
func (h *Host) Run(app apphost.App) error {
	var mods inputdecoder.Mods

	w, ht := h.win.GetFramebufferSize()
	app.OnFramebufferSize(w, ht)

	h.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		app.OnFramebufferSize(width, height)
	})
	h.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, m glfw.ModifierKey) {
		mods = toMods(m)
		if action == glfw.Repeat {
			action = glfw.Press
		}
		if action != glfw.Press && action != glfw.Release {
			return
		}
		var r rune
		if mods&(inputdecoder.ModCtrl|inputdecoder.ModAlt) != 0 {
			r = runeForKey(key)
		}
		app.OnKey(apphost.KeyEvent{Key: toKey(key), Rune: r, Mods: mods, Press: action == glfw.Press})
	})
	h.win.SetCharCallback(func(_ *glfw.Window, r rune) {
		app.OnChar(r)
	})
	h.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := h.win.GetCursorPos()
		app.OnMouseButton(toMouseButton(button), action == glfw.Press, x, y)
	})
	h.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		app.OnCursorPos(x, y)
	})
	h.win.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		app.OnScroll(dx, dy)
	})

	last := time.Now()
	for !h.win.ShouldClose() && !app.ShouldClose() {
		glfw.PollEvents()
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		app.Frame(dt)
	}
	return nil
}

func toMods(m glfw.ModifierKey) inputdecoder.Mods {
	var out inputdecoder.Mods
	if m&glfw.ModShift != 0 {
		out |= inputdecoder.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= inputdecoder.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= inputdecoder.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= inputdecoder.ModCmd
	}
	return out
}

func toMouseButton(b glfw.MouseButton) apphost.MouseButton {
	switch b {
	case glfw.MouseButtonRight:
		return apphost.MouseRight
	case glfw.MouseButtonMiddle:
		return apphost.MouseMiddle
	default:
		return apphost.MouseLeft
	}
}

func toKey(k glfw.Key) inputdecoder.Key {
	switch k {
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return inputdecoder.KeyEnter
	case glfw.KeyTab:
		return inputdecoder.KeyTab
	case glfw.KeyBackspace:
		return inputdecoder.KeyBackspace
	case glfw.KeyDelete:
		return inputdecoder.KeyDelete
	case glfw.KeyEscape:
		return inputdecoder.KeyEscape
	case glfw.KeyUp:
		return inputdecoder.KeyUp
	case glfw.KeyDown:
		return inputdecoder.KeyDown
	case glfw.KeyLeft:
		return inputdecoder.KeyLeft
	case glfw.KeyRight:
		return inputdecoder.KeyRight
	case glfw.KeyHome:
		return inputdecoder.KeyHome
	case glfw.KeyEnd:
		return inputdecoder.KeyEnd
	case glfw.KeyPageUp:
		return inputdecoder.KeyPageUp
	case glfw.KeyPageDown:
		return inputdecoder.KeyPageDown
	case glfw.KeyF1:
		return inputdecoder.KeyF1
	case glfw.KeyF2:
		return inputdecoder.KeyF2
	case glfw.KeyF3:
		return inputdecoder.KeyF3
	case glfw.KeyF4:
		return inputdecoder.KeyF4
	case glfw.KeyF5:
		return inputdecoder.KeyF5
	case glfw.KeyF6:
		return inputdecoder.KeyF6
	case glfw.KeyF7:
		return inputdecoder.KeyF7
	case glfw.KeyF8:
		return inputdecoder.KeyF8
	case glfw.KeyF9:
		return inputdecoder.KeyF9
	case glfw.KeyF10:
		return inputdecoder.KeyF10
	case glfw.KeyF11:
		return inputdecoder.KeyF11
	case glfw.KeyF12:
		return inputdecoder.KeyF12
	case glfw.KeyD:
		return inputdecoder.KeyD
	case glfw.KeyW:
		return inputdecoder.KeyW
	case glfw.KeyRightBracket:
		return inputdecoder.KeyBracketRight
	case glfw.KeyLeftBracket:
		return inputdecoder.KeyBracketLeft
	case glfw.KeyComma:
		return inputdecoder.KeyComma
	case glfw.KeyT:
		return inputdecoder.KeyT
	case glfw.KeyN:
		return inputdecoder.KeyN
	case glfw.Key1:
		return inputdecoder.KeyDigit1
	case glfw.Key2:
		return inputdecoder.KeyDigit2
	case glfw.Key3:
		return inputdecoder.KeyDigit3
	case glfw.Key4:
		return inputdecoder.KeyDigit4
	case glfw.Key5:
		return inputdecoder.KeyDigit5
	case glfw.Key6:
		return inputdecoder.KeyDigit6
	case glfw.Key7:
		return inputdecoder.KeyDigit7
	case glfw.Key8:
		return inputdecoder.KeyDigit8
	case glfw.Key9:
		return inputdecoder.KeyDigit9
	case glfw.KeyC:
		return inputdecoder.KeyC
	case glfw.KeyV:
		return inputdecoder.KeyV
	case glfw.KeyL:
		return inputdecoder.KeyL
	default:
		return inputdecoder.KeyUnknown
	}
}

// runeForKey maps a glfw key code to the ASCII rune it produces
// unmodified, used only to feed inputdecoder.Decode's character-key path
// for Ctrl/Alt combos (glfw's key codes for letters and digits equal
// their ASCII codepoints on a US layout).
func runeForKey(key glfw.Key) rune {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return rune('a' + int(key-glfw.KeyA))
	case key >= glfw.Key0 && key <= glfw.Key9:
		return rune('0' + int(key-glfw.Key0))
	}
	switch key {
	case glfw.KeySpace:
		return ' '
	case glfw.KeyMinus:
		return '-'
	case glfw.KeyEqual:
		return '='
	case glfw.KeyPeriod:
		return '.'
	case glfw.KeyComma:
		return ','
	case glfw.KeySlash:
		return '/'
	case glfw.KeySemicolon:
		return ';'
	case glfw.KeyLeftBracket:
		return '['
	case glfw.KeyRightBracket:
		return ']'
	}
	return 0
}

type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteText(s string) error  { return clipboard.WriteAll(s) }

// platformOpener launches the platform's URL handler off the calling
// goroutine via exec.Cmd.Start (non-blocking), matching the teacher's
// openURL (main.go) adapted to the spec §9 open question: a short-lived
// background thread avoids re-entrant OS events on platforms where that
// matters.
type platformOpener struct{}

func (platformOpener) Open(target string) {
	go func() {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", target)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
		default:
			cmd = exec.Command("xdg-open", target)
		}
		_ = cmd.Start()
	}()
}
