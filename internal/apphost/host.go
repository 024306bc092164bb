// Package apphost fixes the contract the core app loop needs from a
// windowing toolkit (spec §1's "host windowing toolkit" collaborator,
// §9's "platform-native window features are collaborators, not core"):
// window creation, event delivery, and clipboard access. glfwhost binds
// this to github.com/go-gl/glfw/v3.3/glfw, the teacher's own toolkit
// (src/window/window.go), the same way internal/renderer's Surface
// interface isolates the GPU half.
package apphost

import "github.com/ravensplit/smoothterm/internal/inputdecoder"

// KeyEvent is a toolkit-independent key press/release, already mapped to
// the inputdecoder vocabulary. Rune is set only when Ctrl or Alt is held
// (so inputdecoder.Decode can produce a control code or ESC-prefixed
// sequence); plain and shift-only character input instead arrives via
// App.OnChar, since most toolkits (including glfw) don't deliver a
// composed rune alongside a Ctrl/Alt-modified key press.
type KeyEvent struct {
	Key   inputdecoder.Key
	Rune  rune
	Mods  inputdecoder.Mods
	Press bool
}

// MouseButton identifies which physical button a mouse event concerns.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// App is the set of callbacks a Host drives. All callbacks run on the
// host's event-loop (UI) thread; none may block (spec §5).
type App interface {
	// OnFramebufferSize is called on window creation and every resize.
	OnFramebufferSize(width, height int)
	// OnKey is called for every key press/release.
	OnKey(ev KeyEvent)
	// OnChar is called for printable character input (post-IME, already
	// shifted/composed), used for the inputdecoder's character-key path.
	OnChar(r rune)
	// OnMouseButton reports a press or release at the given framebuffer
	// coordinates.
	OnMouseButton(button MouseButton, press bool, x, y float64)
	// OnCursorPos reports pointer motion in framebuffer coordinates.
	OnCursorPos(x, y float64)
	// OnScroll reports a scroll-wheel or trackpad delta.
	OnScroll(dx, dy float64)
	// Frame is called once per tick with the elapsed time in seconds; the
	// app should drain PTYs, advance springs, and render here.
	Frame(dt float32)
	// ShouldClose reports whether the app has no panes left and the
	// window should close.
	ShouldClose() bool
}

// Clipboard is the host's copy/paste collaborator.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// URLOpener launches a URL with the platform's default handler. Spec §9
// open question: some platforms need this off the UI thread to avoid
// re-entrant events; Open is documented to do that when required and
// callers must not assume synchronous completion.
type URLOpener interface {
	Open(url string)
}

// Host owns the native window and OpenGL context and drives App's
// callbacks from its event loop.
type Host interface {
	// Run blocks, driving app's callbacks until the window closes or
	// app.ShouldClose() returns true.
	Run(app App) error
	// FramebufferSize returns the current framebuffer size in pixels.
	FramebufferSize() (width, height int)
	// Clipboard returns the host's clipboard collaborator.
	Clipboard() Clipboard
	// OpenURL returns the host's URL-open collaborator.
	OpenURL() URLOpener
	// SetPointerCursor switches the window's cursor to a pointer/hand
	// shape when hover is true, back to the default arrow otherwise
	// (spec §4.10 "Hover behavior: ... enables pointer cursor").
	SetPointerCursor(hover bool)
	// Destroy tears down the window and GL context.
	Destroy()
}
