// Package inputdecoder turns a key event into either a global InputAction
// or a byte sequence to write to the focused pane's PTY. The Key/Mods
// vocabulary is toolkit-independent; glfwhost is responsible for mapping
// glfw's key/mod constants onto it, the same separation the teacher draws
// between its keybindings package and the windowing layer it's bound to.
package inputdecoder

import "strings"

// Mods is a bitset of held modifier keys.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModCmd // Super/Cmd/Meta, platform primary modifier
)

func (m Mods) has(f Mods) bool { return m&f != 0 }

// Key identifies a physical key independent of any windowing toolkit.
type Key int

const (
	KeyUnknown Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	// Named keys used only in global shortcuts, not character encoding.
	KeyD
	KeyW
	KeyBracketRight
	KeyBracketLeft
	KeyComma
	KeyT
	KeyN
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9
	KeyC
	KeyV
	KeyL
)

// ActionKind enumerates the global actions the decoder can emit.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionBytes
	ActionSplitHorizontal
	ActionSplitVertical
	ActionClosePane
	ActionFocusNextPane
	ActionFocusPrevPane
	ActionOpenConfig
	ActionNewTab
	ActionNewWindow
	ActionSwitchTab
	ActionCopy
	ActionPaste
	ActionToggleTheme
	ActionScrollUp
	ActionScrollDown
	ActionFocusDirectionUp
	ActionFocusDirectionDown
	ActionFocusDirectionLeft
	ActionFocusDirectionRight
	ActionResizeUp
	ActionResizeDown
	ActionResizeLeft
	ActionResizeRight
	ActionTileLeft
	ActionTileRight
	ActionMaximize
	ActionRestore
)

// InputAction is the decoder's output: either a global action or bytes to
// write to the focused pane.
type InputAction struct {
	Kind  ActionKind
	Bytes []byte
	// TabIndex is set for ActionSwitchTab (0-based, from Cmd+1..9).
	TabIndex int
}

func bytesAction(b ...byte) InputAction { return InputAction{Kind: ActionBytes, Bytes: b} }

func csi(rest string) []byte { return append([]byte{0x1b, '['}, []byte(rest)...) }

// Decode implements the priority order from the spec: global actions,
// then character-key encoding, then named-key canonical sequences.
// Decode has no press/release parameter: callers call it only for key
// presses, never for key-up events.
func Decode(key Key, r rune, mods Mods) InputAction {
	if act, ok := globalAction(key, mods); ok {
		return act
	}
	if !mods.has(ModCmd) {
		if r != 0 {
			return characterKey(r, mods)
		}
		if act, ok := namedKey(key, mods); ok {
			return act
		}
	}
	return InputAction{Kind: ActionNone}
}

func globalAction(key Key, mods Mods) (InputAction, bool) {
	if !mods.has(ModCmd) {
		if mods.has(ModCtrl) && mods.has(ModAlt) {
			switch key {
			case KeyUp:
				return InputAction{Kind: ActionResizeUp}, true
			case KeyDown:
				return InputAction{Kind: ActionResizeDown}, true
			case KeyLeft:
				return InputAction{Kind: ActionResizeLeft}, true
			case KeyRight:
				return InputAction{Kind: ActionResizeRight}, true
			}
		}
		if mods.has(ModShift) && mods == ModShift {
			switch key {
			case KeyUp:
				return InputAction{Kind: ActionFocusDirectionUp}, true
			case KeyDown:
				return InputAction{Kind: ActionFocusDirectionDown}, true
			case KeyLeft:
				return InputAction{Kind: ActionFocusDirectionLeft}, true
			case KeyRight:
				return InputAction{Kind: ActionFocusDirectionRight}, true
			}
		}
		return InputAction{}, false
	}

	shift := mods.has(ModShift)
	switch key {
	case KeyD:
		if shift {
			return InputAction{Kind: ActionSplitVertical}, true
		}
		return InputAction{Kind: ActionSplitHorizontal}, true
	case KeyW:
		return InputAction{Kind: ActionClosePane}, true
	case KeyBracketRight:
		return InputAction{Kind: ActionFocusNextPane}, true
	case KeyBracketLeft:
		return InputAction{Kind: ActionFocusPrevPane}, true
	case KeyComma:
		return InputAction{Kind: ActionOpenConfig}, true
	case KeyT:
		return InputAction{Kind: ActionNewTab}, true
	case KeyN:
		return InputAction{Kind: ActionNewWindow}, true
	case KeyC:
		return InputAction{Kind: ActionCopy}, true
	case KeyV:
		return InputAction{Kind: ActionPaste}, true
	case KeyL:
		if shift {
			return InputAction{Kind: ActionToggleTheme}, true
		}
	case KeyUp:
		return InputAction{Kind: ActionScrollUp}, true
	case KeyDown:
		return InputAction{Kind: ActionScrollDown}, true
	case KeyDigit1, KeyDigit2, KeyDigit3, KeyDigit4, KeyDigit5,
		KeyDigit6, KeyDigit7, KeyDigit8, KeyDigit9:
		return InputAction{Kind: ActionSwitchTab, TabIndex: int(key - KeyDigit1)}, true
	}
	return InputAction{}, false
}

// characterKey implements spec §4.9 priority 2: plain char, Ctrl+letter,
// Alt+char.
func characterKey(r rune, mods Mods) InputAction {
	if mods.has(ModCtrl) {
		upper := strings.ToUpper(string(r))
		if len(upper) == 1 {
			c := upper[0]
			if c >= 'A' && c <= '_' {
				code := c - 'A' + 1
				return withAlt(bytesAction(code), mods)
			}
		}
	}
	return withAlt(InputAction{Kind: ActionBytes, Bytes: []byte(string(r))}, mods)
}

func withAlt(act InputAction, mods Mods) InputAction {
	if mods.has(ModAlt) {
		act.Bytes = append([]byte{0x1b}, act.Bytes...)
	}
	return act
}

// namedKey implements spec §4.9 priority 3: canonical sequences for named
// (non-printable-character) keys.
func namedKey(key Key, mods Mods) (InputAction, bool) {
	ctrl, alt, shift := mods.has(ModCtrl), mods.has(ModAlt), mods.has(ModShift)

	switch key {
	case KeyEnter:
		return bytesAction('\r'), true
	case KeyTab:
		if shift {
			return InputAction{Kind: ActionBytes, Bytes: csi("Z")}, true
		}
		return bytesAction('\t'), true
	case KeyBackspace:
		return bytesAction(0x7f), true
	case KeyDelete:
		return InputAction{Kind: ActionBytes, Bytes: csi("3~")}, true
	case KeyEscape:
		return bytesAction(0x1b), true
	case KeyUp, KeyDown, KeyRight, KeyLeft:
		return arrowKey(key, ctrl, alt), true
	case KeyHome:
		return InputAction{Kind: ActionBytes, Bytes: csi("H")}, true
	case KeyEnd:
		return InputAction{Kind: ActionBytes, Bytes: csi("F")}, true
	case KeyPageUp:
		return InputAction{Kind: ActionBytes, Bytes: csi("5~")}, true
	case KeyPageDown:
		return InputAction{Kind: ActionBytes, Bytes: csi("6~")}, true
	case KeyF1:
		return InputAction{Kind: ActionBytes, Bytes: []byte{0x1b, 'O', 'P'}}, true
	case KeyF2:
		return InputAction{Kind: ActionBytes, Bytes: []byte{0x1b, 'O', 'Q'}}, true
	case KeyF3:
		return InputAction{Kind: ActionBytes, Bytes: []byte{0x1b, 'O', 'R'}}, true
	case KeyF4:
		return InputAction{Kind: ActionBytes, Bytes: []byte{0x1b, 'O', 'S'}}, true
	case KeyF5:
		return InputAction{Kind: ActionBytes, Bytes: csi("15~")}, true
	case KeyF6:
		return InputAction{Kind: ActionBytes, Bytes: csi("17~")}, true
	case KeyF7:
		return InputAction{Kind: ActionBytes, Bytes: csi("18~")}, true
	case KeyF8:
		return InputAction{Kind: ActionBytes, Bytes: csi("19~")}, true
	case KeyF9:
		return InputAction{Kind: ActionBytes, Bytes: csi("20~")}, true
	case KeyF10:
		return InputAction{Kind: ActionBytes, Bytes: csi("21~")}, true
	case KeyF11:
		return InputAction{Kind: ActionBytes, Bytes: csi("23~")}, true
	case KeyF12:
		return InputAction{Kind: ActionBytes, Bytes: csi("24~")}, true
	}
	return InputAction{}, false
}

func arrowKey(key Key, ctrl, alt bool) InputAction {
	if alt && (key == KeyLeft || key == KeyRight) {
		if key == KeyRight {
			return InputAction{Kind: ActionBytes, Bytes: []byte{0x1b, 'b'}}
		}
		return InputAction{Kind: ActionBytes, Bytes: []byte{0x1b, 'f'}}
	}
	final := arrowFinal(key)
	if ctrl {
		return InputAction{Kind: ActionBytes, Bytes: csi("1;5" + string(final))}
	}
	return InputAction{Kind: ActionBytes, Bytes: csi(string(final))}
}

func arrowFinal(key Key) byte {
	switch key {
	case KeyUp:
		return 'A'
	case KeyDown:
		return 'B'
	case KeyRight:
		return 'C'
	case KeyLeft:
		return 'D'
	}
	return 0
}
