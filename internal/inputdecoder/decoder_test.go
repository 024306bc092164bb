package inputdecoder

import (
	"bytes"
	"testing"
)

func TestCtrlLetterEncodesControlCode(t *testing.T) {
	act := Decode(KeyUnknown, 'c', ModCtrl)
	if act.Kind != ActionBytes || !bytes.Equal(act.Bytes, []byte{0x03}) {
		t.Fatalf("Ctrl+c = %+v, want [0x03]", act)
	}
}

func TestShiftTabEmitsCBT(t *testing.T) {
	act := Decode(KeyTab, 0, ModShift)
	want := []byte{0x1b, '[', 'Z'}
	if act.Kind != ActionBytes || !bytes.Equal(act.Bytes, want) {
		t.Fatalf("Shift+Tab = %+v, want %v", act, want)
	}
}

func TestAltArrowsEmitWordMotion(t *testing.T) {
	left := Decode(KeyLeft, 0, ModAlt)
	if !bytes.Equal(left.Bytes, []byte{0x1b, 'f'}) {
		t.Fatalf("Alt+Left = %v, want ESC f", left.Bytes)
	}
	right := Decode(KeyRight, 0, ModAlt)
	if !bytes.Equal(right.Bytes, []byte{0x1b, 'b'}) {
		t.Fatalf("Alt+Right = %v, want ESC b", right.Bytes)
	}
}

func TestCtrlArrowUpEmitsModifiedCSI(t *testing.T) {
	act := Decode(KeyUp, 0, ModCtrl)
	want := []byte{0x1b, '[', '1', ';', '5', 'A'}
	if !bytes.Equal(act.Bytes, want) {
		t.Fatalf("Ctrl+Up = %v, want %v", act.Bytes, want)
	}
}

func TestPlainArrowEmitsUnmodifiedCSI(t *testing.T) {
	act := Decode(KeyUp, 0, 0)
	want := []byte{0x1b, '[', 'A'}
	if !bytes.Equal(act.Bytes, want) {
		t.Fatalf("Up = %v, want %v", act.Bytes, want)
	}
}

func TestPlainCharacterPassesThroughUTF8Bytes(t *testing.T) {
	act := Decode(KeyUnknown, 'λ', 0)
	if act.Kind != ActionBytes || string(act.Bytes) != "λ" {
		t.Fatalf("plain char = %+v", act)
	}
}

func TestCmdDTriggersSplitHorizontalNotCharacterKey(t *testing.T) {
	act := Decode(KeyD, 'd', ModCmd)
	if act.Kind != ActionSplitHorizontal {
		t.Fatalf("Cmd+D = %+v, want ActionSplitHorizontal", act)
	}
}

func TestCmdShiftDTriggersSplitVertical(t *testing.T) {
	act := Decode(KeyD, 'D', ModCmd|ModShift)
	if act.Kind != ActionSplitVertical {
		t.Fatalf("Cmd+Shift+D = %+v, want ActionSplitVertical", act)
	}
}

func TestCmdDigitSwitchesTabByZeroBasedIndex(t *testing.T) {
	act := Decode(KeyDigit3, '3', ModCmd)
	if act.Kind != ActionSwitchTab || act.TabIndex != 2 {
		t.Fatalf("Cmd+3 = %+v, want SwitchTab index 2", act)
	}
}

func TestShiftArrowFocusesDirection(t *testing.T) {
	act := Decode(KeyRight, 0, ModShift)
	if act.Kind != ActionFocusDirectionRight {
		t.Fatalf("Shift+Right = %+v, want ActionFocusDirectionRight", act)
	}
}

func TestCtrlAltArrowResizesPane(t *testing.T) {
	act := Decode(KeyLeft, 0, ModCtrl|ModAlt)
	if act.Kind != ActionResizeLeft {
		t.Fatalf("Ctrl+Alt+Left = %+v, want ActionResizeLeft", act)
	}
}

func TestFunctionKeysEmitCanonicalSequences(t *testing.T) {
	cases := []struct {
		key  Key
		want []byte
	}{
		{KeyF1, []byte{0x1b, 'O', 'P'}},
		{KeyF5, []byte{0x1b, '[', '1', '5', '~'}},
		{KeyF12, []byte{0x1b, '[', '2', '4', '~'}},
		{KeyDelete, []byte{0x1b, '[', '3', '~'}},
		{KeyHome, []byte{0x1b, '[', 'H'}},
		{KeyEnd, []byte{0x1b, '[', 'F'}},
		{KeyPageUp, []byte{0x1b, '[', '5', '~'}},
		{KeyPageDown, []byte{0x1b, '[', '6', '~'}},
		{KeyBackspace, []byte{0x7f}},
		{KeyEnter, []byte{'\r'}},
		{KeyEscape, []byte{0x1b}},
	}
	for _, c := range cases {
		act := Decode(c.key, 0, 0)
		if !bytes.Equal(act.Bytes, c.want) {
			t.Errorf("key %v = %v, want %v", c.key, act.Bytes, c.want)
		}
	}
}
