package vtparser

import (
	"testing"

	"github.com/ravensplit/smoothterm/internal/cell"
)

func TestEchoAndWrap(t *testing.T) {
	p := New(4, 4)
	p.Process([]byte("abcdef"))
	row, col := p.Grid.Cursor()
	if row != 1 || col != 2 {
		t.Fatalf("cursor = (%d,%d), want (1,2)", row, col)
	}
	if p.Grid.PendingWrap() {
		t.Fatalf("pending_wrap should be false")
	}
}

func TestSGRTruecolor(t *testing.T) {
	p := New(4, 4)
	p.Process([]byte("\x1b[38;2;255;128;0mX"))
	c := p.Grid.Cell(0, 0)
	if c.Char != 'X' {
		t.Fatalf("char = %q, want X", c.Char)
	}
	if c.Attrs.Fg.Kind != cell.ColorRGB || c.Attrs.Fg.R != 255 || c.Attrs.Fg.G != 128 || c.Attrs.Fg.B != 0 {
		t.Fatalf("fg = %+v, want rgb(255,128,0)", c.Attrs.Fg)
	}
}

func TestScrollRegionUp(t *testing.T) {
	p := New(4, 4)
	p.Process([]byte("xxxx\r\naaaa\r\nbbbb\r\ncccc"))
	p.Process([]byte("\x1b[1;1H\x1b[2;4r\x1b[2S"))
	row0 := rowText(p, 0)
	row1 := rowText(p, 1)
	if row0 != "xxxx" {
		t.Fatalf("row0 = %q, want xxxx", row0)
	}
	if row1 != "cccc" {
		t.Fatalf("row1 = %q, want cccc", row1)
	}
}

func TestUnknownCSIIsDroppedSilently(t *testing.T) {
	p := New(4, 4)
	p.Process([]byte("\x1b[999zA"))
	c := p.Grid.Cell(0, 0)
	if c.Char != 'A' {
		t.Fatalf("char after unknown CSI = %q, want A", c.Char)
	}
}

func TestMalformedUTF8ReplacedWithReplacementChar(t *testing.T) {
	p := New(4, 4)
	p.Process([]byte{0xC0, 0x20})
	c := p.Grid.Cell(0, 0)
	if c.Char != 0xFFFD {
		t.Fatalf("char = %U, want U+FFFD", c.Char)
	}
}

func TestDeviceStatusReportRespondsWithCursorPosition(t *testing.T) {
	p := New(4, 4)
	var reply []byte
	p.SetResponseWriter(func(b []byte) { reply = b })
	p.Process([]byte("\x1b[3;4H\x1b[6n"))
	if string(reply) != "\x1b[3;4R" {
		t.Fatalf("reply = %q, want CSI 3;4R", reply)
	}
}

func rowText(p *Parser, row int) string {
	cols, _ := p.Grid.Size()
	out := make([]rune, cols)
	for c := 0; c < cols; c++ {
		ch := p.Grid.Cell(row, c).Char
		if ch == 0 {
			ch = ' '
		}
		out[c] = ch
	}
	return string(out)
}
