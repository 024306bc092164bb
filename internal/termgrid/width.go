package termgrid

import (
	"unicode"

	"golang.org/x/text/width"
)

// RuneWidth returns the display width of r: 0 for combining/non-printable
// marks, 1 for ordinary characters, 2 for East-Asian wide/fullwidth
// characters. Grid.Print uses this to decide whether it must clear
// a second cell and whether pending_wrap should latch a column early.
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	if !unicode.IsPrint(r) {
		return 0
	}
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) || unicode.Is(unicode.Mc, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
