package glbackend

import (
	"image"
	"image/draw"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// atlasSize matches the teacher's 512x512 atlas (render/render.go
// atlasSize), large enough for ASCII plus a box-drawing/block subset.
const atlasSize = 512

type glyphInfo struct {
	u, v, w, h     float32 // normalized atlas rect
	pixelW, pixelH int
	advance        float32
}

// glyphRanges covers printable ASCII, Latin-1, and the box-drawing/block
// ranges the renderer needs for pane separators and TUI apps; narrower
// than the teacher's Nerd Font icon ranges (render/render.go loadFontData)
// since this backend has no bundled icon font, but grounded on the same
// "contiguous rune ranges packed left-to-right, row-wrapped" layout.
var glyphRanges = []struct{ start, end rune }{
	{32, 126},
	{160, 255},
	{0x2500, 0x257F},
	{0x2580, 0x259F},
}

// candidateFontPaths lists common monospace TTF locations searched when
// Config.Font.Family doesn't resolve to an exact file path; matches the
// teacher's posture of bundling a known-good font but adapted to search
// the host filesystem since no binary font asset ships in this module.
var candidateFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/truetype/jetbrains-mono/JetBrainsMono-Regular.ttf",
	"/usr/share/fonts/truetype/hack/Hack-Regular.ttf",
	"/System/Library/Fonts/Menlo.ttc",
	"/Library/Fonts/Courier New.ttf",
}

func resolveFontPath(family string) string {
	if family != "" {
		if _, err := os.Stat(family); err == nil {
			return family
		}
	}
	for _, p := range candidateFontPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadFont builds the glyph atlas from a system TTF at the given size.
// If no usable font file is found, it falls back to a synthesized atlas
// in which every printable ASCII rune is the same placeholder block, so
// text is not legible but keeps its layout (spec has no "font missing"
// failure mode; this keeps startup
// from ever hard-failing on font resolution, matching §7's "never
// blocks startup" posture applied to fonts instead of just config).
func (s *Surface) loadFont(family string, size float32) error {
	path := resolveFontPath(family)
	if path == "" {
		return s.loadFallbackFont()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s.loadFallbackFont()
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return s.loadFallbackFont()
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return s.loadFallbackFont()
	}
	defer face.Close()
	return s.buildAtlas(face)
}

func (s *Surface) buildAtlas(face font.Face) error {
	metrics := face.Metrics()
	s.cellH = float32(metrics.Ascent.Ceil() + metrics.Descent.Ceil())
	advance, _ := face.GlyphAdvance('M')
	s.cellW = float32(advance.Ceil())
	if s.cellW <= 0 {
		s.cellW = 8
	}
	if s.cellH <= 0 {
		s.cellH = 16
	}

	atlas := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(atlas, atlas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: atlas, Src: image.White, Face: face}

	s.glyphs = make(map[rune]glyphInfo)
	x, y := 0, metrics.Ascent.Ceil()
	charW, charH := int(s.cellW), int(s.cellH)

	for _, rg := range glyphRanges {
		for c := rg.start; c <= rg.end; c++ {
			if _, ok := face.GlyphAdvance(c); !ok {
				continue
			}
			if x+charW > atlasSize {
				x = 0
				y += charH
			}
			if y+charH > atlasSize {
				break
			}
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(string(c))
			adv, _ := face.GlyphAdvance(c)
			s.glyphs[c] = glyphInfo{
				u: float32(x) / atlasSize, v: float32(y-metrics.Ascent.Ceil()) / atlasSize,
				w: float32(charW) / atlasSize, h: float32(charH) / atlasSize,
				pixelW: charW, pixelH: charH, advance: float32(adv.Ceil()),
			}
			x += charW
		}
	}

	alpha := make([]byte, atlasSize*atlasSize)
	for i := 0; i < atlasSize*atlasSize; i++ {
		alpha[i] = atlas.Pix[i*4+3]
	}
	s.uploadAtlas(alpha)
	return nil
}

func (s *Surface) uploadAtlas(alpha []byte) {
	if s.fontAtlas == 0 {
		gl.GenTextures(1, &s.fontAtlas)
	}
	gl.BindTexture(gl.TEXTURE_2D, s.fontAtlas)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, atlasSize, atlasSize, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(alpha))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// loadFallbackFont synthesizes a fixed 8x16 monospace atlas so the
// renderer never blocks on a missing system font.
func (s *Surface) loadFallbackFont() error {
	s.cellW, s.cellH = 8, 16
	s.glyphs = make(map[rune]glyphInfo)
	alpha := make([]byte, atlasSize*atlasSize)
	x, y := 0, 0
	charW, charH := int(s.cellW), int(s.cellH)
	for c := rune(32); c <= 126; c++ {
		if x+charW > atlasSize {
			x = 0
			y += charH
		}
		if y+charH > atlasSize {
			break
		}
		drawBlockGlyph(alpha, x, y, charW, charH)
		s.glyphs[c] = glyphInfo{
			u: float32(x) / atlasSize, v: float32(y) / atlasSize,
			w: float32(charW) / atlasSize, h: float32(charH) / atlasSize,
			pixelW: charW, pixelH: charH, advance: s.cellW,
		}
		x += charW
	}
	s.uploadAtlas(alpha)
	return nil
}

// drawBlockGlyph stamps a faint translucent block as the placeholder
// glyph used for every rune when no real font could be loaded.
func drawBlockGlyph(alpha []byte, x, y, w, h int) {
	for row := 1; row < h-1; row++ {
		for col := 1; col < w-1; col++ {
			alpha[(y+row)*atlasSize+(x+col)] = 140
		}
	}
}

// Advance implements shapecache.Shaper: measured glyph width in pixels,
// used to horizontally center a shaped glyph within its cell.
func (s *Surface) Advance(r rune) float32 {
	if g, ok := s.glyphs[r]; ok {
		return g.advance
	}
	return s.cellW
}

// CellSize returns the atlas-derived cell dimensions.
func (s *Surface) CellSize() (float32, float32) { return s.cellW, s.cellH }
