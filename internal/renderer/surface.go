// Package renderer is the pure frame-composition logic of the
// application: it decides what quads and glyphs to draw and in what
// order, but never calls into OpenGL directly. The GPU-facing half of
// that boundary lives in internal/gpu, matching the teacher's own
// render.Renderer (which mixes both concerns); here they're split behind
// the Surface interface so this package is unit-testable without a
// window or GL context.
package renderer

import "errors"

// ErrSurfaceLost indicates the GPU surface must be fully recreated.
var ErrSurfaceLost = errors.New("renderer: surface lost")

// ErrSurfaceOutdated indicates the surface needs reconfiguration (e.g.
// a resize) but can be reused once reconfigured.
var ErrSurfaceOutdated = errors.New("renderer: surface outdated")

// RGBA is a normalized (0..1) color with alpha.
type RGBA struct{ R, G, B, A float32 }

// Quad is one filled rectangle in physical pixels.
type Quad struct {
	X, Y, W, H float32
	Color      RGBA
}

// TextRun is a clipped batch of shaped glyphs submitted for one pane.
type TextRun struct {
	Glyphs []GlyphDraw
	ClipY0 float32
	ClipY1 float32
}

// GlyphDraw is the renderer-facing glyph draw call (decoupled from
// shapecache.ShapedGlyph so this package doesn't need to import it at
// the interface boundary).
type GlyphDraw struct {
	X, Y  float32
	Rune  rune
	Color RGBA
}

// Surface is the GPU collaborator this package drives. glbackend.Surface
// implements it against github.com/go-gl/gl.
type Surface interface {
	// Acquire prepares the surface for a new frame. Returns
	// ErrSurfaceLost/ErrSurfaceOutdated on a transient GPU condition; the
	// caller reconfigures and skips the frame.
	Acquire() error
	Reconfigure(width, height int)
	Clear(c RGBA)
	DrawBackgroundImage(opacity float32)
	// SubmitQuadBatch draws quads using a vertex buffer distinct from any
	// other batch submitted this frame (spec requirement: selection/cursor
	// and border batches must not share a buffer).
	SubmitQuadBatch(batchID string, quads []Quad)
	SubmitText(run TextRun)
	Present()
	TrimAtlas()
}
