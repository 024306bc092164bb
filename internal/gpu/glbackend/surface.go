// Package glbackend is the GPU-facing half of the renderer's orchestration
// boundary: it implements renderer.Surface against
// github.com/go-gl/gl/v4.1-core/gl, the teacher's own GPU API
// (render/render.go initGL). The teacher mixes composition policy and GL
// calls in one render.Renderer; here the two are split so
// internal/renderer stays unit-testable without a live GL context, per
// spec §9's "platform-native window features are collaborators, not
// core" framing applied one layer further down the stack.
package glbackend

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/ravensplit/smoothterm/internal/renderer"
)

// quadBatch is one independent vertex buffer object. The spec's no-
// shared-GPU-vertex-buffers rule (§4.8 step 9, §9 design notes) is
// enforced by keying batches on the caller's batchID string and lazily
// allocating a new VAO/VBO per distinct id.
type quadBatch struct {
	vao, vbo uint32
	cap      int
}

// Surface implements renderer.Surface. Callers must make a GL context
// current (via apphost/glfwhost) before calling New and before every
// method; all GL state here assumes single-threaded, already-current
// usage, matching the teacher's window.Window (GLFW context binding is
// owned one layer up).
type Surface struct {
	width, height int

	quadProgram        uint32
	quadColorLoc       int32
	quadProjLoc        int32
	textProgram        uint32
	textColorLoc       int32
	textProjLoc        int32
	textSamplerLoc     int32
	imageProgram       uint32
	imageProjLoc       int32
	imageOpacityLoc    int32
	imageSamplerLoc    int32

	batches map[string]*quadBatch
	textVAO uint32
	textVBO uint32

	fontAtlas uint32
	glyphs    map[rune]glyphInfo
	cellW     float32
	cellH     float32

	bgTex        uint32
	bgTexW       int
	bgTexH       int
	bgLoadedPath string

	swap func()
}

// New creates a Surface bound to an already-current GL context of the
// given framebuffer size. swap is called by Present (e.g.
// glfw.Window.SwapBuffers); fontFamily/fontSize seed the initial glyph
// atlas (see font.go).
func New(width, height int, fontFamily string, fontSize float32, swap func()) (*Surface, error) {
	s := &Surface{
		width: width, height: height,
		batches: make(map[string]*quadBatch),
		swap:    swap,
	}

	var err error
	s.quadProgram, err = createProgram(quadVertexShader, quadFragmentShader)
	if err != nil {
		return nil, err
	}
	s.quadColorLoc = gl.GetUniformLocation(s.quadProgram, gl.Str("color\x00"))
	s.quadProjLoc = gl.GetUniformLocation(s.quadProgram, gl.Str("projection\x00"))

	s.textProgram, err = createProgram(textVertexShader, textFragmentShader)
	if err != nil {
		return nil, err
	}
	s.textColorLoc = gl.GetUniformLocation(s.textProgram, gl.Str("textColor\x00"))
	s.textProjLoc = gl.GetUniformLocation(s.textProgram, gl.Str("projection\x00"))
	s.textSamplerLoc = gl.GetUniformLocation(s.textProgram, gl.Str("text\x00"))

	s.imageProgram, err = createProgram(imageVertexShader, imageFragmentShader)
	if err != nil {
		return nil, err
	}
	s.imageProjLoc = gl.GetUniformLocation(s.imageProgram, gl.Str("projection\x00"))
	s.imageOpacityLoc = gl.GetUniformLocation(s.imageProgram, gl.Str("opacity\x00"))
	s.imageSamplerLoc = gl.GetUniformLocation(s.imageProgram, gl.Str("img\x00"))

	gl.GenVertexArrays(1, &s.textVAO)
	gl.GenBuffers(1, &s.textVBO)
	gl.BindVertexArray(s.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.textVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	if err := s.loadFont(fontFamily, fontSize); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Surface) batch(id string) *quadBatch {
	b, ok := s.batches[id]
	if !ok {
		b = &quadBatch{}
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(1, &b.vbo)
		s.batches[id] = b
	}
	return b
}

// Acquire is a no-op on this backend: desktop OpenGL via GLFW has no
// explicit swapchain acquisition step, so the only transient condition
// the spec models (surface lost/outdated) never arises here. Window
// resize is instead handled by Reconfigure, called directly from the
// host's framebuffer-size callback.
func (s *Surface) Acquire() error { return nil }

// Reconfigure updates the stored framebuffer size and GL viewport, e.g.
// after a window resize.
func (s *Surface) Reconfigure(width, height int) {
	s.width, s.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (s *Surface) proj() [16]float32 {
	return orthoMatrix(0, float32(s.width), float32(s.height), 0, -1, 1)
}

// Clear implements renderer.Surface.
func (s *Surface) Clear(c renderer.RGBA) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawBackgroundImage draws the configured background image (set via
// SetBackgroundImagePath) as a fullscreen textured quad at the given
// opacity. A stdlib image.Decode covers PNG/JPEG; no GL-specific image
// library exists in the example pack for this, so it's grounded on
// plain image/draw + a generated texture, same as the font atlas path.
func (s *Surface) DrawBackgroundImage(opacity float32) {
	if s.bgTex == 0 || opacity <= 0 {
		return
	}
	proj := s.proj()
	vertices := []float32{
		0, 0, 0, 0,
		float32(s.width), 0, 1, 0,
		float32(s.width), float32(s.height), 1, 1,
		0, 0, 0, 0,
		float32(s.width), float32(s.height), 1, 1,
		0, float32(s.height), 0, 1,
	}

	gl.UseProgram(s.imageProgram)
	gl.UniformMatrix4fv(s.imageProjLoc, 1, false, &proj[0])
	gl.Uniform1f(s.imageOpacityLoc, opacity)
	gl.Uniform1i(s.imageSamplerLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.bgTex)

	gl.BindVertexArray(s.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.textVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// SetBackgroundImagePath loads (and caches) the background image from
// disk. Unsupported or missing files are silently ignored, matching
// spec §7's "malformed input dropped silently" posture extended to this
// ambient asset.
func (s *Surface) SetBackgroundImagePath(path string) {
	if path == "" || path == s.bgLoadedPath {
		if path == "" {
			s.bgTex = 0
		}
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return
	}

	rgba := toRGBA(img)
	if s.bgTex == 0 {
		gl.GenTextures(1, &s.bgTex)
	}
	gl.BindTexture(gl.TEXTURE_2D, s.bgTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	s.bgTexW, s.bgTexH = rgba.Rect.Dx(), rgba.Rect.Dy()
	s.bgLoadedPath = path
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return rgba
}

// SubmitQuadBatch implements renderer.Surface: draws quads as triangle
// pairs into the VBO owned by batchID, never reusing another batch's
// buffer within the same frame (spec §4.8 step 9 / §9 design notes).
func (s *Surface) SubmitQuadBatch(batchID string, quads []renderer.Quad) {
	if len(quads) == 0 {
		return
	}
	b := s.batch(batchID)
	proj := s.proj()

	gl.UseProgram(s.quadProgram)
	gl.UniformMatrix4fv(s.quadProjLoc, 1, false, &proj[0])
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	const perQuadFloats = 6 * 2 // one quad = two triangles of 2-float positions
	if b.cap == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, perQuadFloats*4, nil, gl.DYNAMIC_DRAW)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
		b.cap = perQuadFloats
	}

	for _, q := range quads {
		vertices := []float32{
			q.X, q.Y,
			q.X + q.W, q.Y,
			q.X + q.W, q.Y + q.H,
			q.X, q.Y,
			q.X + q.W, q.Y + q.H,
			q.X, q.Y + q.H,
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
		gl.Uniform4fv(s.quadColorLoc, 1, &[4]float32{q.Color.R, q.Color.G, q.Color.B, q.Color.A}[0])
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	gl.BindVertexArray(0)
}

// SubmitText implements renderer.Surface: draws each glyph in run as a
// textured quad sampled from the font atlas, clipped to [ClipY0,ClipY1].
func (s *Surface) SubmitText(run renderer.TextRun) {
	if len(run.Glyphs) == 0 {
		return
	}
	proj := s.proj()
	gl.UseProgram(s.textProgram)
	gl.UniformMatrix4fv(s.textProjLoc, 1, false, &proj[0])
	gl.Uniform1i(s.textSamplerLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.fontAtlas)
	gl.BindVertexArray(s.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.textVBO)

	for _, g := range run.Glyphs {
		if g.Y < run.ClipY0 || g.Y > run.ClipY1 {
			continue
		}
		glyph, ok := s.glyphs[g.Rune]
		if !ok {
			glyph, ok = s.glyphs['?']
			if !ok {
				continue
			}
		}
		w, h := float32(glyph.pixelW), float32(glyph.pixelH)
		x, y := g.X, g.Y
		vertices := []float32{
			x, y - h, glyph.u, glyph.v,
			x + w, y - h, glyph.u + glyph.w, glyph.v,
			x + w, y, glyph.u + glyph.w, glyph.v + glyph.h,
			x, y - h, glyph.u, glyph.v,
			x + w, y, glyph.u + glyph.w, glyph.v + glyph.h,
			x, y, glyph.u, glyph.v + glyph.h,
		}
		gl.Uniform4fv(s.textColorLoc, 1, &[4]float32{g.Color.R, g.Color.G, g.Color.B, g.Color.A}[0])
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}
	gl.BindVertexArray(0)
}

// Present swaps buffers via the caller-supplied swap function.
func (s *Surface) Present() {
	if s.swap != nil {
		s.swap()
	}
}

// TrimAtlas is a no-op: the fixed-size atlas built at font-load time
// never grows per-frame, unlike the teacher's glyph cache which could in
// principle; kept to satisfy renderer.Surface and as the hook a future
// dynamic atlas would use.
func (s *Surface) TrimAtlas() {}

// ReloadFont rebuilds the glyph atlas for a font/size change (config
// hot-reload). Existing quad batches are unaffected; callers must also
// invalidate the shapecache manager.
func (s *Surface) ReloadFont(family string, size float32) error {
	return s.loadFont(family, size)
}
