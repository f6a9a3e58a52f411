// Package lensflare draws a screen-space flare chain anchored at a light's projected position.
// Its intensity is driven by a GPU occlusion query that is polled, never awaited, so the
// occlusion value it uses may be a few frames old.
package lensflare

import (
	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/occlusion"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultCutoff is the NDC distance from the screen center at which the flare fades out.
	DefaultCutoff float32 = 1.4

	// DefaultProbeSize is the NDC width of the quad drawn for the occlusion query.
	DefaultProbeSize float32 = 0.1
)

// quadVertices is the number of vertices in one flare quad (two triangles).
const quadVertices = 6

// quadUVs maps the TL, BR, TR, TL, BL, BR corners to texture coordinates.
var quadUVs = []float32{0, 0, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1}

// LightSource is the part of a light the flare follows.
type LightSource interface {
	CamSpacePosition() mgl32.Vec3
}

// Element is one textured quad of the flare chain.
type Element struct {
	// Texture is drawn additively; black areas add nothing.
	Texture texture.Texture
	// Scale is the quad width in NDC units; its height is corrected for the viewport aspect.
	Scale float32
}

// lensFlare is the implementation of the LensFlare interface.
type lensFlare struct {
	r       renderer.RendererBackend
	light   LightSource
	program shader.Program
	query   occlusion.Query
	logger  *zap.Logger

	elements  []Element
	cutoff    float32
	probeSize float32

	vbo       renderer.BufferHandle
	occlusion float32
}

// LensFlare defines a post effect drawn after the scene, on top of everything.
//
// Each frame the light is projected to the screen. The flare brightness falls off linearly with
// the distance from the screen center and the effect is skipped entirely once it reaches zero.
// Visibility comes from a samples-passed query around a small probe quad drawn at the light's
// depth: a new probe is only issued once the previous result has been consumed, so the last
// occlusion value is kept until a fresh one arrives.
type LensFlare interface {
	// Render draws the flare chain for the current frame.
	//
	// Parameters:
	//   - projection: the camera projection matrix
	Render(projection mgl32.Mat4)

	// AddElement appends a textured quad to the end of the chain.
	//
	// Parameters:
	//   - tex: the element texture
	//   - scale: the quad width in NDC units
	AddElement(tex texture.Texture, scale float32)

	// Elements returns the chain in draw order, index 0 sitting on the light.
	//
	// Returns:
	//   - []Element: a copy of the element list
	Elements() []Element

	// Occlusion returns the last visibility value read from the query, in [0, 1].
	// It is 1 until the first result arrives.
	//
	// Returns:
	//   - float32: the visible fraction of the probe
	Occlusion() float32

	// Release deletes the query and the quad buffer. Element textures are not released.
	// Render is a no-op afterwards.
	Release()
}

var _ LensFlare = &lensFlare{}

// NewLensFlare creates a LensFlare following the given light and drawing with program, which must
// read vPosition and vUV and expose uAlpha and uTexture.
//
// Parameters:
//   - r: the renderer backend (must not be nil)
//   - light: the light to follow (must not be nil)
//   - program: the flare program (must not be nil)
//   - options: functional options to configure the flare
//
// Returns:
//   - LensFlare: the new flare
//   - error: error if the quad buffer or the query cannot be created
func NewLensFlare(r renderer.RendererBackend, light LightSource, program shader.Program, options ...LensFlareBuilderOption) (LensFlare, error) {
	if r == nil || light == nil || program == nil {
		panic("lensflare: renderer, light and program must not be nil")
	}
	f := &lensFlare{
		r:         r,
		light:     light,
		program:   program,
		logger:    zap.NewNop(),
		cutoff:    DefaultCutoff,
		probeSize: DefaultProbeSize,
		occlusion: 1,
	}
	for _, opt := range options {
		opt(f)
	}

	initial := make([]float32, quadVertices*3, quadVertices*3+len(quadUVs))
	initial = append(initial, quadUVs...)
	vbo, err := r.CreateVertexBuffer(initial, true)
	if err != nil {
		return nil, errors.Wrap(err, "lensflare: quad buffer")
	}
	q, err := occlusion.NewQuery(r, renderer.QuerySamplesPassed)
	if err != nil {
		r.DeleteVertexBuffer(vbo)
		return nil, errors.Wrap(err, "lensflare: occlusion query")
	}
	f.vbo = vbo
	f.query = q
	return f, nil
}

func (f *lensFlare) AddElement(tex texture.Texture, scale float32) {
	f.elements = append(f.elements, Element{Texture: tex, Scale: scale})
}

func (f *lensFlare) Elements() []Element {
	return append([]Element(nil), f.elements...)
}

func (f *lensFlare) Occlusion() float32 {
	return f.occlusion
}

func (f *lensFlare) Render(projection mgl32.Mat4) {
	if f.query == nil {
		return
	}
	ndc, w := common.ProjectNDC(projection, f.light.CamSpacePosition())
	if w <= 0 {
		return
	}
	offset := ndc.Vec2()
	distance := offset.Len()
	brightness := 1 - distance/f.cutoff
	if brightness <= 0 {
		return
	}

	width, height := f.r.Viewport()
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	prev := f.r.State()

	f.program.Use()
	f.bindQuad()

	if f.query.InUse() && f.query.ResultReady() {
		samples, err := f.query.Result()
		if err != nil {
			f.logger.Warn("occlusion result", zap.Error(err))
		} else {
			reference := 0.25 * f.probeSize * (f.probeSize * aspect) * float32(width) * float32(height)
			f.occlusion = common.Clamp(float32(samples)/reference, 0, 1)
		}
	}
	if !f.query.InUse() {
		f.probe(prev, offset, ndc.Z(), aspect)
	}

	f.r.ApplyState(renderer.RenderState{
		ColorWrite: true,
		DepthWrite: false,
		DepthTest:  false,
		Blend:      renderer.BlendAdditive,
	})
	f.r.SetUniformFloat(f.program.Uniform(shader.UniformAlpha), f.occlusion*brightness/2)
	f.r.SetUniformInt(f.program.Uniform(shader.UniformTexture), 0)

	var dir mgl32.Vec2
	if distance > 0 {
		dir = offset.Mul(-1 / distance)
	}
	var step float32
	if n := len(f.elements); n > 0 {
		step = distance * 2 / float32(n)
	}

	pos := offset
	for _, el := range f.elements {
		if el.Texture != nil {
			el.Texture.Bind()
		}
		f.drawQuad(pos, 1, el.Scale, el.Scale*aspect)
		if el.Texture != nil {
			el.Texture.Unbind()
		}
		pos = pos.Add(dir.Mul(step))
	}

	f.r.ApplyState(prev)
}

// probe issues the occlusion query around a small quad at the light's depth with color and
// depth writes off, so only the depth test decides which samples count.
func (f *lensFlare) probe(prev renderer.RenderState, offset mgl32.Vec2, depth, aspect float32) {
	probe := prev
	probe.ColorWrite = false
	probe.DepthWrite = false
	probe.DepthTest = true
	probe.Blend = renderer.BlendNone
	f.r.ApplyState(probe)

	if err := f.query.Start(); err != nil {
		f.logger.Warn("occlusion probe", zap.Error(err))
		return
	}
	f.drawQuad(offset, depth, f.probeSize, f.probeSize*aspect)
	if err := f.query.End(); err != nil {
		f.logger.Warn("occlusion probe", zap.Error(err))
	}
}

func (f *lensFlare) bindQuad() {
	attribs := make([]renderer.VertexAttrib, 0, 2)
	if loc := f.program.Attrib(shader.AttribPosition); loc >= 0 {
		attribs = append(attribs, renderer.VertexAttrib{Location: loc, Components: 3, Offset: 0})
	}
	if loc := f.program.Attrib(shader.AttribUV); loc >= 0 {
		attribs = append(attribs, renderer.VertexAttrib{Location: loc, Components: 2, Offset: quadVertices * 3 * 4})
	}
	f.r.BindVertexBuffer(f.vbo, attribs)
}

// drawQuad rewrites the quad positions centered on c and draws it.
func (f *lensFlare) drawQuad(c mgl32.Vec2, z, w, h float32) {
	tl := c.Sub(mgl32.Vec2{w / 2, -h / 2})
	tr := c.Sub(mgl32.Vec2{-w / 2, -h / 2})
	br := c.Sub(mgl32.Vec2{-w / 2, h / 2})
	bl := c.Sub(mgl32.Vec2{w / 2, h / 2})

	f.r.UpdateVertexBuffer(f.vbo, 0, []float32{
		tl[0], tl[1], z,
		br[0], br[1], z,
		tr[0], tr[1], z,
		tl[0], tl[1], z,
		bl[0], bl[1], z,
		br[0], br[1], z,
	})
	f.r.DrawTriangles(0, quadVertices)
}

func (f *lensFlare) Release() {
	if f.query != nil {
		f.query.Release()
		f.query = nil
	}
	if f.vbo != 0 {
		f.r.DeleteVertexBuffer(f.vbo)
		f.vbo = 0
	}
}
