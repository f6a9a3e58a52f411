// Package renderertest provides an in-memory renderer.RendererBackend that records every call,
// for exercising scene traversal and post effects without a graphics context.
package renderertest

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Draw is one recorded DrawTriangles call together with the bindings active at the time.
type Draw struct {
	Program  renderer.ProgramHandle
	Buffer   renderer.BufferHandle
	Attribs  []renderer.VertexAttrib
	Texture  renderer.TextureHandle
	First    int32
	Count    int32
	State    renderer.RenderState
	Uniforms map[int32]any

	// BufferData is a copy of the bound buffer contents at draw time.
	BufferData []float32
}

// Uniform returns the value a draw saw for the named uniform of its program.
func (d Draw) Uniform(r *Recorder, name string) (any, bool) {
	v, ok := d.Uniforms[r.UniformLocation(d.Program, name)]
	return v, ok
}

// Query is the simulated state of one query object.
type Query struct {
	Kind    renderer.QueryKind
	Active  bool
	Ended   bool
	Deleted bool
}

// Recorder implements renderer.RendererBackend in memory.
//
// Uniform and attribute locations are assigned per program in first-lookup order; names listed in
// MissingUniforms resolve to -1. Queries report readiness according to QueryReady and return
// QuerySamples as their result.
type Recorder struct {
	// Calls logs every method name in call order.
	Calls []string
	// Draws logs every draw call.
	Draws []Draw

	// CompileErr, when set, is returned by CompileProgram.
	CompileErr error
	// MissingUniforms lists uniform names that resolve to -1.
	MissingUniforms map[string]bool

	// QueryReady controls what QueryResultAvailable reports for ended queries.
	QueryReady bool
	// QuerySamples is returned by QueryResult.
	QuerySamples uint64

	Queries      map[renderer.QueryHandle]*Query
	QueryBegins  int
	QueryEnds    int
	QueryPolls   int
	QueryResults int

	Buffers  map[renderer.BufferHandle][]float32
	Textures map[renderer.TextureHandle]common.TextureStagingData
	Programs map[renderer.ProgramHandle][2]string

	state     renderer.RenderState
	width     int
	height    int
	clears    int
	nextID    uint32
	program   renderer.ProgramHandle
	buffer    renderer.BufferHandle
	attribs   []renderer.VertexAttrib
	textures  map[uint32]renderer.TextureHandle
	locations map[renderer.ProgramHandle]map[string]int32
	uniforms  map[renderer.ProgramHandle]map[int32]any
}

var _ renderer.RendererBackend = &Recorder{}

// NewRecorder creates a Recorder with an 800x600 viewport and the default render state.
func NewRecorder() *Recorder {
	return &Recorder{
		MissingUniforms: make(map[string]bool),
		Queries:         make(map[renderer.QueryHandle]*Query),
		Buffers:         make(map[renderer.BufferHandle][]float32),
		Textures:        make(map[renderer.TextureHandle]common.TextureStagingData),
		Programs:        make(map[renderer.ProgramHandle][2]string),
		state:           renderer.DefaultRenderState,
		width:           800,
		height:          600,
		textures:        make(map[uint32]renderer.TextureHandle),
		locations:       make(map[renderer.ProgramHandle]map[string]int32),
		uniforms:        make(map[renderer.ProgramHandle]map[int32]any),
	}
}

// Reset clears the call, draw and query counters while keeping resources and state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
	r.QueryBegins, r.QueryEnds, r.QueryPolls, r.QueryResults = 0, 0, 0, 0
}

// Clears returns how many times Clear was called.
func (r *Recorder) Clears() int {
	return r.clears
}

// CurrentUniform returns the last value uploaded to a named uniform of a program.
func (r *Recorder) CurrentUniform(p renderer.ProgramHandle, name string) (any, bool) {
	v, ok := r.uniforms[p][r.UniformLocation(p, name)]
	return v, ok
}

// CallCount returns how many times a method was called.
func (r *Recorder) CallCount(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (r *Recorder) record(name string) {
	r.Calls = append(r.Calls, name)
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

func (r *Recorder) CreateVertexBuffer(data []float32, dynamic bool) (renderer.BufferHandle, error) {
	r.record("CreateVertexBuffer")
	if len(data) == 0 {
		return 0, errors.New("vertex buffer data is empty")
	}
	h := renderer.BufferHandle(r.id())
	r.Buffers[h] = append([]float32(nil), data...)
	return h, nil
}

func (r *Recorder) UpdateVertexBuffer(buf renderer.BufferHandle, offset int, data []float32) {
	r.record("UpdateVertexBuffer")
	dst := r.Buffers[buf]
	if need := offset + len(data); need > len(dst) {
		dst = append(dst, make([]float32, need-len(dst))...)
	}
	copy(dst[offset:], data)
	r.Buffers[buf] = dst
}

func (r *Recorder) DeleteVertexBuffer(buf renderer.BufferHandle) {
	r.record("DeleteVertexBuffer")
	delete(r.Buffers, buf)
}

func (r *Recorder) CreateTexture(staging common.TextureStagingData) (renderer.TextureHandle, error) {
	r.record("CreateTexture")
	if staging.Width == 0 || staging.Height == 0 {
		return 0, errors.Errorf("texture %s has zero size", staging.Name)
	}
	h := renderer.TextureHandle(r.id())
	r.Textures[h] = staging
	return h, nil
}

func (r *Recorder) DeleteTexture(tex renderer.TextureHandle) {
	r.record("DeleteTexture")
	delete(r.Textures, tex)
}

func (r *Recorder) BindTexture(unit uint32, tex renderer.TextureHandle) {
	r.record("BindTexture")
	r.textures[unit] = tex
}

func (r *Recorder) UnbindTexture(unit uint32) {
	r.record("UnbindTexture")
	delete(r.textures, unit)
}

func (r *Recorder) CompileProgram(vertexSource, fragmentSource string) (renderer.ProgramHandle, error) {
	r.record("CompileProgram")
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	h := renderer.ProgramHandle(r.id())
	r.Programs[h] = [2]string{vertexSource, fragmentSource}
	r.locations[h] = make(map[string]int32)
	r.uniforms[h] = make(map[int32]any)
	return h, nil
}

func (r *Recorder) DeleteProgram(p renderer.ProgramHandle) {
	r.record("DeleteProgram")
	delete(r.Programs, p)
}

func (r *Recorder) UniformLocation(p renderer.ProgramHandle, name string) int32 {
	if r.MissingUniforms[name] {
		return -1
	}
	return r.location(p, "u:"+name)
}

func (r *Recorder) AttribLocation(p renderer.ProgramHandle, name string) int32 {
	return r.location(p, "a:"+name)
}

func (r *Recorder) location(p renderer.ProgramHandle, key string) int32 {
	locs, ok := r.locations[p]
	if !ok {
		return -1
	}
	if loc, ok := locs[key]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[key] = loc
	return loc
}

func (r *Recorder) UseProgram(p renderer.ProgramHandle) {
	r.record("UseProgram")
	r.program = p
}

func (r *Recorder) BindVertexBuffer(buf renderer.BufferHandle, attribs []renderer.VertexAttrib) {
	r.record("BindVertexBuffer")
	r.buffer = buf
	r.attribs = append([]renderer.VertexAttrib(nil), attribs...)
}

func (r *Recorder) setUniform(location int32, v any) {
	if location < 0 {
		return
	}
	u, ok := r.uniforms[r.program]
	if !ok {
		u = make(map[int32]any)
		r.uniforms[r.program] = u
	}
	u[location] = v
}

func (r *Recorder) SetUniformMat4(location int32, m mgl32.Mat4) {
	r.record("SetUniformMat4")
	r.setUniform(location, m)
}

func (r *Recorder) SetUniformMat3(location int32, m mgl32.Mat3) {
	r.record("SetUniformMat3")
	r.setUniform(location, m)
}

func (r *Recorder) SetUniformVec3(location int32, v mgl32.Vec3) {
	r.record("SetUniformVec3")
	r.setUniform(location, v)
}

func (r *Recorder) SetUniformVec4(location int32, v mgl32.Vec4) {
	r.record("SetUniformVec4")
	r.setUniform(location, v)
}

func (r *Recorder) SetUniformFloat(location int32, f float32) {
	r.record("SetUniformFloat")
	r.setUniform(location, f)
}

func (r *Recorder) SetUniformInt(location int32, i int32) {
	r.record("SetUniformInt")
	r.setUniform(location, i)
}

func (r *Recorder) State() renderer.RenderState {
	return r.state
}

func (r *Recorder) ApplyState(s renderer.RenderState) {
	r.record("ApplyState")
	r.state = s
}

func (r *Recorder) Viewport() (int, int) {
	return r.width, r.height
}

func (r *Recorder) SetViewport(width, height int) {
	r.record("SetViewport")
	r.width, r.height = width, height
}

func (r *Recorder) Clear(mgl32.Vec4) {
	r.record("Clear")
	r.clears++
}

func (r *Recorder) DrawTriangles(first, count int32) {
	r.record("DrawTriangles")
	uniforms := make(map[int32]any, len(r.uniforms[r.program]))
	for k, v := range r.uniforms[r.program] {
		uniforms[k] = v
	}
	r.Draws = append(r.Draws, Draw{
		Program:    r.program,
		Buffer:     r.buffer,
		Attribs:    r.attribs,
		Texture:    r.textures[0],
		First:      first,
		Count:      count,
		State:      r.state,
		Uniforms:   uniforms,
		BufferData: append([]float32(nil), r.Buffers[r.buffer]...),
	})
}

func (r *Recorder) CreateQuery() (renderer.QueryHandle, error) {
	r.record("CreateQuery")
	h := renderer.QueryHandle(r.id())
	r.Queries[h] = &Query{}
	return h, nil
}

func (r *Recorder) BeginQuery(kind renderer.QueryKind, q renderer.QueryHandle) {
	r.record("BeginQuery")
	r.QueryBegins++
	if sq, ok := r.Queries[q]; ok {
		sq.Kind = kind
		sq.Active = true
		sq.Ended = false
	}
}

func (r *Recorder) EndQuery(kind renderer.QueryKind) {
	r.record("EndQuery")
	r.QueryEnds++
	for _, sq := range r.Queries {
		if sq.Active && sq.Kind == kind {
			sq.Active = false
			sq.Ended = true
		}
	}
}

func (r *Recorder) QueryResultAvailable(q renderer.QueryHandle) bool {
	r.record("QueryResultAvailable")
	r.QueryPolls++
	sq, ok := r.Queries[q]
	return ok && sq.Ended && r.QueryReady
}

func (r *Recorder) QueryResult(q renderer.QueryHandle) uint64 {
	r.record("QueryResult")
	r.QueryResults++
	return r.QuerySamples
}

func (r *Recorder) DeleteQuery(q renderer.QueryHandle) {
	r.record("DeleteQuery")
	if sq, ok := r.Queries[q]; ok {
		sq.Deleted = true
	}
}

// DrawsUsing returns the draws issued with the given program, in order.
func (r *Recorder) DrawsUsing(p renderer.ProgramHandle) []Draw {
	var out []Draw
	for _, d := range r.Draws {
		if d.Program == p {
			out = append(out, d)
		}
	}
	return out
}

// ProgramHandles returns every live program handle in creation order.
func (r *Recorder) ProgramHandles() []renderer.ProgramHandle {
	out := make([]renderer.ProgramHandle, 0, len(r.Programs))
	for h := range r.Programs {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
