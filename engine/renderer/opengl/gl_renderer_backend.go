// Package opengl implements renderer.RendererBackend on top of an OpenGL 4.1 core profile context.
package opengl

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type glRendererBackendImpl struct {
	logger *zap.Logger

	// vao is the single vertex array object; attribute pointers are re-specified on every bind.
	vao uint32

	state          renderer.RenderState
	enabledAttribs map[uint32]struct{}

	width  int
	height int
}

var _ renderer.RendererBackend = &glRendererBackendImpl{}

// NewBackend loads the OpenGL function pointers for the current context and prepares the shared vertex array.
// The caller must have made a 4.1 core context current on the calling OS thread.
//
// Parameters:
//   - width, height: the initial framebuffer size in pixels
//   - logger: logger for driver information (nil for none)
//
// Returns:
//   - renderer.RendererBackend: the OpenGL backend
//   - error: error if the function pointers could not be loaded
func NewBackend(width, height int, logger *zap.Logger) (renderer.RendererBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	b := &glRendererBackendImpl{
		logger:         logger,
		enabledAttribs: make(map[uint32]struct{}),
	}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	b.applyState(renderer.DefaultRenderState, true)
	b.SetViewport(width, height)
	return b, nil
}

func (b *glRendererBackendImpl) CreateVertexBuffer(data []float32, dynamic bool) (renderer.BufferHandle, error) {
	if len(data) == 0 {
		return 0, errors.New("vertex buffer data is empty")
	}
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage)
	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		return 0, errors.Errorf("failed to allocate vertex buffer: GL error 0x%x", errCode)
	}
	return renderer.BufferHandle(vbo), nil
}

func (b *glRendererBackendImpl) UpdateVertexBuffer(buf renderer.BufferHandle, offset int, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.BufferSubData(gl.ARRAY_BUFFER, offset*4, len(data)*4, gl.Ptr(data))
}

func (b *glRendererBackendImpl) DeleteVertexBuffer(buf renderer.BufferHandle) {
	vbo := uint32(buf)
	gl.DeleteBuffers(1, &vbo)
}

func (b *glRendererBackendImpl) CreateTexture(staging common.TextureStagingData) (renderer.TextureHandle, error) {
	if staging.Width == 0 || staging.Height == 0 {
		return 0, errors.Errorf("texture %s has zero size", staging.Name)
	}
	if len(staging.Pixels) != int(staging.Width*staging.Height*4) {
		return 0, errors.Errorf("texture %s: expected %d bytes of RGBA data, got %d",
			staging.Name, staging.Width*staging.Height*4, len(staging.Pixels))
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(staging.Width), int32(staging.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(staging.Pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return renderer.TextureHandle(tex), nil
}

func (b *glRendererBackendImpl) DeleteTexture(tex renderer.TextureHandle) {
	t := uint32(tex)
	gl.DeleteTextures(1, &t)
}

func (b *glRendererBackendImpl) BindTexture(unit uint32, tex renderer.TextureHandle) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (b *glRendererBackendImpl) UnbindTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (b *glRendererBackendImpl) CompileProgram(vertexSource, fragmentSource string) (renderer.ProgramHandle, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "vertex shader")
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "fragment shader")
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, errors.Errorf("failed to link program: %s", strings.TrimRight(log, "\x00"))
	}
	return renderer.ProgramHandle(program), nil
}

// compileShader compiles a single shader stage and returns its object name.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.Errorf("failed to compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (b *glRendererBackendImpl) DeleteProgram(p renderer.ProgramHandle) {
	gl.DeleteProgram(uint32(p))
}

func (b *glRendererBackendImpl) UniformLocation(p renderer.ProgramHandle, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (b *glRendererBackendImpl) AttribLocation(p renderer.ProgramHandle, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (b *glRendererBackendImpl) UseProgram(p renderer.ProgramHandle) {
	gl.UseProgram(uint32(p))
}

func (b *glRendererBackendImpl) BindVertexBuffer(buf renderer.BufferHandle, attribs []renderer.VertexAttrib) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))

	wanted := make(map[uint32]struct{}, len(attribs))
	for _, a := range attribs {
		if a.Location < 0 {
			continue
		}
		loc := uint32(a.Location)
		wanted[loc] = struct{}{}
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, a.Components, gl.FLOAT, false, 0, uintptr(a.Offset))
	}
	for loc := range b.enabledAttribs {
		if _, ok := wanted[loc]; !ok {
			gl.DisableVertexAttribArray(loc)
		}
	}
	b.enabledAttribs = wanted
}

func (b *glRendererBackendImpl) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *glRendererBackendImpl) SetUniformMat3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (b *glRendererBackendImpl) SetUniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (b *glRendererBackendImpl) SetUniformVec4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (b *glRendererBackendImpl) SetUniformFloat(location int32, f float32) {
	gl.Uniform1f(location, f)
}

func (b *glRendererBackendImpl) SetUniformInt(location int32, i int32) {
	gl.Uniform1i(location, i)
}

func (b *glRendererBackendImpl) State() renderer.RenderState {
	return b.state
}

func (b *glRendererBackendImpl) ApplyState(s renderer.RenderState) {
	b.applyState(s, false)
}

// applyState issues the GL toggles needed to reach s. With force set every toggle is issued.
func (b *glRendererBackendImpl) applyState(s renderer.RenderState, force bool) {
	if force || s.ColorWrite != b.state.ColorWrite {
		gl.ColorMask(s.ColorWrite, s.ColorWrite, s.ColorWrite, s.ColorWrite)
	}
	if force || s.DepthWrite != b.state.DepthWrite {
		gl.DepthMask(s.DepthWrite)
	}
	if force || s.DepthTest != b.state.DepthTest {
		if s.DepthTest {
			gl.Enable(gl.DEPTH_TEST)
		} else {
			gl.Disable(gl.DEPTH_TEST)
		}
	}
	if force || s.Blend != b.state.Blend {
		switch s.Blend {
		case renderer.BlendAdditive:
			gl.Enable(gl.BLEND)
			gl.BlendEquation(gl.FUNC_ADD)
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		default:
			gl.Disable(gl.BLEND)
		}
	}
	b.state = s
}

func (b *glRendererBackendImpl) Viewport() (int, int) {
	return b.width, b.height
}

func (b *glRendererBackendImpl) SetViewport(width, height int) {
	b.width, b.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackendImpl) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glRendererBackendImpl) DrawTriangles(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (b *glRendererBackendImpl) CreateQuery() (renderer.QueryHandle, error) {
	var q uint32
	gl.GenQueries(1, &q)
	if q == 0 {
		return 0, errors.New("failed to generate query object")
	}
	return renderer.QueryHandle(q), nil
}

func (b *glRendererBackendImpl) BeginQuery(kind renderer.QueryKind, q renderer.QueryHandle) {
	gl.BeginQuery(queryTarget(kind), uint32(q))
}

func (b *glRendererBackendImpl) EndQuery(kind renderer.QueryKind) {
	gl.EndQuery(queryTarget(kind))
}

func (b *glRendererBackendImpl) QueryResultAvailable(q renderer.QueryHandle) bool {
	var available int32
	gl.GetQueryObjectiv(uint32(q), gl.QUERY_RESULT_AVAILABLE, &available)
	return available != gl.FALSE
}

func (b *glRendererBackendImpl) QueryResult(q renderer.QueryHandle) uint64 {
	var result uint64
	gl.GetQueryObjectui64v(uint32(q), gl.QUERY_RESULT, &result)
	return result
}

func (b *glRendererBackendImpl) DeleteQuery(q renderer.QueryHandle) {
	id := uint32(q)
	gl.DeleteQueries(1, &id)
}

// queryTargets maps query kinds to GL query targets.
var queryTargets = map[renderer.QueryKind]uint32{
	renderer.QuerySamplesPassed: gl.SAMPLES_PASSED,
}

func queryTarget(kind renderer.QueryKind) uint32 {
	return queryTargets[kind]
}
