package renderer

import (
	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeGL selects the OpenGL 4.1 core profile rendering backend.
	BackendTypeGL RendererBackendType = iota
)

// BufferHandle identifies a GPU vertex buffer owned by the backend.
type BufferHandle uint32

// TextureHandle identifies a GPU 2D texture owned by the backend.
type TextureHandle uint32

// ProgramHandle identifies a linked GPU shader program owned by the backend.
type ProgramHandle uint32

// QueryHandle identifies a GPU query object owned by the backend.
type QueryHandle uint32

// QueryKind selects what a GPU query counts.
type QueryKind int

const (
	// QuerySamplesPassed counts the number of samples that pass the depth test.
	QuerySamplesPassed QueryKind = iota
)

// BlendMode selects the color blending equation applied to draws.
type BlendMode int

const (
	// BlendNone disables blending; fragments overwrite the framebuffer.
	BlendNone BlendMode = iota

	// BlendAdditive blends with src*alpha + dst, brightening what is already drawn.
	BlendAdditive
)

// RenderState is the subset of fixed-function state toggled by the scene and post effects.
// Effects snapshot it with State and put it back with ApplyState.
type RenderState struct {
	ColorWrite bool
	DepthWrite bool
	DepthTest  bool
	Blend      BlendMode
}

// DefaultRenderState is the state used for opaque scene geometry.
var DefaultRenderState = RenderState{
	ColorWrite: true,
	DepthWrite: true,
	DepthTest:  true,
	Blend:      BlendNone,
}

// VertexAttrib describes one float attribute stream inside a bound vertex buffer.
// Attributes with a negative Location are skipped.
type VertexAttrib struct {
	// Location is the attribute location resolved from the program.
	Location int32
	// Components is the number of float32 components per vertex (2 or 3).
	Components int32
	// Offset is the byte offset of the first element inside the buffer.
	Offset int
}

// RendererBackend is the GPU surface every backend implements.
// All methods must be called from the goroutine that owns the graphics context.
type RendererBackend interface {
	// CreateVertexBuffer uploads float data into a new vertex buffer.
	//
	// Parameters:
	//   - data: the vertex data, must not be empty
	//   - dynamic: true if the buffer will be rewritten with UpdateVertexBuffer
	//
	// Returns:
	//   - BufferHandle: the new buffer
	//   - error: error if data is empty or the allocation fails
	CreateVertexBuffer(data []float32, dynamic bool) (BufferHandle, error)

	// UpdateVertexBuffer overwrites part of a vertex buffer.
	//
	// Parameters:
	//   - buf: the buffer to write
	//   - offset: destination offset in floats
	//   - data: the replacement data
	UpdateVertexBuffer(buf BufferHandle, offset int, data []float32)

	// DeleteVertexBuffer releases a vertex buffer.
	//
	// Parameters:
	//   - buf: the buffer to release
	DeleteVertexBuffer(buf BufferHandle)

	// CreateTexture uploads RGBA pixels into a new mipmapped 2D texture.
	//
	// Parameters:
	//   - staging: the decoded pixels and their dimensions
	//
	// Returns:
	//   - TextureHandle: the new texture
	//   - error: error if the pixel data does not match the dimensions
	CreateTexture(staging common.TextureStagingData) (TextureHandle, error)

	// DeleteTexture releases a texture.
	//
	// Parameters:
	//   - tex: the texture to release
	DeleteTexture(tex TextureHandle)

	// BindTexture binds a texture to a texture unit.
	//
	// Parameters:
	//   - unit: the texture unit index
	//   - tex: the texture to bind
	BindTexture(unit uint32, tex TextureHandle)

	// UnbindTexture clears the texture bound to a texture unit.
	//
	// Parameters:
	//   - unit: the texture unit index
	UnbindTexture(unit uint32)

	// CompileProgram compiles and links a vertex/fragment shader pair.
	//
	// Parameters:
	//   - vertexSource: vertex shader source code
	//   - fragmentSource: fragment shader source code
	//
	// Returns:
	//   - ProgramHandle: the linked program
	//   - error: error carrying the compiler or linker log on failure
	CompileProgram(vertexSource, fragmentSource string) (ProgramHandle, error)

	// DeleteProgram releases a linked program.
	//
	// Parameters:
	//   - p: the program to release
	DeleteProgram(p ProgramHandle)

	// UniformLocation resolves a uniform name in a linked program.
	//
	// Parameters:
	//   - p: the program
	//   - name: the uniform name
	//
	// Returns:
	//   - int32: the location, or -1 if the program has no active uniform with that name
	UniformLocation(p ProgramHandle, name string) int32

	// AttribLocation resolves a vertex attribute name in a linked program.
	//
	// Parameters:
	//   - p: the program
	//   - name: the attribute name
	//
	// Returns:
	//   - int32: the location, or -1 if the program has no active attribute with that name
	AttribLocation(p ProgramHandle, name string) int32

	// UseProgram makes a program current for subsequent uniform uploads and draws.
	//
	// Parameters:
	//   - p: the program to use
	UseProgram(p ProgramHandle)

	// BindVertexBuffer binds a vertex buffer and enables the given attribute streams.
	// Attributes enabled by a previous bind and absent from attribs are disabled.
	//
	// Parameters:
	//   - buf: the buffer to bind
	//   - attribs: the attribute layout within the buffer
	BindVertexBuffer(buf BufferHandle, attribs []VertexAttrib)

	// SetUniformMat4 uploads a 4x4 matrix uniform to the current program.
	SetUniformMat4(location int32, m mgl32.Mat4)

	// SetUniformMat3 uploads a 3x3 matrix uniform to the current program.
	SetUniformMat3(location int32, m mgl32.Mat3)

	// SetUniformVec3 uploads a vec3 uniform to the current program.
	SetUniformVec3(location int32, v mgl32.Vec3)

	// SetUniformVec4 uploads a vec4 uniform to the current program.
	SetUniformVec4(location int32, v mgl32.Vec4)

	// SetUniformFloat uploads a float uniform to the current program.
	SetUniformFloat(location int32, f float32)

	// SetUniformInt uploads an int (or sampler) uniform to the current program.
	SetUniformInt(location int32, i int32)

	// State returns the currently applied render state.
	//
	// Returns:
	//   - RenderState: the current state snapshot
	State() RenderState

	// ApplyState applies a render state, issuing only the toggles that changed.
	//
	// Parameters:
	//   - s: the state to apply
	ApplyState(s RenderState)

	// Viewport returns the current viewport size in pixels.
	//
	// Returns:
	//   - width, height: the viewport dimensions
	Viewport() (width, height int)

	// SetViewport sets the viewport to cover (0, 0, width, height).
	//
	// Parameters:
	//   - width, height: the viewport dimensions in pixels
	SetViewport(width, height int)

	// Clear clears the color and depth buffers.
	//
	// Parameters:
	//   - color: the RGBA clear color
	Clear(color mgl32.Vec4)

	// DrawTriangles draws non-indexed triangles from the bound vertex buffer.
	//
	// Parameters:
	//   - first: the first vertex
	//   - count: the number of vertices
	DrawTriangles(first, count int32)

	// CreateQuery allocates a GPU query object.
	//
	// Returns:
	//   - QueryHandle: the new query
	//   - error: error if the query cannot be created
	CreateQuery() (QueryHandle, error)

	// BeginQuery starts counting into a query object.
	//
	// Parameters:
	//   - kind: what the query counts
	//   - q: the query object
	BeginQuery(kind QueryKind, q QueryHandle)

	// EndQuery stops the active query of the given kind.
	//
	// Parameters:
	//   - kind: what the query counts
	EndQuery(kind QueryKind)

	// QueryResultAvailable polls a query without blocking.
	//
	// Parameters:
	//   - q: the query object
	//
	// Returns:
	//   - bool: true if the result can be read without stalling
	QueryResultAvailable(q QueryHandle) bool

	// QueryResult reads a query result, stalling until the GPU has produced it.
	//
	// Parameters:
	//   - q: the query object
	//
	// Returns:
	//   - uint64: the counted value
	QueryResult(q QueryHandle) uint64

	// DeleteQuery releases a query object.
	//
	// Parameters:
	//   - q: the query to release
	DeleteQuery(q QueryHandle)
}
