package renderer

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// renderer is the implementation of the Renderer interface.
// It forwards the GPU surface to the wrapped backend and owns the per-frame lifecycle.
type renderer struct {
	RendererBackend

	backendType RendererBackendType
	logger      *zap.Logger
	clearColor  mgl32.Vec4
	frames      atomic.Uint64
}

// Renderer defines the interface for the rendering system.
//
// The Renderer exposes the full backend GPU surface (buffers, textures, programs, uniforms,
// fixed-function state, draws and queries) and adds the frame lifecycle on top of it.
// Scene traversal and post effects depend only on this interface, so any backend (including
// an in-memory recorder) can stand in for the GPU.
type Renderer interface {
	RendererBackend

	// BackendType reports which backend implementation is in use.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// BeginFrame resets the render state to DefaultRenderState and clears the color and depth buffers.
	// Should be called once per frame before any scene is drawn.
	BeginFrame()

	// Resize updates the viewport after the framebuffer size changed.
	// Non-positive sizes (minimized windows) are ignored.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	Resize(width, height int)

	// ClearColor returns the color used by BeginFrame.
	//
	// Returns:
	//   - mgl32.Vec4: the RGBA clear color
	ClearColor() mgl32.Vec4

	// Frames returns the number of frames begun so far.
	//
	// Returns:
	//   - uint64: the frame counter
	Frames() uint64
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer on top of an initialized backend.
// The backend must already own a current graphics context.
//
// Parameters:
//   - backendType: the type of the supplied backend
//   - backend: the GPU backend to drive
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer
func NewRenderer(backendType RendererBackendType, backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic("renderer: backend must not be nil")
	}
	r := &renderer{
		RendererBackend: backend,
		backendType:     backendType,
		logger:          zap.NewNop(),
		clearColor:      mgl32.Vec4{0, 0, 0, 1},
	}
	for _, opt := range options {
		opt(r)
	}
	r.ApplyState(DefaultRenderState)
	return r
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) BeginFrame() {
	r.frames.Add(1)
	r.ApplyState(DefaultRenderState)
	r.Clear(r.clearColor)
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.SetViewport(width, height)
	r.logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

func (r *renderer) ClearColor() mgl32.Vec4 {
	return r.clearColor
}

func (r *renderer) Frames() uint64 {
	return r.frames.Load()
}
