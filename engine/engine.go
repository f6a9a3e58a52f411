package engine

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/camera"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/profiler"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/scene"
	"go.uber.org/zap"
)

// Surface is the part of a window the frame loop drives. window.Window satisfies it.
type Surface interface {
	IsRunning() bool
	PollEvents()
	SwapBuffers()
	SetResizeCallback(callback func(width, height int))
}

// engine implements the Engine interface.
// Runs the whole frame on the goroutine that owns the graphics context.
type engine struct {
	window   Surface
	renderer renderer.Renderer
	camera   camera.Camera
	logger   *zap.Logger

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	scenes map[int]scene.Scene
	frames uint64
}

// Engine is the main entry point for the engine.
// It pumps window events, runs the game tick, renders registered scenes and presents, at a
// fixed frame rate on a single OS thread.
type Engine interface {
	// Window returns the surface driven by the loop.
	//
	// Returns:
	//   - Surface: the window, or nil if none was configured
	Window() Surface

	// Renderer returns the renderer whose frame lifecycle the loop owns.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil if none was configured
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the frame rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the target frame duration.
	//
	// Returns:
	//   - time.Duration: the frame period
	TickRate() time.Duration

	// SetTickCallback registers the function called once per frame before rendering.
	// Use this for animation, input processing and camera updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after the scenes are drawn and before
	// the frame is presented. Use this for post effects such as the lens flare.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers a function called after the engine has resized the viewport
	// and camera.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer size in pixels
	SetResizeCallback(callback func(width, height int))

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Frames returns the number of frames completed by Run.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run pumps frames until the window closes or Quit is called.
	// Must be called from the goroutine that created the window.
	Run()

	// Quit stops the loop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:    make(chan struct{}),
		scenes:         make(map[int]scene.Scene),
		logger:         zap.NewNop(),
		engineTickRate: time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger)

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() Surface {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

// resize pushes a new framebuffer size to the renderer, the camera and the user callback.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if e.camera != nil {
		e.camera.SetAspect(float32(width) / float32(height))
	}
	if e.resizeCallback != nil {
		e.resizeCallback(width, height)
	}
	e.logger.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

func (e *engine) Run() {
	if e.window == nil {
		e.logger.Error("engine has no window")
		return
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame loop recovered from panic", zap.Any("panic", r))
			e.signalQuit()
		}
	}()

	last := time.Now()
	for e.window.IsRunning() {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()
		dt := float32(frameStart.Sub(last).Seconds())
		last = frameStart

		e.window.PollEvents()
		if e.tickCallback != nil {
			e.tickCallback(dt)
		}
		draws := e.renderFrame(dt)
		e.window.SwapBuffers()
		e.frames++

		if e.profilingEnabled {
			e.profiler.Tick(zap.Int("draws", draws))
		}

		if remaining := e.engineTickRate - time.Since(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// renderFrame clears the frame, draws every scene in ascending z-index order, then runs the
// render callback. It returns the number of scene draws issued.
func (e *engine) renderFrame(dt float32) int {
	if e.renderer != nil {
		e.renderer.BeginFrame()
	}

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	draws := 0
	if e.camera != nil {
		ctx := scene.RenderContext{
			ViewProjection: e.camera.ViewProjectionMatrix(),
			CameraPosition: e.camera.Position(),
		}
		view := e.camera.ViewMatrix()
		for _, k := range keys {
			s := e.scenes[k]
			s.SetView(view)
			s.Render(ctx)
			draws += s.DrawCount()
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	return draws
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickPeriod(fps)
}

func (e *engine) TickRate() time.Duration {
	return e.engineTickRate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Frames() uint64 {
	return e.frames
}

// tickPeriod converts a frame rate into a frame duration, treating values <= 0 as 60.
func tickPeriod(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
