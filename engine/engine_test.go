package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/camera"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface runs for a fixed number of frames.
type fakeSurface struct {
	frames   int
	polls    int
	swaps    int
	onResize func(width, height int)
	onPoll   func()
}

func (f *fakeSurface) IsRunning() bool { return f.polls < f.frames }

func (f *fakeSurface) PollEvents() {
	f.polls++
	if f.onPoll != nil {
		f.onPoll()
	}
}

func (f *fakeSurface) SwapBuffers() { f.swaps++ }

func (f *fakeSurface) SetResizeCallback(callback func(width, height int)) { f.onResize = callback }

type harness struct {
	rec      *renderertest.Recorder
	renderer renderer.Renderer
	scene    scene.Scene
	camera   camera.Camera
}

func newHarness(t *testing.T) harness {
	t.Helper()
	rec := renderertest.NewRecorder()
	r := renderer.NewRenderer(renderer.BackendTypeGL, rec)
	p, err := shader.NewProgram(rec, "color", "vs", "fs")
	require.NoError(t, err)
	cube, err := model.NewModel(rec, model.Cube())
	require.NoError(t, err)

	s := scene.NewScene(r, scene.WithDefaultProgram(p))
	require.NoError(t, s.AddPart("box", scene.NewNode(scene.WithName("box"), scene.WithModel(cube), scene.WithMaterial(material.NewMaterial()))))
	return harness{rec: rec, renderer: r, scene: s, camera: camera.NewCamera(camera.WithAspect(800.0 / 600.0))}
}

func TestRunPumpsFramesInOrder(t *testing.T) {
	h := newHarness(t)
	surface := &fakeSurface{frames: 3}
	var order []string
	surface.onPoll = func() { order = append(order, "poll") }

	e := NewEngine(
		WithWindow(surface),
		WithRenderer(h.renderer),
		WithCamera(h.camera),
		WithScene(0, h.scene),
		WithTickRate(1000),
	)
	e.SetTickCallback(func(float32) { order = append(order, "tick") })
	e.SetRenderCallback(func(float32) {
		order = append(order, "render")
		assert.Equal(t, 1, h.scene.DrawCount())
	})

	e.Run()

	assert.Equal(t, uint64(3), e.Frames())
	assert.Equal(t, 3, surface.swaps)
	assert.Equal(t, 3, h.rec.Clears())
	assert.Len(t, h.rec.Draws, 3)
	assert.Equal(t, []string{"poll", "tick", "render", "poll", "tick", "render", "poll", "tick", "render"}, order)
}

func TestRenderOrderFollowsKeys(t *testing.T) {
	h := newHarness(t)
	overlayProgram, err := shader.NewProgram(h.rec, "overlay", "vs", "fs")
	require.NoError(t, err)
	cube, err := model.NewModel(h.rec, model.Cube())
	require.NoError(t, err)
	overlay := scene.NewScene(h.renderer, scene.WithDefaultProgram(overlayProgram))
	require.NoError(t, overlay.AddPart("hud", scene.NewNode(scene.WithModel(cube), scene.WithMaterial(material.NewMaterial()))))

	e := NewEngine(WithWindow(&fakeSurface{frames: 1}), WithRenderer(h.renderer), WithCamera(h.camera), WithTickRate(1000))
	e.AddScene(5, overlay)
	e.AddScene(-1, h.scene)
	e.Run()

	require.Len(t, h.rec.Draws, 2)
	assert.Equal(t, h.scene.DefaultProgram().Handle(), h.rec.Draws[0].Program)
	assert.Equal(t, overlayProgram.Handle(), h.rec.Draws[1].Program)

	assert.Same(t, overlay, e.Scene(5))
	e.RemoveScene(5)
	assert.Nil(t, e.Scene(5))
}

func TestQuitStopsLoop(t *testing.T) {
	surface := &fakeSurface{frames: 1000}
	e := NewEngine(WithWindow(surface), WithTickRate(1000))
	e.SetTickCallback(func(float32) {
		if surface.polls == 2 {
			e.Quit()
		}
	})

	e.Run()
	e.Quit()

	assert.Equal(t, 2, surface.polls)
}

func TestPanicInFrameQuits(t *testing.T) {
	surface := &fakeSurface{frames: 10}
	e := NewEngine(WithWindow(surface), WithTickRate(1000))
	e.SetTickCallback(func(float32) { panic("boom") })

	assert.NotPanics(t, e.Run)
	assert.Equal(t, 1, surface.polls)
}

func TestResizeUpdatesViewportAndAspect(t *testing.T) {
	h := newHarness(t)
	surface := &fakeSurface{}
	var got [2]int
	e := NewEngine(WithWindow(surface), WithRenderer(h.renderer), WithCamera(h.camera))
	e.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	require.NotNil(t, surface.onResize)
	surface.onResize(1000, 500)

	w, hgt := h.renderer.Viewport()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, hgt)
	assert.InDelta(t, 2.0, h.camera.Aspect(), 1e-6)
	assert.Equal(t, [2]int{1000, 500}, got)

	surface.onResize(0, 0)
	assert.InDelta(t, 2.0, h.camera.Aspect(), 1e-6)
}

func TestTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(0))
	assert.Equal(t, time.Second/60, e.TickRate())
	e.SetTickRate(50)
	assert.Equal(t, 20*time.Millisecond, e.TickRate())
}

func TestRunWithoutWindowReturns(t *testing.T) {
	e := NewEngine()
	assert.NotPanics(t, e.Run)
	assert.Equal(t, uint64(0), e.Frames())
}
