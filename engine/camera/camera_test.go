package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	for i := range expected {
		args := msgAndArgs
		if len(args) == 0 {
			args = []any{"component %d", i}
		}
		assert.InDelta(t, expected[i], actual[i], delta, args...)
	}
}

func TestZeroMoveIsBitIdentical(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3), WithOrientation(0.3, -1.2))
	c.Move(0.1, 0.2, 1, 1, 1)

	pos, pitch, yaw, view := c.Position(), c.Pitch(), c.Yaw(), c.ViewMatrix()
	c.Move(0, 0, 0, 0, 0)

	assert.Equal(t, pos, c.Position())
	assert.Equal(t, pitch, c.Pitch())
	assert.Equal(t, yaw, c.Yaw())
	assert.Equal(t, view, c.ViewMatrix())
}

func TestDefaultForwardLooksDownNegativeZ(t *testing.T) {
	c := NewCamera()
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, c.Forward(), 1e-6)

	c.Move(0, 0, 2, 0, 0)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -2}, c.Position(), 1e-6)

	// A point straight ahead lands on the view axis.
	ahead := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 0, ahead.X(), 1e-5)
	assert.InDelta(t, 0, ahead.Y(), 1e-5)
	assert.InDelta(t, -8, ahead.Z(), 1e-5)
}

func TestStrafeAndVertical(t *testing.T) {
	c := NewCamera()
	c.Move(0, 0, 0, 1, 0)
	assertVec3InDelta(t, mgl32.Vec3{1, 0, 0}, c.Position(), 1e-6)

	c.Move(0, 0, 0, 0, 3)
	assertVec3InDelta(t, mgl32.Vec3{1, 3, 0}, c.Position(), 1e-6)
}

func TestYawRotatesForward(t *testing.T) {
	c := NewCamera()
	c.Move(0, math.Pi/2, 1, 0, 0)

	assertVec3InDelta(t, mgl32.Vec3{-1, 0, 0}, c.Forward(), 1e-6)
	assertVec3InDelta(t, mgl32.Vec3{-1, 0, 0}, c.Position(), 1e-6)
}

func TestPitchIsUnclamped(t *testing.T) {
	c := NewCamera()
	for i := 0; i < 10; i++ {
		c.Move(0.5, 0, 0, 0, 0)
	}
	assert.InDelta(t, 5.0, c.Pitch(), 1e-5)
	assert.InDelta(t, math.Sin(5), c.Forward().Y(), 1e-5)
}

func TestProjectionFollowsAspect(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.01, 1000), c.ProjectionMatrix())

	c.SetAspect(2)
	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 2, 0.01, 1000), c.ProjectionMatrix())
	assert.Equal(t, c.ProjectionMatrix().Mul4(c.ViewMatrix()), c.ViewProjectionMatrix())
}

type fakeCursor struct {
	locked  bool
	centers int
	width   int
	height  int
}

func (f *fakeCursor) SetCursorLocked(locked bool) { f.locked = locked }
func (f *fakeCursor) CenterCursor()               { f.centers++ }

func (f *fakeCursor) Width() int {
	if f.width == 0 {
		return 800
	}
	return f.width
}

func (f *fakeCursor) Height() int {
	if f.height == 0 {
		return 600
	}
	return f.height
}

func TestControllerKeys(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController(c, WithMoveSpeed(0.5))

	cc.KeyDown(common.KeyW)
	cc.Update()
	cc.Update()
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, c.Position(), 1e-6)

	cc.KeyUp(common.KeyW)
	cc.KeyDown(common.KeySpace)
	cc.KeyDown(common.KeyD)
	cc.Update()
	assertVec3InDelta(t, mgl32.Vec3{0.5, 0.5, -1}, c.Position(), 1e-6)

	cc.KeyDown(common.KeyA)
	cc.KeyDown(common.KeyLeftShift)
	cc.Update()
	assertVec3InDelta(t, mgl32.Vec3{0.5, 0.5, -1}, c.Position(), 1e-6, "opposite keys cancel")
}

func TestControllerMouseLook(t *testing.T) {
	c := NewCamera()
	cursor := &fakeCursor{}
	cc := NewCameraController(c, WithCursor(cursor), WithMouseSensitivity(100))

	cc.MouseMove(500, 300)
	cc.Update()
	assert.Equal(t, float32(0), c.Yaw(), "mouse is ignored while unlocked")

	cc.KeyDown(common.KeyLeftControl)
	cc.KeyDown(common.KeyLeftControl) // key repeat does not toggle again
	assert.True(t, cc.MouseLocked())
	assert.True(t, cursor.locked)

	cc.MouseMove(500, 350)
	cc.Update()
	assert.InDelta(t, -1.0, c.Yaw(), 1e-6)
	assert.InDelta(t, -0.5, c.Pitch(), 1e-6, "moving down looks down")
	assert.Equal(t, 2, cursor.centers)

	cc.Update()
	assert.InDelta(t, -1.0, c.Yaw(), 1e-6, "offsets are consumed once")

	cc.KeyUp(common.KeyLeftControl)
	cc.KeyDown(common.KeyLeftControl)
	assert.False(t, cc.MouseLocked())
	assert.False(t, cursor.locked)
}

func TestControllerMouseAtCenterOfOddWindowDoesNotDrift(t *testing.T) {
	c := NewCamera()
	cursor := &fakeCursor{width: 801, height: 601}
	cc := NewCameraController(c, WithCursor(cursor), WithMouseSensitivity(100))
	cc.SetMouseLocked(true)

	for range 10 {
		cc.MouseMove(400.5, 300.5)
		cc.Update()
	}
	assert.Equal(t, float32(0), c.Yaw())
	assert.Equal(t, float32(0), c.Pitch())

	cc.MouseMove(450.5, 300.5)
	cc.Update()
	assert.InDelta(t, -0.5, c.Yaw(), 1e-6)
}
