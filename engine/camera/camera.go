package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// worldUp is the fixed up axis the camera orbits its yaw around.
var worldUp = mgl32.Vec3{0, 1, 0}

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	pitch    float32
	yaw      float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
}

// Camera defines a first-person camera driven by incremental deltas.
//
// Pitch and yaw accumulate without bounds; yaw 0 looks down -Z. The view matrix is derived
// state and only changes through Move, while the projection matrix only changes through the
// perspective setters.
type Camera interface {
	// Move applies one frame of input: pitch and yaw are added to the accumulated angles, then the
	// position is translated along the new forward, right and world-up axes. All-zero deltas leave
	// every field bit-identical.
	//
	// Parameters:
	//   - dPitch: pitch change in radians
	//   - dYaw: yaw change in radians
	//   - dForward: distance along the forward axis
	//   - dRight: distance along the right axis
	//   - dUp: distance along world up
	Move(dPitch, dYaw, dForward, dRight, dUp float32)

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Pitch returns the accumulated pitch in radians.
	//
	// Returns:
	//   - float32: the pitch angle
	Pitch() float32

	// Yaw returns the accumulated yaw in radians.
	//
	// Returns:
	//   - float32: the yaw angle
	Yaw() float32

	// Forward returns the unit view direction derived from pitch and yaw.
	//
	// Returns:
	//   - mgl32.Vec3: the forward axis
	Forward() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes the projection.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin looking down -Z with a 45 degree perspective.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    mgl32.DegToRad(45),
		aspect: 800.0 / 600.0,
		near:   0.01,
		far:    1000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateView()
	c.updateProjection()
	return c
}

func (c *cameraImpl) Move(dPitch, dYaw, dForward, dRight, dUp float32) {
	if dPitch == 0 && dYaw == 0 && dForward == 0 && dRight == 0 && dUp == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pitch += dPitch
	c.yaw += dYaw

	forward := c.forward()
	right := forward.Cross(worldUp)
	if l := right.Len(); l > 0 {
		right = right.Mul(1 / l)
	}

	c.position = c.position.
		Add(forward.Mul(dForward)).
		Add(right.Mul(dRight)).
		Add(worldUp.Mul(dUp))
	c.updateView()
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix.Mul4(c.viewMatrix)
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateProjection()
}

// forward computes the view direction from pitch and yaw. Caller must hold the mutex.
func (c *cameraImpl) forward() mgl32.Vec3 {
	sp, cp := math.Sincos(float64(c.pitch))
	sy, cy := math.Sincos(float64(c.yaw))
	return mgl32.Vec3{
		float32(-cp * sy),
		float32(sp),
		float32(-cp * cy),
	}
}

// updateView recalculates the view matrix from position, pitch and yaw. Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	c.viewMatrix = mgl32.LookAtV(c.position, c.position.Add(c.forward()), worldUp)
}

// updateProjection recalculates the projection matrix. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}
