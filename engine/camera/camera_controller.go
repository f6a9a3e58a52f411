package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
)

// Cursor is the window surface a controller needs to capture the mouse.
type Cursor interface {
	// SetCursorLocked hides the cursor and keeps it inside the window while locked.
	SetCursorLocked(locked bool)

	// CenterCursor warps the cursor to the middle of the window.
	CenterCursor()

	// Width returns the current window width in pixels.
	Width() int

	// Height returns the current window height in pixels.
	Height() int
}

// CameraController translates raw key and mouse events into per-tick Camera.Move deltas.
//
// Key state is tracked between events so held keys keep moving the camera every tick. While the
// mouse is locked, every mouse move is measured from the window center, accumulated, and the
// cursor is warped back to the center; the accumulated offsets become the next tick's yaw and
// pitch.
type CameraController interface {
	// KeyDown records a key press. LeftControl toggles the mouse lock.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	KeyDown(keyCode uint32)

	// KeyUp records a key release.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	KeyUp(keyCode uint32)

	// MouseMove records a cursor position in window pixels. Ignored unless the mouse is locked.
	//
	// Parameters:
	//   - x, y: the cursor position, sub-pixel precision kept
	MouseMove(x, y float64)

	// MouseLocked reports whether mouse look is active.
	//
	// Returns:
	//   - bool: true while the cursor is captured
	MouseLocked() bool

	// SetMouseLocked captures or releases the cursor.
	//
	// Parameters:
	//   - locked: true to capture
	SetMouseLocked(locked bool)

	// Update applies the input gathered since the previous call to the camera.
	// Should be called once per tick.
	Update()

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera
	Camera() Camera

	// MoveSpeed returns the distance travelled per tick while a movement key is held.
	//
	// Returns:
	//   - float32: units per tick
	MoveSpeed() float32

	// MouseSensitivity returns the number of pixels of mouse travel per radian of rotation.
	//
	// Returns:
	//   - float32: pixels per radian
	MouseSensitivity() float32
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	camera Camera
	cursor Cursor

	moveSpeed        float32
	mouseSensitivity float32

	held        map[uint32]bool
	mouseLocked bool
	mouseDX     float64
	mouseDY     float64
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a first-person controller for the given camera.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	if cam == nil {
		panic("camera: controller requires a camera")
	}
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		camera:           cam,
		moveSpeed:        0.08,
		mouseSensitivity: 100,
		held:             make(map[uint32]bool),
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) KeyDown(keyCode uint32) {
	cc.mu.Lock()
	wasHeld := cc.held[keyCode]
	cc.held[keyCode] = true
	cc.mu.Unlock()

	if keyCode == common.KeyLeftControl && !wasHeld {
		cc.SetMouseLocked(!cc.MouseLocked())
	}
}

func (cc *cameraControllerImpl) KeyUp(keyCode uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, keyCode)
}

func (cc *cameraControllerImpl) MouseMove(x, y float64) {
	cc.mu.Lock()
	if !cc.mouseLocked || cc.cursor == nil {
		cc.mu.Unlock()
		return
	}
	cx := float64(cc.cursor.Width()) / 2
	cy := float64(cc.cursor.Height()) / 2
	cc.mouseDX += x - cx
	cc.mouseDY += y - cy
	cursor := cc.cursor
	cc.mu.Unlock()

	cursor.CenterCursor()
}

func (cc *cameraControllerImpl) MouseLocked() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseLocked
}

func (cc *cameraControllerImpl) SetMouseLocked(locked bool) {
	cc.mu.Lock()
	cc.mouseLocked = locked
	cc.mouseDX, cc.mouseDY = 0, 0
	cursor := cc.cursor
	cc.mu.Unlock()

	if cursor == nil {
		return
	}
	cursor.SetCursorLocked(locked)
	if locked {
		cursor.CenterCursor()
	}
}

func (cc *cameraControllerImpl) Update() {
	cc.mu.Lock()
	axis := func(pos, neg uint32) float32 {
		var v float32
		if cc.held[pos] {
			v++
		}
		if cc.held[neg] {
			v--
		}
		return v * cc.moveSpeed
	}
	dForward := axis(common.KeyW, common.KeyS)
	dRight := axis(common.KeyD, common.KeyA)
	dUp := axis(common.KeySpace, common.KeyLeftShift)

	var dPitch, dYaw float32
	if cc.mouseSensitivity != 0 {
		dYaw = float32(-cc.mouseDX / float64(cc.mouseSensitivity))
		// window y grows downward
		dPitch = float32(-cc.mouseDY / float64(cc.mouseSensitivity))
	}
	cc.mouseDX, cc.mouseDY = 0, 0
	cc.mu.Unlock()

	cc.camera.Move(dPitch, dYaw, dForward, dRight, dUp)
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}
