package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the distance travelled per tick while a movement key is held.
//
// Parameters:
//   - speed: units per tick
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithMouseSensitivity sets how many pixels of mouse travel produce one radian of rotation.
//
// Parameters:
//   - pixelsPerRadian: the divisor applied to mouse offsets
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithMouseSensitivity(pixelsPerRadian float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = pixelsPerRadian
	}
}

// WithCursor attaches the window cursor used for mouse look.
//
// Parameters:
//   - cursor: the window cursor
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithCursor(cursor Cursor) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cursor = cursor
	}
}
