package light

import (
	"github.com/go-gl/mathgl/mgl32"
)

// UniformWriter uploads vec3 uniforms to the current program.
type UniformWriter interface {
	SetUniformVec3(location int32, v mgl32.Vec3)
}

// Uniforms holds the uniform slots a Light writes to. Slots are resolved from the active
// program by the caller; a negative slot is skipped by the writer.
type Uniforms struct {
	Position int32
	Color    int32
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	position mgl32.Vec3
	color    mgl32.Vec3
	camSpace mgl32.Vec3
}

// Light defines a point light source with a world-space position and an RGB color.
//
// The light also caches its position in camera space. The cache is only recomputed by SetView,
// so it must be refreshed each frame after the camera moves and before anything reads it
// (the lens flare projects it to screen space).
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Color returns the RGB color of the light, each component in [0, 1].
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// CamSpacePosition returns the position cached by the last SetView call.
	//
	// Returns:
	//   - mgl32.Vec3: the camera-space position
	CamSpacePosition() mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	// The camera-space cache is not updated until the next SetView.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light. Components are clamped to [0, 1].
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetView recomputes the camera-space position as view * (position, 1).
	//
	// Parameters:
	//   - view: the camera's view matrix
	SetView(view mgl32.Mat4)

	// SendUniforms writes the world position and color to the given slots.
	//
	// Parameters:
	//   - w: the uniform writer bound to the active program
	//   - slots: the uniform locations to write
	SendUniforms(w UniformWriter, slots Uniforms)
}

var _ Light = &lightImpl{}

// NewLight creates a new white point light at the origin with any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		color: mgl32.Vec3{1, 1, 1},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.camSpace = l.position
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) CamSpacePosition() mgl32.Vec3 {
	return l.camSpace
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = clampColor(r, g, b)
}

func (l *lightImpl) SetView(view mgl32.Mat4) {
	l.camSpace = view.Mul4x1(l.position.Vec4(1)).Vec3()
}

func (l *lightImpl) SendUniforms(w UniformWriter, slots Uniforms) {
	w.SetUniformVec3(slots.Position, l.position)
	w.SetUniformVec3(slots.Color, l.color)
}
