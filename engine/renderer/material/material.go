package material

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformWriter uploads material uniforms to the current program.
type UniformWriter interface {
	SetUniformVec3(location int32, v mgl32.Vec3)
	SetUniformVec4(location int32, v mgl32.Vec4)
}

// Uniforms holds the uniform slots a Material writes to.
type Uniforms struct {
	// Color receives the RGB surface color (uMtlColor).
	Color int32
	// Constants receives (ambient, diffuse, specular, shininess) (uMtlCts).
	Constants int32
}

// material is the implementation of the Material interface.
type material struct {
	name      string
	color     mgl32.Vec3
	ambient   float32
	diffuse   float32
	specular  float32
	shininess float32
	texture   texture.Texture
}

// Material defines the surface description of a drawable node: a Phong-style RGB color with
// ambient, diffuse and specular coefficients, a shininess exponent, and an optional texture that
// the shader modulates the color with.
//
// Materials are shared by reference between nodes; changing one affects every node using it on
// the next render.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the RGB surface color.
	//
	// Returns:
	//   - mgl32.Vec3: the color
	Color() mgl32.Vec3

	// Constants retrieves the lighting constants packed as (ambient, diffuse, specular, shininess).
	//
	// Returns:
	//   - mgl32.Vec4: the packed constants
	Constants() mgl32.Vec4

	// Texture retrieves the texture sampled by the shader, or nil if the material is untextured.
	//
	// Returns:
	//   - texture.Texture: the texture, or nil
	Texture() texture.Texture

	// SetColor replaces the RGB surface color.
	//
	// Parameters:
	//   - color: the new color
	SetColor(color mgl32.Vec3)

	// SetTexture replaces the texture (nil removes it).
	//
	// Parameters:
	//   - tex: the new texture
	SetTexture(tex texture.Texture)

	// SendUniforms writes the color and packed constants to the given slots.
	//
	// Parameters:
	//   - w: the uniform writer bound to the active program
	//   - slots: the uniform locations to write
	SendUniforms(w UniformWriter, slots Uniforms)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:     mgl32.Vec3{1, 1, 1},
		ambient:   0.2,
		diffuse:   0.5,
		specular:  0.2,
		shininess: 50,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() mgl32.Vec3 {
	return m.color
}

func (m *material) Constants() mgl32.Vec4 {
	return mgl32.Vec4{m.ambient, m.diffuse, m.specular, m.shininess}
}

func (m *material) Texture() texture.Texture {
	return m.texture
}

func (m *material) SetColor(color mgl32.Vec3) {
	m.color = color
}

func (m *material) SetTexture(tex texture.Texture) {
	m.texture = tex
}

func (m *material) SendUniforms(w UniformWriter, slots Uniforms) {
	w.SetUniformVec3(slots.Color, m.color)
	w.SetUniformVec4(slots.Constants, m.Constants())
}
