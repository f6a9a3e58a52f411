package material

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the RGB surface color.
//
// Parameters:
//   - r, g, b: the color components
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(r, g, b float32) MaterialBuilderOption {
	return func(m *material) {
		m.color = mgl32.Vec3{r, g, b}
	}
}

// WithLighting is an option builder that sets the Phong lighting constants.
//
// Parameters:
//   - ambient: the ambient coefficient
//   - diffuse: the diffuse coefficient
//   - specular: the specular coefficient
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the lighting option to a material
func WithLighting(ambient, diffuse, specular, shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = ambient
		m.diffuse = diffuse
		m.specular = specular
		m.shininess = shininess
	}
}

// WithTexture is an option builder that sets the texture sampled by the shader.
//
// Parameters:
//   - tex: the texture (nil for none)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}
