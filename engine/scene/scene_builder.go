package scene

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/light"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene via NewScene.
type SceneBuilderOption func(s *scene)

// WithLight is an option builder that sets the light sent to every draw.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneBuilderOption: a function that applies the light option to a scene
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.light = l
	}
}

// WithDefaultProgram is an option builder that sets the program used by nodes that do not set
// their own.
//
// Parameters:
//   - p: the default program
//
// Returns:
//   - SceneBuilderOption: a function that applies the default program option to a scene
func WithDefaultProgram(p shader.Program) SceneBuilderOption {
	return func(s *scene) {
		s.defaultProgram = p
	}
}

// WithLogger is an option builder that sets the logger used by the Scene.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - SceneBuilderOption: a function that applies the logger option to a scene
func WithLogger(logger *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
