package loader

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that sets the backend the Loader uploads resources to.
//
// Parameters:
//   - r: the renderer backend instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r renderer.RendererBackend) LoaderBuilderOption {
	return func(l *loader) {
		l.renderer = r
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithPreProcessor is an option builder that sets the pre-processor applied to every program
// source loaded through the Loader.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - LoaderBuilderOption: a function that applies the pre-processor option to a loader
func WithPreProcessor(pp shader.PreProcessor) LoaderBuilderOption {
	return func(l *loader) {
		l.preProcessor = pp
	}
}

// WithDecodeWorkers is an option builder that sets how many goroutines decode images in parallel.
// Values below 1 are ignored.
//
// Parameters:
//   - n: the maximum number of decode workers
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithDecodeWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.decodeWorkers = n
		}
	}
}

// WithLogger is an option builder that sets the logger used by the Loader.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
