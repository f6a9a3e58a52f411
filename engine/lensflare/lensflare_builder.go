package lensflare

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"go.uber.org/zap"
)

// LensFlareBuilderOption is a functional option for configuring a LensFlare via NewLensFlare.
type LensFlareBuilderOption func(*lensFlare)

// WithElement is an option builder that appends one textured quad to the flare chain.
//
// Parameters:
//   - tex: the element texture
//   - scale: the quad width in NDC units
//
// Returns:
//   - LensFlareBuilderOption: a function that appends the element to a lens flare
func WithElement(tex texture.Texture, scale float32) LensFlareBuilderOption {
	return func(f *lensFlare) {
		f.elements = append(f.elements, Element{Texture: tex, Scale: scale})
	}
}

// WithElements is an option builder that appends several quads to the flare chain, in order.
func WithElements(elements ...Element) LensFlareBuilderOption {
	return func(f *lensFlare) {
		f.elements = append(f.elements, elements...)
	}
}

// WithCutoff is an option builder that sets the NDC distance at which the flare disappears.
// Non-positive values are ignored.
//
// Parameters:
//   - cutoff: the fade-out distance from the screen center
//
// Returns:
//   - LensFlareBuilderOption: a function that applies the cutoff option to a lens flare
func WithCutoff(cutoff float32) LensFlareBuilderOption {
	return func(f *lensFlare) {
		if cutoff > 0 {
			f.cutoff = cutoff
		}
	}
}

// WithProbeSize is an option builder that sets the NDC width of the occlusion probe quad.
// Non-positive values are ignored.
func WithProbeSize(size float32) LensFlareBuilderOption {
	return func(f *lensFlare) {
		if size > 0 {
			f.probeSize = size
		}
	}
}

// WithLogger is an option builder that sets the logger used by the LensFlare.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - LensFlareBuilderOption: a function that applies the logger option to a lens flare
func WithLogger(logger *zap.Logger) LensFlareBuilderOption {
	return func(f *lensFlare) {
		if logger != nil {
			f.logger = logger
		}
	}
}
