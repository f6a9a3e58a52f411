package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
)

// loaderBackend defines the generic interface for reading mesh files from an fs.FS.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load reads a mesh file and returns its geometry.
	//
	// Parameters:
	//   - fsys: the filesystem holding the asset
	//   - path: the slash-separated path inside fsys
	//
	// Returns:
	//   - model.Geometry: the de-indexed triangle list
	//   - error: error if loading fails
	Load(fsys fs.FS, path string) (model.Geometry, error)
}
