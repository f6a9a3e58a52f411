// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Decoding happens off the GL thread; the upload itself must run on it.
type TextureStagingData struct {
	// Name identifies the texture (usually its asset path).
	Name string
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// ImportedTexture represents encoded image bytes read from an asset source.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "Boule_8.png").
	Name string

	// Data contains the raw encoded image bytes (PNG/JPEG).
	Data []byte
}

// Decode decodes the texture to raw RGBA pixel data.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels and dimensions
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, errors.New("texture is nil")
	}
	if len(t.Data) == 0 {
		return TextureStagingData{}, errors.Errorf("texture %s has no data", t.Name)
	}

	img, _, err := image.Decode(bytes.NewReader(t.Data))
	if err != nil {
		return TextureStagingData{}, errors.Wrapf(err, "failed to decode texture %s", t.Name)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Name:   t.Name,
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
