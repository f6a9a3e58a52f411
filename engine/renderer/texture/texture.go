package texture

import (
	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/pkg/errors"
)

// Device is the subset of the GPU surface a Texture drives.
type Device interface {
	CreateTexture(staging common.TextureStagingData) (renderer.TextureHandle, error)
	DeleteTexture(tex renderer.TextureHandle)
	BindTexture(unit uint32, tex renderer.TextureHandle)
	UnbindTexture(unit uint32)
}

// Texture is a resident 2D texture sampled from unit 0.
type Texture interface {
	// Name returns the identifier the texture was created with.
	Name() string

	// Size returns the texture dimensions in pixels.
	Size() (width, height uint32)

	// Handle returns the backend texture handle.
	Handle() renderer.TextureHandle

	// Bind binds the texture to unit 0.
	Bind()

	// Unbind clears unit 0.
	Unbind()

	// Release deletes the backend texture. The Texture must not be used afterwards.
	Release()
}

type texture struct {
	device Device
	handle renderer.TextureHandle
	name   string
	width  uint32
	height uint32
}

var _ Texture = &texture{}

// NewTexture uploads decoded pixels to the device. It must run on the goroutine owning the graphics context.
//
// Parameters:
//   - device: the device receiving the upload
//   - staging: the decoded RGBA pixels
//
// Returns:
//   - Texture: the resident texture
//   - error: error if the device rejects the upload
func NewTexture(device Device, staging common.TextureStagingData) (Texture, error) {
	h, err := device.CreateTexture(staging)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload texture %s", staging.Name)
	}
	return &texture{
		device: device,
		handle: h,
		name:   staging.Name,
		width:  staging.Width,
		height: staging.Height,
	}, nil
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) Size() (uint32, uint32) {
	return t.width, t.height
}

func (t *texture) Handle() renderer.TextureHandle {
	return t.handle
}

func (t *texture) Bind() {
	t.device.BindTexture(0, t.handle)
}

func (t *texture) Unbind() {
	t.device.UnbindTexture(0)
}

func (t *texture) Release() {
	t.device.DeleteTexture(t.handle)
}
