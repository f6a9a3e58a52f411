package model

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/pkg/errors"
)

// Device is the subset of the GPU surface needed to upload and release a Model.
type Device interface {
	CreateVertexBuffer(data []float32, dynamic bool) (renderer.BufferHandle, error)
	DeleteVertexBuffer(buf renderer.BufferHandle)
}

// model is the implementation of the Model interface.
type model struct {
	name         string
	device       Device
	buffer       renderer.BufferHandle
	vertexCount  int32
	normalOffset int
	uvOffset     int
	hasNormals   bool
	hasUVs       bool
}

// Model defines a Geometry uploaded into a single GPU vertex buffer.
//
// A Model is shared by handle: any number of scene nodes may reference the same Model, and none
// of them owns it. The buffer holds the attribute blocks back to back, positions first, then
// normals, then UVs, so draws are non-indexed TRIANGLES over VertexCount vertices.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// VertexCount returns the number of vertices to draw.
	//
	// Returns:
	//   - int32: the vertex count
	VertexCount() int32

	// Buffer returns the backend vertex buffer holding the packed geometry.
	//
	// Returns:
	//   - renderer.BufferHandle: the vertex buffer
	Buffer() renderer.BufferHandle

	// HasNormals reports whether the buffer carries a normal block.
	//
	// Returns:
	//   - bool: true if normals were uploaded
	HasNormals() bool

	// HasUVs reports whether the buffer carries a UV block.
	//
	// Returns:
	//   - bool: true if texture coordinates were uploaded
	HasUVs() bool

	// Layout builds the attribute streams for a program's resolved locations.
	// Streams the model does not carry, or whose location is negative, are left out.
	//
	// Parameters:
	//   - position: the location of the position attribute
	//   - normal: the location of the normal attribute
	//   - uv: the location of the texture coordinate attribute
	//
	// Returns:
	//   - []renderer.VertexAttrib: the attribute layout to bind
	Layout(position, normal, uv int32) []renderer.VertexAttrib

	// Release deletes the vertex buffer. The Model must not be drawn afterwards.
	Release()
}

var _ Model = &model{}

// NewModel validates a Geometry and uploads it into a new static vertex buffer.
//
// Parameters:
//   - device: the backend that owns the buffer
//   - geometry: the triangle list to upload
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the uploaded model
//   - error: error if the geometry is invalid or the upload fails
func NewModel(device Device, geometry Geometry, options ...ModelBuilderOption) (Model, error) {
	if device == nil {
		panic("model: device must not be nil")
	}
	m := &model{device: device}
	for _, opt := range options {
		opt(m)
	}

	if err := geometry.Validate(); err != nil {
		return nil, errors.Wrapf(err, "model %s", m.name)
	}
	buf, err := device.CreateVertexBuffer(geometry.Data(), false)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s: upload", m.name)
	}

	m.buffer = buf
	m.vertexCount = int32(geometry.VertexCount())
	m.normalOffset = geometry.NormalOffset()
	m.uvOffset = geometry.UVOffset()
	m.hasNormals = geometry.HasNormals()
	m.hasUVs = geometry.HasUVs()
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) VertexCount() int32 {
	return m.vertexCount
}

func (m *model) Buffer() renderer.BufferHandle {
	return m.buffer
}

func (m *model) HasNormals() bool {
	return m.hasNormals
}

func (m *model) HasUVs() bool {
	return m.hasUVs
}

func (m *model) Layout(position, normal, uv int32) []renderer.VertexAttrib {
	attribs := make([]renderer.VertexAttrib, 0, 3)
	if position >= 0 {
		attribs = append(attribs, renderer.VertexAttrib{Location: position, Components: 3, Offset: 0})
	}
	if m.hasNormals && normal >= 0 {
		attribs = append(attribs, renderer.VertexAttrib{Location: normal, Components: 3, Offset: m.normalOffset})
	}
	if m.hasUVs && uv >= 0 {
		attribs = append(attribs, renderer.VertexAttrib{Location: uv, Components: 2, Offset: m.uvOffset})
	}
	return attribs
}

func (m *model) Release() {
	if m.buffer == 0 {
		return
	}
	m.device.DeleteVertexBuffer(m.buffer)
	m.buffer = 0
}
