package model

import (
	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// floatSize is the size in bytes of one float32 component.
const floatSize = 4

// Geometry is a non-indexed triangle list held in CPU memory.
//
// Every three consecutive vertices form one triangle. Normals and UVs are optional; when present
// they must carry exactly one entry per position.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
}

// VertexCount returns the number of vertices in the geometry.
func (g Geometry) VertexCount() int {
	return len(g.Positions)
}

// HasNormals reports whether the geometry carries per-vertex normals.
func (g Geometry) HasNormals() bool {
	return len(g.Normals) > 0
}

// HasUVs reports whether the geometry carries per-vertex texture coordinates.
func (g Geometry) HasUVs() bool {
	return len(g.UVs) > 0
}

// Validate checks that the geometry is a non-empty triangle list with matching attribute streams.
//
// Returns:
//   - error: error describing the first inconsistency found, or nil
func (g Geometry) Validate() error {
	n := len(g.Positions)
	if n == 0 {
		return errors.New("geometry has no positions")
	}
	if n%3 != 0 {
		return errors.Errorf("geometry has %d positions, not a multiple of 3", n)
	}
	if g.HasNormals() && len(g.Normals) != n {
		return errors.Errorf("geometry has %d normals for %d positions", len(g.Normals), n)
	}
	if g.HasUVs() && len(g.UVs) != n {
		return errors.Errorf("geometry has %d uvs for %d positions", len(g.UVs), n)
	}
	return nil
}

// NormalOffset returns the byte offset of the normal block in the packed buffer.
func (g Geometry) NormalOffset() int {
	return len(g.Positions) * 3 * floatSize
}

// UVOffset returns the byte offset of the UV block in the packed buffer.
func (g Geometry) UVOffset() int {
	return g.NormalOffset() + len(g.Normals)*3*floatSize
}

// Data packs the geometry into one float slice laid out as [positions][normals][uvs].
//
// Returns:
//   - []float32: the packed vertex data
func (g Geometry) Data() []float32 {
	out := make([]float32, 0, len(g.Positions)*3+len(g.Normals)*3+len(g.UVs)*2)
	out = append(out, common.Float32s(g.Positions)...)
	out = append(out, common.Float32s(g.Normals)...)
	out = append(out, common.Float32s(g.UVs)...)
	return out
}

