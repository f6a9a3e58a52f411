package model

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOutward checks that every triangle winds counter-clockwise seen from the direction
// returned by outward for its centroid.
func assertOutward(t *testing.T, g Geometry, outward func(centroid mgl32.Vec3) mgl32.Vec3) {
	t.Helper()
	for i := 0; i < len(g.Positions); i += 3 {
		p0, p1, p2 := g.Positions[i], g.Positions[i+1], g.Positions[i+2]
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		if !assert.Greater(t, face.Dot(outward(centroid)), float32(0), "triangle %d winds inward", i/3) {
			return
		}
	}
}

func TestCube(t *testing.T) {
	g := Cube()
	require.NoError(t, g.Validate())
	assert.Equal(t, 36, g.VertexCount())
	assert.False(t, g.HasUVs())
	for _, p := range g.Positions {
		assert.InDelta(t, 0.8660254, p.Len(), 1e-6, "cube corners sit on the half-diagonal")
	}

	for i, p := range g.Positions {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, 0.5, abs(p[k]), 1e-6, "vertex %d is not a corner", i)
		}
		assert.InDelta(t, 1, g.Normals[i].Len(), 1e-6)
	}
	assertOutward(t, g, func(c mgl32.Vec3) mgl32.Vec3 { return c })
}

func TestSphere(t *testing.T) {
	g := Sphere(32, 32)
	require.NoError(t, g.Validate())
	assert.Equal(t, 32*62*3, g.VertexCount())
	assert.True(t, g.HasNormals())
	assert.True(t, g.HasUVs())

	for i, p := range g.Positions {
		assert.InDelta(t, 0.5, p.Len(), 1e-5)
		assert.InDelta(t, 0, p.Mul(2).Sub(g.Normals[i]).Len(), 1e-5, "normal is radial")
		uv := g.UVs[i]
		assert.True(t, uv[0] >= 0 && uv[0] <= 1 && uv[1] >= 0 && uv[1] <= 1)
	}
	assertOutward(t, g, func(c mgl32.Vec3) mgl32.Vec3 { return c })
}

func TestSphereClampsDegenerateCounts(t *testing.T) {
	g := Sphere(0, 0)
	require.NoError(t, g.Validate())
	assert.Equal(t, 3*2*3, g.VertexCount())
}

func TestCone(t *testing.T) {
	g := Cone(32, 0.1)
	require.NoError(t, g.Validate())
	assert.Equal(t, 32*6, g.VertexCount())

	for _, p := range g.Positions {
		r := mgl32.Vec2{p[0], p[1]}.Len()
		switch {
		case p[2] < 0:
			assert.InDelta(t, -0.5, p[2], 1e-6)
			assert.InDelta(t, 0.5, r, 1e-5)
		default:
			assert.InDelta(t, 0.5, p[2], 1e-6)
			assert.InDelta(t, 0.1, r, 1e-5)
		}
	}
	for _, n := range g.Normals {
		assert.InDelta(t, 1, n.Len(), 1e-5)
		assert.Greater(t, n[2], float32(0), "side faces lean toward the narrow end")
	}
	assertOutward(t, g, func(c mgl32.Vec3) mgl32.Vec3 { return mgl32.Vec3{c[0], c[1], 0} })
}

func TestGeometryValidate(t *testing.T) {
	tri := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	assert.Error(t, Geometry{}.Validate())
	assert.Error(t, Geometry{Positions: tri[:2]}.Validate())
	assert.Error(t, Geometry{Positions: tri, Normals: tri[:1]}.Validate())
	assert.Error(t, Geometry{Positions: tri, UVs: []mgl32.Vec2{{0, 0}}}.Validate())
	assert.NoError(t, Geometry{Positions: tri}.Validate())
}

func TestGeometryDataLayout(t *testing.T) {
	g := Geometry{
		Positions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
	}
	data := g.Data()
	require.Len(t, data, 9+9+6)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, data[:9])
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, data[9:18])
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, data[18:])
	assert.Equal(t, 36, g.NormalOffset())
	assert.Equal(t, 72, g.UVOffset())
}

func TestNewModel(t *testing.T) {
	rec := renderertest.NewRecorder()
	g := Sphere(8, 4)

	m, err := NewModel(rec, g, WithName("ball"))
	require.NoError(t, err)
	assert.Equal(t, "ball", m.Name())
	assert.Equal(t, int32(g.VertexCount()), m.VertexCount())
	assert.Equal(t, g.Data(), rec.Buffers[m.Buffer()])

	n := g.VertexCount()
	assert.Equal(t, []renderer.VertexAttrib{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 3, Offset: n * 12},
		{Location: 2, Components: 2, Offset: n * 24},
	}, m.Layout(0, 1, 2))
	assert.Equal(t, []renderer.VertexAttrib{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 2, Components: 2, Offset: n * 24},
	}, m.Layout(0, -1, 2), "inactive attributes are skipped")

	buf := m.Buffer()
	m.Release()
	m.Release()
	assert.NotContains(t, rec.Buffers, buf)
	assert.Equal(t, 1, rec.CallCount("DeleteVertexBuffer"))
}

func TestNewModelWithoutUVs(t *testing.T) {
	rec := renderertest.NewRecorder()
	m, err := NewModel(rec, Cube())
	require.NoError(t, err)
	assert.False(t, m.HasUVs())
	assert.Len(t, m.Layout(0, 1, 2), 2)
}

func TestNewModelRejectsInvalidGeometry(t *testing.T) {
	rec := renderertest.NewRecorder()
	_, err := NewModel(rec, Geometry{}, WithName("empty"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model empty")
	assert.Zero(t, rec.CallCount("CreateVertexBuffer"))
}

func encodeQuad(t *testing.T) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    &idx,
			Attributes: map[string]uint32{gltf.POSITION: pos, gltf.NORMAL: nrm, gltf.TEXCOORD_0: uv},
		}},
	})

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func TestLoadGLTF(t *testing.T) {
	fsys := fstest.MapFS{"meshes/quad.glb": {Data: encodeQuad(t)}}

	g, err := LoadGLTF(fsys, "meshes/quad.glb")
	require.NoError(t, err)
	require.Equal(t, 6, g.VertexCount())
	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}}, g.Positions)
	assert.Len(t, g.Normals, 6)
	assert.Equal(t, mgl32.Vec2{0, 0}, g.UVs[5])
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF(fstest.MapFS{}, "lamp.glb")
	assert.Error(t, err)
}

func TestGeometryFromDocumentWithoutMesh(t *testing.T) {
	_, err := GeometryFromDocument(gltf.NewDocument())
	assert.EqualError(t, err, "document has no triangle mesh")
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
