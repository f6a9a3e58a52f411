package model

import (
	"io/fs"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF decodes a .gltf or .glb file and extracts its first mesh as a Geometry.
// External buffers are resolved relative to the file's directory inside fsys.
//
// Parameters:
//   - fsys: the filesystem holding the asset and its buffers
//   - name: the slash-separated path of the asset inside fsys
//
// Returns:
//   - Geometry: the de-indexed triangle list
//   - error: error if the file cannot be decoded or holds no triangle mesh
func LoadGLTF(fsys fs.FS, name string) (Geometry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "gltf %s", name)
	}
	defer f.Close()

	dir, err := fs.Sub(fsys, path.Dir(name))
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "gltf %s", name)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(f, dir).Decode(doc); err != nil {
		return Geometry{}, errors.Wrapf(err, "gltf %s: decode", name)
	}
	g, err := GeometryFromDocument(doc)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "gltf %s", name)
	}
	return g, nil
}

// GeometryFromDocument extracts the first triangle primitive of the first mesh in a decoded
// document. Indexed primitives are expanded so the result can be drawn without an index buffer.
//
// Parameters:
//   - doc: the decoded glTF document
//
// Returns:
//   - Geometry: the de-indexed triangle list
//   - error: error if no usable primitive exists or an accessor cannot be read
func GeometryFromDocument(doc *gltf.Document) (Geometry, error) {
	prim, err := firstTrianglePrimitive(doc)
	if err != nil {
		return Geometry{}, err
	}

	posAcc, err := accessor(doc, prim.Attributes, gltf.POSITION)
	if err != nil {
		return Geometry{}, err
	}
	if posAcc == nil {
		return Geometry{}, errors.New("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return Geometry{}, errors.Wrap(err, "read positions")
	}

	var normals [][3]float32
	if acc, err := accessor(doc, prim.Attributes, gltf.NORMAL); err != nil {
		return Geometry{}, err
	} else if acc != nil {
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return Geometry{}, errors.Wrap(err, "read normals")
		}
	}

	var uvs [][2]float32
	if acc, err := accessor(doc, prim.Attributes, gltf.TEXCOORD_0); err != nil {
		return Geometry{}, err
	} else if acc != nil {
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return Geometry{}, errors.Wrap(err, "read uvs")
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if int(*prim.Indices) >= len(doc.Accessors) {
			return Geometry{}, errors.Errorf("index accessor %d out of range", *prim.Indices)
		}
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return Geometry{}, errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	g := Geometry{Positions: make([]mgl32.Vec3, 0, len(indices))}
	if len(normals) == len(positions) {
		g.Normals = make([]mgl32.Vec3, 0, len(indices))
	}
	if len(uvs) == len(positions) {
		g.UVs = make([]mgl32.Vec2, 0, len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return Geometry{}, errors.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
		g.Positions = append(g.Positions, mgl32.Vec3(positions[idx]))
		if g.Normals != nil {
			g.Normals = append(g.Normals, mgl32.Vec3(normals[idx]))
		}
		if g.UVs != nil {
			g.UVs = append(g.UVs, mgl32.Vec2(uvs[idx]))
		}
	}
	return g, g.Validate()
}

func firstTrianglePrimitive(doc *gltf.Document) (*gltf.Primitive, error) {
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode == gltf.PrimitiveTriangles {
				return prim, nil
			}
		}
	}
	return nil, errors.New("document has no triangle mesh")
}

// accessor returns nil without error when the attribute is absent.
func accessor(doc *gltf.Document, attrs map[string]uint32, name string) (*gltf.Accessor, error) {
	idx, ok := attrs[name]
	if !ok {
		return nil, nil
	}
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("%s accessor %d out of range", name, idx)
	}
	return doc.Accessors[idx], nil
}
