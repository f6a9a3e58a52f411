package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/light"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rec     *renderertest.Recorder
	program shader.Program
	cube    model.Model
	mtl     material.Material
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	rec := renderertest.NewRecorder()
	p, err := shader.NewProgram(rec, "color", "vs", "fs")
	require.NoError(t, err)
	cube, err := model.NewModel(rec, model.Cube(), model.WithName("cube"))
	require.NoError(t, err)
	return fixture{rec: rec, program: p, cube: cube, mtl: material.NewMaterial()}
}

func (f fixture) drawable(name string, options ...NodeBuilderOption) Node {
	return NewNode(append([]NodeBuilderOption{WithName(name), WithModel(f.cube), WithMaterial(f.mtl)}, options...)...)
}

func assertMat4(t *testing.T, expected, actual mgl32.Mat4, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, expected.ApproxEqualThreshold(actual, 1e-5), append([]any{"expected %v, got %v", expected, actual}, msgAndArgs...)...)
}

func TestWalkIsPreOrder(t *testing.T) {
	f := newFixture(t)
	s := NewScene(f.rec)

	require.NoError(t, s.AddPart("A", NewNode(WithName("A"))))
	require.NoError(t, s.AddPartTo("B", "A", NewNode(WithName("B"))))
	require.NoError(t, s.AddPartTo("D", "B", NewNode(WithName("D"))))
	require.NoError(t, s.AddPartTo("C", "A", NewNode(WithName("C"))))
	require.NoError(t, s.AddPart("E", NewNode(WithName("E"))))

	var visited []string
	s.Walk(func(n Node, _, _ mgl32.Mat4) {
		visited = append(visited, n.Name())
	})
	assert.Equal(t, []string{"root", "A", "B", "D", "C", "E"}, visited)
}

func TestCompositionExcludesParentLocal(t *testing.T) {
	f := newFixture(t)
	s := NewScene(f.rec)

	translate := mgl32.Translate3D(1, 0, 0)
	scale := mgl32.Scale3D(2, 2, 2)
	require.NoError(t, s.AddPart("A", NewNode(WithPropagated(translate), WithLocal(scale))))
	require.NoError(t, s.AddPartTo("B", "A", NewNode(WithPropagated(mgl32.Translate3D(0, 1, 0)))))

	got := map[string][2]mgl32.Mat4{}
	a, _ := s.Part("A")
	b, _ := s.Part("B")
	s.Walk(func(n Node, accumulated, model mgl32.Mat4) {
		switch n {
		case a:
			got["A"] = [2]mgl32.Mat4{accumulated, model}
		case b:
			got["B"] = [2]mgl32.Mat4{accumulated, model}
		}
	})

	assertMat4(t, translate, got["A"][0])
	assertMat4(t, translate.Mul4(scale), got["A"][1])
	assertMat4(t, mgl32.Translate3D(1, 1, 0), got["B"][0], "B's accumulated excludes A's scale")
	assertMat4(t, mgl32.Translate3D(1, 1, 0), got["B"][1])

	origin := got["B"][1].Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{1, 1, 0, 1}, origin)
}

func TestRenderDrawsAndUploadsUniforms(t *testing.T) {
	f := newFixture(t)
	l := light.NewLight(light.WithPosition(0, 8.2, -10), light.WithColor(1, 0.9, 0.7))
	s := NewScene(f.rec, WithDefaultProgram(f.program), WithLight(l))

	local := mgl32.Scale3D(8, 0.5, 4)
	propagated := mgl32.Translate3D(0, 1.75, 0)
	require.NoError(t, s.AddPart("Table", f.drawable("Table", WithPropagated(propagated), WithLocal(local))))

	vp := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.01, 1000)
	ctx := RenderContext{ViewProjection: vp, CameraPosition: mgl32.Vec3{0, 2, 5}}
	s.Render(ctx)

	require.Len(t, f.rec.Draws, 1)
	assert.Equal(t, 1, s.DrawCount())
	d := f.rec.Draws[0]
	assert.Equal(t, f.program.Handle(), d.Program)
	assert.Equal(t, f.cube.Buffer(), d.Buffer)
	assert.Equal(t, int32(36), d.Count)
	assert.Equal(t, f.cube.Layout(
		f.program.Attrib(shader.AttribPosition),
		f.program.Attrib(shader.AttribNormal),
		f.program.Attrib(shader.AttribUV),
	), d.Attribs)

	model := propagated.Mul4(local)
	v, ok := d.Uniform(f.rec, shader.UniformModel)
	require.True(t, ok)
	assertMat4(t, model, v.(mgl32.Mat4))
	v, _ = d.Uniform(f.rec, shader.UniformMVP)
	assertMat4(t, vp.Mul4(model), v.(mgl32.Mat4))
	v, _ = d.Uniform(f.rec, shader.UniformInvModel3x3)
	assert.True(t, common.NormalMatrix(model).ApproxEqualThreshold(v.(mgl32.Mat3), 1e-5))
	v, _ = d.Uniform(f.rec, shader.UniformMtlCts)
	assert.Equal(t, f.mtl.Constants(), v)
	v, _ = d.Uniform(f.rec, shader.UniformLightPos)
	assert.Equal(t, mgl32.Vec3{0, 8.2, -10}, v)
	v, _ = d.Uniform(f.rec, shader.UniformCameraPosition)
	assert.Equal(t, mgl32.Vec3{0, 2, 5}, v)
	assert.Zero(t, d.Texture)
}

func TestRenderBindsMaterialTexture(t *testing.T) {
	f := newFixture(t)
	tex, err := texture.NewTexture(f.rec, common.TextureStagingData{Name: "ball", Pixels: make([]byte, 4), Width: 1, Height: 1})
	require.NoError(t, err)
	s := NewScene(f.rec, WithDefaultProgram(f.program))
	require.NoError(t, s.AddPart("Ball", f.drawable("Ball", WithMaterial(material.Ball(tex)))))

	s.Render(RenderContext{ViewProjection: mgl32.Ident4()})

	require.Len(t, f.rec.Draws, 1)
	assert.Equal(t, tex.Handle(), f.rec.Draws[0].Texture)
	v, ok := f.rec.Draws[0].Uniform(f.rec, shader.UniformTexture)
	require.True(t, ok)
	assert.Equal(t, int32(0), v)
	assert.Equal(t, 1, f.rec.CallCount("UnbindTexture"), "texture is unbound after the draw")
}

func TestRenderSkipsIncompleteNodesButVisitsChildren(t *testing.T) {
	f := newFixture(t)
	other, err := shader.NewProgram(f.rec, "texture", "vs", "fs")
	require.NoError(t, err)
	s := NewScene(f.rec, WithDefaultProgram(f.program))

	require.NoError(t, s.AddPart("Group", NewNode(WithPropagated(mgl32.Translate3D(0, 0, -10)))))
	require.NoError(t, s.AddPartTo("NoMaterial", "Group", NewNode(WithModel(f.cube))))
	require.NoError(t, s.AddPartTo("Leaf", "NoMaterial", f.drawable("Leaf")))
	require.NoError(t, s.AddPartTo("Override", "Group", f.drawable("Override", WithProgram(other))))

	s.Render(RenderContext{ViewProjection: mgl32.Ident4()})

	require.Len(t, f.rec.Draws, 2)
	assert.Equal(t, f.program.Handle(), f.rec.Draws[0].Program)
	assert.Equal(t, other.Handle(), f.rec.Draws[1].Program)
	v, _ := f.rec.Draws[0].Uniform(f.rec, shader.UniformModel)
	assertMat4(t, mgl32.Translate3D(0, 0, -10), v.(mgl32.Mat4), "grouping transforms still apply")

	s.SetDefaultProgram(nil)
	f.rec.Reset()
	s.Render(RenderContext{ViewProjection: mgl32.Ident4()})
	assert.Len(t, f.rec.Draws, 1, "nodes without any program draw nothing")
	assert.Equal(t, 1, s.DrawCount())
}

func TestPartErrors(t *testing.T) {
	f := newFixture(t)
	s := NewScene(f.rec)
	table := NewNode(WithName("Table"))
	require.NoError(t, s.AddPart("Table", table))

	_, err := s.Part("Chair")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.ErrorIs(t, s.AddPartTo("Leg", "Chair", NewNode()), ErrNodeNotFound)
	assert.ErrorIs(t, s.PartSetMaterial("Chair", f.mtl), ErrNodeNotFound)
	assert.ErrorIs(t, s.PartSetMatrices("Chair", mgl32.Ident4(), mgl32.Ident4()), ErrNodeNotFound)
	assert.ErrorIs(t, s.PartSetLocal("Chair", mgl32.Ident4()), ErrNodeNotFound)
	assert.ErrorIs(t, s.PartSetPropagated("Chair", mgl32.Ident4()), ErrNodeNotFound)
	assert.Equal(t, []string{"Table"}, s.Parts(), "failed lookups never create parts")

	assert.ErrorIs(t, s.AddPart("Table", NewNode()), ErrDuplicatePart)
	assert.ErrorIs(t, s.AddPart("Other", table), ErrNodeOwned)
	assert.ErrorIs(t, s.AddPartTo("Root", "Table", s.Root()), ErrNodeOwned)
	assert.Len(t, table.Children(), 0)
}

func TestAddChildRejectsCycles(t *testing.T) {
	a, b := NewNode(WithName("a")), NewNode(WithName("b"))
	assert.ErrorIs(t, a.AddChild(a), ErrNodeOwned)

	require.NoError(t, a.AddChild(b))
	assert.ErrorIs(t, b.AddChild(a), ErrNodeOwned)
	assert.Equal(t, a, b.Parent())
	assert.Nil(t, a.Parent())
	assert.Error(t, a.AddChild(nil))
}

func TestPartSetMatricesIsolation(t *testing.T) {
	f := newFixture(t)
	s := NewScene(f.rec)
	require.NoError(t, s.AddPart("Room", NewNode()))
	require.NoError(t, s.AddPartTo("Table", "Room", NewNode(WithPropagated(mgl32.Translate3D(0, 1, 0)))))
	require.NoError(t, s.AddPartTo("Leg", "Table", NewNode()))
	require.NoError(t, s.AddPartTo("Chair", "Room", NewNode(WithPropagated(mgl32.Translate3D(3, 0, 0)))))

	snapshot := func() map[string][2]mgl32.Mat4 {
		out := map[string][2]mgl32.Mat4{}
		for _, name := range s.Parts() {
			n, err := s.Part(name)
			require.NoError(t, err)
			out[name] = [2]mgl32.Mat4{n.Propagated(), n.Local()}
		}
		return out
	}
	before := snapshot()

	m := mgl32.HomogRotate3DY(0.5)
	require.NoError(t, s.PartSetMatrices("Table", m, m))

	after := snapshot()
	assert.Equal(t, [2]mgl32.Mat4{m, m}, after["Table"])
	for _, name := range []string{"Room", "Leg", "Chair"} {
		assert.Equal(t, before[name], after[name], name)
	}

	require.NoError(t, s.PartSetLocal("Table", mgl32.Ident4()))
	require.NoError(t, s.PartSetPropagated("Chair", mgl32.Ident4()))
	table, _ := s.Part("Table")
	assert.Equal(t, m, table.Propagated())
	assert.Equal(t, mgl32.Ident4(), table.Local())
}

func TestPartSetMaterial(t *testing.T) {
	f := newFixture(t)
	s := NewScene(f.rec)
	require.NoError(t, s.AddPart("Wall", NewNode()))

	wall := material.Wall()
	require.NoError(t, s.PartSetMaterial("Wall", wall))
	n, err := s.Part("Wall")
	require.NoError(t, err)
	assert.Equal(t, wall, n.Material())
}

func TestSetViewRefreshesLight(t *testing.T) {
	f := newFixture(t)
	l := light.NewLight(light.WithPosition(1, 2, 3))
	s := NewScene(f.rec, WithLight(l))

	view := mgl32.Translate3D(0, 0, -5)
	s.SetView(view)
	assert.Equal(t, view, s.View())
	assert.Equal(t, mgl32.Vec3{1, 2, -2}, l.CamSpacePosition())
}
