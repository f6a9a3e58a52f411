package scene

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/light"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrNodeNotFound is returned when a part name is not registered in the Scene.
	ErrNodeNotFound = errors.New("scene: node not found")

	// ErrDuplicatePart is returned when a part name is already registered in the Scene.
	ErrDuplicatePart = errors.New("scene: duplicate part name")

	// ErrNodeOwned is returned when attaching a node that already has an owner, or that would
	// make the tree cyclic.
	ErrNodeOwned = errors.New("scene: node already owned")
)

// RenderContext carries the per-frame inputs of a traversal. It is passed explicitly rather
// than kept in shared state.
type RenderContext struct {
	// ViewProjection is projection * view for the current camera.
	ViewProjection mgl32.Mat4
	// CameraPosition is the world-space eye position.
	CameraPosition mgl32.Vec3
}

// WalkFunc is called for every node of a traversal with the node's accumulated and model matrices.
type WalkFunc func(n Node, accumulated, model mgl32.Mat4)

// scene is the implementation of the Scene interface.
type scene struct {
	r      renderer.RendererBackend
	logger *zap.Logger

	root  *node
	parts map[string]Node

	light          light.Light
	view           mgl32.Mat4
	defaultProgram shader.Program

	lastDraws int
}

// Scene defines the public-facing interface for a hierarchical, name-indexed drawable tree.
//
// The Scene owns its root node, which is a pure transform anchor and is never drawn. Parts are
// registered under unique names for later mutation; the name index holds non-owning references
// into the tree. Rendering and mutation must happen on the goroutine owning the graphics context;
// edits made between frames take effect on the next Render.
type Scene interface {
	// Root returns the anchor node every part hangs from.
	//
	// Returns:
	//   - Node: the root node
	Root() Node

	// AddPart attaches a node to the root and registers it under name.
	//
	// Parameters:
	//   - name: the unique part name
	//   - n: the node to attach
	//
	// Returns:
	//   - error: ErrDuplicatePart if the name is taken, ErrNodeOwned if n already has an owner
	AddPart(name string, n Node) error

	// AddPartTo attaches a node to a registered part and registers it under name.
	//
	// Parameters:
	//   - name: the unique part name
	//   - parent: the name of the part to attach to
	//   - n: the node to attach
	//
	// Returns:
	//   - error: ErrNodeNotFound if parent is unknown, ErrDuplicatePart if name is taken,
	//     ErrNodeOwned if n already has an owner
	AddPartTo(name, parent string, n Node) error

	// Part looks up a registered node.
	//
	// Parameters:
	//   - name: the part name
	//
	// Returns:
	//   - Node: the registered node
	//   - error: ErrNodeNotFound if the name is unknown
	Part(name string) (Node, error)

	// Parts returns every registered part name, sorted.
	//
	// Returns:
	//   - []string: the part names
	Parts() []string

	// PartSetMaterial replaces the material of a registered node.
	//
	// Parameters:
	//   - name: the part name
	//   - m: the new material
	//
	// Returns:
	//   - error: ErrNodeNotFound if the name is unknown
	PartSetMaterial(name string, m material.Material) error

	// PartSetMatrices replaces both matrices of a registered node.
	//
	// Parameters:
	//   - name: the part name
	//   - propagated: the matrix composed into the part's subtree
	//   - local: the matrix applied to the part's own draw only
	//
	// Returns:
	//   - error: ErrNodeNotFound if the name is unknown
	PartSetMatrices(name string, propagated, local mgl32.Mat4) error

	// PartSetLocal replaces the local matrix of a registered node.
	//
	// Parameters:
	//   - name: the part name
	//   - m: the matrix applied to the part's own draw only
	//
	// Returns:
	//   - error: ErrNodeNotFound if the name is unknown
	PartSetLocal(name string, m mgl32.Mat4) error

	// PartSetPropagated replaces the propagated matrix of a registered node.
	//
	// Parameters:
	//   - name: the part name
	//   - m: the matrix composed into the part's subtree
	//
	// Returns:
	//   - error: ErrNodeNotFound if the name is unknown
	PartSetPropagated(name string, m mgl32.Mat4) error

	// Light returns the light sent to every draw.
	Light() light.Light

	// SetLight replaces the light sent to every draw.
	SetLight(l light.Light)

	// View returns the view matrix last passed to SetView.
	View() mgl32.Mat4

	// SetView stores the camera's view matrix and refreshes the light's camera-space position.
	//
	// Parameters:
	//   - view: the camera view matrix for this frame
	SetView(view mgl32.Mat4)

	// DefaultProgram returns the program used by nodes that do not set their own.
	DefaultProgram() shader.Program

	// SetDefaultProgram replaces the program used by nodes that do not set their own.
	SetDefaultProgram(p shader.Program)

	// Render traverses the tree in pre-order and draws every node that has a mesh, a material
	// and a program. Nodes missing any of these draw nothing but their children are still visited.
	//
	// Parameters:
	//   - ctx: the per-frame camera inputs
	Render(ctx RenderContext)

	// Walk runs the same traversal as Render without drawing, root included.
	//
	// Parameters:
	//   - fn: called with every node and its accumulated and model matrices
	Walk(fn WalkFunc)

	// DrawCount returns the number of draws issued by the most recent Render.
	DrawCount() int
}

var _ Scene = &scene{}

// NewScene creates an empty Scene drawing through the given renderer backend.
// The renderer is required and NewScene panics if it is nil.
//
// Parameters:
//   - r: the renderer backend to draw with (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(r renderer.RendererBackend, options ...SceneBuilderOption) Scene {
	if r == nil {
		panic("scene: NewScene requires a non-nil renderer")
	}

	root := NewNode(WithName("root")).(*node)
	root.owned = true

	s := &scene{
		r:      r,
		logger: zap.NewNop(),
		root:   root,
		parts:  make(map[string]Node),
		view:   mgl32.Ident4(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) AddPart(name string, n Node) error {
	return s.attach(name, s.root, n)
}

func (s *scene) AddPartTo(name, parent string, n Node) error {
	p, err := s.Part(parent)
	if err != nil {
		return err
	}
	return s.attach(name, p, n)
}

func (s *scene) attach(name string, parent, n Node) error {
	if _, ok := s.parts[name]; ok {
		return errors.Wrapf(ErrDuplicatePart, "part %q", name)
	}
	if err := parent.AddChild(n); err != nil {
		return errors.Wrapf(err, "part %q", name)
	}
	s.parts[name] = n
	s.logger.Debug("part added", zap.String("name", name), zap.String("parent", parent.Name()))
	return nil
}

func (s *scene) Part(name string) (Node, error) {
	n, ok := s.parts[name]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "part %q", name)
	}
	return n, nil
}

func (s *scene) Parts() []string {
	names := make([]string, 0, len(s.parts))
	for name := range s.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *scene) PartSetMaterial(name string, m material.Material) error {
	n, err := s.Part(name)
	if err != nil {
		return err
	}
	n.SetMaterial(m)
	return nil
}

func (s *scene) PartSetMatrices(name string, propagated, local mgl32.Mat4) error {
	n, err := s.Part(name)
	if err != nil {
		return err
	}
	n.SetMatrices(propagated, local)
	return nil
}

func (s *scene) PartSetLocal(name string, m mgl32.Mat4) error {
	n, err := s.Part(name)
	if err != nil {
		return err
	}
	n.SetLocal(m)
	return nil
}

func (s *scene) PartSetPropagated(name string, m mgl32.Mat4) error {
	n, err := s.Part(name)
	if err != nil {
		return err
	}
	n.SetPropagated(m)
	return nil
}

func (s *scene) Light() light.Light {
	return s.light
}

func (s *scene) SetLight(l light.Light) {
	s.light = l
}

func (s *scene) View() mgl32.Mat4 {
	return s.view
}

func (s *scene) SetView(view mgl32.Mat4) {
	s.view = view
	if s.light != nil {
		s.light.SetView(view)
	}
}

func (s *scene) DefaultProgram() shader.Program {
	return s.defaultProgram
}

func (s *scene) SetDefaultProgram(p shader.Program) {
	s.defaultProgram = p
}

func (s *scene) Render(ctx RenderContext) {
	s.lastDraws = 0
	for _, c := range s.root.children {
		s.render(c, s.root.propagated, ctx)
	}
}

func (s *scene) DrawCount() int {
	return s.lastDraws
}

// render draws n and recurses with its accumulated matrix. The root itself is never drawn.
func (s *scene) render(n *node, parent mgl32.Mat4, ctx RenderContext) {
	accumulated := parent.Mul4(n.propagated)
	s.draw(n, accumulated.Mul4(n.local), ctx)
	for _, c := range n.children {
		s.render(c, accumulated, ctx)
	}
}

func (s *scene) draw(n *node, model mgl32.Mat4, ctx RenderContext) {
	mesh, mtl := n.model, n.material
	if mesh == nil || mtl == nil {
		return
	}
	prog := n.program
	if prog == nil {
		prog = s.defaultProgram
	}
	if prog == nil {
		return
	}

	prog.Use()
	s.r.BindVertexBuffer(mesh.Buffer(), mesh.Layout(
		prog.Attrib(shader.AttribPosition),
		prog.Attrib(shader.AttribNormal),
		prog.Attrib(shader.AttribUV),
	))

	s.r.SetUniformMat4(prog.Uniform(shader.UniformModel), model)
	s.r.SetUniformMat4(prog.Uniform(shader.UniformMVP), ctx.ViewProjection.Mul4(model))
	s.r.SetUniformMat3(prog.Uniform(shader.UniformInvModel3x3), common.NormalMatrix(model))
	mtl.SendUniforms(s.r, material.Uniforms{
		Color:     prog.Uniform(shader.UniformMtlColor),
		Constants: prog.Uniform(shader.UniformMtlCts),
	})
	if s.light != nil {
		s.light.SendUniforms(s.r, light.Uniforms{
			Position: prog.Uniform(shader.UniformLightPos),
			Color:    prog.Uniform(shader.UniformLightColor),
		})
	}
	s.r.SetUniformVec3(prog.Uniform(shader.UniformCameraPosition), ctx.CameraPosition)

	tex := mtl.Texture()
	if tex != nil {
		tex.Bind()
		s.r.SetUniformInt(prog.Uniform(shader.UniformTexture), 0)
	}
	s.r.DrawTriangles(0, mesh.VertexCount())
	if tex != nil {
		tex.Unbind()
	}
	s.lastDraws++
}

func (s *scene) Walk(fn WalkFunc) {
	walk(s.root, mgl32.Ident4(), fn)
}

func walk(n *node, parent mgl32.Mat4, fn WalkFunc) {
	accumulated := parent.Mul4(n.propagated)
	fn(n, accumulated, accumulated.Mul4(n.local))
	for _, c := range n.children {
		walk(c, accumulated, fn)
	}
}
