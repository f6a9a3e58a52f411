package scene

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// node is the implementation of the Node interface.
type node struct {
	name     string
	model    model.Model
	material material.Material
	program  shader.Program

	local      mgl32.Mat4
	propagated mgl32.Mat4

	parent   *node
	owned    bool
	children []*node
}

// Node defines one element of the scene tree: an optional mesh drawn with an optional material
// and program, plus two transforms.
//
// The propagated matrix is composed into everything below the node; the local matrix only
// affects the node's own draw. A subtree therefore moves as a rigid group through propagated
// while each member keeps its own scale or spin through local.
//
// Every node has exactly one owner, either its parent or the Scene for the root. Models,
// materials and programs are shared references and are never released by the node.
type Node interface {
	// Name retrieves the node's name, used in logs only.
	//
	// Returns:
	//   - string: the node name, possibly empty
	Name() string

	// Model retrieves the mesh drawn by this node.
	//
	// Returns:
	//   - model.Model: the mesh, or nil for a pure grouping node
	Model() model.Model

	// SetModel replaces the mesh drawn by this node.
	//
	// Parameters:
	//   - m: the mesh, or nil to stop drawing
	SetModel(m model.Model)

	// Material retrieves the surface description used for this node's draw.
	//
	// Returns:
	//   - material.Material: the material, or nil
	Material() material.Material

	// SetMaterial replaces the surface description used for this node's draw.
	//
	// Parameters:
	//   - m: the material, or nil
	SetMaterial(m material.Material)

	// Program retrieves the program this node draws with.
	//
	// Returns:
	//   - shader.Program: the program, or nil to use the scene default
	Program() shader.Program

	// SetProgram overrides the program this node draws with.
	//
	// Parameters:
	//   - p: the program, or nil to use the scene default
	SetProgram(p shader.Program)

	// Local returns the matrix applied to this node's own draw only.
	Local() mgl32.Mat4

	// SetLocal replaces the matrix applied to this node's own draw only.
	SetLocal(m mgl32.Mat4)

	// Propagated returns the matrix composed into this node and all of its descendants.
	Propagated() mgl32.Mat4

	// SetPropagated replaces the matrix composed into this node and all of its descendants.
	SetPropagated(m mgl32.Mat4)

	// SetMatrices replaces both matrices at once.
	//
	// Parameters:
	//   - propagated: the matrix composed into the subtree
	//   - local: the matrix applied to this node's draw only
	SetMatrices(propagated, local mgl32.Mat4)

	// Parent returns the node that owns this one.
	//
	// Returns:
	//   - Node: the parent, or nil for a root or detached node
	Parent() Node

	// Children returns the owned children in draw order.
	//
	// Returns:
	//   - []Node: a copy of the child list
	Children() []Node

	// AddChild transfers ownership of child to this node and appends it to the draw order.
	//
	// Parameters:
	//   - child: the node to attach
	//
	// Returns:
	//   - error: ErrNodeOwned if child already has an owner, is this node, or is one of its ancestors
	AddChild(child Node) error
}

var _ Node = &node{}

// NewNode creates a detached Node with identity matrices and the specified options applied.
//
// Parameters:
//   - options: a variadic list of NodeBuilderOption functions to configure the Node
//
// Returns:
//   - Node: the new node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		local:      mgl32.Ident4(),
		propagated: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Model() model.Model {
	return n.model
}

func (n *node) SetModel(m model.Model) {
	n.model = m
}

func (n *node) Material() material.Material {
	return n.material
}

func (n *node) SetMaterial(m material.Material) {
	n.material = m
}

func (n *node) Program() shader.Program {
	return n.program
}

func (n *node) SetProgram(p shader.Program) {
	n.program = p
}

func (n *node) Local() mgl32.Mat4 {
	return n.local
}

func (n *node) SetLocal(m mgl32.Mat4) {
	n.local = m
}

func (n *node) Propagated() mgl32.Mat4 {
	return n.propagated
}

func (n *node) SetPropagated(m mgl32.Mat4) {
	n.propagated = m
}

func (n *node) SetMatrices(propagated, local mgl32.Mat4) {
	n.propagated = propagated
	n.local = local
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) AddChild(child Node) error {
	c, ok := child.(*node)
	if !ok || c == nil {
		return errors.New("scene: node was not created by NewNode")
	}
	if c.owned {
		return errors.Wrapf(ErrNodeOwned, "node %q", c.name)
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			return errors.Wrapf(ErrNodeOwned, "node %q would contain itself", c.name)
		}
	}
	c.parent = n
	c.owned = true
	n.children = append(n.children, c)
	return nil
}
