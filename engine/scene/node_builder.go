package scene

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeBuilderOption is a functional option for configuring a Node via NewNode.
type NodeBuilderOption func(*node)

// WithName is an option builder that sets the name of the Node.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: a function that applies the name option to a node
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithModel is an option builder that sets the mesh drawn by the Node.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - NodeBuilderOption: a function that applies the model option to a node
func WithModel(m model.Model) NodeBuilderOption {
	return func(n *node) {
		n.model = m
	}
}

// WithMaterial is an option builder that sets the material of the Node.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - NodeBuilderOption: a function that applies the material option to a node
func WithMaterial(m material.Material) NodeBuilderOption {
	return func(n *node) {
		n.material = m
	}
}

// WithProgram is an option builder that overrides the scene default program for the Node.
//
// Parameters:
//   - p: the program
//
// Returns:
//   - NodeBuilderOption: a function that applies the program option to a node
func WithProgram(p shader.Program) NodeBuilderOption {
	return func(n *node) {
		n.program = p
	}
}

// WithLocal is an option builder that sets the matrix applied to the Node's own draw only.
func WithLocal(m mgl32.Mat4) NodeBuilderOption {
	return func(n *node) {
		n.local = m
	}
}

// WithPropagated is an option builder that sets the matrix composed into the Node's subtree.
func WithPropagated(m mgl32.Mat4) NodeBuilderOption {
	return func(n *node) {
		n.propagated = m
	}
}
