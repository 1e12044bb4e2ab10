package snapfit

import (
	"github.com/go-gl/mathgl/mgl64"
)

// SceneNode is the read-only view of a model's scene graph that extraction
// walks. Renderers adapt their own node types to it.
type SceneNode interface {
	Name() string
	Local() Transform
	Children() []SceneNode
}

// Node is a plain in-memory scene graph node used for built-in models and
// tests.
type Node struct {
	NodeName  string
	Transform Transform
	Kids      []*Node
}

func NewNode(name string, pos mgl64.Vec3, rot mgl64.Quat) *Node {
	return &Node{NodeName: name, Transform: NewTransform(pos, rot)}
}

// NewMarker creates an empty node at pos with identity rotation; models use
// it for socket and attach markers.
func NewMarker(name string, pos mgl64.Vec3) *Node {
	return NewNode(name, pos, mgl64.QuatIdent())
}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	n.Kids = append(n.Kids, children...)
	return n
}

func (n *Node) Name() string { return n.NodeName }

func (n *Node) Local() Transform {
	if n.Transform.Rotation.Len() == 0 {
		return NewTransform(n.Transform.Position, mgl64.QuatIdent())
	}
	return n.Transform
}

func (n *Node) Children() []SceneNode {
	out := make([]SceneNode, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

// Walk visits every node depth-first in pre-order, passing the node's
// transform composed with parent. Returning false from visit skips the
// node's subtree.
func Walk(root SceneNode, parent Transform, visit func(node SceneNode, world Transform) bool) {
	if root == nil {
		return
	}
	world := ComposeWorld(root.Local(), parent)
	if !visit(root, world) {
		return
	}
	for _, child := range root.Children() {
		Walk(child, world, visit)
	}
}
