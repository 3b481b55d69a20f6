// Package scene implements the transform hierarchy: an arena of nodes
// addressed by stable ids, each carrying a local transform, an optional
// renderable payload and ordered children.
package scene

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// NodeID addresses a node inside a Tree. Ids are never reused.
type NodeID int

// NoNode is the parent of root nodes.
const NoNode NodeID = -1

var (
	// ErrUnknownNode is returned for ids that were never issued or were removed.
	ErrUnknownNode = errors.New("unknown node")
	// ErrCycle is returned when a link would make a node its own ancestor.
	ErrCycle = errors.New("node would become its own ancestor")
	// ErrHasParent is returned by AddChild when the child is already attached.
	ErrHasParent = errors.New("node already has a parent")
)

// Renderable is the drawable payload attached to a node.
type Renderable interface {
	// LocalBounds returns the payload's bounding box in node-local space.
	LocalBounds() geometry.AABB
}

type node struct {
	name       string
	alive      bool
	local      math.Mat4
	parent     NodeID
	children   []NodeID
	renderable Renderable
	bounds     geometry.AABB
	hasBounds  bool

	// world caches the hierarchical transform while dirty is false.
	world math.Mat4
	dirty bool
}

// Tree owns every node of one scene. It is not safe for concurrent use;
// updates and rendering run sequentially on one goroutine.
type Tree struct {
	nodes []node
	log   *zap.Logger
}

// New creates an empty tree. A nil logger disables logging.
func New(log *zap.Logger) *Tree {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tree{log: log}
}

// Add creates a new root node with an identity transform.
func (t *Tree) Add(name string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		name:   name,
		alive:  true,
		local:  math.Identity(),
		parent: NoNode,
		dirty:  true,
	})
	return id
}

// AddRenderable creates a new root node carrying r.
func (t *Tree) AddRenderable(name string, r Renderable) NodeID {
	id := t.Add(name)
	t.nodes[id].renderable = r
	return id
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].alive {
			n++
		}
	}
	return n
}

func (t *Tree) get(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(t.nodes) || !t.nodes[id].alive {
		return nil, errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	return &t.nodes[id], nil
}

// must is used by accessors whose callers hold ids issued by this tree.
// Passing a foreign or removed id is a programming error.
func (t *Tree) must(id NodeID) *node {
	n, err := t.get(id)
	if err != nil {
		panic(err)
	}
	return n
}

// Contains reports whether id refers to a live node.
func (t *Tree) Contains(id NodeID) bool {
	_, err := t.get(id)
	return err == nil
}

// IsAncestor reports whether a is b itself or one of b's ancestors.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	for cur := b; cur != NoNode; cur = t.nodes[cur].parent {
		if cur == a {
			return true
		}
	}
	return false
}

// AddChild appends child to parent's children.
func (t *Tree) AddChild(parent, child NodeID) error {
	p, err := t.get(parent)
	if err != nil {
		return errors.Wrap(err, "add child: parent")
	}
	c, err := t.get(child)
	if err != nil {
		return errors.Wrap(err, "add child: child")
	}
	if c.parent != NoNode {
		return errors.Wrapf(ErrHasParent, "add child %q to %q", c.name, p.name)
	}
	if t.IsAncestor(child, parent) {
		return errors.Wrapf(ErrCycle, "add child %q to %q", c.name, p.name)
	}

	p.children = append(p.children, child)
	c.parent = parent
	t.markDirty(child)
	return nil
}

// Reparent moves child (with its subtree) under newParent.
// NoNode detaches it into a root.
func (t *Tree) Reparent(child, newParent NodeID) error {
	c, err := t.get(child)
	if err != nil {
		return errors.Wrap(err, "reparent")
	}
	if newParent != NoNode {
		if _, err := t.get(newParent); err != nil {
			return errors.Wrap(err, "reparent: new parent")
		}
		if t.IsAncestor(child, newParent) {
			return errors.Wrapf(ErrCycle, "reparent %q", c.name)
		}
	}

	t.detach(child)
	if newParent != NoNode {
		t.nodes[newParent].children = append(t.nodes[newParent].children, child)
		c.parent = newParent
	}
	t.markDirty(child)
	t.log.Debug("node reparented",
		zap.String("node", c.name),
		zap.Int("parent", int(newParent)),
	)
	return nil
}

// Remove deletes id and its whole subtree.
func (t *Tree) Remove(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return errors.Wrap(err, "remove")
	}
	t.detach(id)
	removed := 0
	t.walk(id, func(cur NodeID) {
		t.nodes[cur].alive = false
		t.nodes[cur].renderable = nil
		removed++
	})
	t.log.Debug("node removed", zap.String("node", n.name), zap.Int("subtree", removed))
	return nil
}

// detach unlinks id from its parent, leaving it a root.
func (t *Tree) detach(id NodeID) {
	n := &t.nodes[id]
	if n.parent == NoNode {
		return
	}
	siblings := t.nodes[n.parent].children
	for i, s := range siblings {
		if s == id {
			t.nodes[n.parent].children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = NoNode
}

// Parent returns the parent of id, or NoNode for roots.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.must(id).parent
}

// Children returns the ordered children of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.must(id).children
}

// Roots returns all live root nodes in creation order.
func (t *Tree) Roots() []NodeID {
	var roots []NodeID
	for i := range t.nodes {
		if t.nodes[i].alive && t.nodes[i].parent == NoNode {
			roots = append(roots, NodeID(i))
		}
	}
	return roots
}

// Name returns the node's name.
func (t *Tree) Name(id NodeID) string {
	return t.must(id).name
}

// Find returns the first live node with the given name.
func (t *Tree) Find(name string) (NodeID, bool) {
	for i := range t.nodes {
		if t.nodes[i].alive && t.nodes[i].name == name {
			return NodeID(i), true
		}
	}
	return NoNode, false
}

// Walk visits id and its descendants depth-first, parents before children.
func (t *Tree) Walk(id NodeID, fn func(NodeID)) {
	t.must(id)
	t.walk(id, fn)
}

// WalkAll visits every live node, root by root.
func (t *Tree) WalkAll(fn func(NodeID)) {
	for _, r := range t.Roots() {
		t.walk(r, fn)
	}
}

func (t *Tree) walk(id NodeID, fn func(NodeID)) {
	fn(id)
	for _, c := range t.nodes[id].children {
		t.walk(c, fn)
	}
}

// Renderable returns the node's payload, or nil for transform groups.
func (t *Tree) Renderable(id NodeID) Renderable {
	return t.must(id).renderable
}

// SetRenderable attaches r to the node.
func (t *Tree) SetRenderable(id NodeID, r Renderable) {
	t.must(id).renderable = r
}

// Bounds returns the node's local bounding box. Explicit bounds set with
// SetBounds win over the renderable's; a node with neither has an empty box.
func (t *Tree) Bounds(id NodeID) geometry.AABB {
	n := t.must(id)
	switch {
	case n.hasBounds:
		return n.bounds
	case n.renderable != nil:
		return n.renderable.LocalBounds()
	default:
		return geometry.EmptyAABB()
	}
}

// SetBounds overrides the node's local bounding box.
func (t *Tree) SetBounds(id NodeID, box geometry.AABB) {
	n := t.must(id)
	n.bounds = box
	n.hasBounds = true
}
