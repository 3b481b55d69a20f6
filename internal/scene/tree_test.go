package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

const tol = 1e-5

type boxPayload struct{ box geometry.AABB }

func (b boxPayload) LocalBounds() geometry.AABB { return b.box }

func TestHierarchicalTransformOrder(t *testing.T) {
	tree := New(nil)
	root := tree.Add("root")
	child := tree.Add("child")
	require.NoError(t, tree.AddChild(root, child))

	tree.SetLocal(root, math.Translate(5, 0, 0))
	tree.SetLocal(child, math.ScaleUniform(0.5))

	want := math.Translate(5, 0, 0).Mul(math.ScaleUniform(0.5))
	assert.Equal(t, want, tree.HierarchicalTransform(child))
	assert.NotEqual(t, math.ScaleUniform(0.5).Mul(math.Translate(5, 0, 0)), tree.HierarchicalTransform(child))
}

func TestHierarchicalTransformDeepChain(t *testing.T) {
	tree := New(nil)
	locals := []math.Mat4{
		math.Translate(1, 2, 3),
		math.RotateZ(0.5),
		math.Scale(2, 1, 1),
		math.RotateAxis(math.Vec3{X: 1, Y: 1}, 0.3),
	}

	var ids []NodeID
	for i, m := range locals {
		id := tree.Add("n")
		tree.SetLocal(id, m)
		if i > 0 {
			require.NoError(t, tree.AddChild(ids[i-1], id))
		}
		ids = append(ids, id)
	}

	want := math.Identity()
	for _, m := range locals {
		want = want.Mul(m)
	}
	assert.True(t, tree.HierarchicalTransform(ids[len(ids)-1]).ApproxEqual(want, tol))
}

func TestHierarchicalTransformCacheInvalidation(t *testing.T) {
	tree := New(nil)
	root := tree.Add("root")
	mid := tree.Add("mid")
	leaf := tree.Add("leaf")
	require.NoError(t, tree.AddChild(root, mid))
	require.NoError(t, tree.AddChild(mid, leaf))

	tree.SetLocal(leaf, math.Translate(0, 1, 0))
	before := tree.HierarchicalTransform(leaf)
	assert.Equal(t, math.Vec3{Y: 1}, before.Translation())

	// Changing an ancestor must show up in the cached descendant.
	tree.Apply(root, math.Translate(10, 0, 0))
	assert.Equal(t, math.Vec3{X: 10, Y: 1}, tree.HierarchicalTransform(leaf).Translation())

	tree.SetPosition(mid, math.Vec3{Z: 2})
	assert.Equal(t, math.Vec3{X: 10, Y: 1, Z: 2}, tree.HierarchicalTransform(leaf).Translation())
}

func TestReparentChangesProduct(t *testing.T) {
	tree := New(nil)
	a := tree.Add("a")
	b := tree.Add("b")
	c := tree.Add("c")
	tree.SetLocal(a, math.Translate(1, 0, 0))
	tree.SetLocal(b, math.Translate(0, 2, 0))
	tree.SetLocal(c, math.Translate(0, 0, 3))
	require.NoError(t, tree.AddChild(a, c))
	assert.Equal(t, math.Vec3{X: 1, Z: 3}, tree.HierarchicalTransform(c).Translation())

	require.NoError(t, tree.Reparent(c, b))
	assert.Equal(t, math.Vec3{Y: 2, Z: 3}, tree.HierarchicalTransform(c).Translation())
	assert.Empty(t, tree.Children(a))
	assert.Equal(t, []NodeID{c}, tree.Children(b))

	require.NoError(t, tree.Reparent(c, NoNode))
	assert.Equal(t, NoNode, tree.Parent(c))
	assert.Equal(t, math.Vec3{Z: 3}, tree.HierarchicalTransform(c).Translation())
}

func TestAddChildRejectsCycles(t *testing.T) {
	tree := New(nil)
	a := tree.Add("a")
	b := tree.Add("b")
	c := tree.Add("c")
	require.NoError(t, tree.AddChild(a, b))
	require.NoError(t, tree.AddChild(b, c))

	assert.ErrorIs(t, tree.AddChild(a, a), ErrCycle)
	assert.ErrorIs(t, tree.Reparent(a, c), ErrCycle)
	assert.ErrorIs(t, tree.AddChild(c, b), ErrHasParent)
	assert.ErrorIs(t, tree.AddChild(a, NodeID(99)), ErrUnknownNode)

	// Tree is unchanged after the rejected links.
	assert.Equal(t, NoNode, tree.Parent(a))
	assert.Equal(t, []NodeID{b}, tree.Children(a))
}

func TestChildrenKeepInsertionOrder(t *testing.T) {
	tree := New(nil)
	root := tree.Add("root")
	var want []NodeID
	for i := 0; i < 4; i++ {
		id := tree.Add("c")
		require.NoError(t, tree.AddChild(root, id))
		want = append(want, id)
	}
	assert.Equal(t, want, tree.Children(root))

	var visited []NodeID
	tree.Walk(root, func(id NodeID) { visited = append(visited, id) })
	assert.Equal(t, append([]NodeID{root}, want...), visited)
}

func TestRemoveSubtree(t *testing.T) {
	tree := New(nil)
	root := tree.Add("root")
	a := tree.Add("a")
	b := tree.Add("b")
	require.NoError(t, tree.AddChild(root, a))
	require.NoError(t, tree.AddChild(a, b))

	require.NoError(t, tree.Remove(a))
	assert.False(t, tree.Contains(a))
	assert.False(t, tree.Contains(b))
	assert.Empty(t, tree.Children(root))
	assert.Equal(t, 1, tree.Len())
	assert.ErrorIs(t, tree.Remove(a), ErrUnknownNode)

	// Ids are not reused.
	d := tree.Add("d")
	assert.NotEqual(t, a, d)
	assert.NotEqual(t, b, d)
}

func TestFindAndRoots(t *testing.T) {
	tree := New(nil)
	sun := tree.Add("sun")
	earth := tree.Add("earth")
	require.NoError(t, tree.AddChild(sun, earth))

	id, ok := tree.Find("earth")
	assert.True(t, ok)
	assert.Equal(t, earth, id)
	_, ok = tree.Find("pluto")
	assert.False(t, ok)
	assert.Equal(t, []NodeID{sun}, tree.Roots())
	assert.Equal(t, "sun", tree.Name(sun))
}

func TestBounds(t *testing.T) {
	tree := New(nil)
	group := tree.Add("group")
	assert.True(t, tree.Bounds(group).IsEmpty())

	box := geometry.NewAABB(math.Vec3{X: -1, Y: -1}, math.Vec3{X: 1, Y: 1})
	mesh := tree.AddRenderable("mesh", boxPayload{box: box})
	assert.Equal(t, box, tree.Bounds(mesh))

	override := geometry.NewAABB(math.Vec3{}, math.Vec3{X: 3, Y: 3})
	tree.SetBounds(mesh, override)
	assert.Equal(t, override, tree.Bounds(mesh))
}

func TestPositionLeavesRotationIntact(t *testing.T) {
	tree := New(nil)
	id := tree.Add("n")
	tree.SetLocal(id, math.RotateY(0.4).Mul(math.ScaleUniform(2)))
	before := tree.Local(id).Mat3()

	tree.SetPosition(id, math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, tree.Position(id))
	assert.Equal(t, before, tree.Local(id).Mat3())
}

func TestHierarchicalNormalTransform(t *testing.T) {
	tree := New(nil)
	root := tree.Add("root")
	child := tree.Add("child")
	require.NoError(t, tree.AddChild(root, child))
	tree.SetLocal(root, math.Translate(3, 4, 5).Mul(math.RotateZ(0.7)))
	tree.SetLocal(child, math.Scale(2, 1, 1))

	world := tree.HierarchicalTransform(child)
	normal := tree.HierarchicalNormalTransform(child)

	assert.Equal(t, math.Vec3{}, normal.Translation(), "normal transform carries no translation")
	want := world.Mat3().Inverse().Transpose()
	assert.True(t, normal.Mat3().ApproxEqual(want, tol))

	// Updating only the model transform keeps the normal transform in step.
	tree.Apply(child, math.Scale(1, 3, 1))
	world = tree.HierarchicalTransform(child)
	tangent := world.TransformDirection(math.Vec3{X: 1, Y: -1})
	n := tree.HierarchicalNormalTransform(child).TransformDirection(math.Vec3{X: 1, Y: 1})
	assert.InDelta(t, 0, tangent.Dot(n), tol)
}
