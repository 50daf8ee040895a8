package component

import (
	"math"
	"testing"

	"github.com/l1jgo/arena/internal/mathx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildFollowsParentWithoutExplicitUpdate(t *testing.T) {
	parent := NewTransform()
	child := NewTransform()
	child.SetPosition(1, 0, 0)
	require.True(t, parent.AddChild(child))

	assert.True(t, child.WorldPosition().ApproxEqual(mathx.V3(1, 0, 0), 1e-12))
	assert.False(t, child.IsDirty())

	parent.SetPosition(10, 5, 0)
	assert.True(t, child.IsDirty(), "parent mutation marks descendants immediately")
	assert.True(t, child.WorldPosition().ApproxEqual(mathx.V3(11, 5, 0), 1e-12))
}

func TestDirtyPropagatesToGrandchildren(t *testing.T) {
	root, mid, leaf := NewTransform(), NewTransform(), NewTransform()
	root.AddChild(mid)
	mid.AddChild(leaf)
	mid.SetPosition(0, 1, 0)
	leaf.SetPosition(0, 0, 1)
	_ = leaf.WorldPosition()

	root.SetScale(2, 2, 2)
	assert.True(t, mid.IsDirty())
	assert.True(t, leaf.IsDirty())
	assert.True(t, leaf.WorldPosition().ApproxEqual(mathx.V3(0, 2, 2), 1e-12))
	assert.False(t, root.IsDirty(), "pulling the leaf refreshes the chain")
}

func TestRotationKeepsEulerAndQuaternionInSync(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(0, math.Pi/2, 0)
	assert.True(t, tr.Forward().ApproxEqual(mathx.V3(1, 0, 0), 1e-9))

	q := mathx.QuatFromEuler(mathx.V3(0.1, 0.2, 0.3))
	tr.SetQuaternion(q)
	assert.True(t, tr.Rotation().ApproxEqual(mathx.V3(0.1, 0.2, 0.3), 1e-9))

	child := NewTransform()
	child.SetPosition(0, 0, 2)
	tr.SetRotation(0, math.Pi/2, 0)
	tr.AddChild(child)
	assert.True(t, child.WorldPosition().ApproxEqual(mathx.V3(2, 0, 0), 1e-9))
}

func TestLookAt(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(1, 0, 1)
	tr.LookAt(mathx.V3(5, 0, 1), mathx.V3(0, 1, 0))
	assert.True(t, tr.Forward().ApproxEqual(mathx.V3(1, 0, 0), 1e-9))
}

func TestReparentingAndDetach(t *testing.T) {
	a, b, c := NewTransform(), NewTransform(), NewTransform()
	a.SetPosition(10, 0, 0)
	b.SetPosition(0, 10, 0)

	require.True(t, a.AddChild(c))
	require.True(t, b.AddChild(c))
	assert.Empty(t, a.Children(), "attaching to a new parent detaches from the old")
	assert.Equal(t, []*Transform{c}, b.Children())
	assert.Same(t, b, c.Parent())
	assert.True(t, c.WorldPosition().ApproxEqual(mathx.V3(0, 10, 0), 1e-12))

	assert.False(t, c.AddChild(b), "cycles are refused")
	assert.False(t, c.AddChild(c))
	assert.False(t, a.RemoveChild(c))

	b.OnDestroy()
	assert.Nil(t, c.Parent())
	assert.True(t, c.WorldPosition().ApproxEqual(mathx.V3(0, 0, 0), 1e-12))
}

func TestTransformResetMatchesFresh(t *testing.T) {
	parent := NewTransform()
	tr := NewTransform()
	parent.AddChild(tr)
	tr.SetPosition(1, 2, 3)
	tr.SetRotation(0.1, 0.2, 0.3)
	tr.SetScale(2, 2, 2)
	_ = tr.WorldMatrix()

	tr.Reset()
	assert.Equal(t, NewTransform(), tr)
	assert.Empty(t, parent.Children())
}

func TestTransformClone(t *testing.T) {
	parent := NewTransform()
	tr := NewTransform()
	parent.AddChild(tr)
	tr.SetPosition(4, 5, 6)
	c := tr.Clone().(*Transform)
	assert.Equal(t, tr.Position(), c.Position())
	assert.Nil(t, c.Parent())
	assert.True(t, c.WorldPosition().ApproxEqual(mathx.V3(4, 5, 6), 1e-12))
}
