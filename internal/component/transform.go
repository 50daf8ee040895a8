package component

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
)

// Transform is position/rotation/scale with cached local and world matrices
// and a parent/child hierarchy.
//
// Matrices are pulled lazily: mutators only mark the transform and all of
// its descendants dirty, and the world matrix is rebuilt on the next read
// that needs it, walking up to the root. A parent does not own its
// children's lifetime; destroying an entity detaches its transform through
// OnDestroy.
type Transform struct {
	position mathx.Vec3
	rotation mathx.Quat
	euler    mathx.Vec3 // kept in sync with rotation
	scale    mathx.Vec3

	local mathx.Mat4
	world mathx.Mat4

	localDirty bool
	worldDirty bool

	parent   *Transform
	children []*Transform
}

func NewTransform() *Transform {
	t := &Transform{}
	t.Reset()
	return t
}

func (*Transform) Type() ecs.ComponentType { return TypeTransform }

// Reset unlinks t from any hierarchy and restores the identity transform.
func (t *Transform) Reset() {
	t.Detach()
	*t = Transform{
		rotation: mathx.QuatIdentity(),
		scale:    mathx.Splat(1),
		local:    mathx.Identity(),
		world:    mathx.Identity(),
	}
}

// Clone copies position, rotation and scale. The copy has no parent or
// children.
func (t *Transform) Clone() ecs.Component {
	c := NewTransform()
	c.position, c.rotation, c.euler, c.scale = t.position, t.rotation, t.euler, t.scale
	c.markDirty()
	return c
}

// OnDestroy detaches t from its parent and orphans its children.
func (t *Transform) OnDestroy() { t.Detach() }

func (t *Transform) Position() mathx.Vec3   { return t.position }
func (t *Transform) Rotation() mathx.Vec3   { return t.euler }
func (t *Transform) Quaternion() mathx.Quat { return t.rotation }
func (t *Transform) Scale() mathx.Vec3      { return t.scale }

func (t *Transform) SetPosition(x, y, z float64) { t.SetPositionVec(mathx.V3(x, y, z)) }

func (t *Transform) SetPositionVec(p mathx.Vec3) {
	t.position = p
	t.markDirty()
}

func (t *Transform) Translate(d mathx.Vec3) {
	t.position = t.position.Add(d)
	t.markDirty()
}

// SetRotation sets XYZ euler angles in radians.
func (t *Transform) SetRotation(x, y, z float64) {
	t.euler = mathx.V3(x, y, z)
	t.rotation = mathx.QuatFromEuler(t.euler)
	t.markDirty()
}

func (t *Transform) SetQuaternion(q mathx.Quat) {
	t.rotation = q.Normalize()
	t.euler = t.rotation.Euler()
	t.markDirty()
}

func (t *Transform) SetScale(x, y, z float64) {
	t.scale = mathx.V3(x, y, z)
	t.markDirty()
}

// LookAt rotates t so its local +Z axis points at target (in the parent's
// space). target == position, or up parallel to the view direction, yields
// NaN rotation; callers must avoid those inputs.
func (t *Transform) LookAt(target, up mathx.Vec3) {
	z := target.Sub(t.position).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	t.SetQuaternion(mathx.QuatFromAxes(x, y, z))
}

// Forward is the local +Z axis after rotation.
func (t *Transform) Forward() mathx.Vec3 {
	return t.rotation.Rotate(mathx.V3(0, 0, 1))
}

// IsDirty reports whether either cached matrix is stale.
func (t *Transform) IsDirty() bool { return t.localDirty || t.worldDirty }

func (t *Transform) markDirty() {
	t.localDirty = true
	t.invalidateWorld()
}

// invalidateWorld marks t and every descendant, immediately, so a later
// pull on any of them sees the stale state.
func (t *Transform) invalidateWorld() {
	t.worldDirty = true
	for _, c := range t.children {
		c.invalidateWorld()
	}
}

// UpdateMatrix rebuilds the local matrix from position/rotation/scale.
func (t *Transform) UpdateMatrix() {
	t.local = mathx.Compose(t.position, t.rotation, t.scale)
	t.localDirty = false
}

// UpdateWorldMatrix brings the world matrix up to date, pulling the parent
// chain first.
func (t *Transform) UpdateWorldMatrix() {
	if t.localDirty {
		t.UpdateMatrix()
	}
	if !t.worldDirty {
		return
	}
	if t.parent != nil {
		t.parent.UpdateWorldMatrix()
		t.world = t.parent.world.Mul(t.local)
	} else {
		t.world = t.local
	}
	t.worldDirty = false
}

func (t *Transform) LocalMatrix() mathx.Mat4 {
	if t.localDirty {
		t.UpdateMatrix()
	}
	return t.local
}

func (t *Transform) WorldMatrix() mathx.Mat4 {
	t.UpdateWorldMatrix()
	return t.world
}

func (t *Transform) WorldPosition() mathx.Vec3 {
	return t.WorldMatrix().Translation()
}

// ---------- hierarchy ----------

func (t *Transform) Parent() *Transform { return t.parent }

// Children returns a copy of the ordered child list.
func (t *Transform) Children() []*Transform {
	return append([]*Transform(nil), t.children...)
}

// AddChild reparents c under t, detaching it from any previous parent.
// Attaching t to itself or to one of its own descendants is refused.
func (t *Transform) AddChild(c *Transform) bool {
	if c == nil || c == t || c.isAncestorOf(t) {
		return false
	}
	if c.parent == t {
		return true
	}
	if c.parent != nil {
		c.parent.dropChild(c)
	}
	c.parent = t
	t.children = append(t.children, c)
	c.invalidateWorld()
	return true
}

// RemoveChild detaches c if it is a child of t.
func (t *Transform) RemoveChild(c *Transform) bool {
	if c == nil || c.parent != t {
		return false
	}
	t.dropChild(c)
	c.parent = nil
	c.invalidateWorld()
	return true
}

// Detach removes t from its parent and releases its children. Orphaned
// children keep their local transform, which becomes their world transform.
func (t *Transform) Detach() {
	if t.parent != nil {
		t.parent.RemoveChild(t)
	}
	for _, c := range t.children {
		c.parent = nil
		c.invalidateWorld()
	}
	t.children = nil
}

func (t *Transform) dropChild(c *Transform) {
	for i, ch := range t.children {
		if ch == c {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

func (t *Transform) isAncestorOf(o *Transform) bool {
	for p := o.parent; p != nil; p = p.parent {
		if p == t {
			return true
		}
	}
	return false
}
