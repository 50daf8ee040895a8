package component

import (
	"math"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
)

// Shape is the collider geometry. Capsules and cylinders stand upright
// along Y.
type Shape uint8

const (
	ShapeSphere Shape = iota
	ShapeBox
	ShapeCapsule
	ShapeCylinder
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	case ShapeCylinder:
		return "cylinder"
	}
	return "unknown"
}

// Layer is a collision layer bitmask: what a collider is (Collider.Layer)
// or what it interacts with (Collider.Mask).
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerTerrain
	LayerTower
	LayerEnemy
	LayerProjectile
	LayerPlayer

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

var layerNames = map[string]Layer{
	"default":    LayerDefault,
	"terrain":    LayerTerrain,
	"tower":      LayerTower,
	"enemy":      LayerEnemy,
	"projectile": LayerProjectile,
	"player":     LayerPlayer,
	"all":        LayerAll,
}

// ParseLayers ORs named layers together. Unknown names are reported in the
// second return value.
func ParseLayers(names []string) (Layer, []string) {
	var l Layer
	var unknown []string
	for _, n := range names {
		v, ok := layerNames[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		l |= v
	}
	return l, unknown
}

// CollisionFunc receives the entity owning the collider and the entity it
// touched.
type CollisionFunc func(self, other ecs.EntityID)

// Collider describes a collision shape relative to the entity's Transform.
//
// Bounds are cached. UpdateBounds recomputes them when the cache is marked
// stale or the collider is not static; a static collider keeps its bounds
// once valid, so any edit to its shape, offset or position must be
// followed by Invalidate. The Set* helpers invalidate for you.
type Collider struct {
	Shape       Shape
	Radius      float64
	HalfExtents mathx.Vec3
	Height      float64
	Offset      mathx.Vec3

	Layer     Layer
	Mask      Layer
	IsTrigger bool
	IsStatic  bool

	OnCollisionEnter CollisionFunc
	OnCollisionStay  CollisionFunc
	OnCollisionExit  CollisionFunc
	OnTriggerEnter   CollisionFunc
	OnTriggerStay    CollisionFunc
	OnTriggerExit    CollisionFunc

	box         mathx.AABB
	sphere      mathx.Sphere
	boundsDirty bool
}

func NewCollider() *Collider {
	c := &Collider{}
	c.Reset()
	return c
}

func (*Collider) Type() ecs.ComponentType { return TypeCollider }

func (c *Collider) Reset() {
	*c = Collider{
		Shape:       ShapeSphere,
		Radius:      0.5,
		HalfExtents: mathx.Splat(0.5),
		Height:      1,
		Layer:       LayerDefault,
		Mask:        LayerAll,
		boundsDirty: true,
	}
}

// Clone copies shape, filters and callbacks. The copy's bounds are stale.
func (c *Collider) Clone() ecs.Component {
	cp := *c
	cp.boundsDirty = true
	return &cp
}

func (c *Collider) SetSphere(radius float64) {
	c.Shape, c.Radius = ShapeSphere, radius
	c.Invalidate()
}

func (c *Collider) SetBox(halfExtents mathx.Vec3) {
	c.Shape, c.HalfExtents = ShapeBox, halfExtents
	c.Invalidate()
}

// SetCapsule sets a capsule whose core segment is height long.
func (c *Collider) SetCapsule(radius, height float64) {
	c.Shape, c.Radius, c.Height = ShapeCapsule, radius, height
	c.Invalidate()
}

// SetCylinder sets a cylinder of total height.
func (c *Collider) SetCylinder(radius, height float64) {
	c.Shape, c.Radius, c.Height = ShapeCylinder, radius, height
	c.Invalidate()
}

func (c *Collider) SetOffset(offset mathx.Vec3) {
	c.Offset = offset
	c.Invalidate()
}

// Invalidate forces the next UpdateBounds to recompute.
func (c *Collider) Invalidate() { c.boundsDirty = true }

// BoundsDirty reports whether the cached bounds are stale.
func (c *Collider) BoundsDirty() bool { return c.boundsDirty }

// UpdateBounds recomputes the cached box and sphere around worldPos+Offset.
func (c *Collider) UpdateBounds(worldPos mathx.Vec3) {
	if c.IsStatic && !c.boundsDirty {
		return
	}
	center := worldPos.Add(c.Offset)
	half, r := c.extents()
	c.box = mathx.BoxAround(center, half)
	c.sphere = mathx.Sphere{Center: center, Radius: r}
	c.boundsDirty = false
}

// extents returns the AABB half extents and bounding-sphere radius.
func (c *Collider) extents() (mathx.Vec3, float64) {
	switch c.Shape {
	case ShapeBox:
		return c.HalfExtents, c.HalfExtents.Length()
	case ShapeCapsule:
		hy := c.Height/2 + c.Radius
		return mathx.V3(c.Radius, hy, c.Radius), hy
	case ShapeCylinder:
		hy := c.Height / 2
		return mathx.V3(c.Radius, hy, c.Radius), math.Hypot(c.Radius, hy)
	default:
		return mathx.Splat(c.Radius), c.Radius
	}
}

// Bounds is the cached world-space box as of the last UpdateBounds.
func (c *Collider) Bounds() mathx.AABB { return c.box }

// BoundingSphere is the cached world-space sphere.
func (c *Collider) BoundingSphere() mathx.Sphere { return c.sphere }

// Center is the world-space shape center as of the last UpdateBounds.
func (c *Collider) Center() mathx.Vec3 { return c.sphere.Center }

// CanCollideWith is true only when each side's mask includes the other's
// layer, which makes it symmetric.
func (c *Collider) CanCollideWith(o *Collider) bool {
	return c.Mask&o.Layer != 0 && o.Mask&c.Layer != 0
}

// Intersects refreshes both bounds, rejects on bounding spheres, then runs
// the precise test for the shape pair. Layers and masks are not consulted;
// check CanCollideWith first.
//
// Exact pairs: sphere/sphere, box/box, sphere/box, sphere/cylinder,
// cylinder/cylinder, sphere/capsule, capsule/capsule. Every other pair
// (box/cylinder, box/capsule, capsule/cylinder) falls back to box overlap,
// which over-reports near corners.
func (c *Collider) Intersects(o *Collider, selfPos, otherPos mathx.Vec3) bool {
	c.UpdateBounds(selfPos)
	o.UpdateBounds(otherPos)
	if !c.sphere.Overlaps(o.sphere) {
		return false
	}
	if hit, ok := narrowPhase(c, o); ok {
		return hit
	}
	if hit, ok := narrowPhase(o, c); ok {
		return hit
	}
	return c.box.Overlaps(o.box)
}

// narrowPhase handles the ordered pair (a, b); ok is false when the pair is
// not covered in this order.
func narrowPhase(a, b *Collider) (hit, ok bool) {
	ac, bc := a.Center(), b.Center()
	switch a.Shape {
	case ShapeSphere:
		switch b.Shape {
		case ShapeSphere:
			return mathx.SpheresOverlap(ac, a.Radius, bc, b.Radius), true
		case ShapeBox:
			return mathx.SphereBox(ac, a.Radius, b.box), true
		case ShapeCylinder:
			return mathx.SphereCylinder(ac, a.Radius, bc, b.Radius, b.Height), true
		case ShapeCapsule:
			return mathx.SphereCapsule(ac, a.Radius, bc, b.Radius, b.Height), true
		}
	case ShapeBox:
		if b.Shape == ShapeBox {
			return a.box.Overlaps(b.box), true
		}
	case ShapeCylinder:
		if b.Shape == ShapeCylinder {
			return mathx.CylindersOverlap(ac, a.Radius, a.Height, bc, b.Radius, b.Height), true
		}
	case ShapeCapsule:
		if b.Shape == ShapeCapsule {
			return mathx.CapsulesOverlap(ac, a.Radius, a.Height, bc, b.Radius, b.Height), true
		}
	}
	return false, false
}
