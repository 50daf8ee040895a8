package mathx

import "math"

// AABB is an axis-aligned bounding box. Bounds are inclusive.
type AABB struct {
	Min, Max Vec3
}

// BoxAround returns the box centered on c with the given half extents.
func BoxAround(c, half Vec3) AABB {
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// Cube returns the box of side 2*r centered on c.
func Cube(c Vec3, r float64) AABB {
	return BoxAround(c, Splat(r))
}

// Overlaps reports whether the boxes share at least one point.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains reports whether p lies inside b.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the midpoint of b.
func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// ClosestPoint clamps p into b.
func (b AABB) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		clamp(p.X, b.Min.X, b.Max.X),
		clamp(p.Y, b.Min.Y, b.Max.Y),
		clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// DistanceSq is the squared distance from p to the closest point of b.
func (b AABB) DistanceSq(p Vec3) float64 {
	return p.DistanceSq(b.ClosestPoint(p))
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Overlaps reports whether the two spheres touch or intersect.
func (s Sphere) Overlaps(o Sphere) bool {
	return SpheresOverlap(s.Center, s.Radius, o.Center, o.Radius)
}

// SpheresOverlap is boundary inclusive: touching spheres overlap.
func SpheresOverlap(c1 Vec3, r1 float64, c2 Vec3, r2 float64) bool {
	r := r1 + r2
	return c1.DistanceSq(c2) <= r*r
}

// SphereBox reports whether the sphere reaches the closest point of the box.
func SphereBox(c Vec3, r float64, box AABB) bool {
	return box.DistanceSq(c) <= r*r
}

// SphereCylinder tests a sphere against a Y-axis cylinder centered on cc with
// total height h. The vertical reject runs first, then the XZ distance is
// compared to the radius sum.
func SphereCylinder(c Vec3, r float64, cc Vec3, cr, h float64) bool {
	if math.Abs(c.Y-cc.Y) > h/2+r {
		return false
	}
	rr := r + cr
	return c.HorizontalDistanceSq(cc) <= rr*rr
}

// CylindersOverlap tests two Y-axis cylinders.
func CylindersOverlap(c1 Vec3, r1, h1 float64, c2 Vec3, r2, h2 float64) bool {
	if math.Abs(c1.Y-c2.Y) > (h1+h2)/2 {
		return false
	}
	rr := r1 + r2
	return c1.HorizontalDistanceSq(c2) <= rr*rr
}

// SegmentDistanceSq is the squared distance from p to the vertical segment
// centered on c with half length hl.
func SegmentDistanceSq(p, c Vec3, hl float64) float64 {
	closest := Vec3{c.X, clamp(p.Y, c.Y-hl, c.Y+hl), c.Z}
	return p.DistanceSq(closest)
}

// SphereCapsule tests a sphere against a Y-axis capsule whose core segment
// has length h.
func SphereCapsule(c Vec3, r float64, cc Vec3, cr, h float64) bool {
	rr := r + cr
	return SegmentDistanceSq(c, cc, h/2) <= rr*rr
}

// CapsulesOverlap tests two Y-axis capsules. Both core segments are vertical,
// so their closest distance splits into a horizontal part and the vertical
// gap between the segments.
func CapsulesOverlap(c1 Vec3, r1, h1 float64, c2 Vec3, r2, h2 float64) bool {
	gap := math.Abs(c1.Y-c2.Y) - (h1+h2)/2
	if gap < 0 {
		gap = 0
	}
	rr := r1 + r2
	return c1.HorizontalDistanceSq(c2)+gap*gap <= rr*rr
}
