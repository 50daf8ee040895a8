// Package mathx holds the small amount of 3D math the simulation needs:
// vectors, quaternions, 4x4 matrices, axis-aligned boxes and the overlap
// predicates colliders are built from. All types are values; nothing here
// allocates.
package mathx

import "math"

// Vec3 is a 3-component vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Splat returns a vector with every component set to v.
func Splat(v float64) Vec3 { return Vec3{X: v, Y: v, Z: v} }

func (a Vec3) Add(b Vec3) Vec3           { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3           { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3      { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Mul(b Vec3) Vec3           { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }
func (a Vec3) Dot(b Vec3) float64        { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) LengthSq() float64         { return a.Dot(a) }
func (a Vec3) Length() float64           { return math.Sqrt(a.LengthSq()) }
func (a Vec3) Neg() Vec3                 { return Vec3{-a.X, -a.Y, -a.Z} }
func (a Vec3) IsZero() bool              { return a == Vec3{} }
func (a Vec3) Min(b Vec3) Vec3           { return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)} }
func (a Vec3) Max(b Vec3) Vec3           { return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)} }
func (a Vec3) DistanceSq(b Vec3) float64 { return a.Sub(b).LengthSq() }
func (a Vec3) Distance(b Vec3) float64   { return math.Sqrt(a.DistanceSq(b)) }

// Cross returns a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Normalize returns a unit vector in the direction of a. The zero vector
// normalizes to NaN components; callers must not pass it.
func (a Vec3) Normalize() Vec3 {
	return a.Scale(1 / a.Length())
}

// HorizontalDistanceSq is the squared distance in the XZ plane.
func (a Vec3) HorizontalDistanceSq(b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}

// ApproxEqual compares component-wise within eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
