// Package math4d provides the 4D vector, matrix and rotor primitives used by
// the vib4d transform pipeline.
package math4d

import "math"

// NormalizeEpsilon is the length below which Normalize yields the zero vector.
const NormalizeEpsilon = 1e-6

// Vec4 represents a point or direction in 4D space.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Zero4 returns the zero vector.
func Zero4() Vec4 {
	return Vec4{}
}

// XYZ returns the first three components, dropping W.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Add returns the vector sum a + b.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the vector difference a - b.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Negate returns -v.
func (v Vec4) Negate() Vec4 {
	return Vec4{-v.X, -v.Y, -v.Z, -v.W}
}

// Dot returns the dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the length.
func (v Vec4) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

// LenSq returns the squared length.
func (v Vec4) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

// Normalize returns the unit vector, or the zero vector when the length is
// below NormalizeEpsilon.
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l < NormalizeEpsilon {
		return Vec4{}
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}

// Lerp returns the linear interpolation between a and b. t is not clamped.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec4) Distance(b Vec4) float64 {
	return a.Sub(b).Len()
}

// DistanceSq returns the squared distance between two points.
func (a Vec4) DistanceSq(b Vec4) float64 {
	return a.Sub(b).LenSq()
}

// ApproxEqual reports whether every component differs by at most tol.
func (a Vec4) ApproxEqual(b Vec4, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol &&
		math.Abs(a.W-b.W) <= tol
}

// The *To variants below write into dst instead of returning a new value.
// dst may alias an operand.

// AddTo stores a + b in dst.
func (a Vec4) AddTo(dst *Vec4, b Vec4) {
	dst.X, dst.Y, dst.Z, dst.W = a.X+b.X, a.Y+b.Y, a.Z+b.Z, a.W+b.W
}

// SubTo stores a - b in dst.
func (a Vec4) SubTo(dst *Vec4, b Vec4) {
	dst.X, dst.Y, dst.Z, dst.W = a.X-b.X, a.Y-b.Y, a.Z-b.Z, a.W-b.W
}

// ScaleTo stores v * s in dst.
func (v Vec4) ScaleTo(dst *Vec4, s float64) {
	dst.X, dst.Y, dst.Z, dst.W = v.X*s, v.Y*s, v.Z*s, v.W*s
}

// NormalizeTo stores the normalized vector in dst.
func (v Vec4) NormalizeTo(dst *Vec4) {
	*dst = v.Normalize()
}

// LerpTo stores the interpolation between a and b in dst.
func (a Vec4) LerpTo(dst *Vec4, b Vec4, t float64) {
	*dst = a.Lerp(b, t)
}

// NormalizeInPlace rescales v to unit length.
func (v *Vec4) NormalizeInPlace() {
	*v = v.Normalize()
}
