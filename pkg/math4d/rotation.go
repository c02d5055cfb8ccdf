package math4d

import "math"

// PlaneRotation returns the matrix rotating by angle in plane p, leaving the
// other two axes fixed. For plane (a, b): a' = c·a − s·b, b' = s·a + c·b.
func PlaneRotation(p Plane, angle float64) Mat4 {
	s, c := math.Sincos(angle)
	a, b := p.Axes()
	m := Identity()
	m.Set(a, a, c)
	m.Set(a, b, -s)
	m.Set(b, a, s)
	m.Set(b, b, c)
	return m
}

// Rotation composes the six plane rotations as XY·XZ·YZ·XW·YW·ZW.
//
// The order is fixed and shared with every shader backend. Rotations do not
// commute, so any other order yields a different orientation once more than
// one angle is non-zero.
func Rotation(angles Angles) Mat4 {
	m := Identity()
	if angles.IsZero() {
		return m
	}
	for _, p := range Planes {
		if angles[p] == 0 {
			continue
		}
		m = m.Mul(PlaneRotation(p, angles[p]))
	}
	return m
}

// RotationRotor composes the six single-plane rotors in the same order as
// Rotation. The result rotates every vector exactly as Rotation(angles) does,
// up to floating-point error.
func RotationRotor(angles Angles) Rotor {
	r := IdentityRotor()
	if angles.IsZero() {
		return r
	}
	for _, p := range Planes {
		if angles[p] == 0 {
			continue
		}
		r = r.Mul(FromPlaneAngle(p, angles[p]))
	}
	return r
}

// RotateVec rotates v by the composed rotation.
func RotateVec(angles Angles, v Vec4) Vec4 {
	return Rotation(angles).MulVec4(v)
}
