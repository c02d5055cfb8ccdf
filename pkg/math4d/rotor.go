package math4d

import "math"

// Rotor is an element of the even subalgebra of Cl(4,0): one scalar, six
// bivector components (one per rotation plane) and the pseudoscalar XYZW.
// A unit rotor represents a 4D rotation applied as R v R̃.
type Rotor struct {
	S                      float64
	XY, XZ, YZ, XW, YW, ZW float64
	XYZW                   float64
}

// IdentityRotor returns the rotor of the identity rotation.
func IdentityRotor() Rotor {
	return Rotor{S: 1}
}

// FromPlaneAngle returns the rotor rotating by angle in a single plane.
// It rotates in the same sense as PlaneRotation: for plane (a, b),
// a' = cos·a − sin·b and b' = sin·a + cos·b.
func FromPlaneAngle(p Plane, angle float64) Rotor {
	s, c := math.Sincos(angle / 2)
	r := Rotor{S: c}
	r.setBivector(p, -s)
	return r
}

func (r *Rotor) setBivector(p Plane, v float64) {
	switch p {
	case XY:
		r.XY = v
	case XZ:
		r.XZ = v
	case YZ:
		r.YZ = v
	case XW:
		r.XW = v
	case YW:
		r.YW = v
	case ZW:
		r.ZW = v
	}
}

// Bivector returns the component for plane p.
func (r Rotor) Bivector(p Plane) float64 {
	switch p {
	case XY:
		return r.XY
	case XZ:
		return r.XZ
	case YZ:
		return r.YZ
	case XW:
		return r.XW
	case YW:
		return r.YW
	case ZW:
		return r.ZW
	}
	return 0
}

// Mul returns the geometric product a * b. Applying the result rotates by b
// first, then by a.
//
//nolint:st1016 // a*b naming convention is clearer for rotor composition
func (a Rotor) Mul(b Rotor) Rotor {
	return Rotor{
		S: a.S*b.S - a.XY*b.XY - a.XZ*b.XZ - a.YZ*b.YZ -
			a.XW*b.XW - a.YW*b.YW - a.ZW*b.ZW + a.XYZW*b.XYZW,
		XY: a.S*b.XY + a.XY*b.S - a.XZ*b.YZ + a.YZ*b.XZ -
			a.XW*b.YW + a.YW*b.XW - a.ZW*b.XYZW - a.XYZW*b.ZW,
		XZ: a.S*b.XZ + a.XZ*b.S + a.XY*b.YZ - a.YZ*b.XY -
			a.XW*b.ZW + a.ZW*b.XW + a.YW*b.XYZW + a.XYZW*b.YW,
		YZ: a.S*b.YZ + a.YZ*b.S - a.XY*b.XZ + a.XZ*b.XY -
			a.YW*b.ZW + a.ZW*b.YW - a.XW*b.XYZW - a.XYZW*b.XW,
		XW: a.S*b.XW + a.XW*b.S + a.XY*b.YW - a.YW*b.XY +
			a.XZ*b.ZW - a.ZW*b.XZ - a.YZ*b.XYZW - a.XYZW*b.YZ,
		YW: a.S*b.YW + a.YW*b.S - a.XY*b.XW + a.XW*b.XY +
			a.YZ*b.ZW - a.ZW*b.YZ + a.XZ*b.XYZW + a.XYZW*b.XZ,
		ZW: a.S*b.ZW + a.ZW*b.S - a.XZ*b.XW + a.XW*b.XZ -
			a.YZ*b.YW + a.YW*b.YZ - a.XY*b.XYZW - a.XYZW*b.XY,
		XYZW: a.S*b.XYZW + a.XYZW*b.S + a.XY*b.ZW + a.ZW*b.XY -
			a.XZ*b.YW - a.YW*b.XZ + a.YZ*b.XW + a.XW*b.YZ,
	}
}

// Reverse returns R̃. Bivector components change sign; the scalar and
// pseudoscalar do not.
func (r Rotor) Reverse() Rotor {
	return Rotor{
		S:  r.S,
		XY: -r.XY, XZ: -r.XZ, YZ: -r.YZ,
		XW: -r.XW, YW: -r.YW, ZW: -r.ZW,
		XYZW: r.XYZW,
	}
}

// NormSq returns the sum of squared components.
func (r Rotor) NormSq() float64 {
	return r.S*r.S + r.XY*r.XY + r.XZ*r.XZ + r.YZ*r.YZ +
		r.XW*r.XW + r.YW*r.YW + r.ZW*r.ZW + r.XYZW*r.XYZW
}

// Norm returns the rotor magnitude. A pure rotation has norm 1.
func (r Rotor) Norm() float64 {
	return math.Sqrt(r.NormSq())
}

// Normalize returns r scaled to unit norm. A degenerate rotor becomes the
// identity.
func (r Rotor) Normalize() Rotor {
	n := r.Norm()
	if n < NormalizeEpsilon {
		return IdentityRotor()
	}
	return r.scale(1 / n)
}

// NormalizeInPlace rescales every component by 1/norm. Long chains of Mul
// drift away from unit norm and need this periodically.
func (r *Rotor) NormalizeInPlace() {
	*r = r.Normalize()
}

// Inverse returns R̃ / |R|².
func (r Rotor) Inverse() Rotor {
	n := r.NormSq()
	if n < NormalizeEpsilon*NormalizeEpsilon {
		return IdentityRotor()
	}
	return r.Reverse().scale(1 / n)
}

func (r Rotor) scale(s float64) Rotor {
	return Rotor{
		S:  r.S * s,
		XY: r.XY * s, XZ: r.XZ * s, YZ: r.YZ * s,
		XW: r.XW * s, YW: r.YW * s, ZW: r.ZW * s,
		XYZW: r.XYZW * s,
	}
}

// Dot returns the component-wise inner product.
func (a Rotor) Dot(b Rotor) float64 {
	return a.S*b.S + a.XY*b.XY + a.XZ*b.XZ + a.YZ*b.YZ +
		a.XW*b.XW + a.YW*b.YW + a.ZW*b.ZW + a.XYZW*b.XYZW
}

// IsUnit reports whether |r| is within tol of 1.
func (r Rotor) IsUnit(tol float64) bool {
	return math.Abs(r.Norm()-1) <= tol
}

// Rotate applies the sandwich product R v R̃ directly, without building a
// matrix. r is assumed to be unit.
func (r Rotor) Rotate(v Vec4) Vec4 {
	var out Vec4
	r.RotateTo(&out, v)
	return out
}

// RotateTo stores R v R̃ in dst. dst may alias v.
func (r Rotor) RotateTo(dst *Vec4, v Vec4) {
	s, xy, xz, yz := r.S, r.XY, r.XZ, r.YZ
	xw, yw, zw, q := r.XW, r.YW, r.ZW, r.XYZW
	x, y, z, w := v.X, v.Y, v.Z, v.W

	// R v: vector and trivector parts of the odd intermediate.
	tx := s*x + xy*y + xz*z + xw*w
	ty := s*y - xy*x + yz*z + yw*w
	tz := s*z - xz*x - yz*y + zw*w
	tw := s*w - xw*x - yw*y - zw*z
	txyz := xy*z - xz*y + yz*x + q*w
	txyw := xy*w - xw*y + yw*x - q*z
	txzw := xz*w - xw*z + zw*x + q*y
	tyzw := yz*w - yw*z + zw*y - q*x

	// (R v) R̃, keeping the grade-1 part.
	dst.X = s*tx + xy*ty + xz*tz + xw*tw + yz*txyz + yw*txyw + zw*txzw + q*tyzw
	dst.Y = s*ty - xy*tx + yz*tz + yw*tw - xz*txyz - xw*txyw + zw*tyzw - q*txzw
	dst.Z = s*tz - xz*tx - yz*ty + zw*tw + xy*txyz - xw*txzw - yw*tyzw + q*txyw
	dst.W = s*tw - xw*tx - yw*ty - zw*tz + xy*txyw + xz*txzw + yz*tyzw - q*txyz
}

// ToMat4 returns the rotation matrix equivalent to r.
func (r Rotor) ToMat4() Mat4 {
	var m Mat4
	basis := [4]Vec4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	for col, e := range basis {
		c := r.Rotate(e)
		m[col*4+0] = c.X
		m[col*4+1] = c.Y
		m[col*4+2] = c.Z
		m[col*4+3] = c.W
	}
	return m
}

// Nlerp interpolates component-wise and renormalizes, taking the short path.
func (a Rotor) Nlerp(b Rotor, t float64) Rotor {
	if a.Dot(b) < 0 {
		b = b.scale(-1)
	}
	return Rotor{
		S:    a.S + (b.S-a.S)*t,
		XY:   a.XY + (b.XY-a.XY)*t,
		XZ:   a.XZ + (b.XZ-a.XZ)*t,
		YZ:   a.YZ + (b.YZ-a.YZ)*t,
		XW:   a.XW + (b.XW-a.XW)*t,
		YW:   a.YW + (b.YW-a.YW)*t,
		ZW:   a.ZW + (b.ZW-a.ZW)*t,
		XYZW: a.XYZW + (b.XYZW-a.XYZW)*t,
	}.Normalize()
}

// Slerp interpolates along the great arc between two unit rotors.
func (a Rotor) Slerp(b Rotor, t float64) Rotor {
	d := a.Dot(b)
	if d < 0 {
		b = b.scale(-1)
		d = -d
	}
	if d > 0.9995 {
		return a.Nlerp(b, t)
	}
	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Rotor{
		S:    a.S*wa + b.S*wb,
		XY:   a.XY*wa + b.XY*wb,
		XZ:   a.XZ*wa + b.XZ*wb,
		YZ:   a.YZ*wa + b.YZ*wb,
		XW:   a.XW*wa + b.XW*wb,
		YW:   a.YW*wa + b.YW*wb,
		ZW:   a.ZW*wa + b.ZW*wb,
		XYZW: a.XYZW*wa + b.XYZW*wb,
	}
}
