package math4d

import (
	"math"
	"testing"
)

func TestRotorReverseIsInverse(t *testing.T) {
	var a Angles
	a[XY], a[XW], a[ZW] = 0.3, 1.1, -0.7
	r := RotationRotor(a)

	id := r.Mul(r.Reverse())
	if math.Abs(id.S-1) > 1e-12 || math.Abs(id.Dot(id)-1) > 1e-12 {
		t.Errorf("R R̃ = %+v, want identity", id)
	}

	v := V4(0.3, -1, 2, 0.5)
	back := r.Reverse().Rotate(r.Rotate(v))
	if !back.ApproxEqual(v, 1e-12) {
		t.Errorf("round trip = %v, want %v", back, v)
	}

	scaled := r.scale(2)
	if got := scaled.Mul(scaled.Inverse()); !got.Normalize().Rotate(v).ApproxEqual(v, 1e-12) {
		t.Errorf("Inverse of scaled rotor does not undo it")
	}
}

func TestRotorComposeOrder(t *testing.T) {
	// a.Mul(b) applies b first.
	a := FromPlaneAngle(XW, math.Pi/2)
	b := FromPlaneAngle(XY, math.Pi/2)
	got := a.Mul(b).Rotate(V4(1, 0, 0, 0))
	want := a.Rotate(b.Rotate(V4(1, 0, 0, 0)))
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !got.ApproxEqual(V4(0, 1, 0, 0), 1e-12) {
		t.Errorf("XW after XY on e_x = %v, want e_y", got)
	}
}

func TestRotorIsolatedPseudoscalar(t *testing.T) {
	// Rotations in two orthogonal planes produce a pseudoscalar term that a
	// quaternion-style product would drop.
	r := FromPlaneAngle(XY, 1.0).Mul(FromPlaneAngle(ZW, 0.6))
	if math.Abs(r.XYZW) < 1e-3 {
		t.Fatalf("expected non-zero XYZW component, got %+v", r)
	}
	m := PlaneRotation(XY, 1.0).Mul(PlaneRotation(ZW, 0.6))
	v := V4(0.2, 0.4, -0.6, 0.9)
	if !r.Rotate(v).ApproxEqual(m.MulVec4(v), 1e-12) {
		t.Errorf("double rotation mismatch")
	}
}

func TestRotorRenormalizationKeepsUnitNorm(t *testing.T) {
	// A step whose scalar carries a float32-sized rounding error, as rotors
	// crossing the C API do.
	step := FromPlaneAngle(XW, 0.01).Mul(FromPlaneAngle(YZ, 0.007))
	step.S *= 1 + 1e-7

	const n = 2000

	drifting := IdentityRotor()
	for range n {
		drifting = drifting.Mul(step)
	}

	stable := IdentityRotor()
	for range n {
		stable = stable.Mul(step)
		stable.NormalizeInPlace()
	}

	if d := math.Abs(stable.Norm() - 1); d > 1e-5 {
		t.Errorf("renormalized rotor drifted by %v", d)
	}
	// Without renormalization the error compounds.
	if d := math.Abs(drifting.Norm() - 1); d < 1e-5 {
		t.Errorf("expected visible drift without renormalization, got %v", d)
	}
}

func TestRotorNormalizeDegenerate(t *testing.T) {
	var r Rotor
	if got := r.Normalize(); got != IdentityRotor() {
		t.Errorf("Normalize(0) = %+v, want identity", got)
	}
	if !FromPlaneAngle(YW, 2.5).IsUnit(1e-12) {
		t.Error("plane rotor is not unit")
	}
}

func TestRotorSlerp(t *testing.T) {
	a := IdentityRotor()
	b := FromPlaneAngle(XW, 1.2)
	half := a.Slerp(b, 0.5)
	want := FromPlaneAngle(XW, 0.6)
	v := V4(1, 0, 0, 0)
	if !half.Rotate(v).ApproxEqual(want.Rotate(v), 1e-9) {
		t.Errorf("Slerp(0.5) rotates to %v, want %v", half.Rotate(v), want.Rotate(v))
	}
	if got := a.Slerp(b, 1); !got.Rotate(v).ApproxEqual(b.Rotate(v), 1e-9) {
		t.Errorf("Slerp(1) = %+v, want %+v", got, b)
	}
	if got := a.Nlerp(b, 0.5); !got.IsUnit(1e-12) {
		t.Errorf("Nlerp result not unit: %v", got.Norm())
	}
}

func TestRotorF32RoundTrip(t *testing.T) {
	r := FromPlaneAngle(ZW, 0.25)
	back := RotorFromF32(r.F32())
	if math.Abs(back.S-r.S) > 1e-7 || math.Abs(back.ZW-r.ZW) > 1e-7 {
		t.Errorf("round trip = %+v, want %+v", back, r)
	}
}
