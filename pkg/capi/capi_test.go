package capi

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
)

const tol = 1e-5

func near(a, b float32) bool { return math.Abs(float64(a-b)) <= tol }

func nearVec(a, b Vec4f) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestVec4(t *testing.T) {
	a, b := Vec4f{1, 2, 3, 4}, Vec4f{4, 3, 2, 1}
	if got := Vec4Add(a, b); got != (Vec4f{5, 5, 5, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := Vec4Sub(a, b); got != (Vec4f{-3, -1, 1, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := Vec4Dot(a, b); got != 20 {
		t.Errorf("Dot = %v", got)
	}
	if got := Vec4Length(Vec4f{2, 0, 0, 0}); got != 2 {
		t.Errorf("Length = %v", got)
	}
	if got := Vec4Normalize(Vec4f{}); got != (Vec4f{}) {
		t.Errorf("Normalize(0) = %v", got)
	}
	if got := Vec4Lerp(a, b, 2); !nearVec(got, Vec4f{7, 4, 1, -2}) {
		t.Errorf("Lerp extrapolated = %v", got)
	}
	if got := Vec4Scale(a, 0.5); got != (Vec4f{0.5, 1, 1.5, 2}) {
		t.Errorf("Scale = %v", got)
	}
	if got := Vec4Distance(a, a); got != 0 {
		t.Errorf("Distance = %v", got)
	}
}

func TestRotationMatrixColumnMajor(t *testing.T) {
	// a quarter turn in XW carries x to w; column 0 is the image of x
	m := RotationMatrix([6]float32{math4d.XW: math.Pi / 2})
	if !near(m[3], 1) || !near(m[0], 0) {
		t.Errorf("column 0 = %v", m[0:4])
	}
	got := Mat4MulVec4(m, Vec4f{1, 0, 0, 0})
	if !nearVec(got, Vec4f{0, 0, 0, 1}) {
		t.Errorf("rotated x = %v", got)
	}
	if Mat4Mul(Mat4Identity(), m) != m {
		t.Error("identity product changed the matrix")
	}
}

func TestRotorMatchesMatrix(t *testing.T) {
	angles := [6]float32{0.1, 0.2, 0.3, 0.8, 0.5, 0.4}
	r := Rotorf{1}
	for pl, a := range angles {
		pr, err := RotorFromPlaneAngle(int32(pl), a)
		if err != nil {
			t.Fatal(err)
		}
		r = RotorNormalize(RotorMul(r, pr))
	}
	v := Vec4f{0.3, -0.2, 0.7, 0.5}
	want := Mat4MulVec4(RotationMatrix(angles), v)
	if got := RotorRotate(r, v); !nearVec(got, want) {
		t.Errorf("rotor %v, matrix %v", got, want)
	}
	if got := Mat4MulVec4(RotorToMat4(r), v); !nearVec(got, want) {
		t.Errorf("rotor matrix %v, matrix %v", got, want)
	}
	if _, err := RotorFromPlaneAngle(6, 1); Status(err) != StatusInvalidArgument {
		t.Errorf("plane 6: %v", err)
	}
}

func TestProject(t *testing.T) {
	got, err := Project(0, Vec4f{1, 1, 1, 0.5}, 3.5, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	s := float32(3.5 / 4.0)
	if !near(got[0], s) || !near(got[2], s) {
		t.Errorf("perspective = %v", got)
	}
	// the pole clamps instead of dividing by zero
	pole, err := Project(1, Vec4f{1, 0, 0, 1}, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(float64(pole[0]), 0) || math.IsNaN(float64(pole[0])) {
		t.Errorf("pole = %v", pole)
	}
	if _, err := Project(0, Vec4f{}, -1, 0, 0); Status(err) != StatusValidation {
		t.Errorf("negative distance: %v", err)
	}
	if _, err := Project(9, Vec4f{}, 3, 0, 0); Status(err) != StatusInvalidArgument {
		t.Errorf("kind 9: %v", err)
	}

	src := []Vec4f{{1, 2, 3, 0}, {0, 0, 1, 2}}
	dst := make([]Vec3f, 2)
	if err := ProjectBatch(3, dst, src, 0, 0.5, 0.25); err != nil {
		t.Fatal(err)
	}
	if !near(dst[1][0], 1) || !near(dst[1][1], 0.5) {
		t.Errorf("oblique batch = %v", dst)
	}
	if err := ProjectBatch(3, dst[:1], src, 0, 0, 0); Status(err) != StatusInvalidArgument {
		t.Errorf("short dst: %v", err)
	}
}

func TestEngineLifecycle(t *testing.T) {
	h := NewEngine()
	defer FreeEngine(h)
	if err := SetParam(h, "geometry", 11); err != nil {
		t.Fatal(err)
	}
	if err := SetAngles(h, [6]float32{math4d.XW: 0.8, math4d.YW: 0.5}); err != nil {
		t.Fatal(err)
	}
	if g, err := GetParam(h, "geometry"); err != nil || g != 11 {
		t.Errorf("geometry = %v, %v", g, err)
	}
	if err := SetParam(h, "geometry", 24); Status(err) != StatusValidation {
		t.Errorf("geometry 24: %v", err)
	}
	if err := SetParam(h, "nonsense", 1); Status(err) != StatusValidation {
		t.Errorf("unknown field: %v", err)
	}

	p := scene.Defaults()
	p.Geometry = 11
	p.Angles[math4d.XW], p.Angles[math4d.YW] = float64(float32(0.8)), float64(float32(0.5))
	pt := Vec4f{0.3, 0.3, 0.3, 0.3}
	want := lattice.Presence(p.Inputs(0), math4d.Vec4FromF32(pt))
	got, err := Presence(h, pt, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(got)-want) > 1e-4 {
		t.Errorf("presence = %v, want %v", got, want)
	}

	pts, edges, err := Frame(h, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts)%3 != 0 || len(edges) == 0 {
		t.Errorf("frame has %d floats and %d edges", len(pts), len(edges))
	}
	for _, e := range edges {
		if 3*e[0] >= len(pts) || 3*e[1] >= len(pts) {
			t.Fatalf("edge %v past %d points", e, len(pts)/3)
		}
	}
	if _, err := EngineRotation(h, 0); err != nil {
		t.Error(err)
	}
}

func TestUnknownHandle(t *testing.T) {
	before := EngineCount()
	h := NewEngine()
	if EngineCount() != before+1 {
		t.Errorf("count = %d after NewEngine, want %d", EngineCount(), before+1)
	}
	if err := FreeEngine(h); err != nil {
		t.Fatal(err)
	}
	if EngineCount() != before {
		t.Errorf("count = %d after FreeEngine, want %d", EngineCount(), before)
	}
	if err := FreeEngine(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("double free: %v", err)
	}
	if _, err := Presence(h, Vec4f{}, 0); Status(err) != StatusUnknownHandle {
		t.Errorf("Presence on freed handle: %v", err)
	}
	if _, _, err := Frame(0, 0); Status(err) != StatusUnknownHandle {
		t.Errorf("Frame(0): %v", err)
	}
}

func TestStatus(t *testing.T) {
	if Status(nil) != StatusOK {
		t.Error("nil is not OK")
	}
	if Status(errors.New("boom")) != StatusInternal {
		t.Error("plain error is not internal")
	}
}
