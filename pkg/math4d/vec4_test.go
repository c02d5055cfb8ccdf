package math4d

import (
	"math"
	"testing"
)

func TestVec4Arithmetic(t *testing.T) {
	a := V4(1, 2, 3, 4)
	b := V4(-2, 0.5, 1, 2)

	tests := []struct {
		name string
		got  Vec4
		want Vec4
	}{
		{"add", a.Add(b), V4(-1, 2.5, 4, 6)},
		{"sub", a.Sub(b), V4(3, 1.5, 2, 2)},
		{"scale", a.Scale(2), V4(2, 4, 6, 8)},
		{"negate", a.Negate(), V4(-1, -2, -3, -4)},
		{"lerp half", a.Lerp(b, 0.5), V4(-0.5, 1.25, 2, 3)},
		{"lerp extrapolate", a.Lerp(b, 2), V4(-5, -1, -1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if d := a.Dot(b); d != -2+1+3+8 {
		t.Errorf("Dot = %v, want 10", d)
	}
	if l := V4(1, 2, 2, 4).Len(); l != 5 {
		t.Errorf("Len = %v, want 5", l)
	}
	if d := V4(1, 1, 1, 1).Distance(V4(2, 2, 2, 2)); math.Abs(d-2) > 1e-12 {
		t.Errorf("Distance = %v, want 2", d)
	}
}

func TestVec4Normalize(t *testing.T) {
	n := V4(0, 3, 0, 4).Normalize()
	if !n.ApproxEqual(V4(0, 0.6, 0, 0.8), 1e-12) {
		t.Errorf("Normalize = %v", n)
	}

	// Below the epsilon the zero vector comes back instead of a blown-up one.
	tiny := V4(1e-8, 0, 0, 0).Normalize()
	if tiny != (Vec4{}) {
		t.Errorf("Normalize of near-zero vector = %v, want zero", tiny)
	}
}

func TestVec4TargetVariants(t *testing.T) {
	a := V4(1, 2, 3, 4)
	orig := a

	var dst Vec4
	a.AddTo(&dst, V4(1, 1, 1, 1))
	if dst != V4(2, 3, 4, 5) {
		t.Errorf("AddTo = %v", dst)
	}
	a.ScaleTo(&dst, 0.5)
	if dst != V4(0.5, 1, 1.5, 2) {
		t.Errorf("ScaleTo = %v", dst)
	}
	if a != orig {
		t.Errorf("receiver mutated: %v", a)
	}

	// dst may alias the receiver.
	a.SubTo(&a, V4(1, 2, 3, 4))
	if a != (Vec4{}) {
		t.Errorf("aliased SubTo = %v", a)
	}

	v := V4(2, 0, 0, 0)
	v.NormalizeInPlace()
	if v != V4(1, 0, 0, 0) {
		t.Errorf("NormalizeInPlace = %v", v)
	}
}

func TestMat4F32RowMajor(t *testing.T) {
	m := Rotation(Angles{0.3, 0, 0, 0.7, 0, 0.2})
	f := m.F32()
	// f32.Mat4 is row-major: element (row, col) sits at row*4+col
	if f[1] != float32(m.Get(0, 1)) || f[4] != float32(m.Get(1, 0)) {
		t.Errorf("F32 layout: %v", f)
	}
	if back := Mat4FromF32(f); !back.ApproxEqual(m, 1e-6) {
		t.Errorf("round trip %v, want %v", back, m)
	}
	if back := Mat4FromColumnMajorF32(m.ColumnMajorF32()); !back.ApproxEqual(m, 1e-6) {
		t.Errorf("column-major round trip %v, want %v", back, m)
	}
}

func TestFlattenPoints(t *testing.T) {
	buf := make([]float32, 0, 16)
	got := FlattenPoints(buf, []Vec3{V3(1, 2, 3), V3(4, 5, 6)})
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) || cap(got) != cap(buf) {
		t.Fatalf("FlattenPoints = %v with cap %d, want the buffer reused", got, cap(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
