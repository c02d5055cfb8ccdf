package math4d

import "testing"

func benchAngles() Angles {
	return Angles{0.1, 0.2, 0.3, 0.8, 0.5, 0.4}
}

func BenchmarkRotation(b *testing.B) {
	a := benchAngles()

	for b.Loop() {
		_ = Rotation(a)
	}
}

func BenchmarkRotationRotor(b *testing.B) {
	a := benchAngles()

	for b.Loop() {
		_ = RotationRotor(a)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Rotation(benchAngles())
	v := V4(0.3, 0.3, 0.3, 0.3)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkRotorRotate(b *testing.B) {
	r := RotationRotor(benchAngles())
	v := V4(0.3, 0.3, 0.3, 0.3)

	for b.Loop() {
		_ = r.Rotate(v)
	}
}

func BenchmarkProjectBatch(b *testing.B) {
	p := DefaultProjection()
	src := make([]Vec4, 4096)
	for i := range src {
		src[i] = V4(float64(i)*0.001, 0.2, -0.3, float64(i%7)*0.1)
	}
	dst := make([]Vec3, len(src))

	for b.Loop() {
		dst = p.ProjectBatch(dst, src)
	}
}
