package math4d

import "golang.org/x/image/math/f32"

// F32 returns v as a flat float32 vector.
func (v Vec4) F32() f32.Vec4 {
	return f32.Vec4{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}
}

// Vec4FromF32 widens a flat float32 vector.
func Vec4FromF32(v f32.Vec4) Vec4 {
	return Vec4{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
}

// F32 returns v as a flat float32 vector.
func (v Vec3) F32() f32.Vec3 {
	return f32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// F32 returns m in the row-major layout of f32.Mat4.
func (m Mat4) F32() f32.Mat4 {
	var out f32.Mat4
	for row := range 4 {
		for col := range 4 {
			out[row*4+col] = float32(m[row+col*4])
		}
	}
	return out
}

// Mat4FromF32 converts a row-major f32.Mat4.
func Mat4FromF32(a f32.Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			m[row+col*4] = float64(a[row*4+col])
		}
	}
	return m
}

// ColumnMajorF32 returns m's 16 elements in storage order, the layout GL
// uniforms and the C API expect.
func (m Mat4) ColumnMajorF32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Mat4FromColumnMajorF32 widens 16 column-major floats.
func Mat4FromColumnMajorF32(a [16]float32) Mat4 {
	var m Mat4
	for i, v := range a {
		m[i] = float64(v)
	}
	return m
}

// F32 returns the rotor components in the order S, XY, XZ, YZ, XW, YW, ZW,
// XYZW.
func (r Rotor) F32() [8]float32 {
	return [8]float32{
		float32(r.S),
		float32(r.XY), float32(r.XZ), float32(r.YZ),
		float32(r.XW), float32(r.YW), float32(r.ZW),
		float32(r.XYZW),
	}
}

// RotorFromF32 is the inverse of Rotor.F32.
func RotorFromF32(a [8]float32) Rotor {
	return Rotor{
		S:  float64(a[0]),
		XY: float64(a[1]), XZ: float64(a[2]), YZ: float64(a[3]),
		XW: float64(a[4]), YW: float64(a[5]), ZW: float64(a[6]),
		XYZW: float64(a[7]),
	}
}

// FlattenPoints writes pts as consecutive x, y, z float32 triples into dst,
// growing it when too short, and returns the filled slice.
func FlattenPoints(dst []float32, pts []Vec3) []float32 {
	n := 3 * len(pts)
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, p := range pts {
		dst[3*i], dst[3*i+1], dst[3*i+2] = float32(p.X), float32(p.Y), float32(p.Z)
	}
	return dst
}
