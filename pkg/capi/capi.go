// Package capi is the flat float32 surface behind the C library. Every value
// crossing it is a fixed-size array; matrices are 16 floats in column-major
// order, the layout the C header documents.
package capi

import (
	"errors"
	"fmt"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
	"golang.org/x/image/math/f32"
)

type (
	Vec4f = f32.Vec4
	Vec3f = f32.Vec3
	// Mat4f is column-major, unlike f32.Mat4.
	Mat4f [16]float32
	// Rotorf holds s, xy, xz, yz, xw, yw, zw, xyzw.
	Rotorf [8]float32
)

// Status codes returned across the C boundary.
const (
	StatusOK              int32 = 0
	StatusInvalidArgument int32 = -1
	StatusUnknownHandle   int32 = -2
	StatusValidation      int32 = -3
	StatusInternal        int32 = -4
)

var ErrInvalidArgument = errors.New("capi: invalid argument")

// Status maps an error to its C status code.
func Status(err error) int32 {
	var (
		ve *scene.ValidationError
		ie *geometry.IndexError
		pe *math4d.ProjectionError
	)
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrUnknownHandle):
		return StatusUnknownHandle
	case errors.As(err, &ve), errors.As(err, &ie), errors.As(err, &pe), errors.Is(err, scene.ErrUnknownField):
		return StatusValidation
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	}
	return StatusInternal
}

func vec(v Vec4f) math4d.Vec4 { return math4d.Vec4FromF32(v) }

func mat(m Mat4f) math4d.Mat4      { return math4d.Mat4FromColumnMajorF32(m) }
func matf(m math4d.Mat4) Mat4f     { return m.ColumnMajorF32() }
func rotor(r Rotorf) math4d.Rotor  { return math4d.RotorFromF32(r) }
func rotorf(r math4d.Rotor) Rotorf { return r.F32() }

func Vec4Add(a, b Vec4f) Vec4f           { return vec(a).Add(vec(b)).F32() }
func Vec4Sub(a, b Vec4f) Vec4f           { return vec(a).Sub(vec(b)).F32() }
func Vec4Scale(v Vec4f, s float32) Vec4f { return vec(v).Scale(float64(s)).F32() }
func Vec4Dot(a, b Vec4f) float32         { return float32(vec(a).Dot(vec(b))) }
func Vec4Length(v Vec4f) float32         { return float32(vec(v).Len()) }
func Vec4Normalize(v Vec4f) Vec4f        { return vec(v).Normalize().F32() }
func Vec4Distance(a, b Vec4f) float32    { return float32(vec(a).Distance(vec(b))) }

// Vec4Lerp does not clamp t.
func Vec4Lerp(a, b Vec4f, t float32) Vec4f { return vec(a).Lerp(vec(b), float64(t)).F32() }

func Mat4Identity() Mat4f                { return matf(math4d.Identity()) }
func Mat4Mul(a, b Mat4f) Mat4f           { return matf(mat(a).Mul(mat(b))) }
func Mat4MulVec4(m Mat4f, v Vec4f) Vec4f { return mat(m).MulVec4(vec(v)).F32() }

// RotationMatrix composes the six plane rotations in XY, XZ, YZ, XW, YW, ZW
// order.
func RotationMatrix(angles [math4d.PlaneCount]float32) Mat4f {
	var a math4d.Angles
	for i, v := range angles {
		a[i] = float64(v)
	}
	return matf(math4d.Rotation(a))
}

// RotorFromPlaneAngle returns the rotor for one plane, 0 = XY .. 5 = ZW.
func RotorFromPlaneAngle(plane int32, angle float32) (Rotorf, error) {
	if plane < 0 || plane >= math4d.PlaneCount {
		return Rotorf{}, fmt.Errorf("%w: plane %d", ErrInvalidArgument, plane)
	}
	return rotorf(math4d.FromPlaneAngle(math4d.Plane(plane), float64(angle))), nil
}

func RotorMul(a, b Rotorf) Rotorf         { return rotorf(rotor(a).Mul(rotor(b))) }
func RotorNormalize(r Rotorf) Rotorf      { return rotorf(rotor(r).Normalize()) }
func RotorRotate(r Rotorf, v Vec4f) Vec4f { return rotor(r).Rotate(vec(v)).F32() }
func RotorToMat4(r Rotorf) Mat4f          { return matf(rotor(r).ToMat4()) }

func projection(kind int32, distance, shearX, shearY float32) (math4d.Projection, error) {
	if kind < int32(math4d.PerspectiveProjection) || kind > int32(math4d.ObliqueProjection) {
		return math4d.Projection{}, fmt.Errorf("%w: projection %d", ErrInvalidArgument, kind)
	}
	p := math4d.Projection{
		Kind:     math4d.ProjectionKind(kind),
		Distance: float64(distance),
		Radius:   1,
		ShearX:   float64(shearX),
		ShearY:   float64(shearY),
		Epsilon:  math4d.ProjectionEpsilon,
	}
	if err := p.Validate(); err != nil {
		return math4d.Projection{}, err
	}
	return p, nil
}

// Project maps v to 3D. kind is 0 perspective, 1 stereographic,
// 2 orthographic, 3 oblique. distance only affects perspective.
func Project(kind int32, v Vec4f, distance, shearX, shearY float32) (Vec3f, error) {
	p, err := projection(kind, distance, shearX, shearY)
	if err != nil {
		return Vec3f{}, err
	}
	return p.Project(vec(v)).F32(), nil
}

// ProjectBatch projects src into dst, which must be at least as long.
func ProjectBatch(kind int32, dst []Vec3f, src []Vec4f, distance, shearX, shearY float32) error {
	if len(dst) < len(src) {
		return fmt.Errorf("%w: dst holds %d of %d points", ErrInvalidArgument, len(dst), len(src))
	}
	p, err := projection(kind, distance, shearX, shearY)
	if err != nil {
		return err
	}
	var out math4d.Vec3
	for i, v := range src {
		p.ProjectTo(&out, vec(v))
		dst[i] = out.F32()
	}
	return nil
}
