// libvib4d is the C shared library. Build with
//
//	go build -buildmode=c-shared -o libvib4d.so ./cmd/libvib4d
//
// Vectors are float[4], matrices float[16] in column-major order and rotors
// float[8] (s, xy, xz, yz, xw, yw, zw, xyzw). Every function that can fail
// returns an int32 status: 0 on success, negative otherwise.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/taigrr/vib4d/pkg/capi"
	"github.com/taigrr/vib4d/pkg/math4d"
)

func vec4(p *C.float) capi.Vec4f {
	return *(*capi.Vec4f)(unsafe.Pointer(p))
}

func setVec4(p *C.float, v capi.Vec4f) {
	*(*capi.Vec4f)(unsafe.Pointer(p)) = v
}

func mat4(p *C.float) capi.Mat4f {
	return *(*capi.Mat4f)(unsafe.Pointer(p))
}

func setMat4(p *C.float, m capi.Mat4f) {
	*(*capi.Mat4f)(unsafe.Pointer(p)) = m
}

func rotor(p *C.float) capi.Rotorf {
	return *(*capi.Rotorf)(unsafe.Pointer(p))
}

func setRotor(p *C.float, r capi.Rotorf) {
	*(*capi.Rotorf)(unsafe.Pointer(p)) = r
}

func invalid(ps ...*C.float) bool {
	for _, p := range ps {
		if p == nil {
			return true
		}
	}
	return false
}

//export vib4d_vec4_add
func vib4d_vec4_add(a, b, out *C.float) C.int32_t {
	if invalid(a, b, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.Vec4Add(vec4(a), vec4(b)))
	return 0
}

//export vib4d_vec4_sub
func vib4d_vec4_sub(a, b, out *C.float) C.int32_t {
	if invalid(a, b, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.Vec4Sub(vec4(a), vec4(b)))
	return 0
}

//export vib4d_vec4_scale
func vib4d_vec4_scale(v *C.float, s C.float, out *C.float) C.int32_t {
	if invalid(v, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.Vec4Scale(vec4(v), float32(s)))
	return 0
}

//export vib4d_vec4_dot
func vib4d_vec4_dot(a, b *C.float) C.float {
	if invalid(a, b) {
		return 0
	}
	return C.float(capi.Vec4Dot(vec4(a), vec4(b)))
}

//export vib4d_vec4_length
func vib4d_vec4_length(v *C.float) C.float {
	if invalid(v) {
		return 0
	}
	return C.float(capi.Vec4Length(vec4(v)))
}

//export vib4d_vec4_normalize
func vib4d_vec4_normalize(v, out *C.float) C.int32_t {
	if invalid(v, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.Vec4Normalize(vec4(v)))
	return 0
}

//export vib4d_vec4_lerp
func vib4d_vec4_lerp(a, b *C.float, t C.float, out *C.float) C.int32_t {
	if invalid(a, b, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.Vec4Lerp(vec4(a), vec4(b), float32(t)))
	return 0
}

//export vib4d_mat4_identity
func vib4d_mat4_identity(out *C.float) C.int32_t {
	if invalid(out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setMat4(out, capi.Mat4Identity())
	return 0
}

//export vib4d_mat4_mul
func vib4d_mat4_mul(a, b, out *C.float) C.int32_t {
	if invalid(a, b, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setMat4(out, capi.Mat4Mul(mat4(a), mat4(b)))
	return 0
}

//export vib4d_mat4_mul_vec4
func vib4d_mat4_mul_vec4(m, v, out *C.float) C.int32_t {
	if invalid(m, v, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.Mat4MulVec4(mat4(m), vec4(v)))
	return 0
}

// angles is float[6] in XY, XZ, YZ, XW, YW, ZW order.
//
//export vib4d_mat4_rotation_from_angles
func vib4d_mat4_rotation_from_angles(angles, out *C.float) C.int32_t {
	if invalid(angles, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	a := *(*[math4d.PlaneCount]float32)(unsafe.Pointer(angles))
	setMat4(out, capi.RotationMatrix(a))
	return 0
}

//export vib4d_rotor_from_plane_angle
func vib4d_rotor_from_plane_angle(plane C.int32_t, angle C.float, out *C.float) C.int32_t {
	if invalid(out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	r, err := capi.RotorFromPlaneAngle(int32(plane), float32(angle))
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	setRotor(out, r)
	return 0
}

//export vib4d_rotor_mul
func vib4d_rotor_mul(a, b, out *C.float) C.int32_t {
	if invalid(a, b, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setRotor(out, capi.RotorMul(rotor(a), rotor(b)))
	return 0
}

//export vib4d_rotor_normalize
func vib4d_rotor_normalize(r, out *C.float) C.int32_t {
	if invalid(r, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setRotor(out, capi.RotorNormalize(rotor(r)))
	return 0
}

//export vib4d_rotor_rotate
func vib4d_rotor_rotate(r, v, out *C.float) C.int32_t {
	if invalid(r, v, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setVec4(out, capi.RotorRotate(rotor(r), vec4(v)))
	return 0
}

//export vib4d_rotor_to_mat4
func vib4d_rotor_to_mat4(r, out *C.float) C.int32_t {
	if invalid(r, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	setMat4(out, capi.RotorToMat4(rotor(r)))
	return 0
}

// out is float[3].
//
//export vib4d_project
func vib4d_project(kind C.int32_t, v *C.float, distance, shearX, shearY C.float, out *C.float) C.int32_t {
	if invalid(v, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	p, err := capi.Project(int32(kind), vec4(v), float32(distance), float32(shearX), float32(shearY))
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	*(*capi.Vec3f)(unsafe.Pointer(out)) = p
	return 0
}

// src holds n float[4] points and dst room for n float[3].
//
//export vib4d_project_batch
func vib4d_project_batch(kind C.int32_t, src *C.float, n C.int32_t, distance, shearX, shearY C.float, dst *C.float) C.int32_t {
	if n < 0 || (n > 0 && invalid(src, dst)) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	if n == 0 {
		return 0
	}
	in := unsafe.Slice((*capi.Vec4f)(unsafe.Pointer(src)), int(n))
	out := unsafe.Slice((*capi.Vec3f)(unsafe.Pointer(dst)), int(n))
	return C.int32_t(capi.Status(capi.ProjectBatch(int32(kind), out, in, float32(distance), float32(shearX), float32(shearY))))
}

// vib4d_engine_new returns a handle, never 0.
//
//export vib4d_engine_new
func vib4d_engine_new() C.uint64_t {
	return C.uint64_t(capi.NewEngine())
}

//export vib4d_engine_free
func vib4d_engine_free(h C.uint64_t) C.int32_t {
	return C.int32_t(capi.Status(capi.FreeEngine(capi.Handle(h))))
}

//export vib4d_engine_count
func vib4d_engine_count() C.int32_t {
	return C.int32_t(capi.EngineCount())
}

//export vib4d_engine_set_param
func vib4d_engine_set_param(h C.uint64_t, name *C.char, v C.float) C.int32_t {
	if name == nil {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	return C.int32_t(capi.Status(capi.SetParam(capi.Handle(h), C.GoString(name), float32(v))))
}

//export vib4d_engine_get_param
func vib4d_engine_get_param(h C.uint64_t, name *C.char, out *C.float) C.int32_t {
	if name == nil || out == nil {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	v, err := capi.GetParam(capi.Handle(h), C.GoString(name))
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	*out = C.float(v)
	return 0
}

//export vib4d_engine_set_angles
func vib4d_engine_set_angles(h C.uint64_t, angles *C.float) C.int32_t {
	if invalid(angles) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	a := *(*[math4d.PlaneCount]float32)(unsafe.Pointer(angles))
	return C.int32_t(capi.Status(capi.SetAngles(capi.Handle(h), a)))
}

//export vib4d_engine_rotation
func vib4d_engine_rotation(h C.uint64_t, t C.float, out *C.float) C.int32_t {
	if invalid(out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	m, err := capi.EngineRotation(capi.Handle(h), float32(t))
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	setMat4(out, m)
	return 0
}

//export vib4d_engine_presence
func vib4d_engine_presence(h C.uint64_t, p *C.float, t C.float, out *C.float) C.int32_t {
	if invalid(p, out) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	v, err := capi.Presence(capi.Handle(h), vec4(p), float32(t))
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	*out = C.float(v)
	return 0
}

// vib4d_engine_frame copies up to capacity projected points (float[3] each)
// into points and stores the engine's point count in count. Call with
// capacity 0 to size the buffer.
//
//export vib4d_engine_frame
func vib4d_engine_frame(h C.uint64_t, t C.float, points *C.float, capacity C.int32_t, count *C.int32_t) C.int32_t {
	if count == nil || capacity < 0 || (capacity > 0 && points == nil) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	flat, _, err := capi.Frame(capi.Handle(h), float32(t))
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	n := len(flat) / 3
	*count = C.int32_t(n)
	if capacity > 0 {
		dst := unsafe.Slice((*float32)(unsafe.Pointer(points)), 3*int(capacity))
		copy(dst, flat)
	}
	return 0
}

// vib4d_engine_edges works like vib4d_engine_frame for the edge list, two
// int32 point indices per edge.
//
//export vib4d_engine_edges
func vib4d_engine_edges(h C.uint64_t, edges *C.int32_t, capacity C.int32_t, count *C.int32_t) C.int32_t {
	if count == nil || capacity < 0 || (capacity > 0 && edges == nil) {
		return C.int32_t(capi.StatusInvalidArgument)
	}
	_, es, err := capi.Frame(capi.Handle(h), 0)
	if err != nil {
		return C.int32_t(capi.Status(err))
	}
	*count = C.int32_t(len(es))
	if capacity > 0 {
		dst := unsafe.Slice((*int32)(unsafe.Pointer(edges)), 2*int(capacity))
		for i, e := range es[:min(len(es), int(capacity))] {
			dst[2*i], dst[2*i+1] = int32(e[0]), int32(e[1])
		}
	}
	return 0
}

func main() {}
