// Package system defines the rendering backends that evaluate the lattice
// field and the checks that keep them consistent with each other.
package system

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/shader"
)

// Kind distinguishes CPU reference backends from generated shaders.
type Kind int

const (
	Native Kind = iota
	Shader
)

func (k Kind) String() string {
	if k == Shader {
		return "shader"
	}
	return "native"
}

// Backend evaluates the shared field contract.
type Backend interface {
	Name() string
	Kind() Kind
	// Rotate applies the composed six-plane rotation.
	Rotate(a math4d.Angles, p math4d.Vec4) (math4d.Vec4, error)
	// Project runs rotate, warp and project.
	Project(in lattice.Inputs, p math4d.Vec4) (math4d.Vec3, error)
	// Presence evaluates the lattice field in [0, 1].
	Presence(in lattice.Inputs, p math4d.Vec4) (float64, error)
	// Color converts hue in degrees, saturation and value.
	Color(hue, saturation, value float64) (colorful.Color, error)
}

// ShaderBackend is a Backend backed by generated shader source.
type ShaderBackend interface {
	Backend
	System() System
	Language() shader.Lang
	Source() string
	Module() *shader.Module
	// Shade evaluates the program's entry point at a fragment coordinate.
	Shade(b shader.Bindings, frag [2]float64) (colorful.Color, error)
}

// Matrix is the reference backend: the lattice package with the Mat4
// composer.
type Matrix struct{}

func (Matrix) Name() string { return "matrix" }
func (Matrix) Kind() Kind   { return Native }

func (Matrix) Rotate(a math4d.Angles, p math4d.Vec4) (math4d.Vec4, error) {
	return math4d.RotateVec(a, p), nil
}

func (Matrix) Project(in lattice.Inputs, p math4d.Vec4) (math4d.Vec3, error) {
	return lattice.Projected(in, p), nil
}

func (Matrix) Presence(in lattice.Inputs, p math4d.Vec4) (float64, error) {
	return lattice.Presence(in, p), nil
}

func (Matrix) Color(hue, saturation, value float64) (colorful.Color, error) {
	return lattice.Color(hue, saturation, value), nil
}

// Rotor runs the same pipeline with the rotor sandwich product and batch
// projection.
type Rotor struct{}

func (Rotor) Name() string { return "rotor" }
func (Rotor) Kind() Kind   { return Native }

func (Rotor) Rotate(a math4d.Angles, p math4d.Vec4) (math4d.Vec4, error) {
	return math4d.RotationRotor(a).Rotate(p), nil
}

func (r Rotor) Project(in lattice.Inputs, p math4d.Vec4) (math4d.Vec3, error) {
	w := in.Warp.Apply(in.Geometry.Core(), math4d.RotationRotor(in.Angles).Rotate(p))
	var out [1]math4d.Vec3
	in.Projection.ProjectBatch(out[:0], []math4d.Vec4{w})
	return out[0], nil
}

func (r Rotor) Presence(in lattice.Inputs, p math4d.Vec4) (float64, error) {
	q, _ := r.Project(in, p)
	q = lattice.Displace(q, in.Chaos)
	return lattice.Field(in.Geometry.Base(), q, lattice.LatticeScale(in.GridDensity), lattice.Thickness(in.MorphFactor)), nil
}

func (Rotor) Color(hue, saturation, value float64) (colorful.Color, error) {
	return lattice.Color(hue, saturation, value), nil
}
