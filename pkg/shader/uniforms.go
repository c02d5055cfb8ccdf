package shader

import (
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
)

// StandardUniforms is the uniform table every program declares. Hue is in
// degrees and rotations in radians; conversions happen inside the shader.
var StandardUniforms = []Uniform{
	{Name: "time", T: Float, Unit: "seconds"},
	{Name: "resolution", T: Vec2, Unit: "pixels"},
	{Name: "geometry", T: Float, Unit: "index"},
	{Name: "rotXY", T: Float, Unit: "radians"},
	{Name: "rotXZ", T: Float, Unit: "radians"},
	{Name: "rotYZ", T: Float, Unit: "radians"},
	{Name: "rotXW", T: Float, Unit: "radians"},
	{Name: "rotYW", T: Float, Unit: "radians"},
	{Name: "rotZW", T: Float, Unit: "radians"},
	{Name: "projection", T: Float, Unit: "kind"},
	{Name: "dimension", T: Float, Unit: "distance"},
	{Name: "projRadius", T: Float, Unit: "distance"},
	{Name: "shearX", T: Float, Unit: "ratio"},
	{Name: "shearY", T: Float, Unit: "ratio"},
	{Name: "sphereMethod", T: Float, Unit: "kind"},
	{Name: "tetraMethod", T: Float, Unit: "kind"},
	{Name: "warpRadius", T: Float, Unit: "distance"},
	{Name: "warpSize", T: Float, Unit: "distance"},
	{Name: "warpBlend", T: Float, Unit: "ratio"},
	{Name: "gridDensity", T: Float, Unit: "cells"},
	{Name: "morphFactor", T: Float, Unit: "ratio"},
	{Name: "chaos", T: Float, Unit: "ratio"},
	{Name: "speed", T: Float, Unit: "ratio"},
	{Name: "hue", T: Float, Unit: "degrees"},
	{Name: "saturation", T: Float, Unit: "ratio"},
	{Name: "intensity", T: Float, Unit: "ratio"},
}

// HueUniform is the uniform carrying hue in degrees.
const HueUniform = "hue"

// Bindings are the host values behind StandardUniforms.
type Bindings struct {
	Field      lattice.Inputs
	Hue        float64 // degrees
	Saturation float64
	Intensity  float64
	Speed      float64
	Time       float64
	Resolution [2]float64
}

// DefaultBindings pairs lattice.DefaultInputs with the default colour.
func DefaultBindings() Bindings {
	return Bindings{
		Field:      lattice.DefaultInputs(),
		Hue:        200,
		Saturation: 0.8,
		Intensity:  0.5,
		Speed:      1,
		Resolution: [2]float64{1, 1},
	}
}

// Values converts b to uniform values keyed by uniform name.
func (b Bindings) Values() map[string]Value {
	in := b.Field
	v := map[string]Value{
		"time":         Scalar(b.Time),
		"resolution":   Vector(b.Resolution[0], b.Resolution[1]),
		"geometry":     Scalar(float64(in.Geometry)),
		"projection":   Scalar(float64(in.Projection.Kind)),
		"dimension":    Scalar(in.Projection.Distance),
		"projRadius":   Scalar(in.Projection.EffectiveRadius()),
		"shearX":       Scalar(in.Projection.ShearX),
		"shearY":       Scalar(in.Projection.ShearY),
		"sphereMethod": Scalar(float64(in.Warp.SphereMethod)),
		"tetraMethod":  Scalar(float64(in.Warp.TetraMethod)),
		"warpRadius":   Scalar(in.Warp.Radius),
		"warpSize":     Scalar(in.Warp.Size),
		"warpBlend":    Scalar(in.Warp.Blend),
		"gridDensity":  Scalar(in.GridDensity),
		"morphFactor":  Scalar(in.MorphFactor),
		"chaos":        Scalar(in.Chaos),
		"speed":        Scalar(b.Speed),
		HueUniform:     Scalar(b.Hue),
		"saturation":   Scalar(b.Saturation),
		"intensity":    Scalar(b.Intensity),
	}
	for _, pl := range math4d.Planes {
		v["rot"+pl.String()] = Scalar(in.Angles[pl])
	}
	return v
}
