package lattice

import (
	"math"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
)

// Inputs is everything the presence field reads. It is a plain value so a
// frame can evaluate it from many goroutines.
type Inputs struct {
	Geometry    geometry.Index
	Angles      math4d.Angles
	Projection  math4d.Projection
	Warp        geometry.WarpOptions
	GridDensity float64
	MorphFactor float64
	Chaos       float64
}

// DefaultInputs returns the field inputs of a freshly initialized scene.
func DefaultInputs() Inputs {
	return Inputs{
		Geometry:    0,
		Projection:  math4d.DefaultProjection(),
		Warp:        geometry.DefaultWarpOptions(),
		GridDensity: 15,
		MorphFactor: 1,
		Chaos:       0.2,
	}
}

// Compiled caches the rotation matrix of an Inputs value.
type Compiled struct {
	Inputs
	Rotation math4d.Mat4
}

// Compile precomputes the per-frame constants.
func (in Inputs) Compile() Compiled {
	return Compiled{Inputs: in, Rotation: math4d.Rotation(in.Angles)}
}

// Rotate applies the composed six-plane rotation.
func (c Compiled) Rotate(p math4d.Vec4) math4d.Vec4 {
	return c.Rotation.MulVec4(p)
}

// WarpPoint applies the core embedding selected by the geometry index.
func (c Compiled) WarpPoint(p math4d.Vec4) math4d.Vec4 {
	return c.Inputs.Warp.Apply(c.Geometry.Core(), p)
}

// Projected runs rotate, warp and project on p.
func (c Compiled) Projected(p math4d.Vec4) math4d.Vec3 {
	return c.Projection.Project(c.WarpPoint(c.Rotate(p)))
}

// Displace applies the chaos perturbation to a projected point.
func Displace(p math4d.Vec3, chaos float64) math4d.Vec3 {
	k := chaos * 0.1
	return math4d.V3(
		p.X+k*math.Sin(p.Y*13),
		p.Y+k*math.Sin(p.Z*13),
		p.Z+k*math.Sin(p.X*13),
	)
}

// Presence evaluates the field at a 4D point, in [0, 1].
func (c Compiled) Presence(p math4d.Vec4) float64 {
	q := Displace(c.Projected(p), c.Chaos)
	return Field(c.Geometry.Base(), q, LatticeScale(c.GridDensity), Thickness(c.MorphFactor))
}

// Presence is a convenience for a single evaluation.
func Presence(in Inputs, p math4d.Vec4) float64 {
	return in.Compile().Presence(p)
}

// Projected is a convenience for a single evaluation.
func Projected(in Inputs, p math4d.Vec4) math4d.Vec3 {
	return in.Compile().Projected(p)
}
