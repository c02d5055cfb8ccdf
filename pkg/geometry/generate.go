package geometry

import (
	"fmt"
	"math"

	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/warp"
)

// WarpOptions configures the core embeddings.
type WarpOptions struct {
	SphereMethod warp.SphereMethod
	TetraMethod  warp.TetraMethod
	Radius       float64 // hypersphere radius
	Size         float64 // pentatope circumradius
	Blend        float64 // 0 leaves the base shape, 1 lands on the manifold
}

// DefaultWarpOptions returns a fully blended radial and tetrahedral warp on
// unit manifolds.
func DefaultWarpOptions() WarpOptions {
	return WarpOptions{
		SphereMethod: warp.SphereRadial,
		TetraMethod:  warp.TetraTetrahedral,
		Radius:       1,
		Size:         1,
		Blend:        1,
	}
}

// Apply warps p according to core. Base leaves p unchanged.
func (o WarpOptions) Apply(core CoreType, p math4d.Vec4) math4d.Vec4 {
	switch core {
	case Hypersphere:
		return warp.Hypersphere(p, o.SphereMethod, o.Radius, o.Blend)
	case Hypertetrahedron:
		return warp.Hypertetra(p, o.TetraMethod, o.Size, o.Blend)
	}
	return p
}

// ApplyAll warps every vertex in place.
func (o WarpOptions) ApplyAll(core CoreType, pts []math4d.Vec4) {
	switch core {
	case Hypersphere:
		warp.HypersphereBatch(pts, pts, o.SphereMethod, o.Radius, o.Blend)
	case Hypertetrahedron:
		warp.HypertetraBatch(pts, pts, o.TetraMethod, o.Size, o.Blend)
	}
}

// Options controls Generate.
type Options struct {
	Resolution int
	Warp       WarpOptions
}

// DefaultOptions returns resolution 16 with DefaultWarpOptions.
func DefaultOptions() Options {
	return Options{Resolution: 16, Warp: DefaultWarpOptions()}
}

// Validate rejects unknown methods and degenerate manifolds.
func (o WarpOptions) Validate() error {
	switch {
	case !o.SphereMethod.Valid():
		return fmt.Errorf("unknown sphere method %d", o.SphereMethod)
	case !o.TetraMethod.Valid():
		return fmt.Errorf("unknown tetra method %d", o.TetraMethod)
	case !(o.Radius > 0) || math.IsInf(o.Radius, 0):
		return fmt.Errorf("hypersphere radius %g must be positive", o.Radius)
	case !(o.Size > 0) || math.IsInf(o.Size, 0):
		return fmt.Errorf("pentatope size %g must be positive", o.Size)
	case math.IsNaN(o.Blend):
		return fmt.Errorf("warp blend is NaN")
	}
	return nil
}

// GenerateBase builds the unwarped topology of the index's base shape. The
// mesh carries the index's name so callers that warp after rotating keep it.
func GenerateBase(i Index, resolution int) (*Mesh, error) {
	b, _, err := Decode(i)
	if err != nil {
		return nil, err
	}
	m := generators[b](ClampResolution(resolution))
	m.Name = i.Name()
	m.Index = i
	return m, nil
}

// Generate builds the mesh for a geometry index: the base shape's topology
// with its core warp applied to every vertex.
func Generate(i Index, opts Options) (*Mesh, error) {
	m, err := GenerateBase(i, opts.Resolution)
	if err != nil {
		return nil, err
	}
	if err := opts.Warp.Validate(); err != nil {
		return nil, fmt.Errorf("generate %s: %w", i.Name(), err)
	}
	opts.Warp.ApplyAll(i.Core(), m.Vertices)
	return m, nil
}

// GenerateAll builds every index with the same options.
func GenerateAll(opts Options) ([IndexCount]*Mesh, error) {
	var out [IndexCount]*Mesh
	for i := range Index(IndexCount) {
		m, err := Generate(i, opts)
		if err != nil {
			return out, err
		}
		out[i] = m
	}
	return out, nil
}
