// Package scene owns the visual parameters of one rendering surface and
// turns a snapshot of them into per-frame geometry.
package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/shader"
	"github.com/taigrr/vib4d/pkg/warp"
)

// Params is the flat visual parameter record of a scene. Hue is in degrees
// and angles are in radians.
type Params struct {
	Geometry geometry.Index
	Angles   math4d.Angles

	Hue         float64
	Saturation  float64
	Intensity   float64
	Speed       float64
	Chaos       float64
	GridDensity float64
	MorphFactor float64
	Dimension   float64

	Projection   math4d.ProjectionKind
	ShearX       float64
	ShearY       float64
	WarpBlend    float64
	SphereMethod warp.SphereMethod
	TetraMethod  warp.TetraMethod

	// Autorotate spins the three 4D planes with time.
	Autorotate bool
}

// Defaults returns the parameters of a freshly initialized scene.
func Defaults() Params {
	return Params{
		Hue:          200,
		Saturation:   0.8,
		Intensity:    0.5,
		Speed:        1,
		Chaos:        0.2,
		GridDensity:  15,
		MorphFactor:  1,
		Dimension:    3.5,
		Projection:   math4d.PerspectiveProjection,
		WarpBlend:    1,
		SphereMethod: warp.SphereRadial,
		TetraMethod:  warp.TetraTetrahedral,
	}
}

// Range describes the valid values of one numeric field.
type Range struct {
	Name    string
	Min     float64
	Max     float64
	Unit    string
	Integer bool
	// OpenMax excludes Max itself.
	OpenMax bool
	// Unbounded accepts any finite value; Min and Max are conventional.
	Unbounded bool
}

// Contains reports whether v is acceptable.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if r.Integer && v != math.Trunc(v) {
		return false
	}
	if r.Unbounded {
		return true
	}
	if v < r.Min {
		return false
	}
	if r.OpenMax {
		return v < r.Max
	}
	return v <= r.Max
}

func (r Range) describe() string {
	closer := "]"
	if r.OpenMax {
		closer = ")"
	}
	s := fmt.Sprintf("[%g, %g%s", r.Min, r.Max, closer)
	if r.Integer {
		s = "integer in " + s
	}
	return s
}

type field struct {
	Range
	get func(*Params) float64
	set func(*Params, float64)
}

func angleField(pl math4d.Plane) field {
	return field{
		Range: Range{Name: "rot4d" + pl.String(), Min: 0, Max: 2 * math.Pi, Unit: "radians", Unbounded: true},
		get:   func(p *Params) float64 { return p.Angles[pl] },
		set:   func(p *Params, v float64) { p.Angles[pl] = v },
	}
}

var fields = []field{
	{Range{Name: "geometry", Max: geometry.IndexCount - 1, Integer: true},
		func(p *Params) float64 { return float64(p.Geometry) },
		func(p *Params, v float64) { p.Geometry = geometry.Index(v) }},
	angleField(math4d.XY),
	angleField(math4d.XZ),
	angleField(math4d.YZ),
	angleField(math4d.XW),
	angleField(math4d.YW),
	angleField(math4d.ZW),
	{Range{Name: "hue", Max: 360, Unit: "degrees", OpenMax: true},
		func(p *Params) float64 { return p.Hue },
		func(p *Params, v float64) { p.Hue = v }},
	{Range{Name: "saturation", Max: 1},
		func(p *Params) float64 { return p.Saturation },
		func(p *Params, v float64) { p.Saturation = v }},
	{Range{Name: "intensity", Max: 1},
		func(p *Params) float64 { return p.Intensity },
		func(p *Params, v float64) { p.Intensity = v }},
	{Range{Name: "speed", Min: 0.1, Max: 3},
		func(p *Params) float64 { return p.Speed },
		func(p *Params, v float64) { p.Speed = v }},
	{Range{Name: "chaos", Max: 1},
		func(p *Params) float64 { return p.Chaos },
		func(p *Params, v float64) { p.Chaos = v }},
	{Range{Name: "gridDensity", Min: 4, Max: 100},
		func(p *Params) float64 { return p.GridDensity },
		func(p *Params, v float64) { p.GridDensity = v }},
	{Range{Name: "morphFactor", Max: 2},
		func(p *Params) float64 { return p.MorphFactor },
		func(p *Params, v float64) { p.MorphFactor = v }},
	{Range{Name: "dimension", Min: 3, Max: 4.5},
		func(p *Params) float64 { return p.Dimension },
		func(p *Params, v float64) { p.Dimension = v }},
	{Range{Name: "projection", Max: float64(math4d.ObliqueProjection), Integer: true},
		func(p *Params) float64 { return float64(p.Projection) },
		func(p *Params, v float64) { p.Projection = math4d.ProjectionKind(v) }},
	{Range{Name: "shearX", Min: -2, Max: 2},
		func(p *Params) float64 { return p.ShearX },
		func(p *Params, v float64) { p.ShearX = v }},
	{Range{Name: "shearY", Min: -2, Max: 2},
		func(p *Params) float64 { return p.ShearY },
		func(p *Params, v float64) { p.ShearY = v }},
	{Range{Name: "warpBlend", Max: 1},
		func(p *Params) float64 { return p.WarpBlend },
		func(p *Params, v float64) { p.WarpBlend = v }},
	{Range{Name: "sphereMethod", Max: float64(warp.SphereHopf), Integer: true},
		func(p *Params) float64 { return float64(p.SphereMethod) },
		func(p *Params, v float64) { p.SphereMethod = warp.SphereMethod(v) }},
	{Range{Name: "tetraMethod", Max: float64(warp.TetraSurface), Integer: true},
		func(p *Params) float64 { return float64(p.TetraMethod) },
		func(p *Params, v float64) { p.TetraMethod = warp.TetraMethod(v) }},
}

// Ranges lists every numeric field in declaration order.
func Ranges() []Range {
	out := make([]Range, len(fields))
	for i, f := range fields {
		out[i] = f.Range
	}
	return out
}

var ErrUnknownField = errors.New("scene: unknown parameter")

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scene: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func lookupField(name string) (*field, error) {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i], nil
		}
	}
	for i := range fields {
		if strings.EqualFold(fields[i].Name, name) {
			return &fields[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FieldRange returns the range of a named field.
func FieldRange(name string) (Range, error) {
	f, err := lookupField(name)
	if err != nil {
		return Range{}, err
	}
	return f.Range, nil
}

// Field reads a numeric field by name. Names match case-insensitively.
func (p *Params) Field(name string) (float64, error) {
	f, err := lookupField(name)
	if err != nil {
		return 0, err
	}
	return f.get(p), nil
}

// SetField validates v and stores it. On error p is unchanged.
func (p *Params) SetField(name string, v float64) error {
	f, err := lookupField(name)
	if err != nil {
		return err
	}
	if err := f.check(v); err != nil {
		return err
	}
	f.set(p, v)
	return nil
}

func (f *field) check(v float64) error {
	switch {
	case math.IsNaN(v):
		return &ValidationError{Field: f.Name, Value: v, Reason: "not a number"}
	case math.IsInf(v, 0):
		return &ValidationError{Field: f.Name, Value: v, Reason: "not finite"}
	case !f.Contains(v):
		return &ValidationError{Field: f.Name, Value: v, Reason: "want " + f.describe()}
	}
	return nil
}

// Validate checks every field and returns the first failure.
func (p Params) Validate() error {
	for i := range fields {
		if err := fields[i].check(fields[i].get(&p)); err != nil {
			return err
		}
	}
	return p.projection().Validate()
}

func (p Params) projection() math4d.Projection {
	return math4d.Projection{
		Kind:     p.Projection,
		Distance: p.Dimension,
		Radius:   1,
		ShearX:   p.ShearX,
		ShearY:   p.ShearY,
		Epsilon:  math4d.ProjectionEpsilon,
	}
}

func (p Params) warpOptions() geometry.WarpOptions {
	return geometry.WarpOptions{
		SphereMethod: p.SphereMethod,
		TetraMethod:  p.TetraMethod,
		Radius:       1,
		Size:         1,
		Blend:        p.WarpBlend,
	}
}

// Autorotation rates in radians per second, before speed scaling.
var autorotateRates = math4d.Angles{math4d.XW: 0.3, math4d.YW: 0.2, math4d.ZW: 0.15}

// AnglesAt returns the rotation in effect at time t seconds.
func (p Params) AnglesAt(t float64) math4d.Angles {
	if !p.Autorotate {
		return p.Angles
	}
	return p.Angles.Add(autorotateRates.Scale(t * p.Speed))
}

// Inputs returns the presence field inputs at time t.
func (p Params) Inputs(t float64) lattice.Inputs {
	return lattice.Inputs{
		Geometry:    p.Geometry,
		Angles:      p.AnglesAt(t),
		Projection:  p.projection(),
		Warp:        p.warpOptions(),
		GridDensity: p.GridDensity,
		MorphFactor: p.MorphFactor,
		Chaos:       p.Chaos,
	}
}

// Bindings returns the shader uniform values for time t at resolution res.
func (p Params) Bindings(t float64, res [2]float64) shader.Bindings {
	return shader.Bindings{
		Field:      p.Inputs(t),
		Hue:        p.Hue,
		Saturation: p.Saturation,
		Intensity:  p.Intensity,
		Speed:      p.Speed,
		Time:       t,
		Resolution: res,
	}
}
