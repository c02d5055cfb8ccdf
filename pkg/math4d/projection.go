package math4d

import (
	"fmt"
	"math"
	"strings"
)

// ProjectionEpsilon is the smallest denominator magnitude a projection will
// divide by.
const ProjectionEpsilon = 1e-4

// ProjectionKind selects the 4D to 3D projection law.
type ProjectionKind int

const (
	PerspectiveProjection ProjectionKind = iota
	StereographicProjection
	OrthographicProjection
	ObliqueProjection
)

var projectionNames = [...]string{"perspective", "stereographic", "orthographic", "oblique"}

func (k ProjectionKind) String() string {
	if k < 0 || int(k) >= len(projectionNames) {
		return fmt.Sprintf("ProjectionKind(%d)", int(k))
	}
	return projectionNames[k]
}

// ParseProjectionKind parses a projection name.
func ParseProjectionKind(s string) (ProjectionKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range projectionNames {
		if n == s {
			return ProjectionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown projection %q", s)
}

// Projection maps rotated 4D points to 3D.
type Projection struct {
	Kind ProjectionKind

	// Distance is the viewer distance for perspective projection. Smaller
	// values foreshorten more.
	Distance float64

	// Radius scales stereographic projection; the pole sits at w = Radius.
	Radius float64

	// ShearX and ShearY displace x and y by w for oblique projection.
	ShearX, ShearY float64

	// Epsilon bounds denominators away from zero. Zero means
	// ProjectionEpsilon.
	Epsilon float64
}

// DefaultProjection returns a perspective projection at distance 3.5.
func DefaultProjection() Projection {
	return Projection{Kind: PerspectiveProjection, Distance: 3.5, Radius: 1, Epsilon: ProjectionEpsilon}
}

// ProjectionError reports a degenerate projection parameter.
type ProjectionError struct {
	Field string
	Value float64
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection %s must be positive and finite, got %v", e.Field, e.Value)
}

// Validate rejects parameters that make the projection meaningless.
func (p Projection) Validate() error {
	if p.Kind < PerspectiveProjection || p.Kind > ObliqueProjection {
		return fmt.Errorf("unknown projection kind %d", int(p.Kind))
	}
	if !positive(p.Epsilon) && p.Epsilon != 0 {
		return &ProjectionError{Field: "epsilon", Value: p.Epsilon}
	}
	switch p.Kind {
	case PerspectiveProjection:
		if !positive(p.Distance) {
			return &ProjectionError{Field: "distance", Value: p.Distance}
		}
	case StereographicProjection:
		if !positive(p.Radius) {
			return &ProjectionError{Field: "radius", Value: p.Radius}
		}
	case ObliqueProjection:
		if math.IsNaN(p.ShearX) || math.IsInf(p.ShearX, 0) {
			return &ProjectionError{Field: "shearX", Value: p.ShearX}
		}
		if math.IsNaN(p.ShearY) || math.IsInf(p.ShearY, 0) {
			return &ProjectionError{Field: "shearY", Value: p.ShearY}
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (p Projection) epsilon() float64 {
	if p.Epsilon > 0 {
		return p.Epsilon
	}
	return ProjectionEpsilon
}

// ClampDenominator returns d, or ±eps when |d| < eps. The sign of d is kept
// and zero is treated as positive.
func ClampDenominator(d, eps float64) float64 {
	if math.Abs(d) >= eps {
		return d
	}
	if d < 0 {
		return -eps
	}
	return eps
}

// Denominator returns the clamped divisor used for v. Orthographic and
// oblique projections do not divide and report 1.
func (p Projection) Denominator(v Vec4) float64 {
	switch p.Kind {
	case PerspectiveProjection:
		return ClampDenominator(p.Distance+v.W, p.epsilon())
	case StereographicProjection:
		return ClampDenominator(p.radius()-v.W, p.epsilon())
	}
	return 1
}

// EffectiveRadius is the stereographic radius in use; zero means 1.
func (p Projection) EffectiveRadius() float64 { return p.radius() }

func (p Projection) radius() float64 {
	if p.Radius == 0 {
		return 1
	}
	return p.Radius
}

// Project maps v to 3D.
func (p Projection) Project(v Vec4) Vec3 {
	var out Vec3
	p.ProjectTo(&out, v)
	return out
}

// ProjectTo stores the projection of v in dst.
func (p Projection) ProjectTo(dst *Vec3, v Vec4) {
	switch p.Kind {
	case PerspectiveProjection:
		f := p.Distance / p.Denominator(v)
		dst.X, dst.Y, dst.Z = v.X*f, v.Y*f, v.Z*f
	case StereographicProjection:
		f := p.radius() / p.Denominator(v)
		dst.X, dst.Y, dst.Z = v.X*f, v.Y*f, v.Z*f
	case ObliqueProjection:
		dst.X, dst.Y, dst.Z = v.X+p.ShearX*v.W, v.Y+p.ShearY*v.W, v.Z
	default:
		dst.X, dst.Y, dst.Z = v.X, v.Y, v.Z
	}
}

// ProjectBatch projects every point of src into dst, growing dst when it is
// too short, and returns the filled slice.
func (p Projection) ProjectBatch(dst []Vec3, src []Vec4) []Vec3 {
	if cap(dst) < len(src) {
		dst = make([]Vec3, len(src))
	}
	dst = dst[:len(src)]
	for i := range src {
		p.ProjectTo(&dst[i], src[i])
	}
	return dst
}

// Perspective projects v with viewer distance d.
func Perspective(v Vec4, d float64) Vec3 {
	return Projection{Kind: PerspectiveProjection, Distance: d}.Project(v)
}

// Stereographic projects v from the pole of the unit 3-sphere.
func Stereographic(v Vec4) Vec3 {
	return Projection{Kind: StereographicProjection, Radius: 1}.Project(v)
}

// Orthographic drops w.
func Orthographic(v Vec4) Vec3 {
	return v.XYZ()
}

// Oblique shears x and y by w before dropping it.
func Oblique(v Vec4, shearX, shearY float64) Vec3 {
	return Projection{Kind: ObliqueProjection, ShearX: shearX, ShearY: shearY}.Project(v)
}

// Slice keeps points within thickness of the hyperplane w = sliceW. alpha
// fades linearly to 0 at the slab boundary when fade is set.
func Slice(v Vec4, sliceW, thickness float64, fade bool) (p Vec3, alpha float64, ok bool) {
	dist := math.Abs(v.W - sliceW)
	if dist > thickness {
		return Vec3{}, 0, false
	}
	alpha = 1
	if fade && thickness > 0 {
		alpha = math.Max(0, math.Min(1, 1-dist/thickness))
	}
	return v.XYZ(), alpha, true
}
