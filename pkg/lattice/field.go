// Package lattice is the reference implementation of the presence field
// every rendering backend evaluates. Shader backends are generated from the
// same formulas and checked against this package.
package lattice

import (
	"math"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
)

const tau = 2 * math.Pi

// LatticeScale converts gridDensity into lattice cells per unit.
func LatticeScale(gridDensity float64) float64 {
	return gridDensity * 0.1
}

// Thickness returns the line half-width for a morph factor.
func Thickness(morph float64) float64 {
	return 0.03 + 0.02*morph
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// smoothstep follows the GLSL definition.
func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

// line is 1 on d = 0 and fades to 0 at |d| = w.
func line(d, w float64) float64 {
	return 1 - smoothstep(0, w, math.Abs(d))
}

// cell returns the position inside the current lattice cell, in
// [-0.5, 0.5) per axis.
func cell(q math4d.Vec3) math4d.Vec3 {
	return math4d.V3(fract(q.X)-0.5, fract(q.Y)-0.5, fract(q.Z)-0.5)
}

// middle returns the median of three values.
func middle(a, b, c float64) float64 {
	return math.Max(math.Min(a, b), math.Min(math.Max(a, b), c))
}

// cubeEdges lights cell edges, where two face distances are small at once,
// and faintly the faces.
func cubeEdges(c math4d.Vec3, th float64) float64 {
	bx := 0.5 - math.Abs(c.X)
	by := 0.5 - math.Abs(c.Y)
	bz := 0.5 - math.Abs(c.Z)
	edge := line(middle(bx, by, bz), th)
	face := line(math.Min(bx, math.Min(by, bz)), th)
	return math.Max(edge, 0.3*face)
}

// Hypercube is the cubic lattice.
func Hypercube(p math4d.Vec3, g, th float64) float64 {
	return cubeEdges(cell(p.Scale(g)), th)
}

// tetraCorners are alternate corners of the half-size cell cube.
var tetraCorners = [4]math4d.Vec3{
	{X: 0.25, Y: 0.25, Z: 0.25},
	{X: 0.25, Y: -0.25, Z: -0.25},
	{X: -0.25, Y: 0.25, Z: -0.25},
	{X: -0.25, Y: -0.25, Z: 0.25},
}

// Tetrahedron adds tetrahedral nodes to the cubic lattice. The nodes are
// small, so the result is close to Hypercube at most densities.
func Tetrahedron(p math4d.Vec3, g, th float64) float64 {
	c := cell(p.Scale(g))
	d := c.Sub(tetraCorners[0]).Len()
	for _, v := range tetraCorners[1:] {
		d = math.Min(d, c.Sub(v).Len())
	}
	node := line(d-0.04, 2*th)
	return math.Max(cubeEdges(c, th), 0.5*node)
}

// Sphere draws concentric shells around the origin.
func Sphere(p math4d.Vec3, g, th float64) float64 {
	s := fract(p.Len() * g)
	return line(s-0.5, 2*th)
}

// Torus places a ring torus in every cell.
func Torus(p math4d.Vec3, g, th float64) float64 {
	c := cell(p.Scale(g))
	rx := math.Hypot(c.X, c.Z) - 0.3 // length(c.xz) - 0.3
	d := math.Hypot(rx, c.Y) - 0.1
	return line(d, th)
}

// Klein modulates a cylinder radius by sin 2θ, written without atan so
// shader compilers agree on the branch cut.
func Klein(p math4d.Vec3, g, th float64) float64 {
	c := cell(p.Scale(g))
	r2 := c.X*c.X + c.Y*c.Y
	s2 := 2 * c.X * c.Y / math.Max(r2, 1e-6)
	k := s2 * math.Cos(c.Z*tau)
	d := math.Sqrt(r2) - (0.25 + 0.1*k)
	return line(d, th)
}

// Fractal folds the cell three times before measuring a sphere.
func Fractal(p math4d.Vec3, g, th float64) float64 {
	f := cell(p.Scale(g))
	for range 3 {
		f = math4d.V3(math.Abs(f.X)*2-0.5, math.Abs(f.Y)*2-0.5, math.Abs(f.Z)*2-0.5)
	}
	d := (f.Len() - 0.4) / 8
	return line(d, th)
}

// Wave draws sheets displaced by an interference pattern.
func Wave(p math4d.Vec3, g, th float64) float64 {
	q := p.Scale(g)
	s := fract(q.Y + 0.25*math.Sin(q.X*tau)*math.Cos(q.Z*tau))
	return line(s-0.5, 2*th)
}

// Crystal draws an octahedral shell in every cell.
func Crystal(p math4d.Vec3, g, th float64) float64 {
	c := cell(p.Scale(g))
	d := math.Abs(c.X) + math.Abs(c.Y) + math.Abs(c.Z) - 0.4
	return line(d, th)
}

// FieldFunc evaluates one base shape's lattice at a projected point with
// lattice scale g and thickness th.
type FieldFunc func(p math4d.Vec3, g, th float64) float64

var fields = [geometry.BaseShapeCount]FieldFunc{
	geometry.Tetrahedron: Tetrahedron,
	geometry.Hypercube:   Hypercube,
	geometry.Sphere:      Sphere,
	geometry.Torus:       Torus,
	geometry.KleinBottle: Klein,
	geometry.Fractal:     Fractal,
	geometry.Wave:        Wave,
	geometry.Crystal:     Crystal,
}

// Field evaluates the lattice of a base shape, clamped to [0, 1].
func Field(b geometry.BaseShape, p math4d.Vec3, g, th float64) float64 {
	if !b.Valid() {
		return 0
	}
	return clamp(fields[b](p, g, th), 0, 1)
}
