package warp

import (
	"math"

	"github.com/taigrr/vib4d/pkg/math4d"
)

// Pentatope is the regular 5-cell centred on the origin.
type Pentatope struct {
	Size     float64 // circumradius
	Vertices [5]math4d.Vec4
}

// PentatopeEdges lists the ten vertex pairs.
var PentatopeEdges = [10][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 2}, {1, 3}, {1, 4},
	{2, 3}, {2, 4},
	{3, 4},
}

// PentatopeFaces lists the ten triangular faces.
var PentatopeFaces = [10][3]int{
	{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {0, 2, 3}, {0, 2, 4},
	{0, 3, 4}, {1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4},
}

// PentatopeCells lists the five tetrahedral cells. Cell i omits vertex i.
var PentatopeCells = [5][4]int{
	{1, 2, 3, 4}, {0, 2, 3, 4}, {0, 1, 3, 4}, {0, 1, 2, 4}, {0, 1, 2, 3},
}

// UnitPentatopeVertices returns the vertices of the 5-cell with unit
// circumradius: four alternating corners of a cube lowered below w = 0 and
// an apex on +w, scaled so all ten edges have equal length.
func UnitPentatopeVertices() [5]math4d.Vec4 {
	q := 1 / math.Sqrt(5)
	k := 1 / math.Sqrt(3.2)
	return [5]math4d.Vec4{
		math4d.V4(k, k, k, -q*k),
		math4d.V4(k, -k, -k, -q*k),
		math4d.V4(-k, k, -k, -q*k),
		math4d.V4(-k, -k, k, -q*k),
		math4d.V4(0, 0, 0, 4*q*k),
	}
}

// NewPentatope returns the 5-cell with circumradius size.
func NewPentatope(size float64) Pentatope {
	pt := Pentatope{Size: size}
	for i, v := range UnitPentatopeVertices() {
		pt.Vertices[i] = v.Scale(size)
	}
	return pt
}

// EdgeLength returns the common edge length.
func (pt Pentatope) EdgeLength() float64 {
	return pt.Vertices[0].Distance(pt.Vertices[1])
}

// FaceCentroid returns the centroid of face i.
func (pt Pentatope) FaceCentroid(i int) math4d.Vec4 {
	f := PentatopeFaces[i]
	return pt.Vertices[f[0]].Add(pt.Vertices[f[1]]).Add(pt.Vertices[f[2]]).Scale(1.0 / 3)
}

// CellCentroid returns the centroid of cell i.
func (pt Pentatope) CellCentroid(i int) math4d.Vec4 {
	c := PentatopeCells[i]
	var sum math4d.Vec4
	for _, v := range c {
		sum = sum.Add(pt.Vertices[v])
	}
	return sum.Scale(0.25)
}

// Edges returns the ten edges as vertex pairs.
func (pt Pentatope) Edges() [10][2]math4d.Vec4 {
	var out [10][2]math4d.Vec4
	for i, e := range PentatopeEdges {
		out[i] = [2]math4d.Vec4{pt.Vertices[e[0]], pt.Vertices[e[1]]}
	}
	return out
}
