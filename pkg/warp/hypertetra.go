package warp

import "github.com/taigrr/vib4d/pkg/math4d"

// idwBias keeps inverse-distance weights finite at a vertex.
const idwBias = 1e-4

// Hypertetra blends p toward its image on the pentatope of circumradius
// size. blend is clamped to [0, 1].
func Hypertetra(p math4d.Vec4, m TetraMethod, size, blend float64) math4d.Vec4 {
	return NewPentatope(size).Warp(p, m, blend)
}

// Warp blends p toward its image under method m.
func (pt Pentatope) Warp(p math4d.Vec4, m TetraMethod, blend float64) math4d.Vec4 {
	return mix(p, pt.Target(p, m), clamp01(blend))
}

// Target returns the fully warped image of p.
func (pt Pentatope) Target(p math4d.Vec4, m TetraMethod) math4d.Vec4 {
	switch m {
	case TetraEdges:
		return pt.NearestEdgePoint(p)
	case TetraCells:
		return pt.NearestCellCentroid(p)
	case TetraSurface:
		return pt.SurfaceProject(p)
	default:
		return pt.InverseDistance(p)
	}
}

// InverseDistance returns Σ wᵢvᵢ / Σ wᵢ with wᵢ = 1/(dᵢ² + 1e-4). The
// result always lies inside the 5-cell and reaches a vertex only in the
// limit, unlike a true barycentric reconstruction.
func (pt Pentatope) InverseDistance(p math4d.Vec4) math4d.Vec4 {
	var sum math4d.Vec4
	var total float64
	for _, v := range pt.Vertices {
		w := 1 / (p.DistanceSq(v) + idwBias)
		sum = sum.Add(v.Scale(w))
		total += w
	}
	return sum.Scale(1 / total)
}

// NearestEdgePoint returns the closest point to p on any edge. Ties go to
// the first edge in PentatopeEdges order.
func (pt Pentatope) NearestEdgePoint(p math4d.Vec4) math4d.Vec4 {
	best := p
	bestDist := -1.0
	for _, e := range PentatopeEdges {
		q := closestOnSegment(p, pt.Vertices[e[0]], pt.Vertices[e[1]])
		if d := p.DistanceSq(q); bestDist < 0 || d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

func closestOnSegment(p, a, b math4d.Vec4) math4d.Vec4 {
	ab := b.Sub(a)
	t := clamp01(p.Sub(a).Dot(ab) / ab.LenSq())
	return a.Add(ab.Scale(t))
}

// NearestCellCentroid returns the centroid of the cell whose centroid is
// closest to p.
func (pt Pentatope) NearestCellCentroid(p math4d.Vec4) math4d.Vec4 {
	best := pt.CellCentroid(0)
	bestDist := p.DistanceSq(best)
	for i := 1; i < len(PentatopeCells); i++ {
		c := pt.CellCentroid(i)
		if d := p.DistanceSq(c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// SurfaceProject projects p onto the hyperplane through the nearest face
// centroid c with normal c/|c|. In 4D a triangle has no unique normal; the
// centroid direction stands in for one.
func (pt Pentatope) SurfaceProject(p math4d.Vec4) math4d.Vec4 {
	c := pt.FaceCentroid(0)
	bestDist := p.DistanceSq(c)
	for i := 1; i < len(PentatopeFaces); i++ {
		fc := pt.FaceCentroid(i)
		if d := p.DistanceSq(fc); d < bestDist {
			c, bestDist = fc, d
		}
	}
	n := c.Normalize()
	return p.Sub(n.Scale(p.Sub(c).Dot(n)))
}

// HypertetraBatch warps src into dst, growing dst as needed.
func HypertetraBatch(dst, src []math4d.Vec4, m TetraMethod, size, blend float64) []math4d.Vec4 {
	pt := NewPentatope(size)
	dst = grow(dst, len(src))
	for i, p := range src {
		dst[i] = pt.Warp(p, m, blend)
	}
	return dst
}
