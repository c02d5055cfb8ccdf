package geometry

import (
	"math"

	"github.com/taigrr/vib4d/pkg/math4d"
)

// Mesh is 4D vertex and edge topology. Edges index into Vertices.
// Point-cloud shapes have no edges.
type Mesh struct {
	Name     string
	Index    Index
	Vertices []math4d.Vec4
	Edges    [][2]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// EdgeCount returns the number of edges.
func (m *Mesh) EdgeCount() int {
	return len(m.Edges)
}

// Bounds returns the component-wise extent of the vertices.
func (m *Mesh) Bounds() (lo, hi math4d.Vec4) {
	if len(m.Vertices) == 0 {
		return
	}
	inf := math.Inf(1)
	lo = math4d.V4(inf, inf, inf, inf)
	hi = lo.Negate()
	for _, v := range m.Vertices {
		lo = math4d.V4(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z), math.Min(lo.W, v.W))
		hi = math4d.V4(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z), math.Max(hi.W, v.W))
	}
	return lo, hi
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Name: m.Name, Index: m.Index}
	c.Vertices = append([]math4d.Vec4(nil), m.Vertices...)
	c.Edges = append([][2]int(nil), m.Edges...)
	return c
}

// Transform returns a copy with fn applied to every vertex. Topology is
// shared with m.
func (m *Mesh) Transform(fn func(math4d.Vec4) math4d.Vec4) *Mesh {
	out := &Mesh{Name: m.Name, Index: m.Index, Edges: m.Edges}
	out.Vertices = make([]math4d.Vec4, len(m.Vertices))
	for i, v := range m.Vertices {
		out.Vertices[i] = fn(v)
	}
	return out
}

// Apply returns a copy with every vertex multiplied by mat.
func (m *Mesh) Apply(mat math4d.Mat4) *Mesh {
	return m.Transform(mat.MulVec4)
}

// builder accumulates vertices and edges while a generator runs.
type builder struct {
	verts []math4d.Vec4
	edges [][2]int
}

func (b *builder) add(v math4d.Vec4) int {
	b.verts = append(b.verts, v)
	return len(b.verts) - 1
}

func (b *builder) edge(i, j int) {
	b.edges = append(b.edges, [2]int{i, j})
}

// subdivide adds the polytope corners once and threads each edge through
// resolution-2 interior points, so shared corners stay shared.
func (b *builder) subdivide(corners []math4d.Vec4, edges [][2]int, resolution int) {
	base := len(b.verts)
	b.verts = append(b.verts, corners...)
	for _, e := range edges {
		prev := base + e[0]
		for k := 1; k < resolution-1; k++ {
			t := float64(k) / float64(resolution-1)
			cur := b.add(corners[e[0]].Lerp(corners[e[1]], t))
			b.edge(prev, cur)
			prev = cur
		}
		b.edge(prev, base+e[1])
	}
}

// grid adds an nu×nv lattice of f(i, j) with edges along both directions,
// wrapping where requested. wrapU may remap the seam through seamV.
func (b *builder) grid(nu, nv int, wrapU, wrapV bool, seamV func(j int) int, f func(i, j int) math4d.Vec4) {
	base := len(b.verts)
	for i := range nu {
		for j := range nv {
			b.add(f(i, j))
		}
	}
	at := func(i, j int) int { return base + i*nv + j }
	for i := range nu {
		for j := range nv {
			if j+1 < nv {
				b.edge(at(i, j), at(i, j+1))
			} else if wrapV && nv > 2 {
				b.edge(at(i, j), at(i, 0))
			}
			if i+1 < nu {
				b.edge(at(i, j), at(i+1, j))
			} else if wrapU && nu > 2 {
				jj := j
				if seamV != nil {
					jj = seamV(j)
				}
				b.edge(at(i, j), at(0, jj))
			}
		}
	}
}

func (b *builder) mesh() *Mesh {
	return &Mesh{Vertices: b.verts, Edges: b.edges}
}
