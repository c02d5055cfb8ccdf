package geometry

import (
	"math"

	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/warp"
)

const (
	// MinResolution and MaxResolution bound every generator.
	MinResolution = 2
	MaxResolution = 256

	// surfaceMinResolution keeps parametric grids from collapsing.
	surfaceMinResolution = 4
)

// ClampResolution bounds r to [MinResolution, MaxResolution].
func ClampResolution(r int) int {
	return min(max(r, MinResolution), MaxResolution)
}

// ResolutionForDensity maps the gridDensity parameter [4, 100] onto a
// generator resolution. Higher density only refines sampling.
func ResolutionForDensity(density float64) int {
	return ClampResolution(int(math.Round(density/2)) + 2)
}

// Generator produces the unwarped mesh of one base shape.
type Generator func(resolution int) *Mesh

var generators = [BaseShapeCount]Generator{
	Tetrahedron: GenerateTetrahedron,
	Hypercube:   GenerateHypercube,
	Sphere:      GenerateSphere,
	Torus:       GenerateTorus,
	KleinBottle: GenerateKleinBottle,
	Fractal:     GenerateFractal,
	Wave:        GenerateWave,
	Crystal:     GenerateCrystal,
}

// GeneratorFor returns the generator of a base shape.
func GeneratorFor(b BaseShape) Generator {
	if !b.Valid() {
		return nil
	}
	return generators[b]
}

// TetrahedronVertices returns a regular tetrahedron with unit edges,
// centred on the origin in the w = 0 hyperplane.
func TetrahedronVertices() []math4d.Vec4 {
	h := math.Sqrt(2.0 / 3.0)
	r := 1 / math.Sqrt(3)
	y := -h / 4
	return []math4d.Vec4{
		math4d.V4(0, 3*h/4, 0, 0),
		math4d.V4(0, y, r, 0),
		math4d.V4(-r*math.Sqrt(3)/2, y, -r/2, 0),
		math4d.V4(r*math.Sqrt(3)/2, y, -r/2, 0),
	}
}

var tetrahedronEdges = [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// GenerateTetrahedron subdivides each of the six edges into resolution
// points.
func GenerateTetrahedron(resolution int) *Mesh {
	var b builder
	b.subdivide(TetrahedronVertices(), tetrahedronEdges, ClampResolution(resolution))
	return b.mesh()
}

// HypercubeVertices returns the 16 corners (±1, ±1, ±1, ±1). Bit k of the
// vertex number selects the sign of axis k.
func HypercubeVertices() []math4d.Vec4 {
	out := make([]math4d.Vec4, 16)
	for i := range out {
		out[i] = math4d.V4(sign(i&1), sign(i&2), sign(i&4), sign(i&8))
	}
	return out
}

func sign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}

// HypercubeEdges returns the 32 pairs of corners one bit apart.
func HypercubeEdges() [][2]int {
	edges := make([][2]int, 0, 32)
	for i := range 16 {
		for bit := range 4 {
			if j := i ^ (1 << bit); j > i {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// GenerateHypercube subdivides the tesseract's 32 edges.
func GenerateHypercube(resolution int) *Mesh {
	var b builder
	b.subdivide(HypercubeVertices(), HypercubeEdges(), ClampResolution(resolution))
	return b.mesh()
}

// CrossPolytopeVertices returns the eight unit axis points ±e_k.
func CrossPolytopeVertices() []math4d.Vec4 {
	out := make([]math4d.Vec4, 0, 8)
	for k := range 4 {
		var v [4]float64
		v[k] = 1
		out = append(out, math4d.V4(v[0], v[1], v[2], v[3]))
		out = append(out, math4d.V4(-v[0], -v[1], -v[2], -v[3]))
	}
	return out
}

// CrossPolytopeEdges returns the 24 edges: every pair except the four
// antipodal ones.
func CrossPolytopeEdges() [][2]int {
	edges := make([][2]int, 0, 24)
	for i := range 8 {
		for j := i + 1; j < 8; j++ {
			if i%2 == 0 && j == i+1 {
				continue
			}
			edges = append(edges, [2]int{i, j})
		}
	}
	return edges
}

// GenerateCrystal subdivides the 16-cell and adds the 16 corners of its
// dual tesseract at ±0.5 as isolated lattice points.
func GenerateCrystal(resolution int) *Mesh {
	var b builder
	b.subdivide(CrossPolytopeVertices(), CrossPolytopeEdges(), ClampResolution(resolution))
	for _, v := range HypercubeVertices() {
		b.add(v.Scale(0.5))
	}
	return b.mesh()
}

// GenerateSphere samples the unit 3-sphere in Hopf coordinates: psi rings
// from pole to pole, each a theta×phi torus.
func GenerateSphere(resolution int) *Mesh {
	n := max(ClampResolution(resolution), surfaceMinResolution)
	rings := max(n/2, 2)
	var b builder
	at := func(r, i, j int) int { return (r*n+i)*n + j }
	for r := range rings {
		psi := math.Pi / 2 * float64(r) / float64(rings-1)
		cp, sp := math.Cos(psi), math.Sin(psi)
		for i := range n {
			theta := 2 * math.Pi * float64(i) / float64(n)
			for j := range n {
				phi := 2 * math.Pi * float64(j) / float64(n)
				b.add(math4d.V4(cp*math.Cos(theta), cp*math.Sin(theta), sp*math.Cos(phi), sp*math.Sin(phi)))
			}
		}
	}
	for r := range rings {
		for i := range n {
			for j := range n {
				b.edge(at(r, i, j), at(r, (i+1)%n, j))
				b.edge(at(r, i, j), at(r, i, (j+1)%n))
				if r+1 < rings {
					b.edge(at(r, i, j), at(r+1, i, j))
				}
			}
		}
	}
	return b.mesh()
}

// GenerateTorus samples the flat Clifford torus, the product of two circles
// of radius 1/√2, which lies on the unit 3-sphere.
func GenerateTorus(resolution int) *Mesh {
	n := max(ClampResolution(resolution), surfaceMinResolution)
	r := 1 / math.Sqrt2
	var b builder
	b.grid(n, n, true, true, nil, func(i, j int) math4d.Vec4 {
		u := 2 * math.Pi * float64(i) / float64(n)
		v := 2 * math.Pi * float64(j) / float64(n)
		return math4d.V4(r*math.Cos(u), r*math.Sin(u), r*math.Cos(v), r*math.Sin(v))
	})
	return b.mesh()
}

// GenerateKleinBottle samples a figure-eight Klein bottle embedded in 4D,
// where it has no self-intersection. The u seam joins v to -v.
func GenerateKleinBottle(resolution int) *Mesh {
	n := max(ClampResolution(resolution), surfaceMinResolution)
	const major, minor = 2.0, 1.0
	var b builder
	seam := func(j int) int { return (n - j) % n }
	b.grid(n, n, true, true, seam, func(i, j int) math4d.Vec4 {
		u := 2 * math.Pi * float64(i) / float64(n)
		v := 2 * math.Pi * float64(j) / float64(n)
		r := major + minor*math.Cos(v)
		return math4d.V4(
			r*math.Cos(u),
			r*math.Sin(u),
			minor*math.Sin(v)*math.Cos(u/2),
			minor*math.Sin(v)*math.Sin(u/2),
		)
	})
	return b.mesh()
}

// fractalSeed seeds the chaos game so output is reproducible.
const fractalSeed uint32 = 0xDEADBEEF

const fractalWarmUp = 64

// FractalAttractors returns the five chaos-game attractors, the pentatope
// with circumradius √3.2 (corners (±1, ±1, ±1, -1/√5)).
func FractalAttractors() [5]math4d.Vec4 {
	return warp.NewPentatope(math.Sqrt(3.2)).Vertices
}

func xorshift(s uint32) uint32 {
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	return s
}

// GenerateFractal plays the chaos game toward the pentatope corners,
// producing resolution² points of a 4D Sierpinski simplex. It is a point
// cloud and has no edges.
func GenerateFractal(resolution int) *Mesh {
	n := max(ClampResolution(resolution), surfaceMinResolution)
	att := FractalAttractors()
	seed := fractalSeed
	var cur math4d.Vec4
	step := func() {
		seed = xorshift(seed)
		cur = cur.Lerp(att[seed%uint32(len(att))], 0.5)
	}
	for range fractalWarmUp {
		step()
	}
	var b builder
	b.verts = make([]math4d.Vec4, 0, n*n)
	for range n * n {
		step()
		b.add(cur)
	}
	return b.mesh()
}

// GenerateFractalSubdivision contracts every point halfway toward each
// attractor depth times, linking each point to its five children. depth
// is clamped to [0, 6].
func GenerateFractalSubdivision(depth int) *Mesh {
	depth = min(max(depth, 0), 6)
	att := FractalAttractors()
	var b builder
	level := make([]int, 0, len(att))
	for _, a := range att {
		level = append(level, b.add(a))
	}
	for range depth {
		next := make([]int, 0, len(level)*len(att))
		for _, p := range level {
			for _, a := range att {
				c := b.add(b.verts[p].Lerp(a, 0.5))
				b.edge(p, c)
				next = append(next, c)
			}
		}
		level = next
	}
	return b.mesh()
}

type waveSource struct {
	freq, ampY, ampW, phaseX, phaseZ float64
}

var waveSources = [3]waveSource{
	{1.0, 0.5, 0.3, 0, 0},
	{2.3, 0.25, 0.15, math.Pi * 0.5, math.Pi * 0.25},
	{3.7, 0.125, 0.1, math.Pi * 0.75, math.Pi * 0.6},
}

const waveExtent = 2.0

// WaveHeight returns the y and w displacement of the interference surface
// at (x, z).
func WaveHeight(x, z float64) (y, w float64) {
	for _, s := range waveSources {
		px := s.freq*x*math.Pi + s.phaseX
		pz := s.freq*z*math.Pi + s.phaseZ
		y += s.ampY * math.Sin(px) * math.Cos(pz)
		w += s.ampW * math.Cos(px+pz)
	}
	return y, w
}

// GenerateWave samples three interfering waves over [-2, 2]² in x and z,
// displacing y and w.
func GenerateWave(resolution int) *Mesh {
	n := max(ClampResolution(resolution), surfaceMinResolution)
	step := 2 * waveExtent / float64(n-1)
	var b builder
	b.grid(n, n, false, false, nil, func(i, j int) math4d.Vec4 {
		x := -waveExtent + float64(i)*step
		z := -waveExtent + float64(j)*step
		y, w := WaveHeight(x, z)
		return math4d.V4(x, y, z, w)
	})
	return b.mesh()
}
