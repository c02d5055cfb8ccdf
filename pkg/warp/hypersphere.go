package warp

import (
	"math"

	"github.com/taigrr/vib4d/pkg/math4d"
)

// Hypersphere blends p toward its image on the 3-sphere of the given radius.
// blend is clamped to [0, 1].
func Hypersphere(p math4d.Vec4, m SphereMethod, radius, blend float64) math4d.Vec4 {
	return mix(p, HypersphereTarget(p, m, radius), clamp01(blend))
}

// HypersphereTarget returns the fully warped image of p.
func HypersphereTarget(p math4d.Vec4, m SphereMethod, radius float64) math4d.Vec4 {
	switch m {
	case SphereStereographic:
		return stereographicLift(p, radius)
	case SphereHopf:
		return hopf(p, radius)
	default:
		return radial(p, radius)
	}
}

// radial normalizes p onto the sphere. The origin has no direction and maps
// to the north pole.
func radial(p math4d.Vec4, radius float64) math4d.Vec4 {
	l := p.Len()
	if l < Epsilon {
		return math4d.V4(0, 0, 0, radius)
	}
	return p.Scale(radius / l)
}

func stereographicLift(p math4d.Vec4, radius float64) math4d.Vec4 {
	s := p.X*p.X + p.Y*p.Y + p.Z*p.Z
	k := radius / (s + 1)
	return math4d.V4(2*p.X*k, 2*p.Y*k, 2*p.Z*k, (s-1)*k)
}

func hopf(p math4d.Vec4, radius float64) math4d.Vec4 {
	theta := math.Atan2(p.Y, p.X)
	phi := math.Atan2(p.W, p.Z)
	psi := math.Atan2(math.Hypot(p.X, p.Y), math.Hypot(p.Z, p.W))
	return hopfPoint(psi, theta, phi, radius)
}

// hopfPoint maps Hopf coordinates to the 3-sphere. Varying theta with psi
// and phi held fixed traces one fibre.
func hopfPoint(psi, theta, phi, radius float64) math4d.Vec4 {
	sp, cp := math.Sincos(psi)
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi + theta)
	return math4d.V4(ct*sp*radius, st*sp*radius, cf*cp*radius, sf*cp*radius)
}

// HopfProject maps p (normalized onto S³) to its Hopf base point on S² in
// x, y, z with the fibre angle in w.
func HopfProject(p math4d.Vec4) math4d.Vec4 {
	q := p.Normalize()
	n1 := 2 * (q.X*q.Z + q.Y*q.W)
	n2 := 2 * (q.Y*q.Z - q.X*q.W)
	n3 := q.X*q.X + q.Y*q.Y - q.Z*q.Z - q.W*q.W
	fibre := math.Atan2(q.Y, q.X) - math.Atan2(q.W, q.Z)
	return math4d.V4(n1, n2, n3, fibre)
}

// HypersphereSurface samples the 3-sphere of the given radius on a
// resolution³ grid of Hopf coordinates. resolution is raised to at least 2.
func HypersphereSurface(radius float64, resolution int) []math4d.Vec4 {
	n := max(resolution, 2)
	pts := make([]math4d.Vec4, 0, n*n*n)
	for i := range n {
		psi := float64(i) / float64(n-1) * math.Pi / 2
		for j := range n {
			theta := float64(j) / float64(n) * 2 * math.Pi
			for k := range n {
				phi := float64(k) / float64(n) * 2 * math.Pi
				pts = append(pts, hopfPoint(psi, theta, phi, radius))
			}
		}
	}
	return pts
}

// HopfFibres returns fibres great circles of the 3-sphere with perFibre
// points each. Base points spiral over S² by the golden angle. Negative
// counts are treated as zero.
func HopfFibres(radius float64, fibres, perFibre int) [][]math4d.Vec4 {
	fibres, perFibre = max(fibres, 0), max(perFibre, 0)
	golden := math.Pi * (3 - math.Sqrt(5))
	out := make([][]math4d.Vec4, fibres)
	for i := range fibres {
		psi := math.Acos(1-2*(float64(i)+0.5)/float64(fibres)) / 2
		phi := float64(i) * golden
		fibre := make([]math4d.Vec4, perFibre)
		for j := range perFibre {
			theta := float64(j) / float64(perFibre) * 2 * math.Pi
			fibre[j] = hopfPoint(psi, theta, phi, radius)
		}
		out[i] = fibre
	}
	return out
}

// HypersphereBatch warps src into dst, growing dst as needed.
func HypersphereBatch(dst, src []math4d.Vec4, m SphereMethod, radius, blend float64) []math4d.Vec4 {
	dst = grow(dst, len(src))
	for i, p := range src {
		dst[i] = Hypersphere(p, m, radius, blend)
	}
	return dst
}

func grow(dst []math4d.Vec4, n int) []math4d.Vec4 {
	if cap(dst) < n {
		return make([]math4d.Vec4, n)
	}
	return dst[:n]
}
