package warp

import (
	"math"
	"testing"

	"github.com/taigrr/vib4d/pkg/math4d"
)

var samplePoints = []math4d.Vec4{
	math4d.V4(0.3, 0.3, 0.3, 0.3),
	math4d.V4(1, -0.5, 0.25, 0),
	math4d.V4(-0.7, 0.1, 0.9, -1.2),
	math4d.V4(2, 2, -2, 0.5),
}

func TestHypersphereBlendEndpoints(t *testing.T) {
	const radius = 1.5
	for _, m := range []SphereMethod{SphereRadial, SphereStereographic, SphereHopf} {
		t.Run(m.String(), func(t *testing.T) {
			for _, p := range samplePoints {
				if got := Hypersphere(p, m, radius, 0); !got.ApproxEqual(p, 1e-12) {
					t.Errorf("blend 0: got %v, want %v", got, p)
				}
				got := Hypersphere(p, m, radius, 1)
				if l := got.Len(); math.Abs(l-radius) > 1e-9 {
					t.Errorf("blend 1: |%v| = %v, want %v", got, l, radius)
				}
			}
		})
	}
}

func TestHypersphereBlendClamped(t *testing.T) {
	p := samplePoints[1]
	if got, want := Hypersphere(p, SphereRadial, 1, 3), Hypersphere(p, SphereRadial, 1, 1); got != want {
		t.Errorf("blend 3 = %v, want %v", got, want)
	}
	if got := Hypersphere(p, SphereRadial, 1, -1); got != p {
		t.Errorf("blend -1 = %v, want %v", got, p)
	}
}

func TestRadialOriginNorthPole(t *testing.T) {
	got := HypersphereTarget(math4d.V4(0, 1e-9, 0, 0), SphereRadial, 2)
	if got != math4d.V4(0, 0, 0, 2) {
		t.Errorf("got %v, want north pole", got)
	}
}

func TestStereographicLift(t *testing.T) {
	// The origin maps to the south pole and the unit sphere to the equator.
	if got := HypersphereTarget(math4d.V4(0, 0, 0, 5), SphereStereographic, 1); !got.ApproxEqual(math4d.V4(0, 0, 0, -1), 1e-12) {
		t.Errorf("origin lifted to %v", got)
	}
	got := HypersphereTarget(math4d.V4(1, 0, 0, 0), SphereStereographic, 1)
	if !got.ApproxEqual(math4d.V4(1, 0, 0, 0), 1e-12) {
		t.Errorf("unit x lifted to %v", got)
	}
}

func TestHopfProjectOnS2(t *testing.T) {
	for _, p := range samplePoints {
		b := HopfProject(p)
		if l := b.XYZ().Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("base point %v not on S²", b)
		}
	}
}

func TestHypersphereSurface(t *testing.T) {
	pts := HypersphereSurface(2, 6)
	if len(pts) != 6*6*6 {
		t.Fatalf("len = %d", len(pts))
	}
	for _, p := range pts {
		if math.Abs(p.Len()-2) > 1e-9 {
			t.Fatalf("|%v| != 2", p)
		}
	}
	fibres := HopfFibres(1, 4, 16)
	if len(fibres) != 4 || len(fibres[0]) != 16 {
		t.Fatalf("fibre shape = %d x %d", len(fibres), len(fibres[0]))
	}
	for _, f := range fibres {
		// Every point of a fibre shares one Hopf base point.
		base := HopfProject(f[0]).XYZ()
		for _, p := range f[1:] {
			if b := HopfProject(p).XYZ(); !b.ApproxEqual(base, 1e-9) {
				t.Fatalf("fibre base point moved from %v to %v", base, b)
			}
		}
	}
}

func TestHopfFibresNegativeCounts(t *testing.T) {
	tests := []struct{ fibres, perFibre, wantFibres, wantPoints int }{
		{-1, 8, 0, 0},
		{3, -2, 3, 0},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		got := HopfFibres(1, tt.fibres, tt.perFibre)
		if len(got) != tt.wantFibres {
			t.Errorf("HopfFibres(1, %d, %d) has %d fibres, want %d", tt.fibres, tt.perFibre, len(got), tt.wantFibres)
		}
		for _, f := range got {
			if len(f) != tt.wantPoints {
				t.Errorf("HopfFibres(1, %d, %d) fibre has %d points", tt.fibres, tt.perFibre, len(f))
			}
		}
	}
}

func TestPentatopeRegular(t *testing.T) {
	pt := NewPentatope(1.7)
	edge := pt.EdgeLength()
	for _, e := range PentatopeEdges {
		if d := pt.Vertices[e[0]].Distance(pt.Vertices[e[1]]); math.Abs(d-edge) > 1e-9 {
			t.Errorf("edge %v length %v, want %v", e, d, edge)
		}
	}
	var centroid math4d.Vec4
	for _, v := range pt.Vertices {
		if math.Abs(v.Len()-1.7) > 1e-9 {
			t.Errorf("|%v| = %v, want circumradius 1.7", v, v.Len())
		}
		centroid = centroid.Add(v)
	}
	if centroid.Len() > 1e-9 {
		t.Errorf("centroid = %v", centroid)
	}
	for i := range PentatopeCells {
		if got, want := pt.CellCentroid(i), pt.Vertices[i].Scale(-0.25); !got.ApproxEqual(want, 1e-12) {
			t.Errorf("cell %d centroid = %v, want %v", i, got, want)
		}
	}
}

func TestInverseDistanceIsApproximate(t *testing.T) {
	pt := NewPentatope(1)
	v := pt.Vertices[0]
	got := pt.InverseDistance(v)
	d := got.Distance(v)
	// Close to the vertex but not on it: the weights never become a
	// one-hot selection.
	if d == 0 || d > 1e-3 {
		t.Errorf("distance from vertex = %v, want in (0, 1e-3]", d)
	}
	if c := pt.InverseDistance(math4d.Vec4{}); c.Len() > 1e-12 {
		t.Errorf("origin reconstructs to %v, want centroid", c)
	}
}

func TestNearestEdgePoint(t *testing.T) {
	pt := NewPentatope(1)
	mid := pt.Vertices[1].Lerp(pt.Vertices[3], 0.5)
	if got := pt.NearestEdgePoint(mid); !got.ApproxEqual(mid, 1e-12) {
		t.Errorf("midpoint moved to %v", got)
	}
	// Beyond a vertex the segment parameter clamps to the endpoint.
	far := pt.Vertices[4].Scale(3)
	if got := pt.NearestEdgePoint(far); !got.ApproxEqual(pt.Vertices[4], 1e-12) {
		t.Errorf("far point snapped to %v, want apex", got)
	}
}

func TestNearestCellAndSurface(t *testing.T) {
	pt := NewPentatope(1)
	if got := pt.NearestCellCentroid(pt.Vertices[0].Negate()); !got.ApproxEqual(pt.Vertices[0].Scale(-0.25), 1e-12) {
		t.Errorf("nearest cell centroid = %v", got)
	}
	for _, p := range samplePoints {
		s := pt.SurfaceProject(p)
		// The projected point lies in some face hyperplane.
		onPlane := false
		for i := range PentatopeFaces {
			c := pt.FaceCentroid(i)
			n := c.Normalize()
			if math.Abs(s.Sub(c).Dot(n)) < 1e-9 {
				onPlane = true
			}
		}
		if !onPlane {
			t.Errorf("%v projected to %v, which lies on no face hyperplane", p, s)
		}
	}
}

func TestHypertetraBlend(t *testing.T) {
	for _, m := range []TetraMethod{TetraTetrahedral, TetraEdges, TetraCells, TetraSurface} {
		t.Run(m.String(), func(t *testing.T) {
			for _, p := range samplePoints {
				if got := Hypertetra(p, m, 1, 0); !got.ApproxEqual(p, 1e-12) {
					t.Errorf("blend 0 = %v, want %v", got, p)
				}
				full := Hypertetra(p, m, 1, 1)
				half := Hypertetra(p, m, 1, 0.5)
				if !half.ApproxEqual(p.Lerp(full, 0.5), 1e-12) {
					t.Errorf("blend 0.5 = %v, want midpoint of %v and %v", half, p, full)
				}
			}
		})
	}
}

func TestBatchMatchesSingle(t *testing.T) {
	out := HypersphereBatch(nil, samplePoints, SphereHopf, 1, 0.7)
	for i, p := range samplePoints {
		if out[i] != Hypersphere(p, SphereHopf, 1, 0.7) {
			t.Errorf("hypersphere point %d differs", i)
		}
	}
	out = HypertetraBatch(out, samplePoints, TetraSurface, 1, 0.7)
	for i, p := range samplePoints {
		if out[i] != Hypertetra(p, TetraSurface, 1, 0.7) {
			t.Errorf("hypertetra point %d differs", i)
		}
	}
}

func TestParseMethods(t *testing.T) {
	if m, err := ParseSphereMethod("Hopf"); err != nil || m != SphereHopf {
		t.Errorf("ParseSphereMethod = %v, %v", m, err)
	}
	if m, err := ParseTetraMethod("cells"); err != nil || m != TetraCells {
		t.Errorf("ParseTetraMethod = %v, %v", m, err)
	}
	if _, err := ParseTetraMethod("x"); err == nil {
		t.Error("expected error")
	}
}
