package scene

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/warp"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatal(err)
	}
	if len(Ranges()) != 21 {
		t.Errorf("Ranges() has %d fields", len(Ranges()))
	}
	r, err := FieldRange("hue")
	if err != nil {
		t.Fatal(err)
	}
	if r.Unit != "degrees" || r.Max != 360 || !r.OpenMax {
		t.Errorf("hue range = %+v", r)
	}
}

func TestSetField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value float64
		ok    bool
	}{
		{"hue inside", "hue", 359.9, true},
		{"hue full turn", "hue", 360, false},
		{"hue negative", "hue", -1, false},
		{"geometry last", "geometry", 23, true},
		{"geometry past end", "geometry", 24, false},
		{"geometry fractional", "geometry", 1.5, false},
		{"negative angle", "rot4dXW", -10, true},
		{"large angle", "rot4dZW", 100, true},
		{"infinite angle", "rot4dYW", math.Inf(1), false},
		{"nan saturation", "saturation", math.NaN(), false},
		{"dimension low", "dimension", 2.9, false},
		{"case folded", "GRIDDENSITY", 40, true},
		{"sphere method", "sphereMethod", 2, true},
		{"tetra method", "tetraMethod", 4, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Defaults()
			before := p
			err := p.SetField(tc.field, tc.value)
			if tc.ok {
				if err != nil {
					t.Fatalf("SetField: %v", err)
				}
				got, _ := p.Field(tc.field)
				if got != tc.value {
					t.Errorf("Field = %v, want %v", got, tc.value)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !strings.EqualFold(ve.Field, tc.field) {
				t.Errorf("error names %q", ve.Field)
			}
			if p != before {
				t.Error("params changed on error")
			}
		})
	}
}

func TestUnknownField(t *testing.T) {
	p := Defaults()
	if err := p.SetField("brightness", 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("SetField = %v", err)
	}
	if _, err := p.Field("brightness"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Field = %v", err)
	}
}

func TestMergeAllOrNothing(t *testing.T) {
	p := Defaults()
	err := p.Merge(Partial{}.Set("hue", 100).Set("saturation", 2))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "saturation" {
		t.Fatalf("Merge = %v", err)
	}
	if p.Hue != Defaults().Hue {
		t.Errorf("hue applied from a failed merge: %v", p.Hue)
	}

	on := true
	if err := p.Merge(Partial{Autorotate: &on}.Set("hue", 100).Set("rot4dXW", 0.8)); err != nil {
		t.Fatal(err)
	}
	if p.Hue != 100 || p.Angles[math4d.XW] != 0.8 || !p.Autorotate {
		t.Errorf("merged params = %+v", p)
	}
}

func TestPartialFromJSON(t *testing.T) {
	src := `{"geometry": 11, "hue": 200, "rotDeg": {"xw": 90, "rot4dYW": -45},
		"projection": "stereographic", "tetraMethod": "cells", "autorotate": true}`
	u, err := PartialFromJSON(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	p := Defaults()
	if err := p.Merge(u); err != nil {
		t.Fatal(err)
	}
	if p.Geometry != 11 || p.Projection != math4d.StereographicProjection || p.TetraMethod != warp.TetraCells {
		t.Errorf("decoded %+v", p)
	}
	if math.Abs(p.Angles[math4d.XW]-math.Pi/2) > 1e-12 || math.Abs(p.Angles[math4d.YW]+math.Pi/4) > 1e-12 {
		t.Errorf("angles = %v", p.Angles)
	}
	if !p.Autorotate {
		t.Error("autorotate not set")
	}

	for _, bad := range []string{
		`{"bogus": 1}`,
		`{"rotDeg": {"xq": 1}}`,
		`{"hue": "red"}`,
		`{"hue": null}`,
		`[1, 2]`,
	} {
		if _, err := PartialFromJSON(strings.NewReader(bad)); err == nil {
			t.Errorf("PartialFromJSON(%s) accepted", bad)
		}
	}
}

func TestStateSnapshotsAreConsistent(t *testing.T) {
	s, err := NewState(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	const writes = 200
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Go(func() {
			for k := range writes {
				v := float64(w*writes + k)
				u := Partial{}
				for _, pl := range math4d.Planes {
					u = u.Set("rot4d"+pl.String(), v)
				}
				if err := s.Merge(u); err != nil {
					t.Error(err)
					return
				}
			}
		})
	}
	for range 4 {
		wg.Go(func() {
			for range writes {
				a := s.Snapshot().Angles
				for _, v := range a {
					if v != a[0] {
						t.Errorf("torn snapshot %v", a)
						return
					}
				}
			}
		})
	}
	wg.Wait()
	if s.Version() != 4*writes {
		t.Errorf("version = %d", s.Version())
	}
}

func TestStateRejectsInvalid(t *testing.T) {
	bad := Defaults()
	bad.Geometry = 30
	if _, err := NewState(bad); err == nil {
		t.Fatal("NewState accepted geometry 30")
	}
	s, _ := NewState(Defaults())
	if err := s.Replace(bad); err == nil {
		t.Fatal("Replace accepted geometry 30")
	}
	if s.Version() != 0 || s.Snapshot() != Defaults() {
		t.Error("failed update was published")
	}
}

func TestFrameTorusPerspective(t *testing.T) {
	p := Defaults()
	p.Geometry = 3
	p.Dimension = 3.5
	f, err := NewPipeline().Frame(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.Mesh.Index != 3 || len(f.Points) != len(f.Mesh.Vertices) {
		t.Fatalf("frame for %v has %d points", f.Mesh.Index, len(f.Points))
	}
	for i, v := range f.Mesh.Vertices {
		s := 3.5 / (3.5 + v.W)
		want := math4d.V3(v.X*s, v.Y*s, v.Z*s)
		if !f.Points[i].ApproxEqual(want, 1e-12) {
			t.Fatalf("point %d = %v, want %v", i, f.Points[i], want)
		}
	}
}

func TestFrameMatchesFieldProjection(t *testing.T) {
	tests := []struct {
		name   string
		index  geometry.Index
		sphere warp.SphereMethod
		tetra  warp.TetraMethod
	}{
		{"base torus", 3, warp.SphereRadial, warp.TetraTetrahedral},
		{"radial torus", 11, warp.SphereRadial, warp.TetraTetrahedral},
		{"stereographic wave", 14, warp.SphereStereographic, warp.TetraTetrahedral},
		{"hopf sphere", 10, warp.SphereHopf, warp.TetraTetrahedral},
		{"tetrahedral hypercube", 17, warp.SphereRadial, warp.TetraTetrahedral},
		{"edges torus", 19, warp.SphereRadial, warp.TetraEdges},
		{"cells crystal", 23, warp.SphereRadial, warp.TetraCells},
		{"surface klein", 20, warp.SphereRadial, warp.TetraSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			p.Geometry = tt.index
			p.SphereMethod, p.TetraMethod = tt.sphere, tt.tetra
			p.WarpBlend = 0.7
			p.Angles[math4d.XW], p.Angles[math4d.YW], p.Angles[math4d.XY] = 0.8, 0.5, 0.3
			f, err := NewPipeline().Frame(p, 0)
			if err != nil {
				t.Fatal(err)
			}
			c := p.Inputs(0).Compile()
			for i, v := range f.Mesh.Vertices {
				if want := c.Projected(v); !f.Points[i].ApproxEqual(want, 1e-12) {
					t.Fatalf("point %d = %v, field projects %v", i, f.Points[i], want)
				}
			}
		})
	}
}

func TestFrameReusesBuffers(t *testing.T) {
	pl := NewPipeline()
	p := Defaults()
	p.Geometry = 9
	a, err := pl.Frame(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	mesh, pts := a.Mesh, &a.Points[0]
	p.Angles[math4d.XW] = 0.5
	b, err := pl.Frame(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if b.Mesh != mesh {
		t.Error("mesh regenerated for a rotation change")
	}
	if &b.Points[0] != pts {
		t.Error("points buffer reallocated")
	}
	p.GridDensity = 60
	c, err := pl.Frame(p, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Mesh == mesh {
		t.Error("density change reused the old mesh")
	}
}

func TestFrameAutorotate(t *testing.T) {
	p := Defaults()
	p.Autorotate = true
	p.Speed = 2
	pl := NewPipeline()
	f, err := pl.Frame(p, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if f.Angles[math4d.XY] != 0 || f.Angles[math4d.XZ] != 0 || f.Angles[math4d.YZ] != 0 {
		t.Errorf("autorotate touched 3D planes: %v", f.Angles)
	}
	if math.Abs(f.Angles[math4d.XW]-0.3*3) > 1e-12 {
		t.Errorf("XW = %v", f.Angles[math4d.XW])
	}
	if in := p.Inputs(1.5); in.Angles != f.Angles {
		t.Errorf("inputs angles %v differ from frame %v", in.Angles, f.Angles)
	}
}

func TestFrameRejectsInvalid(t *testing.T) {
	p := Defaults()
	p.Geometry = geometry.IndexCount
	if _, err := NewPipeline().Frame(p, 0); err == nil {
		t.Error("Frame accepted an out of range geometry")
	}
}

func TestAnimatorNudgeDecays(t *testing.T) {
	a := NewAnimator(60, math4d.Angles{})
	a.Nudge(math4d.XW, 0.05)
	for range 600 {
		a.Step()
	}
	if !a.Settled(1e-6) {
		t.Error("nudge did not decay")
	}
	got := a.Angles()
	if got[math4d.XW] <= 0.05 {
		t.Errorf("XW moved to %v", got[math4d.XW])
	}
	if got[math4d.XY] != 0 {
		t.Errorf("nudge leaked into XY: %v", got)
	}
}

func TestAnimatorEasesToTarget(t *testing.T) {
	a := NewAnimator(60, math4d.Angles{})
	target := math4d.Angles{math4d.XY: 1, math4d.ZW: -2}
	a.EaseTo(target)
	first := a.Step()
	if first[math4d.XY] <= 0 || first[math4d.XY] >= 1 {
		t.Errorf("first step XY = %v", first[math4d.XY])
	}
	for range 600 {
		a.Step()
	}
	got := a.Angles()
	for i := range got {
		if math.Abs(got[i]-target[i]) > 1e-6 {
			t.Fatalf("angles = %v, want %v", got, target)
		}
	}
	a.Reset()
	if !a.Angles().IsZero() {
		t.Error("Reset kept angles")
	}
}

func BenchmarkFrame(b *testing.B) {
	pl := NewPipeline()
	p := Defaults()
	p.Geometry = 13
	p.Angles[math4d.XW] = 0.4
	for b.Loop() {
		if _, err := pl.Frame(p, 0); err != nil {
			b.Fatal(err)
		}
	}
}
