package system

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/shader"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDefaultRegistry(t *testing.T) {
	r := defaultRegistry(t)
	if got := len(r.All()); got != 2+len(Systems)*len(shader.Langs) {
		t.Errorf("registered %d backends", got)
	}
	if got := len(r.Shaders()); got != 6 {
		t.Errorf("registered %d shader backends, want 6", got)
	}
	b, err := r.Lookup("quantum-wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if b.Kind() != Shader {
		t.Errorf("quantum-wgsl kind = %s", b.Kind())
	}
	if _, err := r.Lookup("vulkan"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Lookup unknown: %v", err)
	}
	if err := r.Register(Matrix{}); !errors.Is(err, ErrDuplicateBackend) {
		t.Errorf("Register duplicate: %v", err)
	}
}

func TestVerifyDefaultBackends(t *testing.T) {
	r := defaultRegistry(t)
	rep, err := Verify(context.Background(), Matrix{}, r.All(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := rep.Err(); err != nil {
		t.Fatalf("%v\n%s", err, rep)
	}
	if rep.Checks == 0 {
		t.Error("no checks ran")
	}
	if !strings.HasSuffix(rep.String(), "ok\n") {
		t.Errorf("report:\n%s", rep)
	}
}

func TestParityEveryBackend(t *testing.T) {
	c := ParityCase()
	p := c.Points[0]
	want := lattice.Presence(c.Bindings.Field, p)
	for _, b := range defaultRegistry(t).All() {
		got, err := b.Presence(c.Bindings.Field, p)
		if err != nil {
			t.Fatalf("%s: %v", b.Name(), err)
		}
		if math.Abs(got-want) > DefaultTolerance {
			t.Errorf("%s presence = %v, want %v", b.Name(), got, want)
		}
		wp := lattice.Projected(c.Bindings.Field, p)
		gp, err := b.Project(c.Bindings.Field, p)
		if err != nil {
			t.Fatalf("%s: %v", b.Name(), err)
		}
		if !gp.ApproxEqual(wp, DefaultTolerance) {
			t.Errorf("%s projected = %v, want %v", b.Name(), gp, wp)
		}
	}
}

func findings(rep *Report, check string) []Finding {
	var out []Finding
	for _, f := range rep.Findings {
		if f.Check == check {
			out = append(out, f)
		}
	}
	return out
}

func TestVerifyCatchesTamperedSource(t *testing.T) {
	prog, err := Faceted.Program(shader.GLSL)
	if err != nil {
		t.Fatal(err)
	}
	tampered := *prog
	tampered.Source = strings.Replace(prog.Source, "abs(d) < 0.0001", "abs(d) < 0.001", 1)
	if tampered.Source == prog.Source {
		t.Fatal("epsilon not found in source")
	}
	b := NewProgramBackend(Faceted, &tampered)
	rep, err := Verify(context.Background(), Matrix{}, []Backend{b}, Options{Cases: []Case{ParityCase()}})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(rep.Err(), ErrDivergence) {
		t.Fatalf("tampered source passed:\n%s", rep)
	}
	static := findings(rep, "static")
	if len(static) != 1 || !strings.Contains(static[0].Detail, shader.FnClampDenom) {
		t.Errorf("static findings = %v", static)
	}
}

func TestVerifyCatchesDuplicateAndMissing(t *testing.T) {
	prog, err := Quantum.Program(shader.WGSL)
	if err != nil {
		t.Fatal(err)
	}
	hue, _ := shader.Canonical(shader.WGSL, shader.FnHueUnit)
	tampered := *prog
	tampered.Source = strings.Replace(prog.Source, hue, "", 1)
	rot, _ := shader.Canonical(shader.WGSL, "rotXW")
	tampered.Source += "\n" + rot
	rep, err := Verify(context.Background(), Matrix{}, []Backend{NewProgramBackend(Quantum, &tampered)},
		Options{Cases: []Case{ParityCase()}})
	if err != nil {
		t.Fatal(err)
	}
	var missing, dup bool
	for _, f := range findings(rep, "static") {
		missing = missing || strings.Contains(f.Detail, "hueUnit missing")
		dup = dup || strings.Contains(f.Detail, "rotXW defined 2 times")
	}
	if !missing || !dup {
		t.Errorf("findings:\n%s", rep)
	}
}

// swappedRotate composes the planes in reverse, the classic ordering bug.
func swappedRotate() *shader.Func {
	params := []shader.Param{shader.P("p", shader.Vec4)}
	for _, pl := range math4d.Planes {
		params = append(params, shader.P(strings.ToLower(pl.String()), shader.Float))
	}
	f := shader.NewFunc(shader.FnRotate4D, shader.Vec4, params...)
	r := f.Arg("p")
	for _, pl := range math4d.Planes {
		r = shader.Call("rot"+pl.String(), shader.Vec4, r, f.Arg(strings.ToLower(pl.String())))
	}
	f.Return(r)
	return f.Func()
}

func TestVerifyCatchesRotationOrder(t *testing.T) {
	m := Faceted.Module()
	m.Add(swappedRotate())
	prog, err := shader.Assemble("faceted", shader.GLSL, m)
	if err != nil {
		t.Fatal(err)
	}
	b := NewProgramBackend(Faceted, prog)
	rep, err := Verify(context.Background(), Matrix{}, []Backend{b}, Options{Cases: []Case{ParityCase()}})
	if err != nil {
		t.Fatal(err)
	}
	if len(findings(rep, "rotate")) == 0 {
		t.Errorf("reversed rotation order not caught:\n%s", rep)
	}
	if len(findings(rep, "static")) == 0 {
		t.Errorf("reversed rotation text not caught:\n%s", rep)
	}
}

func TestVerifyCatchesDualHueConvention(t *testing.T) {
	// An entry that feeds hue to hsv2rgb as if it were already in [0, 1].
	entry := func() *shader.Func {
		f := shader.NewFunc(shader.EntryName, shader.Vec4, shader.P("frag", shader.Vec2))
		c := f.Let("c", shader.Call(shader.FnHSV2RGB, shader.Vec3,
			shader.U(shader.HueUniform, shader.Float), shader.F(1), shader.F(1)))
		f.Return(shader.V4(c, shader.F(1)))
		return f.Func()
	}
	sys := System{Name: "dual", entry: entry, native: facetedNative}
	for _, l := range shader.Langs {
		b, err := BuildProgramBackend(sys, l)
		if err != nil {
			t.Fatal(err)
		}
		rep, err := Verify(context.Background(), Matrix{}, []Backend{b}, Options{Cases: []Case{ParityCase()}})
		if err != nil {
			t.Fatal(err)
		}
		if len(findings(rep, "units")) != 1 {
			t.Errorf("%s: units findings:\n%s", l, rep)
		}
	}
}

func TestHueReadsOutsideHueUnit(t *testing.T) {
	tests := []struct {
		name string
		lang shader.Lang
		src  string
		want int
	}{
		{"declaration", shader.GLSL, "uniform float u_hue;\n", 0},
		{"wrapped", shader.GLSL, "x = hsv2rgb(hueUnit(u_hue + 40.0), s, v);\n", 0},
		{"nested inside hueUnit", shader.WGSL, "let h = hueUnit(clamp(params.hue, 0.0, 360.0));\n", 0},
		{"bare", shader.GLSL, "x = hsv2rgb(u_hue / 360.0, s, v);\n", 1},
		{"other uniform", shader.GLSL, "x = u_hueShift;\n", 0},
		{"closed call", shader.WGSL, "let a = hueUnit(1.0) + params.hue;\n", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HueReadsOutsideHueUnit(tc.lang, tc.src); len(got) != tc.want {
				t.Errorf("got lines %v, want %d", got, tc.want)
			}
		})
	}
}

func TestNativeBackendsAgree(t *testing.T) {
	for _, c := range DefaultCases() {
		for _, p := range c.Points {
			a, _ := Matrix{}.Presence(c.Bindings.Field, p)
			b, _ := Rotor{}.Presence(c.Bindings.Field, p)
			if math.Abs(a-b) > 1e-9 {
				t.Fatalf("%s at %v: matrix %v, rotor %v", c.Name, p, a, b)
			}
		}
	}
}

func TestVerifyHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Verify(ctx, Matrix{}, []Backend{Rotor{}}, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

// brokenPresence is a matrix backend whose presence evaluation fails.
type brokenPresence struct{ Matrix }

var errBroken = errors.New("presence unavailable")

func (brokenPresence) Presence(lattice.Inputs, math4d.Vec4) (float64, error) {
	return 0, errBroken
}

func TestVerifyFailsOnReferenceError(t *testing.T) {
	_, err := Verify(context.Background(), brokenPresence{}, []Backend{Rotor{}}, Options{})
	if !errors.Is(err, errBroken) {
		t.Fatalf("got %v, want the reference error", err)
	}
	if !strings.Contains(err.Error(), "reference matrix presence") {
		t.Errorf("error %q does not name the reference", err)
	}
}

func TestVerifyCountsStaticChecks(t *testing.T) {
	sb := defaultRegistry(t).Shaders()[0]
	rep, err := Verify(context.Background(), Matrix{}, []Backend{sb}, Options{Cases: []Case{}})
	if err != nil {
		t.Fatal(err)
	}
	// one per canonical function, the hue declaration and the hue scan
	if want := len(shader.CanonicalNames()) + 2; rep.Checks != want {
		t.Errorf("checks = %d, want %d", rep.Checks, want)
	}
	if err := rep.Err(); err != nil {
		t.Error(err)
	}
}

func TestSystemsShadeLikeNative(t *testing.T) {
	b := shader.DefaultBindings()
	b.Field.Geometry = 13
	b.Field.Angles[math4d.XW] = 0.4
	b.Resolution = [2]float64{80, 40}
	b.Time = 2.5
	c := b.Field.Compile()
	for _, sys := range Systems {
		pb, err := BuildProgramBackend(sys, shader.WGSL)
		if err != nil {
			t.Fatal(err)
		}
		for _, frag := range [][2]float64{{0.5, 0.5}, {40, 20}, {79.5, 39.5}} {
			got, err := pb.Shade(b, frag)
			if err != nil {
				t.Fatal(err)
			}
			want := sys.ShadeNative(c, b, frag)
			if d := lattice.ColorDistance(got, want); d > 1e-9 {
				t.Errorf("%s at %v: got %s, want %s", sys.Name, frag, got.Hex(), want.Hex())
			}
		}
	}
}

func BenchmarkVerify(b *testing.B) {
	r, err := Default()
	if err != nil {
		b.Fatal(err)
	}
	cases := []Case{ParityCase()}
	for b.Loop() {
		if _, err := Verify(context.Background(), Matrix{}, r.All(), Options{Cases: cases}); err != nil {
			b.Fatal(err)
		}
	}
}
