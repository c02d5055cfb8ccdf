package system

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/shader"
	"github.com/taigrr/vib4d/pkg/warp"
	"golang.org/x/sync/errgroup"
)

// DefaultTolerance bounds behavioural differences between backends.
const DefaultTolerance = 1e-4

// ErrDivergence is wrapped by Report.Err when any check failed.
var ErrDivergence = errors.New("system: backends diverge from the reference")

// Case is one set of bindings evaluated at a list of points.
type Case struct {
	Name     string
	Bindings shader.Bindings
	Points   []math4d.Vec4
	// Frags are fragment coordinates for entry point checks.
	Frags [][2]float64
}

// ParityCase is the end-to-end scenario every backend must reproduce:
// geometry 11, XW 0.8, YW 0.5, hue 200, sampled at (0.3, 0.3, 0.3, 0.3).
func ParityCase() Case {
	b := shader.DefaultBindings()
	b.Field.Geometry = 11
	b.Field.Angles[math4d.XW] = 0.8
	b.Field.Angles[math4d.YW] = 0.5
	b.Hue = 200
	return Case{
		Name:     "parity",
		Bindings: b,
		Points:   []math4d.Vec4{math4d.V4(0.3, 0.3, 0.3, 0.3)},
	}
}

var samplePoints = []math4d.Vec4{
	{X: 0.3, Y: 0.3, Z: 0.3, W: 0.3},
	{X: -0.7, Y: 0.2, Z: 0.5, W: -0.1},
	{X: 0.05, Y: -0.9, Z: 0.4, W: 0.6},
	{X: 1.2, Y: 0.1, Z: -0.3, W: 0.8},
	{X: 0.15, Y: -0.25, Z: 0.35, W: -0.45},
}

// DefaultCases covers every geometry index, every projection and warp
// method, and the parity case.
func DefaultCases() []Case {
	cases := []Case{ParityCase()}
	for i := range geometry.Index(geometry.IndexCount) {
		b := shader.DefaultBindings()
		b.Field.Geometry = i
		b.Field.Angles = math4d.Angles{0.1, -0.2, 0.3, 0.8, 0.5, -0.4}
		b.Field.Chaos = 0.35
		b.Field.GridDensity = 12 + float64(i)
		b.Time = float64(i) * 0.7
		b.Resolution = [2]float64{64, 48}
		cases = append(cases, Case{
			Name:     i.Name(),
			Bindings: b,
			Points:   samplePoints,
			Frags:    [][2]float64{{10.5, 7.5}, {32, 24}, {60.5, 40.5}},
		})
	}
	for k := range math4d.ProjectionKind(4) {
		b := shader.DefaultBindings()
		b.Field.Geometry = 3
		b.Field.Angles[math4d.ZW] = 0.6
		b.Field.Projection.Kind = k
		b.Field.Projection.ShearX, b.Field.Projection.ShearY = 0.3, -0.2
		cases = append(cases, Case{Name: "projection " + k.String(), Bindings: b, Points: samplePoints})
	}
	for m := range warp.SphereMethod(3) {
		b := shader.DefaultBindings()
		b.Field.Geometry = geometry.Index(8 + int(geometry.Wave))
		b.Field.Warp.SphereMethod = m
		b.Field.Warp.Blend = 0.6
		cases = append(cases, Case{Name: "sphere " + m.String(), Bindings: b, Points: samplePoints})
	}
	for m := range warp.TetraMethod(4) {
		b := shader.DefaultBindings()
		b.Field.Geometry = geometry.Index(16 + int(geometry.Crystal))
		b.Field.Warp.TetraMethod = m
		b.Field.Warp.Size = 1.3
		cases = append(cases, Case{Name: "tetra " + m.String(), Bindings: b, Points: samplePoints})
	}
	return cases
}

// Finding is one failed check.
type Finding struct {
	Check   string // presence, project, rotate, color, shade, static, units, error
	Backend string
	Case    string
	Detail  string
}

func (f Finding) String() string {
	if f.Case == "" {
		return fmt.Sprintf("%s: %s: %s", f.Backend, f.Check, f.Detail)
	}
	return fmt.Sprintf("%s: %s [%s]: %s", f.Backend, f.Check, f.Case, f.Detail)
}

// Report is the outcome of Verify.
type Report struct {
	Reference string
	Backends  []string
	Tolerance float64
	Checks    int
	Findings  []Finding
}

// Err returns nil when every check passed.
func (r *Report) Err() error {
	if len(r.Findings) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d checks failed", ErrDivergence, len(r.Findings), r.Checks)
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "reference %s, %d backends, %d checks, tolerance %g\n", r.Reference, len(r.Backends), r.Checks, r.Tolerance)
	if len(r.Findings) == 0 {
		b.WriteString("ok\n")
		return b.String()
	}
	for _, f := range r.Findings {
		b.WriteString("FAIL ")
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Options configures Verify. Zero values select the defaults.
type Options struct {
	Tolerance float64
	Cases     []Case
}

type result struct {
	checks   int
	findings []Finding
}

func (r *result) check(ok bool, f Finding) {
	r.checks++
	if !ok {
		r.findings = append(r.findings, f)
	}
}

// Verify compares every backend against ref behaviourally and checks the
// source of shader backends against the canonical library. Backends are
// checked concurrently; the report lists findings in backend order.
func Verify(ctx context.Context, ref Backend, backends []Backend, opts Options) (*Report, error) {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Cases == nil {
		opts.Cases = DefaultCases()
	}
	results := make([]result, len(backends))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range backends {
		g.Go(func() error {
			res := &results[i]
			if err := behaviour(ctx, res, ref, b, opts); err != nil {
				return err
			}
			if sb, ok := b.(ShaderBackend); ok {
				static(res, sb)
				units(res, sb)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep := &Report{Reference: ref.Name(), Tolerance: opts.Tolerance}
	for i, b := range backends {
		rep.Backends = append(rep.Backends, b.Name())
		rep.Checks += results[i].checks
		rep.Findings = append(rep.Findings, results[i].findings...)
	}
	return rep, nil
}

func maxDiff(a, b []float64) float64 {
	var d float64
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
		if math.IsNaN(a[i]) != math.IsNaN(b[i]) {
			return math.Inf(1)
		}
	}
	return d
}

func behaviour(ctx context.Context, res *result, ref, b Backend, opts Options) error {
	tol := opts.Tolerance
	fail := func(check, c, format string, args ...any) Finding {
		return Finding{Check: check, Backend: b.Name(), Case: c, Detail: fmt.Sprintf(format, args...)}
	}
	errored := func(c string, err error) {
		res.check(false, fail("error", c, "%v", err))
	}
	refErr := func(op, c string, err error) error {
		return fmt.Errorf("reference %s %s in case %s: %w", ref.Name(), op, c, err)
	}
	for _, c := range opts.Cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		in := c.Bindings.Field
		for _, p := range c.Points {
			wr, err := ref.Rotate(in.Angles, p)
			if err != nil {
				return refErr("rotate", c.Name, err)
			}
			gr, err := b.Rotate(in.Angles, p)
			if err != nil {
				errored(c.Name, err)
				continue
			}
			d := maxDiff([]float64{wr.X, wr.Y, wr.Z, wr.W}, []float64{gr.X, gr.Y, gr.Z, gr.W})
			res.check(d <= tol, fail("rotate", c.Name, "at %v: got %v, want %v (diff %.3g)", p, gr, wr, d))

			wp, err := ref.Project(in, p)
			if err != nil {
				return refErr("project", c.Name, err)
			}
			gp, err := b.Project(in, p)
			if err != nil {
				errored(c.Name, err)
				continue
			}
			d = maxDiff([]float64{wp.X, wp.Y, wp.Z}, []float64{gp.X, gp.Y, gp.Z})
			res.check(d <= tol, fail("project", c.Name, "at %v: got %v, want %v (diff %.3g)", p, gp, wp, d))

			wf, err := ref.Presence(in, p)
			if err != nil {
				return refErr("presence", c.Name, err)
			}
			gf, err := b.Presence(in, p)
			if err != nil {
				errored(c.Name, err)
				continue
			}
			d = maxDiff([]float64{wf}, []float64{gf})
			res.check(d <= tol, fail("presence", c.Name, "at %v: got %.6f, want %.6f", p, gf, wf))
		}

		bind := c.Bindings
		wc, err := ref.Color(bind.Hue, bind.Saturation, bind.Intensity)
		if err != nil {
			return refErr("color", c.Name, err)
		}
		gc, err := b.Color(bind.Hue, bind.Saturation, bind.Intensity)
		if err != nil {
			errored(c.Name, err)
		} else {
			d := lattice.ColorDistance(wc, gc)
			res.check(d <= tol, fail("color", c.Name, "hue %g: got %s, want %s", bind.Hue, gc.Hex(), wc.Hex()))
		}

		sb, ok := b.(ShaderBackend)
		if !ok || len(c.Frags) == 0 {
			continue
		}
		compiled := in.Compile()
		for _, frag := range c.Frags {
			want := sb.System().ShadeNative(compiled, bind, frag)
			got, err := sb.Shade(bind, frag)
			if err != nil {
				errored(c.Name, err)
				continue
			}
			d := lattice.ColorDistance(want, got)
			res.check(d <= tol, fail("shade", c.Name, "frag %v: got %s, want %s", frag, got.Hex(), want.Hex()))
		}
	}
	return nil
}

// static diffs every canonical function in the backend's source against
// the canonical emission.
func static(res *result, b ShaderBackend) {
	l := b.Language()
	funcs := shader.ExtractFunctions(l, b.Source())
	for _, name := range shader.CanonicalNames() {
		want, _ := shader.Canonical(l, name)
		got := funcs[name]
		f := Finding{Check: "static", Backend: b.Name()}
		switch {
		case len(got) == 0:
			f.Detail = name + " missing"
			res.check(false, f)
		case len(got) > 1:
			f.Detail = fmt.Sprintf("%s defined %d times", name, len(got))
			res.check(false, f)
		default:
			f.Detail = name + " diverges: " + firstDifference(want, got[0])
			res.check(got[0] == want, f)
		}
	}
}

func firstDifference(want, got string) string {
	wl, gl := strings.Split(want, "\n"), strings.Split(got, "\n")
	for i := range min(len(wl), len(gl)) {
		if wl[i] != gl[i] {
			return fmt.Sprintf("line %d: got %q, want %q", i+1, strings.TrimSpace(gl[i]), strings.TrimSpace(wl[i]))
		}
	}
	return fmt.Sprintf("got %d lines, want %d", len(gl), len(wl))
}

// units enforces the hue convention: the hue uniform is declared in
// degrees, and every read of it in the source sits inside a hueUnit call.
func units(res *result, b ShaderBackend) {
	f := Finding{Check: "units", Backend: b.Name()}
	u, ok := b.Module().Uniform(shader.HueUniform)
	f.Detail = fmt.Sprintf("hue uniform declared in %q, want degrees", u.Unit)
	res.check(ok && u.Unit == "degrees", f)

	bad := HueReadsOutsideHueUnit(b.Language(), b.Source())
	if len(bad) == 0 {
		res.check(true, f)
		return
	}
	for _, line := range bad {
		f.Detail = fmt.Sprintf("hue read without %s on line %d", shader.FnHueUnit, line)
		res.check(false, f)
	}
}

// HueReadsOutsideHueUnit returns the 1-based lines of src that read the
// hue uniform outside any hueUnit(...) call. Uniform declarations are
// skipped.
func HueReadsOutsideHueUnit(l shader.Lang, src string) []int {
	ref := l.UniformName(shader.HueUniform)
	var bad []int
	for i := 0; ; {
		j := strings.Index(src[i:], ref)
		if j < 0 {
			break
		}
		at := i + j
		i = at + len(ref)
		if i < len(src) && isIdent(src[i]) || at > 0 && isIdent(src[at-1]) {
			continue
		}
		lineStart := strings.LastIndexByte(src[:at], '\n') + 1
		if strings.HasPrefix(strings.TrimSpace(src[lineStart:at]), "uniform") {
			continue
		}
		if !insideCall(src[lineStart:at], shader.FnHueUnit) {
			bad = append(bad, strings.Count(src[:at], "\n")+1)
		}
	}
	sort.Ints(bad)
	return bad
}

// insideCall reports whether the end of prefix is within an unclosed
// call to name.
func insideCall(prefix, name string) bool {
	depth := 0
	for k := len(prefix) - 1; k >= 0; k-- {
		switch prefix[k] {
		case ')':
			depth++
		case '(':
			if depth > 0 {
				depth--
				continue
			}
			if strings.HasSuffix(prefix[:k], name) {
				return true
			}
		}
	}
	return false
}

func isIdent(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
