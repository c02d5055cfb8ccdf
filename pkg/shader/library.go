package shader

import (
	"math"
	"strings"
	"sync"

	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/warp"
)

// Canonical function names. Backends must carry these functions with text
// identical to the canonical emission for their language.
const (
	FnClampDenom    = "clampDenom"
	FnRotate4D      = "rotate4D"
	FnProject4D     = "project4D"
	FnWarpPoint     = "warpPoint"
	FnLatticeField  = "latticeField"
	FnChaosDisplace = "chaosDisplace"
	FnProjected4D   = "projected4D"
	FnPresence4D    = "presence4D"
	FnHueUnit       = "hueUnit"
	FnHSV2RGB       = "hsv2rgb"
	FnLatticeColor  = "latticeColor"
)

var (
	vf = P("v", Float)
	p4 = P("p", Vec4)
	p3 = P("p", Vec3)
)

func rotPlane(name string, a, b int) *Func {
	f := NewFunc(name, Vec4, p4, P("a", Float))
	p := f.Arg("p")
	c := f.Let("c", Cos(f.Arg("a")))
	s := f.Let("s", Sin(f.Arg("a")))
	axes := "xyzw"
	pa := Swz(p, axes[a:a+1])
	pb := Swz(p, axes[b:b+1])
	args := make([]Expr, 4)
	for i := range 4 {
		switch i {
		case a:
			args[i] = Sub(Mul(c, pa), Mul(s, pb))
		case b:
			args[i] = Add(Mul(s, pa), Mul(c, pb))
		default:
			args[i] = Swz(p, axes[i:i+1])
		}
	}
	f.Return(V4(args...))
	return f.Func()
}

func planeFuncName(pl math4d.Plane) string { return "rot" + pl.String() }

func clampDenomFunc() *Func {
	f := NewFunc(FnClampDenom, Float, P("d", Float))
	d := f.Arg("d")
	eps := F(math4d.ProjectionEpsilon)
	f.ReturnIf(Lt(Abs(d), eps), Sel(Lt(d, F(0)), Neg(eps), eps))
	f.Return(d)
	return f.Func()
}

// rotate4DFunc applies ZW first, so the product is XY·XZ·YZ·XW·YW·ZW.
func rotate4DFunc() *Func {
	params := []Param{p4}
	for _, pl := range math4d.Planes {
		params = append(params, P(strings.ToLower(pl.String()), Float))
	}
	f := NewFunc(FnRotate4D, Vec4, params...)
	r := f.Arg("p")
	for i := math4d.PlaneCount - 1; i >= 0; i-- {
		pl := math4d.Planes[i]
		call := Call(planeFuncName(pl), Vec4, r, f.Arg(strings.ToLower(pl.String())))
		if i == 0 {
			f.Return(call)
			break
		}
		r = f.Let("r"+strings.ToLower(pl.String()), call)
	}
	return f.Func()
}

func projectionFuncs() []*Func {
	persp := NewFunc("projectPerspective", Vec3, p4, P("dist", Float))
	{
		p := persp.Arg("p")
		dist := persp.Arg("dist")
		persp.Return(Mul(Swz(p, "xyz"), Div(dist, Call(FnClampDenom, Float, Add(dist, Swz(p, "w"))))))
	}
	stereo := NewFunc("projectStereographic", Vec3, p4, P("rad", Float))
	{
		p := stereo.Arg("p")
		rad := stereo.Arg("rad")
		stereo.Return(Mul(Swz(p, "xyz"), Div(rad, Call(FnClampDenom, Float, Sub(rad, Swz(p, "w"))))))
	}
	ortho := NewFunc("projectOrthographic", Vec3, p4)
	ortho.Return(Swz(ortho.Arg("p"), "xyz"))
	oblique := NewFunc("projectOblique", Vec3, p4, P("shx", Float), P("shy", Float))
	{
		p := oblique.Arg("p")
		w := Swz(p, "w")
		oblique.Return(V3(
			Add(Swz(p, "x"), Mul(oblique.Arg("shx"), w)),
			Add(Swz(p, "y"), Mul(oblique.Arg("shy"), w)),
			Swz(p, "z"),
		))
	}
	f := NewFunc(FnProject4D, Vec3, p4, P("mode", Float), P("dist", Float), P("rad", Float), P("shx", Float), P("shy", Float))
	p := f.Arg("p")
	mode := f.Arg("mode")
	f.ReturnIf(Lt(mode, F(0.5)), Call("projectPerspective", Vec3, p, f.Arg("dist")))
	f.ReturnIf(Lt(mode, F(1.5)), Call("projectStereographic", Vec3, p, f.Arg("rad")))
	f.ReturnIf(Lt(mode, F(2.5)), Call("projectOrthographic", Vec3, p))
	f.Return(Call("projectOblique", Vec3, p, f.Arg("shx"), f.Arg("shy")))
	return []*Func{persp.Func(), stereo.Func(), ortho.Func(), oblique.Func(), f.Func()}
}

func blendFunc(name, target string, extra ...Param) *Func {
	params := append([]Param{p4, P("method", Float)}, extra...)
	params = append(params, P("blend", Float))
	f := NewFunc(name, Vec4, params...)
	args := []Expr{f.Arg("p"), f.Arg("method")}
	for _, e := range extra {
		args = append(args, f.Arg(e.Name))
	}
	t := f.Let("t", Call(target, Vec4, args...))
	b := f.Let("b", Clamp(f.Arg("blend"), F(0), F(1)))
	f.Return(Add(Mul(f.Arg("p"), Sub(F(1), b)), Mul(t, b)))
	return f.Func()
}

func hypersphereFuncs() []*Func {
	rad := P("rad", Float)
	radial := NewFunc("warpRadial", Vec4, p4, rad)
	{
		p := radial.Arg("p")
		l := radial.Let("l", Length(p))
		radial.ReturnIf(Lt(l, F(warp.Epsilon)), V4(F(0), F(0), F(0), radial.Arg("rad")))
		radial.Return(Mul(p, Div(radial.Arg("rad"), l)))
	}
	stereo := NewFunc("warpStereographic", Vec4, p4, rad)
	{
		p := stereo.Arg("p")
		x, y, z := Swz(p, "x"), Swz(p, "y"), Swz(p, "z")
		s := stereo.Let("s", Add(Add(Mul(x, x), Mul(y, y)), Mul(z, z)))
		k := stereo.Let("k", Div(stereo.Arg("rad"), Add(s, F(1))))
		stereo.Return(V4(
			Mul(Mul(F(2), x), k),
			Mul(Mul(F(2), y), k),
			Mul(Mul(F(2), z), k),
			Mul(Sub(s, F(1)), k),
		))
	}
	hopf := NewFunc("warpHopf", Vec4, p4, rad)
	{
		p := hopf.Arg("p")
		r := hopf.Arg("rad")
		theta := hopf.Let("theta", Atan2(Swz(p, "y"), Swz(p, "x")))
		phi := hopf.Let("phi", Atan2(Swz(p, "w"), Swz(p, "z")))
		psi := hopf.Let("psi", Atan2(Length(Swz(p, "xy")), Length(Swz(p, "zw"))))
		sp := hopf.Let("sp", Sin(psi))
		cp := hopf.Let("cp", Cos(psi))
		pt := hopf.Let("pt", Add(phi, theta))
		hopf.Return(V4(
			Mul(Mul(Cos(theta), sp), r),
			Mul(Mul(Sin(theta), sp), r),
			Mul(Mul(Cos(pt), cp), r),
			Mul(Mul(Sin(pt), cp), r),
		))
	}
	target := NewFunc("hypersphereTarget", Vec4, p4, P("method", Float), rad)
	{
		p, m, r := target.Arg("p"), target.Arg("method"), target.Arg("rad")
		target.ReturnIf(Lt(m, F(0.5)), Call("warpRadial", Vec4, p, r))
		target.ReturnIf(Lt(m, F(1.5)), Call("warpStereographic", Vec4, p, r))
		target.Return(Call("warpHopf", Vec4, p, r))
	}
	return []*Func{radial.Func(), stereo.Func(), hopf.Func(), target.Func(),
		blendFunc("hypersphereWarp", "hypersphereTarget", rad)}
}

// pentatopeVertex i at unit circumradius, times size. Coordinates are
// literal so every backend sees the same numbers.
func pentatopeFuncs() []*Func {
	size := P("size", Float)
	unit := warp.UnitPentatopeVertices()
	var out []*Func
	for i, v := range unit {
		f := NewFunc(fmtName("pentatopeV", i), Vec4, size)
		f.Return(Mul(V4(F(v.X), F(v.Y), F(v.Z), F(v.W)), f.Arg("size")))
		out = append(out, f.Func())
	}
	return out
}

func fmtName(prefix string, i int) string { return prefix + string(rune('0'+i)) }

// vertices binds v0..v4 in f and returns them.
func vertices(f *FuncBuilder) [5]Expr {
	var vs [5]Expr
	for i := range vs {
		vs[i] = f.Let(fmtName("v", i), Call(fmtName("pentatopeV", i), Vec4, f.Arg("size")))
	}
	return vs
}

func distSq(f *FuncBuilder, name string, p, q Expr) Expr {
	d := f.Let(name+"d", Sub(p, q))
	return Dot(d, d)
}

// nearest binds candidates in order and keeps the first strictly closest.
func nearest(f *FuncBuilder, p Expr, cands []Expr, tag string) Expr {
	best := f.Let(tag+"0", cands[0])
	bd := f.Let(tag+"0s", distSq(f, tag+"0", p, best))
	for i, c := range cands[1:] {
		n := fmtName(tag, i+1)
		q := f.Let(n, c)
		d := f.Let(n+"s", distSq(f, n, p, q))
		closer := f.Let(n+"c", Lt(d, bd))
		best = f.Let(n+"b", Sel(closer, q, best))
		bd = f.Let(n+"bs", Sel(closer, d, bd))
	}
	return best
}

func hypertetraFuncs() []*Func {
	size := P("size", Float)
	seg := NewFunc("segmentPoint", Vec4, p4, P("a", Vec4), P("b", Vec4))
	{
		a := seg.Arg("a")
		ab := seg.Let("ab", Sub(seg.Arg("b"), a))
		t := seg.Let("t", Clamp(Div(Dot(Sub(seg.Arg("p"), a), ab), Dot(ab, ab)), F(0), F(1)))
		seg.Return(Add(a, Mul(ab, t)))
	}

	idw := NewFunc("tetraInverseDistance", Vec4, p4, size)
	{
		p := idw.Arg("p")
		vs := vertices(idw)
		var sum, total Expr
		for i, v := range vs {
			w := idw.Let(fmtName("w", i), Div(F(1), Add(distSq(idw, fmtName("w", i), p, v), F(1e-4))))
			if i == 0 {
				sum, total = Mul(v, w), w
				continue
			}
			sum, total = Add(sum, Mul(v, w)), Add(total, w)
		}
		s := idw.Let("sum", sum)
		idw.Return(Mul(s, Div(F(1), total)))
	}

	edges := NewFunc("tetraNearestEdge", Vec4, p4, size)
	{
		p := edges.Arg("p")
		vs := vertices(edges)
		var cands []Expr
		for _, e := range warp.PentatopeEdges {
			cands = append(cands, Call("segmentPoint", Vec4, p, vs[e[0]], vs[e[1]]))
		}
		edges.Return(nearest(edges, p, cands, "e"))
	}

	cells := NewFunc("tetraNearestCell", Vec4, p4, size)
	{
		p := cells.Arg("p")
		vs := vertices(cells)
		var cands []Expr
		for _, c := range warp.PentatopeCells {
			cands = append(cands, Mul(Add(Add(Add(vs[c[0]], vs[c[1]]), vs[c[2]]), vs[c[3]]), F(0.25)))
		}
		cells.Return(nearest(cells, p, cands, "c"))
	}

	surf := NewFunc("tetraSurface", Vec4, p4, size)
	{
		p := surf.Arg("p")
		vs := vertices(surf)
		var cands []Expr
		for _, fc := range warp.PentatopeFaces {
			cands = append(cands, Mul(Add(Add(vs[fc[0]], vs[fc[1]]), vs[fc[2]]), F(1.0/3)))
		}
		c := nearest(surf, p, cands, "f")
		n := surf.Let("n", Normalize(c))
		surf.Return(Sub(p, Mul(n, Dot(Sub(p, c), n))))
	}

	target := NewFunc("hypertetraTarget", Vec4, p4, P("method", Float), size)
	{
		p, m, s := target.Arg("p"), target.Arg("method"), target.Arg("size")
		target.ReturnIf(Lt(m, F(0.5)), Call("tetraInverseDistance", Vec4, p, s))
		target.ReturnIf(Lt(m, F(1.5)), Call("tetraNearestEdge", Vec4, p, s))
		target.ReturnIf(Lt(m, F(2.5)), Call("tetraNearestCell", Vec4, p, s))
		target.Return(Call("tetraSurface", Vec4, p, s))
	}

	return []*Func{seg.Func(), idw.Func(), edges.Func(), cells.Func(), surf.Func(), target.Func(),
		blendFunc("hypertetraWarp", "hypertetraTarget", size)}
}

func warpPointFunc() *Func {
	f := NewFunc(FnWarpPoint, Vec4, p4, P("core", Float), P("sphereMethod", Float), P("tetraMethod", Float),
		P("rad", Float), P("size", Float), P("blend", Float))
	p, core, blend := f.Arg("p"), f.Arg("core"), f.Arg("blend")
	f.ReturnIf(Lt(core, F(0.5)), p)
	f.ReturnIf(Lt(core, F(1.5)), Call("hypersphereWarp", Vec4, p, f.Arg("sphereMethod"), f.Arg("rad"), blend))
	f.Return(Call("hypertetraWarp", Vec4, p, f.Arg("tetraMethod"), f.Arg("size"), blend))
	return f.Func()
}

var (
	gp  = P("g", Float)
	thp = P("th", Float)
)

func latticeFunc(name string, body func(f *FuncBuilder, p, g, th Expr) Expr) *Func {
	f := NewFunc(name, Float, p3, gp, thp)
	f.Return(body(f, f.Arg("p"), f.Arg("g"), f.Arg("th")))
	return f.Func()
}

func lineCall(d, w Expr) Expr { return Call("fieldLine", Float, d, w) }

func cellCall(f *FuncBuilder, p, g Expr) Expr {
	return f.Let("c", Call("latticeCell", Vec3, Mul(p, g)))
}

func latticeFuncs() []*Func {
	tau := F(2 * math.Pi)

	line := NewFunc("fieldLine", Float, P("d", Float), P("w", Float))
	line.Return(Sub(F(1), Smoothstep(F(0), line.Arg("w"), Abs(line.Arg("d")))))

	cell := NewFunc("latticeCell", Vec3, P("q", Vec3))
	cell.Return(Sub(Fract(cell.Arg("q")), F(0.5)))

	median := NewFunc("median3", Float, P("a", Float), P("b", Float), P("c", Float))
	{
		a, b, c := median.Arg("a"), median.Arg("b"), median.Arg("c")
		median.Return(Max(Min(a, b), Min(Max(a, b), c)))
	}

	cube := NewFunc("cubeEdges", Float, P("c", Vec3), thp)
	{
		b := cube.Let("b", Sub(F(0.5), Abs(cube.Arg("c"))))
		bx, by, bz := Swz(b, "x"), Swz(b, "y"), Swz(b, "z")
		th := cube.Arg("th")
		edge := cube.Let("edge", lineCall(Call("median3", Float, bx, by, bz), th))
		face := cube.Let("face", lineCall(Min(bx, Min(by, bz)), th))
		cube.Return(Max(edge, Mul(F(0.3), face)))
	}

	hypercube := latticeFunc("latticeHypercube", func(f *FuncBuilder, p, g, th Expr) Expr {
		return Call("cubeEdges", Float, Call("latticeCell", Vec3, Mul(p, g)), th)
	})
	tetra := latticeFunc("latticeTetrahedron", func(f *FuncBuilder, p, g, th Expr) Expr {
		c := cellCall(f, p, g)
		corner := func(x, y, z float64) Expr { return Length(Sub(c, V3(F(x), F(y), F(z)))) }
		d := f.Let("d", Min(Min(Min(corner(0.25, 0.25, 0.25), corner(0.25, -0.25, -0.25)),
			corner(-0.25, 0.25, -0.25)), corner(-0.25, -0.25, 0.25)))
		node := f.Let("node", lineCall(Sub(d, F(0.04)), Mul(F(2), th)))
		return Max(Call("cubeEdges", Float, c, th), Mul(F(0.5), node))
	})
	sphere := latticeFunc("latticeSphere", func(f *FuncBuilder, p, g, th Expr) Expr {
		s := f.Let("s", Fract(Mul(Length(p), g)))
		return lineCall(Sub(s, F(0.5)), Mul(F(2), th))
	})
	torus := latticeFunc("latticeTorus", func(f *FuncBuilder, p, g, th Expr) Expr {
		c := cellCall(f, p, g)
		rx := f.Let("rx", Sub(Length(Swz(c, "xz")), F(0.3)))
		d := f.Let("d", Sub(Length(V2(rx, Swz(c, "y"))), F(0.1)))
		return lineCall(d, th)
	})
	klein := latticeFunc("latticeKlein", func(f *FuncBuilder, p, g, th Expr) Expr {
		c := cellCall(f, p, g)
		x, y := Swz(c, "x"), Swz(c, "y")
		r2 := f.Let("r2", Add(Mul(x, x), Mul(y, y)))
		s2 := f.Let("s2", Div(Mul(Mul(F(2), x), y), Max(r2, F(1e-6))))
		k := f.Let("k", Mul(s2, Cos(Mul(Swz(c, "z"), tau))))
		d := f.Let("d", Sub(Sqrt(r2), Add(F(0.25), Mul(F(0.1), k))))
		return lineCall(d, th)
	})
	fractal := latticeFunc("latticeFractal", func(f *FuncBuilder, p, g, th Expr) Expr {
		q := f.Let("f0", Call("latticeCell", Vec3, Mul(p, g)))
		for i := 1; i <= 3; i++ {
			q = f.Let(fmtName("f", i), Sub(Mul(Abs(q), F(2)), F(0.5)))
		}
		d := f.Let("d", Div(Sub(Length(q), F(0.4)), F(8)))
		return lineCall(d, th)
	})
	wave := latticeFunc("latticeWave", func(f *FuncBuilder, p, g, th Expr) Expr {
		q := f.Let("q", Mul(p, g))
		s := f.Let("s", Fract(Add(Swz(q, "y"),
			Mul(Mul(F(0.25), Sin(Mul(Swz(q, "x"), tau))), Cos(Mul(Swz(q, "z"), tau))))))
		return lineCall(Sub(s, F(0.5)), Mul(F(2), th))
	})
	crystal := latticeFunc("latticeCrystal", func(f *FuncBuilder, p, g, th Expr) Expr {
		c := cellCall(f, p, g)
		a := f.Let("a", Abs(c))
		d := f.Let("d", Sub(Add(Add(Swz(a, "x"), Swz(a, "y")), Swz(a, "z")), F(0.4)))
		return lineCall(d, th)
	})

	shapes := []*Func{tetra, hypercube, sphere, torus, klein, fractal, wave, crystal}
	field := NewFunc(FnLatticeField, Float, P("base", Float), p3, gp, thp)
	{
		base, p, g, th := field.Arg("base"), field.Arg("p"), field.Arg("g"), field.Arg("th")
		for i, s := range shapes {
			field.ReturnIf(Lt(base, F(float64(i)+0.5)), Clamp(Call(s.Name, Float, p, g, th), F(0), F(1)))
		}
		field.Return(F(0))
	}

	chaos := NewFunc(FnChaosDisplace, Vec3, p3, P("chaos", Float))
	{
		p := chaos.Arg("p")
		k := chaos.Let("k", Mul(chaos.Arg("chaos"), F(0.1)))
		x, y, z := Swz(p, "x"), Swz(p, "y"), Swz(p, "z")
		chaos.Return(V3(
			Add(x, Mul(k, Sin(Mul(y, F(13))))),
			Add(y, Mul(k, Sin(Mul(z, F(13))))),
			Add(z, Mul(k, Sin(Mul(x, F(13))))),
		))
	}

	out := []*Func{line.Func(), cell.Func(), median.Func(), cube.Func()}
	out = append(out, hypercube, tetra, sphere, torus, klein, fractal, wave, crystal)
	return append(out, field.Func(), chaos.Func())
}

func uf(name string) Expr { return U(name, Float) }

func pipelineFuncs() []*Func {
	proj := NewFunc(FnProjected4D, Vec3, p4)
	{
		core := proj.Let("core", Floor(Div(uf("geometry"), F(8))))
		args := []Expr{proj.Arg("p")}
		for _, pl := range math4d.Planes {
			args = append(args, uf("rot"+pl.String()))
		}
		r := proj.Let("r", Call(FnRotate4D, Vec4, args...))
		w := proj.Let("w", Call(FnWarpPoint, Vec4, r, core, uf("sphereMethod"), uf("tetraMethod"),
			uf("warpRadius"), uf("warpSize"), uf("warpBlend")))
		proj.Return(Call(FnProject4D, Vec3, w, uf("projection"), uf("dimension"), uf("projRadius"),
			uf("shearX"), uf("shearY")))
	}
	pres := NewFunc(FnPresence4D, Float, p4)
	{
		core := pres.Let("core", Floor(Div(uf("geometry"), F(8))))
		base := pres.Let("base", Sub(uf("geometry"), Mul(core, F(8))))
		q := pres.Let("q", Call(FnChaosDisplace, Vec3, Call(FnProjected4D, Vec3, pres.Arg("p")), uf("chaos")))
		g := pres.Let("g", Mul(uf("gridDensity"), F(0.1)))
		th := pres.Let("th", Add(F(0.03), Mul(F(0.02), uf("morphFactor"))))
		pres.Return(Call(FnLatticeField, Float, base, q, g, th))
	}
	return []*Func{proj.Func(), pres.Func()}
}

func colorFuncs() []*Func {
	hue := NewFunc(FnHueUnit, Float, P("deg", Float))
	hue.Return(Fract(Div(hue.Arg("deg"), F(360))))

	hsv := NewFunc(FnHSV2RGB, Vec3, P("h", Float), P("s", Float), vf)
	{
		h := hsv.Arg("h")
		k := hsv.Let("k", Sub(Abs(Sub(Mul(Fract(Add(V3(h, h, h), V3(F(0), F(2.0/3), F(1.0/3)))), F(6)), F(3))), F(1)))
		rgb := hsv.Let("rgb", Clamp(k, Splat3(0), Splat3(1)))
		hsv.Return(Mul(hsv.Arg("v"), Mix(Splat3(1), rgb, hsv.Arg("s"))))
	}

	col := NewFunc(FnLatticeColor, Vec3, P("presence", Float))
	{
		s := col.Let("sat", Clamp(uf("saturation"), F(0), F(1)))
		v := col.Let("val", Clamp(Mul(uf("intensity"), col.Arg("presence")), F(0), F(1)))
		col.Return(Call(FnHSV2RGB, Vec3, Call(FnHueUnit, Float, uf("hue")), s, v))
	}
	return []*Func{hue.Func(), hsv.Func(), col.Func()}
}

func buildLibrary() *Module {
	m := NewModule(StandardUniforms, clampDenomFunc())
	for _, pl := range math4d.Planes {
		a, b := pl.Axes()
		m.Add(rotPlane(planeFuncName(pl), a, b))
	}
	m.Add(rotate4DFunc())
	groups := [][]*Func{
		projectionFuncs(),
		hypersphereFuncs(),
		pentatopeFuncs(),
		hypertetraFuncs(),
		{warpPointFunc()},
		latticeFuncs(),
		pipelineFuncs(),
		colorFuncs(),
	}
	for _, g := range groups {
		for _, f := range g {
			m.Add(f)
		}
	}
	return m
}

var library = sync.OnceValue(buildLibrary)

// Library returns a copy of the canonical module. Callers may add their
// own functions to it.
func Library() *Module { return library().Clone() }

// CanonicalNames lists every canonical function in emission order.
func CanonicalNames() []string {
	fs := library().Funcs
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Canonical returns the canonical emission of the named function in l.
func Canonical(l Lang, name string) (string, bool) {
	f, ok := library().Func(name)
	if !ok {
		return "", false
	}
	return EmitFunc(l, f), true
}
