package system

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/shader"
)

// System is a visual style: its own entry point over the shared library.
// Native is the same formula in Go and is what the terminal renderer draws.
type System struct {
	Name        string
	Description string
	entry       func() *shader.Func
	native      func(c lattice.Compiled, b shader.Bindings, frag [2]float64) colorful.Color
}

// ShadeNative evaluates the system's entry formula in Go.
func (s System) ShadeNative(c lattice.Compiled, b shader.Bindings, frag [2]float64) colorful.Color {
	return s.native(c, b, frag)
}

// Module returns the canonical library plus the system's entry point.
func (s System) Module() *shader.Module {
	m := shader.Library()
	m.Add(s.entry())
	return m
}

// Program assembles the system for l.
func (s System) Program(l shader.Lang) (*shader.Program, error) {
	p, err := shader.Assemble(s.Name, l, s.Module())
	if err != nil {
		return nil, fmt.Errorf("system %s: %w", s.Name, err)
	}
	return p, nil
}

var (
	Faceted = System{
		Name:        "faceted",
		Description: "single lattice layer",
		entry:       facetedEntry,
		native:      facetedNative,
	}
	Quantum = System{
		Name:        "quantum",
		Description: "two interfering layers, the second shifted 40° in hue",
		entry:       quantumEntry,
		native:      quantumNative,
	}
	Holographic = System{
		Name:        "holographic",
		Description: "chromatic fringes and scanlines",
		entry:       holographicEntry,
		native:      holographicNative,
	}
)

// Systems lists every visual system.
var Systems = []System{Faceted, Quantum, Holographic}

// LookupSystem finds a system by name.
func LookupSystem(name string) (System, bool) {
	for _, s := range Systems {
		if s.Name == name {
			return s, true
		}
	}
	return System{}, false
}

const (
	quantumHueShift = 40.0
	quantumScale    = 1.5
	quantumOffsetW  = 0.25
	fringeOffset    = 0.01
)

// entryPoint binds the 4D sample point shared by every system: centred,
// aspect-corrected screen coordinates in x and y, and a slow drift in z
// and w.
func entryPoint(f *shader.FuncBuilder) (p, t shader.Expr) {
	res := shader.U("resolution", shader.Vec2)
	m := f.Let("m", shader.Min(shader.Swz(res, "x"), shader.Swz(res, "y")))
	uv := f.Let("uv", shader.Div(shader.Sub(f.Arg("frag"), shader.Mul(res, shader.F(0.5))), m))
	t = f.Let("t", shader.Mul(shader.U("time", shader.Float), shader.U("speed", shader.Float)))
	p = f.Let("p", shader.V4(
		shader.Mul(shader.Swz(uv, "x"), shader.F(2)),
		shader.Mul(shader.Swz(uv, "y"), shader.F(2)),
		shader.Mul(shader.Sin(shader.Mul(t, shader.F(0.2))), shader.F(0.5)),
		shader.Mul(shader.Cos(shader.Mul(t, shader.F(0.15))), shader.F(0.5)),
	))
	return p, t
}

func nativePoint(b shader.Bindings, frag [2]float64) (math4d.Vec4, float64) {
	m := math.Min(b.Resolution[0], b.Resolution[1])
	ux := (frag[0] - b.Resolution[0]*0.5) / m
	uy := (frag[1] - b.Resolution[1]*0.5) / m
	t := b.Time * b.Speed
	return math4d.V4(ux*2, uy*2, math.Sin(t*0.2)*0.5, math.Cos(t*0.15)*0.5), t
}

func newEntry() *shader.FuncBuilder {
	return shader.NewFunc(shader.EntryName, shader.Vec4, shader.P("frag", shader.Vec2))
}

func clampColor(c colorful.Color) colorful.Color {
	return colorful.Color{
		R: math.Min(math.Max(c.R, 0), 1),
		G: math.Min(math.Max(c.G, 0), 1),
		B: math.Min(math.Max(c.B, 0), 1),
	}
}

func facetedEntry() *shader.Func {
	f := newEntry()
	p, _ := entryPoint(f)
	pr := f.Let("pr", shader.Call(shader.FnPresence4D, shader.Float, p))
	f.Return(shader.V4(shader.Call(shader.FnLatticeColor, shader.Vec3, pr), shader.F(1)))
	return f.Func()
}

func facetedNative(c lattice.Compiled, b shader.Bindings, frag [2]float64) colorful.Color {
	p, _ := nativePoint(b, frag)
	return lattice.Shade(b.Hue, b.Saturation, b.Intensity, c.Presence(p))
}

func quantumEntry() *shader.Func {
	f := newEntry()
	p, _ := entryPoint(f)
	pr := f.Let("pr", shader.Call(shader.FnPresence4D, shader.Float, p))
	shifted := shader.Add(shader.Mul(p, shader.F(quantumScale)), shader.V4(shader.F(0), shader.F(0), shader.F(0), shader.F(quantumOffsetW)))
	q := f.Let("q", shader.Call(shader.FnPresence4D, shader.Float, shifted))
	base := f.Let("base", shader.Call(shader.FnLatticeColor, shader.Vec3, pr))
	glow := f.Let("glow", shader.Call(shader.FnHSV2RGB, shader.Vec3,
		shader.Call(shader.FnHueUnit, shader.Float, shader.Add(shader.U(shader.HueUniform, shader.Float), shader.F(quantumHueShift))),
		shader.Clamp(shader.U("saturation", shader.Float), shader.F(0), shader.F(1)),
		shader.Clamp(shader.Mul(shader.Mul(shader.U("intensity", shader.Float), q), shader.F(0.5)), shader.F(0), shader.F(1)),
	))
	f.Return(shader.V4(shader.Clamp(shader.Add(base, glow), shader.Splat3(0), shader.Splat3(1)), shader.F(1)))
	return f.Func()
}

func quantumNative(c lattice.Compiled, b shader.Bindings, frag [2]float64) colorful.Color {
	p, _ := nativePoint(b, frag)
	pr := c.Presence(p)
	q := c.Presence(p.Scale(quantumScale).Add(math4d.V4(0, 0, 0, quantumOffsetW)))
	base := lattice.Shade(b.Hue, b.Saturation, b.Intensity, pr)
	glow := lattice.Color(b.Hue+quantumHueShift, b.Saturation, b.Intensity*q*0.5)
	return clampColor(colorful.Color{R: base.R + glow.R, G: base.G + glow.G, B: base.B + glow.B})
}

func holographicEntry() *shader.Func {
	f := newEntry()
	p, t := entryPoint(f)
	off := shader.V4(shader.F(fringeOffset), shader.F(0), shader.F(0), shader.F(0))
	pr := f.Let("pr", shader.Call(shader.FnPresence4D, shader.Float, p))
	red := f.Let("red", shader.Call(shader.FnPresence4D, shader.Float, shader.Add(p, off)))
	blue := f.Let("blue", shader.Call(shader.FnPresence4D, shader.Float, shader.Sub(p, off)))
	base := f.Let("base", shader.Call(shader.FnLatticeColor, shader.Vec3, pr))
	fringe := f.Let("fringe", shader.Mul(shader.V3(red, shader.F(0), blue), shader.Mul(shader.U("intensity", shader.Float), shader.F(0.25))))
	phase := shader.Add(shader.Mul(shader.Swz(f.Arg("frag"), "y"), shader.F(1.5)), shader.Mul(t, shader.F(3)))
	scan := f.Let("scan", shader.Add(shader.F(0.9), shader.Mul(shader.F(0.1), shader.Sin(phase))))
	f.Return(shader.V4(shader.Clamp(shader.Mul(shader.Add(base, fringe), scan), shader.Splat3(0), shader.Splat3(1)), shader.F(1)))
	return f.Func()
}

func holographicNative(c lattice.Compiled, b shader.Bindings, frag [2]float64) colorful.Color {
	p, t := nativePoint(b, frag)
	off := math4d.V4(fringeOffset, 0, 0, 0)
	pr := c.Presence(p)
	red := c.Presence(p.Add(off))
	blue := c.Presence(p.Sub(off))
	base := lattice.Shade(b.Hue, b.Saturation, b.Intensity, pr)
	k := b.Intensity * 0.25
	scan := 0.9 + 0.1*math.Sin(frag[1]*1.5+t*3)
	return clampColor(colorful.Color{
		R: (base.R + red*k) * scan,
		G: base.G * scan,
		B: (base.B + blue*k) * scan,
	})
}
