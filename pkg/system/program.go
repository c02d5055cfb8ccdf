package system

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/shader"
)

// ProgramBackend evaluates a generated program on the CPU. Its source is
// what a browser or GPU host would compile.
type ProgramBackend struct {
	name   string
	system System
	prog   *shader.Program
}

// NewProgramBackend wraps prog, built for sys.
func NewProgramBackend(sys System, prog *shader.Program) *ProgramBackend {
	return &ProgramBackend{
		name:   fmt.Sprintf("%s-%s", sys.Name, prog.Lang),
		system: sys,
		prog:   prog,
	}
}

// BuildProgramBackend assembles sys for l.
func BuildProgramBackend(sys System, l shader.Lang) (*ProgramBackend, error) {
	prog, err := sys.Program(l)
	if err != nil {
		return nil, err
	}
	return NewProgramBackend(sys, prog), nil
}

func (b *ProgramBackend) Name() string           { return b.name }
func (b *ProgramBackend) Kind() Kind             { return Shader }
func (b *ProgramBackend) System() System         { return b.system }
func (b *ProgramBackend) Language() shader.Lang  { return b.prog.Lang }
func (b *ProgramBackend) Source() string         { return b.prog.Source }
func (b *ProgramBackend) Module() *shader.Module { return b.prog.Module }

func (b *ProgramBackend) evaluator(in lattice.Inputs) *shader.Evaluator {
	bind := shader.DefaultBindings()
	bind.Field = in
	return shader.NewEvaluator(b.prog.Module, bind.Values())
}

func vec4Value(p math4d.Vec4) shader.Value { return shader.Vector(p.X, p.Y, p.Z, p.W) }

func (b *ProgramBackend) Rotate(a math4d.Angles, p math4d.Vec4) (math4d.Vec4, error) {
	args := []shader.Value{vec4Value(p)}
	for _, x := range a {
		args = append(args, shader.Scalar(x))
	}
	v, err := shader.NewEvaluator(b.prog.Module, nil).Call(shader.FnRotate4D, args...)
	if err != nil {
		return math4d.Vec4{}, err
	}
	return math4d.V4(v.V[0], v.V[1], v.V[2], v.V[3]), nil
}

func (b *ProgramBackend) Project(in lattice.Inputs, p math4d.Vec4) (math4d.Vec3, error) {
	v, err := b.evaluator(in).Call(shader.FnProjected4D, vec4Value(p))
	if err != nil {
		return math4d.Vec3{}, err
	}
	return math4d.V3(v.V[0], v.V[1], v.V[2]), nil
}

func (b *ProgramBackend) Presence(in lattice.Inputs, p math4d.Vec4) (float64, error) {
	v, err := b.evaluator(in).Call(shader.FnPresence4D, vec4Value(p))
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

// Color goes through the program's own colour path with presence 1.
func (b *ProgramBackend) Color(hue, saturation, value float64) (colorful.Color, error) {
	bind := shader.DefaultBindings()
	bind.Hue, bind.Saturation, bind.Intensity = hue, saturation, value
	v, err := shader.NewEvaluator(b.prog.Module, bind.Values()).Call(shader.FnLatticeColor, shader.Scalar(1))
	if err != nil {
		return colorful.Color{}, err
	}
	return colorful.Color{R: v.V[0], G: v.V[1], B: v.V[2]}, nil
}

func (b *ProgramBackend) Shade(bind shader.Bindings, frag [2]float64) (colorful.Color, error) {
	v, err := shader.NewEvaluator(b.prog.Module, bind.Values()).Call(shader.EntryName, shader.Vector(frag[0], frag[1]))
	if err != nil {
		return colorful.Color{}, err
	}
	return colorful.Color{R: v.V[0], G: v.V[1], B: v.V[2]}, nil
}
