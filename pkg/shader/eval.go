package shader

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Value is an evaluated IR value.
type Value struct {
	T Type
	V [4]float64
	B bool
}

// Scalar wraps a float.
func Scalar(v float64) Value { return Value{T: Float, V: [4]float64{v}} }

// Vector wraps a float vector of len(c) components.
func Vector(c ...float64) Value {
	v := Value{T: vecType(len(c))}
	copy(v.V[:], c)
	return v
}

// Boolean wraps a bool.
func Boolean(b bool) Value { return Value{T: Bool, B: b} }

// Float returns the scalar value.
func (v Value) Float() float64 { return v.V[0] }

// Components returns the first Size() components.
func (v Value) Components() []float64 { return v.V[:v.T.Size()] }

func (v Value) String() string {
	switch v.T {
	case Bool:
		return fmt.Sprint(v.B)
	case Float:
		return FormatLit(v.V[0])
	}
	parts := make([]string, v.T.Size())
	for i := range parts {
		parts[i] = FormatLit(v.V[i])
	}
	return v.T.String() + "(" + strings.Join(parts, ", ") + ")"
}

// ErrRecursion is returned when evaluation nests deeper than MaxDepth.
var ErrRecursion = errors.New("shader: call depth exceeded")

// MaxDepth bounds nested calls during evaluation.
const MaxDepth = 64

// EvalError reports a failed evaluation.
type EvalError struct {
	Func   string
	Reason string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("shader: eval %s: %s", e.Func, e.Reason)
}

// Evaluator runs module functions on the CPU with GLSL semantics. It is
// safe for concurrent use once built; Uniforms must not be mutated while
// evaluations run.
type Evaluator struct {
	Module   *Module
	Uniforms map[string]Value
}

// NewEvaluator returns an evaluator over m reading uniforms.
func NewEvaluator(m *Module, uniforms map[string]Value) *Evaluator {
	return &Evaluator{Module: m, Uniforms: uniforms}
}

// Call evaluates the named function.
func (ev *Evaluator) Call(name string, args ...Value) (Value, error) {
	return ev.call(name, args, 0)
}

func (ev *Evaluator) call(name string, args []Value, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, ErrRecursion
	}
	fn, ok := ev.Module.Func(name)
	if !ok {
		return Value{}, &EvalError{Func: name, Reason: "no such function"}
	}
	if len(args) != len(fn.Params) {
		return Value{}, &EvalError{Func: name, Reason: fmt.Sprintf("takes %d arguments, got %d", len(fn.Params), len(args))}
	}
	env := make(map[string]Value, len(fn.Params)+len(fn.Body))
	for i, p := range fn.Params {
		if args[i].T != p.T {
			return Value{}, &EvalError{Func: name, Reason: fmt.Sprintf("argument %s is %s, want %s", p.Name, args[i].T, p.T)}
		}
		env[p.Name] = args[i]
	}
	v, done, err := ev.block(fn, fn.Body, env, depth)
	if err != nil {
		return Value{}, err
	}
	if !done {
		return Value{}, &EvalError{Func: name, Reason: "fell off the end"}
	}
	return v, nil
}

func (ev *Evaluator) block(fn *Func, body []Stmt, env map[string]Value, depth int) (Value, bool, error) {
	for _, s := range body {
		switch s := s.(type) {
		case Let:
			v, err := ev.expr(fn, s.Value, env, depth)
			if err != nil {
				return Value{}, false, err
			}
			env[s.Name] = v
		case If:
			c, err := ev.expr(fn, s.Cond, env, depth)
			if err != nil {
				return Value{}, false, err
			}
			if c.B {
				if v, done, err := ev.block(fn, s.Body, env, depth); err != nil || done {
					return v, done, err
				}
			}
		case Return:
			v, err := ev.expr(fn, s.Value, env, depth)
			return v, true, err
		}
	}
	return Value{}, false, nil
}

func (ev *Evaluator) expr(fn *Func, e Expr, env map[string]Value, depth int) (Value, error) {
	switch e := e.(type) {
	case Lit:
		return Scalar(e.Value), nil
	case Ref:
		v, ok := env[e.Name]
		if !ok {
			return Value{}, &EvalError{Func: fn.Name, Reason: "undefined " + e.Name}
		}
		return v, nil
	case UniformRef:
		v, ok := ev.Uniforms[e.Name]
		if !ok {
			return Value{}, &EvalError{Func: fn.Name, Reason: "uniform " + e.Name + " unset"}
		}
		if v.T != e.T {
			return Value{}, &EvalError{Func: fn.Name, Reason: fmt.Sprintf("uniform %s is %s, want %s", e.Name, v.T, e.T)}
		}
		return v, nil
	case Binary:
		a, err := ev.expr(fn, e.A, env, depth)
		if err != nil {
			return Value{}, err
		}
		b, err := ev.expr(fn, e.B, env, depth)
		if err != nil {
			return Value{}, err
		}
		return binary(e.Op, a, b, e.T), nil
	case Unary:
		a, err := ev.expr(fn, e.A, env, depth)
		if err != nil {
			return Value{}, err
		}
		return mapc(a, func(x float64) float64 { return -x }), nil
	case Swizzle:
		a, err := ev.expr(fn, e.A, env, depth)
		if err != nil {
			return Value{}, err
		}
		out := Value{T: e.Type()}
		for i, c := range e.Comps {
			out.V[i] = a.V[strings.IndexRune("xyzw", c)]
		}
		return out, nil
	case Construct:
		out := Value{T: e.T}
		n := 0
		for _, arg := range e.Args {
			v, err := ev.expr(fn, arg, env, depth)
			if err != nil {
				return Value{}, err
			}
			n += copy(out.V[n:], v.Components())
		}
		return out, nil
	case Select:
		c, err := ev.expr(fn, e.Cond, env, depth)
		if err != nil {
			return Value{}, err
		}
		if c.B {
			return ev.expr(fn, e.A, env, depth)
		}
		return ev.expr(fn, e.B, env, depth)
	case CallExpr:
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := ev.expr(fn, arg, env, depth)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		if e.Builtin {
			return callBuiltin(e.Func, args, e.T), nil
		}
		return ev.call(e.Func, args, depth+1)
	}
	return Value{}, &EvalError{Func: fn.Name, Reason: fmt.Sprintf("unknown expression %T", e)}
}

// comp reads component i, broadcasting scalars.
func comp(v Value, i int) float64 {
	if v.T == Float {
		return v.V[0]
	}
	return v.V[i]
}

func mapc(a Value, f func(float64) float64) Value {
	out := Value{T: a.T}
	for i := range a.T.Size() {
		out.V[i] = f(a.V[i])
	}
	return out
}

func zip(t Type, f func(i int) float64) Value {
	out := Value{T: t}
	for i := range t.Size() {
		out.V[i] = f(i)
	}
	return out
}

func binary(op string, a, b Value, t Type) Value {
	switch op {
	case "+":
		return zip(t, func(i int) float64 { return comp(a, i) + comp(b, i) })
	case "-":
		return zip(t, func(i int) float64 { return comp(a, i) - comp(b, i) })
	case "*":
		return zip(t, func(i int) float64 { return comp(a, i) * comp(b, i) })
	case "/":
		return zip(t, func(i int) float64 { return comp(a, i) / comp(b, i) })
	case "<":
		return Boolean(a.V[0] < b.V[0])
	case "<=":
		return Boolean(a.V[0] <= b.V[0])
	case ">":
		return Boolean(a.V[0] > b.V[0])
	case ">=":
		return Boolean(a.V[0] >= b.V[0])
	case "&&":
		return Boolean(a.B && b.B)
	case "||":
		return Boolean(a.B || b.B)
	}
	panic("shader: unknown operator " + op)
}

func fract(x float64) float64 { return x - math.Floor(x) }

func smoothstep(e0, e1, x float64) float64 {
	t := math.Min(math.Max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}

func callBuiltin(name string, a []Value, t Type) Value {
	switch name {
	case "sin":
		return mapc(a[0], math.Sin)
	case "cos":
		return mapc(a[0], math.Cos)
	case "abs":
		return mapc(a[0], math.Abs)
	case "sqrt":
		return mapc(a[0], math.Sqrt)
	case "floor":
		return mapc(a[0], math.Floor)
	case "fract":
		return mapc(a[0], fract)
	case "exp":
		return mapc(a[0], math.Exp)
	case "length":
		return Scalar(math.Sqrt(dot(a[0], a[0])))
	case "dot":
		return Scalar(dot(a[0], a[1]))
	case "normalize":
		l := math.Sqrt(dot(a[0], a[0]))
		return mapc(a[0], func(x float64) float64 { return x / l })
	case "min":
		return zip(t, func(i int) float64 { return math.Min(a[0].V[i], a[1].V[i]) })
	case "max":
		return zip(t, func(i int) float64 { return math.Max(a[0].V[i], a[1].V[i]) })
	case "pow":
		return zip(t, func(i int) float64 { return math.Pow(a[0].V[i], a[1].V[i]) })
	case "step":
		return zip(t, func(i int) float64 {
			if a[1].V[i] < a[0].V[i] {
				return 0
			}
			return 1
		})
	case "atan2":
		return Scalar(math.Atan2(a[0].V[0], a[1].V[0]))
	case "clamp":
		return zip(t, func(i int) float64 { return math.Min(math.Max(a[0].V[i], a[1].V[i]), a[2].V[i]) })
	case "mix":
		return zip(t, func(i int) float64 {
			w := comp(a[2], i)
			return a[0].V[i]*(1-w) + a[1].V[i]*w
		})
	case "smoothstep":
		return zip(t, func(i int) float64 { return smoothstep(a[0].V[0], a[1].V[0], a[2].V[i]) })
	}
	panic("shader: unknown builtin " + name)
}

func dot(a, b Value) float64 {
	var s float64
	for i := range a.T.Size() {
		s += a.V[i] * b.V[i]
	}
	return s
}
