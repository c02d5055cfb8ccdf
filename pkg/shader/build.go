package shader

import (
	"fmt"
	"strings"
)

// The expression constructors below panic on ill-typed input. IR is built
// by this package's own code at init, so a type error is a programming bug.

// F is a float literal.
func F(v float64) Expr { return Lit{Value: v} }

// U reads the uniform name of type t.
func U(name string, t Type) Expr { return UniformRef{Name: name, T: t} }

func arith(op string, a, b Expr) Expr {
	ta, tb := a.Type(), b.Type()
	var t Type
	switch {
	case ta == tb && (ta == Float || ta.IsVector()):
		t = ta
	case ta == Float && tb.IsVector():
		t = tb
	case ta.IsVector() && tb == Float:
		t = ta
	default:
		panic(fmt.Sprintf("shader: %s %s %s is not defined", ta, op, tb))
	}
	return Binary{Op: op, A: a, B: b, T: t}
}

func Add(a, b Expr) Expr { return arith("+", a, b) }
func Sub(a, b Expr) Expr { return arith("-", a, b) }
func Mul(a, b Expr) Expr { return arith("*", a, b) }
func Div(a, b Expr) Expr { return arith("/", a, b) }

// Neg negates a float or vector.
func Neg(a Expr) Expr {
	if a.Type() == Bool {
		panic("shader: cannot negate bool")
	}
	return Unary{A: a}
}

func compare(op string, a, b Expr) Expr {
	if a.Type() != Float || b.Type() != Float {
		panic(fmt.Sprintf("shader: %s %s %s: comparisons take floats", a.Type(), op, b.Type()))
	}
	return Binary{Op: op, A: a, B: b, T: Bool}
}

func Lt(a, b Expr) Expr { return compare("<", a, b) }
func Le(a, b Expr) Expr { return compare("<=", a, b) }
func Gt(a, b Expr) Expr { return compare(">", a, b) }
func Ge(a, b Expr) Expr { return compare(">=", a, b) }

func logic(op string, a, b Expr) Expr {
	if a.Type() != Bool || b.Type() != Bool {
		panic(fmt.Sprintf("shader: %s takes bools", op))
	}
	return Binary{Op: op, A: a, B: b, T: Bool}
}

func And(a, b Expr) Expr { return logic("&&", a, b) }
func Or(a, b Expr) Expr  { return logic("||", a, b) }

// Sel is cond ? a : b.
func Sel(cond, a, b Expr) Expr {
	if cond.Type() != Bool {
		panic("shader: select condition must be bool")
	}
	if a.Type() != b.Type() {
		panic(fmt.Sprintf("shader: select arms differ: %s and %s", a.Type(), b.Type()))
	}
	return Select{Cond: cond, A: a, B: b}
}

// Swz swizzles a vector, e.g. Swz(p, "xyz").
func Swz(a Expr, comps string) Expr {
	n := a.Type().Size()
	if !a.Type().IsVector() || len(comps) == 0 || len(comps) > 4 {
		panic(fmt.Sprintf("shader: cannot swizzle %s with %q", a.Type(), comps))
	}
	for _, c := range comps {
		i := strings.IndexRune("xyzw", c)
		if i < 0 || i >= n {
			panic(fmt.Sprintf("shader: component %q out of range for %s", c, a.Type()))
		}
	}
	return Swizzle{A: a, Comps: comps}
}

func construct(t Type, args []Expr) Expr {
	n := 0
	for _, a := range args {
		if a.Type() == Bool || a.Type() == Void {
			panic("shader: vector components must be floats")
		}
		n += a.Type().Size()
	}
	if n != t.Size() {
		panic(fmt.Sprintf("shader: %s built from %d components", t, n))
	}
	return Construct{T: t, Args: args}
}

func V2(args ...Expr) Expr { return construct(Vec2, args) }
func V3(args ...Expr) Expr { return construct(Vec3, args) }
func V4(args ...Expr) Expr { return construct(Vec4, args) }

// Splat3 is vec3(v, v, v) for a float literal v.
func Splat3(v float64) Expr { return V3(F(v), F(v), F(v)) }

// Call calls a module function returning t.
func Call(name string, t Type, args ...Expr) Expr {
	return CallExpr{Func: name, Args: args, T: t}
}

type builtinSig struct {
	arity int
	// result computes the result type, or panics when args are invalid.
	result func(name string, args []Expr) Type
}

func sameType(name string, args []Expr) Type {
	t := args[0].Type()
	if t != Float && !t.IsVector() {
		panic(fmt.Sprintf("shader: %s of %s", name, t))
	}
	for _, a := range args[1:] {
		if a.Type() != t {
			panic(fmt.Sprintf("shader: %s mixes %s and %s", name, t, a.Type()))
		}
	}
	return t
}

func toFloat(name string, args []Expr) Type {
	sameType(name, args)
	return Float
}

func scalarOnly(name string, args []Expr) Type {
	for _, a := range args {
		if a.Type() != Float {
			panic(fmt.Sprintf("shader: %s takes floats", name))
		}
	}
	return Float
}

func mixSig(name string, args []Expr) Type {
	t := sameType(name, args[:2])
	if a := args[2].Type(); a != Float && a != t {
		panic(fmt.Sprintf("shader: %s weight %s for %s", name, a, t))
	}
	return t
}

func smoothSig(name string, args []Expr) Type {
	scalarOnly(name, args[:2])
	if t := args[2].Type(); t != Float && !t.IsVector() {
		panic(fmt.Sprintf("shader: %s of %s", name, t))
	}
	return args[2].Type()
}

var builtins = map[string]builtinSig{
	"sin":        {1, sameType},
	"cos":        {1, sameType},
	"abs":        {1, sameType},
	"sqrt":       {1, sameType},
	"floor":      {1, sameType},
	"fract":      {1, sameType},
	"exp":        {1, sameType},
	"normalize":  {1, sameType},
	"length":     {1, toFloat},
	"dot":        {2, toFloat},
	"min":        {2, sameType},
	"max":        {2, sameType},
	"pow":        {2, sameType},
	"step":       {2, sameType},
	"atan2":      {2, scalarOnly},
	"clamp":      {3, sameType},
	"mix":        {3, mixSig},
	"smoothstep": {3, smoothSig},
}

func builtin(name string, args ...Expr) Expr {
	sig, ok := builtins[name]
	if !ok {
		panic("shader: unknown builtin " + name)
	}
	if len(args) != sig.arity {
		panic(fmt.Sprintf("shader: %s takes %d arguments, got %d", name, sig.arity, len(args)))
	}
	return CallExpr{Func: name, Args: args, T: sig.result(name, args), Builtin: true}
}

func Sin(a Expr) Expr                { return builtin("sin", a) }
func Cos(a Expr) Expr                { return builtin("cos", a) }
func Abs(a Expr) Expr                { return builtin("abs", a) }
func Sqrt(a Expr) Expr               { return builtin("sqrt", a) }
func Floor(a Expr) Expr              { return builtin("floor", a) }
func Fract(a Expr) Expr              { return builtin("fract", a) }
func Exp(a Expr) Expr                { return builtin("exp", a) }
func Normalize(a Expr) Expr          { return builtin("normalize", a) }
func Length(a Expr) Expr             { return builtin("length", a) }
func Dot(a, b Expr) Expr             { return builtin("dot", a, b) }
func Min(a, b Expr) Expr             { return builtin("min", a, b) }
func Max(a, b Expr) Expr             { return builtin("max", a, b) }
func Pow(a, b Expr) Expr             { return builtin("pow", a, b) }
func Step(edge, x Expr) Expr         { return builtin("step", edge, x) }
func Atan2(y, x Expr) Expr           { return builtin("atan2", y, x) }
func Clamp(x, lo, hi Expr) Expr      { return builtin("clamp", x, lo, hi) }
func Mix(a, b, t Expr) Expr          { return builtin("mix", a, b, t) }
func Smoothstep(e0, e1, x Expr) Expr { return builtin("smoothstep", e0, e1, x) }

// FuncBuilder assembles a Func statement by statement.
type FuncBuilder struct {
	fn     *Func
	body   *[]Stmt
	locals map[string]Type
	// returned tracks whether the current block ended in a Return.
	returned bool
}

// NewFunc starts a function named name returning result.
func NewFunc(name string, result Type, params ...Param) *FuncBuilder {
	fn := &Func{Name: name, Params: params, Result: result}
	b := &FuncBuilder{fn: fn, body: &fn.Body, locals: make(map[string]Type)}
	for _, p := range params {
		b.declare(p.Name, p.T)
	}
	return b
}

// P declares a parameter.
func P(name string, t Type) Param { return Param{Name: name, T: t} }

func (b *FuncBuilder) declare(name string, t Type) {
	if _, dup := b.locals[name]; dup {
		panic(fmt.Sprintf("shader: %s redeclares %s", b.fn.Name, name))
	}
	b.locals[name] = t
}

// Arg returns a reference to the named parameter.
func (b *FuncBuilder) Arg(name string) Expr {
	for _, p := range b.fn.Params {
		if p.Name == name {
			return Ref{Name: p.Name, T: p.T}
		}
	}
	panic(fmt.Sprintf("shader: %s has no parameter %s", b.fn.Name, name))
}

// Let binds name to v and returns a reference to it.
func (b *FuncBuilder) Let(name string, v Expr) Expr {
	b.declare(name, v.Type())
	*b.body = append(*b.body, Let{Name: name, Value: v})
	return Ref{Name: name, T: v.Type()}
}

// Return ends the current block.
func (b *FuncBuilder) Return(v Expr) {
	if v.Type() != b.fn.Result {
		panic(fmt.Sprintf("shader: %s returns %s, want %s", b.fn.Name, v.Type(), b.fn.Result))
	}
	*b.body = append(*b.body, Return{Value: v})
	b.returned = true
}

// If adds a guarded block built by then. The block must return.
func (b *FuncBuilder) If(cond Expr, then func()) {
	if cond.Type() != Bool {
		panic("shader: if condition must be bool")
	}
	outer, was := b.body, b.returned
	var body []Stmt
	b.body, b.returned = &body, false
	then()
	if !b.returned {
		panic(fmt.Sprintf("shader: if block in %s does not return", b.fn.Name))
	}
	b.body, b.returned = outer, was
	*b.body = append(*b.body, If{Cond: cond, Body: body})
}

// ReturnIf is If(cond, Return(v)).
func (b *FuncBuilder) ReturnIf(cond, v Expr) {
	b.If(cond, func() { b.Return(v) })
}

// Func returns the finished function.
func (b *FuncBuilder) Func() *Func {
	if !b.returned {
		panic(fmt.Sprintf("shader: %s does not end in return", b.fn.Name))
	}
	return b.fn
}
