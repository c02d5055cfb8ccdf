// Package shader holds a small typed expression IR for fragment shader
// functions. A single IR function is emitted as GLSL ES 3.00 and WGSL text
// and can be evaluated on the CPU with GLSL semantics, so every backend
// that draws the lattice shares one definition of the math.
package shader

import "fmt"

// Type is an IR value type.
type Type int

const (
	Void Type = iota
	Float
	Vec2
	Vec3
	Vec4
	Bool
)

// Size reports the component count of t.
func (t Type) Size() int {
	switch t {
	case Float, Bool:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	}
	return 0
}

// IsVector reports whether t is one of the float vector types.
func (t Type) IsVector() bool { return t == Vec2 || t == Vec3 || t == Vec4 }

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func vecType(n int) Type {
	switch n {
	case 1:
		return Float
	case 2:
		return Vec2
	case 3:
		return Vec3
	case 4:
		return Vec4
	}
	panic(fmt.Sprintf("shader: no vector type with %d components", n))
}

// Expr is a typed IR expression.
type Expr interface {
	Type() Type
	expr()
}

// Lit is a float literal.
type Lit struct{ Value float64 }

// Ref names a function parameter or local.
type Ref struct {
	Name string
	T    Type
}

// UniformRef reads a program uniform.
type UniformRef struct {
	Name string
	T    Type
}

// Binary is an arithmetic, comparison or logical operation.
type Binary struct {
	Op   string
	A, B Expr
	T    Type
}

// Unary negation.
type Unary struct{ A Expr }

// CallExpr calls a builtin or a module function.
type CallExpr struct {
	Func    string
	Args    []Expr
	T       Type
	Builtin bool
}

// Swizzle selects vector components.
type Swizzle struct {
	A     Expr
	Comps string
}

// Construct builds a vector from components.
type Construct struct {
	T    Type
	Args []Expr
}

// Select picks A when Cond holds and B otherwise.
type Select struct{ Cond, A, B Expr }

func (e Lit) Type() Type        { return Float }
func (e Ref) Type() Type        { return e.T }
func (e UniformRef) Type() Type { return e.T }
func (e Binary) Type() Type     { return e.T }
func (e Unary) Type() Type      { return e.A.Type() }
func (e CallExpr) Type() Type   { return e.T }
func (e Swizzle) Type() Type    { return vecType(len(e.Comps)) }
func (e Construct) Type() Type  { return e.T }
func (e Select) Type() Type     { return e.A.Type() }

func (Lit) expr()        {}
func (Ref) expr()        {}
func (UniformRef) expr() {}
func (Binary) expr()     {}
func (Unary) expr()      {}
func (CallExpr) expr()   {}
func (Swizzle) expr()    {}
func (Construct) expr()  {}
func (Select) expr()     {}

// Stmt is an IR statement.
type Stmt interface{ stmt() }

// Let binds an immutable local.
type Let struct {
	Name  string
	Value Expr
}

// If runs Body when Cond holds. Bodies end in a Return.
type If struct {
	Cond Expr
	Body []Stmt
}

// Return ends the function with Value.
type Return struct{ Value Expr }

func (Let) stmt()    {}
func (If) stmt()     {}
func (Return) stmt() {}

// Param is a function parameter.
type Param struct {
	Name string
	T    Type
}

// Func is an IR function.
type Func struct {
	Name   string
	Params []Param
	Result Type
	Body   []Stmt
}

// Uniform declares a program uniform. Unit documents the host convention
// ("degrees", "radians", "index", ...).
type Uniform struct {
	Name string
	T    Type
	Unit string
}

// Module is an ordered set of functions and the uniforms they read.
// Functions appear after everything they call.
type Module struct {
	Uniforms []Uniform
	Funcs    []*Func

	byName map[string]*Func
}

// NewModule returns a module holding funcs in order.
func NewModule(uniforms []Uniform, funcs ...*Func) *Module {
	m := &Module{Uniforms: uniforms}
	for _, f := range funcs {
		m.Add(f)
	}
	return m
}

// Add appends f, replacing any function with the same name in place.
func (m *Module) Add(f *Func) {
	if m.byName == nil {
		m.byName = make(map[string]*Func)
	}
	if _, ok := m.byName[f.Name]; ok {
		for i, g := range m.Funcs {
			if g.Name == f.Name {
				m.Funcs[i] = f
			}
		}
	} else {
		m.Funcs = append(m.Funcs, f)
	}
	m.byName[f.Name] = f
}

// Func looks up a function by name.
func (m *Module) Func(name string) (*Func, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// Uniform looks up a uniform declaration by name.
func (m *Module) Uniform(name string) (Uniform, bool) {
	for _, u := range m.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Clone returns a module sharing function values but with its own
// function list, so Add on the copy leaves m untouched.
func (m *Module) Clone() *Module {
	c := &Module{Uniforms: append([]Uniform(nil), m.Uniforms...)}
	for _, f := range m.Funcs {
		c.Add(f)
	}
	return c
}
