package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// Lang is a shading language target.
type Lang int

const (
	GLSL Lang = iota
	WGSL
)

// Langs lists every target.
var Langs = []Lang{GLSL, WGSL}

func (l Lang) String() string {
	switch l {
	case GLSL:
		return "glsl"
	case WGSL:
		return "wgsl"
	}
	return fmt.Sprintf("Lang(%d)", int(l))
}

// ParseLang parses "glsl", "webgl", "wgsl" or "webgpu".
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glsl", "webgl", "webgl2", "gles":
		return GLSL, nil
	case "wgsl", "webgpu":
		return WGSL, nil
	}
	return 0, fmt.Errorf("unknown shader language %q", s)
}

const indent = "    "

// TypeName spells t in l.
func (l Lang) TypeName(t Type) string {
	if l == GLSL {
		return t.String()
	}
	switch t {
	case Float:
		return "f32"
	case Vec2, Vec3, Vec4:
		return fmt.Sprintf("vec%d<f32>", t.Size())
	}
	return t.String()
}

// UniformName spells a reference to uniform name in l.
func (l Lang) UniformName(name string) string {
	if l == GLSL {
		return "u_" + name
	}
	return "params." + name
}

// FormatLit writes v so that both languages read it as a float.
func FormatLit(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	if v < 0 || (v == 0 && strings.HasPrefix(s, "-")) {
		return "(" + s + ")"
	}
	return s
}

// EmitFunc renders fn in l. The text starts at the signature and ends with
// the closing brace and a newline.
func EmitFunc(l Lang, fn *Func) string {
	var b strings.Builder
	b.WriteString(signature(l, fn))
	b.WriteString(" {\n")
	emitBlock(&b, l, fn.Body, 1)
	b.WriteString("}\n")
	return b.String()
}

func signature(l Lang, fn *Func) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		if l == GLSL {
			params[i] = l.TypeName(p.T) + " " + p.Name
		} else {
			params[i] = p.Name + ": " + l.TypeName(p.T)
		}
	}
	if l == GLSL {
		return fmt.Sprintf("%s %s(%s)", l.TypeName(fn.Result), fn.Name, strings.Join(params, ", "))
	}
	return fmt.Sprintf("fn %s(%s) -> %s", fn.Name, strings.Join(params, ", "), l.TypeName(fn.Result))
}

func emitBlock(b *strings.Builder, l Lang, body []Stmt, depth int) {
	pad := strings.Repeat(indent, depth)
	for _, s := range body {
		switch s := s.(type) {
		case Let:
			if l == GLSL {
				fmt.Fprintf(b, "%s%s %s = %s;\n", pad, l.TypeName(s.Value.Type()), s.Name, emitExpr(l, s.Value, true))
			} else {
				fmt.Fprintf(b, "%slet %s = %s;\n", pad, s.Name, emitExpr(l, s.Value, true))
			}
		case If:
			fmt.Fprintf(b, "%sif (%s) {\n", pad, emitExpr(l, s.Cond, true))
			emitBlock(b, l, s.Body, depth+1)
			fmt.Fprintf(b, "%s}\n", pad)
		case Return:
			fmt.Fprintf(b, "%sreturn %s;\n", pad, emitExpr(l, s.Value, true))
		default:
			panic(fmt.Sprintf("shader: unknown statement %T", s))
		}
	}
}

// EmitExpr renders e in l.
func EmitExpr(l Lang, e Expr) string { return emitExpr(l, e, true) }

func emitExpr(l Lang, e Expr, top bool) string {
	switch e := e.(type) {
	case Lit:
		return FormatLit(e.Value)
	case Ref:
		return e.Name
	case UniformRef:
		return l.UniformName(e.Name)
	case Binary:
		s := emitExpr(l, e.A, false) + " " + e.Op + " " + emitExpr(l, e.B, false)
		if top {
			return s
		}
		return "(" + s + ")"
	case Unary:
		return "(-" + emitExpr(l, e.A, false) + ")"
	case CallExpr:
		name := e.Func
		if l == GLSL && name == "atan2" {
			name = "atan"
		}
		return name + "(" + emitList(l, e.Args) + ")"
	case Swizzle:
		return emitExpr(l, e.A, false) + "." + e.Comps
	case Construct:
		return l.TypeName(e.T) + "(" + emitList(l, e.Args) + ")"
	case Select:
		if l == GLSL {
			s := emitExpr(l, e.Cond, false) + " ? " + emitExpr(l, e.A, false) + " : " + emitExpr(l, e.B, false)
			if top {
				return s
			}
			return "(" + s + ")"
		}
		return "select(" + emitExpr(l, e.B, true) + ", " + emitExpr(l, e.A, true) + ", " + emitExpr(l, e.Cond, true) + ")"
	}
	panic(fmt.Sprintf("shader: unknown expression %T", e))
}

func emitList(l Lang, args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = emitExpr(l, a, true)
	}
	return strings.Join(parts, ", ")
}

// EmitUniforms renders the uniform block of us in l.
func EmitUniforms(l Lang, us []Uniform) string {
	var b strings.Builder
	if l == GLSL {
		for _, u := range us {
			fmt.Fprintf(&b, "uniform %s %s;\n", l.TypeName(u.T), l.UniformName(u.Name))
		}
		return b.String()
	}
	b.WriteString("struct Params {\n")
	for _, u := range us {
		fmt.Fprintf(&b, "%s%s: %s,\n", indent, u.Name, l.TypeName(u.T))
	}
	b.WriteString("}\n\n@group(0) @binding(0) var<uniform> params: Params;\n")
	return b.String()
}
