package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// EntryName is the function every program exposes to the fragment stage:
// vec4 shade(vec2 fragCoord).
const EntryName = "shade"

// Program is one system's shader in one language.
type Program struct {
	Name   string
	Lang   Lang
	Module *Module
	Source string
}

// CheckError lists what Check found wrong with a module.
type CheckError struct {
	Problems []string
}

func (e *CheckError) Error() string {
	return "shader: invalid module: " + strings.Join(e.Problems, "; ")
}

// Check verifies that every call resolves to an earlier function with
// matching argument types and that every uniform read is declared.
func Check(m *Module) error {
	var problems []string
	seen := make(map[string]*Func)
	for _, f := range m.Funcs {
		walkFunc(f, func(e Expr) {
			switch e := e.(type) {
			case CallExpr:
				if e.Builtin {
					return
				}
				g, ok := seen[e.Func]
				if !ok {
					problems = append(problems, fmt.Sprintf("%s calls %s before it is defined", f.Name, e.Func))
					return
				}
				if len(g.Params) != len(e.Args) {
					problems = append(problems, fmt.Sprintf("%s calls %s with %d arguments", f.Name, e.Func, len(e.Args)))
					return
				}
				for i, a := range e.Args {
					if a.Type() != g.Params[i].T {
						problems = append(problems, fmt.Sprintf("%s passes %s as %s.%s", f.Name, a.Type(), e.Func, g.Params[i].Name))
					}
				}
				if e.T != g.Result {
					problems = append(problems, fmt.Sprintf("%s expects %s from %s", f.Name, e.T, e.Func))
				}
			case UniformRef:
				u, ok := m.Uniform(e.Name)
				if !ok {
					problems = append(problems, fmt.Sprintf("%s reads undeclared uniform %s", f.Name, e.Name))
				} else if u.T != e.T {
					problems = append(problems, fmt.Sprintf("%s reads %s as %s", f.Name, e.Name, e.T))
				}
			}
		})
		seen[f.Name] = f
	}
	if len(problems) > 0 {
		return &CheckError{Problems: problems}
	}
	return nil
}

func walkFunc(f *Func, visit func(Expr)) {
	var stmts func([]Stmt)
	stmts = func(body []Stmt) {
		for _, s := range body {
			switch s := s.(type) {
			case Let:
				walkExpr(s.Value, visit)
			case If:
				walkExpr(s.Cond, visit)
				stmts(s.Body)
			case Return:
				walkExpr(s.Value, visit)
			}
		}
	}
	stmts(f.Body)
}

func walkExpr(e Expr, visit func(Expr)) {
	visit(e)
	switch e := e.(type) {
	case Binary:
		walkExpr(e.A, visit)
		walkExpr(e.B, visit)
	case Unary:
		walkExpr(e.A, visit)
	case CallExpr:
		for _, a := range e.Args {
			walkExpr(a, visit)
		}
	case Swizzle:
		walkExpr(e.A, visit)
	case Construct:
		for _, a := range e.Args {
			walkExpr(a, visit)
		}
	case Select:
		walkExpr(e.Cond, visit)
		walkExpr(e.A, visit)
		walkExpr(e.B, visit)
	}
}

// ErrNoEntry is returned when a module lacks a usable shade function.
var ErrNoEntry = errors.New("shader: module has no vec4 shade(vec2) function")

// Assemble checks m and renders it as a complete fragment shader.
func Assemble(name string, l Lang, m *Module) (*Program, error) {
	entry, ok := m.Func(EntryName)
	if !ok || entry.Result != Vec4 || len(entry.Params) != 1 || entry.Params[0].T != Vec2 {
		return nil, ErrNoEntry
	}
	if err := Check(m); err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// %s fragment shader (%s). Generated; do not edit.\n", name, l)
	if l == GLSL {
		b.WriteString("#version 300 es\nprecision highp float;\n\n")
	}
	b.WriteString(EmitUniforms(l, m.Uniforms))
	if l == GLSL {
		b.WriteString("out vec4 fragColor;\n")
	}
	for _, f := range m.Funcs {
		b.WriteString("\n")
		b.WriteString(EmitFunc(l, f))
	}
	b.WriteString("\n")
	if l == GLSL {
		b.WriteString("void main() {\n" + indent + "fragColor = " + EntryName + "(gl_FragCoord.xy);\n}\n")
	} else {
		b.WriteString("@fragment\nfn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {\n" +
			indent + "return " + EntryName + "(pos.xy);\n}\n")
	}
	return &Program{Name: name, Lang: l, Module: m, Source: b.String()}, nil
}

var (
	glslHeader = regexp.MustCompile(`(?m)^(?:float|vec2|vec3|vec4|bool|void)\s+(\w+)\s*\(`)
	wgslHeader = regexp.MustCompile(`(?m)^fn\s+(\w+)\s*\(`)
)

// ExtractFunctions finds every top-level function in src and returns its
// text from the signature through the matching closing brace, keyed by
// name. Duplicate definitions are all kept in source order.
func ExtractFunctions(l Lang, src string) map[string][]string {
	re := glslHeader
	if l == WGSL {
		re = wgslHeader
	}
	out := make(map[string][]string)
	for _, loc := range re.FindAllStringSubmatchIndex(src, -1) {
		name := src[loc[2]:loc[3]]
		open := strings.IndexByte(src[loc[0]:], '{')
		if open < 0 {
			continue
		}
		end := matchBrace(src, loc[0]+open)
		if end < 0 {
			continue
		}
		text := src[loc[0] : end+1]
		if end+1 < len(src) && src[end+1] == '\n' {
			text += "\n"
		}
		out[name] = append(out[name], text)
	}
	return out
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
