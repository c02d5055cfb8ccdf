package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/models"
)

func TestFlagName(t *testing.T) {
	tests := []struct{ field, want string }{
		{"gridDensity", "grid-density"},
		{"rot4dXW", "xw"},
		{"hue", "hue"},
		{"shearX", "shear-x"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := flagName(tt.field); got != tt.want {
				t.Errorf("flagName(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParamsPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"hue": 90, "gridDensity": 30, "rotDeg": {"XW": 90}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	pf := newParamFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	pf.register(fs)
	if err := fs.Parse([]string{"--params", path, "--hue", "120", "--yw", "0.5"}); err != nil {
		t.Fatal(err)
	}
	p, err := pf.params()
	if err != nil {
		t.Fatal(err)
	}
	if p.Hue != 120 {
		t.Errorf("hue = %v, want the flag's 120", p.Hue)
	}
	if p.GridDensity != 30 {
		t.Errorf("gridDensity = %v, want the file's 30", p.GridDensity)
	}
	if d := p.Angles[math4d.XW] - 1.5707963267948966; d > 1e-12 || d < -1e-12 {
		t.Errorf("XW = %v", p.Angles[math4d.XW])
	}
	if p.Angles[math4d.YW] != 0.5 {
		t.Errorf("YW = %v", p.Angles[math4d.YW])
	}
}

func TestParamsRejectInvalid(t *testing.T) {
	if _, err := execute(t, "shader", "--values", "--hue", "360"); err == nil {
		t.Error("hue 360 accepted")
	}
}

func TestShaderCommand(t *testing.T) {
	out, err := execute(t, "shader", "quantum", "--lang", "wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "fn shade(") {
		t.Errorf("no WGSL entry point in:\n%s", out)
	}
	if _, err := execute(t, "shader", "vulkan"); err == nil {
		t.Error("unknown system accepted")
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Hypersphere Torus", "--grid-density", "holographic"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output lacks %q", want)
		}
	}
}

func TestVerifyCommand(t *testing.T) {
	out, err := execute(t, "verify")
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if !strings.HasSuffix(out, "ok\n") {
		t.Errorf("report:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	glb := filepath.Join(dir, "torus.glb")
	if _, err := execute(t, "export", glb, "--geometry", "3", "--xw", "0.4"); err != nil {
		t.Fatal(err)
	}
	m, err := models.LoadLines(glb)
	if err != nil {
		t.Fatal(err)
	}
	if m.Geometry != 3 || m.EdgeCount() == 0 {
		t.Errorf("loaded geometry %d with %d edges", m.Geometry, m.EdgeCount())
	}

	png := filepath.Join(dir, "field.png")
	if _, err := execute(t, "export", png, "--width", "16", "--height", "8", "--scale", "2"); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(png); err != nil || st.Size() == 0 {
		t.Errorf("png: %v", err)
	}

	if _, err := execute(t, "export", filepath.Join(dir, "x.obj")); err == nil {
		t.Error("obj export accepted")
	}
}
