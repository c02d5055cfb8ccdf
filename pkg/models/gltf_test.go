package models

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
)

func testFrame(t *testing.T, geometry int) *scene.Frame {
	t.Helper()
	p := scene.Defaults()
	if err := p.SetField("geometry", float64(geometry)); err != nil {
		t.Fatal(err)
	}
	p.Angles[math4d.XW] = 0.8
	p.Angles[math4d.YW] = 0.5
	f, err := scene.NewPipeline().Frame(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLoadLinesInvalidPath(t *testing.T) {
	if _, err := LoadLines("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestExportRoundTrip(t *testing.T) {
	m := FromFrame("tesseract-sphere", testFrame(t, 9))
	path := filepath.Join(t.TempDir(), "frame.glb")
	if err := ExportGLB(path, m); err != nil {
		t.Fatal(err)
	}
	got, err := LoadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != m.Name || got.Geometry != 9 {
		t.Errorf("loaded %q geometry %d", got.Name, got.Geometry)
	}
	if got.VertexCount() != m.VertexCount() || got.EdgeCount() != m.EdgeCount() {
		t.Fatalf("loaded %d points %d edges, want %d and %d",
			got.VertexCount(), got.EdgeCount(), m.VertexCount(), m.EdgeCount())
	}
	for i, p := range m.Points {
		if !got.Points[i].ApproxEqual(p, 1e-6) {
			t.Fatalf("point %d = %v, want %v", i, got.Points[i], p)
		}
		if math.Abs(got.W[i]-m.W[i]) > 1e-6 {
			t.Fatalf("w %d = %v, want %v", i, got.W[i], m.W[i])
		}
		if got.Colors[i] != m.Colors[i] {
			t.Fatalf("color %d = %v, want %v", i, got.Colors[i], m.Colors[i])
		}
	}
	for i, e := range m.Edges {
		if got.Edges[i] != e {
			t.Fatalf("edge %d = %v, want %v", i, got.Edges[i], e)
		}
	}
	if !got.BoundsMin.ApproxEqual(m.BoundsMin, 1e-6) || !got.BoundsMax.ApproxEqual(m.BoundsMax, 1e-6) {
		t.Errorf("bounds %v..%v, want %v..%v", got.BoundsMin, got.BoundsMax, m.BoundsMin, m.BoundsMax)
	}
}

func TestDocumentRejects(t *testing.T) {
	if _, err := Document(NewLineMesh("empty")); err == nil {
		t.Error("empty mesh accepted")
	}
	m := NewLineMesh("bad")
	m.Points = []math4d.Vec3{{}, {X: 1}}
	m.Edges = [][2]int{{0, 2}}
	if _, err := Document(m); err == nil {
		t.Error("out of range edge accepted")
	}
}

func TestDocumentWithoutOptionalAttributes(t *testing.T) {
	m := NewLineMesh("plain")
	m.Points = []math4d.Vec3{{}, {X: 1}, {Y: 1}}
	m.Edges = [][2]int{{0, 1}, {1, 2}}
	path := filepath.Join(t.TempDir(), "plain.glb")
	if err := ExportGLB(path, m); err != nil {
		t.Fatal(err)
	}
	got, err := LoadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Colors != nil || got.W != nil {
		t.Errorf("optional attributes appeared: %v %v", got.Colors, got.W)
	}
	if got.EdgeCount() != 2 {
		t.Errorf("edges = %v", got.Edges)
	}
}

func TestLoadLinesSkipsTriangles(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLines(path); !errors.Is(err, ErrNoLines) {
		t.Errorf("LoadLines = %v, want ErrNoLines", err)
	}
}

func BenchmarkDocument(b *testing.B) {
	p := scene.Defaults()
	p.Geometry = 5
	f, err := scene.NewPipeline().Frame(p, 0)
	if err != nil {
		b.Fatal(err)
	}
	m := FromFrame("wave", f)
	for b.Loop() {
		if _, err := Document(m); err != nil {
			b.Fatal(err)
		}
	}
}
