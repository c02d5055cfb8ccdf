package models

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
)

// wAttribute carries each point's pre-projection w. glTF reserves names
// with a leading underscore for application attributes.
const wAttribute = "_W"

// ErrNoLines is returned when a file has no line primitive.
var ErrNoLines = errors.New("models: no line primitives")

// Document builds a glTF document holding m as one LINES primitive.
func Document(m *LineMesh) (*gltf.Document, error) {
	if len(m.Points) == 0 {
		return nil, fmt.Errorf("models: mesh %q has no points", m.Name)
	}
	pos := make([][3]float32, len(m.Points))
	for i, p := range m.Points {
		pos[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	idx := make([]uint32, 0, 2*len(m.Edges))
	for _, e := range m.Edges {
		if e[0] < 0 || e[0] >= len(m.Points) || e[1] < 0 || e[1] >= len(m.Points) {
			return nil, fmt.Errorf("models: edge %v out of range", e)
		}
		idx = append(idx, uint32(e[0]), uint32(e[1]))
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "vib4d"
	attrs := map[string]int{gltf.POSITION: modeler.WritePosition(doc, pos)}
	if len(m.Colors) == len(m.Points) {
		col := make([][4]uint8, len(m.Colors))
		for i, c := range m.Colors {
			col[i] = [4]uint8{c.R, c.G, c.B, c.A}
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, col)
	}
	if len(m.W) == len(m.Points) {
		w := make([]float32, len(m.W))
		for i, v := range m.W {
			w[i] = float32(v)
		}
		attrs[wAttribute] = modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, w)
	}
	doc.Meshes = []*gltf.Mesh{{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveLines,
			Indices:    gltf.Index(modeler.WriteIndices(doc, idx)),
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{
		Name:   m.Name,
		Mesh:   gltf.Index(0),
		Extras: map[string]any{"geometry": int(m.Geometry), "geometryName": m.Geometry.Name()},
	}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// ExportGLB writes m to a binary glTF file.
func ExportGLB(path string, m *LineMesh) error {
	doc, err := Document(m)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("models: save %s: %w", path, err)
	}
	return nil
}

// LoadLines reads every LINES primitive of a glTF or GLB file into one mesh.
func LoadLines(path string) (*LineMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	m := NewLineMesh(filepath.Base(path))
	lines := 0
	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveLines {
				continue
			}
			if err := readLines(doc, prim, m); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}
			lines++
		}
		if m.Name == filepath.Base(path) && gm.Name != "" {
			m.Name = gm.Name
		}
	}
	if lines == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLines, path)
	}
	for _, n := range doc.Nodes {
		if g, ok := nodeGeometry(n); ok {
			m.Geometry = g
			break
		}
	}
	m.CalculateBounds()
	return m, nil
}

func readLines(doc *gltf.Document, prim *gltf.Primitive, m *LineMesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return errors.New("line primitive without positions")
	}
	pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	base := len(m.Points)
	hadColors, hadW := len(m.Colors) == base, len(m.W) == base
	for _, p := range pos {
		m.Points = append(m.Points, math4d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
	}

	if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok && hadColors {
		col, err := modeler.ReadColor(doc, doc.Accessors[colIdx], nil)
		if err != nil {
			return fmt.Errorf("read colors: %w", err)
		}
		for _, c := range col {
			m.Colors = append(m.Colors, color.RGBA{c[0], c[1], c[2], c[3]})
		}
	} else {
		m.Colors = nil
	}

	if wIdx, ok := prim.Attributes[wAttribute]; ok && hadW {
		data, err := modeler.ReadAccessor(doc, doc.Accessors[wIdx], nil)
		if err != nil {
			return fmt.Errorf("read w: %w", err)
		}
		ws, ok := data.([]float32)
		if !ok {
			return fmt.Errorf("w attribute has type %T", data)
		}
		for _, w := range ws {
			m.W = append(m.W, float64(w))
		}
	} else {
		m.W = nil
	}

	var idx []uint32
	if prim.Indices != nil {
		idx, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// no indices: consecutive point pairs
		for i := range uint32(len(pos)) {
			idx = append(idx, i)
		}
	}
	for i := 0; i+1 < len(idx); i += 2 {
		a, b := base+int(idx[i]), base+int(idx[i+1])
		if a >= len(m.Points) || b >= len(m.Points) {
			return fmt.Errorf("index %d out of range", max(a, b)-base)
		}
		m.Edges = append(m.Edges, [2]int{a, b})
	}
	return nil
}

func nodeGeometry(n *gltf.Node) (geometry.Index, bool) {
	extras, ok := n.Extras.(map[string]any)
	if !ok {
		return 0, false
	}
	// JSON numbers decode as float64
	v, ok := extras["geometry"].(float64)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	g := geometry.Index(v)
	return g, g.Valid()
}
