// Package models stores projected 4D geometry as glTF line meshes.
package models

import (
	"image/color"

	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
)

// LineMesh is projected line geometry: 3D points, the w each came from
// before projection, and edges between them.
type LineMesh struct {
	Name     string
	Geometry geometry.Index
	Points   []math4d.Vec3
	W        []float64    // optional, one per point
	Colors   []color.RGBA // optional, one per point
	Edges    [][2]int

	// Bounding box (calculated on load)
	BoundsMin math4d.Vec3
	BoundsMax math4d.Vec3
}

// NewLineMesh creates an empty mesh.
func NewLineMesh(name string) *LineMesh {
	return &LineMesh{Name: name}
}

// FromFrame copies a frame's projected points and edges. Points are
// coloured with the scene hue, brighter at smaller w.
func FromFrame(name string, f *scene.Frame) *LineMesh {
	m := &LineMesh{
		Name:     name,
		Geometry: f.Mesh.Index,
		Points:   append([]math4d.Vec3(nil), f.Points...),
		W:        make([]float64, len(f.Rotated)),
		Colors:   make([]color.RGBA, len(f.Rotated)),
		Edges:    append([][2]int(nil), f.Mesh.Edges...),
	}
	lo, hi := 0.0, 0.0
	for i, v := range f.Rotated {
		m.W[i] = v.W
		if i == 0 || v.W < lo {
			lo = v.W
		}
		if i == 0 || v.W > hi {
			hi = v.W
		}
	}
	p := f.Params
	for i, w := range m.W {
		depth := 0.5
		if hi-lo > 1e-9 {
			depth = 1 - (w-lo)/(hi-lo)
		}
		m.Colors[i] = lattice.RGBA(lattice.Shade(p.Hue, p.Saturation, 1, 0.3+0.7*depth))
	}
	m.CalculateBounds()
	return m
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *LineMesh) CalculateBounds() {
	if len(m.Points) == 0 {
		return
	}
	m.BoundsMin, m.BoundsMax = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *LineMesh) Center() math4d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *LineMesh) Size() math4d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of points.
func (m *LineMesh) VertexCount() int {
	return len(m.Points)
}

// EdgeCount returns the number of line segments.
func (m *LineMesh) EdgeCount() int {
	return len(m.Edges)
}

// Clone creates a deep copy of the mesh.
func (m *LineMesh) Clone() *LineMesh {
	c := *m
	c.Points = append([]math4d.Vec3(nil), m.Points...)
	c.W = append([]float64(nil), m.W...)
	c.Colors = append([]color.RGBA(nil), m.Colors...)
	c.Edges = append([][2]int(nil), m.Edges...)
	return &c
}
