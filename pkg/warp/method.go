// Package warp folds raw 4D coordinates toward the hypersphere and
// hypertetrahedron core manifolds.
//
// Every warp blends continuously from the input (blend 0) to the target
// manifold (blend 1). Warps stay in 4D; projection happens downstream.
package warp

import (
	"fmt"
	"strings"

	"github.com/taigrr/vib4d/pkg/math4d"
)

// Epsilon guards divisions inside the warps.
const Epsilon = 1e-6

// SphereMethod selects how points are carried onto the 3-sphere.
type SphereMethod int

const (
	// SphereRadial scales each point along its own direction.
	SphereRadial SphereMethod = iota
	// SphereStereographic lifts x, y, z through inverse stereographic
	// projection. w is ignored.
	SphereStereographic
	// SphereHopf re-parameterizes the point in Hopf coordinates, which
	// lays it out along linked circular fibres.
	SphereHopf
)

// TetraMethod selects how points relate to the pentatope.
type TetraMethod int

const (
	// TetraTetrahedral reconstructs a point from inverse-distance weights
	// to the five vertices. This approximates barycentric coordinates and
	// does not solve for them.
	TetraTetrahedral TetraMethod = iota
	// TetraEdges snaps to the nearest point on the nearest of ten edges.
	TetraEdges
	// TetraCells pulls to the centroid of the nearest tetrahedral cell.
	TetraCells
	// TetraSurface projects onto the hyperplane of the nearest triangular
	// face, using the face centroid direction as its normal.
	TetraSurface
)

var (
	sphereMethodNames = [...]string{"radial", "stereographic", "hopf"}
	tetraMethodNames  = [...]string{"tetrahedral", "edges", "cells", "surface"}
)

func (m SphereMethod) String() string {
	if m < 0 || int(m) >= len(sphereMethodNames) {
		return fmt.Sprintf("SphereMethod(%d)", int(m))
	}
	return sphereMethodNames[m]
}

func (m TetraMethod) String() string {
	if m < 0 || int(m) >= len(tetraMethodNames) {
		return fmt.Sprintf("TetraMethod(%d)", int(m))
	}
	return tetraMethodNames[m]
}

// Valid reports whether m names a known method.
func (m SphereMethod) Valid() bool { return m >= 0 && int(m) < len(sphereMethodNames) }

// Valid reports whether m names a known method.
func (m TetraMethod) Valid() bool { return m >= 0 && int(m) < len(tetraMethodNames) }

// ParseSphereMethod parses a hypersphere method name.
func ParseSphereMethod(s string) (SphereMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range sphereMethodNames {
		if n == s {
			return SphereMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hypersphere method %q", s)
}

// ParseTetraMethod parses a hypertetrahedron method name.
func ParseTetraMethod(s string) (TetraMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range tetraMethodNames {
		if n == s {
			return TetraMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hypertetrahedron method %q", s)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// mix returns p*(1-t) + q*t, the form the shaders use.
func mix(p, q math4d.Vec4, t float64) math4d.Vec4 {
	return p.Scale(1 - t).Add(q.Scale(t))
}
