// Package geometry encodes the 24 geometry variants and generates their
// vertex and edge topology in 4D.
//
// A geometry index packs a base shape and a core embedding:
//
//	index = core*8 + base
//
// Indices 0-7 are the plain base shapes, 8-15 are folded onto the
// hypersphere and 16-23 onto the hypertetrahedron. Presets store the index
// directly, so BaseShapeCount must never change.
package geometry

import "fmt"

const (
	// BaseShapeCount is the number of base shapes per core type.
	BaseShapeCount = 8
	// CoreTypeCount is the number of core embeddings.
	CoreTypeCount = 3
	// IndexCount is the number of valid geometry indices.
	IndexCount = BaseShapeCount * CoreTypeCount
)

// BaseShape is one of the eight base generators.
type BaseShape int

const (
	Tetrahedron BaseShape = iota
	Hypercube
	Sphere
	Torus
	KleinBottle
	Fractal
	Wave
	Crystal
)

var baseShapeNames = [BaseShapeCount]string{
	"Tetrahedron", "Hypercube", "Sphere", "Torus",
	"Klein Bottle", "Fractal", "Wave", "Crystal",
}

func (b BaseShape) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BaseShape(%d)", int(b))
	}
	return baseShapeNames[b]
}

// Valid reports whether b is in [0, 7].
func (b BaseShape) Valid() bool {
	return b >= 0 && b < BaseShapeCount
}

// CoreType selects the 4D embedding applied on top of a base shape.
type CoreType int

const (
	Base CoreType = iota
	Hypersphere
	Hypertetrahedron
)

var coreTypeNames = [CoreTypeCount]string{"Base", "Hypersphere", "Hypertetrahedron"}

func (c CoreType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CoreType(%d)", int(c))
	}
	return coreTypeNames[c]
}

// Valid reports whether c is a known core type.
func (c CoreType) Valid() bool {
	return c >= 0 && c < CoreTypeCount
}

// Index is a geometry index in [0, 23].
type Index int

// IndexError reports an out-of-range geometry index or component.
type IndexError struct {
	Field string
	Value int
	Max   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("geometry %s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

// ParseIndex validates n as a geometry index. Out-of-range values are
// rejected, never wrapped.
func ParseIndex(n int) (Index, error) {
	if n < 0 || n >= IndexCount {
		return 0, &IndexError{Field: "index", Value: n, Max: IndexCount - 1}
	}
	return Index(n), nil
}

// Encode packs a base shape and core type into an index.
func Encode(b BaseShape, c CoreType) (Index, error) {
	if !b.Valid() {
		return 0, &IndexError{Field: "base shape", Value: int(b), Max: BaseShapeCount - 1}
	}
	if !c.Valid() {
		return 0, &IndexError{Field: "core type", Value: int(c), Max: CoreTypeCount - 1}
	}
	return Index(int(c)*BaseShapeCount + int(b)), nil
}

// Decode unpacks an index into its base shape and core type.
func Decode(i Index) (BaseShape, CoreType, error) {
	if !i.Valid() {
		return 0, 0, &IndexError{Field: "index", Value: int(i), Max: IndexCount - 1}
	}
	return BaseShape(int(i) % BaseShapeCount), CoreType(int(i) / BaseShapeCount), nil
}

// Valid reports whether i is in [0, 23].
func (i Index) Valid() bool {
	return i >= 0 && i < IndexCount
}

// Base returns the base shape of a valid index.
func (i Index) Base() BaseShape {
	return BaseShape(int(i) % BaseShapeCount)
}

// Core returns the core type of a valid index.
func (i Index) Core() CoreType {
	return CoreType(int(i) / BaseShapeCount)
}

// Name returns a display name such as "Torus" or "Hypersphere Torus".
func (i Index) Name() string {
	if !i.Valid() {
		return fmt.Sprintf("Index(%d)", int(i))
	}
	if i.Core() == Base {
		return i.Base().String()
	}
	return i.Core().String() + " " + i.Base().String()
}

func (i Index) String() string {
	return i.Name()
}
