package math4d

import (
	"fmt"
	"math"
	"strings"
)

// Plane names one of the six coordinate planes a 4D rotation can act in.
type Plane int

const (
	XY Plane = iota
	XZ
	YZ
	XW
	YW
	ZW
)

// PlaneCount is the number of rotation planes in 4D.
const PlaneCount = 6

// Planes lists every plane in canonical composition order.
var Planes = [PlaneCount]Plane{XY, XZ, YZ, XW, YW, ZW}

var planeNames = [PlaneCount]string{"XY", "XZ", "YZ", "XW", "YW", "ZW"}

// planeAxes holds the coordinate indices each plane rotates.
var planeAxes = [PlaneCount][2]int{
	{0, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 3}, {2, 3},
}

func (p Plane) String() string {
	if p < 0 || int(p) >= PlaneCount {
		return fmt.Sprintf("Plane(%d)", int(p))
	}
	return planeNames[p]
}

// Axes returns the two coordinate indices (0=x .. 3=w) spanned by the plane.
func (p Plane) Axes() (a, b int) {
	ax := planeAxes[p]
	return ax[0], ax[1]
}

// ParsePlane parses a plane name such as "xw" or "XW". The prefix "rot4d"
// used by parameter names is accepted.
func ParsePlane(s string) (Plane, error) {
	name := strings.ToUpper(strings.TrimPrefix(strings.ToLower(s), "rot4d"))
	for i, n := range planeNames {
		if n == name {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rotation plane %q", s)
}

// Angles holds one rotation angle in radians per plane, indexed by Plane.
// Any real value is accepted; the full turn is not wrapped.
type Angles [PlaneCount]float64

// AnglesFromMap builds Angles from a plane-name keyed map. Every plane must
// be present and finite.
func AnglesFromMap(m map[string]float64) (Angles, error) {
	var a Angles
	var seen [PlaneCount]bool
	for k, v := range m {
		p, err := ParsePlane(k)
		if err != nil {
			return Angles{}, &AngleError{Plane: k, Reason: "unknown plane"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Angles{}, &AngleError{Plane: p.String(), Reason: "angle is not finite"}
		}
		a[p] = v
		seen[p] = true
	}
	for i, ok := range seen {
		if !ok {
			return Angles{}, &AngleError{Plane: Plane(i).String(), Reason: "missing"}
		}
	}
	return a, nil
}

// Map returns the angles keyed by plane name.
func (a Angles) Map() map[string]float64 {
	m := make(map[string]float64, PlaneCount)
	for _, p := range Planes {
		m[p.String()] = a[p]
	}
	return m
}

// Add returns the plane-wise sum.
func (a Angles) Add(b Angles) Angles {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Scale returns every angle multiplied by s.
func (a Angles) Scale(s float64) Angles {
	for i := range a {
		a[i] *= s
	}
	return a
}

// Wrap returns the angles reduced to [0, 2π).
func (a Angles) Wrap() Angles {
	for i, v := range a {
		v = math.Mod(v, 2*math.Pi)
		if v < 0 {
			v += 2 * math.Pi
		}
		a[i] = v
	}
	return a
}

// IsZero reports whether every angle is exactly zero.
func (a Angles) IsZero() bool {
	return a == Angles{}
}

// AngleError reports a malformed rotation angle set.
type AngleError struct {
	Plane  string
	Reason string
}

func (e *AngleError) Error() string {
	return fmt.Sprintf("rotation angle %s: %s", e.Plane, e.Reason)
}
