package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/warp"
)

// Partial is a batch update. Only the fields it names change.
type Partial struct {
	Values     map[string]float64
	Autorotate *bool
}

// Set records a field update and returns the partial for chaining.
func (u Partial) Set(name string, v float64) Partial {
	if u.Values == nil {
		u.Values = make(map[string]float64)
	}
	u.Values[name] = v
	return u
}

// Empty reports whether u changes nothing.
func (u Partial) Empty() bool {
	return len(u.Values) == 0 && u.Autorotate == nil
}

// Merge applies every update in u or none of them. Fields are applied in
// name order so the reported error is deterministic.
func (p *Params) Merge(u Partial) error {
	next := *p
	names := make([]string, 0, len(u.Values))
	for name := range u.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := next.SetField(name, u.Values[name]); err != nil {
			return err
		}
	}
	if u.Autorotate != nil {
		next.Autorotate = *u.Autorotate
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// PartialFromJSON decodes a JSON object of parameter updates. Numeric fields
// use their Ranges names. Enumerations also accept their names, "rotDeg"
// gives angles in degrees keyed by plane, and "autorotate" is a boolean.
//
//	{"geometry": 11, "hue": 200, "rotDeg": {"xw": 45}, "projection": "stereographic"}
func PartialFromJSON(r io.Reader) (Partial, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Partial{}, fmt.Errorf("scene: decode parameters: %w", err)
	}
	var u Partial
	for key, msg := range raw {
		switch key {
		case "autorotate":
			var b bool
			if err := json.Unmarshal(msg, &b); err != nil {
				return Partial{}, fmt.Errorf("scene: autorotate: %w", err)
			}
			u.Autorotate = &b
		case "rotDeg":
			var deg map[string]float64
			if err := json.Unmarshal(msg, &deg); err != nil {
				return Partial{}, fmt.Errorf("scene: rotDeg: %w", err)
			}
			for name, d := range deg {
				pl, err := math4d.ParsePlane(name)
				if err != nil {
					return Partial{}, fmt.Errorf("%w: rotDeg.%s", ErrUnknownField, name)
				}
				u = u.Set("rot4d"+pl.String(), d*math.Pi/180)
			}
		default:
			f, err := lookupField(key)
			if err != nil {
				return Partial{}, err
			}
			v, err := decodeValue(f.Name, msg)
			if err != nil {
				return Partial{}, err
			}
			u = u.Set(f.Name, v)
		}
	}
	return u, nil
}

var errNotNumber = errors.New("want a number")

// decodeValue reads a number, or a name for the enumerated fields.
func decodeValue(name string, msg json.RawMessage) (float64, error) {
	if string(msg) == "null" {
		return 0, fmt.Errorf("scene: %s: %w", name, errNotNumber)
	}
	var v float64
	if err := json.Unmarshal(msg, &v); err == nil {
		return v, nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return 0, fmt.Errorf("scene: %s: %w", name, errNotNumber)
	}
	var (
		n   int
		err error
	)
	switch name {
	case "projection":
		var k math4d.ProjectionKind
		k, err = math4d.ParseProjectionKind(s)
		n = int(k)
	case "sphereMethod":
		var m warp.SphereMethod
		m, err = warp.ParseSphereMethod(s)
		n = int(m)
	case "tetraMethod":
		var m warp.TetraMethod
		m, err = warp.ParseTetraMethod(s)
		n = int(m)
	default:
		return 0, fmt.Errorf("scene: %s: %w", name, errNotNumber)
	}
	if err != nil {
		return 0, fmt.Errorf("scene: %s: %w", name, err)
	}
	return float64(n), nil
}
