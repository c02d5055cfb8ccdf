package capi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/math4d"
	"github.com/taigrr/vib4d/pkg/scene"
)

// Handle names an engine across the C boundary. Zero is never valid.
type Handle uint64

var ErrUnknownHandle = errors.New("capi: unknown engine handle")

// engine is one scene: its parameters and a pipeline. The pipeline is not
// safe for concurrent use, so frames are serialised per engine.
type engine struct {
	state *scene.State

	mu       sync.Mutex
	pipeline *scene.Pipeline
	flat     []float32
}

var engines = struct {
	sync.RWMutex
	next Handle
	m    map[Handle]*engine
}{m: make(map[Handle]*engine)}

// NewEngine creates an engine with default parameters.
func NewEngine() Handle {
	st, err := scene.NewState(scene.Defaults())
	if err != nil {
		panic(err) // defaults always validate
	}
	engines.Lock()
	defer engines.Unlock()
	engines.next++
	engines.m[engines.next] = &engine{state: st, pipeline: scene.NewPipeline()}
	return engines.next
}

// FreeEngine releases h.
func FreeEngine(h Handle) error {
	engines.Lock()
	defer engines.Unlock()
	if _, ok := engines.m[h]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	delete(engines.m, h)
	return nil
}

// EngineCount returns the number of live engines.
func EngineCount() int {
	engines.RLock()
	defer engines.RUnlock()
	return len(engines.m)
}

func lookup(h Handle) (*engine, error) {
	engines.RLock()
	defer engines.RUnlock()
	e, ok := engines.m[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return e, nil
}

// SetParam sets one named parameter, validating it first.
func SetParam(h Handle, name string, v float32) error {
	e, err := lookup(h)
	if err != nil {
		return err
	}
	return e.state.SetField(name, float64(v))
}

// GetParam reads one named parameter.
func GetParam(h Handle, name string) (float32, error) {
	e, err := lookup(h)
	if err != nil {
		return 0, err
	}
	p := e.state.Snapshot()
	v, err := p.Field(name)
	return float32(v), err
}

// SetAngles replaces all six rotation angles in one update.
func SetAngles(h Handle, angles [math4d.PlaneCount]float32) error {
	e, err := lookup(h)
	if err != nil {
		return err
	}
	var u scene.Partial
	for _, pl := range math4d.Planes {
		u = u.Set("rot4d"+pl.String(), float64(angles[pl]))
	}
	return e.state.Merge(u)
}

// EngineRotation returns the engine's composed rotation at time t.
func EngineRotation(h Handle, t float32) (Mat4f, error) {
	e, err := lookup(h)
	if err != nil {
		return Mat4f{}, err
	}
	p := e.state.Snapshot()
	return matf(math4d.Rotation(p.AnglesAt(float64(t)))), nil
}

// Presence evaluates the lattice field at p, in [0, 1].
func Presence(h Handle, p Vec4f, t float32) (float32, error) {
	e, err := lookup(h)
	if err != nil {
		return 0, err
	}
	in := e.state.Snapshot().Inputs(float64(t))
	return float32(lattice.Presence(in, vec(p))), nil
}

// Frame projects the engine's geometry at time t and returns the points as
// consecutive x, y, z floats plus the edges as index pairs. The float slice
// is reused by the next call on the same engine.
func Frame(h Handle, t float32) ([]float32, [][2]int, error) {
	e, err := lookup(h)
	if err != nil {
		return nil, nil, err
	}
	p := e.state.Snapshot()
	e.mu.Lock()
	defer e.mu.Unlock()
	f, err := e.pipeline.Frame(p, float64(t))
	if err != nil {
		return nil, nil, err
	}
	e.flat = math4d.FlattenPoints(e.flat, f.Points)
	return e.flat, f.Mesh.Edges, nil
}
