package system

import (
	"errors"
	"fmt"
	"sync"

	"github.com/taigrr/vib4d/pkg/shader"
)

var (
	ErrDuplicateBackend = errors.New("system: backend already registered")
	ErrUnknownBackend   = errors.New("system: unknown backend")
)

// Registry holds backends by name in registration order.
type Registry struct {
	mu     sync.RWMutex
	order  []Backend
	byName map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Backend)}
}

// Register adds b. Names are unique.
func (r *Registry) Register(b Backend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[b.Name()]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateBackend, b.Name())
	}
	r.byName[b.Name()] = b
	r.order = append(r.order, b)
	return nil
}

// Lookup finds a backend by name.
func (r *Registry) Lookup(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return b, nil
}

// All returns every backend in registration order.
func (r *Registry) All() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Backend(nil), r.order...)
}

// Shaders returns the shader backends in registration order.
func (r *Registry) Shaders() []ShaderBackend {
	var out []ShaderBackend
	for _, b := range r.All() {
		if sb, ok := b.(ShaderBackend); ok {
			out = append(out, sb)
		}
	}
	return out
}

// Default registers the two native backends and every system in every
// language.
func Default() (*Registry, error) {
	r := NewRegistry()
	for _, b := range []Backend{Matrix{}, Rotor{}} {
		if err := r.Register(b); err != nil {
			return nil, err
		}
	}
	for _, sys := range Systems {
		for _, l := range shader.Langs {
			b, err := BuildProgramBackend(sys, l)
			if err != nil {
				return nil, err
			}
			if err := r.Register(b); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
