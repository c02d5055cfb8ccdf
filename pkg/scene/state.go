package scene

import (
	"sync"
	"sync/atomic"
)

type versioned struct {
	params  Params
	version uint64
}

// State owns the parameters of one scene. Readers take a whole snapshot at
// once, so a frame never sees half of a batch update. Writers are
// serialised.
type State struct {
	mu  sync.Mutex
	cur atomic.Pointer[versioned]
}

// NewState validates p and returns a state holding it.
func NewState(p Params) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &State{}
	s.cur.Store(&versioned{params: p})
	return s, nil
}

// Snapshot returns a copy of the current parameters.
func (s *State) Snapshot() Params {
	return s.cur.Load().params
}

// Version counts successful updates.
func (s *State) Version() uint64 {
	return s.cur.Load().version
}

// Update runs fn on a copy and publishes it if fn and validation succeed.
func (s *State) Update(fn func(*Params) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cur.Load()
	next := old.params
	if err := fn(&next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.cur.Store(&versioned{params: next, version: old.version + 1})
	return nil
}

// Merge applies a batch update atomically.
func (s *State) Merge(u Partial) error {
	return s.Update(func(p *Params) error { return p.Merge(u) })
}

// SetField updates one field.
func (s *State) SetField(name string, v float64) error {
	return s.Update(func(p *Params) error { return p.SetField(name, v) })
}

// Replace swaps in a whole parameter set.
func (s *State) Replace(p Params) error {
	return s.Update(func(cur *Params) error {
		*cur = p
		return nil
	})
}
