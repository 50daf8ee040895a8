package ecs

import (
	"errors"
	"fmt"
)

// ErrUnknownComponent is returned when creating a component whose type was
// never registered with the world.
var ErrUnknownComponent = errors.New("unknown component type")

// ComponentSpec describes one component type to the Registry.
type ComponentSpec struct {
	Type ComponentType
	Name string
	New  func() Component
	// Unpooled types are constructed fresh on every create and dropped on
	// destroy. Use it for types whose invariants do not survive reuse.
	Unpooled bool
}

// PoolStats is a snapshot of one component pool.
type PoolStats struct {
	Name    string
	Pooled  bool
	Free    int
	Created int
}

type registryEntry struct {
	spec ComponentSpec
	pool *Pool[Component]
}

// Registry tracks every component type the world knows about and owns the
// pools for the pooled ones.
type Registry struct {
	entries [MaxComponentTypes]*registryEntry
	prewarm int
}

func NewRegistry(prewarm int) *Registry {
	return &Registry{prewarm: prewarm}
}

// Register adds a component type. Registering a tag twice replaces the
// earlier spec and drops its pool.
func (r *Registry) Register(spec ComponentSpec) error {
	if spec.Type == 0 || int(spec.Type) >= MaxComponentTypes {
		return fmt.Errorf("register %q: type tag %d out of range", spec.Name, spec.Type)
	}
	if spec.New == nil {
		return fmt.Errorf("register %q: nil constructor", spec.Name)
	}
	e := &registryEntry{spec: spec}
	if !spec.Unpooled {
		e.pool = NewPool(spec.New, Component.Reset, r.prewarm)
	}
	r.entries[spec.Type] = e
	return nil
}

func (r *Registry) entry(t ComponentType) *registryEntry {
	if int(t) >= MaxComponentTypes {
		return nil
	}
	return r.entries[t]
}

// Registered reports whether t has a spec.
func (r *Registry) Registered(t ComponentType) bool {
	return r.entry(t) != nil
}

// Name returns the registered name of t, or "" if unknown.
func (r *Registry) Name(t ComponentType) string {
	if e := r.entry(t); e != nil {
		return e.spec.Name
	}
	return ""
}

// Create returns a pooled instance or a fresh one for unpooled types.
func (r *Registry) Create(t ComponentType) (Component, error) {
	e := r.entry(t)
	if e == nil {
		return nil, fmt.Errorf("create component %d: %w", t, ErrUnknownComponent)
	}
	if e.pool == nil {
		return e.spec.New(), nil
	}
	return e.pool.Acquire(), nil
}

// Release returns c to its pool. Unpooled and unregistered types are
// dropped for the garbage collector.
func (r *Registry) Release(c Component) {
	e := r.entry(c.Type())
	if e == nil || e.pool == nil {
		return
	}
	e.pool.Release(c)
}

// Stats returns the pool snapshot for t.
func (r *Registry) Stats(t ComponentType) (PoolStats, bool) {
	e := r.entry(t)
	if e == nil {
		return PoolStats{}, false
	}
	s := PoolStats{Name: e.spec.Name, Pooled: e.pool != nil}
	if e.pool != nil {
		s.Free = e.pool.Free()
		s.Created = e.pool.Created()
	}
	return s, true
}
