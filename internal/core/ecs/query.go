package ecs

import "fmt"

// match fills the shared dispatch buffer with the active entities whose
// component set covers required.
func (w *World) match(required Mask) []*Entity {
	w.matched = w.matched[:0]
	for _, e := range w.entities {
		if e != nil && e.active && e.mask.Contains(required) {
			w.matched = append(w.matched, e)
		}
	}
	return w.matched
}

// QueryEntities returns the active entities carrying every listed type.
// An empty type list matches everything; callers are expected to pass at
// least one type.
func (w *World) QueryEntities(types ...ComponentType) []*Entity {
	required := MaskOf(types...)
	var out []*Entity
	for _, e := range w.entities {
		if e != nil && e.active && e.mask.Contains(required) {
			out = append(out, e)
		}
	}
	return out
}

// Get returns e's component of type t as a T.
func Get[T Component](e *Entity, t ComponentType) (T, bool) {
	c, ok := e.components[t]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := c.(T)
	return v, ok
}

// GetByID looks the entity up first. Stale ids report false.
func GetByID[T Component](w *World, id EntityID, t ComponentType) (T, bool) {
	e, ok := w.Entity(id)
	if !ok {
		var zero T
		return zero, false
	}
	return Get[T](e, t)
}

// Attach creates a component of type t, attaches it to e and returns it
// typed.
func Attach[T Component](w *World, e *Entity, t ComponentType) (T, error) {
	var zero T
	c, err := w.CreateComponent(t)
	if err != nil {
		return zero, err
	}
	v, ok := c.(T)
	if !ok {
		w.registry.Release(c)
		return zero, fmt.Errorf("attach %s: registered constructor returns %T", w.registry.Name(t), c)
	}
	w.AddComponent(e, c)
	return v, nil
}

func systemName(s System) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
