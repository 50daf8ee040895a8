package event

import "sort"

// Type names a stream of one-shot notifications, e.g. "tower.attack".
type Type string

// Queue accumulates events per type until a consumer clears them. Nothing
// is drained automatically: a consumer that never calls Clear sees the same
// events again next frame.
// Accessed only from the game loop goroutine — no locks.
type Queue struct {
	events map[Type][]any
}

func NewQueue() *Queue {
	return &Queue{events: make(map[Type][]any)}
}

// Emit appends data to the stream for typ.
func (q *Queue) Emit(typ Type, data any) {
	q.events[typ] = append(q.events[typ], data)
}

// Events returns the queued events of typ, oldest first. The slice is only
// valid until the next Emit or Clear for typ.
func (q *Queue) Events(typ Type) []any {
	return q.events[typ]
}

// Len is the number of queued events of typ.
func (q *Queue) Len(typ Type) int {
	return len(q.events[typ])
}

// Clear drops the queued events of typ. The backing array is kept for reuse.
func (q *Queue) Clear(typ Type) {
	if b, ok := q.events[typ]; ok {
		clear(b)
		q.events[typ] = b[:0]
	}
}

// ClearAll drops every queued event.
func (q *Queue) ClearAll() {
	for t := range q.events {
		q.Clear(t)
	}
}

// Types returns the types that currently have queued events, sorted.
func (q *Queue) Types() []Type {
	out := make([]Type, 0, len(q.events))
	for t, b := range q.events {
		if len(b) > 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Of returns the queued events of typ that are a T, skipping anything else.
func Of[T any](q *Queue, typ Type) []T {
	src := q.events[typ]
	out := make([]T, 0, len(src))
	for _, ev := range src {
		if v, ok := ev.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
