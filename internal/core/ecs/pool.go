package ecs

// Pool is a free-list object cache for hot per-frame types.
//
// Acquire hands out a recycled instance when one is available and builds a
// new one otherwise. Release runs the reset closure and pushes the instance
// back. There is no ownership tracking: releasing an instance twice, or one
// that never came from this pool, corrupts the free list. Not safe for
// concurrent use.
type Pool[T any] struct {
	free    []T
	newFn   func() T
	resetFn func(T)
	created int
}

// NewPool builds a pool and prewarms it with prewarm instances.
func NewPool[T any](newFn func() T, reset func(T), prewarm int) *Pool[T] {
	if prewarm < 0 {
		prewarm = 0
	}
	p := &Pool[T]{
		free:    make([]T, 0, prewarm),
		newFn:   newFn,
		resetFn: reset,
	}
	for i := 0; i < prewarm; i++ {
		p.free = append(p.free, p.build())
	}
	return p
}

func (p *Pool[T]) build() T {
	p.created++
	return p.newFn()
}

// Acquire returns a ready-to-use instance.
func (p *Pool[T]) Acquire() T {
	n := len(p.free)
	if n == 0 {
		return p.build()
	}
	v := p.free[n-1]
	var zero T
	p.free[n-1] = zero
	p.free = p.free[:n-1]
	return v
}

// Release resets v and returns it to the free list.
func (p *Pool[T]) Release(v T) {
	if p.resetFn != nil {
		p.resetFn(v)
	}
	p.free = append(p.free, v)
}

// Free is the number of instances waiting to be acquired.
func (p *Pool[T]) Free() int { return len(p.free) }

// Created is the number of instances the pool has ever constructed.
func (p *Pool[T]) Created() int { return p.created }
