package ecs

import "math/bits"

// ComponentType is the stable tag a component type declares. It keys both
// the component pools and system/query filters. Tags are assigned by hand
// (see internal/component) and never derived from Go type information, so a
// pooled instance keeps its identity no matter which entity it lands on.
type ComponentType uint8

// MaxComponentTypes bounds the tag space to what fits in a Mask.
const MaxComponentTypes = 64

// Component is the contract every component type fulfils.
type Component interface {
	// Type returns the component's tag. It must not depend on receiver state.
	Type() ComponentType
	// Reset restores the instance to the state of a freshly constructed one.
	Reset()
	// Clone returns an independent copy.
	Clone() Component
}

// Destroyer is implemented by components that hold references into other
// components (e.g. a transform hierarchy) and must unlink them before the
// instance is released or dropped.
type Destroyer interface {
	OnDestroy()
}

// Mask is a set of component types, one bit per tag.
type Mask uint64

// MaskOf builds a mask from tags.
func MaskOf(types ...ComponentType) Mask {
	var m Mask
	for _, t := range types {
		m = m.With(t)
	}
	return m
}

func (m Mask) With(t ComponentType) Mask    { return m | 1<<(t&63) }
func (m Mask) Without(t ComponentType) Mask { return m &^ (1 << (t & 63)) }
func (m Mask) Has(t ComponentType) bool     { return m&(1<<(t&63)) != 0 }
func (m Mask) Len() int                     { return bits.OnesCount64(uint64(m)) }
func (m Mask) IsEmpty() bool                { return m == 0 }

// Contains reports whether every bit of sub is set in m.
func (m Mask) Contains(sub Mask) bool {
	return m&sub == sub
}

// Each calls fn for every tag in m in ascending order.
func (m Mask) Each(fn func(ComponentType)) {
	for v := uint64(m); v != 0; v &= v - 1 {
		fn(ComponentType(bits.TrailingZeros64(v)))
	}
}
