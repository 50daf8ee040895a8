package ecs

// System is per-frame logic over the entities that carry every component in
// Requires. The entities slice is owned by the World and only valid for the
// duration of the call.
type System interface {
	Requires() Mask
	// Priority orders systems ascending; equal priorities keep insertion order.
	Priority() int
	Enabled() bool
	Update(w *World, entities []*Entity, dt float64)
}

// FixedUpdater systems also run on the fixed-step physics cadence.
type FixedUpdater interface {
	System
	FixedUpdate(w *World, entities []*Entity, dt float64)
}

// RenderSystem systems also run on the render pass.
type RenderSystem interface {
	System
	Render(w *World, entities []*Entity, dt float64)
}

// EntityAddedHandler is notified by World.NotifyEntityAdded when a matching
// entity has been assembled.
type EntityAddedHandler interface {
	OnEntityAdded(w *World, e *Entity)
}

// EntityRemovedHandler is notified during the cleanup pass, before the
// entity's components go back to their pools.
type EntityRemovedHandler interface {
	OnEntityRemoved(w *World, e *Entity)
}

// Disabler is called when a system is removed from the world.
type Disabler interface {
	OnDisable(w *World)
}

// BaseSystem carries the bookkeeping every system needs. Embed it.
type BaseSystem struct {
	requires Mask
	priority int
	disabled bool
}

func NewBaseSystem(priority int, requires ...ComponentType) BaseSystem {
	return BaseSystem{requires: MaskOf(requires...), priority: priority}
}

func (b *BaseSystem) Requires() Mask     { return b.requires }
func (b *BaseSystem) Priority() int      { return b.priority }
func (b *BaseSystem) Enabled() bool      { return !b.disabled }
func (b *BaseSystem) SetEnabled(on bool) { b.disabled = !on }
