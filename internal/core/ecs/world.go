package ecs

import (
	"sort"

	"github.com/l1jgo/arena/internal/core/event"
	"go.uber.org/zap"
)

// Options tune a World at construction.
type Options struct {
	// PoolPrewarm is the number of instances built up front for every pooled
	// component type.
	PoolPrewarm int
}

// DefaultOptions mirrors the arena's stock configuration.
func DefaultOptions() Options {
	return Options{PoolPrewarm: 100}
}

// World is the top-level ECS container. It owns the entities, the component
// registry and pools, the system schedule, the game clock and the event
// queue. Destruction is deferred to the start of the next Update.
// Accessed only from the game loop goroutine — no locks.
type World struct {
	ids      *EntityPool
	entities []*Entity // indexed by EntityID.Index()
	registry *Registry

	systems []System
	fixed   []FixedUpdater
	render  []RenderSystem

	destroyQueue []EntityID
	events       *event.Queue

	now        float64
	frame      uint64
	fixedSteps uint64

	matched []*Entity
	log     *zap.Logger
}

func NewWorld(opts Options, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		ids:          NewEntityPool(),
		entities:     make([]*Entity, 1, 1024),
		registry:     NewRegistry(opts.PoolPrewarm),
		systems:      make([]System, 0, 16),
		destroyQueue: make([]EntityID, 0, 64),
		events:       event.NewQueue(),
		matched:      make([]*Entity, 0, 256),
		log:          log,
	}
}

func (w *World) Registry() *Registry  { return w.registry }
func (w *World) Events() *event.Queue { return w.events }
func (w *World) Log() *zap.Logger     { return w.log }

// Now is the game clock in seconds: the sum of every Update dt so far.
func (w *World) Now() float64 { return w.now }

// Frame counts Update calls.
func (w *World) Frame() uint64 { return w.frame }

// FixedSteps counts FixedUpdate calls.
func (w *World) FixedSteps() uint64 { return w.fixedSteps }

// ---------- components ----------

// RegisterComponent adds a component type to the world's registry.
func (w *World) RegisterComponent(spec ComponentSpec) error {
	if err := w.registry.Register(spec); err != nil {
		return err
	}
	w.log.Debug("component registered",
		zap.String("name", spec.Name),
		zap.Uint8("type", uint8(spec.Type)),
		zap.Bool("pooled", !spec.Unpooled))
	return nil
}

// CreateComponent returns a ready-to-attach instance of t.
func (w *World) CreateComponent(t ComponentType) (Component, error) {
	return w.registry.Create(t)
}

// AddComponent attaches c to e. A component of the same type already on e
// is released to its pool.
func (w *World) AddComponent(e *Entity, c Component) {
	if prev := e.set(c); prev != nil && prev != c {
		w.releaseComponent(prev)
	}
}

// RemoveComponent detaches the component of type t from e and releases it.
// Systems that stop matching e get OnEntityRemoved first, while the
// component is still attached. Missing components are a no-op.
func (w *World) RemoveComponent(e *Entity, t ComponentType) bool {
	if !e.HasComponent(t) {
		return false
	}
	after := e.mask.Without(t)
	for _, s := range w.systems {
		h, ok := s.(EntityRemovedHandler)
		if ok && e.Matches(s.Requires()) && !after.Contains(s.Requires()) {
			h.OnEntityRemoved(w, e)
		}
	}
	if c := e.unset(t); c != nil {
		w.releaseComponent(c)
	}
	return true
}

func (w *World) releaseComponent(c Component) {
	if d, ok := c.(Destroyer); ok {
		d.OnDestroy()
	}
	w.registry.Release(c)
}

// PoolStats returns the pool snapshot for t.
func (w *World) PoolStats(t ComponentType) (PoolStats, bool) {
	return w.registry.Stats(t)
}

// ---------- entities ----------

// CreateEntity allocates a fresh, active, empty entity.
func (w *World) CreateEntity() *Entity {
	id := w.ids.Create()
	e := newEntity(id)
	idx := int(id.Index())
	for len(w.entities) <= idx {
		w.entities = append(w.entities, nil)
	}
	w.entities[idx] = e
	return e
}

// Entity returns the live entity for id. Stale ids (destroyed, recycled
// slot) report false.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	if !w.ids.Alive(id) {
		return nil, false
	}
	e := w.entities[id.Index()]
	return e, e != nil
}

// Alive reports whether id refers to a live entity. Entities queued for
// destruction are alive until the next cleanup pass.
func (w *World) Alive(id EntityID) bool {
	_, ok := w.Entity(id)
	return ok
}

// EntityCount is the number of live entities.
func (w *World) EntityCount() int { return w.ids.Len() }

// Entities returns every live entity in slot order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, w.ids.Len())
	for _, e := range w.entities {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// NotifyEntityAdded tells every system whose requirement e satisfies that e
// is ready. Factories call it once all components are attached.
func (w *World) NotifyEntityAdded(e *Entity) {
	for _, s := range w.systems {
		h, ok := s.(EntityAddedHandler)
		if ok && e.Matches(s.Requires()) {
			h.OnEntityAdded(w, e)
		}
	}
}

// DestroyEntity queues id for the cleanup pass at the start of the next
// Update. Unknown ids and repeated calls are no-ops.
func (w *World) DestroyEntity(id EntityID) bool {
	e, ok := w.Entity(id)
	if !ok || e.doomed {
		return false
	}
	e.doomed = true
	w.destroyQueue = append(w.destroyQueue, id)
	return true
}

// flushDestroyQueue runs removal hooks, returns components to their pools,
// then frees the ids. Hooks may queue more destructions; those are handled
// in the same pass.
func (w *World) flushDestroyQueue() {
	for i := 0; i < len(w.destroyQueue); i++ {
		id := w.destroyQueue[i]
		e, ok := w.Entity(id)
		if !ok {
			continue
		}
		for _, s := range w.systems {
			h, ok := s.(EntityRemovedHandler)
			if ok && e.Matches(s.Requires()) {
				h.OnEntityRemoved(w, e)
			}
		}
		e.mask.Each(func(t ComponentType) {
			w.releaseComponent(e.components[t])
		})
		clear(e.components)
		e.mask = 0
		e.active = false
		w.entities[id.Index()] = nil
		w.ids.Destroy(id)
	}
	if n := len(w.destroyQueue); n > 0 {
		w.log.Debug("entities destroyed", zap.Int("count", n), zap.Uint64("frame", w.frame))
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// ---------- systems ----------

// AddSystem schedules s. The schedule is re-sorted by priority, stable for
// equal priorities. Adding the same instance twice schedules it twice.
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
	w.rebuildPasses()
	w.log.Debug("system added", zap.String("system", systemName(s)), zap.Int("priority", s.Priority()))
}

// RemoveSystem removes the first scheduled system of concrete type T and
// calls its OnDisable hook. It reports whether one was found.
func RemoveSystem[T System](w *World) bool {
	for i, s := range w.systems {
		if _, ok := s.(T); !ok {
			continue
		}
		w.systems = append(w.systems[:i], w.systems[i+1:]...)
		w.rebuildPasses()
		if d, ok := s.(Disabler); ok {
			d.OnDisable(w)
		}
		w.log.Debug("system removed", zap.String("system", systemName(s)))
		return true
	}
	return false
}

// Systems returns the schedule in priority order.
func (w *World) Systems() []System {
	return append([]System(nil), w.systems...)
}

// rebuildPasses derives the fixed and render lists from the sorted schedule
// so they share its ordering.
func (w *World) rebuildPasses() {
	w.fixed = w.fixed[:0]
	w.render = w.render[:0]
	for _, s := range w.systems {
		if f, ok := s.(FixedUpdater); ok {
			w.fixed = append(w.fixed, f)
		}
		if r, ok := s.(RenderSystem); ok {
			w.render = append(w.render, r)
		}
	}
}

// Update runs the cleanup pass, advances the clock, then dispatches every
// enabled system with its matching entities.
func (w *World) Update(dt float64) {
	w.flushDestroyQueue()
	w.now += dt
	w.frame++
	for _, s := range w.systems {
		if !s.Enabled() {
			continue
		}
		s.Update(w, w.match(s.Requires()), dt)
	}
}

// FixedUpdate dispatches the physics-capable systems.
func (w *World) FixedUpdate(dt float64) {
	w.fixedSteps++
	for _, s := range w.fixed {
		if !s.Enabled() {
			continue
		}
		s.FixedUpdate(w, w.match(s.Requires()), dt)
	}
}

// Render dispatches the render-capable systems.
func (w *World) Render(dt float64) {
	for _, s := range w.render {
		if !s.Enabled() {
			continue
		}
		s.Render(w, w.match(s.Requires()), dt)
	}
}

// ---------- events ----------

// EmitEvent appends data to the queue for typ. Events stay queued until a
// consumer clears them.
func (w *World) EmitEvent(typ event.Type, data any) { w.events.Emit(typ, data) }

// EventsOf returns the queued events of typ, oldest first.
func (w *World) EventsOf(typ event.Type) []any { return w.events.Events(typ) }

// ClearEvents drops the queued events of typ.
func (w *World) ClearEvents(typ event.Type) { w.events.Clear(typ) }
