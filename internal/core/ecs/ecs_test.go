package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	typePosition ComponentType = iota + 1
	typeHealth
	typeLink
)

type position struct{ X, Y float64 }

func (*position) Type() ComponentType { return typePosition }
func (p *position) Reset()            { *p = position{} }
func (p *position) Clone() Component  { c := *p; return &c }

type health struct{ HP int }

func (*health) Type() ComponentType { return typeHealth }
func (h *health) Reset()            { *h = health{} }
func (h *health) Clone() Component  { c := *h; return &c }

// link is unpooled and counts OnDestroy calls.
type link struct{ destroyed int }

func (*link) Type() ComponentType { return typeLink }
func (l *link) Reset()            { *l = link{} }
func (l *link) Clone() Component  { c := *l; return &c }
func (l *link) OnDestroy()        { l.destroyed++ }

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(Options{PoolPrewarm: 4}, nil)
	require.NoError(t, w.RegisterComponent(ComponentSpec{Type: typePosition, Name: "position", New: func() Component { return &position{} }}))
	require.NoError(t, w.RegisterComponent(ComponentSpec{Type: typeHealth, Name: "health", New: func() Component { return &health{} }}))
	require.NoError(t, w.RegisterComponent(ComponentSpec{Type: typeLink, Name: "link", New: func() Component { return &link{} }, Unpooled: true}))
	return w
}

// recorder is a configurable test system.
type recorder struct {
	BaseSystem
	name     string
	log      *[]string
	seen     [][]EntityID
	fixed    int
	removed  []EntityID
	added    []EntityID
	onRemove func(w *World, e *Entity)
}

func newRecorder(name string, priority int, log *[]string, requires ...ComponentType) *recorder {
	return &recorder{BaseSystem: NewBaseSystem(priority, requires...), name: name, log: log}
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Update(_ *World, entities []*Entity, _ float64) {
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	ids := make([]EntityID, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID())
	}
	r.seen = append(r.seen, ids)
}

func (r *recorder) OnEntityAdded(_ *World, e *Entity) { r.added = append(r.added, e.ID()) }

func (r *recorder) OnEntityRemoved(w *World, e *Entity) {
	r.removed = append(r.removed, e.ID())
	if r.onRemove != nil {
		r.onRemove(w, e)
	}
}

type physicsRecorder struct {
	recorder
	disabled bool
}

func (p *physicsRecorder) FixedUpdate(_ *World, entities []*Entity, _ float64) {
	p.fixed += len(entities)
}

func (p *physicsRecorder) OnDisable(*World) { p.disabled = true }

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero(), "slot 0 is reserved")
	assert.Equal(t, uint32(1), a.Index())
	assert.True(t, p.Alive(a))

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	p.Destroy(a) // stale, no-op

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index is recycled")
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.False(t, p.Alive(a))
	assert.True(t, p.Alive(b))
	assert.Equal(t, 1, p.Len())
	assert.False(t, p.Alive(NoEntity))
}

func TestPoolAcquireRelease(t *testing.T) {
	built := 0
	p := NewPool(func() *position { built++; return &position{} }, (*position).Reset, 2)
	assert.Equal(t, 2, p.Free())
	assert.Equal(t, 2, built)

	a := p.Acquire()
	b := p.Acquire()
	c := p.Acquire() // pool empty, builds
	assert.Equal(t, 3, built)
	assert.Equal(t, 3, p.Created())

	a.X, a.Y = 4, 5
	p.Release(a)
	assert.Equal(t, position{}, *a, "released instance is reset")
	assert.Same(t, a, p.Acquire())
	p.Release(b)
	p.Release(c)
	assert.Equal(t, 2, p.Free())
}

func TestMask(t *testing.T) {
	m := MaskOf(typePosition, typeHealth)
	assert.True(t, m.Has(typePosition))
	assert.False(t, m.Has(typeLink))
	assert.True(t, m.Contains(MaskOf(typeHealth)))
	assert.False(t, MaskOf(typeHealth).Contains(m))
	assert.Equal(t, 2, m.Len())

	var got []ComponentType
	m.With(typeLink).Each(func(t ComponentType) { got = append(got, t) })
	assert.Equal(t, []ComponentType{typePosition, typeHealth, typeLink}, got)
}

func TestCreateComponentUnknownType(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.CreateComponent(42)
	assert.ErrorIs(t, err, ErrUnknownComponent)
	assert.Error(t, w.RegisterComponent(ComponentSpec{Type: 0, Name: "zero", New: func() Component { return &position{} }}))
}

func TestEntityComponents(t *testing.T) {
	w := newTestWorld(t)
	e := w.CreateEntity()
	pos, err := Attach[*position](w, e, typePosition)
	require.NoError(t, err)
	pos.X = 3

	assert.True(t, e.HasComponent(typePosition))
	got, ok := Get[*position](e, typePosition)
	require.True(t, ok)
	assert.Same(t, pos, got)
	_, ok = Get[*health](e, typeHealth)
	assert.False(t, ok)

	// replacing a component releases the old one
	stats, _ := w.PoolStats(typePosition)
	before := stats.Free
	w.AddComponent(e, &position{X: 9})
	stats, _ = w.PoolStats(typePosition)
	assert.Equal(t, before+1, stats.Free)
	assert.Equal(t, position{}, *pos)

	assert.True(t, w.RemoveComponent(e, typePosition))
	assert.False(t, w.RemoveComponent(e, typePosition))
	assert.False(t, e.HasComponent(typePosition))
}

func TestDestroyIsDeferredAndRecyclesComponents(t *testing.T) {
	w := newTestWorld(t)
	sys := newRecorder("health", 0, nil, typeHealth)
	w.AddSystem(sys)

	e := w.CreateEntity()
	h, err := Attach[*health](w, e, typeHealth)
	require.NoError(t, err)
	h.HP = 50
	l, err := Attach[*link](w, e, typeLink)
	require.NoError(t, err)
	id := e.ID()

	stats, _ := w.PoolStats(typeHealth)
	freeBefore, createdBefore := stats.Free, stats.Created

	assert.True(t, w.DestroyEntity(id))
	assert.False(t, w.DestroyEntity(id), "second destroy is a no-op")
	assert.True(t, w.Alive(id), "destruction waits for the next update")
	assert.True(t, e.PendingDestroy())

	w.Update(0.016)
	_, ok := w.Entity(id)
	assert.False(t, ok)
	assert.Equal(t, []EntityID{id}, sys.removed)
	assert.Equal(t, 1, l.destroyed, "unpooled component still gets its destroy hook")
	assert.Equal(t, []EntityID{}, sys.seen[0])

	stats, _ = w.PoolStats(typeHealth)
	assert.Equal(t, freeBefore+1, stats.Free)
	assert.Equal(t, createdBefore, stats.Created)
	assert.Equal(t, health{}, *h)

	// the recycled instance comes back without a new allocation
	again, err := w.CreateComponent(typeHealth)
	require.NoError(t, err)
	assert.Same(t, h, again)
	stats, _ = w.PoolStats(typeHealth)
	assert.Equal(t, createdBefore, stats.Created)

	// the slot is reused under a new generation
	next := w.CreateEntity()
	assert.Equal(t, id.Index(), next.ID().Index())
	assert.NotEqual(t, id, next.ID())
	assert.False(t, w.Alive(id))
}

func TestRemovalHookMayQueueMoreDestruction(t *testing.T) {
	w := newTestWorld(t)
	a := w.CreateEntity()
	b := w.CreateEntity()
	w.AddComponent(a, &health{})
	w.AddComponent(b, &health{})

	sys := newRecorder("chain", 0, nil, typeHealth)
	sys.onRemove = func(w *World, e *Entity) {
		if e.ID() == a.ID() {
			w.DestroyEntity(b.ID())
		}
	}
	w.AddSystem(sys)
	w.DestroyEntity(a.ID())
	w.Update(0)
	assert.Equal(t, []EntityID{a.ID(), b.ID()}, sys.removed)
	assert.Equal(t, 0, w.EntityCount())
}

func TestSystemOrderingIsStableByPriority(t *testing.T) {
	w := newTestWorld(t)
	var order []string
	w.AddSystem(newRecorder("late", 20, &order))
	w.AddSystem(newRecorder("first-10", 10, &order))
	w.AddSystem(newRecorder("second-10", 10, &order))
	w.AddSystem(newRecorder("early", 0, &order))

	w.Update(0.1)
	assert.Equal(t, []string{"early", "first-10", "second-10", "late"}, order)
	assert.InDelta(t, 0.1, w.Now(), 1e-12)
	assert.Equal(t, uint64(1), w.Frame())
}

func TestMatchingAndDisabledSystems(t *testing.T) {
	w := newTestWorld(t)
	both := newRecorder("both", 0, nil, typePosition, typeHealth)
	pos := newRecorder("pos", 1, nil, typePosition)
	w.AddSystem(both)
	w.AddSystem(pos)

	a := w.CreateEntity()
	w.AddComponent(a, &position{})
	w.AddComponent(a, &health{})
	b := w.CreateEntity()
	w.AddComponent(b, &position{})
	c := w.CreateEntity()
	w.AddComponent(c, &position{})
	c.SetActive(false)

	w.Update(0)
	assert.Equal(t, []EntityID{a.ID()}, both.seen[0])
	assert.Equal(t, []EntityID{a.ID(), b.ID()}, pos.seen[0])
	assert.Len(t, w.QueryEntities(typePosition), 2)
	assert.Len(t, w.Entities(), 3)

	pos.SetEnabled(false)
	w.Update(0)
	assert.Len(t, pos.seen, 1)
	assert.Len(t, both.seen, 2)

	w.NotifyEntityAdded(a)
	w.NotifyEntityAdded(b)
	assert.Equal(t, []EntityID{a.ID()}, both.added)
	assert.Equal(t, []EntityID{a.ID(), b.ID()}, pos.added)
}

func TestFixedUpdateAndRemoveSystem(t *testing.T) {
	w := newTestWorld(t)
	phys := &physicsRecorder{recorder: *newRecorder("phys", 5, nil, typePosition)}
	w.AddSystem(phys)
	w.AddSystem(newRecorder("plain", 0, nil))

	e := w.CreateEntity()
	w.AddComponent(e, &position{})
	w.FixedUpdate(0.02)
	w.FixedUpdate(0.02)
	assert.Equal(t, 2, phys.fixed)
	assert.Equal(t, uint64(2), w.FixedSteps())

	assert.True(t, RemoveSystem[*physicsRecorder](w))
	assert.True(t, phys.disabled)
	assert.False(t, RemoveSystem[*physicsRecorder](w))
	w.FixedUpdate(0.02)
	assert.Equal(t, 2, phys.fixed)
	assert.Len(t, w.Systems(), 1)
}

type renderRecorder struct {
	recorder
	drawn []EntityID
}

func (r *renderRecorder) Render(_ *World, entities []*Entity, _ float64) {
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	for _, e := range entities {
		r.drawn = append(r.drawn, e.ID())
	}
}

func TestRenderPass(t *testing.T) {
	w := newTestWorld(t)
	var order []string
	late := &renderRecorder{recorder: *newRecorder("late", 9, &order, typePosition)}
	early := &renderRecorder{recorder: *newRecorder("early", 1, &order, typePosition, typeHealth)}
	w.AddSystem(late)
	w.AddSystem(newRecorder("plain", 0, nil))
	w.AddSystem(early)

	a := w.CreateEntity()
	w.AddComponent(a, &position{})
	w.AddComponent(a, &health{})
	b := w.CreateEntity()
	w.AddComponent(b, &position{})
	hidden := w.CreateEntity()
	w.AddComponent(hidden, &position{})
	hidden.SetActive(false)

	w.Render(0.016)
	assert.Equal(t, []string{"early", "late"}, order, "render follows priority")
	assert.Equal(t, []EntityID{a.ID()}, early.drawn)
	assert.Equal(t, []EntityID{a.ID(), b.ID()}, late.drawn)

	order = nil
	early.SetEnabled(false)
	w.Render(0.016)
	assert.Equal(t, []string{"late"}, order)

	order = nil
	early.SetEnabled(true)
	assert.True(t, RemoveSystem[*renderRecorder](w))
	w.Render(0.016)
	assert.Equal(t, []string{"late"}, order, "the first scheduled render system goes first")
	assert.True(t, RemoveSystem[*renderRecorder](w))
	order = nil
	w.Render(0.016)
	assert.Empty(t, order)
	assert.Len(t, w.Systems(), 1)
}

func TestRemoveComponentNotifiesSystemsThatStopMatching(t *testing.T) {
	w := newTestWorld(t)
	both := newRecorder("both", 0, nil, typePosition, typeHealth)
	pos := newRecorder("pos", 1, nil, typePosition)
	all := newRecorder("all", 2, nil)
	var sawHealth bool
	both.onRemove = func(_ *World, e *Entity) { sawHealth = e.HasComponent(typeHealth) }
	w.AddSystem(both)
	w.AddSystem(pos)
	w.AddSystem(all)

	e := w.CreateEntity()
	w.AddComponent(e, &position{})
	w.AddComponent(e, &health{})

	require.True(t, w.RemoveComponent(e, typeHealth))
	assert.Equal(t, []EntityID{e.ID()}, both.removed)
	assert.True(t, sawHealth, "hook runs before the component is detached")
	assert.Empty(t, pos.removed)
	assert.Empty(t, all.removed)
	assert.False(t, e.HasComponent(typeHealth))
	assert.False(t, w.RemoveComponent(e, typeHealth))

	w.DestroyEntity(e.ID())
	w.Update(0)
	assert.Equal(t, []EntityID{e.ID()}, both.removed, "no second notice on destroy")
	assert.Equal(t, []EntityID{e.ID()}, pos.removed)
	assert.Equal(t, []EntityID{e.ID()}, all.removed)
}

func TestDuplicateSystemRunsTwice(t *testing.T) {
	w := newTestWorld(t)
	var order []string
	s := newRecorder("dup", 0, &order)
	w.AddSystem(s)
	w.AddSystem(s)
	w.Update(0)
	assert.Equal(t, []string{"dup", "dup"}, order)
}

func TestWorldEvents(t *testing.T) {
	w := newTestWorld(t)
	w.EmitEvent("explosion", 1)
	w.EmitEvent("explosion", 2)
	w.Update(0)
	assert.Equal(t, []any{1, 2}, w.EventsOf("explosion"), "events survive frames until cleared")
	w.ClearEvents("explosion")
	assert.Empty(t, w.EventsOf("explosion"))
}
