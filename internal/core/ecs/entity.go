package ecs

import "strconv"

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
// Index 0 is never handed out, so the zero EntityID means "no entity".
type EntityID uint64

// NoEntity is the zero id.
const NoEntity EntityID = 0

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == NoEntity }

func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id.Index()), 10) + "v" + strconv.FormatUint(uint64(id.Generation()), 10)
}

// EntityPool manages entity allocation with generational indices and a free list.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	p := &EntityPool{
		generations: make([]uint32, 1, 1024),
		freeList:    make([]uint32, 0, 256),
		nextIndex:   1,
	}
	return p
}

func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return // already destroyed (stale reference)
	}
	idx := id.Index()
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

// Len returns the number of live ids.
func (p *EntityPool) Len() int {
	return int(p.nextIndex) - 1 - len(p.freeList)
}

// Entity is an identity plus at most one component per ComponentType.
// Entities are created and destroyed through the World; mutate their
// component set with World.AddComponent / World.RemoveComponent so pooled
// instances find their way home.
type Entity struct {
	id         EntityID
	components map[ComponentType]Component
	mask       Mask
	active     bool
	doomed     bool
}

func newEntity(id EntityID) *Entity {
	return &Entity{
		id:         id,
		components: make(map[ComponentType]Component, 8),
		active:     true,
	}
}

func (e *Entity) ID() EntityID { return e.id }

// Active entities take part in system matching and queries.
func (e *Entity) Active() bool      { return e.active }
func (e *Entity) SetActive(on bool) { e.active = on }
func (e *Entity) Mask() Mask        { return e.mask }

// PendingDestroy reports whether DestroyEntity has been called for e and
// the cleanup pass has not run yet.
func (e *Entity) PendingDestroy() bool { return e.doomed }

// Component returns the component of type t.
func (e *Entity) Component(t ComponentType) (Component, bool) {
	c, ok := e.components[t]
	return c, ok
}

func (e *Entity) HasComponent(t ComponentType) bool {
	return e.mask.Has(t)
}

// Matches reports whether e carries every component in required.
func (e *Entity) Matches(required Mask) bool {
	return e.mask.Contains(required)
}

// Components returns the attached components ordered by type tag.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, len(e.components))
	e.mask.Each(func(t ComponentType) {
		out = append(out, e.components[t])
	})
	return out
}

// set attaches c and returns whatever it replaced.
func (e *Entity) set(c Component) Component {
	t := c.Type()
	prev := e.components[t]
	e.components[t] = c
	e.mask = e.mask.With(t)
	return prev
}

func (e *Entity) unset(t ComponentType) Component {
	c, ok := e.components[t]
	if !ok {
		return nil
	}
	delete(e.components, t)
	e.mask = e.mask.Without(t)
	return c
}
