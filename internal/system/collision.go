package system

import (
	"cmp"
	"slices"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/spatial"
	"go.uber.org/zap"
)

// pair is an unordered entity pair, stored low id first.
type pair struct {
	a, b ecs.EntityID
}

func makePair(x, y ecs.EntityID) pair {
	if y < x {
		x, y = y, x
	}
	return pair{x, y}
}

type contact struct {
	trigger bool
	step    uint64
}

// CollisionSystem runs broad phase through the spatial hash, filters by
// layer and mask, then runs the precise shape test. Contacts are tracked
// across fixed steps so each pair gets enter, stay and exit callbacks
// (the trigger variants when either side is a trigger). Two static
// colliders are never tested against each other.
type CollisionSystem struct {
	ecs.BaseSystem
	hash     *spatial.Hash
	log      *zap.Logger
	contacts map[pair]*contact
	step     uint64
	buf      []ecs.EntityID
}

func NewCollisionSystem(hash *spatial.Hash, log *zap.Logger) *CollisionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollisionSystem{
		BaseSystem: ecs.NewBaseSystem(PriorityCollision, component.TypeTransform, component.TypeCollider),
		hash:       hash,
		log:        log,
		contacts:   make(map[pair]*contact),
	}
}

func (s *CollisionSystem) Update(_ *ecs.World, _ []*ecs.Entity, _ float64) {}

func (s *CollisionSystem) FixedUpdate(w *ecs.World, entities []*ecs.Entity, _ float64) {
	s.step++
	for _, e := range entities {
		col, _ := ecs.Get[*component.Collider](e, component.TypeCollider)
		tr, _ := ecs.Get[*component.Transform](e, component.TypeTransform)
		s.buf = s.hash.QueryInto(col.Bounds(), s.buf[:0])
		for _, otherID := range s.buf {
			// each unordered pair is handled from its lower id
			if otherID <= e.ID() {
				continue
			}
			other, ok := w.Entity(otherID)
			if !ok || !other.Active() {
				continue
			}
			ocol, ok := ecs.Get[*component.Collider](other, component.TypeCollider)
			if !ok {
				continue
			}
			otr, ok := ecs.Get[*component.Transform](other, component.TypeTransform)
			if !ok {
				continue
			}
			if col.IsStatic && ocol.IsStatic {
				continue
			}
			if !col.CanCollideWith(ocol) {
				continue
			}
			if !col.Intersects(ocol, tr.WorldPosition(), otr.WorldPosition()) {
				continue
			}
			s.touch(e.ID(), otherID, col, ocol)
		}
	}
	s.expire(w)
}

func (s *CollisionSystem) touch(a, b ecs.EntityID, ca, cb *component.Collider) {
	key := makePair(a, b)
	if c, ok := s.contacts[key]; ok {
		c.step = s.step
		fire(c.trigger, stay, a, b, ca, cb)
		return
	}
	c := &contact{trigger: ca.IsTrigger || cb.IsTrigger, step: s.step}
	s.contacts[key] = c
	fire(c.trigger, enter, a, b, ca, cb)
	s.log.Debug("contact begin", zap.Stringer("a", a), zap.Stringer("b", b), zap.Bool("trigger", c.trigger))
}

// expire ends every contact that was not refreshed this step, in pair
// order.
func (s *CollisionSystem) expire(w *ecs.World) {
	var ended []pair
	for key, c := range s.contacts {
		if c.step != s.step {
			ended = append(ended, key)
		}
	}
	sortPairs(ended)
	for _, key := range ended {
		s.end(w, key)
	}
}

func (s *CollisionSystem) end(w *ecs.World, key pair) {
	c := s.contacts[key]
	delete(s.contacts, key)
	ca, _ := ecs.GetByID[*component.Collider](w, key.a, component.TypeCollider)
	cb, _ := ecs.GetByID[*component.Collider](w, key.b, component.TypeCollider)
	fire(c.trigger, exit, key.a, key.b, ca, cb)
	s.log.Debug("contact end", zap.Stringer("a", key.a), zap.Stringer("b", key.b))
}

// OnEntityRemoved ends every contact involving e while both colliders are
// still attached.
func (s *CollisionSystem) OnEntityRemoved(w *ecs.World, e *ecs.Entity) {
	var ended []pair
	for key := range s.contacts {
		if key.a == e.ID() || key.b == e.ID() {
			ended = append(ended, key)
		}
	}
	sortPairs(ended)
	for _, key := range ended {
		s.end(w, key)
	}
}

func (s *CollisionSystem) OnDisable(_ *ecs.World) {
	clear(s.contacts)
}

// InContact reports whether a and b touched on the last fixed step.
func (s *CollisionSystem) InContact(a, b ecs.EntityID) bool {
	_, ok := s.contacts[makePair(a, b)]
	return ok
}

// Contacts is the number of live contact pairs.
func (s *CollisionSystem) Contacts() int { return len(s.contacts) }

type phase uint8

const (
	enter phase = iota
	stay
	exit
)

// fire invokes the callbacks for phase on both sides. A nil collider
// (already detached) is skipped.
func fire(trigger bool, p phase, a, b ecs.EntityID, ca, cb *component.Collider) {
	if ca != nil {
		if fn := callback(ca, trigger, p); fn != nil {
			fn(a, b)
		}
	}
	if cb != nil {
		if fn := callback(cb, trigger, p); fn != nil {
			fn(b, a)
		}
	}
}

func callback(c *component.Collider, trigger bool, p phase) component.CollisionFunc {
	switch {
	case trigger && p == enter:
		return c.OnTriggerEnter
	case trigger && p == stay:
		return c.OnTriggerStay
	case trigger:
		return c.OnTriggerExit
	case p == enter:
		return c.OnCollisionEnter
	case p == stay:
		return c.OnCollisionStay
	default:
		return c.OnCollisionExit
	}
}

func sortPairs(ps []pair) {
	slices.SortFunc(ps, func(x, y pair) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
}
