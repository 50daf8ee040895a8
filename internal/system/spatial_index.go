package system

import (
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/spatial"
)

// SpatialIndexSystem keeps the spatial hash in step with every entity that
// has a Transform and a Collider. It refreshes on both the frame and the
// fixed step so queries in either pass see current bounds. Static
// colliders are registered once and then left alone until invalidated.
// Inactive entities are dropped from the hash until they are active again.
type SpatialIndexSystem struct {
	ecs.BaseSystem
	hash *spatial.Hash
}

func NewSpatialIndexSystem(hash *spatial.Hash) *SpatialIndexSystem {
	return &SpatialIndexSystem{
		BaseSystem: ecs.NewBaseSystem(PrioritySpatial, component.TypeTransform, component.TypeCollider),
		hash:       hash,
	}
}

func (s *SpatialIndexSystem) Hash() *spatial.Hash { return s.hash }

func (s *SpatialIndexSystem) Update(_ *ecs.World, entities []*ecs.Entity, _ float64) {
	s.refresh(entities)
}

func (s *SpatialIndexSystem) FixedUpdate(_ *ecs.World, entities []*ecs.Entity, _ float64) {
	s.refresh(entities)
}

func (s *SpatialIndexSystem) refresh(entities []*ecs.Entity) {
	for _, e := range entities {
		s.sync(e)
	}
	// Every dispatched entity is now registered, so a larger hash holds
	// entities that went inactive or stopped matching.
	if s.hash.Len() > len(entities) {
		s.prune(entities)
	}
}

func (s *SpatialIndexSystem) prune(entities []*ecs.Entity) {
	live := make(map[ecs.EntityID]struct{}, len(entities))
	for _, e := range entities {
		live[e.ID()] = struct{}{}
	}
	s.hash.Retain(func(id ecs.EntityID) bool {
		_, ok := live[id]
		return ok
	})
}

func (s *SpatialIndexSystem) sync(e *ecs.Entity) {
	tr, _ := ecs.Get[*component.Transform](e, component.TypeTransform)
	col, _ := ecs.Get[*component.Collider](e, component.TypeCollider)
	if col.IsStatic && !col.BoundsDirty() && s.hash.Contains(e.ID()) {
		return
	}
	col.UpdateBounds(tr.WorldPosition())
	s.hash.Update(e.ID(), col.Bounds())
}

// OnEntityAdded registers e right away so it is queryable before the next
// frame.
func (s *SpatialIndexSystem) OnEntityAdded(_ *ecs.World, e *ecs.Entity) {
	s.sync(e)
}

func (s *SpatialIndexSystem) OnEntityRemoved(_ *ecs.World, e *ecs.Entity) {
	s.hash.Remove(e.ID())
}

func (s *SpatialIndexSystem) OnDisable(_ *ecs.World) {
	s.hash.Clear()
}
