package system

import (
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
	"go.uber.org/zap"
)

// HealthSystem handles entities whose health has run out. Towers are
// killed in place and stay in the world as wreckage; every other entity
// emits EventUnitKilled and is queued for destruction.
type HealthSystem struct {
	ecs.BaseSystem
	log *zap.Logger
}

func NewHealthSystem(log *zap.Logger) *HealthSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthSystem{
		BaseSystem: ecs.NewBaseSystem(PriorityHealth, component.TypeHealth),
		log:        log,
	}
}

func (s *HealthSystem) Update(w *ecs.World, entities []*ecs.Entity, _ float64) {
	now := w.Now()
	for _, e := range entities {
		h, _ := ecs.Get[*component.Health](e, component.TypeHealth)
		if !h.IsDead() || e.PendingDestroy() {
			continue
		}
		if t, ok := ecs.Get[*component.Tower](e, component.TypeTower); ok {
			s.killTower(w, e, t, now)
			continue
		}
		w.EmitEvent(EventUnitKilled, UnitKilled{Entity: e.ID(), Position: position(e), Time: now})
		w.DestroyEntity(e.ID())
	}
}

func (s *HealthSystem) killTower(w *ecs.World, e *ecs.Entity, t *component.Tower, now float64) {
	if !t.Kill(now) {
		return
	}
	w.EmitEvent(EventTowerDestroyed, TowerDestroyed{
		Tower:    e.ID(),
		Owner:    t.Owner,
		Slot:     t.Slot,
		Position: position(e),
		Time:     now,
	})
	s.log.Info("tower destroyed", zap.Stringer("tower", e.ID()), zap.Stringer("owner", t.Owner), zap.Int("slot", t.Slot))
}

func position(e *ecs.Entity) mathx.Vec3 {
	if tr, ok := ecs.Get[*component.Transform](e, component.TypeTransform); ok {
		return tr.WorldPosition()
	}
	return mathx.Vec3{}
}
