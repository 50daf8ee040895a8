package system

import (
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
	"github.com/l1jgo/arena/internal/spatial"
	"go.uber.org/zap"
)

// TowerSystem drives tower targeting on the frame clock.
//
// Per tower and frame: a held target is dropped once it dies, despawns or
// leaves SearchRange. Without a target, a search runs when its cooldown
// allows and picks the nearest living candidate inside SearchRange whose
// collider layer matches TargetMask. With a target inside AttackRange, the
// tower fires when the attack cooldown allows; the shot applies damage to
// the target's Health and emits EventTowerAttack.
type TowerSystem struct {
	ecs.BaseSystem
	hash *spatial.Hash
	log  *zap.Logger
}

func NewTowerSystem(hash *spatial.Hash, log *zap.Logger) *TowerSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &TowerSystem{
		BaseSystem: ecs.NewBaseSystem(PriorityTower, component.TypeTransform, component.TypeTower),
		hash:       hash,
		log:        log,
	}
}

func (s *TowerSystem) Update(w *ecs.World, entities []*ecs.Entity, _ float64) {
	now := w.Now()
	for _, e := range entities {
		t, _ := ecs.Get[*component.Tower](e, component.TypeTower)
		if t.Dead || !t.Active {
			continue
		}
		tr, _ := ecs.Get[*component.Transform](e, component.TypeTransform)
		pos := tr.WorldPosition()

		if t.HasTarget() {
			if _, ok := s.targetPosition(w, t.Target, pos, t.SearchRange); !ok {
				s.log.Debug("tower lost target", zap.Stringer("tower", e.ID()), zap.Stringer("target", t.Target))
				t.ClearTarget()
			}
		}

		if !t.HasTarget() && t.CanSearchForTargets(now) {
			t.MarkSearched(now)
			if id, ok := s.nearest(w, e.ID(), pos, t); ok {
				t.SetTarget(id)
				s.log.Debug("tower acquired target", zap.Stringer("tower", e.ID()), zap.Stringer("target", id))
			}
		}

		if t.CanAttack(now) {
			s.attack(w, e.ID(), t, pos, now)
		}
	}
}

func (s *TowerSystem) attack(w *ecs.World, self ecs.EntityID, t *component.Tower, pos mathx.Vec3, now float64) {
	if _, ok := s.targetPosition(w, t.Target, pos, t.AttackRange); !ok {
		return
	}
	h, ok := ecs.GetByID[*component.Health](w, t.Target, component.TypeHealth)
	if !ok {
		return
	}
	t.MarkAttacked(now)
	killed := h.Damage(t.AttackDamage)
	w.EmitEvent(EventTowerAttack, TowerAttack{
		Tower:  self,
		Target: t.Target,
		Damage: t.AttackDamage,
		Killed: killed,
		Time:   now,
	})
}

// targetPosition resolves id to a living target within rng of from.
func (s *TowerSystem) targetPosition(w *ecs.World, id ecs.EntityID, from mathx.Vec3, rng float64) (mathx.Vec3, bool) {
	e, ok := w.Entity(id)
	if !ok || !e.Active() || e.PendingDestroy() {
		return mathx.Vec3{}, false
	}
	if h, ok := ecs.Get[*component.Health](e, component.TypeHealth); !ok || h.IsDead() {
		return mathx.Vec3{}, false
	}
	tr, ok := ecs.Get[*component.Transform](e, component.TypeTransform)
	if !ok {
		return mathx.Vec3{}, false
	}
	p := tr.WorldPosition()
	if p.DistanceSq(from) > rng*rng {
		return mathx.Vec3{}, false
	}
	return p, true
}

// nearest picks the closest eligible candidate; ties go to the first one
// the hash reports.
func (s *TowerSystem) nearest(w *ecs.World, self ecs.EntityID, pos mathx.Vec3, t *component.Tower) (ecs.EntityID, bool) {
	best := ecs.NoEntity
	bestDist := 0.0
	for _, id := range s.hash.QueryRadius(pos, t.SearchRange) {
		if id == self {
			continue
		}
		col, ok := ecs.GetByID[*component.Collider](w, id, component.TypeCollider)
		if !ok || col.Layer&t.TargetMask == 0 {
			continue
		}
		p, ok := s.targetPosition(w, id, pos, t.SearchRange)
		if !ok {
			continue
		}
		d := p.DistanceSq(pos)
		if best.IsZero() || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, !best.IsZero()
}
