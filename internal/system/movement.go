package system

import (
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// MovementSystem integrates Velocity into Transform on the fixed step.
type MovementSystem struct {
	ecs.BaseSystem
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{
		BaseSystem: ecs.NewBaseSystem(PriorityMovement, component.TypeTransform, component.TypeVelocity),
	}
}

func (s *MovementSystem) Update(_ *ecs.World, _ []*ecs.Entity, _ float64) {}

func (s *MovementSystem) FixedUpdate(_ *ecs.World, entities []*ecs.Entity, dt float64) {
	for _, e := range entities {
		tr, _ := ecs.Get[*component.Transform](e, component.TypeTransform)
		v, _ := ecs.Get[*component.Velocity](e, component.TypeVelocity)
		if v.Linear.IsZero() {
			continue
		}
		tr.Translate(v.Linear.Scale(dt))
	}
}
