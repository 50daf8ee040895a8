package system

import (
	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/mathx"
)

// Event streams emitted by the gameplay systems. Consumers drain them once
// per frame and clear.
const (
	EventTowerAttack    event.Type = "tower.attack"
	EventTowerDestroyed event.Type = "tower.destroyed"
	EventUnitKilled     event.Type = "unit.killed"
)

// Scheduling priorities, ascending.
const (
	PriorityMovement  = 10
	PrioritySpatial   = 20
	PriorityCollision = 30
	PriorityTower     = 40
	PriorityHealth    = 50
)

// TowerAttack is emitted for every shot a tower fires.
type TowerAttack struct {
	Tower  ecs.EntityID
	Target ecs.EntityID
	Damage int
	Killed bool
	Time   float64
}

// TowerDestroyed is emitted once when a tower's health runs out.
type TowerDestroyed struct {
	Tower    ecs.EntityID
	Owner    uuid.UUID
	Slot     int
	Position mathx.Vec3
	Time     float64
}

// UnitKilled is emitted for any other entity whose health runs out, right
// before it is queued for destruction.
type UnitKilled struct {
	Entity   ecs.EntityID
	Position mathx.Vec3
	Time     float64
}
