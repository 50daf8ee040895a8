// Package world composes the ECS world, the spatial hash and the gameplay
// systems into a playable arena.
package world

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/spatial"
	"github.com/l1jgo/arena/internal/system"
	"go.uber.org/zap"
)

var (
	ErrSlotOccupied    = errors.New("slot occupied")
	ErrUnknownSlot     = errors.New("unknown slot")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Options tunes an Arena.
type Options struct {
	CellSize    float64
	PoolPrewarm int
	// Damage overrides the stock tower damage curve when set.
	Damage component.DamageFunc
	// WaveHealth scales enemy health per wave when set.
	WaveHealth func(base, wave int) int
}

type slotKey struct {
	owner uuid.UUID
	slot  int
}

// Arena is one running match: the ECS world with its gameplay systems,
// the spatial hash they share, and the slot registry that keeps one tower
// per owner and slot.
// Accessed only from the game loop goroutine, no locks.
type Arena struct {
	ID     uuid.UUID
	World  *ecs.World
	Hash   *spatial.Hash
	Layout *data.Arena

	towers     map[slotKey]ecs.EntityID
	commanders map[uuid.UUID]ecs.EntityID
	factory    *TowerFactory
	collision  *system.CollisionSystem
	waveHealth func(base, wave int) int
	nextWave   int
	log        *zap.Logger
}

// NewArena builds the world, registers every component type and schedules
// the gameplay systems.
func NewArena(layout *data.Arena, opts Options, log *zap.Logger) (*Arena, error) {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	log = log.With(zap.Stringer("match", id))

	w := ecs.NewWorld(ecs.Options{PoolPrewarm: opts.PoolPrewarm}, log)
	if err := component.Register(w); err != nil {
		return nil, fmt.Errorf("new arena: %w", err)
	}
	hash := spatial.NewHash(opts.CellSize)

	a := &Arena{
		ID:         id,
		World:      w,
		Hash:       hash,
		Layout:     layout,
		towers:     make(map[slotKey]ecs.EntityID),
		commanders: make(map[uuid.UUID]ecs.EntityID),
		factory:    NewTowerFactory(w, opts.Damage, log),
		collision:  system.NewCollisionSystem(hash, log),
		waveHealth: opts.WaveHealth,
		log:        log,
	}

	w.AddSystem(system.NewMovementSystem())
	w.AddSystem(system.NewSpatialIndexSystem(hash))
	w.AddSystem(a.collision)
	w.AddSystem(system.NewTowerSystem(hash, log))
	w.AddSystem(system.NewHealthSystem(log))

	log.Info("arena created", zap.Float64("cell_size", hash.CellSize()), zap.Int("systems", len(w.Systems())))
	return a, nil
}

// Collision exposes the contact tracker.
func (a *Arena) Collision() *system.CollisionSystem { return a.collision }

// Tower returns the live tower owner has built in slot.
func (a *Arena) Tower(owner uuid.UUID, slot int) (ecs.EntityID, bool) {
	id, ok := a.towers[slotKey{owner, slot}]
	if !ok {
		return ecs.NoEntity, false
	}
	if !a.World.Alive(id) {
		delete(a.towers, slotKey{owner, slot})
		return ecs.NoEntity, false
	}
	return id, true
}

// BuildTower places a tower of the named template in one of the layout's
// slots for owner. A dead tower keeps its slot until its entity is
// destroyed.
func (a *Arena) BuildTower(owner uuid.UUID, slot int, template string, level int) (ecs.EntityID, error) {
	if _, taken := a.Tower(owner, slot); taken {
		return ecs.NoEntity, fmt.Errorf("build tower in slot %d: %w", slot, ErrSlotOccupied)
	}
	s, ok := a.Layout.Slot(slot)
	if !ok {
		return ecs.NoEntity, fmt.Errorf("build tower in slot %d: %w", slot, ErrUnknownSlot)
	}
	tmpl := a.Layout.Tower(template)
	if tmpl == nil {
		return ecs.NoEntity, fmt.Errorf("build tower %q: %w", template, ErrUnknownTemplate)
	}
	if _, err := a.Abilities(owner); err != nil {
		return ecs.NoEntity, err
	}
	e, err := a.factory.Create(TowerSpec{
		Template:    tmpl,
		Owner:       owner,
		Slot:        slot,
		Position:    s.Position.Vec3(),
		PlayerLevel: level,
	})
	if err != nil {
		return ecs.NoEntity, err
	}
	if t, ok := ecs.Get[*component.Tower](e, component.TypeTower); ok {
		a.applyUnlocked(t)
	}
	a.towers[slotKey{owner, slot}] = e.ID()
	return e.ID(), nil
}

// SetPlayerLevel rescales the damage of every tower owner has built.
// Unlocked abilities still add their level bonus on top.
func (a *Arena) SetPlayerLevel(owner uuid.UUID, level int) int {
	level += a.levelBonus(owner)
	n := 0
	for key, id := range a.towers {
		if key.owner != owner {
			continue
		}
		if t, ok := ecs.GetByID[*component.Tower](a.World, id, component.TypeTower); ok {
			t.SetPlayerLevel(level)
			n++
		}
	}
	return n
}

// Stats is a snapshot of arena bookkeeping.
type Stats struct {
	Entities     int
	Towers       int
	Commanders   int
	Indexed      int
	Cells        int
	Contacts     int
	WavesPending int
}

func (a *Arena) Stats() Stats {
	return Stats{
		Entities:     a.World.EntityCount(),
		Towers:       len(a.towers),
		Commanders:   len(a.commanders),
		Indexed:      a.Hash.Len(),
		Cells:        a.Hash.CellCount(),
		Contacts:     a.collision.Contacts(),
		WavesPending: len(a.Layout.Waves()) - a.nextWave,
	}
}
