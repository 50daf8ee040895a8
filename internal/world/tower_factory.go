package world

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/mathx"
	"go.uber.org/zap"
)

// TowerSpec describes one tower to build.
type TowerSpec struct {
	Template    *data.TowerTemplate
	Owner       uuid.UUID
	Slot        int
	Position    mathx.Vec3
	PlayerLevel int
}

// TowerFactory assembles tower entities: Transform, Health, a static
// cylinder Collider, Renderer and Tower.
type TowerFactory struct {
	w      *ecs.World
	damage component.DamageFunc
	log    *zap.Logger
}

func NewTowerFactory(w *ecs.World, damage component.DamageFunc, log *zap.Logger) *TowerFactory {
	if log == nil {
		log = zap.NewNop()
	}
	return &TowerFactory{w: w, damage: damage, log: log}
}

// Create builds the tower and notifies the world's systems. On failure the
// half-built entity is queued for destruction.
func (f *TowerFactory) Create(spec TowerSpec) (*ecs.Entity, error) {
	tmpl := spec.Template
	e := f.w.CreateEntity()
	if err := f.assemble(e, spec); err != nil {
		f.w.DestroyEntity(e.ID())
		return nil, fmt.Errorf("create tower %q: %w", tmpl.Name, err)
	}
	f.w.NotifyEntityAdded(e)
	f.log.Info("tower built",
		zap.Stringer("tower", e.ID()),
		zap.String("template", tmpl.Name),
		zap.Stringer("owner", spec.Owner),
		zap.Int("slot", spec.Slot))
	return e, nil
}

func (f *TowerFactory) assemble(e *ecs.Entity, spec TowerSpec) error {
	tmpl := spec.Template

	tr, err := ecs.Attach[*component.Transform](f.w, e, component.TypeTransform)
	if err != nil {
		return err
	}
	tr.SetPositionVec(spec.Position)

	h, err := ecs.Attach[*component.Health](f.w, e, component.TypeHealth)
	if err != nil {
		return err
	}
	h.SetMax(tmpl.Health)

	col, err := ecs.Attach[*component.Collider](f.w, e, component.TypeCollider)
	if err != nil {
		return err
	}
	col.SetCylinder(tmpl.Radius, tmpl.Height)
	col.SetOffset(mathx.V3(0, tmpl.Height/2, 0))
	col.Layer = tmpl.Layer
	col.Mask = tmpl.TargetMask | component.LayerProjectile
	col.IsStatic = true

	r, err := ecs.Attach[*component.Renderer](f.w, e, component.TypeRenderer)
	if err != nil {
		return err
	}
	r.Handle = tmpl.Name

	t, err := ecs.Attach[*component.Tower](f.w, e, component.TypeTower)
	if err != nil {
		return err
	}
	t.Owner = spec.Owner
	t.Slot = spec.Slot
	t.AttackRange = tmpl.AttackRange
	t.AttackCooldown = tmpl.AttackCooldown
	t.SearchRange = tmpl.SearchRange
	t.SearchCooldown = tmpl.SearchCooldown
	t.TargetMask = tmpl.TargetMask
	t.DamageFunc = f.damage
	t.SetPlayerLevel(spec.PlayerLevel)

	// Towers built together would otherwise search on the same frame.
	now := f.w.Now()
	t.LastSearchTime = now - t.SearchCooldown + searchPhase(spec.Owner, spec.Slot, t.SearchCooldown)
	t.LastAttackTime = now - t.AttackCooldown
	return nil
}

// searchPhase maps (owner, slot) to a stable offset in [0, cooldown).
func searchPhase(owner uuid.UUID, slot int, cooldown float64) float64 {
	var buf [24]byte
	copy(buf[:16], owner[:])
	binary.LittleEndian.PutUint64(buf[16:], uint64(slot))
	frac := float64(xxhash.Sum64(buf[:])>>11) / (1 << 53)
	return frac * cooldown
}
