package world

import (
	"fmt"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
	"go.uber.org/zap"
)

// SpawnEnemy creates an enemy of the named type at pos moving at vel.
// wave scales its health through Options.WaveHealth; pass 0 for none.
func (a *Arena) SpawnEnemy(name string, pos, vel mathx.Vec3, wave int) (ecs.EntityID, error) {
	tmpl := a.Layout.Enemy(name)
	if tmpl == nil {
		return ecs.NoEntity, fmt.Errorf("spawn enemy %q: %w", name, ErrUnknownTemplate)
	}
	w := a.World
	e := w.CreateEntity()

	err := func() error {
		tr, err := ecs.Attach[*component.Transform](w, e, component.TypeTransform)
		if err != nil {
			return err
		}
		tr.SetPositionVec(pos)

		h, err := ecs.Attach[*component.Health](w, e, component.TypeHealth)
		if err != nil {
			return err
		}
		hp := tmpl.Health
		if a.waveHealth != nil && wave > 0 {
			hp = a.waveHealth(hp, wave)
		}
		h.SetMax(hp)

		col, err := ecs.Attach[*component.Collider](w, e, component.TypeCollider)
		if err != nil {
			return err
		}
		col.SetSphere(tmpl.Radius)
		col.Layer = tmpl.Layer
		col.Mask = tmpl.CollidesWith

		v, err := ecs.Attach[*component.Velocity](w, e, component.TypeVelocity)
		if err != nil {
			return err
		}
		v.Linear = vel

		r, err := ecs.Attach[*component.Renderer](w, e, component.TypeRenderer)
		if err != nil {
			return err
		}
		r.Handle = tmpl.Name
		return nil
	}()
	if err != nil {
		w.DestroyEntity(e.ID())
		return ecs.NoEntity, fmt.Errorf("spawn enemy %q: %w", name, err)
	}

	w.NotifyEntityAdded(e)
	a.log.Debug("enemy spawned", zap.Stringer("entity", e.ID()), zap.String("enemy", name), zap.Int("wave", wave))
	return e.ID(), nil
}
