package world

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"go.uber.org/zap"
)

// Abilities an owner can unlock with skill points.
const (
	// AbilityVeteran raises the player level of every tower the owner has
	// or will build by one.
	AbilityVeteran component.AbilityID = "veteran"
	// AbilityLongSight extends tower search range by a quarter.
	AbilityLongSight component.AbilityID = "long_sight"
)

// PointsPerWave is granted to every owner when a wave is released.
const PointsPerWave = 1

const longSightFactor = 1.25

func knownAbility(id component.AbilityID) bool {
	return id == AbilityVeteran || id == AbilityLongSight
}

// Abilities returns owner's skill book, creating the commander entity that
// carries it on first use.
func (a *Arena) Abilities(owner uuid.UUID) (*component.Abilities, error) {
	if id, ok := a.commanders[owner]; ok {
		if ab, ok := ecs.GetByID[*component.Abilities](a.World, id, component.TypeAbilities); ok {
			return ab, nil
		}
	}
	e := a.World.CreateEntity()
	ab, err := ecs.Attach[*component.Abilities](a.World, e, component.TypeAbilities)
	if err != nil {
		a.World.DestroyEntity(e.ID())
		return nil, fmt.Errorf("commander for %s: %w", owner, err)
	}
	a.commanders[owner] = e.ID()
	return ab, nil
}

// Unlock spends one of owner's skill points on id and applies it to the
// owner's towers. Domain-rule failures wrap the component sentinels.
func (a *Arena) Unlock(owner uuid.UUID, id component.AbilityID) error {
	if !knownAbility(id) {
		return fmt.Errorf("unlock %q: %w", id, component.ErrUnknownAbility)
	}
	ab, err := a.Abilities(owner)
	if err != nil {
		return err
	}
	if err := ab.Unlock(id); err != nil {
		return err
	}
	n := 0
	for key, tid := range a.towers {
		if key.owner != owner {
			continue
		}
		if t, ok := ecs.GetByID[*component.Tower](a.World, tid, component.TypeTower); ok {
			applyAbility(t, id)
			n++
		}
	}
	a.log.Info("ability unlocked",
		zap.Stringer("owner", owner),
		zap.String("ability", string(id)),
		zap.Int("towers", n),
		zap.Int("points_left", ab.Points))
	return nil
}

func applyAbility(t *component.Tower, id component.AbilityID) {
	switch id {
	case AbilityVeteran:
		t.SetPlayerLevel(t.PlayerLevel + 1)
	case AbilityLongSight:
		t.SearchRange *= longSightFactor
	}
}

// applyUnlocked brings a freshly built tower up to date with its owner's
// unlocked abilities.
func (a *Arena) applyUnlocked(t *component.Tower) {
	id, ok := a.commanders[t.Owner]
	if !ok {
		return
	}
	ab, ok := ecs.GetByID[*component.Abilities](a.World, id, component.TypeAbilities)
	if !ok {
		return
	}
	for _, u := range ab.Unlocked() {
		applyAbility(t, u)
	}
}

// levelBonus is the player level added by owner's unlocked abilities.
func (a *Arena) levelBonus(owner uuid.UUID) int {
	id, ok := a.commanders[owner]
	if !ok {
		return 0
	}
	if ab, ok := ecs.GetByID[*component.Abilities](a.World, id, component.TypeAbilities); ok && ab.Has(AbilityVeteran) {
		return 1
	}
	return 0
}

func (a *Arena) grantWavePoints() {
	for _, id := range a.commanders {
		if ab, ok := ecs.GetByID[*component.Abilities](a.World, id, component.TypeAbilities); ok {
			ab.GrantPoints(PointsPerWave)
		}
	}
}
