package component

import (
	"errors"
	"fmt"
	"slices"

	"github.com/l1jgo/arena/internal/core/ecs"
)

var (
	ErrNoSkillPoints   = errors.New("no skill points")
	ErrAbilityUnlocked = errors.New("ability already unlocked")
	ErrUnknownAbility  = errors.New("unknown ability")
)

// AbilityID names an unlockable ability.
type AbilityID string

// Abilities tracks skill points and the abilities bought with them.
type Abilities struct {
	Points   int
	unlocked []AbilityID
}

func NewAbilities() *Abilities { return &Abilities{} }

func (*Abilities) Type() ecs.ComponentType { return TypeAbilities }

func (a *Abilities) Reset() { *a = Abilities{} }

func (a *Abilities) Clone() ecs.Component {
	return &Abilities{Points: a.Points, unlocked: slices.Clone(a.unlocked)}
}

func (a *Abilities) GrantPoints(n int) {
	if n > 0 {
		a.Points += n
	}
}

func (a *Abilities) Has(id AbilityID) bool {
	return slices.Contains(a.unlocked, id)
}

// Unlocked returns the unlocked abilities in unlock order.
func (a *Abilities) Unlocked() []AbilityID {
	return slices.Clone(a.unlocked)
}

// Unlock spends one point on id. It fails without touching state when id
// is empty, already unlocked, or no point is left.
func (a *Abilities) Unlock(id AbilityID) error {
	switch {
	case id == "":
		return ErrUnknownAbility
	case a.Has(id):
		return fmt.Errorf("unlock %s: %w", id, ErrAbilityUnlocked)
	case a.Points <= 0:
		return fmt.Errorf("unlock %s: %w", id, ErrNoSkillPoints)
	}
	a.Points--
	a.unlocked = append(a.unlocked, id)
	return nil
}
