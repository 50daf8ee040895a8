package component

import "github.com/l1jgo/arena/internal/core/ecs"

// DefaultMaxHealth is what a fresh Health starts with.
const DefaultMaxHealth = 100

// Health tracks hit points. Once Current reaches zero the owner is dead and
// stays dead: heals are ignored.
type Health struct {
	Current int
	Max     int
}

func NewHealth() *Health {
	return &Health{Current: DefaultMaxHealth, Max: DefaultMaxHealth}
}

func (*Health) Type() ecs.ComponentType { return TypeHealth }

func (h *Health) Reset() { *h = Health{Current: DefaultMaxHealth, Max: DefaultMaxHealth} }

func (h *Health) Clone() ecs.Component {
	c := *h
	return &c
}

// SetMax sets the ceiling and fills up to it.
func (h *Health) SetMax(max int) {
	if max < 1 {
		max = 1
	}
	h.Max, h.Current = max, max
}

func (h *Health) IsDead() bool { return h.Current <= 0 }

// Damage subtracts amount and reports whether this hit was the killing
// blow. Damage to the dead and non-positive amounts are ignored.
func (h *Health) Damage(amount int) bool {
	if amount <= 0 || h.IsDead() {
		return false
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		return true
	}
	return false
}

// Heal restores up to Max. The dead cannot be healed.
func (h *Health) Heal(amount int) {
	if amount <= 0 || h.IsDead() {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// Fraction is Current/Max in [0, 1].
func (h *Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}
