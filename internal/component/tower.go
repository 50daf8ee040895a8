package component

import (
	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// Tower defaults. Times are game-clock seconds.
const (
	BaseTowerDamage       = 150
	TowerDamagePerLevel   = 50
	DefaultAttackRange    = 8.0
	DefaultAttackCooldown = 1.0
	DefaultSearchRange    = 10.0
	DefaultSearchCooldown = 0.5
)

// TowerDamage is the stock damage curve: 150 + 50 × (level − 1).
func TowerDamage(level int) int {
	if level < 1 {
		level = 1
	}
	return BaseTowerDamage + TowerDamagePerLevel*(level-1)
}

// DamageFunc maps a player level to tower damage.
type DamageFunc func(level int) int

// TowerState is the targeting state derived from a tower's fields.
type TowerState uint8

const (
	TowerIdle      TowerState = iota // no target, search on cooldown
	TowerSearching                   // no target, search ready
	TowerTargeting                   // target held, attack on cooldown
	TowerAttacking                   // target held, attack ready
	TowerDead                        // terminal
)

func (s TowerState) String() string {
	switch s {
	case TowerIdle:
		return "idle"
	case TowerSearching:
		return "searching"
	case TowerTargeting:
		return "targeting"
	case TowerAttacking:
		return "attacking"
	case TowerDead:
		return "dead"
	}
	return "unknown"
}

// Tower is a player-owned combat structure. Search and attack each run on
// their own cooldown; a dead tower never searches, attacks or comes back.
type Tower struct {
	Owner       uuid.UUID
	Slot        int
	PlayerLevel int

	AttackRange    float64
	AttackDamage   int
	AttackCooldown float64
	LastAttackTime float64

	Target     ecs.EntityID
	TargetMask Layer

	SearchRange    float64
	SearchCooldown float64
	LastSearchTime float64

	Active    bool
	Dead      bool
	DeathTime float64

	// DamageFunc overrides TowerDamage when set.
	DamageFunc DamageFunc
}

func NewTower() *Tower {
	t := &Tower{}
	t.Reset()
	return t
}

func (*Tower) Type() ecs.ComponentType { return TypeTower }

func (t *Tower) Reset() {
	*t = Tower{
		PlayerLevel:    1,
		AttackRange:    DefaultAttackRange,
		AttackDamage:   TowerDamage(1),
		AttackCooldown: DefaultAttackCooldown,
		TargetMask:     LayerEnemy,
		SearchRange:    DefaultSearchRange,
		SearchCooldown: DefaultSearchCooldown,
		Active:         true,
	}
}

func (t *Tower) Clone() ecs.Component {
	c := *t
	return &c
}

// SetPlayerLevel recomputes damage for level. Cooldown timers and the
// current target are left alone.
func (t *Tower) SetPlayerLevel(level int) {
	if level < 1 {
		level = 1
	}
	t.PlayerLevel = level
	t.recalculateDamage()
}

// SetDamageFunc swaps the damage curve and recomputes damage.
func (t *Tower) SetDamageFunc(fn DamageFunc) {
	t.DamageFunc = fn
	t.recalculateDamage()
}

func (t *Tower) recalculateDamage() {
	if t.DamageFunc != nil {
		t.AttackDamage = t.DamageFunc(t.PlayerLevel)
		return
	}
	t.AttackDamage = TowerDamage(t.PlayerLevel)
}

func (t *Tower) HasTarget() bool { return !t.Target.IsZero() }

// CanSearchForTargets is the search cooldown gate.
func (t *Tower) CanSearchForTargets(now float64) bool {
	return t.Active && !t.Dead && now-t.LastSearchTime >= t.SearchCooldown
}

// CanAttack is the attack cooldown gate; it also needs a target.
func (t *Tower) CanAttack(now float64) bool {
	return t.Active && !t.Dead && t.HasTarget() && now-t.LastAttackTime >= t.AttackCooldown
}

// SetTarget assigns a target. Dead towers keep no target.
func (t *Tower) SetTarget(id ecs.EntityID) {
	if t.Dead {
		return
	}
	t.Target = id
}

func (t *Tower) ClearTarget() { t.Target = ecs.NoEntity }

func (t *Tower) MarkSearched(now float64) { t.LastSearchTime = now }
func (t *Tower) MarkAttacked(now float64) { t.LastAttackTime = now }

// Kill moves the tower to its terminal state. It reports false if the tower
// was already dead.
func (t *Tower) Kill(now float64) bool {
	if t.Dead {
		return false
	}
	t.Dead = true
	t.DeathTime = now
	t.ClearTarget()
	return true
}

// State derives the targeting state at now.
func (t *Tower) State(now float64) TowerState {
	switch {
	case t.Dead:
		return TowerDead
	case !t.HasTarget():
		if t.CanSearchForTargets(now) {
			return TowerSearching
		}
		return TowerIdle
	case t.CanAttack(now):
		return TowerAttacking
	default:
		return TowerTargeting
	}
}
