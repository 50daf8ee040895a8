package system

import (
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/persist"
	"go.uber.org/zap"
)

// Recorder accepts journal entries. *persist.Journal satisfies it.
type Recorder interface {
	Append(entries ...persist.Entry)
}

// CombatLogSystem drains the gameplay event streams once per frame: every
// event is logged, deaths are handed to the journal, and the streams are
// cleared. Output phase.
type CombatLogSystem struct {
	world   *ecs.World
	journal Recorder
	matchID uuid.UUID
	log     *zap.Logger

	attacks int
	kills   int
}

// NewCombatLogSystem builds the drain. journal may be nil when the journal
// is disabled.
func NewCombatLogSystem(w *ecs.World, journal Recorder, matchID uuid.UUID, log *zap.Logger) *CombatLogSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CombatLogSystem{world: w, journal: journal, matchID: matchID, log: log}
}

func (s *CombatLogSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *CombatLogSystem) Update(_ time.Duration) {
	q := s.world.Events()
	frame := s.world.Frame()

	for _, a := range event.Of[TowerAttack](q, EventTowerAttack) {
		s.attacks++
		s.log.Debug("tower attack",
			zap.Stringer("tower", a.Tower),
			zap.Stringer("target", a.Target),
			zap.Int("damage", a.Damage),
			zap.Bool("killed", a.Killed))
	}

	for _, d := range event.Of[TowerDestroyed](q, EventTowerDestroyed) {
		s.record(persist.Entry{
			MatchID:  s.matchID,
			Kind:     string(EventTowerDestroyed),
			Entity:   uint64(d.Tower),
			Owner:    d.Owner,
			Slot:     d.Slot,
			Position: d.Position,
			GameTime: d.Time,
			Frame:    frame,
		})
	}

	for _, k := range event.Of[UnitKilled](q, EventUnitKilled) {
		s.kills++
		s.log.Debug("unit killed", zap.Stringer("entity", k.Entity), zap.Float64("time", k.Time))
		s.record(persist.Entry{
			MatchID:  s.matchID,
			Kind:     string(EventUnitKilled),
			Entity:   uint64(k.Entity),
			Position: k.Position,
			GameTime: k.Time,
			Frame:    frame,
		})
	}

	q.Clear(EventTowerAttack)
	q.Clear(EventTowerDestroyed)
	q.Clear(EventUnitKilled)
}

func (s *CombatLogSystem) record(e persist.Entry) {
	if s.journal != nil {
		s.journal.Append(e)
	}
}

// Totals reports the attacks and kills seen so far.
func (s *CombatLogSystem) Totals() (attacks, kills int) { return s.attacks, s.kills }
