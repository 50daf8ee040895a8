package system

import (
	"context"
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"go.uber.org/zap"
)

// Flusher is a buffered sink. *persist.Journal satisfies it.
type Flusher interface {
	Flush(ctx context.Context) error
	Pending() int
}

// JournalFlushSystem periodically writes the combat journal. Persist phase.
type JournalFlushSystem struct {
	journal  Flusher
	log      *zap.Logger
	interval time.Duration
	elapsed  time.Duration
	timeout  time.Duration
}

func NewJournalFlushSystem(journal Flusher, interval time.Duration, log *zap.Logger) *JournalFlushSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &JournalFlushSystem{
		journal:  journal,
		log:      log,
		interval: interval,
		timeout:  5 * time.Second,
	}
}

func (s *JournalFlushSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalFlushSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.flush(ctx)
}

// FlushNow writes everything pending, ignoring the interval. Called on
// shutdown.
func (s *JournalFlushSystem) FlushNow(ctx context.Context) {
	s.flush(ctx)
}

func (s *JournalFlushSystem) flush(ctx context.Context) {
	n := s.journal.Pending()
	if n == 0 {
		return
	}
	if err := s.journal.Flush(ctx); err != nil {
		s.log.Error("combat journal flush failed", zap.Int("pending", n), zap.Error(err))
	}
}
