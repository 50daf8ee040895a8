package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/arena/internal/mathx"
	"go.uber.org/zap"
)

// Entry is one combat journal row.
type Entry struct {
	MatchID  uuid.UUID
	Kind     string // "tower.destroyed", "unit.killed"
	Entity   uint64
	Owner    uuid.UUID // uuid.Nil when the entity has no owner
	Slot     int
	Position mathx.Vec3
	GameTime float64
	Frame    uint64
}

// EntryWriter stores a batch of entries atomically.
type EntryWriter interface {
	WriteEntries(ctx context.Context, entries []Entry) error
}

// Journal buffers entries between flushes. A failed flush keeps the batch
// for the next attempt; past maxPending the oldest entries are dropped.
// Accessed only from the game loop goroutine, no locks.
type Journal struct {
	w          EntryWriter
	log        *zap.Logger
	pending    []Entry
	maxPending int
	dropped    int
}

func NewJournal(w EntryWriter, maxPending int, log *zap.Logger) *Journal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Journal{w: w, log: log, maxPending: maxPending}
}

// Append queues entries for the next Flush.
func (j *Journal) Append(entries ...Entry) {
	j.pending = append(j.pending, entries...)
	if j.maxPending > 0 && len(j.pending) > j.maxPending {
		over := len(j.pending) - j.maxPending
		j.pending = append(j.pending[:0], j.pending[over:]...)
		j.dropped += over
		j.log.Warn("combat journal backlog full, dropping oldest entries", zap.Int("dropped", over))
	}
}

// Pending is the number of entries waiting for Flush.
func (j *Journal) Pending() int { return len(j.pending) }

// Dropped is the number of entries lost to the backlog limit.
func (j *Journal) Dropped() int { return j.dropped }

// Flush writes every pending entry in one batch.
func (j *Journal) Flush(ctx context.Context) error {
	if len(j.pending) == 0 {
		return nil
	}
	if err := j.w.WriteEntries(ctx, j.pending); err != nil {
		return fmt.Errorf("flush combat journal: %w", err)
	}
	j.log.Debug("combat journal flushed", zap.Int("entries", len(j.pending)))
	clear(j.pending)
	j.pending = j.pending[:0]
	return nil
}

// JournalRepo writes entries to the combat_journal table.
type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// WriteEntries sends the batch as one pgx batch inside a transaction.
func (r *JournalRepo) WriteEntries(ctx context.Context, entries []Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		var owner *string
		if e.Owner != uuid.Nil {
			s := e.Owner.String()
			owner = &s
		}
		batch.Queue(insertEntrySQL,
			e.MatchID.String(), e.Kind, int64(e.Entity), owner, e.Slot,
			e.Position.X, e.Position.Y, e.Position.Z, e.GameTime, int64(e.Frame),
		)
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert %d entries: %w", len(entries), err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("journal write: %w", err)
	}
	return nil
}

const insertEntrySQL = `INSERT INTO combat_journal (match_id, kind, entity, owner, slot, pos_x, pos_y, pos_z, game_time, frame)
VALUES ($1::uuid, $2, $3, $4::uuid, $5, $6, $7, $8, $9, $10)`
