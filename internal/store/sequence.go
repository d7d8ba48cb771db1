package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared by the
// append-only tables (attempts and LLM request events). Per-table IDs can't
// order rows across tables; the shared counter can, and it gives each
// student's attempt history a stable ledger order even when timestamps tie.
//
// The increment uses raw SQL because ent has no database-level atomic
// counter. The mutex serializes within the process; the RETURNING clause
// makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and seeds its single row.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	query, args := sqlite().Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return nextSequence(ctx, sc.db)
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nextSequence increments the counter through q. Inside a write
// transaction the increment commits or rolls back with it.
func nextSequence(ctx context.Context, q rowQuerier) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// pairLocks serializes read-modify-write updates per (student, objective)
// within the process. Keys hash onto a fixed set of stripes, so unrelated
// pairs occasionally share a lock but the same pair always does.
type pairLocks struct {
	stripes [64]sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{}
}

// lock acquires the stripe for the pair and returns its unlock func.
func (p *pairLocks) lock(studentID, objectiveID string) func() {
	h := fnv.New32a()
	h.Write([]byte(studentID))
	h.Write([]byte{0})
	h.Write([]byte(objectiveID))
	m := &p.stripes[h.Sum32()%uint32(len(p.stripes))]
	m.Lock()
	return m.Unlock
}
