package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/homeroom/internal/academic"
)

var attemptColumns = []string{
	"id", "sequence", "student_id", "objective_id", "correct", "hints_used", "raw_answer", "created_at",
}

type attemptRow struct {
	ID          string         `sql:"id"`
	Sequence    int64          `sql:"sequence"`
	StudentID   string         `sql:"student_id"`
	ObjectiveID string         `sql:"objective_id"`
	Correct     bool           `sql:"correct"`
	HintsUsed   int            `sql:"hints_used"`
	RawAnswer   sql.NullString `sql:"raw_answer"`
	CreatedAt   sql.NullTime   `sql:"created_at"`
}

func (r attemptRow) toAttempt() academic.QuestionAttempt {
	a := academic.QuestionAttempt{
		ID:          r.ID,
		Sequence:    r.Sequence,
		StudentID:   r.StudentID,
		ObjectiveID: r.ObjectiveID,
		Correct:     r.Correct,
		HintsUsed:   r.HintsUsed,
		CreatedAt:   r.CreatedAt.Time,
	}
	if r.RawAnswer.Valid {
		answer := r.RawAnswer.String
		a.RawAnswer = &answer
	}
	return a
}

// AppendAttempt writes one immutable attempt without touching mastery.
// There is no update or delete counterpart.
func (s *Store) AppendAttempt(ctx context.Context, a academic.QuestionAttempt) (academic.QuestionAttempt, error) {
	a, _, err := s.RecordAttempt(ctx, a, nil)
	return a, err
}

// RecordAttempt appends a to the ledger and applies update to the pair's
// mastery record in one transaction: both are stored or neither is. A nil
// update only appends. Runs under the same pair lock as UpdateMastery.
func (s *Store) RecordAttempt(ctx context.Context, a academic.QuestionAttempt,
	update func(m *academic.ObjectiveMastery) error) (academic.QuestionAttempt, academic.ObjectiveMastery, error) {
	if a.HintsUsed < 0 {
		return academic.QuestionAttempt{}, academic.ObjectiveMastery{},
			&academic.ValidationError{Field: "hints_used", Value: a.HintsUsed, Reason: "must be non-negative"}
	}

	unlock := s.pairs.lock(a.StudentID, a.ObjectiveID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return academic.QuestionAttempt{}, academic.ObjectiveMastery{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return academic.QuestionAttempt{}, academic.ObjectiveMastery{}, err
	}

	a.ID = uuid.NewString()
	a.Sequence = seq
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	var raw any
	if a.RawAnswer != nil {
		raw = *a.RawAnswer
	}

	query, args := sqlite().Insert(tableAttempts).
		Columns(attemptColumns...).
		Values(a.ID, a.Sequence, a.StudentID, a.ObjectiveID, a.Correct, a.HintsUsed, raw, a.CreatedAt).
		Query()
	if _, err := exec(ctx, tx, query, args); err != nil {
		return academic.QuestionAttempt{}, academic.ObjectiveMastery{}, fmt.Errorf("insert attempt: %w", err)
	}

	var m academic.ObjectiveMastery
	if update != nil {
		if m, err = updateMastery(ctx, tx, a.StudentID, a.ObjectiveID, update); err != nil {
			return academic.QuestionAttempt{}, academic.ObjectiveMastery{}, fmt.Errorf("update mastery: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return academic.QuestionAttempt{}, academic.ObjectiveMastery{}, fmt.Errorf("commit attempt: %w", err)
	}
	return a, m, nil
}

// ListAttempts returns the pair's attempts in ledger order.
func (s *Store) ListAttempts(ctx context.Context, studentID, objectiveID string) ([]academic.QuestionAttempt, error) {
	query, args := sqlite().Select(attemptColumns...).
		From(entsql.Table(tableAttempts)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("objective_id", objectiveID),
		)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	var rows []attemptRow
	if err := scanAll(ctx, s.db, &rows, query, args); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	out := make([]academic.QuestionAttempt, len(rows))
	for i, r := range rows {
		out[i] = r.toAttempt()
	}
	return out, nil
}
