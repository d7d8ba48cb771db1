package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/homeroom/internal/academic"
)

var masteryColumns = []string{
	"student_id", "objective_id", "mastery_score", "explanation_score",
	"num_attempts", "num_hints_used", "last_assessed_at",
}

type masteryRow struct {
	StudentID        string       `sql:"student_id"`
	ObjectiveID      string       `sql:"objective_id"`
	MasteryScore     float64      `sql:"mastery_score"`
	ExplanationScore float64      `sql:"explanation_score"`
	NumAttempts      int          `sql:"num_attempts"`
	NumHintsUsed     int          `sql:"num_hints_used"`
	LastAssessedAt   sql.NullTime `sql:"last_assessed_at"`
}

func (r masteryRow) toMastery() academic.ObjectiveMastery {
	return academic.ObjectiveMastery{
		StudentID:        r.StudentID,
		ObjectiveID:      r.ObjectiveID,
		MasteryScore:     r.MasteryScore,
		ExplanationScore: r.ExplanationScore,
		NumAttempts:      r.NumAttempts,
		NumHintsUsed:     r.NumHintsUsed,
		LastAssessedAt:   r.LastAssessedAt.Time,
	}
}

// UpdateMastery runs fn against the pair's current record inside a write
// transaction and saves the result. A missing record starts from zero.
// Updates of the same pair are serialized by an in-process lock and by the
// transaction's write lock, so no update is lost.
func (s *Store) UpdateMastery(ctx context.Context, studentID, objectiveID string,
	fn func(m *academic.ObjectiveMastery) error) (academic.ObjectiveMastery, error) {
	unlock := s.pairs.lock(studentID, objectiveID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return academic.ObjectiveMastery{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	m, err := updateMastery(ctx, tx, studentID, objectiveID, fn)
	if err != nil {
		return academic.ObjectiveMastery{}, err
	}
	if err := tx.Commit(); err != nil {
		return academic.ObjectiveMastery{}, fmt.Errorf("commit mastery: %w", err)
	}
	return m, nil
}

// updateMastery is the read-modify-write of UpdateMastery on an open
// transaction. The caller holds the pair lock.
func updateMastery(ctx context.Context, tx *sql.Tx, studentID, objectiveID string,
	fn func(m *academic.ObjectiveMastery) error) (academic.ObjectiveMastery, error) {
	m, err := getMastery(ctx, tx, studentID, objectiveID)
	if academic.IsNotFound(err) {
		m = academic.NewObjectiveMastery(studentID, objectiveID)
	} else if err != nil {
		return academic.ObjectiveMastery{}, err
	}

	if err := fn(&m); err != nil {
		return academic.ObjectiveMastery{}, err
	}
	m.StudentID, m.ObjectiveID = studentID, objectiveID

	var assessed any
	if !m.LastAssessedAt.IsZero() {
		assessed = m.LastAssessedAt.UTC()
	}
	query, args := sqlite().Insert(tableMastery).
		Columns(masteryColumns...).
		Values(m.StudentID, m.ObjectiveID, m.MasteryScore, m.ExplanationScore,
			m.NumAttempts, m.NumHintsUsed, assessed).
		OnConflict(
			entsql.ConflictColumns("student_id", "objective_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := exec(ctx, tx, query, args); err != nil {
		return academic.ObjectiveMastery{}, fmt.Errorf("upsert mastery: %w", err)
	}
	return m, nil
}

// Mastery returns the pair's record, or a *academic.NotFoundError when the
// pair has never been assessed.
func (s *Store) Mastery(ctx context.Context, studentID, objectiveID string) (academic.ObjectiveMastery, error) {
	return getMastery(ctx, s.db, studentID, objectiveID)
}

func getMastery(ctx context.Context, db querier, studentID, objectiveID string) (academic.ObjectiveMastery, error) {
	query, args := sqlite().Select(masteryColumns...).
		From(entsql.Table(tableMastery)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("objective_id", objectiveID),
		)).
		Query()

	var rows []masteryRow
	if err := scanAll(ctx, db, &rows, query, args); err != nil {
		return academic.ObjectiveMastery{}, fmt.Errorf("query mastery: %w", err)
	}
	if len(rows) == 0 {
		return academic.ObjectiveMastery{}, &academic.NotFoundError{Kind: "mastery", ID: studentID + "/" + objectiveID}
	}
	return rows[0].toMastery(), nil
}

// ListMastery returns the student's records for the given objectives.
// Objectives never assessed are omitted.
func (s *Store) ListMastery(ctx context.Context, studentID string, objectiveIDs []string) ([]academic.ObjectiveMastery, error) {
	if len(objectiveIDs) == 0 {
		return nil, nil
	}
	ids := make([]any, len(objectiveIDs))
	for i, id := range objectiveIDs {
		ids[i] = id
	}

	query, args := sqlite().Select(masteryColumns...).
		From(entsql.Table(tableMastery)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.In("objective_id", ids...),
		)).
		Query()

	var rows []masteryRow
	if err := scanAll(ctx, s.db, &rows, query, args); err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	out := make([]academic.ObjectiveMastery, len(rows))
	for i, r := range rows {
		out[i] = r.toMastery()
	}
	return out, nil
}
