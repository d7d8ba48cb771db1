package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/homeroom/internal/academic"
)

// LinkGuardian authorizes guardianID to act for studentID. Linking twice is
// a no-op.
func (s *Store) LinkGuardian(ctx context.Context, guardianID, studentID string) error {
	guardianID, studentID = strings.TrimSpace(guardianID), strings.TrimSpace(studentID)
	if guardianID == "" {
		return &academic.ValidationError{Field: "guardian_id", Value: guardianID, Reason: "must not be empty"}
	}
	if studentID == "" {
		return &academic.ValidationError{Field: "student_id", Value: studentID, Reason: "must not be empty"}
	}
	if guardianID == studentID {
		return &academic.ValidationError{Field: "guardian_id", Value: guardianID, Reason: "a student cannot be their own guardian"}
	}

	query, args := sqlite().Insert(tableGuardians).
		Columns("guardian_id", "student_id", "created_at").
		Values(guardianID, studentID, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("guardian_id", "student_id"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := exec(ctx, s.db, query, args); err != nil {
		return fmt.Errorf("link guardian: %w", err)
	}
	return nil
}

// CanActFor reports whether actorID is the student or a linked guardian.
func (s *Store) CanActFor(ctx context.Context, actorID, studentID string) (bool, error) {
	if actorID == "" || studentID == "" {
		return false, nil
	}
	if actorID == studentID {
		return true, nil
	}

	query, args := sqlite().Select("guardian_id").
		From(entsql.Table(tableGuardians)).
		Where(entsql.And(
			entsql.EQ("guardian_id", actorID),
			entsql.EQ("student_id", studentID),
		)).
		Limit(1).
		Query()

	var ids []string
	if err := scanAll(ctx, s.db, &ids, query, args); err != nil {
		return false, fmt.Errorf("query guardian link: %w", err)
	}
	return len(ids) > 0, nil
}

// Students returns the students a guardian is linked to.
func (s *Store) Students(ctx context.Context, guardianID string) ([]string, error) {
	query, args := sqlite().Select("student_id").
		From(entsql.Table(tableGuardians)).
		Where(entsql.EQ("guardian_id", guardianID)).
		OrderBy(entsql.Asc("student_id")).
		Query()

	var ids []string
	if err := scanAll(ctx, s.db, &ids, query, args); err != nil {
		return nil, fmt.Errorf("query guardian links: %w", err)
	}
	return ids, nil
}
