package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/homeroom/internal/academic"
)

var objectiveColumns = []string{"id", "course_id", "description", "order_index", "created_at"}

type objectiveRow struct {
	ID          string       `sql:"id"`
	CourseID    string       `sql:"course_id"`
	Description string       `sql:"description"`
	OrderIndex  int          `sql:"order_index"`
	CreatedAt   sql.NullTime `sql:"created_at"`
}

func (r objectiveRow) toObjective() academic.LearningObjective {
	return academic.LearningObjective{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Description: r.Description,
		Order:       r.OrderIndex,
		CreatedAt:   r.CreatedAt.Time,
	}
}

// CreateObjectives stores an ordered batch of objectives for a course. When
// the course already has objectives they are returned unchanged and nothing
// is written, so a repeated request never duplicates the map.
func (s *Store) CreateObjectives(ctx context.Context, courseID string, descriptions []string) ([]academic.LearningObjective, error) {
	cleaned := make([]string, 0, len(descriptions))
	for _, d := range descriptions {
		if d = strings.TrimSpace(d); d != "" {
			cleaned = append(cleaned, d)
		}
	}
	if len(cleaned) == 0 {
		return nil, &academic.ValidationError{Field: "objectives", Value: len(descriptions), Reason: "at least one non-empty description is required"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := getCourse(ctx, tx, courseID); err != nil {
		return nil, err
	}

	existing, err := listObjectives(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now().UTC()
	ins := sqlite().Insert(tableObjectives).Columns(objectiveColumns...)
	out := make([]academic.LearningObjective, len(cleaned))
	for i, d := range cleaned {
		o := academic.LearningObjective{
			ID:          uuid.NewString(),
			CourseID:    courseID,
			Description: d,
			Order:       i,
			CreatedAt:   now,
		}
		ins = ins.Values(o.ID, o.CourseID, o.Description, o.Order, o.CreatedAt)
		out[i] = o
	}

	query, args := ins.Query()
	if _, err := exec(ctx, tx, query, args); err != nil {
		return nil, fmt.Errorf("insert objectives: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit objectives: %w", err)
	}
	return out, nil
}

// Objective returns an objective by ID.
func (s *Store) Objective(ctx context.Context, id string) (academic.LearningObjective, error) {
	query, args := sqlite().Select(objectiveColumns...).
		From(entsql.Table(tableObjectives)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows []objectiveRow
	if err := scanAll(ctx, s.db, &rows, query, args); err != nil {
		return academic.LearningObjective{}, fmt.Errorf("query objective: %w", err)
	}
	if len(rows) == 0 {
		return academic.LearningObjective{}, &academic.NotFoundError{Kind: "objective", ID: id}
	}
	return rows[0].toObjective(), nil
}

// ListObjectives returns a course's objectives by order index.
func (s *Store) ListObjectives(ctx context.Context, courseID string) ([]academic.LearningObjective, error) {
	return listObjectives(ctx, s.db, courseID)
}

func listObjectives(ctx context.Context, db querier, courseID string) ([]academic.LearningObjective, error) {
	query, args := sqlite().Select(objectiveColumns...).
		From(entsql.Table(tableObjectives)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy(entsql.Asc("order_index")).
		Query()

	var rows []objectiveRow
	if err := scanAll(ctx, db, &rows, query, args); err != nil {
		return nil, fmt.Errorf("query objectives: %w", err)
	}
	out := make([]academic.LearningObjective, len(rows))
	for i, r := range rows {
		out[i] = r.toObjective()
	}
	return out, nil
}
