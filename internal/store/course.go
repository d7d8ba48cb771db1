package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/gpa"
)

var courseColumns = []string{
	"id", "student_id", "title", "subject", "credits", "grade_level", "term",
	"grade", "lab_science", "eligibility_core", "archived", "created_at",
}

type courseRow struct {
	ID              string         `sql:"id"`
	StudentID       string         `sql:"student_id"`
	Title           string         `sql:"title"`
	Subject         string         `sql:"subject"`
	Credits         float64        `sql:"credits"`
	GradeLevel      int            `sql:"grade_level"`
	Term            string         `sql:"term"`
	Grade           sql.NullString `sql:"grade"`
	LabScience      bool           `sql:"lab_science"`
	EligibilityCore bool           `sql:"eligibility_core"`
	Archived        bool           `sql:"archived"`
	CreatedAt       sql.NullTime   `sql:"created_at"`
}

func (r courseRow) toCourse() academic.Course {
	c := academic.Course{
		ID:              r.ID,
		StudentID:       r.StudentID,
		Title:           r.Title,
		Subject:         academic.Subject(r.Subject),
		Credits:         r.Credits,
		GradeLevel:      r.GradeLevel,
		Term:            academic.Term(r.Term),
		LabScience:      r.LabScience,
		EligibilityCore: r.EligibilityCore,
		Archived:        r.Archived,
		CreatedAt:       r.CreatedAt.Time,
	}
	if r.Grade.Valid {
		c.Grade = academic.GradePtr(r.Grade.String)
	}
	return c
}

// CreateCourse validates and stores a new course. The ID and creation time
// are assigned here.
func (s *Store) CreateCourse(ctx context.Context, c academic.Course) (academic.Course, error) {
	if c.Term == "" {
		c.Term = academic.TermYear
	}
	if err := c.Validate(); err != nil {
		return academic.Course{}, err
	}
	if c.Graded() {
		if err := gpa.General().Validate(*c.Grade); err != nil {
			return academic.Course{}, err
		}
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.Archived = false

	query, args := sqlite().Insert(tableCourses).
		Columns(courseColumns...).
		Values(c.ID, c.StudentID, c.Title, string(c.Subject), c.Credits, c.GradeLevel, string(c.Term),
			nullableString(c.Grade), c.LabScience, c.EligibilityCore, c.Archived, c.CreatedAt).
		Query()
	if _, err := exec(ctx, s.db, query, args); err != nil {
		return academic.Course{}, fmt.Errorf("insert course: %w", err)
	}
	return c, nil
}

// Course returns a course by ID.
func (s *Store) Course(ctx context.Context, id string) (academic.Course, error) {
	return getCourse(ctx, s.db, id)
}

func getCourse(ctx context.Context, db querier, id string) (academic.Course, error) {
	query, args := sqlite().Select(courseColumns...).
		From(entsql.Table(tableCourses)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows []courseRow
	if err := scanAll(ctx, db, &rows, query, args); err != nil {
		return academic.Course{}, fmt.Errorf("query course: %w", err)
	}
	if len(rows) == 0 {
		return academic.Course{}, &academic.NotFoundError{Kind: "course", ID: id}
	}
	return rows[0].toCourse(), nil
}

// ListCourses returns a student's courses ordered by grade level, then
// creation time. Archived courses are included only when asked for.
func (s *Store) ListCourses(ctx context.Context, studentID string, includeArchived bool) ([]academic.Course, error) {
	pred := entsql.EQ("student_id", studentID)
	if !includeArchived {
		pred = entsql.And(pred, entsql.EQ("archived", false))
	}
	query, args := sqlite().Select(courseColumns...).
		From(entsql.Table(tableCourses)).
		Where(pred).
		OrderBy(entsql.Asc("grade_level"), entsql.Asc("created_at"), entsql.Asc("title")).
		Query()

	var rows []courseRow
	if err := scanAll(ctx, s.db, &rows, query, args); err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	out := make([]academic.Course, len(rows))
	for i, r := range rows {
		out[i] = r.toCourse()
	}
	return out, nil
}

// SetGrade records the final letter grade, or clears it when grade is nil.
func (s *Store) SetGrade(ctx context.Context, id string, grade *string) (academic.Course, error) {
	if grade != nil && *grade != "" {
		if err := gpa.General().Validate(*grade); err != nil {
			return academic.Course{}, err
		}
	}

	upd := sqlite().Update(tableCourses).Where(entsql.EQ("id", id))
	if grade == nil || *grade == "" {
		upd = upd.SetNull("grade")
	} else {
		upd = upd.Set("grade", *grade)
	}
	if err := s.updateCourse(ctx, id, upd); err != nil {
		return academic.Course{}, err
	}
	return s.Course(ctx, id)
}

// ArchiveCourse soft-deletes a course. Its credits remain on the transcript.
func (s *Store) ArchiveCourse(ctx context.Context, id string) error {
	upd := sqlite().Update(tableCourses).
		Set("archived", true).
		Where(entsql.EQ("id", id))
	return s.updateCourse(ctx, id, upd)
}

func (s *Store) updateCourse(ctx context.Context, id string, upd *entsql.UpdateBuilder) error {
	query, args := upd.Query()
	res, err := exec(ctx, s.db, query, args)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if n == 0 {
		return &academic.NotFoundError{Kind: "course", ID: id}
	}
	return nil
}

func nullableString(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}
