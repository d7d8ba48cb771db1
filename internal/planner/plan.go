package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
)

// Year lists the template titles planned for one grade level.
type Year struct {
	GradeLevel int
	Titles     []string
}

// Plan is a set of planned years.
type Plan []Year

// Size returns the number of planned courses.
func (p Plan) Size() int {
	n := 0
	for _, y := range p {
		n += len(y.Titles)
	}
	return n
}

// StandardPlan returns the default four-year course plan.
func StandardPlan() Plan {
	return Plan{
		{GradeLevel: 9, Titles: []string{
			"English 9", "Algebra I", "Physical Science", "World History",
			"Spanish I", "Health", "Physical Education",
		}},
		{GradeLevel: 10, Titles: []string{
			"English 10", "Geometry", "Biology", "US History", "Spanish II", "Studio Art",
		}},
		{GradeLevel: 11, Titles: []string{
			"American Literature", "Algebra II", "Chemistry", "Civics", "Economics",
		}},
		{GradeLevel: 12, Titles: []string{
			"British Literature", "Pre-Calculus", "Physics", "Personal Finance",
		}},
	}
}

// CourseCreator stores new courses.
type CourseCreator interface {
	CreateCourse(ctx context.Context, c academic.Course) (academic.Course, error)
}

// Skipped is a planned course that already existed.
type Skipped struct {
	Title      string
	GradeLevel int
}

// Result reports what Apply did.
type Result struct {
	Created []academic.Course
	Skipped []Skipped
}

type planKey struct {
	title string
	level int
}

// Apply creates every planned course that is not already in existing for
// the same title and grade level. Existing should include archived courses
// so an archived course is not re-created. Every title is resolved before
// anything is written.
func Apply(ctx context.Context, creator CourseCreator, studentID string, plan Plan, existing []academic.Course, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	have := make(map[planKey]bool, len(existing))
	for _, c := range existing {
		if c.StudentID == studentID {
			have[planKey{fold(c.Title), c.GradeLevel}] = true
		}
	}

	var pending []academic.Course
	var res Result
	for _, y := range plan {
		for _, title := range y.Titles {
			tmpl, err := Lookup(title)
			if err != nil {
				return Result{}, err
			}
			key := planKey{fold(tmpl.Title), y.GradeLevel}
			if have[key] {
				res.Skipped = append(res.Skipped, Skipped{Title: tmpl.Title, GradeLevel: y.GradeLevel})
				continue
			}
			c, err := tmpl.Course(studentID, y.GradeLevel)
			if err != nil {
				return Result{}, err
			}
			have[key] = true
			pending = append(pending, c)
		}
	}

	for _, c := range pending {
		created, err := creator.CreateCourse(ctx, c)
		if err != nil {
			return res, fmt.Errorf("create %q for grade %d: %w", c.Title, c.GradeLevel, err)
		}
		res.Created = append(res.Created, created)
	}

	logger.Info("plan applied",
		zap.String("student_id", studentID),
		zap.Int("created", len(res.Created)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}
