// Package app wires the store, requirement catalog, mastery recorder and
// explanation grader behind the operations the command line exposes.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/config"
	"github.com/abhisek/homeroom/internal/grader"
	"github.com/abhisek/homeroom/internal/llm"
	"github.com/abhisek/homeroom/internal/mastery"
	"github.com/abhisek/homeroom/internal/planner"
	"github.com/abhisek/homeroom/internal/requirements"
	"github.com/abhisek/homeroom/internal/store"
	"github.com/abhisek/homeroom/internal/transcript"
)

// Options configures New.
type Options struct {
	Config config.Config

	// DSN is the SQLite database path or DSN.
	DSN string

	// Catalog overrides the catalog built from Config.
	Catalog *requirements.Catalog

	Logger *zap.Logger

	// Provider is the grading LLM. When nil it is built from the
	// HOMEROOM_LLM_* environment on first use.
	Provider llm.Provider
}

// App holds the wired services for one process.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *store.Store
	evaluator *requirements.Evaluator
	recorder  *mastery.Recorder

	mu       sync.Mutex
	provider llm.Provider
	grader   *grader.Grader
	timeout  time.Duration
}

// New opens the store and builds the services.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = opts.Config.Catalog(); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	mcfg := opts.Config.MasteryConfig()
	if err := mcfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(opts.DSN)
	if err != nil {
		return nil, err
	}

	estimator := mastery.NewEstimator(st, mcfg, logger)
	a := &App{
		cfg:       opts.Config,
		logger:    logger,
		store:     st,
		evaluator: requirements.NewEvaluator(cat),
		recorder:  mastery.NewRecorder(st, st, st, estimator, logger),
		provider:  opts.Provider,
	}
	logger.Debug("app ready",
		zap.String("catalog", cat.Version()),
		zap.Float64("alpha", mcfg.Alpha))
	return a, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.store.Close()
}

// Store exposes the persistence layer.
func (a *App) Store() *store.Store { return a.store }

// Catalog returns the requirement catalog in use.
func (a *App) Catalog() *requirements.Catalog { return a.evaluator.Catalog() }

// Recorder returns the mastery recorder.
func (a *App) Recorder() *mastery.Recorder { return a.recorder }

// Authorize checks that actorID may act for studentID.
func (a *App) Authorize(ctx context.Context, actorID, studentID string) error {
	ok, err := a.store.CanActFor(ctx, actorID, studentID)
	if err != nil {
		return fmt.Errorf("check authorization: %w", err)
	}
	if !ok {
		a.logger.Warn("authorization denied",
			zap.String("actor", actorID),
			zap.String("student", studentID))
		return &academic.AuthorizationError{ActorID: actorID, StudentID: studentID}
	}
	return nil
}

// AddCourse stores a new course for c.StudentID.
func (a *App) AddCourse(ctx context.Context, actorID string, c academic.Course) (academic.Course, error) {
	if err := a.Authorize(ctx, actorID, c.StudentID); err != nil {
		return academic.Course{}, err
	}
	return a.store.CreateCourse(ctx, c)
}

// AddFromTemplate adds a catalog template as a full-year course.
func (a *App) AddFromTemplate(ctx context.Context, actorID, studentID, title string, gradeLevel int) (academic.Course, error) {
	if err := a.Authorize(ctx, actorID, studentID); err != nil {
		return academic.Course{}, err
	}
	tmpl, err := planner.Lookup(title)
	if err != nil {
		return academic.Course{}, err
	}
	c, err := tmpl.Course(studentID, gradeLevel)
	if err != nil {
		return academic.Course{}, err
	}
	return a.store.CreateCourse(ctx, c)
}

// Courses lists a student's courses.
func (a *App) Courses(ctx context.Context, actorID, studentID string, includeArchived bool) ([]academic.Course, error) {
	if err := a.Authorize(ctx, actorID, studentID); err != nil {
		return nil, err
	}
	return a.store.ListCourses(ctx, studentID, includeArchived)
}

// course loads a course and checks the actor may act for its student.
func (a *App) course(ctx context.Context, actorID, courseID string) (academic.Course, error) {
	c, err := a.store.Course(ctx, courseID)
	if err != nil {
		return academic.Course{}, err
	}
	if err := a.Authorize(ctx, actorID, c.StudentID); err != nil {
		return academic.Course{}, err
	}
	return c, nil
}

// SetGrade records or clears a course's final grade.
func (a *App) SetGrade(ctx context.Context, actorID, courseID string, grade *string) (academic.Course, error) {
	if _, err := a.course(ctx, actorID, courseID); err != nil {
		return academic.Course{}, err
	}
	return a.store.SetGrade(ctx, courseID, grade)
}

// ArchiveCourse soft-deletes a course.
func (a *App) ArchiveCourse(ctx context.Context, actorID, courseID string) error {
	if _, err := a.course(ctx, actorID, courseID); err != nil {
		return err
	}
	return a.store.ArchiveCourse(ctx, courseID)
}

// AddObjectives creates a course's objective map. A course that already
// has objectives keeps them.
func (a *App) AddObjectives(ctx context.Context, actorID, courseID string, descriptions []string) ([]academic.LearningObjective, error) {
	if _, err := a.course(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	return a.store.CreateObjectives(ctx, courseID, descriptions)
}

// Objectives lists a course's objectives in order.
func (a *App) Objectives(ctx context.Context, actorID, courseID string) ([]academic.LearningObjective, error) {
	if _, err := a.course(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	return a.store.ListObjectives(ctx, courseID)
}

// Progress evaluates the student's active courses against the catalog.
func (a *App) Progress(ctx context.Context, actorID, studentID string) (requirements.AcademicProgress, error) {
	courses, err := a.Courses(ctx, actorID, studentID, false)
	if err != nil {
		return requirements.AcademicProgress{}, err
	}
	return a.evaluator.Evaluate(courses), nil
}

// Transcript builds the student's transcript, archived courses included.
func (a *App) Transcript(ctx context.Context, actorID, studentID string) (transcript.Transcript, error) {
	courses, err := a.Courses(ctx, actorID, studentID, true)
	if err != nil {
		return transcript.Transcript{}, err
	}
	return transcript.Build(studentID, courses), nil
}

// ApplyPlan creates the plan's courses that the student does not already
// have for the same grade level.
func (a *App) ApplyPlan(ctx context.Context, actorID, studentID string, plan planner.Plan) (planner.Result, error) {
	existing, err := a.Courses(ctx, actorID, studentID, true)
	if err != nil {
		return planner.Result{}, err
	}
	return planner.Apply(ctx, a.store, studentID, plan, existing, a.logger)
}

// ExplainResult is a graded explanation and the mastery it produced.
type ExplainResult struct {
	Grade    grader.Grade
	Progress mastery.ObjectiveProgress
}

// Explain grades a written explanation and records the score. Nothing is
// recorded when grading fails.
func (a *App) Explain(ctx context.Context, actorID, studentID, objectiveID, explanation string) (ExplainResult, error) {
	if err := a.Authorize(ctx, actorID, studentID); err != nil {
		return ExplainResult{}, err
	}
	obj, err := a.store.Objective(ctx, objectiveID)
	if err != nil {
		return ExplainResult{}, err
	}

	g, err := a.explanationGrader(ctx)
	if err != nil {
		return ExplainResult{}, err
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	grade, err := g.Grade(ctx, obj, explanation)
	if err != nil {
		return ExplainResult{}, err
	}
	progress, err := a.recorder.RecordExplanation(ctx, actorID, studentID, objectiveID, grade.Score)
	if err != nil {
		return ExplainResult{}, err
	}
	return ExplainResult{Grade: grade, Progress: progress}, nil
}

func (a *App) explanationGrader(ctx context.Context) (*grader.Grader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.grader != nil {
		return a.grader, nil
	}
	if a.provider == nil {
		cfg, err := llm.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("LLM provider not configured: %w", err)
		}
		p, err := llm.NewProvider(ctx, cfg, a.store.EventRepo(), a.logger)
		if err != nil {
			return nil, err
		}
		a.provider = p
		a.timeout = cfg.Timeout
	}
	a.grader = grader.New(a.provider, grader.DefaultConfig(), a.logger)
	return a.grader, nil
}
