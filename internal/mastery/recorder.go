package mastery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
)

// Ledger is the append-only attempt log.
type Ledger interface {
	// RecordAttempt appends a and applies update to the pair's mastery
	// record atomically: both are stored or neither is.
	RecordAttempt(ctx context.Context, a academic.QuestionAttempt,
		update func(m *academic.ObjectiveMastery) error) (academic.QuestionAttempt, academic.ObjectiveMastery, error)
	ListAttempts(ctx context.Context, studentID, objectiveID string) ([]academic.QuestionAttempt, error)
}

// Objectives looks up learning objectives and the courses that own them.
// Objective and Course return a *academic.NotFoundError for unknown IDs.
type Objectives interface {
	Objective(ctx context.Context, id string) (academic.LearningObjective, error)
	Course(ctx context.Context, id string) (academic.Course, error)
	ListObjectives(ctx context.Context, courseID string) ([]academic.LearningObjective, error)
}

// Authorizer decides whether an actor may act for a student.
type Authorizer interface {
	CanActFor(ctx context.Context, actorID, studentID string) (bool, error)
}

// AttemptInput describes one answered question.
type AttemptInput struct {
	StudentID   string
	ObjectiveID string
	Correct     bool
	HintsUsed   int
	RawAnswer   *string
}

// AttemptResult is the stored attempt and the mastery it produced.
type AttemptResult struct {
	Attempt academic.QuestionAttempt
	Mastery academic.ObjectiveMastery
	State   State
}

// ObjectiveProgress pairs an objective with the student's mastery of it.
type ObjectiveProgress struct {
	Objective academic.LearningObjective
	Mastery   academic.ObjectiveMastery
	State     State
}

// Recorder is the entry point for attempts and explanation grades.
type Recorder struct {
	ledger     Ledger
	objectives Objectives
	auth       Authorizer
	estimator  *Estimator
	logger     *zap.Logger
	now        func() time.Time
}

// NewRecorder wires a recorder.
func NewRecorder(ledger Ledger, objectives Objectives, auth Authorizer, estimator *Estimator, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		ledger:     ledger,
		objectives: objectives,
		auth:       auth,
		estimator:  estimator,
		logger:     logger.Named("recorder"),
		now:        time.Now,
	}
}

// RecordAttempt appends the attempt to the ledger and updates mastery in one
// atomic write. Both steps complete before it returns.
func (r *Recorder) RecordAttempt(ctx context.Context, actorID string, in AttemptInput) (AttemptResult, error) {
	if err := r.authorize(ctx, actorID, in.StudentID); err != nil {
		return AttemptResult{}, err
	}
	if err := validatePair(in.StudentID, in.ObjectiveID); err != nil {
		return AttemptResult{}, err
	}
	if in.HintsUsed < 0 {
		return AttemptResult{}, &academic.ValidationError{Field: "hints_used", Value: in.HintsUsed, Reason: "must be non-negative"}
	}
	if _, err := r.objectives.Objective(ctx, in.ObjectiveID); err != nil {
		return AttemptResult{}, fmt.Errorf("lookup objective: %w", err)
	}

	fold := r.estimator.foldAttempt(in.Correct, in.HintsUsed)
	attempt, m, err := r.ledger.RecordAttempt(ctx, academic.QuestionAttempt{
		StudentID:   in.StudentID,
		ObjectiveID: in.ObjectiveID,
		Correct:     in.Correct,
		HintsUsed:   in.HintsUsed,
		RawAnswer:   in.RawAnswer,
		CreatedAt:   r.now(),
	}, fold.apply)
	if err != nil {
		return AttemptResult{}, fmt.Errorf("record attempt: %w", err)
	}
	r.estimator.logFold(in.StudentID, in.ObjectiveID, fold, m)

	return AttemptResult{Attempt: attempt, Mastery: m, State: r.estimator.Classify(m)}, nil
}

// RecordExplanation feeds an externally graded explanation score into the
// explanation channel. The attempt ledger is not touched.
func (r *Recorder) RecordExplanation(ctx context.Context, actorID, studentID, objectiveID string, gradedScore float64) (ObjectiveProgress, error) {
	if err := r.authorize(ctx, actorID, studentID); err != nil {
		return ObjectiveProgress{}, err
	}
	if err := validatePair(studentID, objectiveID); err != nil {
		return ObjectiveProgress{}, err
	}
	obj, err := r.objectives.Objective(ctx, objectiveID)
	if err != nil {
		return ObjectiveProgress{}, fmt.Errorf("lookup objective: %w", err)
	}

	m, err := r.estimator.UpdateFromExplanation(ctx, studentID, objectiveID, gradedScore)
	if err != nil {
		return ObjectiveProgress{}, err
	}
	return ObjectiveProgress{Objective: obj, Mastery: m, State: r.estimator.Classify(m)}, nil
}

// Progress lists a course's objectives in order with the student's mastery.
// Objectives never attempted carry a zero record and StateNotStarted. A course
// owned by another student is reported as not found.
func (r *Recorder) Progress(ctx context.Context, actorID, studentID, courseID string) ([]ObjectiveProgress, error) {
	if err := r.authorize(ctx, actorID, studentID); err != nil {
		return nil, err
	}
	c, err := r.objectives.Course(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("lookup course: %w", err)
	}
	if c.StudentID != studentID {
		return nil, &academic.NotFoundError{Kind: "course", ID: courseID}
	}

	objs, err := r.objectives.ListObjectives(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	ids := make([]string, len(objs))
	for i, o := range objs {
		ids[i] = o.ID
	}

	records, err := r.estimator.repo.ListMastery(ctx, studentID, ids)
	if err != nil {
		return nil, fmt.Errorf("list mastery: %w", err)
	}
	byObjective := make(map[string]academic.ObjectiveMastery, len(records))
	for _, m := range records {
		byObjective[m.ObjectiveID] = m
	}

	out := make([]ObjectiveProgress, len(objs))
	for i, o := range objs {
		m, ok := byObjective[o.ID]
		if !ok {
			m = academic.NewObjectiveMastery(studentID, o.ID)
		}
		out[i] = ObjectiveProgress{Objective: o, Mastery: m, State: r.estimator.Classify(m)}
	}
	return out, nil
}

// History returns the pair's attempts in ledger order.
func (r *Recorder) History(ctx context.Context, actorID, studentID, objectiveID string) ([]academic.QuestionAttempt, error) {
	if err := r.authorize(ctx, actorID, studentID); err != nil {
		return nil, err
	}
	attempts, err := r.ledger.ListAttempts(ctx, studentID, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

func (r *Recorder) authorize(ctx context.Context, actorID, studentID string) error {
	if actorID != "" && actorID == studentID {
		return nil
	}
	ok, err := r.auth.CanActFor(ctx, actorID, studentID)
	if err != nil {
		return fmt.Errorf("check authorization: %w", err)
	}
	if !ok {
		r.logger.Warn("authorization denied",
			zap.String("actor", actorID),
			zap.String("student", studentID),
		)
		return &academic.AuthorizationError{ActorID: actorID, StudentID: studentID}
	}
	return nil
}

func validatePair(studentID, objectiveID string) error {
	if strings.TrimSpace(studentID) == "" {
		return &academic.ValidationError{Field: "student_id", Value: studentID, Reason: "must not be empty"}
	}
	if strings.TrimSpace(objectiveID) == "" {
		return &academic.ValidationError{Field: "objective_id", Value: objectiveID, Reason: "must not be empty"}
	}
	return nil
}
