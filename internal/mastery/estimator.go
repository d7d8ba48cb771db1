// Package mastery maintains per-objective proficiency estimates and records
// the attempts they are derived from.
package mastery

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
)

// Repo persists ObjectiveMastery records.
type Repo interface {
	// UpdateMastery loads the record for the pair, or a zero record when none
	// exists, applies fn and saves the result. Updates of the same pair must
	// not interleave.
	UpdateMastery(ctx context.Context, studentID, objectiveID string,
		fn func(m *academic.ObjectiveMastery) error) (academic.ObjectiveMastery, error)

	// ListMastery returns the student's records for the given objectives.
	// Objectives without a record are omitted.
	ListMastery(ctx context.Context, studentID string, objectiveIDs []string) ([]academic.ObjectiveMastery, error)
}

// Estimator is the only writer of ObjectiveMastery records.
type Estimator struct {
	repo   Repo
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewEstimator creates an estimator. cfg must already be validated.
func NewEstimator(repo Repo, cfg Config, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("mastery"),
		now:    time.Now,
	}
}

// Config returns the estimator tunables.
func (e *Estimator) Config() Config { return e.cfg }

// UpdateFromAttempt folds one attempt into the pair's mastery score without
// touching the ledger.
func (e *Estimator) UpdateFromAttempt(ctx context.Context, studentID, objectiveID string, correct bool, hintsUsed int) (academic.ObjectiveMastery, error) {
	if hintsUsed < 0 {
		return academic.ObjectiveMastery{}, &academic.ValidationError{Field: "hints_used", Value: hintsUsed, Reason: "must be non-negative"}
	}

	fold := e.foldAttempt(correct, hintsUsed)
	m, err := e.repo.UpdateMastery(ctx, studentID, objectiveID, fold.apply)
	if err != nil {
		return academic.ObjectiveMastery{}, fmt.Errorf("update mastery: %w", err)
	}
	e.logFold(studentID, objectiveID, fold, m)
	return m, nil
}

// attemptFold is one attempt's update of a mastery record. old is the score
// seen by apply.
type attemptFold struct {
	cfg       Config
	now       func() time.Time
	score     float64
	hintsUsed int
	old       float64
}

func (e *Estimator) foldAttempt(correct bool, hintsUsed int) *attemptFold {
	return &attemptFold{
		cfg:       e.cfg,
		now:       e.now,
		score:     AttemptScore(correct, hintsUsed, e.cfg.HintPenalty),
		hintsUsed: hintsUsed,
	}
}

func (f *attemptFold) apply(m *academic.ObjectiveMastery) error {
	f.old = m.MasteryScore
	m.MasteryScore = NextScore(m.MasteryScore, m.NumAttempts, f.score, f.cfg.Alpha)
	m.NumAttempts++
	m.NumHintsUsed += f.hintsUsed
	m.LastAssessedAt = f.now()
	return nil
}

func (e *Estimator) logFold(studentID, objectiveID string, f *attemptFold, m academic.ObjectiveMastery) {
	e.logger.Debug("mastery updated",
		zap.String("student", studentID),
		zap.String("objective", objectiveID),
		zap.Float64("attempt_score", f.score),
		zap.Float64("old_score", f.old),
		zap.Float64("new_score", m.MasteryScore),
		zap.Int("attempts", m.NumAttempts),
	)
}

// UpdateFromExplanation overwrites the pair's explanation score. The score is
// clamped to [0, 100].
func (e *Estimator) UpdateFromExplanation(ctx context.Context, studentID, objectiveID string, gradedScore float64) (academic.ObjectiveMastery, error) {
	if math.IsNaN(gradedScore) {
		return academic.ObjectiveMastery{}, &academic.ValidationError{Field: "explanation_score", Value: gradedScore, Reason: "must be a number"}
	}
	score := clamp(gradedScore, MinScore, MaxScore)

	m, err := e.repo.UpdateMastery(ctx, studentID, objectiveID, func(m *academic.ObjectiveMastery) error {
		m.ExplanationScore = score
		m.LastAssessedAt = e.now()
		return nil
	})
	if err != nil {
		return academic.ObjectiveMastery{}, fmt.Errorf("update explanation: %w", err)
	}

	e.logger.Debug("explanation graded",
		zap.String("student", studentID),
		zap.String("objective", objectiveID),
		zap.Float64("score", score),
	)
	return m, nil
}

// Classify derives the state of m under the estimator's thresholds.
func (e *Estimator) Classify(m academic.ObjectiveMastery) State {
	return Classify(m, e.cfg)
}
