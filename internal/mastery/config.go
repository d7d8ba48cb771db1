package mastery

import (
	"math"

	"github.com/abhisek/homeroom/internal/academic"
)

const (
	// DefaultHintPenalty is the points removed from a correct attempt per hint.
	DefaultHintPenalty = 15.0

	// DefaultAlpha is the EWMA weight on the newest attempt.
	DefaultAlpha = 0.3

	// DefaultMasteryThreshold is the mastery score needed for procedural mastery.
	DefaultMasteryThreshold = 85.0

	// DefaultExplanationThreshold is the explanation score needed for full mastery.
	DefaultExplanationThreshold = 70.0
)

// Config holds the estimator tunables.
type Config struct {
	HintPenalty          float64
	Alpha                float64
	MasteryThreshold     float64
	ExplanationThreshold float64
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		HintPenalty:          DefaultHintPenalty,
		Alpha:                DefaultAlpha,
		MasteryThreshold:     DefaultMasteryThreshold,
		ExplanationThreshold: DefaultExplanationThreshold,
	}
}

// Validate rejects tunables outside their meaningful ranges.
func (c Config) Validate() error {
	if math.IsNaN(c.HintPenalty) || c.HintPenalty < 0 {
		return &academic.ValidationError{Field: "hint_penalty", Value: c.HintPenalty, Reason: "must be non-negative"}
	}
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		return &academic.ValidationError{Field: "alpha", Value: c.Alpha, Reason: "must be in (0, 1]"}
	}
	if !inScoreRange(c.MasteryThreshold) {
		return &academic.ValidationError{Field: "mastery_threshold", Value: c.MasteryThreshold, Reason: "must be in [0, 100]"}
	}
	if !inScoreRange(c.ExplanationThreshold) {
		return &academic.ValidationError{Field: "explanation_threshold", Value: c.ExplanationThreshold, Reason: "must be in [0, 100]"}
	}
	return nil
}

func inScoreRange(v float64) bool {
	return v >= MinScore && v <= MaxScore
}
