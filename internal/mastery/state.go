package mastery

import "github.com/abhisek/homeroom/internal/academic"

// State is the derived mastery classification of an objective. It is
// computed on read and never stored.
type State string

const (
	StateNotStarted     State = "not_started"
	StateInProgress     State = "in_progress"
	StateProceduralOnly State = "procedural_only"
	StateMastered       State = "mastered"
)

// Label returns the display name of the state.
func (s State) Label() string {
	switch s {
	case StateNotStarted:
		return "Not started"
	case StateInProgress:
		return "In progress"
	case StateProceduralOnly:
		return "Procedural only"
	case StateMastered:
		return "Mastered"
	default:
		return string(s)
	}
}

// Classify derives the state of a mastery record. Full mastery needs both
// the procedural and the explanation threshold.
func Classify(m academic.ObjectiveMastery, cfg Config) State {
	switch {
	case m.MasteryScore >= cfg.MasteryThreshold && m.ExplanationScore >= cfg.ExplanationThreshold:
		return StateMastered
	case m.MasteryScore >= cfg.MasteryThreshold:
		return StateProceduralOnly
	case m.NumAttempts > 0:
		return StateInProgress
	default:
		return StateNotStarted
	}
}
