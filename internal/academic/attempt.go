package academic

import "time"

// QuestionAttempt is one immutable record of a student demonstrating an
// objective. Attempts are append-only.
type QuestionAttempt struct {
	ID          string
	Sequence    int64
	StudentID   string
	ObjectiveID string
	Correct     bool
	HintsUsed   int
	RawAnswer   *string
	CreatedAt   time.Time
}

// ObjectiveMastery is the current proficiency estimate for one
// (student, objective) pair. Both scores stay within [0, 100].
type ObjectiveMastery struct {
	StudentID        string
	ObjectiveID      string
	MasteryScore     float64
	ExplanationScore float64
	NumAttempts      int
	NumHintsUsed     int
	// LastAssessedAt is zero until the first attempt or explanation.
	LastAssessedAt time.Time
}

// NewObjectiveMastery returns the zero-valued record created lazily on
// first assessment.
func NewObjectiveMastery(studentID, objectiveID string) ObjectiveMastery {
	return ObjectiveMastery{StudentID: studentID, ObjectiveID: objectiveID}
}
