package mastery

// Bounds of attempt and mastery scores.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// AttemptScore converts one attempt into a 0-100 score. Incorrect attempts
// score 0; correct ones lose penalty points per hint, floored at 0.
func AttemptScore(correct bool, hintsUsed int, penalty float64) float64 {
	if !correct {
		return MinScore
	}
	return clamp(MaxScore-float64(hintsUsed)*penalty, MinScore, MaxScore)
}

// NextScore folds attemptScore into the running mastery score. The first
// attempt is taken as-is; later ones use an exponentially weighted moving
// average with weight alpha on the new attempt.
func NextScore(old float64, priorAttempts int, attemptScore, alpha float64) float64 {
	if priorAttempts == 0 {
		return clamp(attemptScore, MinScore, MaxScore)
	}
	return clamp(alpha*attemptScore+(1-alpha)*old, MinScore, MaxScore)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
