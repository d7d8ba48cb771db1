package academic

import "time"

// LearningObjective is one discrete, masterable skill scoped to a course.
// Objectives are created in a batch and never updated afterwards.
type LearningObjective struct {
	ID          string
	CourseID    string
	Description string
	Order       int
	CreatedAt   time.Time
}
