package academic

import (
	"math"
	"strings"
	"time"
)

// Subject is the academic area a course counts toward.
type Subject string

const (
	SubjectEnglish       Subject = "English"
	SubjectMath          Subject = "Math"
	SubjectScience       Subject = "Science"
	SubjectSocialScience Subject = "SocialScience"
	SubjectWorldLanguage Subject = "WorldLanguage"
	SubjectArts          Subject = "Arts"
	SubjectElective      Subject = "Elective"
)

// AllSubjects returns every subject in display order.
func AllSubjects() []Subject {
	return []Subject{
		SubjectEnglish,
		SubjectMath,
		SubjectScience,
		SubjectSocialScience,
		SubjectWorldLanguage,
		SubjectArts,
		SubjectElective,
	}
}

// Valid reports whether s is one of the known subjects.
func (s Subject) Valid() bool {
	for _, known := range AllSubjects() {
		if s == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable subject name.
func (s Subject) DisplayName() string {
	switch s {
	case SubjectSocialScience:
		return "Social Science"
	case SubjectWorldLanguage:
		return "World Language"
	default:
		return string(s)
	}
}

// ParseSubject matches a subject name case-insensitively, ignoring spaces.
func ParseSubject(name string) (Subject, error) {
	norm := strings.ReplaceAll(strings.ToLower(name), " ", "")
	for _, s := range AllSubjects() {
		if strings.ToLower(string(s)) == norm {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "subject", Value: name, Reason: "unknown subject"}
}

// Term is the part of the school year a course runs in.
type Term string

const (
	TermYear   Term = "Year"
	TermFall   Term = "Fall"
	TermSpring Term = "Spring"
	TermSummer Term = "Summer"
)

// Valid reports whether t is one of the known terms.
func (t Term) Valid() bool {
	switch t {
	case TermYear, TermFall, TermSpring, TermSummer:
		return true
	}
	return false
}

// ParseTerm matches a term name case-insensitively.
func ParseTerm(name string) (Term, error) {
	for _, t := range []Term{TermYear, TermFall, TermSpring, TermSummer} {
		if strings.EqualFold(string(t), name) {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "term", Value: name, Reason: "unknown term"}
}

// Grade levels a course may be taken in.
const (
	MinGradeLevel = 9
	MaxGradeLevel = 12
)

// Course is one academic course taken by a student in one grade year.
type Course struct {
	ID         string
	StudentID  string
	Title      string
	Subject    Subject
	Credits    float64
	GradeLevel int
	Term       Term

	// Grade is the final letter grade; nil while the course is in progress.
	Grade *string

	LabScience      bool
	EligibilityCore bool
	Archived        bool
	CreatedAt       time.Time
}

// NewCourse builds a full-year course and validates it.
func NewCourse(studentID, title string, subject Subject, credits float64, gradeLevel int) (Course, error) {
	c := Course{
		StudentID:  studentID,
		Title:      strings.TrimSpace(title),
		Subject:    subject,
		Credits:    credits,
		GradeLevel: gradeLevel,
		Term:       TermYear,
	}
	if err := c.Validate(); err != nil {
		return Course{}, err
	}
	return c, nil
}

// Graded reports whether the course has a final letter grade.
func (c Course) Graded() bool {
	return c.Grade != nil && *c.Grade != ""
}

// LetterGrade returns the final grade or "" while in progress.
func (c Course) LetterGrade() string {
	if c.Grade == nil {
		return ""
	}
	return *c.Grade
}

// Validate checks the course invariants. Letter grades are checked by the
// grade-point table that will score them, not here.
func (c Course) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return &ValidationError{Field: "student_id", Value: c.StudentID, Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Value: c.Title, Reason: "must not be empty"}
	}
	if !c.Subject.Valid() {
		return &ValidationError{Field: "subject", Value: c.Subject, Reason: "unknown subject"}
	}
	if !(c.Credits > 0) || math.IsInf(c.Credits, 0) {
		return &ValidationError{Field: "credits", Value: c.Credits, Reason: "must be a finite number greater than 0"}
	}
	if c.GradeLevel < MinGradeLevel || c.GradeLevel > MaxGradeLevel {
		return &ValidationError{Field: "grade_level", Value: c.GradeLevel, Reason: "must be between 9 and 12"}
	}
	if !c.Term.Valid() {
		return &ValidationError{Field: "term", Value: c.Term, Reason: "unknown term"}
	}
	return nil
}

// ActiveCourses returns the courses that are not archived, preserving order.
func ActiveCourses(courses []Course) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if !c.Archived {
			out = append(out, c)
		}
	}
	return out
}

// GradePtr is a convenience for building courses with a final grade.
func GradePtr(letter string) *string {
	return &letter
}
