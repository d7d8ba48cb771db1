// Package transcript assembles a student's courses into a four-year
// transcript with a cumulative GPA.
package transcript

import (
	"cmp"
	"slices"
	"strings"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/gpa"
)

// InProgress is shown in place of a letter grade for ungraded courses.
const InProgress = "IP"

// Line is one course row.
type Line struct {
	CourseID string
	Title    string
	Subject  academic.Subject
	Lab      bool
	Core     bool
	Grade    string
	Credits  float64
	Archived bool
}

// DisplayTitle is the title with the "(Lab)" and "*" markers appended.
func (l Line) DisplayTitle() string {
	var b strings.Builder
	b.WriteString(l.Title)
	if l.Lab {
		b.WriteString(" (Lab)")
	}
	if l.Core {
		b.WriteString(" *")
	}
	return b.String()
}

// Year holds the lines recorded for one grade level.
type Year struct {
	GradeLevel int
	Lines      []Line
}

// Transcript is the full record for one student.
type Transcript struct {
	StudentID string

	// Years always holds grades 9 through 12 in order, empty or not.
	Years []Year

	// GPA is the cumulative general-scale GPA.
	GPA gpa.Result

	// TotalCredits counts credits that carry a scored grade.
	TotalCredits float64
}

// Notes are the marker legend printed under a transcript.
var Notes = []string{
	"* Indicates Eligibility Core Course",
	"(Lab) Indicates Lab Science",
}

// Build groups courses by grade level and computes the cumulative GPA.
// Archived courses stay on the transcript as historical record.
func Build(studentID string, courses []academic.Course) Transcript {
	years := make([]Year, 0, academic.MaxGradeLevel-academic.MinGradeLevel+1)
	for lvl := academic.MinGradeLevel; lvl <= academic.MaxGradeLevel; lvl++ {
		years = append(years, Year{GradeLevel: lvl})
	}

	for _, c := range courses {
		i := c.GradeLevel - academic.MinGradeLevel
		if i < 0 || i >= len(years) {
			continue
		}
		grade := c.LetterGrade()
		if grade == "" {
			grade = InProgress
		}
		years[i].Lines = append(years[i].Lines, Line{
			CourseID: c.ID,
			Title:    c.Title,
			Subject:  c.Subject,
			Lab:      c.LabScience,
			Core:     c.EligibilityCore,
			Grade:    grade,
			Credits:  c.Credits,
			Archived: c.Archived,
		})
	}
	for i := range years {
		slices.SortStableFunc(years[i].Lines, func(a, b Line) int {
			return cmp.Compare(a.Title, b.Title)
		})
	}

	result := gpa.Compute(courses, gpa.General())
	return Transcript{
		StudentID:    studentID,
		Years:        years,
		GPA:          result,
		TotalCredits: result.Credits,
	}
}

// Empty reports whether no course is recorded in any year.
func (t Transcript) Empty() bool {
	for _, y := range t.Years {
		if len(y.Lines) > 0 {
			return false
		}
	}
	return true
}
