package gpa

import "github.com/abhisek/homeroom/internal/academic"

// Scale tags which grade-point table a GPA was computed under. The two
// tables are not interchangeable.
type Scale string

const (
	// ScaleGeneral is the transcript scale with full plus/minus refinement.
	ScaleGeneral Scale = "general"
	// ScaleEligibility is the athletic-eligibility scale. It has no C-, D+
	// or D- entries; courses graded with those are left out entirely.
	ScaleEligibility Scale = "eligibility"
)

// Table maps letter grades to grade points for one scale.
type Table struct {
	scale  Scale
	points map[string]float64
}

var generalPoints = map[string]float64{
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"F":  0.0,
}

var eligibilityPoints = map[string]float64{
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"D":  1.0,
	"F":  0.0,
}

// General returns the transcript grade-point table.
func General() Table {
	return Table{scale: ScaleGeneral, points: generalPoints}
}

// Eligibility returns the eligibility-standard grade-point table.
func Eligibility() Table {
	return Table{scale: ScaleEligibility, points: eligibilityPoints}
}

// Scale returns the table's scale tag.
func (t Table) Scale() Scale {
	return t.scale
}

// Points returns the grade points for a letter grade.
func (t Table) Points(letter string) (float64, bool) {
	p, ok := t.points[letter]
	return p, ok
}

// Letters returns the letters the table scores, highest first.
func (t Table) Letters() []string {
	order := []string{"A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "F"}
	out := make([]string, 0, len(t.points))
	for _, l := range order {
		if _, ok := t.points[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Validate rejects a letter grade the table cannot score.
func (t Table) Validate(letter string) error {
	if _, ok := t.points[letter]; !ok {
		return &academic.ValidationError{
			Field:  "grade",
			Value:  letter,
			Reason: "not on the " + string(t.scale) + " grade scale",
		}
	}
	return nil
}
