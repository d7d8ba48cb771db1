// Package gpa computes credit-weighted grade point averages.
package gpa

import (
	"fmt"
	"math"

	"github.com/abhisek/homeroom/internal/academic"
)

// NotAvailable is the display value when no graded credits exist yet.
const NotAvailable = "N/A"

// Result is a computed GPA. Available is false when no course carried a
// grade the table could score; Value is then 0 and must not be shown.
type Result struct {
	Scale     Scale
	Value     float64
	Available bool
	// Credits is the total of credits that contributed to Value.
	Credits float64
}

// String formats the GPA to two decimals, or "N/A".
func (r Result) String() string {
	if !r.Available {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// Rounded returns Value rounded to two decimals.
func (r Result) Rounded() float64 {
	return math.Round(r.Value*100) / 100
}

// Compute returns the credit-weighted GPA of courses under table.
// Ungraded courses and grades missing from the table contribute to neither
// the point total nor the credit total.
func Compute(courses []academic.Course, table Table) Result {
	var points, credits float64
	for _, c := range courses {
		if !c.Graded() {
			continue
		}
		p, ok := table.Points(*c.Grade)
		if !ok {
			continue
		}
		points += p * c.Credits
		credits += c.Credits
	}

	res := Result{Scale: table.Scale(), Credits: credits}
	if credits == 0 {
		return res
	}
	res.Value = points / credits
	res.Available = true
	return res
}
