// Package planner holds the course template catalog and the standard
// four-year plan built from it.
package planner

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/abhisek/homeroom/internal/academic"
)

// Template is a catalog course that can be added to any grade year.
type Template struct {
	Title   string
	Subject academic.Subject
	Credits float64
	Lab     bool
	Core    bool
}

// Course builds a full-year course from the template.
func (t Template) Course(studentID string, gradeLevel int) (academic.Course, error) {
	c, err := academic.NewCourse(studentID, t.Title, t.Subject, t.Credits, gradeLevel)
	if err != nil {
		return academic.Course{}, err
	}
	c.LabScience = t.Lab
	c.EligibilityCore = t.Core
	return c, nil
}

var catalog = []Template{
	{Title: "English 9", Subject: academic.SubjectEnglish, Credits: 1, Core: true},
	{Title: "English 10", Subject: academic.SubjectEnglish, Credits: 1, Core: true},
	{Title: "American Literature", Subject: academic.SubjectEnglish, Credits: 1, Core: true},
	{Title: "British Literature", Subject: academic.SubjectEnglish, Credits: 1, Core: true},
	{Title: "AP English Language", Subject: academic.SubjectEnglish, Credits: 1, Core: true},
	{Title: "AP English Literature", Subject: academic.SubjectEnglish, Credits: 1, Core: true},
	{Title: "Creative Writing", Subject: academic.SubjectEnglish, Credits: 0.5, Core: true},
	{Title: "Speech & Debate", Subject: academic.SubjectEnglish, Credits: 0.5, Core: true},

	{Title: "Algebra I", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "Geometry", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "Algebra II", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "Pre-Calculus", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "Calculus", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "AP Calculus AB", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "AP Statistics", Subject: academic.SubjectMath, Credits: 1, Core: true},
	{Title: "Consumer Math", Subject: academic.SubjectMath, Credits: 1},

	{Title: "Physical Science", Subject: academic.SubjectScience, Credits: 1, Lab: true, Core: true},
	{Title: "Biology", Subject: academic.SubjectScience, Credits: 1, Lab: true, Core: true},
	{Title: "Chemistry", Subject: academic.SubjectScience, Credits: 1, Lab: true, Core: true},
	{Title: "Physics", Subject: academic.SubjectScience, Credits: 1, Lab: true, Core: true},
	{Title: "Anatomy & Physiology", Subject: academic.SubjectScience, Credits: 1, Lab: true, Core: true},
	{Title: "Environmental Science", Subject: academic.SubjectScience, Credits: 1, Core: true},

	{Title: "World History", Subject: academic.SubjectSocialScience, Credits: 1, Core: true},
	{Title: "US History", Subject: academic.SubjectSocialScience, Credits: 1, Core: true},
	{Title: "Government", Subject: academic.SubjectSocialScience, Credits: 0.5, Core: true},
	{Title: "Economics", Subject: academic.SubjectSocialScience, Credits: 0.5, Core: true},
	{Title: "Civics", Subject: academic.SubjectSocialScience, Credits: 0.5, Core: true},
	{Title: "Psychology", Subject: academic.SubjectSocialScience, Credits: 0.5, Core: true},

	{Title: "Spanish I", Subject: academic.SubjectWorldLanguage, Credits: 1, Core: true},
	{Title: "Spanish II", Subject: academic.SubjectWorldLanguage, Credits: 1, Core: true},
	{Title: "French I", Subject: academic.SubjectWorldLanguage, Credits: 1, Core: true},
	{Title: "French II", Subject: academic.SubjectWorldLanguage, Credits: 1, Core: true},

	{Title: "Studio Art", Subject: academic.SubjectArts, Credits: 1},
	{Title: "Music Theory", Subject: academic.SubjectArts, Credits: 1},
	{Title: "Theater Arts", Subject: academic.SubjectArts, Credits: 1},

	{Title: "Computer Science", Subject: academic.SubjectElective, Credits: 1},
	{Title: "Personal Finance", Subject: academic.SubjectElective, Credits: 0.5},
	{Title: "Health", Subject: academic.SubjectElective, Credits: 0.5},
	{Title: "Physical Education", Subject: academic.SubjectElective, Credits: 0.5},
}

// Templates returns every template sorted by title.
func Templates() []Template {
	out := slices.Clone(catalog)
	sortByTitle(out)
	return out
}

// SearchTemplates returns the templates whose title or subject contains
// query, ignoring case, sorted by title. An empty query returns all of them.
func SearchTemplates(query string) []Template {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return Templates()
	}
	var out []Template
	for _, t := range catalog {
		if strings.Contains(fold(t.Title), q) ||
			strings.Contains(fold(string(t.Subject)), q) ||
			strings.Contains(fold(t.Subject.DisplayName()), q) {
			out = append(out, t)
		}
	}
	sortByTitle(out)
	return out
}

// Lookup finds a template by title, ignoring case.
func Lookup(title string) (Template, error) {
	want := fold(strings.TrimSpace(title))
	for _, t := range catalog {
		if fold(t.Title) == want {
			return t, nil
		}
	}
	return Template{}, &academic.NotFoundError{Kind: "template", ID: title}
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func sortByTitle(ts []Template) {
	slices.SortFunc(ts, func(a, b Template) int {
		return cmp.Compare(a.Title, b.Title)
	})
}
