package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/homeroom/internal/academic"
)

type fakeCreator struct {
	created []academic.Course
	failOn  string
}

func (f *fakeCreator) CreateCourse(_ context.Context, c academic.Course) (academic.Course, error) {
	if c.Title == f.failOn {
		return academic.Course{}, errors.New("disk full")
	}
	c.ID = c.Title
	f.created = append(f.created, c)
	return c, nil
}

func TestTemplates_SortedAndValid(t *testing.T) {
	ts := Templates()
	require.Len(t, ts, len(catalog))
	for i, tmpl := range ts {
		if i > 0 {
			assert.LessOrEqual(t, ts[i-1].Title, tmpl.Title)
		}
		_, err := tmpl.Course("stu-1", 9)
		assert.NoError(t, err, tmpl.Title)
	}
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	ts := Templates()
	ts[0].Title = "changed"
	assert.NotEqual(t, "changed", Templates()[0].Title)
}

func TestSearchTemplates(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"spanish", []string{"Spanish I", "Spanish II"}},
		{"FRENCH", []string{"French I", "French II"}},
		{"arts", []string{"Music Theory", "Studio Art", "Theater Arts"}},
		{"world language", []string{"French I", "French II", "Spanish I", "Spanish II"}},
		{"nothing matches this", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, tmpl := range SearchTemplates(tt.query) {
				got = append(got, tmpl.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchTemplates_EmptyQueryReturnsAll(t *testing.T) {
	assert.Equal(t, Templates(), SearchTemplates("  "))
}

func TestLookup(t *testing.T) {
	tmpl, err := Lookup("chemistry")
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", tmpl.Title)
	assert.True(t, tmpl.Lab)
	assert.True(t, tmpl.Core)

	_, err = Lookup("Underwater Basket Weaving")
	assert.True(t, academic.IsNotFound(err))
}

func TestTemplateCourse(t *testing.T) {
	tmpl, err := Lookup("Civics")
	require.NoError(t, err)

	c, err := tmpl.Course("stu-1", 11)
	require.NoError(t, err)
	assert.Equal(t, academic.SubjectSocialScience, c.Subject)
	assert.Equal(t, 0.5, c.Credits)
	assert.Equal(t, academic.TermYear, c.Term)
	assert.True(t, c.EligibilityCore)
	assert.False(t, c.LabScience)
	assert.Nil(t, c.Grade)

	_, err = tmpl.Course("stu-1", 8)
	assert.True(t, academic.IsValidation(err))
}

func TestStandardPlan(t *testing.T) {
	plan := StandardPlan()
	require.Len(t, plan, 4)
	assert.Equal(t, 22, plan.Size())
	for i, y := range plan {
		assert.Equal(t, 9+i, y.GradeLevel)
		for _, title := range y.Titles {
			_, err := Lookup(title)
			assert.NoError(t, err, title)
		}
	}
}

func TestApply_CreatesEverything(t *testing.T) {
	fc := &fakeCreator{}
	res, err := Apply(context.Background(), fc, "stu-1", StandardPlan(), nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Len(t, res.Created, 22)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "English 9", fc.created[0].Title)
	assert.Equal(t, 9, fc.created[0].GradeLevel)
	assert.Equal(t, "stu-1", fc.created[0].StudentID)
}

func TestApply_SkipsExistingTitleAndGrade(t *testing.T) {
	existing := []academic.Course{
		{StudentID: "stu-1", Title: "english 9", GradeLevel: 9},
		{StudentID: "stu-1", Title: "Biology", GradeLevel: 9, Archived: true},
		{StudentID: "stu-1", Title: "Geometry", GradeLevel: 10, Archived: true},
		{StudentID: "other", Title: "Algebra I", GradeLevel: 9},
	}
	fc := &fakeCreator{}
	res, err := Apply(context.Background(), fc, "stu-1", StandardPlan(), existing, nil)
	require.NoError(t, err)

	assert.Len(t, res.Created, 20)
	assert.ElementsMatch(t, []Skipped{
		{Title: "English 9", GradeLevel: 9},
		{Title: "Geometry", GradeLevel: 10},
	}, res.Skipped)

	var titles []string
	for _, c := range res.Created {
		if c.GradeLevel == 10 {
			titles = append(titles, c.Title)
		}
	}
	assert.Contains(t, titles, "Biology", "a grade 9 Biology does not cover grade 10")
	assert.NotContains(t, titles, "Geometry")
}

func TestApply_Idempotent(t *testing.T) {
	fc := &fakeCreator{}
	first, err := Apply(context.Background(), fc, "stu-1", StandardPlan(), nil, nil)
	require.NoError(t, err)

	second, err := Apply(context.Background(), fc, "stu-1", StandardPlan(), first.Created, nil)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 22)
}

func TestApply_UnknownTitleWritesNothing(t *testing.T) {
	fc := &fakeCreator{}
	plan := Plan{{GradeLevel: 9, Titles: []string{"Algebra I", "Alchemy"}}}

	_, err := Apply(context.Background(), fc, "stu-1", plan, nil, nil)
	assert.True(t, academic.IsNotFound(err))
	assert.Empty(t, fc.created)
}

func TestApply_CreateFailure(t *testing.T) {
	fc := &fakeCreator{failOn: "Geometry"}
	res, err := Apply(context.Background(), fc, "stu-1", StandardPlan(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Geometry" for grade 10`)
	assert.Len(t, res.Created, 8, "courses before the failure stay created")
}
