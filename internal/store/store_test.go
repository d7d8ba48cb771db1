package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/homeroom/internal/academic"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func openFileStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "homeroom.db"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createCourse(t *testing.T, s *Store, studentID, title string, subject academic.Subject, grade int) academic.Course {
	t.Helper()
	c, err := academic.NewCourse(studentID, title, subject, 1, grade)
	require.NoError(t, err)
	c, err = s.CreateCourse(context.Background(), c)
	require.NoError(t, err)
	return c
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestJournalModeWALOnFile(t *testing.T) {
	s := openFileStore(t)

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homeroom.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Course(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra I", got.Title)
}

func TestCreateAndGetCourse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := academic.Course{
		StudentID:       "stu-1",
		Title:           "Chemistry",
		Subject:         academic.SubjectScience,
		Credits:         1,
		GradeLevel:      10,
		Grade:           academic.GradePtr("B+"),
		LabScience:      true,
		EligibilityCore: true,
	}
	created, err := s.CreateCourse(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, academic.TermYear, created.Term)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Course(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", got.Title)
	assert.Equal(t, academic.SubjectScience, got.Subject)
	assert.Equal(t, 10, got.GradeLevel)
	assert.Equal(t, "B+", got.LetterGrade())
	assert.True(t, got.LabScience)
	assert.True(t, got.EligibilityCore)
	assert.False(t, got.Archived)
}

func TestCreateCourseValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		course academic.Course
		field  string
	}{
		{"empty title", academic.Course{StudentID: "s", Subject: academic.SubjectMath, Credits: 1, GradeLevel: 9}, "title"},
		{"zero credits", academic.Course{StudentID: "s", Title: "x", Subject: academic.SubjectMath, GradeLevel: 9}, "credits"},
		{"grade level 8", academic.Course{StudentID: "s", Title: "x", Subject: academic.SubjectMath, Credits: 1, GradeLevel: 8}, "grade_level"},
		{"unknown subject", academic.Course{StudentID: "s", Title: "x", Subject: "Cooking", Credits: 1, GradeLevel: 9}, "subject"},
		{"unknown grade", academic.Course{StudentID: "s", Title: "x", Subject: academic.SubjectMath, Credits: 1, GradeLevel: 9, Grade: academic.GradePtr("E")}, "grade"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateCourse(ctx, tt.course)
			var verr *academic.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCourseNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Course(context.Background(), "missing")
	assert.True(t, academic.IsNotFound(err))
}

func TestListCoursesOrderAndArchive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c11 := createCourse(t, s, "stu-1", "Precalculus", academic.SubjectMath, 11)
	c9 := createCourse(t, s, "stu-1", "English 9", academic.SubjectEnglish, 9)
	createCourse(t, s, "stu-2", "Biology", academic.SubjectScience, 9)

	courses, err := s.ListCourses(ctx, "stu-1", false)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, c9.ID, courses[0].ID)
	assert.Equal(t, c11.ID, courses[1].ID)

	require.NoError(t, s.ArchiveCourse(ctx, c11.ID))

	active, err := s.ListCourses(ctx, "stu-1", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, c9.ID, active[0].ID)

	all, err := s.ListCourses(ctx, "stu-1", true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].Archived)
}

func TestArchiveMissingCourse(t *testing.T) {
	s := openTestStore(t)

	err := s.ArchiveCourse(context.Background(), "missing")
	assert.True(t, academic.IsNotFound(err))
}

func TestSetGrade(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Geometry", academic.SubjectMath, 10)

	got, err := s.SetGrade(ctx, c.ID, academic.GradePtr("A-"))
	require.NoError(t, err)
	assert.Equal(t, "A-", got.LetterGrade())

	_, err = s.SetGrade(ctx, c.ID, academic.GradePtr("Z"))
	assert.True(t, academic.IsValidation(err))

	got, err = s.Course(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-", got.LetterGrade(), "invalid grade must not overwrite")

	got, err = s.SetGrade(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.False(t, got.Graded())

	_, err = s.SetGrade(ctx, "missing", academic.GradePtr("A"))
	assert.True(t, academic.IsNotFound(err))
}

func TestCreateObjectivesIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)

	first, err := s.CreateObjectives(ctx, c.ID, []string{"Solve linear equations", "  ", "Graph lines"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].Order)
	assert.Equal(t, 1, first[1].Order)
	assert.Equal(t, "Graph lines", first[1].Description)

	second, err := s.CreateObjectives(ctx, c.ID, []string{"Something else"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)

	listed, err := s.ListObjectives(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	got, err := s.Objective(ctx, first[0].ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CourseID)
}

func TestCreateObjectivesErrors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)

	_, err := s.CreateObjectives(ctx, c.ID, []string{" ", ""})
	assert.True(t, academic.IsValidation(err))

	_, err = s.CreateObjectives(ctx, "missing", []string{"x"})
	assert.True(t, academic.IsNotFound(err))

	_, err = s.Objective(ctx, "missing")
	assert.True(t, academic.IsNotFound(err))
}

func TestAppendAndListAttempts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Solve linear equations"})
	require.NoError(t, err)
	oid := objs[0].ID

	answer := "x = 4"
	a1, err := s.AppendAttempt(ctx, academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: oid, Correct: true, RawAnswer: &answer})
	require.NoError(t, err)
	a2, err := s.AppendAttempt(ctx, academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: oid, Correct: false, HintsUsed: 2})
	require.NoError(t, err)
	assert.Less(t, a1.Sequence, a2.Sequence)

	_, err = s.AppendAttempt(ctx, academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: oid, HintsUsed: -1})
	assert.True(t, academic.IsValidation(err))

	list, err := s.ListAttempts(ctx, "stu-1", oid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a1.ID, list[0].ID)
	require.NotNil(t, list[0].RawAnswer)
	assert.Equal(t, "x = 4", *list[0].RawAnswer)
	assert.Nil(t, list[1].RawAnswer)
	assert.Equal(t, 2, list[1].HintsUsed)
	assert.False(t, list[1].Correct)
}

func TestAppendAttemptUnknownObjective(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AppendAttempt(context.Background(), academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: "missing", Correct: true})
	assert.Error(t, err, "foreign key should reject unknown objective")
}

func TestRecordAttemptUpdatesMastery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Factor quadratics"})
	require.NoError(t, err)
	oid := objs[0].ID

	a, m, err := s.RecordAttempt(ctx, academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: oid, Correct: true},
		func(m *academic.ObjectiveMastery) error {
			m.MasteryScore = 100
			m.NumAttempts++
			return nil
		})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 1, m.NumAttempts)

	stored, err := s.Mastery(ctx, "stu-1", oid)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.MasteryScore)
}

func TestRecordAttemptRollsBackOnMasteryFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Factor quadratics"})
	require.NoError(t, err)
	oid := objs[0].ID

	_, _, err = s.RecordAttempt(ctx, academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: oid, Correct: true},
		func(*academic.ObjectiveMastery) error { return errors.New("estimator rejected attempt") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update mastery")

	list, err := s.ListAttempts(ctx, "stu-1", oid)
	require.NoError(t, err)
	assert.Len(t, list, 0)

	_, err = s.Mastery(ctx, "stu-1", oid)
	assert.True(t, academic.IsNotFound(err))
}

func TestUpdateMasteryCreatesLazily(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Solve linear equations"})
	require.NoError(t, err)
	oid := objs[0].ID

	_, err = s.Mastery(ctx, "stu-1", oid)
	assert.True(t, academic.IsNotFound(err))

	m, err := s.UpdateMastery(ctx, "stu-1", oid, func(m *academic.ObjectiveMastery) error {
		assert.Zero(t, m.NumAttempts)
		m.NumAttempts++
		m.MasteryScore = 85
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumAttempts)

	got, err := s.Mastery(ctx, "stu-1", oid)
	require.NoError(t, err)
	assert.Equal(t, 85.0, got.MasteryScore)
	assert.True(t, got.LastAssessedAt.IsZero())

	list, err := s.ListMastery(ctx, "stu-1", []string{oid, "other"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, oid, list[0].ObjectiveID)
}

func TestUpdateMasteryCallbackErrorRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Solve linear equations"})
	require.NoError(t, err)

	boom := fmt.Errorf("boom")
	_, err = s.UpdateMastery(ctx, "stu-1", objs[0].ID, func(m *academic.ObjectiveMastery) error {
		m.NumAttempts = 9
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Mastery(ctx, "stu-1", objs[0].ID)
	assert.True(t, academic.IsNotFound(err))
}

func TestConcurrentRecordAttemptKeepsLedgerAndMasteryInStep(t *testing.T) {
	s := openFileStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Solve linear equations"})
	require.NoError(t, err)
	oid := objs[0].ID

	const n = 30
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.RecordAttempt(ctx, academic.QuestionAttempt{StudentID: "stu-1", ObjectiveID: oid, Correct: true},
				func(m *academic.ObjectiveMastery) error {
					m.NumAttempts++
					return nil
				})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := s.ListAttempts(ctx, "stu-1", oid)
	require.NoError(t, err)
	assert.Len(t, list, n)

	got, err := s.Mastery(ctx, "stu-1", oid)
	require.NoError(t, err)
	assert.Equal(t, n, got.NumAttempts)
}

func TestConcurrentUpdateMasteryLosesNothing(t *testing.T) {
	s := openFileStore(t)
	ctx := context.Background()
	c := createCourse(t, s, "stu-1", "Algebra I", academic.SubjectMath, 9)
	objs, err := s.CreateObjectives(ctx, c.ID, []string{"Solve linear equations"})
	require.NoError(t, err)
	oid := objs[0].ID

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateMastery(ctx, "stu-1", oid, func(m *academic.ObjectiveMastery) error {
				m.NumAttempts++
				m.NumHintsUsed += 2
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Mastery(ctx, "stu-1", oid)
	require.NoError(t, err)
	assert.Equal(t, n, got.NumAttempts)
	assert.Equal(t, 2*n, got.NumHintsUsed)
}

func TestGuardianLinks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ok, err := s.CanActFor(ctx, "stu-1", "stu-1")
	require.NoError(t, err)
	assert.True(t, ok, "a student acts for themselves")

	ok, err = s.CanActFor(ctx, "parent-1", "stu-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.LinkGuardian(ctx, "parent-1", "stu-1"))
	require.NoError(t, s.LinkGuardian(ctx, "parent-1", "stu-1"))
	require.NoError(t, s.LinkGuardian(ctx, "parent-1", "stu-2"))

	ok, err = s.CanActFor(ctx, "parent-1", "stu-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CanActFor(ctx, "parent-1", "stu-3")
	require.NoError(t, err)
	assert.False(t, ok)

	students, err := s.Students(ctx, "parent-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1", "stu-2"}, students)

	assert.True(t, academic.IsValidation(s.LinkGuardian(ctx, "stu-1", "stu-1")))
	assert.True(t, academic.IsValidation(s.LinkGuardian(ctx, "", "stu-1")))
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "explanation-grade", InputTokens: 100, OutputTokens: 20, LatencyMs: 10, Success: true},
		{Provider: "mock", Model: "m1", Purpose: "explanation-grade", InputTokens: 50, OutputTokens: 10, LatencyMs: 30, Success: true},
		{Provider: "mock", Model: "m2", Purpose: "objective-draft", InputTokens: 10, OutputTokens: 5, LatencyMs: 5, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "objective-draft", all[0].Purpose, "newest first")
	assert.Equal(t, "rate limited", all[0].ErrorMessage)
	assert.False(t, all[0].Timestamp.IsZero())

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "explanation-grade"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 50, limited[0].InputTokens)

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 100, got.InputTokens)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, "explanation-grade", byPurpose[0].Purpose)
	assert.Equal(t, 2, byPurpose[0].Calls)
	assert.Equal(t, 150, byPurpose[0].InputTokens)
	assert.Equal(t, 30, byPurpose[0].OutputTokens)
	assert.Equal(t, int64(20), byPurpose[0].AvgLatencyMs)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "m2", byModel[1].Model)
	assert.Equal(t, 1, byModel[1].Calls)
}
