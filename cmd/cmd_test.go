package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/homeroom/internal/academic"
)

// isolate points the commands at a fresh database and clears any
// HOMEROOM_* settings from the host environment.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"HOMEROOM_STUDENT", "HOMEROOM_ACTOR", "HOMEROOM_CATALOG", "HOMEROOM_LOG_FILE"} {
		t.Setenv(k, "")
	}
	t.Setenv("HOMEROOM_LOG_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "homeroom.db")
	t.Setenv("HOMEROOM_DB", db)
	return db
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

// lastField returns the final whitespace-separated token of the first
// line containing substr.
func lastField(t *testing.T, out, substr string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			fields := strings.Fields(line)
			return fields[len(fields)-1]
		}
	}
	t.Fatalf("no line containing %q in:\n%s", substr, out)
	return ""
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", fmt.Errorf("wrap: %w", &academic.ValidationError{Field: "x"}), 2},
		{"unauthorized", &academic.AuthorizationError{ActorID: "a", StudentID: "b"}, 3},
		{"not found", fmt.Errorf("wrap: %w", &academic.NotFoundError{Kind: "course", ID: "c"}), 4},
		{"other", errors.New("disk full"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestCourseCommands(t *testing.T) {
	isolate(t)

	out := mustRun(t, "course", "add", "-s", "stu-1",
		"--title", "Biology", "--subject", "Science", "--grade-level", "10", "--lab", "--core")
	assert.Contains(t, out, "Added Biology (grade 10)")
	id := lastField(t, out, "Added Biology")

	out = mustRun(t, "course", "list", "-s", "stu-1")
	assert.Contains(t, out, "Biology")
	assert.Contains(t, out, "IP")

	out = mustRun(t, "course", "grade", id, "A-", "-s", "stu-1")
	assert.Contains(t, out, "Biology: A-")

	out = mustRun(t, "course", "grade", id, "--clear", "-s", "stu-1")
	assert.Contains(t, out, "grade cleared")

	mustRun(t, "course", "archive", id, "-s", "stu-1")
	out = mustRun(t, "course", "list", "-s", "stu-1")
	assert.Contains(t, out, "No courses found.")

	out = mustRun(t, "course", "list", "--all", "-s", "stu-1")
	assert.Contains(t, out, "archived")
}

func TestCourseGrade_ArgumentErrors(t *testing.T) {
	isolate(t)

	_, err := run(t, "course", "grade", "c-1", "-s", "stu-1")
	assert.Equal(t, 2, ExitCode(err))

	_, err = run(t, "course", "grade", "c-1", "A", "--clear", "-s", "stu-1")
	assert.Equal(t, 2, ExitCode(err))
}

func TestExitCodes_FromCommands(t *testing.T) {
	isolate(t)

	_, err := run(t, "course", "list")
	assert.Equal(t, 2, ExitCode(err), "missing student")

	_, err = run(t, "course", "add", "-s", "stu-1", "--title", "Art", "--subject", "Painting", "--grade-level", "9")
	assert.Equal(t, 2, ExitCode(err), "unknown subject")

	_, err = run(t, "course", "list", "-s", "stu-1", "--actor", "stranger")
	assert.Equal(t, 3, ExitCode(err))

	_, err = run(t, "course", "archive", "missing", "-s", "stu-1")
	assert.Equal(t, 4, ExitCode(err))
}

func TestGuardianCommands(t *testing.T) {
	isolate(t)

	_, err := run(t, "guardian", "link", "mom", "stu-1", "--actor", "stranger")
	assert.Equal(t, 3, ExitCode(err))

	out := mustRun(t, "guardian", "link", "mom", "stu-1")
	assert.Contains(t, out, "mom may now act for stu-1")

	out = mustRun(t, "guardian", "students", "mom")
	assert.Contains(t, out, "stu-1")

	mustRun(t, "course", "from-template", "Geometry", "--grade-level", "10", "-s", "stu-1", "--actor", "mom")
	out = mustRun(t, "course", "list", "-s", "stu-1", "--actor", "mom")
	assert.Contains(t, out, "Geometry")
}

func TestAttemptAndMastery(t *testing.T) {
	isolate(t)

	out := mustRun(t, "course", "from-template", "Algebra I", "--grade-level", "9", "-s", "stu-1")
	courseID := lastField(t, out, "Added Algebra I")

	out = mustRun(t, "objective", "add", courseID, "Solve linear equations", "Graph lines", "-s", "stu-1")
	objID := lastField(t, out, "Solve linear equations")

	out = mustRun(t, "attempt", objID, "correct", "--hints", "1", "--answer", "x=3", "-s", "stu-1")
	assert.Contains(t, out, "Mastery 85.0 after 1 attempts")

	_, err := run(t, "attempt", objID, "maybe", "-s", "stu-1")
	assert.Equal(t, 2, ExitCode(err))

	_, err = run(t, "attempt", "missing", "correct", "-s", "stu-1")
	assert.Equal(t, 4, ExitCode(err))

	out = mustRun(t, "mastery", courseID, "-s", "stu-1")
	assert.Contains(t, out, "85.0")
	assert.Contains(t, out, "Not started")

	_, err = run(t, "mastery", courseID, "-s", "stu-2")
	assert.Equal(t, 4, ExitCode(err), "course belongs to another student")

	out = mustRun(t, "mastery", "history", objID, "-s", "stu-1")
	assert.Contains(t, out, "x=3")
}

func TestExplanationText(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "answer.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Slope is rise over run.\n"), 0o644))

	resetFlags(rootCmd)
	text, err := explanationText(explainCmd, []string{"Slope", "is", "steepness"})
	require.NoError(t, err)
	assert.Equal(t, "Slope is steepness", text)

	require.NoError(t, explainCmd.Flags().Set("file", path))
	t.Cleanup(func() { resetFlags(rootCmd) })

	text, err = explanationText(explainCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "Slope is rise over run.", text)

	_, err = explanationText(explainCmd, []string{"extra"})
	assert.True(t, academic.IsValidation(err))
}

func TestPlanCommands(t *testing.T) {
	isolate(t)

	out := mustRun(t, "plan")
	assert.Contains(t, out, "Standard Plan (22 courses)")

	out = mustRun(t, "plan", "templates", "spanish")
	assert.Contains(t, out, "Spanish I")
	assert.NotContains(t, out, "French")

	out = mustRun(t, "plan", "templates", "xyzzy")
	assert.Contains(t, out, "No templates match")

	out = mustRun(t, "plan", "apply", "-s", "stu-1")
	assert.Contains(t, out, "Created 22 courses, skipped 0")

	out = mustRun(t, "plan", "apply", "-s", "stu-1")
	assert.Contains(t, out, "Created 0 courses, skipped 22")
}

func TestProgressAndTranscript(t *testing.T) {
	isolate(t)

	out := mustRun(t, "course", "add", "-s", "stu-1",
		"--title", "English 9", "--subject", "English", "--grade-level", "9", "--core", "--grade", "A")
	require.Contains(t, out, "Added English 9")

	out = mustRun(t, "progress", "-s", "stu-1")
	assert.Contains(t, out, "Admission Requirements")
	assert.Contains(t, out, "Eligibility")
	assert.Contains(t, out, "Core GPA: 4.00")

	out = mustRun(t, "progress", "--bars", "-s", "stu-1")
	assert.Contains(t, out, "1/4")

	out = mustRun(t, "transcript", "-s", "stu-1")
	assert.Contains(t, out, "English 9 *")
	assert.Contains(t, out, "Cumulative GPA: 4.00")
	assert.Contains(t, out, "No courses recorded.")

	path := filepath.Join(t.TempDir(), "transcript.xlsx")
	mustRun(t, "transcript", "export", path, "-s", "stu-1")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Transcript", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Official High School Transcript", title)
}

func TestCatalogCommands(t *testing.T) {
	isolate(t)

	out := mustRun(t, "catalog")
	assert.Contains(t, out, "builtin-1")
	assert.Contains(t, out, "admission")
	assert.Contains(t, out, "eligibility")

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: district-2026\nadmission:\n  english: 3\n"), 0o644))

	out = mustRun(t, "catalog", "check", path)
	assert.Contains(t, out, "district-2026")

	out = mustRun(t, "catalog", "--catalog", path)
	assert.Contains(t, out, "district-2026")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("admission:\n  english: -1\n"), 0o644))
	_, err := run(t, "catalog", "check", bad)
	assert.Error(t, err)
}

func TestLLMCommands_Empty(t *testing.T) {
	isolate(t)

	out := mustRun(t, "llm", "list")
	assert.Contains(t, out, "No LLM events found.")

	out = mustRun(t, "llm", "stats")
	assert.Contains(t, out, "No LLM usage recorded yet.")

	_, err := run(t, "llm", "view", "7")
	assert.Equal(t, 4, ExitCode(err))

	_, err = run(t, "llm", "view", "seven")
	assert.Equal(t, 2, ExitCode(err))
}

func TestVersion(t *testing.T) {
	isolate(t)
	out := mustRun(t, "version")
	assert.Equal(t, "homeroom (devel)\n", out)
}
