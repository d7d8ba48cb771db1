package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Manage the course ledger",
}

var courseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a course",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		subjectName, _ := cmd.Flags().GetString("subject")
		credits, _ := cmd.Flags().GetFloat64("credits")
		level, _ := cmd.Flags().GetInt("grade-level")
		termName, _ := cmd.Flags().GetString("term")
		lab, _ := cmd.Flags().GetBool("lab")
		core, _ := cmd.Flags().GetBool("core")
		grade, _ := cmd.Flags().GetString("grade")

		subject, err := academic.ParseSubject(subjectName)
		if err != nil {
			return err
		}
		term, err := academic.ParseTerm(termName)
		if err != nil {
			return err
		}

		c := academic.Course{
			StudentID:       studentID,
			Title:           title,
			Subject:         subject,
			Credits:         credits,
			GradeLevel:      level,
			Term:            term,
			LabScience:      lab,
			EligibilityCore: core,
		}
		if grade != "" {
			c.Grade = academic.GradePtr(grade)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err = a.AddCourse(cmd.Context(), actorID, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (grade %d) %s\n", c.Title, c.GradeLevel, c.ID)
		return nil
	},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		courses, err := a.Courses(cmd.Context(), actorID, studentID, all)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(courses) == 0 {
			fmt.Fprintln(w, "No courses found.")
			return nil
		}

		t := newTable("ID", "Grade", "Title", "Subject", "Credits", "Term", "Lab", "Core", "Final")
		for _, c := range courses {
			final := c.LetterGrade()
			if final == "" {
				final = "IP"
			}
			title := c.Title
			if c.Archived {
				title += theme.Hint.Render(" (archived)")
			}
			t.Row(c.ID, strconv.Itoa(c.GradeLevel), title, c.Subject.DisplayName(),
				formatCredits(c.Credits), string(c.Term), yesNo(c.LabScience), yesNo(c.EligibilityCore), final)
		}
		printLine(w, t.Render())
		return nil
	},
}

var courseGradeCmd = &cobra.Command{
	Use:   "grade <course-id> [letter]",
	Short: "Set or clear a course's final grade",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clearGrade, _ := cmd.Flags().GetBool("clear")

		var grade *string
		switch {
		case len(args) == 2 && clearGrade:
			return &academic.ValidationError{Field: "grade", Value: args[1], Reason: "cannot combine a letter with --clear"}
		case len(args) == 2:
			grade = academic.GradePtr(args[1])
		case !clearGrade:
			return &academic.ValidationError{Field: "grade", Value: "", Reason: "give a letter grade or --clear"}
		}

		actorID, err := actor(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.SetGrade(cmd.Context(), actorID, args[0], grade)
		if err != nil {
			return err
		}
		if c.Graded() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Title, c.LetterGrade())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: grade cleared\n", c.Title)
		}
		return nil
	},
}

var courseArchiveCmd = &cobra.Command{
	Use:   "archive <course-id>",
	Short: "Archive a course; it stays on the transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, err := actor(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ArchiveCourse(cmd.Context(), actorID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
		return nil
	},
}

var courseFromTemplateCmd = &cobra.Command{
	Use:   "from-template <title>",
	Short: "Add a course from the template catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetInt("grade-level")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.AddFromTemplate(cmd.Context(), actorID, studentID, args[0], level)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (grade %d) %s\n", c.Title, c.GradeLevel, c.ID)
		return nil
	},
}

func init() {
	f := courseAddCmd.Flags()
	f.String("title", "", "Course title")
	f.String("subject", "", "Subject: English, Math, Science, SocialScience, WorldLanguage, Arts, Elective")
	f.Float64("credits", 1, "Credits earned on completion")
	f.Int("grade-level", 0, "Grade level (9-12)")
	f.String("term", string(academic.TermYear), "Term: Year, Fall, Spring, Summer")
	f.Bool("lab", false, "Lab science course")
	f.Bool("core", false, "Counts toward the eligibility core")
	f.String("grade", "", "Final letter grade, if already complete")

	courseListCmd.Flags().Bool("all", false, "Include archived courses")
	courseGradeCmd.Flags().Bool("clear", false, "Clear the final grade")
	courseFromTemplateCmd.Flags().Int("grade-level", 0, "Grade level (9-12)")

	courseCmd.AddCommand(courseAddCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseGradeCmd)
	courseCmd.AddCommand(courseArchiveCmd)
	courseCmd.AddCommand(courseFromTemplateCmd)
}
