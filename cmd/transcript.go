package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/transcript"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Print the four-year transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Transcript(cmd.Context(), actorID, studentID)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		heading(w, "Official High School Transcript")
		printLine(w, "Student: "+t.StudentID)
		fmt.Fprintln(w)

		for _, y := range t.Years {
			printLine(w, theme.Subtitle.Render(fmt.Sprintf("Grade %d", y.GradeLevel)))
			if len(y.Lines) == 0 {
				printLine(w, theme.Hint.Render("No courses recorded."))
				continue
			}
			tbl := newTable("Course Title", "Grade", "Credit")
			for _, l := range y.Lines {
				tbl.Row(l.DisplayTitle(), l.Grade, formatCredits(l.Credits))
			}
			printLine(w, tbl.Render())
		}

		fmt.Fprintln(w)
		printLine(w, fmt.Sprintf("Cumulative GPA: %s", t.GPA.String()))
		printLine(w, fmt.Sprintf("Total Credits: %s", formatCredits(t.TotalCredits)))
		for _, n := range transcript.Notes {
			printLine(w, theme.Hint.Render(n))
		}
		return nil
	},
}

var transcriptExportCmd = &cobra.Command{
	Use:   "export <path.xlsx>",
	Short: "Write the transcript as an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Transcript(cmd.Context(), actorID, studentID)
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()

		if err := transcript.WriteXLSX(f, t); err != nil {
			return err
		}
		logger.Info("transcript exported", zap.String("path", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	transcriptCmd.AddCommand(transcriptExportCmd)
}
