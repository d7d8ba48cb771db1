package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var masteryCmd = &cobra.Command{
	Use:   "mastery <course-id>",
	Short: "Show objective mastery for a course",
	Args:  cobra.ExactArgs(1),
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

		progress, err := a.Recorder().Progress(cmd.Context(), actorID, studentID, args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(progress) == 0 {
			fmt.Fprintln(w, "No objectives found.")
			return nil
		}

		t := newTable("#", "Objective", "Mastery", "Explanation", "Attempts", "Hints", "State")
		for _, p := range progress {
			t.Row(
				strconv.Itoa(p.Objective.Order+1),
				truncate(p.Objective.Description, 48),
				formatScore(p.Mastery.MasteryScore),
				formatScore(p.Mastery.ExplanationScore),
				strconv.Itoa(p.Mastery.NumAttempts),
				strconv.Itoa(p.Mastery.NumHintsUsed),
				stateLabel(p.State),
			)
		}
		printLine(w, t.Render())
		return nil
	},
}

var masteryHistoryCmd = &cobra.Command{
	Use:   "history <objective-id>",
	Short: "Show the attempt ledger for one objective",
	Args:  cobra.ExactArgs(1),
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

		attempts, err := a.Recorder().History(cmd.Context(), actorID, studentID, args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(w, "No attempts recorded.")
			return nil
		}

		t := newTable("Seq", "Time", "Result", "Hints", "Answer")
		for _, at := range attempts {
			t.Row(
				strconv.FormatInt(at.Sequence, 10),
				at.CreatedAt.Local().Format("2006-01-02 15:04"),
				theme.Check(at.Correct),
				strconv.Itoa(at.HintsUsed),
				rawAnswer(at),
			)
		}
		printLine(w, t.Render())
		return nil
	},
}

func rawAnswer(a academic.QuestionAttempt) string {
	if a.RawAnswer == nil {
		return ""
	}
	return truncate(*a.RawAnswer, 40)
}

func init() {
	masteryCmd.AddCommand(masteryHistoryCmd)
}
