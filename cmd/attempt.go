package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/mastery"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt <objective-id> correct|incorrect",
	Short: "Record one answered question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var correct bool
		switch strings.ToLower(args[1]) {
		case "correct", "c", "right":
			correct = true
		case "incorrect", "i", "wrong":
		default:
			return &academic.ValidationError{Field: "outcome", Value: args[1], Reason: "must be correct or incorrect"}
		}

		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		hints, _ := cmd.Flags().GetInt("hints")
		in := mastery.AttemptInput{
			StudentID:   studentID,
			ObjectiveID: args[0],
			Correct:     correct,
			HintsUsed:   hints,
		}
		if cmd.Flags().Changed("answer") {
			answer, _ := cmd.Flags().GetString("answer")
			in.RawAnswer = &answer
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Recorder().RecordAttempt(cmd.Context(), actorID, in)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		printLine(w, fmt.Sprintf("%s Attempt #%d recorded", theme.Check(correct), res.Attempt.Sequence))
		printLine(w, fmt.Sprintf("Mastery %s after %d attempts  %s",
			formatScore(res.Mastery.MasteryScore), res.Mastery.NumAttempts, stateLabel(res.State)))
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <objective-id> [text...]",
	Short: "Grade a written explanation and record the score",
	Long: "Send a written explanation of an objective to the configured LLM grader and\n" +
		"record the score. The text comes from the arguments, --file, or stdin when\n" +
		"the only text argument is \"-\".",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		text, err := explanationText(cmd, args[1:])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Explain(cmd.Context(), actorID, studentID, args[0], text)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		heading(w, res.Progress.Objective.Description)
		printLine(w, fmt.Sprintf("Score: %s", formatScore(res.Grade.Score)))
		if res.Grade.Feedback != "" {
			printLine(w, theme.Body.Render(res.Grade.Feedback))
		}
		if res.Grade.Strengths != "" {
			printLine(w, theme.Hint.Render("Strengths: ")+res.Grade.Strengths)
		}
		if res.Grade.Weaknesses != "" {
			printLine(w, theme.Hint.Render("Weaknesses: ")+res.Grade.Weaknesses)
		}
		printLine(w, fmt.Sprintf("Explanation %s  %s",
			formatScore(res.Progress.Mastery.ExplanationScore), stateLabel(res.Progress.State)))
		return nil
	},
}

// explanationText reads the explanation from --file, stdin or args.
func explanationText(cmd *cobra.Command, args []string) (string, error) {
	var raw []byte
	path, _ := cmd.Flags().GetString("file")
	switch {
	case path != "" && len(args) > 0:
		return "", &academic.ValidationError{Field: "explanation", Value: path, Reason: "give text or --file, not both"}
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read explanation: %w", err)
		}
		raw = b
	case len(args) == 1 && args[0] == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read explanation: %w", err)
		}
		raw = b
	default:
		raw = []byte(strings.Join(args, " "))
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", &academic.ValidationError{Field: "explanation", Value: "", Reason: "must not be empty"}
	}
	return text, nil
}

func init() {
	attemptCmd.Flags().Int("hints", 0, "Hints used before answering")
	attemptCmd.Flags().String("answer", "", "The student's raw answer")

	explainCmd.Flags().StringP("file", "f", "", "Read the explanation from a file")
}
