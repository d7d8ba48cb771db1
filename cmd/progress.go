package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeroom/internal/requirements"
	"github.com/abhisek/homeroom/internal/ui/components"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show admission and eligibility progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, studentID, err := identity(cmd)
		if err != nil {
			return err
		}
		bars, _ := cmd.Flags().GetBool("bars")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Progress(cmd.Context(), actorID, studentID)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		heading(w, "Admission Requirements")
		if bars {
			for _, s := range p.Admission.All() {
				bar := components.NewCreditBar(s.Name, s.Current, s.Required, 30)
				printLine(w, fmt.Sprintf("%s %-28s %s", theme.Check(s.Met), s.Name, bar.View()))
			}
		} else {
			t := newTable("", "Requirement", "Credits", "Required")
			for _, s := range p.Admission.All() {
				t.Row(theme.Check(s.Met), s.Name, formatCredits(s.Current), formatCredits(s.Required))
			}
			printLine(w, t.Render())
		}
		printStatusNotes(w, p.Admission.All())
		fmt.Fprintln(w)

		heading(w, "Eligibility")
		t := newTable("", "Rule", "Progress")
		for _, s := range []requirements.Status{p.Eligibility.TotalCore, p.Eligibility.EarlyLock} {
			msg := s.Message
			if msg == "" {
				msg = formatCredits(s.Current) + "/" + formatCredits(s.Required)
			}
			t.Row(theme.Check(s.Met), s.Name, msg)
		}
		printLine(w, t.Render())
		printLine(w, fmt.Sprintf("Core GPA: %s", p.Eligibility.GPA.String()))
		printLine(w, theme.Hint.Render("Catalog "+p.CatalogVersion))
		return nil
	},
}

// printStatusNotes prints the secondary clauses of compound rules.
func printStatusNotes(w io.Writer, statuses []requirements.Status) {
	for _, s := range statuses {
		for _, cl := range []*requirements.ClauseStatus{s.Alternate, s.Subset} {
			if cl == nil {
				continue
			}
			printLine(w, theme.Hint.Render(fmt.Sprintf("  %s: %s %s/%s",
				s.Name, cl.Label, formatCredits(cl.Current), formatCredits(cl.Required))))
		}
	}
}

func init() {
	progressCmd.Flags().Bool("bars", false, "Render admission credits as progress bars")
}
