package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeroom/internal/planner"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the standard four-year plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		plan := planner.StandardPlan()
		heading(w, fmt.Sprintf("Standard Plan (%d courses)", plan.Size()))
		for _, y := range plan {
			printLine(w, theme.Subtitle.Render(fmt.Sprintf("Grade %d", y.GradeLevel)))
			for _, title := range y.Titles {
				printLine(w, "  "+title)
			}
		}
		return nil
	},
}

var planApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Add the standard plan's courses the student does not have yet",
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

		res, err := a.ApplyPlan(cmd.Context(), actorID, studentID, planner.StandardPlan())
		w := cmd.OutOrStdout()
		for _, c := range res.Created {
			printLine(w, fmt.Sprintf("%s grade %d  %s", theme.Check(true), c.GradeLevel, c.Title))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Created %d courses, skipped %d already present.\n", len(res.Created), len(res.Skipped))
		return nil
	},
}

var planTemplatesCmd = &cobra.Command{
	Use:   "templates [query]",
	Short: "List or search course templates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) == 1 {
			query = args[0]
		}
		templates := planner.SearchTemplates(query)

		w := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintf(w, "No templates match %q.\n", query)
			return nil
		}
		t := newTable("Title", "Subject", "Credits", "Lab", "Core")
		for _, tmpl := range templates {
			t.Row(tmpl.Title, tmpl.Subject.DisplayName(), formatCredits(tmpl.Credits), yesNo(tmpl.Lab), yesNo(tmpl.Core))
		}
		printLine(w, t.Render())
		printLine(w, theme.Hint.Render(strconv.Itoa(len(templates))+" templates"))
		return nil
	},
}

func init() {
	planCmd.AddCommand(planApplyCmd)
	planCmd.AddCommand(planTemplatesCmd)
}
