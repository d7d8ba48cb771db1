package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var objectiveCmd = &cobra.Command{
	Use:   "objective",
	Short: "Manage a course's learning objectives",
}

var objectiveAddCmd = &cobra.Command{
	Use:   "add <course-id> <description>...",
	Short: "Create a course's objective map",
	Long: "Create the ordered objective map for a course, one objective per argument.\n" +
		"A course that already has objectives keeps them.",
	Args: cobra.MinimumNArgs(2),
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

		objs, err := a.AddObjectives(cmd.Context(), actorID, args[0], args[1:])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, o := range objs {
			fmt.Fprintf(w, "%d. %s  %s\n", o.Order+1, o.Description, o.ID)
		}
		return nil
	},
}

var objectiveListCmd = &cobra.Command{
	Use:   "list <course-id>",
	Short: "List a course's objectives",
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

		objs, err := a.Objectives(cmd.Context(), actorID, args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(objs) == 0 {
			fmt.Fprintln(w, "No objectives found.")
			return nil
		}
		t := newTable("#", "ID", "Objective")
		for _, o := range objs {
			t.Row(strconv.Itoa(o.Order+1), o.ID, o.Description)
		}
		printLine(w, t.Render())
		return nil
	},
}

func init() {
	objectiveCmd.AddCommand(objectiveAddCmd)
	objectiveCmd.AddCommand(objectiveListCmd)
}
