package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var guardianCmd = &cobra.Command{
	Use:   "guardian",
	Short: "Manage guardian links",
}

var guardianLinkCmd = &cobra.Command{
	Use:   "link <guardian-id> <student-id>",
	Short: "Allow a guardian to act for a student",
	Long: "Link a guardian to a student. The acting user (--actor, defaulting to the\n" +
		"student) must already be allowed to act for the student.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		guardianID, studentID := args[0], args[1]
		actorID, _ := cmd.Flags().GetString("actor")
		if actorID == "" {
			actorID = cfg.ActorID
		}
		if actorID == "" {
			actorID = studentID
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Authorize(cmd.Context(), actorID, studentID); err != nil {
			return err
		}
		if err := a.Store().LinkGuardian(cmd.Context(), guardianID, studentID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s may now act for %s\n", guardianID, studentID)
		return nil
	},
}

var guardianStudentsCmd = &cobra.Command{
	Use:   "students <guardian-id>",
	Short: "List the students a guardian may act for",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		students, err := a.Store().Students(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(students) == 0 {
			fmt.Fprintln(w, "No linked students.")
			return nil
		}
		for _, s := range students {
			fmt.Fprintln(w, s)
		}
		return nil
	},
}

func init() {
	guardianCmd.AddCommand(guardianLinkCmd)
	guardianCmd.AddCommand(guardianStudentsCmd)
}
