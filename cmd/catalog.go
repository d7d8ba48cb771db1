package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeroom/internal/requirements"
	"github.com/abhisek/homeroom/internal/ui/theme"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the requirement catalog in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := resolveCatalog(cmd)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		heading(w, "Requirement Catalog "+cat.Version())
		t := newTable("Standard", "Rule", "Credits", "Counts", "Also")
		for _, r := range cat.Rules() {
			t.Row(string(r.Standard), r.Name, formatCredits(r.MinCredits), describeFilter(r.Filter), describeClauses(r))
		}
		printLine(w, t.Render())
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a YAML catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := requirements.LoadCatalog(args[0], cfg.Thresholds())
		if err != nil {
			return err
		}
		printLine(cmd.OutOrStdout(), fmt.Sprintf("%s %s: catalog %s, %d rules",
			theme.Check(true), args[0], cat.Version(), len(cat.Rules())))
		return nil
	},
}

func describeFilter(f requirements.Filter) string {
	var parts []string
	if len(f.Subjects) > 0 {
		names := make([]string, len(f.Subjects))
		for i, s := range f.Subjects {
			names[i] = s.DisplayName()
		}
		parts = append(parts, strings.Join(names, "/"))
	}
	if len(f.GradeLevels) > 0 {
		levels := make([]string, len(f.GradeLevels))
		for i, l := range f.GradeLevels {
			levels[i] = strconv.Itoa(l)
		}
		parts = append(parts, "grade "+strings.Join(levels, ","))
	}
	if f.LabOnly {
		parts = append(parts, "lab")
	}
	if f.CoreOnly {
		parts = append(parts, "core")
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, " ")
}

func describeClauses(r requirements.Rule) string {
	var parts []string
	if r.Alternate != nil {
		parts = append(parts, fmt.Sprintf("or %s %s", formatCredits(r.Alternate.MinCredits), r.Alternate.Label))
	}
	if r.Subset != nil {
		parts = append(parts, fmt.Sprintf("incl. %s %s", formatCredits(r.Subset.MinCredits), r.Subset.Label))
	}
	return strings.Join(parts, "; ")
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
}
