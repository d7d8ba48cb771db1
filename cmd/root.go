package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/homeroom/internal/academic"
	"github.com/abhisek/homeroom/internal/app"
	"github.com/abhisek/homeroom/internal/config"
	"github.com/abhisek/homeroom/internal/logging"
	"github.com/abhisek/homeroom/internal/requirements"
	"github.com/abhisek/homeroom/internal/store"
)

var (
	cfg      config.Config
	logger   = zap.NewNop()
	logClose = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "homeroom",
	Short: "Homeschool course and mastery tracker",
	Long: "Homeroom tracks a homeschooled student's courses, objective mastery, admission and " +
		"eligibility requirements, and produces a four-year transcript.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		l, closeFn, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger, logClose = l, closeFn
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logClose()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch academic.CodeOf(err) {
	case "":
		return 0
	case academic.CodeValidation:
		return 2
	case academic.CodeUnauthorized:
		return 3
	case academic.CodeNotFound:
		return 4
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HOMEROOM_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML requirement catalog (overrides HOMEROOM_CATALOG env var)")
	rootCmd.PersistentFlags().StringP("student", "s", "", "Student ID (overrides HOMEROOM_STUDENT env var)")
	rootCmd.PersistentFlags().String("actor", "", "Acting user ID; defaults to the student (overrides HOMEROOM_ACTOR env var)")

	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(objectiveCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(masteryCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(transcriptCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(guardianCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HOMEROOM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// resolveCatalog builds the catalog from --catalog, falling back to the
// HOMEROOM_CATALOG file or the env thresholds.
func resolveCatalog(cmd *cobra.Command) (*requirements.Catalog, error) {
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		return requirements.LoadCatalog(p, cfg.Thresholds())
	}
	return cfg.Catalog()
}

// identity returns the acting user and the student being acted on.
func identity(cmd *cobra.Command) (actorID, studentID string, err error) {
	studentID, _ = cmd.Flags().GetString("student")
	if studentID == "" {
		studentID = cfg.StudentID
	}
	if studentID == "" {
		return "", "", &academic.ValidationError{Field: "student", Value: "", Reason: "set --student or HOMEROOM_STUDENT"}
	}
	actorID, _ = cmd.Flags().GetString("actor")
	if actorID == "" {
		actorID = cfg.ActorID
	}
	if actorID == "" {
		actorID = studentID
	}
	return actorID, studentID, nil
}

// actor returns the acting user for commands addressed by record ID.
func actor(cmd *cobra.Command) (string, error) {
	a, _ := cmd.Flags().GetString("actor")
	if a == "" {
		a = cfg.ActorID
	}
	if a == "" {
		a, _ = cmd.Flags().GetString("student")
	}
	if a == "" {
		a = cfg.StudentID
	}
	if a == "" {
		return "", &academic.ValidationError{Field: "actor", Value: "", Reason: "set --actor or --student"}
	}
	return a, nil
}

// openApp opens the database and wires the services.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	cat, err := resolveCatalog(cmd)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a, err := app.New(app.Options{
		Config:  cfg,
		DSN:     dbPath,
		Catalog: cat,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return a, nil
}
