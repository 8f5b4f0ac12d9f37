package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/datavet/datavet/internal/catalog"
	"github.com/datavet/datavet/internal/expect"
	"github.com/datavet/datavet/internal/project"
	"github.com/datavet/datavet/internal/results"
	"github.com/datavet/datavet/internal/runner"
	"github.com/datavet/datavet/internal/suite"
)

var (
	flagRunID   string
	flagStrict  bool
	flagWorkers int
)

// validateCmd runs every suite in the catalog against its dataset.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every suite-bearing dataset in the catalog",
	Long: `Loads each dataset that carries an expectations_suite key, runs its
suite, and writes results under
datavet/uncommitted/validations/<run-id>/. In strict mode the first
failed suite aborts the run with an error.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagRunID, "run-id", "",
		"tag grouping this run's validation artifacts (default: fresh UUID)")
	validateCmd.Flags().BoolVar(&flagStrict, "strict", true,
		"abort on the first failed suite")
	validateCmd.Flags().IntVar(&flagWorkers, "workers", 0,
		"concurrent dataset validations (default $DATAVET_WORKERS or 4)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := settings()
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if !cmd.Flags().Changed("strict") {
		flagStrict = cfg.StrictMode
	}
	workers := flagWorkers
	if workers <= 0 {
		workers = cfg.ValidateWorkers
	}
	runID := flagRunID
	if runID == "" {
		runID = uuid.NewString()
	}

	cat, err := catalog.Load(cfg.ConfDir)
	if err != nil {
		return logAndReturn(err)
	}
	proj, err := project.Ensure(cfg.ProjectDir, cfg.DataDir)
	if err != nil {
		return logAndReturn(err)
	}
	engine, err := expect.NewEngine(cfg.PartialListMax)
	if err != nil {
		return logAndReturn(err)
	}
	suites, err := suite.NewCache(cfg.SuiteCacheItems)
	if err != nil {
		return logAndReturn(err)
	}

	r := &runner.Runner{
		Catalog:    cat,
		Project:    proj,
		Engine:     engine,
		Store:      results.NewStore(proj),
		Suites:     suites,
		RunID:      runID,
		StrictMode: flagStrict,
		Workers:    workers,
	}
	summary, err := r.Run(cmd.Context())
	if err != nil {
		return logAndReturn(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: validated %d dataset(s)\n", summary.RunID, len(summary.Validated))
	for _, name := range summary.Failed {
		fmt.Fprintf(out, "errored: %s\n", name)
	}
	return nil
}
