package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datavet/datavet/internal/project"
)

// initCmd scaffolds the validation project directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the datavet/ project directory",
	Long: `Creates the validation project directory with its expectations and
validations layout, and registers a datasource mirroring the pipeline's
data directories. A no-op when the project already exists.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := settings()
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	proj, err := project.Ensure(cfg.ProjectDir, cfg.DataDir)
	if err != nil {
		return logAndReturn(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "project ready at %s\n", proj.Root)
	return nil
}
