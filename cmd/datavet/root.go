package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/datavet/datavet/internal/config"
	"github.com/datavet/datavet/internal/logging"
)

var (
	flagConf    string
	flagData    string
	flagProject string
)

var rootCmd = &cobra.Command{
	Use:   "datavet",
	Short: "Expectation-suite validation for catalog-driven data pipelines",
	Long: `datavet wraps dataset load/save operations with declarative
data-quality checks. Datasets gain checks by carrying an
expectations_suite key in the pipeline catalog; results are persisted
per run under the datavet/ project directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConf, "conf", "",
		"config directory holding catalog*.yml files (default $DATAVET_CONF_DIR or conf)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "",
		"pipeline data directory (default $DATAVET_DATA_DIR or data)")
	rootCmd.PersistentFlags().StringVar(&flagProject, "project-dir", "",
		"directory the datavet/ project lives in (default $DATAVET_PROJECT_DIR or .)")
}

// settings merges environment configuration with command-line overrides.
func settings() *config.Config {
	cfg := config.Load()
	if flagConf != "" {
		cfg.ConfDir = flagConf
	}
	if flagData != "" {
		cfg.DataDir = flagData
	}
	if flagProject != "" {
		cfg.ProjectDir = flagProject
	}
	return cfg
}

// setupLogging configures the global logger; the returned cleanup must run
// before exit.
func setupLogging(cfg *config.Config) (func() error, error) {
	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		JSON:       cfg.LogJSON,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}
	return cleanup, nil
}

func logAndReturn(err error) error {
	if err != nil {
		slog.Error("command failed", "error", err)
	}
	return err
}
