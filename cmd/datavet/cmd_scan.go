package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datavet/datavet/internal/catalog"
)

var flagStrip bool

// scanCmd inspects the catalog's expectation-suite wiring.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show which datasets have expectation suites",
	Long: `Reads the merged catalog and prints each dataset that carries an
expectations_suite key. With --strip, prints the whole catalog with that
key removed instead, in the form the pipeline's schema validation
accepts.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&flagStrip, "strip", false,
		"print the catalog with expectations_suite keys removed")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := settings()
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cat, err := catalog.Load(cfg.ConfDir)
	if err != nil {
		return logAndReturn(err)
	}

	out := cmd.OutOrStdout()
	if flagStrip {
		raw, err := yaml.Marshal(cat.StripSuiteKey())
		if err != nil {
			return logAndReturn(err)
		}
		fmt.Fprint(out, string(raw))
		return nil
	}

	refs := cat.SuiteRefs()
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s: %s\n", name, refs[name])
	}
	fmt.Fprintf(out, "%d of %d datasets have expectation suites\n", len(refs), len(cat))
	return nil
}
