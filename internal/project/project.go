// Package project manages the validation project directory: the scaffold
// that holds copied expectation suites and per-run validation results,
// and the datasource registry that mirrors the pipeline's data layout.
package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datavet/datavet/pkg/types"
)

const (
	// DirName is the project directory created next to the pipeline.
	DirName = "datavet"
	// MarkerFile marks an initialized project; Ensure is a no-op when it exists.
	MarkerFile = "datavet.yml"

	expectationsDir = "expectations"
	uncommittedDir  = "uncommitted"
	validationsDir  = "validations"

	// DefaultDatasource is the single datasource registered on first run.
	DefaultDatasource = "data"
)

// Context is an initialized validation project.
type Context struct {
	Root    string // the datavet/ directory
	DataDir string // the pipeline data directory the datasource mirrors
}

type markerConfig struct {
	ConfigVersion int                   `yaml:"config_version"`
	Datasources   map[string]datasource `yaml:"datasources"`
}

type datasource struct {
	Class      string               `yaml:"class"`
	Generators map[string]generator `yaml:"generators"`
}

type generator struct {
	BaseDirectory string `yaml:"base_directory"`
}

// Ensure opens the validation project under baseDir, creating and
// initializing it on first run. Idempotent: when the marker file already
// exists nothing is touched.
func Ensure(baseDir, dataDir string) (*Context, error) {
	ctx := &Context{Root: filepath.Join(baseDir, DirName), DataDir: dataDir}

	marker := filepath.Join(ctx.Root, MarkerFile)
	if _, err := os.Stat(marker); err == nil {
		return ctx, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	slog.Info("building validation project directory", "root", ctx.Root)
	for _, dir := range []string{
		filepath.Join(ctx.Root, expectationsDir),
		filepath.Join(ctx.Root, uncommittedDir, validationsDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	generators, err := scanGenerators(dataDir)
	if err != nil {
		return nil, err
	}
	cfg := markerConfig{
		ConfigVersion: 1,
		Datasources: map[string]datasource{
			DefaultDatasource: {Class: "subdir_reader", Generators: generators},
		},
	}
	raw, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(marker, raw, 0o644); err != nil {
		return nil, err
	}
	return ctx, nil
}

// scanGenerators registers one generator per top-level subdirectory of the
// data dir, or a single generator for the data dir itself when it has no
// subdirectories.
func scanGenerators(dataDir string) (map[string]generator, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning data directory: %w", err)
	}
	generators := make(map[string]generator)
	for _, e := range entries {
		if e.IsDir() {
			generators[e.Name()] = generator{BaseDirectory: filepath.Join(dataDir, e.Name())}
		}
	}
	if len(generators) == 0 {
		name := filepath.Base(dataDir)
		generators[name] = generator{BaseDirectory: dataDir}
	}
	return generators, nil
}

// NormalizeAsset converts a dataset file path into the project's
// datasource/generator/asset naming. The data-dir prefix becomes the
// generator and the file extension is dropped:
// data/01_raw/trains.csv -> {data, 01_raw, trains}.
func (c *Context) NormalizeAsset(filePath string) (types.AssetName, error) {
	rel, err := filepath.Rel(c.DataDir, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return types.AssetName{}, fmt.Errorf("dataset path %q is outside the data directory %q", filePath, c.DataDir)
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	name := types.AssetName{Datasource: DefaultDatasource}
	if len(parts) == 1 {
		name.Generator = filepath.Base(c.DataDir)
	} else {
		name.Generator = parts[0]
		parts = parts[1:]
	}
	asset := strings.Join(parts, "/")
	name.Asset = strings.TrimSuffix(asset, filepath.Ext(asset))
	return name, nil
}

// ExpectationsPath is the directory a suite file is copied into for the
// given asset.
func (c *Context) ExpectationsPath(a types.AssetName) string {
	return filepath.Join(c.Root, expectationsDir, a.Datasource, a.Generator, filepath.FromSlash(a.Asset))
}

// ValidationsRoot is the per-run validation results root.
func (c *Context) ValidationsRoot() string {
	return filepath.Join(c.Root, uncommittedDir, validationsDir)
}

// ValidationsPath is the directory validation results are written to for
// the given run and asset.
func (c *Context) ValidationsPath(runID string, a types.AssetName) string {
	return filepath.Join(c.ValidationsRoot(), runID, a.Datasource, a.Generator, filepath.FromSlash(a.Asset))
}
