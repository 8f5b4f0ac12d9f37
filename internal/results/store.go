// Package results persists validation results into the project's per-run
// results layout.
package results

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/datavet/datavet/internal/project"
	"github.com/datavet/datavet/pkg/types"
)

// Store writes validation results under
// uncommitted/validations/<run_id>/<datasource>/<generator>/<asset>/,
// one JSON file per suite. Single writer per run directory.
type Store struct {
	project *project.Context
}

// NewStore creates a store over an initialized project.
func NewStore(p *project.Context) *Store {
	return &Store{project: p}
}

// Write serializes one validation result, creating directories as needed.
// The file is named after the suite. Returns the written path.
func (s *Store) Write(runID string, asset types.AssetName, result *types.ValidationResult) (string, error) {
	dir := s.project.ValidationsPath(runID, asset)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, result.Meta.SuiteName+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
