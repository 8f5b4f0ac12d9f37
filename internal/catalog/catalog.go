// Package catalog loads the pipeline's merged data catalog and scans it
// for expectation-suite references.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SuiteKey is the catalog entry key that attaches an expectation suite to
// a dataset.
const SuiteKey = "expectations_suite"

// Entry is one dataset's raw catalog configuration.
type Entry map[string]any

// Type returns the dataset type ("csv", "json", "parquet", ...).
func (e Entry) Type() string {
	t, _ := e["type"].(string)
	return t
}

// Filepath returns the dataset's file path.
func (e Entry) Filepath() string {
	p, _ := e["filepath"].(string)
	return p
}

// SuitePath returns the expectation-suite path, or "" when the entry has
// no suite attached.
func (e Entry) SuitePath() string {
	s, _ := e[SuiteKey].(string)
	return s
}

// Catalog maps dataset names to their entries.
type Catalog map[string]Entry

// Load reads and merges every catalog*.yml / catalog*.yaml file under
// confDir, including nested catalog*/ directories. Files merge in
// lexicographic path order; a later file replaces earlier entries with
// the same dataset name wholesale.
func Load(confDir string) (Catalog, error) {
	var paths []string
	err := filepath.WalkDir(confDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := d.Name()
		ext := filepath.Ext(base)
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}
		rel, relErr := filepath.Rel(confDir, p)
		if relErr != nil {
			return relErr
		}
		// catalog*.yml at any depth, or anything inside a catalog*/ dir.
		if strings.HasPrefix(base, "catalog") || strings.HasPrefix(rel, "catalog") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", confDir, err)
	}
	sort.Strings(paths)

	merged := make(Catalog)
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var part map[string]Entry
		if err := yaml.Unmarshal(raw, &part); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		for name, entry := range part {
			merged[name] = entry
		}
	}
	return merged, nil
}

// SuiteRefs returns dataset→suite-path for exactly the entries that carry
// an expectations_suite key.
func (c Catalog) SuiteRefs() map[string]string {
	refs := make(map[string]string)
	for name, entry := range c {
		if _, ok := entry[SuiteKey]; ok {
			refs[name] = entry.SuitePath()
		}
	}
	return refs
}

// StripSuiteKey returns a copy of the catalog with the expectations_suite
// key removed from every entry and everything else preserved. The result
// is safe to hand to the pipeline's own catalog schema validation.
func (c Catalog) StripSuiteKey() Catalog {
	out := make(Catalog, len(c))
	for name, entry := range c {
		stripped := make(Entry, len(entry))
		for k, v := range entry {
			if k != SuiteKey {
				stripped[k] = v
			}
		}
		out[name] = stripped
	}
	return out
}

// Names returns the dataset names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
