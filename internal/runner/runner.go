// Package runner validates every suite-bearing dataset in a catalog in
// one pass.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/datavet/datavet/internal/catalog"
	"github.com/datavet/datavet/internal/dataset"
	"github.com/datavet/datavet/internal/expect"
	"github.com/datavet/datavet/internal/project"
	"github.com/datavet/datavet/internal/results"
	"github.com/datavet/datavet/internal/suite"
	"github.com/datavet/datavet/internal/transformer"
)

// Runner fans dataset validations out over a bounded worker pool.
type Runner struct {
	Catalog    catalog.Catalog
	Project    *project.Context
	Engine     *expect.Engine
	Store      *results.Store
	Suites     *suite.Cache
	RunID      string
	StrictMode bool
	Workers    int
}

// Summary reports what one run validated.
type Summary struct {
	RunID     string
	Validated []string // dataset names that were checked
	Failed    []string // dataset names whose validation errored (non-strict runs only)
}

// Run loads and validates every dataset with an attached suite. Strict
// mode returns on the first failure and cancels in-flight work; otherwise
// failures are collected in the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	refs := r.Catalog.SuiteRefs()
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	summary := &Summary{RunID: r.RunID}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, name := range names {
		name := name
		g.Go(func() error {
			err := r.validateOne(ctx, name, refs[name])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if r.StrictMode {
					return err
				}
				summary.Failed = append(summary.Failed, name)
				slog.Warn("dataset validation errored", "dataset", name, "error", err)
				return nil
			}
			summary.Validated = append(summary.Validated, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(summary.Validated)
	sort.Strings(summary.Failed)
	return summary, nil
}

func (r *Runner) validateOne(ctx context.Context, name, suitePath string) error {
	entry, ok := r.Catalog[name]
	if !ok {
		return fmt.Errorf("dataset %s not in catalog", name)
	}
	ds, err := dataset.FromEntry(name, entry)
	if err != nil {
		return err
	}

	ev := transformer.NewEvaluator(transformer.Config{
		Project:     r.Project,
		Engine:      r.Engine,
		Store:       r.Store,
		Suites:      r.Suites,
		DatasetName: name,
		DatasetPath: ds.Filepath(),
		SuitePath:   suitePath,
		RunID:       r.RunID,
		StrictMode:  r.StrictMode,
	})
	_, err = ev.Load(ctx, ds.Load)
	return err
}
