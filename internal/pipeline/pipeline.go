// Package pipeline runs one publication sync: fetch both sources, reconcile
// them into a canonical set, and converge the output directory to it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matsen/pubsync/internal/content"
	"github.com/matsen/pubsync/internal/logger"
	"github.com/matsen/pubsync/internal/publication"
	"github.com/matsen/pubsync/internal/reconcile"
)

// Sentinel errors classify a failed run.
var (
	ErrRegistry = errors.New("registry fetch failed")
	ErrPersist  = errors.New("persisting publications failed")
)

// RegistrySource is the primary source. Its failure aborts the run.
type RegistrySource interface {
	FetchWorks(ctx context.Context) ([]publication.Publication, error)
}

// IndexSource is the secondary source. It reports problems by returning
// no records.
type IndexSource interface {
	FetchWorks(ctx context.Context) []publication.Publication
}

// enabler is implemented by index sources that can be switched off.
type enabler interface {
	Enabled() bool
}

// Report describes a completed run.
type Report struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	RegistryCount int
	IndexCount    int
	MergedCount   int
	IndexSkipped  bool
	DryRun        bool
	Plan          *content.Plan
	Counts        content.Counts
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithDryRun computes the plan without applying it.
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) {
		s.dryRun = dryRun
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Syncer) {
		s.log = l
	}
}

// Syncer wires the sources to an output directory.
type Syncer struct {
	registry RegistrySource
	index    IndexSource
	dir      string
	dryRun   bool
	log      logger.Logger
	now      func() time.Time
}

// New creates a Syncer writing into dir.
func New(registry RegistrySource, index IndexSource, dir string, opts ...Option) *Syncer {
	s := &Syncer{
		registry: registry,
		index:    index,
		dir:      dir,
		log:      logger.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one sync. Both sources are fetched concurrently; nothing is
// written until both have finished and the registry has succeeded.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: s.now(), DryRun: s.dryRun}
	if e, ok := s.index.(enabler); ok {
		report.IndexSkipped = !e.Enabled()
	}

	var (
		wg       sync.WaitGroup
		registry []publication.Publication
		index    []publication.Publication
		regErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		registry, regErr = s.registry.FetchWorks(ctx)
	}()
	go func() {
		defer wg.Done()
		index = s.index.FetchWorks(ctx)
	}()
	wg.Wait()

	if regErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, regErr)
	}
	report.RegistryCount = len(registry)
	report.IndexCount = len(index)

	s.log.Info("Merging publications",
		logger.Int("registry", report.RegistryCount),
		logger.Int("index", report.IndexCount))
	merged := reconcile.Reconcile(registry, index)
	report.MergedCount = len(merged)

	plan, err := content.NewPlan(s.dir, merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	report.Plan = plan

	if s.dryRun {
		report.Counts = plan.Counts()
	} else {
		counts, err := plan.Apply()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersist, err)
		}
		report.Counts = counts
	}
	report.FinishedAt = s.now()

	s.log.Info("Sync complete",
		logger.String("dir", s.dir),
		logger.Int("created", report.Counts.Created),
		logger.Int("updated", report.Counts.Updated),
		logger.Int("unchanged", report.Counts.Unchanged),
		logger.Int("removed", report.Counts.Removed),
		logger.Bool("dry_run", s.dryRun),
		logger.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	return report, nil
}
