package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chazuruo/chaosq/internal/api"
	"github.com/chazuruo/chaosq/internal/resource"
)

// Fetcher lists the collections a search cycle reads. *api.Client
// implements it.
type Fetcher interface {
	ListWorkflows(ctx context.Context) ([]api.Workflow, error)
	ListWorkflowArchives(ctx context.Context) ([]api.Archive, error)
	ListSchedules(ctx context.Context) ([]api.Schedule, error)
	ListScheduleArchives(ctx context.Context) ([]api.Archive, error)
	ListExperiments(ctx context.Context) ([]api.Experiment, error)
	ListArchives(ctx context.Context) ([]api.Archive, error)
}

var _ Fetcher = (*api.Client)(nil)

// Aggregator fetches all four collections concurrently.
type Aggregator struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator reading from f.
func NewAggregator(f Fetcher, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{fetcher: f, logger: logger}
}

// Fetch issues the six list requests concurrently and waits for all of
// them. If any request fails the others are canceled and the first error
// is returned with no partial result.
func (a *Aggregator) Fetch(ctx context.Context) (Collections, error) {
	var (
		workflows         []resource.Resource
		schedules         []resource.Resource
		experiments       []resource.Resource
		archives          []resource.Resource
		archivedWorkflows []resource.Resource
		archivedSchedules []resource.Resource
	)

	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := a.fetcher.ListWorkflows(gCtx)
		if err != nil {
			return err
		}
		workflows = convert(items, api.Workflow.Resource)
		return nil
	})
	g.Go(func() error {
		items, err := a.fetcher.ListSchedules(gCtx)
		if err != nil {
			return err
		}
		schedules = convert(items, api.Schedule.Resource)
		return nil
	})
	g.Go(func() error {
		items, err := a.fetcher.ListExperiments(gCtx)
		if err != nil {
			return err
		}
		experiments = convert(items, api.Experiment.Resource)
		return nil
	})
	g.Go(func() error {
		items, err := a.fetcher.ListArchives(gCtx)
		if err != nil {
			return err
		}
		archives = convert(items, archiveAs(""))
		return nil
	})
	g.Go(func() error {
		items, err := a.fetcher.ListWorkflowArchives(gCtx)
		if err != nil {
			return err
		}
		archivedWorkflows = convert(items, archiveAs(resource.KindWorkflow))
		return nil
	})
	g.Go(func() error {
		items, err := a.fetcher.ListScheduleArchives(gCtx)
		if err != nil {
			return err
		}
		archivedSchedules = convert(items, archiveAs(resource.KindSchedule))
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Debug("search fetch failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		return Collections{}, err
	}

	c := Collections{
		Workflows:   workflows,
		Schedules:   schedules,
		Experiments: experiments,
		Archives:    MergeArchives(archives, archivedWorkflows, archivedSchedules),
	}
	a.logger.Debug("search fetch done", slog.Int("resources", c.Len()), slog.Duration("elapsed", time.Since(start)))
	return c, nil
}

// MergeArchives concatenates plain archives, archived workflows and archived
// schedules in that order. Nothing is reordered or removed.
func MergeArchives(archives, archivedWorkflows, archivedSchedules []resource.Resource) []resource.Resource {
	out := make([]resource.Resource, 0, len(archives)+len(archivedWorkflows)+len(archivedSchedules))
	out = append(out, archives...)
	out = append(out, archivedWorkflows...)
	out = append(out, archivedSchedules...)
	return out
}

func archiveAs(kind string) func(api.Archive) resource.Resource {
	return func(a api.Archive) resource.Resource { return a.Resource(kind) }
}

func convert[T any](items []T, fn func(T) resource.Resource) []resource.Resource {
	out := make([]resource.Resource, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}
