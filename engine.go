package algoperf

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine resolves algorithm ids and benchmarks them. Runs share no mutable
// state, so an Engine may serve concurrent callers.
type Engine struct {
	registry *Registry
	runner   *Runner
	logger   *zap.Logger
}

func NewEngine(registry *Registry, opts *Options) (*Engine, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()

	runner, err := NewRunner(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Engine{
		registry: registry,
		runner:   runner,
		logger:   opts.Logger,
	}, nil
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

func (e *Engine) Sizes() []int {
	return e.runner.Sizes()
}

func (e *Engine) RunsPerSize() int {
	return e.runner.RunsPerSize()
}

func (e *Engine) ListAlgorithms() []Descriptor {
	return e.registry.Describe()
}

// RunBenchmark blocks until every size and trial has completed. It returns
// an error matching ErrUnknownAlgorithm for unregistered ids and
// ErrExecutionFailure when the algorithm fails in any trial.
func (e *Engine) RunBenchmark(ctx context.Context, id string) (*Report, error) {
	desc, alg, err := e.registry.Resolve(id)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With(zap.String("algorithm", desc.ID))
	logger.Info("starting benchmark",
		zap.Ints("sizes", e.runner.sizes),
		zap.Int("runs_per_size", e.runner.runsPerSize))

	start := time.Now()

	var report *Report
	switch a := alg.(type) {
	case Sorter:
		report, err = e.runner.RunSorter(ctx, desc.ID, a)
	case Searcher:
		report, err = e.runner.RunSearcher(ctx, desc.ID, a)
	default:
		err = fmt.Errorf("algorithm %s: unsupported implementation %T", desc.ID, alg)
	}
	if err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		return nil, err
	}

	logger.Info("benchmark complete", zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// RunAll benchmarks every registered algorithm concurrently. Reports are in
// registry order; the first failure cancels the remaining runs.
func (e *Engine) RunAll(ctx context.Context) ([]*Report, error) {
	descs := e.registry.Describe()
	reports := make([]*Report, len(descs))

	grp, grpCtx := errgroup.WithContext(ctx)
	for i, desc := range descs {
		grp.Go(func() error {
			report, err := e.RunBenchmark(grpCtx, desc.ID)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
