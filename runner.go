package algoperf

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"slices"

	"golang.org/x/exp/constraints"
)

// reportPrecision is the number of fractional digits kept in TimeMs.
const reportPrecision = 4

// Runner executes the trial loop for a single algorithm. It holds no mutable
// state; each call allocates its own generator and accumulators.
type Runner struct {
	sizes       []int
	runsPerSize int
	source      func() rand.Source
}

func NewRunner(opts *Options) (*Runner, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		sizes:       opts.Sizes,
		runsPerSize: opts.RunsPerSize,
		source:      opts.Source,
	}, nil
}

func (r *Runner) Sizes() []int {
	return slices.Clone(r.sizes)
}

func (r *Runner) RunsPerSize() int {
	return r.runsPerSize
}

// prepareFunc builds a fresh input of length n and returns the operation to
// time. Input generation happens outside the measured region.
type prepareFunc func(gen *Generator, n int) func()

// RunSorter benchmarks s on random input. Every trial sorts its own array so
// no trial sees data already sorted by an earlier one.
func (r *Runner) RunSorter(ctx context.Context, id string, s Sorter) (*Report, error) {
	return r.run(ctx, id, func(gen *Generator, n int) func() {
		data := gen.RandomArray(n)
		return func() {
			s.Sort(data)
		}
	})
}

// RunSearcher benchmarks s with a random target per trial. Input is sorted
// when s.RequiresSorted().
func (r *Runner) RunSearcher(ctx context.Context, id string, s Searcher) (*Report, error) {
	sorted := s.RequiresSorted()
	return r.run(ctx, id, func(gen *Generator, n int) func() {
		var data []int
		if sorted {
			data = gen.SortedArray(n)
		} else {
			data = gen.RandomArray(n)
		}
		target := gen.RandomTarget()
		return func() {
			_ = s.Search(data, target)
		}
	})
}

func (r *Runner) run(ctx context.Context, id string, prepare prepareFunc) (*Report, error) {
	gen := NewGenerator(r.source())

	report := &Report{
		AlgorithmID: id,
		Points:      make([]SizePoint, 0, len(r.sizes)),
	}

	samples := make([]float64, r.runsPerSize)
	for _, n := range r.sizes {
		for i := 0; i < r.runsPerSize; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			elapsed, err := Measure(prepare(gen, n))
			if err != nil {
				var execErr *ExecutionError
				if errors.As(err, &execErr) {
					execErr.AlgorithmID, execErr.N, execErr.Trial = id, n, i
				}
				return nil, err
			}
			samples[i] = Milliseconds(elapsed)
		}

		report.Points = append(report.Points, SizePoint{
			N:      n,
			TimeMs: roundTo(Mean(samples), reportPrecision),
		})
	}

	return report, nil
}

// Mean is the arithmetic mean of values. It returns zero for no values.
func Mean[T constraints.Integer | constraints.Float](values []T) T {
	if len(values) == 0 {
		return 0
	}
	var sum T
	for _, v := range values {
		sum += v
	}
	return sum / T(len(values))
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}
