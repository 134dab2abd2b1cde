package algoperf

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *Options {
	return (&Options{
		Sizes:       []int{10, 20, 40},
		RunsPerSize: 3,
	}).WithSeed(1)
}

func TestEngine_RunBenchmark_AllRegistered(t *testing.T) {
	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)

	for _, desc := range engine.ListAlgorithms() {
		t.Run(desc.ID, func(t *testing.T) {
			report, err := engine.RunBenchmark(context.Background(), desc.ID)
			require.NoError(t, err)

			assert.Equal(t, desc.ID, report.AlgorithmID)
			require.Len(t, report.Points, 4)

			var sizes []int
			for _, p := range report.Points {
				sizes = append(sizes, p.N)
				assert.GreaterOrEqual(t, p.TimeMs, 0.0)
				assert.False(t, math.IsInf(p.TimeMs, 0))
				assert.False(t, math.IsNaN(p.TimeMs))
			}
			assert.Equal(t, []int{100, 500, 1000, 5000}, sizes)
		})
	}
}

func TestEngine_RunBenchmark_UnknownAlgorithm(t *testing.T) {
	engine, err := NewEngine(nil, testOptions())
	require.NoError(t, err)

	report, err := engine.RunBenchmark(context.Background(), "doesNotExist")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))

	var unknown *UnknownAlgorithmError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "doesNotExist", unknown.ID)
}

func TestEngine_RunBenchmark_ExecutionFailure(t *testing.T) {
	calls := 0
	registry := MustNewRegistry(Entry{
		Descriptor: Descriptor{ID: "broken", Name: "Broken", Complexity: "O(1)", Category: CategorySorting},
		Algorithm: SortFunc(func(data []int) {
			calls++
			if len(data) == 20 {
				panic("boom")
			}
		}),
	})

	engine, err := NewEngine(registry, testOptions())
	require.NoError(t, err)

	report, err := engine.RunBenchmark(context.Background(), "broken")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrExecutionFailure))

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "broken", execErr.AlgorithmID)
	assert.Equal(t, 20, execErr.N)
	assert.Equal(t, 0, execErr.Trial)
	assert.EqualError(t, execErr.Cause, "panic: boom")

	// 3 trials at n=10, then the first trial at n=20 aborts the run
	assert.Equal(t, 4, calls)
}

type recordingSorter struct {
	mu     sync.Mutex
	inputs [][]int
}

func (r *recordingSorter) Sort(data []int) {
	r.mu.Lock()
	r.inputs = append(r.inputs, slices.Clone(data))
	r.mu.Unlock()
	slices.Sort(data)
}

type recordingSearcher struct {
	sorted  bool
	inputs  [][]int
	targets []int
}

func (r *recordingSearcher) Search(data []int, target int) int {
	r.inputs = append(r.inputs, data)
	r.targets = append(r.targets, target)
	return slices.Index(data, target)
}

func (r *recordingSearcher) RequiresSorted() bool {
	return r.sorted
}

func TestEngine_SorterGetsFreshInputPerTrial(t *testing.T) {
	sorter := &recordingSorter{}
	registry := MustNewRegistry(Entry{
		Descriptor: Descriptor{ID: "rec", Category: CategorySorting},
		Algorithm:  sorter,
	})

	engine, err := NewEngine(registry, testOptions())
	require.NoError(t, err)

	_, err = engine.RunBenchmark(context.Background(), "rec")
	require.NoError(t, err)

	require.Len(t, sorter.inputs, 9)
	for i, in := range sorter.inputs {
		assert.Len(t, in, []int{10, 20, 40}[i/3])
		assert.False(t, slices.IsSorted(in), "trial %d received sorted input", i)
		for _, v := range in {
			assert.True(t, v >= 0 && v < MaxValue)
		}
	}
}

func TestEngine_SearcherInputPolicy(t *testing.T) {
	for _, sorted := range []bool{true, false} {
		searcher := &recordingSearcher{sorted: sorted}
		registry := MustNewRegistry(Entry{
			Descriptor: Descriptor{ID: "rec", Category: CategorySearching},
			Algorithm:  searcher,
		})

		engine, err := NewEngine(registry, testOptions())
		require.NoError(t, err)

		_, err = engine.RunBenchmark(context.Background(), "rec")
		require.NoError(t, err)

		require.Len(t, searcher.inputs, 9)
		require.Len(t, searcher.targets, 9)
		for _, in := range searcher.inputs {
			assert.Equal(t, sorted, slices.IsSorted(in))
		}
		for _, target := range searcher.targets {
			assert.True(t, target >= 0 && target < MaxValue)
		}
	}
}

func TestEngine_RepeatedRunsAreIndependent(t *testing.T) {
	sorter := &recordingSorter{}
	registry := MustNewRegistry(Entry{
		Descriptor: Descriptor{ID: "rec", Category: CategorySorting},
		Algorithm:  sorter,
	})

	engine, err := NewEngine(registry, testOptions())
	require.NoError(t, err)

	_, err = engine.RunBenchmark(context.Background(), "rec")
	require.NoError(t, err)
	first := sorter.inputs
	sorter.inputs = nil

	_, err = engine.RunBenchmark(context.Background(), "rec")
	require.NoError(t, err)
	second := sorter.inputs

	// each run starts from a fresh generator, and sorting in the first run
	// leaves nothing behind for the second
	assert.Equal(t, first, second)
}

func TestEngine_RunBenchmark_Cancelled(t *testing.T) {
	engine, err := NewEngine(nil, testOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.RunBenchmark(ctx, KindQuickSort.String())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunAll(t *testing.T) {
	engine, err := NewEngine(nil, testOptions())
	require.NoError(t, err)

	reports, err := engine.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 5)

	for i, desc := range engine.ListAlgorithms() {
		assert.Equal(t, desc.ID, reports[i].AlgorithmID)
		require.Len(t, reports[i].Points, 3)
	}
}

func TestEngine_RunAll_FailFast(t *testing.T) {
	registry := MustNewRegistry(
		Entry{
			Descriptor: Descriptor{ID: "ok", Category: CategorySorting},
			Algorithm:  SortFunc(func(data []int) { slices.Sort(data) }),
		},
		Entry{
			Descriptor: Descriptor{ID: "broken", Category: CategorySearching},
			Algorithm: SearchFunc(func([]int, int) int {
				panic(errors.New("broken search"))
			}),
		},
	)

	engine, err := NewEngine(registry, testOptions())
	require.NoError(t, err)

	reports, err := engine.RunAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, reports)
	assert.ErrorIs(t, err, ErrExecutionFailure)
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	_, err := NewEngine(nil, &Options{Sizes: []int{100, 50}, RunsPerSize: 1})
	require.Error(t, err)

	_, err = NewEngine(nil, &Options{Sizes: []int{100}, RunsPerSize: 0})
	require.Error(t, err)
}
