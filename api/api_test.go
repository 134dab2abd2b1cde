package api

import (
	"testing"

	"github.com/go-bond/algoperf"
	"github.com/go-bond/algoperf/algorithms"
	"github.com/go-bond/algoperf/store"
	"github.com/stretchr/testify/require"
)

var testRegistry = algoperf.MustNewRegistry(
	algoperf.Entry{
		Descriptor: algoperf.Descriptor{ID: "quickSort", Name: "Quick Sort", Complexity: "O(n log n) avg", Category: algoperf.CategorySorting},
		Algorithm:  algoperf.SortFunc(algorithms.QuickSort),
	},
	algoperf.Entry{
		Descriptor: algoperf.Descriptor{ID: "binarySearch", Name: "Binary Search", Complexity: "O(log n)", Category: algoperf.CategorySearching},
		Algorithm:  algoperf.SortedSearchFunc(algorithms.BinarySearch),
	},
	algoperf.Entry{
		Descriptor: algoperf.Descriptor{ID: "broken", Name: "Broken", Complexity: "O(1)", Category: algoperf.CategorySorting},
		Algorithm: algoperf.SortFunc(func(data []int) {
			panic("boom")
		}),
	},
)

func setupEngine(t *testing.T) *algoperf.Engine {
	opts := (&algoperf.Options{
		Sizes:       []int{10, 20, 40},
		RunsPerSize: 2,
	}).WithSeed(1)

	engine, err := algoperf.NewEngine(testRegistry, opts)
	require.NoError(t, err)
	return engine
}

func setupHistory(t *testing.T) *store.Store {
	history, err := store.Open("history", store.InMemoryOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })
	return history
}
