package algoperf

import (
	"fmt"

	"github.com/go-bond/algoperf/algorithms"
)

// Entry binds a descriptor to its implementation.
type Entry struct {
	Descriptor Descriptor
	Algorithm  Algorithm
}

// Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	entries []Entry
	byID    map[string]int
}

func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if e.Descriptor.ID == "" {
			return nil, fmt.Errorf("algorithm id can not be empty")
		}
		if _, ok := r.byID[e.Descriptor.ID]; ok {
			return nil, fmt.Errorf("algorithm %q registered twice", e.Descriptor.ID)
		}

		category, err := categoryOf(e.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("algorithm %q: %w", e.Descriptor.ID, err)
		}
		if e.Descriptor.Category != category {
			return nil, fmt.Errorf("algorithm %q: declared category %s, implements %s",
				e.Descriptor.ID, e.Descriptor.Category, category)
		}

		r.byID[e.Descriptor.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

func MustNewRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Describe lists descriptors in registration order.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Descriptor
	}
	return out
}

func (r *Registry) Resolve(id string) (Descriptor, Algorithm, error) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, nil, &UnknownAlgorithmError{ID: id}
	}
	e := r.entries[i]
	return e.Descriptor, e.Algorithm, nil
}

func (r *Registry) Len() int {
	return len(r.entries)
}

var defaultRegistry = MustNewRegistry(
	Entry{
		Descriptor: Descriptor{ID: KindBubbleSort.String(), Name: "Bubble Sort", Complexity: "O(n²)", Category: CategorySorting},
		Algorithm:  SortFunc(algorithms.BubbleSort),
	},
	Entry{
		Descriptor: Descriptor{ID: KindMergeSort.String(), Name: "Merge Sort", Complexity: "O(n log n)", Category: CategorySorting},
		Algorithm:  SortFunc(algorithms.MergeSort),
	},
	Entry{
		Descriptor: Descriptor{ID: KindQuickSort.String(), Name: "Quick Sort", Complexity: "O(n log n) avg", Category: CategorySorting},
		Algorithm:  SortFunc(algorithms.QuickSort),
	},
	Entry{
		Descriptor: Descriptor{ID: KindLinearSearch.String(), Name: "Linear Search", Complexity: "O(n)", Category: CategorySearching},
		Algorithm:  SearchFunc(algorithms.LinearSearch),
	},
	Entry{
		Descriptor: Descriptor{ID: KindBinarySearch.String(), Name: "Binary Search", Complexity: "O(log n)", Category: CategorySearching},
		Algorithm:  SortedSearchFunc(algorithms.BinarySearch),
	},
)

// DefaultRegistry returns the built-in algorithms.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
