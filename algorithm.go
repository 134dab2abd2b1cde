package algoperf

import "fmt"

type Category uint8

const (
	CategorySorting Category = iota + 1
	CategorySearching
)

func (c Category) String() string {
	switch c {
	case CategorySorting:
		return "sorting"
	case CategorySearching:
		return "searching"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sorting":
		*c = CategorySorting
	case "searching":
		*c = CategorySearching
	default:
		return fmt.Errorf("unknown category: %s", text)
	}
	return nil
}

// Kind enumerates the built-in algorithms. The string form is the stable id
// callers use to select an algorithm.
type Kind uint8

const (
	KindBubbleSort Kind = iota + 1
	KindMergeSort
	KindQuickSort
	KindLinearSearch
	KindBinarySearch
)

var kindIDs = map[Kind]string{
	KindBubbleSort:   "bubbleSort",
	KindMergeSort:    "mergeSort",
	KindQuickSort:    "quickSort",
	KindLinearSearch: "linearSearch",
	KindBinarySearch: "binarySearch",
}

func (k Kind) String() string {
	if id, ok := kindIDs[k]; ok {
		return id
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Descriptor is the listing metadata of a registered algorithm.
type Descriptor struct {
	ID         string   `json:"id" cbor:"1"`
	Name       string   `json:"name" cbor:"2"`
	Complexity string   `json:"complexity" cbor:"3"`
	Category   Category `json:"type" cbor:"4"`
}

// Algorithm is implemented by exactly one of Sorter or Searcher.
type Algorithm interface{}

type Sorter interface {
	// Sort leaves data in non-decreasing order.
	Sort(data []int)
}

type Searcher interface {
	// Search returns the index of target in data or -1.
	Search(data []int, target int) int
	// RequiresSorted reports whether Search expects ascending input.
	RequiresSorted() bool
}

type SortFunc func(data []int)

func (f SortFunc) Sort(data []int) {
	f(data)
}

type SearchFunc func(data []int, target int) int

func (f SearchFunc) Search(data []int, target int) int {
	return f(data, target)
}

func (f SearchFunc) RequiresSorted() bool {
	return false
}

type SortedSearchFunc func(data []int, target int) int

func (f SortedSearchFunc) Search(data []int, target int) int {
	return f(data, target)
}

func (f SortedSearchFunc) RequiresSorted() bool {
	return true
}

func categoryOf(alg Algorithm) (Category, error) {
	switch alg.(type) {
	case Sorter:
		return CategorySorting, nil
	case Searcher:
		return CategorySearching, nil
	default:
		return 0, fmt.Errorf("algorithm %T implements neither Sorter nor Searcher", alg)
	}
}
