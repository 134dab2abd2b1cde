package algoperf

import (
	"math/rand"
	"slices"
)

// MaxValue is the exclusive upper bound of generated values.
const MaxValue = 10000

// Generator produces benchmark inputs. It is not safe for concurrent use;
// every run owns its own Generator.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// RandomArray returns size values drawn uniformly from [0, MaxValue).
func (g *Generator) RandomArray(size int) []int {
	arr := make([]int, size)
	for i := range arr {
		arr[i] = g.rnd.Intn(MaxValue)
	}
	return arr
}

// SortedArray returns a RandomArray in ascending order.
func (g *Generator) SortedArray(size int) []int {
	arr := g.RandomArray(size)
	slices.Sort(arr)
	return arr
}

// RandomTarget is drawn independently of any generated array, so it may or
// may not be present in it.
func (g *Generator) RandomTarget() int {
	return g.rnd.Intn(MaxValue)
}
