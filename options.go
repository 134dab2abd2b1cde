package algoperf

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const DefaultRunsPerSize = 5

// DefaultSizes returns the default size sweep. Each call returns a new slice.
func DefaultSizes() []int {
	return []int{100, 500, 1000, 5000}
}

type Options struct {
	// Sizes is the size sweep, strictly ascending.
	Sizes []int

	// RunsPerSize is the number of trials averaged per size.
	RunsPerSize int

	// Source returns a fresh random source for each benchmark run.
	Source func() rand.Source

	Logger *zap.Logger
}

func DefaultOptions() *Options {
	return &Options{
		Sizes:       DefaultSizes(),
		RunsPerSize: DefaultRunsPerSize,
		Source:      TimeSeededSource,
		Logger:      zap.NewNop(),
	}
}

func TimeSeededSource() rand.Source {
	return rand.NewSource(time.Now().UnixNano())
}

// WithSeed makes every run start from the same seed, which gives
// reproducible inputs.
func (o *Options) WithSeed(seed int64) *Options {
	o.Source = func() rand.Source {
		return rand.NewSource(seed)
	}
	return o
}

func (o *Options) Validate() error {
	if len(o.Sizes) == 0 {
		return errors.New("size sweep can not be empty")
	}
	for i, n := range o.Sizes {
		if n <= 0 {
			return fmt.Errorf("size must be positive: %d", n)
		}
		if i > 0 && n <= o.Sizes[i-1] {
			return fmt.Errorf("sizes must be strictly ascending: %v", o.Sizes)
		}
	}
	if o.RunsPerSize <= 0 {
		return errors.New("runs per size must be positive")
	}
	if o.Source == nil {
		return errors.New("random source can not be nil")
	}
	return nil
}

func (o *Options) withDefaults() *Options {
	opts := *o
	opts.Sizes = append([]int(nil), o.Sizes...)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Source == nil {
		opts.Source = TimeSeededSource
	}
	return &opts
}
