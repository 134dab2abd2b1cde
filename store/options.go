package store

import (
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/go-bond/algoperf/serializers"
	"go.uber.org/zap"
)

type Options struct {
	PebbleOptions *pebble.Options

	Serializer serializers.Serializer

	// DisableCompression stores serialized runs as is.
	DisableCompression bool

	// Logger receives pebble's own log lines. Nil discards them.
	Logger *zap.Logger
}

func DefaultOptions() *Options {
	return &Options{
		PebbleOptions: DefaultPebbleOptions(),
		Serializer:    serializers.Default(),
	}
}

// DefaultPebbleOptions are sized for a small history database: runs are a
// few hundred bytes and written once per benchmark.
func DefaultPebbleOptions() *pebble.Options {
	opts := &pebble.Options{
		FS:           vfs.Default,
		MemTableSize: 4 << 20, // 4 MB
		MaxOpenFiles: 256,
	}
	return opts
}

// pebbleOptions returns a copy of the pebble options that logs through zap.
func (o *Options) pebbleOptions() *pebble.Options {
	opts := o.PebbleOptions.Clone()

	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	// SugaredLogger has the Infof/Errorf/Fatalf set pebble.Logger asks for
	opts.Logger = logger.Named("pebble").Sugar()
	opts.LoggerAndTracer = nil
	return opts
}

// InMemoryOptions keep the history in memory only.
func InMemoryOptions() *Options {
	opts := DefaultOptions()
	opts.PebbleOptions.FS = vfs.NewMem()
	return opts
}
