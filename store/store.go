package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/go-bond/algoperf"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

const (
	// DataVersion is bumped whenever the stored encoding changes.
	DataVersion = 1
)

var (
	ErrNotFound = errors.New("run not found")
	ErrClosed   = errors.New("store closed")
)

// Run is one persisted benchmark report.
type Run struct {
	ID        uuid.UUID       `json:"id" cbor:"1"`
	Sequence  uint64          `json:"sequence" cbor:"2"`
	Timestamp time.Time       `json:"timestamp" cbor:"3"`
	Report    algoperf.Report `json:"report" cbor:"4"`
}

// Store keeps the history of benchmark runs in pebble.
type Store struct {
	// mu guards db; Close waits for in-flight reads and writes.
	mu   sync.RWMutex
	db   *pebble.DB
	opts *Options

	seq *NumberSequence

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func Open(dirname string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.PebbleOptions == nil {
		opts.PebbleOptions = DefaultPebbleOptions()
	}
	if opts.Serializer == nil {
		opts.Serializer = DefaultOptions().Serializer
	}

	db, err := pebble.Open(dirname, opts.pebbleOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	s := &Store{db: db, opts: opts, seq: &NumberSequence{}}

	if err = s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	var err error
	s.encoder, err = zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	s.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return err
	}

	if err = s.initVersion(); err != nil {
		return err
	}

	value, closer, err := s.db.Get(sequenceKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	if len(value) != 8 {
		return fmt.Errorf("corrupted sequence key")
	}
	s.seq.Restore(binary.BigEndian.Uint64(value))
	return nil
}

func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return 0
	}
	return s.version()
}

func (s *Store) version() int {
	value, closer, err := s.db.Get(versionKey)
	if err != nil {
		return 0
	}
	defer closer.Close()

	ver, _ := strconv.ParseInt(string(value), 10, 32)
	return int(ver)
}

func (s *Store) initVersion() error {
	switch ver := s.version(); {
	case ver == DataVersion:
		return nil
	case ver > DataVersion:
		return fmt.Errorf("history db version %d is newer than supported %d", ver, DataVersion)
	}
	return s.db.Set(versionKey, []byte(strconv.Itoa(DataVersion)), pebble.Sync)
}

// Save persists report as a new run.
func (s *Store) Save(ctx context.Context, report *algoperf.Report) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateAlgorithmID(report.AlgorithmID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	seq, err := s.seq.Next()
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.New(),
		Sequence:  seq,
		Timestamp: time.Now().UTC(),
		Report:    *report,
	}

	value, err := s.encode(run)
	if err != nil {
		return nil, err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err = batch.Set(runKey(nil, report.AlgorithmID, seq), value, nil); err != nil {
		return nil, err
	}
	if err = batch.Set(sequenceKey, binary.BigEndian.AppendUint64(nil, seq), nil); err != nil {
		return nil, err
	}
	if err = batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}

	return run, nil
}

// Latest returns the most recent run of algorithmID or ErrNotFound.
func (s *Store) Latest(ctx context.Context, algorithmID string) (*Run, error) {
	runs, err := s.List(ctx, algorithmID, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// List returns runs of algorithmID oldest first. A positive limit keeps only
// the newest limit runs.
func (s *Store) List(ctx context.Context, algorithmID string, limit int) ([]Run, error) {
	if err := validateAlgorithmID(algorithmID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	prefix := runKeyPrefixFor(nil, algorithmID)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var runs []Run
	for valid := iter.Last(); valid; valid = iter.Prev() {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if limit > 0 && len(runs) == limit {
			break
		}

		var run Run
		if err = s.decode(iter.Value(), &run); err != nil {
			return nil, fmt.Errorf("failed to decode run %x: %w", iter.Key(), err)
		}
		runs = append(runs, run)
	}
	if err = iter.Error(); err != nil {
		return nil, err
	}

	// collected newest first
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	_ = s.encoder.Close()
	s.decoder.Close()
	return err
}

func (s *Store) encode(run *Run) ([]byte, error) {
	data, err := s.opts.Serializer.Serialize(run)
	if err != nil {
		return nil, err
	}
	if s.opts.DisableCompression {
		return data, nil
	}
	return s.encoder.EncodeAll(data, nil), nil
}

func (s *Store) decode(value []byte, run *Run) error {
	data := value
	if !s.opts.DisableCompression {
		var err error
		data, err = s.decoder.DecodeAll(value, nil)
		if err != nil {
			return err
		}
	}
	return s.opts.Serializer.Deserialize(data, run)
}

var _ io.Closer = (*Store)(nil)
