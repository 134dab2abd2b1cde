package api

import (
	"context"
	"errors"

	"github.com/go-bond/algoperf"
	"github.com/go-bond/algoperf/store"
	"go.uber.org/zap"
)

var ErrHistoryDisabled = errors.New("history is not enabled")

// Service is the surface exposed over HTTP and the CLI. It is implemented
// in process by NewService and over HTTP by NewRemote.
type Service interface {
	Algorithms(ctx context.Context) ([]algoperf.Descriptor, error)
	Benchmark(ctx context.Context, algorithmID string) (*algoperf.Report, error)
	History(ctx context.Context, algorithmID string, limit int) ([]store.Run, error)
}

type service struct {
	engine  *algoperf.Engine
	history *store.Store
	logger  *zap.Logger
}

// NewService serves engine directly. history may be nil, in which case
// reports are not persisted and History returns ErrHistoryDisabled.
func NewService(engine *algoperf.Engine, history *store.Store, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{engine: engine, history: history, logger: logger}
}

func (s *service) Algorithms(_ context.Context) ([]algoperf.Descriptor, error) {
	return s.engine.ListAlgorithms(), nil
}

func (s *service) Benchmark(ctx context.Context, algorithmID string) (*algoperf.Report, error) {
	report, err := s.engine.RunBenchmark(ctx, algorithmID)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		// the measurement stands even when it can not be recorded
		if _, err = s.history.Save(ctx, report); err != nil {
			s.logger.Warn("failed to save run", zap.String("algorithm", algorithmID), zap.Error(err))
		}
	}
	return report, nil
}

func (s *service) History(ctx context.Context, algorithmID string, limit int) ([]store.Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if _, _, err := s.engine.Registry().Resolve(algorithmID); err != nil {
		return nil, err
	}
	return s.history.List(ctx, algorithmID, limit)
}
