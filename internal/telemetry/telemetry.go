// Package telemetry persists performance snapshots and analytics events to
// a local sqlite database. Event writes are best-effort: the governor never
// observes a storage failure.
package telemetry

import (
	"context"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/profiler"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation used when telemetry is disabled
type noopCollector struct{}

func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Telemetry disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) RecordSnapshot(ctx context.Context, snap *profiler.Snapshot) error {
	errFactory := errors.New()

	if snap == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(snap); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	return nil
}

func (s *service) LogPerformanceEvent(name string, value float64) {
	if err := s.repo.StoreEvent(name, value, nil); err != nil {
		logger.Debug().Err(err).Str("event", name).Msg("Dropped performance event")
	}
}

func (s *service) LogCustomEvent(name string, fields map[string]any) {
	if err := s.repo.StoreEvent(name, 0, fields); err != nil {
		logger.Debug().Err(err).Str("event", name).Msg("Dropped custom event")
	}
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

func (*noopCollector) RecordSnapshot(context.Context, *profiler.Snapshot) error { return nil }
func (*noopCollector) LogPerformanceEvent(string, float64)                      {}
func (*noopCollector) LogCustomEvent(string, map[string]any)                    {}
func (*noopCollector) Close() error                                             { return nil }
