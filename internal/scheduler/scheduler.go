package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/service"
)

// batchRunner is the slice of the pipeline the scheduler drives.
type batchRunner interface {
	Run(ctx context.Context, requested int, testMode bool) (*domain.BatchResult, error)
}

// Scheduler triggers a publishing batch on a fixed interval. It does
// not fire at startup; the first batch runs one interval after Start.
type Scheduler struct {
	pipeline batchRunner
	interval time.Duration
	logger   *logger.Logger
	stop     chan struct{}
}

// New creates a scheduler with the given interval.
func New(pipeline batchRunner, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = 8 * time.Hour
	}
	return &Scheduler{
		pipeline: pipeline,
		interval: interval,
		logger:   log,
	}
}

// Start launches the ticker goroutine. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})

	s.logger.WithField("interval", s.interval.String()).Info("Publishing scheduler started")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the ticker goroutine. A batch already in flight finishes.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
	s.logger.Info("Publishing scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	ctx = logger.SetComponent(ctx, "scheduler")

	result, err := s.pipeline.Run(ctx, 0, false)
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			logger.CtxInfo(ctx, "Skipping scheduled batch, another run is in flight")
			return
		}
		logger.CtxError(ctx, "Scheduled batch aborted: %v", err)
		return
	}

	logger.With(logger.Fields{
		logger.FieldCount: result.Published(),
	}).Info(ctx, "Scheduled batch completed: published=%d, failed=%d",
		result.Published(), len(result.Errors))
}
