package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"videoDubber/worker/cache"
	"videoDubber/worker/kafka"
	"videoDubber/worker/repository"
)

var ErrInvalidEvent = errors.New("invalid progress event")

type StatusCache interface {
	Set(ctx context.Context, jobID string, entry cache.Entry) error
}

// Processor applies pipeline progress events to the job store and the status
// cache the API answers polls from.
type Processor struct {
	repo   repository.Repository
	cache  StatusCache
	logger *zap.Logger
}

func NewProcessor(repo repository.Repository, cache StatusCache, logger *zap.Logger) *Processor {
	return &Processor{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (p *Processor) Process(ctx context.Context, event *kafka.ProgressEvent) error {
	log := p.logger.With(
		zap.String("job_id", event.JobID),
		zap.String("trace_id", event.TraceID),
	)

	if err := validate(event); err != nil {
		log.Warn("Rejected progress event", zap.Error(err))
		return err
	}

	update := repository.Update{
		JobID:        event.JobID,
		Status:       event.Status,
		Progress:     int(math.Round(event.Progress)),
		Step:         event.Step,
		OutputPath:   event.OutputPath,
		ErrorMessage: event.Error,
	}
	if event.Status == "completed" {
		update.Progress = 100
	}

	if err := p.repo.UpdateJobProgress(ctx, update); err != nil {
		if errors.Is(err, repository.ErrJobNotUpdated) {
			log.Info("Ignoring event for unknown or finished job", zap.String("status", event.Status))
			return nil
		}
		log.Error("Failed to update job", zap.Error(err))
		return err
	}

	entry := cache.Entry{
		Status:       update.Status,
		Progress:     update.Progress,
		Step:         update.Step,
		OutputPath:   update.OutputPath,
		ErrorMessage: update.ErrorMessage,
	}
	if err := p.cache.Set(ctx, event.JobID, entry); err != nil {
		log.Warn("Failed to cache job status", zap.Error(err))
	}

	log.Debug("Job progress applied",
		zap.String("status", update.Status),
		zap.Int("progress", update.Progress),
		zap.String("step", update.Step),
	)
	return nil
}

// Handle is Process for the consumer: invalid events are dropped since a
// redelivery can never make them valid.
func (p *Processor) Handle(ctx context.Context, event *kafka.ProgressEvent) error {
	if err := p.Process(ctx, event); err != nil && !errors.Is(err, ErrInvalidEvent) {
		return err
	}
	return nil
}

func validate(event *kafka.ProgressEvent) error {
	if event.JobID == "" {
		return fmt.Errorf("%w: missing job_id", ErrInvalidEvent)
	}
	switch event.Status {
	case "processing", "failed":
	case "completed":
		if event.OutputPath == "" {
			return fmt.Errorf("%w: completed without output_path", ErrInvalidEvent)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, event.Status)
	}
	if event.Progress < 0 || event.Progress > 100 {
		return fmt.Errorf("%w: progress %g out of range", ErrInvalidEvent, event.Progress)
	}
	return nil
}
