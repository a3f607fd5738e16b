package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"videoDubber/api/dto"
	"videoDubber/api/kafka"
	"videoDubber/api/models"
	"videoDubber/api/repository"
)

const (
	statusInProgress  = "in_progress"
	msgDispatchFailed = "Failed to queue job for processing"
)

type StatusCache interface {
	Get(ctx context.Context, jobID string) (*models.Progress, error)
	Set(ctx context.Context, jobID string, progress models.Progress) error
}

type JobService struct {
	repo     repository.Repository
	cache    StatusCache
	producer kafka.Producer
	topic    string
	logger   *zap.Logger
}

func NewJobService(repo repository.Repository, cache StatusCache, producer kafka.Producer, topic string, logger *zap.Logger) *JobService {
	return &JobService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// CreateJob records an uploaded video and hands it to the dubbing pipeline.
func (s *JobService) CreateJob(ctx context.Context, traceID string, req *dto.CreateJobRequest) (*dto.UploadResponse, error) {
	job := &models.Job{
		ID:               req.JobID,
		TraceID:          traceID,
		OriginalFilename: req.OriginalFilename,
		FilePath:         req.FilePath,
		SourceLanguage:   req.SourceLanguage,
		TargetLanguage:   req.TargetLanguage,
		Status:           models.StatusPending,
		Progress:         0,
		Step:             models.InitialStep,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.cacheProgress(ctx, job.ID, job.Snapshot())

	msg := &kafka.JobMessage{
		JobID:          job.ID,
		TraceID:        traceID,
		FilePath:       req.FilePath,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	}
	if err := s.producer.SendJobMessage(ctx, s.topic, msg); err != nil {
		s.failJob(ctx, job)
		return nil, fmt.Errorf("dispatch job: %w", err)
	}

	return &dto.UploadResponse{JobID: job.ID}, nil
}

// GetJobStatus answers a status poll from the cache, falling back to Postgres.
func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*dto.StatusResponse, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, dto.ErrJobNotFound
	}

	progress, err := s.cache.Get(ctx, jobID)
	if err == nil {
		return toStatusResponse(jobID, progress), nil
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// A running job may be updated by the worker between the read and the
	// write, so only final snapshots are written back.
	snapshot := job.Snapshot()
	if snapshot.Status.IsTerminal() {
		s.cacheProgress(ctx, job.ID, snapshot)
	}

	return toStatusResponse(job.ID, &snapshot), nil
}

// GetOutputPath returns the dubbed video of a completed job.
func (s *JobService) GetOutputPath(ctx context.Context, jobID string) (string, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return "", dto.ErrJobNotFound
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != models.StatusCompleted || job.OutputPath == "" {
		return "", dto.ErrJobNotReady
	}

	return job.OutputPath, nil
}

func (s *JobService) getJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, dto.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// failJob records a job that never reached the pipeline, so pollers see it
// fail instead of waiting on it.
func (s *JobService) failJob(ctx context.Context, job *models.Job) {
	if err := s.repo.FailJob(ctx, job.ID, msgDispatchFailed); err != nil {
		s.logger.Error("Failed to mark undispatched job as failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	job.Status = models.StatusFailed
	job.Step = msgDispatchFailed
	job.ErrorMessage = msgDispatchFailed
	s.cacheProgress(ctx, job.ID, job.Snapshot())
}

// cacheProgress logs and drops cache errors; the next poll falls back to Postgres.
func (s *JobService) cacheProgress(ctx context.Context, jobID string, progress models.Progress) {
	if err := s.cache.Set(ctx, jobID, progress); err != nil {
		s.logger.Warn("Failed to cache job status",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
	}
}

func DownloadURL(jobID string) string {
	return "/download/" + jobID
}

func toStatusResponse(jobID string, progress *models.Progress) *dto.StatusResponse {
	resp := &dto.StatusResponse{
		Status:   statusInProgress,
		Progress: progress.Progress,
		Step:     progress.Step,
	}

	switch progress.Status {
	case models.StatusCompleted:
		resp.Status = string(models.StatusCompleted)
		resp.DownloadURL = DownloadURL(jobID)
	case models.StatusFailed:
		resp.Status = string(models.StatusFailed)
		resp.Error = progress.ErrorMessage
	}

	return resp
}
