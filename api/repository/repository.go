package repository

import (
	"context"
	"errors"

	"videoDubber/api/models"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrJobAlreadyExists = errors.New("job already exists")
)

type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	// FailJob marks a job that has not finished yet as failed.
	FailJob(ctx context.Context, id, message string) error
}
