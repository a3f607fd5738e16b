package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"videoDubber/api/database"
	"videoDubber/api/models"
)

const uniqueViolation = "23505"

const jobColumns = `id, trace_id, original_filename, file_path, output_path, source_language, target_language,
	status, progress, step, error_message, created_at, updated_at, completed_at`

type PostgresRepo struct {
	db *database.DB
}

func NewPostgresRepo(db *database.DB) Repository {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateJob(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, trace_id, original_filename, file_path, source_language, target_language, status, progress, step)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.ID,
		job.TraceID,
		job.OriginalFilename,
		job.FilePath,
		job.SourceLanguage,
		job.TargetLanguage,
		job.Status,
		job.Progress,
		job.Step,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrJobAlreadyExists
		}
		return err
	}

	return nil
}

func (r *PostgresRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) FailJob(ctx context.Context, id, message string) error {
	query := `
		UPDATE jobs
		SET status = $2, step = $3, error_message = $3, updated_at = NOW(), completed_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, models.StatusFailed, message)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID,
		&job.TraceID,
		&job.OriginalFilename,
		&job.FilePath,
		&job.OutputPath,
		&job.SourceLanguage,
		&job.TargetLanguage,
		&job.Status,
		&job.Progress,
		&job.Step,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return &job, nil
}
