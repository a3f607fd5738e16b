package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrJobNotUpdated means the job does not exist or already reached a
// terminal status.
var ErrJobNotUpdated = errors.New("job not found or already finished")

type Update struct {
	JobID        string
	Status       string
	Progress     int
	Step         string
	OutputPath   string
	ErrorMessage string
}

type Repository interface {
	UpdateJobProgress(ctx context.Context, update Update) error
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) UpdateJobProgress(ctx context.Context, u Update) error {
	query := `UPDATE jobs SET status = $1, progress = $2, step = $3, output_path = $4, error_message = $5, updated_at = NOW()`
	if u.Status == "completed" || u.Status == "failed" {
		query += `, completed_at = NOW()`
	}
	query += ` WHERE id = $6 AND status NOT IN ('completed', 'failed')`

	tag, err := r.db.Exec(ctx, query, u.Status, u.Progress, u.Step, u.OutputPath, u.ErrorMessage, u.JobID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotUpdated
	}
	return nil
}
