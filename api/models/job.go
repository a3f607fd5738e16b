package models

import (
	"time"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

const InitialStep = "Initializing..."

// IsTerminal reports whether the pipeline is done with the job. A terminal
// row is never updated again.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Job struct {
	ID               string
	TraceID          string
	OriginalFilename string
	FilePath         string
	OutputPath       string
	SourceLanguage   string
	TargetLanguage   string
	Status           JobStatus
	Progress         int
	Step             string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// Progress is the part of a job that changes while the pipeline runs. It is
// what the status cache holds.
type Progress struct {
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	Step         string    `json:"step"`
	OutputPath   string    `json:"output_path,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

func (j *Job) Snapshot() Progress {
	return Progress{
		Status:       j.Status,
		Progress:     j.Progress,
		Step:         j.Step,
		OutputPath:   j.OutputPath,
		ErrorMessage: j.ErrorMessage,
	}
}
