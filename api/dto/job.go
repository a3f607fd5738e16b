package dto

import "errors"

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobNotReady = errors.New("video not ready")
)

type CreateJobRequest struct {
	JobID            string
	OriginalFilename string
	FilePath         string
	SourceLanguage   string
	TargetLanguage   string
}

type UploadResponse struct {
	JobID string `json:"job_id"`
}

// StatusResponse is the body of GET /status/{id}. Pending and processing jobs
// are both reported as in_progress.
type StatusResponse struct {
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Step        string `json:"step"`
	DownloadURL string `json:"download_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
