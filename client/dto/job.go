package dto

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type UploadResponse struct {
	JobID string `json:"job_id"`
}

// StatusSnapshot is one reply from GET /status/{id}. DownloadURL is set only
// once the job completed and Error only once it failed. Progress may be
// fractional while subtitles are translated and voiced.
type StatusSnapshot struct {
	Status      Status  `json:"status"`
	Progress    float64 `json:"progress"`
	Step        string  `json:"step"`
	DownloadURL string  `json:"download_url,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
