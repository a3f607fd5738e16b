package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"videoDubber/api/dto"
	"videoDubber/api/middleware"
	"videoDubber/api/validation"
	"videoDubber/language"
)

const (
	msgNoVideo         = "No video file provided"
	msgNoFileSelected  = "No file selected"
	msgInvalidFormat   = "Invalid file format. Please upload MP4, AVI, MOV, or MKV"
	msgFileTooLarge    = "File size must be less than 500MB"
	msgUnsupportedLang = "Unsupported language"
	msgJobNotFound     = "Job not found"
	msgVideoNotReady   = "Video not ready"

	// multipart headers and the language fields on top of the video itself
	formOverhead = 1 << 20
)

type JobService interface {
	CreateJob(ctx context.Context, traceID string, req *dto.CreateJobRequest) (*dto.UploadResponse, error)
	GetJobStatus(ctx context.Context, jobID string) (*dto.StatusResponse, error)
	GetOutputPath(ctx context.Context, jobID string) (string, error)
}

type JobHandler struct {
	service     JobService
	uploadDir   string
	maxFileSize int64
	logger      *zap.Logger
}

func NewJobHandler(service JobService, uploadDir string, maxFileSize int64, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		service:     service,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Upload handles POST /upload.
func (h *JobHandler) Upload(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleError(w, msgFileTooLarge, err, traceID, http.StatusRequestEntityTooLarge)
			return
		}
		h.handleError(w, "Failed to parse form", err, traceID, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("video")
	if err != nil {
		h.handleError(w, msgNoVideo, err, traceID, http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, err := validation.SanitizeFilename(header.Filename)
	if err != nil {
		h.handleError(w, msgNoFileSelected, err, traceID, http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUpload(header.Filename, header.Size, h.maxFileSize, file); err != nil {
		if errors.Is(err, validation.ErrFileTooLarge) {
			h.handleError(w, msgFileTooLarge, err, traceID, http.StatusRequestEntityTooLarge)
			return
		}
		h.handleError(w, msgInvalidFormat, err, traceID, http.StatusBadRequest)
		return
	}

	sourceLang := formValue(r, "source_language", language.DefaultSource)
	targetLang := formValue(r, "target_language", language.DefaultTarget)
	if !language.Valid(sourceLang) || !language.Valid(targetLang) {
		h.handleError(w, msgUnsupportedLang,
			fmt.Errorf("source %q target %q", sourceLang, targetLang), traceID, http.StatusBadRequest)
		return
	}

	jobID := uuid.New().String()
	filePath := filepath.Join(h.uploadDir, jobID+"_"+filename)

	if err := spool(filePath, file); err != nil {
		h.handleError(w, "Failed to save file", err, traceID, http.StatusInternalServerError)
		return
	}

	req := &dto.CreateJobRequest{
		JobID:            jobID,
		OriginalFilename: header.Filename,
		FilePath:         filePath,
		SourceLanguage:   sourceLang,
		TargetLanguage:   targetLang,
	}

	resp, err := h.service.CreateJob(r.Context(), traceID, req)
	if err != nil {
		os.Remove(filePath)
		h.handleError(w, "Failed to create job", err, traceID, http.StatusInternalServerError)
		return
	}

	h.logger.Info("Video uploaded",
		zap.String("trace_id", traceID),
		zap.String("job_id", resp.JobID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.String("target_language", targetLang),
	)

	h.respondJSON(w, http.StatusOK, resp)
}

// Status handles GET /status/{id}.
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	jobID := mux.Vars(r)["id"]
	if jobID == "" {
		h.handleError(w, "Job ID is required", nil, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetJobStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, dto.ErrJobNotFound) {
			h.handleError(w, msgJobNotFound, err, traceID, http.StatusNotFound)
			return
		}
		h.handleError(w, "Failed to get job status", err, traceID, http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Download handles GET /download/{id}.
func (h *JobHandler) Download(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	jobID := mux.Vars(r)["id"]
	if jobID == "" {
		h.handleError(w, "Job ID is required", nil, traceID, http.StatusBadRequest)
		return
	}

	path, err := h.service.GetOutputPath(r.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, dto.ErrJobNotFound):
			h.handleError(w, msgJobNotFound, err, traceID, http.StatusNotFound)
		case errors.Is(err, dto.ErrJobNotReady):
			h.handleError(w, msgVideoNotReady, err, traceID, http.StatusBadRequest)
		default:
			h.handleError(w, "Failed to get output", err, traceID, http.StatusInternalServerError)
		}
		return
	}

	f, err := os.Open(path)
	if err != nil {
		h.handleError(w, msgVideoNotReady, err, traceID, http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.handleError(w, "Failed to read output", err, traceID, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="dubbed_%s.mp4"`, jobID))
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func spool(path string, src io.Reader) error {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (h *JobHandler) handleError(w http.ResponseWriter, message string, err error, traceID string, status int) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log(message,
		zap.String("trace_id", traceID),
		zap.Int("status", status),
		zap.Error(err),
	)

	h.respondJSON(w, status, dto.ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}

func (h *JobHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
