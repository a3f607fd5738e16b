// Package session drives one upload: file selection, submission and status
// polling until the job reaches a terminal state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"videoDubber/client/dto"
	"videoDubber/client/validation"
	"videoDubber/language"
)

const PollInterval = 2 * time.Second

const (
	SubmitLabel     = "Start Dubbing Process"
	SubmittingLabel = "Uploading..."

	MessageNoFile              = "Please select a video file first"
	MessageInvalidType         = "Please select a valid video file (MP4, AVI, MOV, or MKV)"
	MessageTooLarge            = "File size must be less than 500MB"
	MessageUnsupportedLanguage = "Please choose a supported target language"
	MessageUnknownError        = "An unknown error occurred"
)

var (
	ErrNotStarted          = errors.New("session not started")
	ErrDisposed            = errors.New("session disposed")
	ErrNoFileSelected      = errors.New("no file selected")
	ErrUnsupportedLanguage = errors.New("unsupported target language")
	ErrSubmitInFlight      = errors.New("upload already in progress")
	ErrJobActive           = errors.New("a job was already submitted in this session")
	ErrNotPolling          = errors.New("no job is being tracked")
)

// Backend is the remote dubbing service.
type Backend interface {
	Upload(ctx context.Context, file validation.File, targetLanguage string) (string, error)
	Status(ctx context.Context, jobID string) (*dto.StatusSnapshot, error)
}

// Session owns the selected file and the poll loop of a single upload.
type Session struct {
	backend  Backend
	view     View
	logger   *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	disposed bool

	selected *validation.File
	phase    Phase
	jobID    string
	result   *dto.StatusSnapshot

	stopPolling context.CancelFunc
	done        chan struct{}

	// seq tags each status request; applied is the newest one rendered.
	seq     uint64
	applied uint64
}

func New(backend Backend, view View, logger *zap.Logger) *Session {
	return &Session{
		backend:  backend,
		view:     view,
		logger:   logger,
		interval: PollInterval,
		phase:    PhaseInitial,
	}
}

// Start binds the session to ctx. Cancelling ctx has the same effect as Dispose
// minus the wait.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	if s.ctx != nil {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.view.SetSubmit(true, SubmitLabel)
	return nil
}

// Dispose stops polling and waits for the loop to exit. It is safe to call
// more than once.
func (s *Session) Dispose() {
	s.mu.Lock()
	s.disposed = true
	if s.cancel != nil {
		s.cancel()
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) JobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobID
}

// Result returns the terminal snapshot, or nil while the job is still running.
func (s *Session) Result() *dto.StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Selected() (validation.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return validation.File{}, false
	}
	return *s.selected, true
}

// SelectFile records f as the file to upload. A rejected file leaves the
// previous selection in place.
func (s *Session) SelectFile(f validation.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.Validate(f); err != nil {
		s.view.Notify(noticeFor(err))
		s.logger.Info("File rejected",
			zap.String("filename", f.Name),
			zap.String("mime_type", f.MIMEType),
			zap.Int64("size", f.Size),
			zap.Error(err),
		)
		return err
	}

	s.selected = &f
	s.view.ShowSelection(f.Name, validation.FormatFileSize(f.Size))
	return nil
}

// Submit uploads the selected file and, once the service accepts it, starts
// polling in the background. It returns after the upload response arrives.
func (s *Session) Submit(ctx context.Context, targetLanguage string) error {
	s.mu.Lock()
	if err := s.checkSubmittable(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.selected == nil {
		s.view.Notify(MessageNoFile)
		s.mu.Unlock()
		return ErrNoFileSelected
	}
	if !language.Valid(targetLanguage) {
		s.view.Notify(MessageUnsupportedLanguage)
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, targetLanguage)
	}

	file := *s.selected
	sessionCtx := s.ctx
	s.phase = PhaseSubmitting
	s.view.SetSubmit(false, SubmittingLabel)
	s.mu.Unlock()

	uploadCtx, cancel := context.WithCancel(sessionCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	jobID, err := s.backend.Upload(uploadCtx, file, targetLanguage)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.phase = PhaseInitial
		s.view.Notify("Error: " + err.Error())
		s.view.SetSubmit(true, SubmitLabel)
		s.logger.Warn("Upload failed",
			zap.String("filename", file.Name),
			zap.Error(err),
		)
		return fmt.Errorf("submit upload: %w", err)
	}

	if s.disposed {
		s.phase = PhaseInitial
		return ErrDisposed
	}

	pollCtx, stopPolling := context.WithCancel(sessionCtx)
	s.phase = PhasePolling
	s.jobID = jobID
	s.stopPolling = stopPolling
	s.done = make(chan struct{})
	s.view.ShowProgressView()

	s.logger.Info("Tracking job",
		zap.String("job_id", jobID),
		zap.String("target_language", targetLanguage),
	)

	go s.poll(pollCtx, jobID, s.done)
	return nil
}

func (s *Session) checkSubmittable() error {
	switch {
	case s.disposed:
		return ErrDisposed
	case s.ctx == nil:
		return ErrNotStarted
	case s.phase == PhaseSubmitting:
		return ErrSubmitInFlight
	case s.phase != PhaseInitial:
		return ErrJobActive
	}
	return nil
}

// Wait blocks until polling stops and reports the phase it stopped in.
func (s *Session) Wait(ctx context.Context) (Phase, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return s.Phase(), ErrNotPolling
	}

	select {
	case <-done:
		return s.Phase(), nil
	case <-ctx.Done():
		return s.Phase(), ctx.Err()
	}
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, validation.ErrFileTooLarge):
		return MessageTooLarge
	case errors.Is(err, validation.ErrInvalidFileType):
		return MessageInvalidType
	default:
		return err.Error()
	}
}
