package session

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"videoDubber/client/dto"
)

// poll queries the job status every interval until a terminal snapshot is
// applied or ctx is cancelled. Each tick runs on its own goroutine, so a slow
// reply never delays the next tick.
func (s *Session) poll(ctx context.Context, jobID string, done chan struct{}) {
	defer close(done)

	var inflight sync.WaitGroup
	defer inflight.Wait()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq := s.nextSeq()
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				s.tick(ctx, jobID, seq)
			}()
		}
	}
}

func (s *Session) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Session) tick(ctx context.Context, jobID string, seq uint64) {
	snapshot, err := s.backend.Status(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("Error polling status",
			zap.String("job_id", jobID),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return
	}

	s.apply(seq, snapshot)
}

// apply renders snapshot unless a newer one has already been rendered or the
// job is no longer being polled.
func (s *Session) apply(seq uint64, snapshot *dto.StatusSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePolling {
		return
	}
	if seq <= s.applied {
		s.logger.Debug("Discarding stale status",
			zap.String("job_id", s.jobID),
			zap.Uint64("seq", seq),
			zap.Uint64("applied", s.applied),
		)
		return
	}
	s.applied = seq

	s.view.UpdateProgress(clampProgress(snapshot.Progress), snapshot.Step)

	switch snapshot.Status {
	case dto.StatusCompleted:
		s.finish(PhaseCompleted, snapshot)
		s.view.ShowCompleted(snapshot.DownloadURL)
		s.logger.Info("Job completed",
			zap.String("job_id", s.jobID),
			zap.String("download_url", snapshot.DownloadURL),
		)
	case dto.StatusFailed:
		message := snapshot.Error
		if message == "" {
			message = MessageUnknownError
		}
		s.finish(PhaseFailed, snapshot)
		s.view.ShowFailed(message)
		s.logger.Info("Job failed",
			zap.String("job_id", s.jobID),
			zap.String("error", message),
		)
	}
}

func (s *Session) finish(phase Phase, snapshot *dto.StatusSnapshot) {
	s.phase = phase
	s.result = snapshot
	if s.stopPolling != nil {
		s.stopPolling()
	}
}

// clampProgress rounds p to a whole percent within 0..100.
func clampProgress(p float64) int {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return int(math.Round(p))
	}
}
