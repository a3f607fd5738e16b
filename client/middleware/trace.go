package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const TraceIDHeader = "X-Trace-ID"

// Transport stamps every outgoing request with the session's trace id so the
// backend can correlate the upload with the status polls that follow it.
type Transport struct {
	base    http.RoundTripper
	traceID string
	logger  *zap.Logger
}

func NewTransport(base http.RoundTripper, traceID string, logger *zap.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:    base,
		traceID: traceID,
		logger:  logger,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if req.Header.Get(TraceIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(TraceIDHeader, t.traceID)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("Request failed",
			zap.String("trace_id", t.traceID),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	t.logger.Debug("Request completed",
		zap.String("trace_id", t.traceID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, nil
}
