package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"videoDubber/client/dto"
	"videoDubber/client/validation"
)

func memFile(name, content string) validation.File {
	return validation.File{
		Name:     name,
		Size:     int64(len(content)),
		MIMEType: validation.MIMETypeMP4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, srv.Client(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestClient_Upload_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if got := r.FormValue("target_language"); got != "hi" {
			t.Errorf("Expected target_language hi, got %q", got)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("Missing video part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "clip.mp4" || string(data) != "video-bytes" {
			t.Errorf("Unexpected file %s with %q", header.Filename, data)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dto.UploadResponse{JobID: "abc123"})
	})

	jobID, err := c.Upload(context.Background(), memFile("clip.mp4", "video-bytes"), "hi")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if jobID != "abc123" {
		t.Errorf("Expected job id abc123, got %s", jobID)
	}
}

func TestClient_Upload_ErrorPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "Invalid file format. Please upload MP4, AVI, MOV, or MKV"})
	})

	_, err := c.Upload(context.Background(), memFile("clip.mp4", "x"), "hi")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid file format. Please upload MP4, AVI, MOV, or MKV" {
		t.Errorf("Unexpected message %q", apiErr.Message)
	}
}

func TestClient_Upload_ErrorWithoutPayloadFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Upload(context.Background(), memFile("clip.mp4", "x"), "hi")
	if err == nil || err.Error() != "Upload failed" {
		t.Errorf("Expected fallback message, got %v", err)
	}
}

func TestClient_Upload_MissingJobID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{}`))
	})

	_, err := c.Upload(context.Background(), memFile("clip.mp4", "x"), "hi")
	if !errors.Is(err, ErrMissingJobID) {
		t.Errorf("Expected ErrMissingJobID, got %v", err)
	}
}

func TestClient_Upload_OpenFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected when the file cannot be opened")
	})

	openErr := errors.New("permission denied")
	f := validation.File{
		Name:     "clip.mp4",
		MIMEType: validation.MIMETypeMP4,
		Open:     func() (io.ReadCloser, error) { return nil, openErr },
	}

	if _, err := c.Upload(context.Background(), f, "hi"); !errors.Is(err, openErr) {
		t.Errorf("Expected open error, got %v", err)
	}
}

func TestClient_Status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status/abc123" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"completed","progress":100,"step":"Completed!","download_url":"/files/abc123.mp4","error":null}`))
	})

	snapshot, err := c.Status(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if snapshot.Status != dto.StatusCompleted || snapshot.Progress != 100 {
		t.Errorf("Unexpected snapshot %+v", snapshot)
	}
	if snapshot.DownloadURL != "/files/abc123.mp4" {
		t.Errorf("Expected download url /files/abc123.mp4, got %s", snapshot.DownloadURL)
	}
}

func TestClient_Status_FractionalProgress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"in_progress","progress":53.333333333333336,"step":"Translating subtitles...","error":null,"download_url":null}`))
	})

	snapshot, err := c.Status(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if snapshot.Progress < 53.33 || snapshot.Progress > 53.34 {
		t.Errorf("Expected progress 53.33, got %v", snapshot.Progress)
	}
	if snapshot.DownloadURL != "" || snapshot.Error != "" {
		t.Errorf("Expected null fields to decode empty, got %+v", snapshot)
	}
}

func TestClient_Status_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Job not found"}`))
	})

	_, err := c.Status(context.Background(), "missing")

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 *Error, got %v", err)
	}
}

func TestClient_Status_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	if _, err := c.Status(context.Background(), "abc123"); err == nil {
		t.Error("Expected decode error")
	}
}

func TestClient_ResolveURL(t *testing.T) {
	c, err := NewClient("http://localhost:5000/", nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if got := c.ResolveURL("/download/abc"); got != "http://localhost:5000/download/abc" {
		t.Errorf("Unexpected resolved url %s", got)
	}
	if got := c.ResolveURL("https://cdn.example.com/x.mp4"); got != "https://cdn.example.com/x.mp4" {
		t.Errorf("Absolute url should be unchanged, got %s", got)
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("localhost", nil, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for relative base url")
	}
}
