package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"videoDubber/client/dto"
	"videoDubber/client/validation"
)

const (
	uploadPath = "/upload"
	statusPath = "/status/"

	fieldVideo          = "video"
	fieldTargetLanguage = "target_language"

	defaultUploadError = "Upload failed"
	defaultStatusError = "Status request failed"
)

var ErrMissingJobID = errors.New("upload response is missing job_id")

// Error is a non-2xx reply from the dubbing service.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Upload streams the file and target language as a multipart form and
// returns the job id assigned by the service.
func (c *Client) Upload(ctx context.Context, file validation.File, targetLanguage string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file.Name, err)
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)

	go func() {
		defer src.Close()
		pw.CloseWithError(writeUploadForm(writer, file.Name, src, targetLanguage))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadPath), pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Info("Uploading video",
		zap.String("filename", file.Name),
		zap.Int64("size", file.Size),
		zap.String("target_language", targetLanguage),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeError(resp, defaultUploadError)
	}

	var out dto.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.JobID == "" {
		return "", ErrMissingJobID
	}

	c.logger.Info("Upload accepted", zap.String("job_id", out.JobID))

	return out.JobID, nil
}

func writeUploadForm(writer *multipart.Writer, filename string, src io.Reader, targetLanguage string) error {
	part, err := writer.CreateFormFile(fieldVideo, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	if err := writer.WriteField(fieldTargetLanguage, targetLanguage); err != nil {
		return err
	}
	return writer.Close()
}

// Status fetches the current snapshot of a job.
func (c *Client) Status(ctx context.Context, jobID string) (*dto.StatusSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(statusPath+url.PathEscape(jobID)), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp, defaultStatusError)
	}

	var snapshot dto.StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	return &snapshot, nil
}

// ResolveURL turns a server-relative link such as a download_url into an
// absolute one. Absolute links are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func decodeError(resp *http.Response, fallback string) error {
	var payload dto.ErrorResponse
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &Error{StatusCode: resp.StatusCode, Message: fallback}
	}
	return &Error{StatusCode: resp.StatusCode, Message: payload.Error}
}
