package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/phrazzld/bookdeck/internal/config"
)

// Extractor is the boundary to the external document extraction service.
// Implementations turn a PDF document into structured text.
type Extractor interface {
	// ExtractText submits the PDF and blocks until the service produces
	// text, the extraction fails, or ctx is done.
	ExtractText(ctx context.Context, filename string, pdf []byte) (string, error)
}

// task states reported by the pdf-extract-api result endpoint.
const (
	taskStateSuccess = "SUCCESS"
	taskStateFailure = "FAILURE"
)

// OCRClient talks to a running pdf-extract-api instance: documents are
// submitted as multipart uploads, long-running extractions are polled by
// task ID until they settle.
type OCRClient struct {
	baseURL      string
	model        string
	strategy     string
	pollInterval time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// Ensure OCRClient implements the Extractor interface
var _ Extractor = (*OCRClient)(nil)

// NewOCRClient creates an extraction client from the extractor configuration.
func NewOCRClient(cfg config.ExtractorConfig, logger *slog.Logger) *OCRClient {
	return &OCRClient{
		baseURL:      cfg.BaseURL,
		model:        cfg.Model,
		strategy:     cfg.Strategy,
		pollInterval: cfg.PollInterval(),
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout()},
		logger:       logger.With(slog.String("component", "ocr_client")),
	}
}

// submitResponse is the upload endpoint's reply: either the extracted text
// directly (cached results) or a task ID to poll.
type submitResponse struct {
	Text   string `json:"text"`
	TaskID string `json:"task_id"`
}

// taskResponse is one poll of the result endpoint.
type taskResponse struct {
	State  string          `json:"state"`
	Result string          `json:"result"`
	Info   json.RawMessage `json:"info"`
}

// ExtractText implements Extractor.
func (c *OCRClient) ExtractText(ctx context.Context, filename string, pdf []byte) (string, error) {
	submitted, err := c.submit(ctx, filename, pdf)
	if err != nil {
		return "", err
	}

	if submitted.Text != "" {
		return submitted.Text, nil
	}
	if submitted.TaskID == "" {
		return "", fmt.Errorf("%w: service returned neither text nor task ID", ErrExtractionFailed)
	}

	c.logger.DebugContext(ctx, "extraction task submitted",
		slog.String("task_id", submitted.TaskID),
		slog.String("filename", filename))

	return c.awaitResult(ctx, submitted.TaskID)
}

// submit uploads the document as multipart form data.
func (c *OCRClient) submit(ctx context.Context, filename string, pdf []byte) (*submitResponse, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	fields := map[string]string{
		"ocr_cache": "true",
		"model":     c.model,
		"strategy":  c.strategy,
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to build upload request: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: upload returned status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upload returned status %d", ErrExtractionFailed, resp.StatusCode)
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return nil, fmt.Errorf("%w: malformed upload response: %w", ErrExtractionFailed, err)
	}

	return &submitted, nil
}

// awaitResult polls the task until it settles or ctx is done.
func (c *OCRClient) awaitResult(ctx context.Context, taskID string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		task, err := c.poll(ctx, taskID)
		if err != nil {
			return "", err
		}

		switch task.State {
		case taskStateSuccess:
			if task.Result == "" {
				return "", fmt.Errorf("%w: task %s succeeded with empty result", ErrExtractionFailed, taskID)
			}
			return task.Result, nil
		case taskStateFailure:
			return "", fmt.Errorf("%w: task %s: %s", ErrExtractionFailed, taskID, string(task.Info))
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *OCRClient) poll(ctx context.Context, taskID string) (*taskResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ocr/result/"+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build result request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: result returned status %d: %s",
			ErrExtractionFailed, resp.StatusCode, bytes.TrimSpace(body))
	}

	var task taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("%w: malformed result response: %w", ErrExtractionFailed, err)
	}

	return &task, nil
}
