package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
)

// maxResponseBytes bounds the body read from the extraction service.
const maxResponseBytes = 1 << 20

type extractionRequest struct {
	Text string `json:"text"`
}

// ExtractionHTTPClient posts the document text to an extraction service that
// answers with the payslip JSON document as its response body.
type ExtractionHTTPClient struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewExtractionHTTPClient(url string, httpClient *http.Client, logger *slog.Logger) *ExtractionHTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionHTTPClient{url: url, httpClient: httpClient, logger: logger}
}

func (c *ExtractionHTTPClient) ExtractPayslipJSON(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(extractionRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call extraction service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("llm.http.response", "url", c.url, "size", len(body))
	return body, nil
}
