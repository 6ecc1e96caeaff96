package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Rate-limit (429) and quota-exhausted (402) responses are user-visible
// cases of their own; every other non-2xx collapses into a generic failure.
var (
	ErrRateLimited    = errors.New("analysis rate limited")
	ErrQuotaExhausted = errors.New("analysis quota exhausted")
)

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("analysis API error (status %d)", e.Status)
	}
	return fmt.Sprintf("analysis API error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrQuotaExhausted:
		return e.Status == http.StatusPaymentRequired
	}
	return false
}

// HTTPClient implements Client against the remote analysis endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) Analyze(ctx context.Context, reqBody AnalysisRequest) (AnalysisResult, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AnalysisResult{}, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(cleanJSON(string(body))), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	if result.Compatibility < 0 {
		result.Compatibility = 0
	}
	if result.Compatibility > 100 {
		result.Compatibility = 100
	}
	return result, nil
}

// cleanJSON removes markdown code fences some LLM backends wrap around their
// JSON payloads.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
