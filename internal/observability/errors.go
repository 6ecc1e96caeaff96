package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mbaudet/applytrack/internal/ai"
	"github.com/mbaudet/applytrack/internal/fetch"
)

const (
	ErrorNetwork   = "network"
	ErrorParsing   = "parsing"
	ErrorAI        = "ai"
	ErrorRateLimit = "rate_limit"
	ErrorQuota     = "quota"
	ErrorStore     = "store"
	ErrorUnknown   = "unknown"
)

// ClassifyAnalysisError buckets failures from the analysis backend.
func ClassifyAnalysisError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		return ErrorRateLimit
	case errors.Is(err, ai.ErrQuotaExhausted):
		return ErrorQuota
	}
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) {
		return ErrorAI
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "decode") || strings.Contains(msg, "unmarshal") ||
		strings.Contains(msg, "invalid character") {
		return ErrorParsing
	}
	return ErrorNetwork
}

func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		switch {
		case fe.Status == http.StatusTooManyRequests:
			return ErrorRateLimit
		case fe.Status >= 500:
			return ErrorNetwork
		default:
			return ErrorNetwork
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	return ErrorUnknown
}
