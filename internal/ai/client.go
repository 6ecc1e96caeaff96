// Package ai talks to the external LLM analysis endpoint that scores an offer
// against the candidate profile. The HTTP client is the real thing; the mock
// reuses the local heuristic scorer so the rest of the pipeline behaves the
// same offline.
package ai

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/mbaudet/applytrack/internal/profile"
)

type Client interface {
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error)
}

type AnalysisRequest struct {
	JobDescription string `json:"jobDescription"`
	UserProfile    string `json:"userProfile,omitempty"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AnalysisResult mirrors the analysis endpoint's response shape. When a
// result reaches a record, its Compatibility supersedes the local heuristic
// entirely.
type AnalysisResult struct {
	Compatibility       int       `json:"compatibility"`
	MatchingSkills      []string  `json:"matching_skills"`
	MissingRequirements []string  `json:"missing_requirements"`
	Keywords            string    `json:"keywords"`
	RecommendedChannel  string    `json:"recommended_channel"`
	RequiredDocuments   []string  `json:"required_documents"`
	Contacts            []Contact `json:"contacts,omitempty"`
	Excluded            bool      `json:"excluded,omitempty"`
	ExclusionReason     string    `json:"exclusion_reason,omitempty"`
	Reasoning           string    `json:"reasoning"`
}

// NewClient picks a client from the environment: "http" when
// ANALYSIS_API_URL is set (or AI_PROVIDER=http), the mock otherwise.
func NewClient(p profile.Profile) Client {
	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	apiURL := os.Getenv("ANALYSIS_API_URL")

	if provider == "" {
		if apiURL != "" {
			provider = "http"
		} else {
			provider = "mock"
		}
	}

	switch provider {
	case "http":
		if apiURL == "" {
			slog.Warn("AI_PROVIDER=http but ANALYSIS_API_URL not set, falling back to mock")
			return NewMockClient(p)
		}
		slog.Info("using HTTP analysis client", "url", apiURL)
		return NewHTTPClient(apiURL, os.Getenv("ANALYSIS_API_KEY"))
	default:
		slog.Info("using mock analysis client (set ANALYSIS_API_URL for real analysis)")
		return NewMockClient(p)
	}
}
