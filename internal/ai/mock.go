package ai

import (
	"context"
	"fmt"

	"github.com/mbaudet/applytrack/internal/extract"
	"github.com/mbaudet/applytrack/internal/profile"
	"github.com/mbaudet/applytrack/internal/score"
)

// MockClient is the offline analysis fallback: deterministic, built on the
// same heuristic scorer records fall back to when no analysis ran.
type MockClient struct {
	profile profile.Profile
}

func NewMockClient(p profile.Profile) *MockClient {
	return &MockClient{profile: p}
}

func (m *MockClient) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}

	compat := score.Compat("", req.JobDescription, m.profile)

	return AnalysisResult{
		Compatibility:       compat.Score,
		MatchingSkills:      compat.MatchingSkills,
		MissingRequirements: compat.MissingRequirements,
		Keywords:            truncate(req.JobDescription, 200),
		RecommendedChannel:  "email",
		RequiredDocuments:   extract.InferDocuments(req.JobDescription),
		Reasoning:           fmt.Sprintf("heuristic analysis, %s fit", compat.Recommendation),
	}, nil
}

func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
