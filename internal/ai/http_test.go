package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaudet/applytrack/internal/profile"
)

func TestHTTPClientAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"compatibility": 82, "matching_skills": ["marketing"], "missing_requirements": ["allemand"], "keywords": "kw", "recommended_channel": "email", "required_documents": ["CV"], "reasoning": "ok"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret")
	res, err := client.Analyze(context.Background(), AnalysisRequest{JobDescription: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 82, res.Compatibility)
	assert.Equal(t, []string{"marketing"}, res.MatchingSkills)
	assert.Equal(t, "email", res.RecommendedChannel)
}

func TestHTTPClientFencedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n{\"compatibility\": 70, \"reasoning\": \"ok\"}\n```"))
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, "").Analyze(context.Background(), AnalysisRequest{})
	require.NoError(t, err)
	assert.Equal(t, 70, res.Compatibility)
}

func TestHTTPClientDistinguishesRateLimitAndQuota(t *testing.T) {
	cases := []struct {
		status int
		target error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrQuotaExhausted},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		_, err := NewHTTPClient(srv.URL, "").Analyze(context.Background(), AnalysisRequest{})
		srv.Close()

		require.Error(t, err)
		assert.ErrorIs(t, err, tc.target, "status %d", tc.status)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tc.status, apiErr.Status)
	}
}

func TestHTTPClientGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "").Analyze(context.Background(), AnalysisRequest{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
	assert.False(t, errors.Is(err, ErrQuotaExhausted))
}

func TestHTTPClientClampsCompatibility(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"compatibility": 240, "reasoning": "ok"}`))
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL, "").Analyze(context.Background(), AnalysisRequest{})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Compatibility)
}

func TestMockClientDeterministic(t *testing.T) {
	client := NewMockClient(profile.Default())
	req := AnalysisRequest{JobDescription: "Responsable marketing et communication, réseaux sociaux, événementiel"}

	a, err := client.Analyze(context.Background(), req)
	require.NoError(t, err)
	b, err := client.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotZero(t, a.Compatibility)
	assert.NotEmpty(t, a.RequiredDocuments)
}
