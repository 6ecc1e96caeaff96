package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaudet/applytrack/internal/ai"
	"github.com/mbaudet/applytrack/internal/app"
	"github.com/mbaudet/applytrack/internal/profile"
	"github.com/mbaudet/applytrack/internal/store"
)

type stubAI struct {
	result ai.AnalysisResult
	err    error
}

func (s *stubAI) Analyze(ctx context.Context, req ai.AnalysisRequest) (ai.AnalysisResult, error) {
	return s.result, s.err
}

func newTestServer(client ai.Client) (*Server, *store.Memory) {
	repo := store.NewMemory()
	service := app.New(repo, client, nil, profile.Default(), nil)
	return NewServer(repo, service), repo
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(&stubAI{})
	rec := doJSON(t, server.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCreateGetUpdateDelete(t *testing.T) {
	server, _ := newTestServer(&stubAI{})
	router := server.Router()

	rec := doJSON(t, router, http.MethodPost, "/applications", CreateApplicationRequest{
		Company: "Acme SA", Title: "Responsable Marketing", Location: "Genève", Deadline: "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created store.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, store.StatusToComplete, created.Status)

	rec = doJSON(t, router, http.MethodGet, "/applications/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := store.StatusSubmitted
	rec = doJSON(t, router, http.MethodPatch, "/applications/"+created.ID, map[string]any{"status": status})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated store.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, store.StatusSubmitted, updated.Status)

	rec = doJSON(t, router, http.MethodDelete, "/applications/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/applications/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateDuplicateConflict(t *testing.T) {
	server, _ := newTestServer(&stubAI{})
	router := server.Router()

	req := CreateApplicationRequest{Company: "Acme SA", Title: "Responsable Marketing"}
	rec := doJSON(t, router, http.MethodPost, "/applications", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/applications", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	server, _ := newTestServer(&stubAI{})
	router := server.Router()

	rec := doJSON(t, router, http.MethodPost, "/applications", CreateApplicationRequest{Company: "Acme SA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/applications", CreateApplicationRequest{Title: "X", Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPagination(t *testing.T) {
	server, repo := newTestServer(&stubAI{})
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, store.Application{ID: id, Company: "C" + id, Title: "T" + id, Status: store.StatusToComplete})
		require.NoError(t, err)
	}

	rec := doJSON(t, server.Router(), http.MethodGet, "/applications?limit=2&offset=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []store.Application `json:"items"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.Total)
}

func TestImportEndpoint(t *testing.T) {
	server, _ := newTestServer(&stubAI{result: ai.AnalysisResult{Compatibility: 66}})
	router := server.Router()

	rec := doJSON(t, router, http.MethodPost, "/import", ImportRequest{
		Content: "Responsable Marketing chez Acme SA à Genève", Shape: "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report app.ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Imported)
}

func TestImportParseMissReturnsOK(t *testing.T) {
	server, _ := newTestServer(&stubAI{})
	rec := doJSON(t, server.Router(), http.MethodPost, "/import", ImportRequest{
		Content: "bonjour, merci pour votre retour rapide", Shape: "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report app.ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 0, report.Detected)
	assert.Equal(t, 0, report.Imported)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"rate limited", &ai.APIError{Status: 429, Message: "slow down"}, http.StatusTooManyRequests},
		{"quota", &ai.APIError{Status: 402, Message: "quota"}, http.StatusPaymentRequired},
		{"backend down", assert.AnError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, repo := newTestServer(&stubAI{err: tt.err})
			_, err := repo.Create(context.Background(), store.Application{
				ID: "a1", Company: "Acme SA", Title: "Responsable Marketing", Status: store.StatusToComplete,
			})
			require.NoError(t, err)

			rec := doJSON(t, server.Router(), http.MethodPost, "/applications/a1/analyze", nil)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAnalyzeNotFound(t *testing.T) {
	server, _ := newTestServer(&stubAI{})
	rec := doJSON(t, server.Router(), http.MethodPost, "/applications/missing/analyze", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSortedEndpoint(t *testing.T) {
	server, repo := newTestServer(&stubAI{})
	ctx := context.Background()

	compat := 85
	_, err := repo.Create(ctx, store.Application{
		ID: "high", Company: "Acme SA", Title: "Responsable Marketing",
		Status: store.StatusInterview, Compatibility: &compat,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, store.Application{
		ID: "low", Company: "Globex", Title: "Analyste", Status: store.StatusToComplete,
	})
	require.NoError(t, err)

	rec := doJSON(t, server.Router(), http.MethodGet, "/applications/sorted", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []app.Prioritized `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "high", resp.Items[0].ID)
}

func TestCalendarEndpoints(t *testing.T) {
	server, repo := newTestServer(&stubAI{})
	_, err := repo.Create(context.Background(), store.Application{
		ID: "a1", Company: "Acme SA", Title: "Responsable Marketing",
		Status: store.StatusToComplete, Deadline: "2026-09-15",
	})
	require.NoError(t, err)
	router := server.Router()

	rec := doJSON(t, router, http.MethodGet, "/calendar?year=2026&month=9&day=15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme SA")

	rec = doJSON(t, router, http.MethodGet, "/calendar?year=2026&month=9&day=14", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Acme SA")

	rec = doJSON(t, router, http.MethodGet, "/calendar?year=2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/calendar/week?start=2026-09-14", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme SA")

	rec = doJSON(t, router, http.MethodGet, "/calendar/week", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupEndpoints(t *testing.T) {
	server, repo := newTestServer(&stubAI{})
	_, err := repo.Create(context.Background(), store.Application{
		ID: "a1", Company: "Acme SA", Title: "Responsable Marketing", Location: "Genève",
		Status: store.StatusSubmitted, Deadline: "2026-10-01",
	})
	require.NoError(t, err)
	router := server.Router()

	rec := doJSON(t, router, http.MethodGet, "/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "applications-backup.json")
	exported := rec.Body.String()

	// Re-importing the export touches nothing new.
	req := httptest.NewRequest(http.MethodPost, "/backup", strings.NewReader(exported))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)

	var report app.BackupReport
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &report))
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 1, report.Duplicates)

	rec = doJSON(t, router, http.MethodPost, "/backup", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
