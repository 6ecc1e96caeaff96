package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mbaudet/applytrack/internal/ai"
	"github.com/mbaudet/applytrack/internal/app"
	"github.com/mbaudet/applytrack/internal/observability"
	"github.com/mbaudet/applytrack/internal/store"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 50)

	apps, total, err := s.repo.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch applications: "+err.Error())
		return
	}
	if apps == nil {
		apps = []store.Application{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  apps,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

type CreateApplicationRequest struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Keywords string `json:"keywords"`
	Notes    string `json:"notes"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Status == "" {
		req.Status = store.StatusToComplete
	}
	if !store.ValidStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	created, err := s.repo.Create(r.Context(), store.Application{
		ID:       uuid.NewString(),
		Company:  req.Company,
		Title:    req.Title,
		Location: req.Location,
		Deadline: req.Deadline,
		Status:   req.Status,
		Priority: req.Priority,
		Keywords: req.Keywords,
		Notes:    req.Notes,
	})
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "An application for this company and title already exists")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create application: "+err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	application, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch application: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, application)
}

type UpdateApplicationRequest struct {
	Company         *string   `json:"company"`
	Title           *string   `json:"title"`
	Location        *string   `json:"location"`
	Deadline        *string   `json:"deadline"`
	Status          *string   `json:"status"`
	Priority        *int      `json:"priority"`
	Keywords        *string   `json:"keywords"`
	ContactEmail    *string   `json:"contact_email"`
	SourceURL       *string   `json:"source_url"`
	Notes           *string   `json:"notes"`
	Excluded        *bool     `json:"excluded"`
	ExclusionReason *string   `json:"exclusion_reason"`
	RequiredDocs    *[]string `json:"required_documents"`
	TemplateRefs    *[]string `json:"template_refs"`
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := store.Patch{
		Company:           req.Company,
		Title:             req.Title,
		Location:          req.Location,
		Deadline:          req.Deadline,
		Status:            req.Status,
		Priority:          req.Priority,
		Keywords:          req.Keywords,
		ContactEmail:      req.ContactEmail,
		SourceURL:         req.SourceURL,
		Notes:             req.Notes,
		Excluded:          req.Excluded,
		ExclusionReason:   req.ExclusionReason,
		RequiredDocuments: req.RequiredDocs,
		TemplateRefs:      req.TemplateRefs,
	}

	err := s.repo.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Application not found")
		return
	case errors.Is(err, store.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, "An application for this company and title already exists")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update application: "+err.Error())
		return
	}

	updated, err := s.repo.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch application: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.repo.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete application: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleSorted(w http.ResponseWriter, r *http.Request) {
	sorted, err := s.service.Sorted(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to sort applications: "+err.Error())
		return
	}
	if sorted == nil {
		sorted = []app.Prioritized{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": sorted})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err1 := strconv.Atoi(q.Get("year"))
	month, err2 := strconv.Atoi(q.Get("month"))
	day, err3 := strconv.Atoi(q.Get("day"))
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		respondError(w, http.StatusBadRequest, "year, month and day query parameters are required")
		return
	}

	matched, err := s.service.Calendar(r.Context(), year, time.Month(month), day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read calendar: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": matched})
}

func (s *Server) handleCalendarWeek(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	if start == "" {
		respondError(w, http.StatusBadRequest, "start query parameter is required")
		return
	}

	week, err := s.service.Week(r.Context(), start)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start date: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"days": week})
}

type ImportRequest struct {
	Content string `json:"content"`
	Shape   string `json:"shape"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}

	report, err := s.service.Import(r.Context(), req.Content, req.Shape)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Import failed: "+err.Error())
		return
	}
	// A parse miss is not an error: the caller sees detected=0.
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analyzed, err := s.service.Analyze(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Application not found")
		return
	case errors.Is(err, app.ErrAnalysisInFlight):
		respondError(w, http.StatusConflict, "Analysis already in progress")
		return
	case errors.Is(err, ai.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "Analysis backend rate limit reached, try again later")
		return
	case errors.Is(err, ai.ErrQuotaExhausted):
		respondError(w, http.StatusPaymentRequired, "Analysis backend quota exhausted")
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, analyzed)
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	enriched, err := s.service.Enrich(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Application not found")
		return
	case err != nil:
		respondError(w, http.StatusBadGateway, "Enrich failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, enriched)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	exported, err := s.service.Export(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to export backup: "+err.Error())
		return
	}
	if exported == nil {
		exported = []store.Application{}
	}
	w.Header().Set("Content-Disposition", `attachment; filename="applications-backup.json"`)
	respondJSON(w, http.StatusOK, exported)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	report, err := s.service.ImportBackup(r.Context(), data)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid backup payload: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
