// Package store persists application records. The Repository interface is the
// capability handed to the pipeline; the Postgres implementation backs normal
// runs and the in-memory one backs tests and store-less development.
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Workflow statuses. The enum is flat: any status can be set to any other by
// direct user action, there is no enforced transition graph.
const (
	StatusToComplete = "to-complete"
	StatusInProgress = "in-progress"
	StatusSubmitted  = "submitted"
	StatusInterview  = "interview"
)

// Placeholder recorded for company/location fields the extractor could not
// resolve.
const Placeholder = "to be determined"

var (
	ErrNotFound      = errors.New("application not found")
	ErrDuplicate     = errors.New("duplicate application")
	ErrInvalidStatus = errors.New("invalid status")
)

func ValidStatus(s string) bool {
	switch s {
	case StatusToComplete, StatusInProgress, StatusSubmitted, StatusInterview:
		return true
	}
	return false
}

// Application is the durable record. Deadline is a Y-M-D (or ISO) string,
// empty when the offer has none. Priority is the user-set 1..10 tiebreak, not
// the computed priority score.
type Application struct {
	ID       string `json:"id"`
	Company  string `json:"company"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`

	Compatibility       *int     `json:"compatibility,omitempty"`
	MatchingSkills      []string `json:"matching_skills,omitempty"`
	MissingRequirements []string `json:"missing_requirements,omitempty"`
	RecommendedChannel  string   `json:"recommended_channel,omitempty"`
	RequiredDocuments   []string `json:"required_documents,omitempty"`
	Excluded            bool     `json:"excluded,omitempty"`
	ExclusionReason     string   `json:"exclusion_reason,omitempty"`
	TemplateRefs        []string `json:"template_refs,omitempty"`

	Keywords        string `json:"keywords,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
	Channel         string `json:"channel,omitempty"`
	SourceLabel     string `json:"source_label,omitempty"`
	Notes           string `json:"notes,omitempty"`
	DeadlineMissing bool   `json:"deadline_missing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DedupeKey is the duplicate-suppression key: lowercase (company, title).
func (a Application) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(a.Company)) + "\x00" + strings.ToLower(strings.TrimSpace(a.Title))
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Company             *string
	Title               *string
	Location            *string
	Deadline            *string
	Status              *string
	Priority            *int
	Compatibility       *int
	MatchingSkills      *[]string
	MissingRequirements *[]string
	RecommendedChannel  *string
	RequiredDocuments   *[]string
	Excluded            *bool
	ExclusionReason     *string
	TemplateRefs        *[]string
	Keywords            *string
	ContactEmail        *string
	SourceURL           *string
	Notes               *string
	DeadlineMissing     *bool
}

// Repository is the record-store contract consumed by the pipeline.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Application, int, error)
	Get(ctx context.Context, id string) (Application, error)
	Create(ctx context.Context, app Application) (Application, error)
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
	// BulkCreate inserts drafts with duplicate suppression keyed on lowercase
	// (company, title), against the stored set and within the batch itself.
	BulkCreate(ctx context.Context, apps []Application) (inserted []string, duplicates int, err error)
	ExistsByCompanyTitle(ctx context.Context, company, title string) (bool, error)
}

func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// applyPatch merges p into app.
func applyPatch(app *Application, p Patch) error {
	if p.Status != nil {
		if !ValidStatus(*p.Status) {
			return ErrInvalidStatus
		}
		app.Status = *p.Status
	}
	if p.Company != nil {
		app.Company = *p.Company
	}
	if p.Title != nil {
		app.Title = *p.Title
	}
	if p.Location != nil {
		app.Location = *p.Location
	}
	if p.Deadline != nil {
		app.Deadline = *p.Deadline
	}
	if p.Priority != nil {
		app.Priority = *p.Priority
	}
	if p.Compatibility != nil {
		v := *p.Compatibility
		app.Compatibility = &v
	}
	if p.MatchingSkills != nil {
		app.MatchingSkills = *p.MatchingSkills
	}
	if p.MissingRequirements != nil {
		app.MissingRequirements = *p.MissingRequirements
	}
	if p.RecommendedChannel != nil {
		app.RecommendedChannel = *p.RecommendedChannel
	}
	if p.RequiredDocuments != nil {
		app.RequiredDocuments = *p.RequiredDocuments
	}
	if p.Excluded != nil {
		app.Excluded = *p.Excluded
	}
	if p.ExclusionReason != nil {
		app.ExclusionReason = *p.ExclusionReason
	}
	if p.TemplateRefs != nil {
		app.TemplateRefs = *p.TemplateRefs
	}
	if p.Keywords != nil {
		app.Keywords = *p.Keywords
	}
	if p.ContactEmail != nil {
		app.ContactEmail = *p.ContactEmail
	}
	if p.SourceURL != nil {
		app.SourceURL = *p.SourceURL
	}
	if p.Notes != nil {
		app.Notes = *p.Notes
	}
	if p.DeadlineMissing != nil {
		app.DeadlineMissing = *p.DeadlineMissing
	}
	return nil
}
