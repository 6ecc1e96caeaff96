// Package app runs the application pipeline: import, analysis, priority
// sorting, calendar lookups, and backups. It owns all writes to the store;
// handlers stay thin.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mbaudet/applytrack/internal/ai"
	"github.com/mbaudet/applytrack/internal/dateutil"
	"github.com/mbaudet/applytrack/internal/extract"
	"github.com/mbaudet/applytrack/internal/fetch"
	"github.com/mbaudet/applytrack/internal/observability"
	"github.com/mbaudet/applytrack/internal/profile"
	"github.com/mbaudet/applytrack/internal/rules"
	"github.com/mbaudet/applytrack/internal/score"
	"github.com/mbaudet/applytrack/internal/store"
)

var ErrAnalysisInFlight = errors.New("analysis already in progress for this application")

// Import content shapes.
const (
	ShapeText  = "text"
	ShapeEmail = "email"
	ShapeHTML  = "html"
	ShapePDF   = "pdf"
)

type Service struct {
	repo    store.Repository
	ai      ai.Client
	fetcher fetch.PageFetcher
	profile profile.Profile
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(repo store.Repository, client ai.Client, fetcher fetch.PageFetcher, p profile.Profile, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		ai:       client,
		fetcher:  fetcher,
		profile:  p,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// ImportReport summarizes one import call. Detected is the number of drafts
// the heuristics found before dedupe; zero means a parse miss.
type ImportReport struct {
	Detected   int      `json:"detected"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Excluded   int      `json:"excluded"`
	IDs        []string `json:"ids,omitempty"`
}

// Import runs the full pipeline on pasted content: extraction per shape,
// exclusion rules, analysis (falling back to the local heuristic when the
// analysis backend fails), then bulk insert with duplicate suppression.
// Drafts are processed sequentially.
func (s *Service) Import(ctx context.Context, content, shape string) (ImportReport, error) {
	var drafts []extract.Draft
	switch shape {
	case ShapeEmail:
		drafts = extract.FromEmail(content)
	case ShapeHTML:
		drafts = extract.FromHTML(content)
	case ShapePDF:
		drafts = extract.FromPDFText(content)
	default:
		shape = ShapeText
		drafts = extract.FromText(content)
	}

	observability.IncImport(shape)
	if len(drafts) == 0 {
		observability.IncParseMiss()
		return ImportReport{}, nil
	}
	observability.IncDraftsExtracted(len(drafts))

	report := ImportReport{Detected: len(drafts)}
	apps := make([]store.Application, 0, len(drafts))
	for _, d := range drafts {
		app := s.buildApplication(ctx, d)
		if app.Excluded {
			report.Excluded++
		}
		apps = append(apps, app)
	}

	inserted, duplicates, err := s.repo.BulkCreate(ctx, apps)
	if err != nil {
		observability.IncError(observability.ErrorStore, "import")
		return ImportReport{}, fmt.Errorf("bulk create: %w", err)
	}
	report.Imported = len(inserted)
	report.Duplicates = duplicates
	report.IDs = inserted

	s.logger.Info("import complete",
		"shape", shape,
		"detected", report.Detected,
		"imported", report.Imported,
		"duplicates", report.Duplicates,
		"excluded", report.Excluded)
	return report, nil
}

// buildApplication turns a draft into a record: exclusion flags, an analysis
// pass, and placeholders for what extraction could not resolve.
func (s *Service) buildApplication(ctx context.Context, d extract.Draft) store.Application {
	flags := rules.Evaluate(d.Title, d.Location, d.Keywords)

	app := store.Application{
		ID:                uuid.NewString(),
		Company:           orPlaceholder(d.Company),
		Title:             d.Title,
		Location:          orPlaceholder(d.Location),
		Deadline:          d.DeadlineISO,
		Status:            store.StatusToComplete,
		Keywords:          d.Keywords,
		ContactEmail:      d.ContactEmail,
		SourceURL:         d.SourceURL,
		Channel:           d.Channel,
		SourceLabel:       d.SourceLabel,
		RequiredDocuments: d.RequiredDocs,
		DeadlineMissing:   d.DeadlineMissing,
	}
	if flags.Excluded() {
		app.Excluded = true
		app.ExclusionReason = flags.Reason()
	}

	res, err := s.analyze(ctx, app.Title, app.Keywords)
	if err != nil {
		// Silent fallback: score locally so the record never imports unscored.
		observability.IncError(observability.ClassifyAnalysisError(err), "import")
		s.logger.Warn("analysis failed during import, using local heuristic", "title", app.Title, "error", err)
		local := score.Compat(app.Title, app.Keywords, s.profile)
		res = ai.AnalysisResult{
			Compatibility:       local.Score,
			MatchingSkills:      local.MatchingSkills,
			MissingRequirements: local.MissingRequirements,
		}
	}
	mergeAnalysis(&app, res)
	return app
}

func (s *Service) analyze(ctx context.Context, title, keywords string) (ai.AnalysisResult, error) {
	desc := strings.TrimSpace(title + "\n" + keywords)
	observability.IncAICall()
	start := time.Now()
	res, err := s.ai.Analyze(ctx, ai.AnalysisRequest{
		JobDescription: desc,
		UserProfile:    s.profile.Summary,
	})
	observability.ObserveAnalyzeDuration(time.Since(start).Seconds())
	return res, err
}

// mergeAnalysis folds an analysis result into a record. The analysis
// compatibility replaces any prior value outright.
func mergeAnalysis(app *store.Application, res ai.AnalysisResult) {
	compat := res.Compatibility
	app.Compatibility = &compat
	if len(res.MatchingSkills) > 0 {
		app.MatchingSkills = res.MatchingSkills
	}
	if len(res.MissingRequirements) > 0 {
		app.MissingRequirements = res.MissingRequirements
	}
	if res.RecommendedChannel != "" {
		app.RecommendedChannel = res.RecommendedChannel
	}
	if len(res.RequiredDocuments) > 0 {
		app.RequiredDocuments = res.RequiredDocuments
	}
	if res.Keywords != "" && app.Keywords == "" {
		app.Keywords = res.Keywords
	}
	if app.ContactEmail == "" {
		for _, c := range res.Contacts {
			if c.Email != "" {
				app.ContactEmail = c.Email
				break
			}
		}
	}
	if res.Excluded && !app.Excluded {
		app.Excluded = true
		app.ExclusionReason = res.ExclusionReason
	}
}

// Analyze re-runs the analysis for a stored record and persists the merged
// result. A second call for the same id while one is pending is rejected.
func (s *Service) Analyze(ctx context.Context, id string) (store.Application, error) {
	s.mu.Lock()
	if _, busy := s.inflight[id]; busy {
		s.mu.Unlock()
		return store.Application{}, ErrAnalysisInFlight
	}
	s.inflight[id] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}()

	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return store.Application{}, err
	}

	res, err := s.analyze(ctx, app.Title, app.Keywords)
	if err != nil {
		observability.IncError(observability.ClassifyAnalysisError(err), "analyze")
		return store.Application{}, fmt.Errorf("analyze %s: %w", id, err)
	}

	mergeAnalysis(&app, res)
	patch := store.Patch{
		Compatibility:       app.Compatibility,
		MatchingSkills:      &app.MatchingSkills,
		MissingRequirements: &app.MissingRequirements,
		RecommendedChannel:  &app.RecommendedChannel,
		RequiredDocuments:   &app.RequiredDocuments,
		Keywords:            &app.Keywords,
		ContactEmail:        &app.ContactEmail,
		Excluded:            &app.Excluded,
		ExclusionReason:     &app.ExclusionReason,
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		observability.IncError(observability.ErrorStore, "analyze")
		return store.Application{}, err
	}
	return s.repo.Get(ctx, id)
}

// Enrich fetches the record's source page and extends its keyword blob with
// the page text.
func (s *Service) Enrich(ctx context.Context, id string) (store.Application, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return store.Application{}, err
	}
	if app.SourceURL == "" {
		return store.Application{}, errors.New("application has no source url")
	}
	if s.fetcher == nil {
		return store.Application{}, errors.New("page fetching is not configured")
	}

	page, err := s.fetcher.FetchPage(ctx, app.SourceURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "enrich")
		return store.Application{}, fmt.Errorf("fetch %s: %w", app.SourceURL, err)
	}

	keywords := strings.TrimSpace(app.Keywords + "\n" + page.Text)
	patch := store.Patch{Keywords: &keywords}
	if app.Title == "" && page.Title != "" {
		patch.Title = &page.Title
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		observability.IncError(observability.ErrorStore, "enrich")
		return store.Application{}, err
	}
	return s.repo.Get(ctx, id)
}

// Prioritized pairs a record with its computed priority for sorted views.
type Prioritized struct {
	store.Application
	PriorityScore score.Priority `json:"priority_score"`
}

// Sorted returns all records ordered by computed priority, highest first.
// Ties break on the user-set priority, then deadline proximity, then ID.
func (s *Service) Sorted(ctx context.Context) ([]Prioritized, error) {
	apps, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Prioritized, 0, len(apps))
	for _, app := range apps {
		days, hasDeadline := dateutil.DaysUntil(app.Deadline)
		compat, hasCompat := 0, false
		if app.Compatibility != nil {
			compat, hasCompat = *app.Compatibility, true
		}
		out = append(out, Prioritized{
			Application:   app,
			PriorityScore: score.Prio(days, hasDeadline, compat, hasCompat, app.Status),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore.Total != out[j].PriorityScore.Total {
			return out[i].PriorityScore.Total > out[j].PriorityScore.Total
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		di := dateutil.DaysUntilOr(out[i].Deadline, dateutil.NoDeadlineDays)
		dj := dateutil.DaysUntilOr(out[j].Deadline, dateutil.NoDeadlineDays)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Calendar returns the records whose deadline falls on the given day.
func (s *Service) Calendar(ctx context.Context, year int, month time.Month, day int) ([]store.Application, error) {
	apps, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := []store.Application{}
	for _, app := range apps {
		if dateutil.MatchesCalendarDay(app.Deadline, year, month, day) {
			matched = append(matched, app)
		}
	}
	return matched, nil
}

// CalendarDay groups one day's deadline matches for the week view.
type CalendarDay struct {
	Date         string              `json:"date"`
	Applications []store.Application `json:"applications"`
}

// Week returns seven days of deadline matches starting at start (Y-M-D).
func (s *Service) Week(ctx context.Context, start string) ([]CalendarDay, error) {
	year, month, day, ok := dateutil.SplitYMD(start)
	if !ok {
		return nil, fmt.Errorf("invalid start date %q", start)
	}
	apps, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]CalendarDay, 0, 7)
	cursor := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		y, m, d := cursor.Date()
		entry := CalendarDay{Date: cursor.Format("2006-01-02"), Applications: []store.Application{}}
		for _, app := range apps {
			if dateutil.MatchesCalendarDay(app.Deadline, y, m, d) {
				entry.Applications = append(entry.Applications, app)
			}
		}
		days = append(days, entry)
		cursor = cursor.AddDate(0, 0, 1)
	}
	return days, nil
}

func (s *Service) listAll(ctx context.Context) ([]store.Application, error) {
	const pageSize = 200
	var all []store.Application
	for offset := 0; ; offset += pageSize {
		page, total, err := s.repo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return store.Placeholder
	}
	return s
}
