package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

const appColumns = `
    id,
    company,
    title,
    location,
    deadline,
    status,
    priority,
    compatibility,
    matching_skills,
    missing_requirements,
    recommended_channel,
    required_documents,
    excluded,
    COALESCE(exclusion_reason, ''),
    template_refs,
    COALESCE(keywords, ''),
    COALESCE(contact_email, ''),
    COALESCE(source_url, ''),
    COALESCE(channel, ''),
    COALESCE(source_label, ''),
    COALESCE(notes, ''),
    deadline_missing,
    created_at,
    updated_at`

func scanApp(scan func(dest ...any) error) (Application, error) {
	var (
		app    Application
		compat sql.NullInt64
	)

	if err := scan(
		&app.ID,
		&app.Company,
		&app.Title,
		&app.Location,
		&app.Deadline,
		&app.Status,
		&app.Priority,
		&compat,
		pq.Array(&app.MatchingSkills),
		pq.Array(&app.MissingRequirements),
		&app.RecommendedChannel,
		pq.Array(&app.RequiredDocuments),
		&app.Excluded,
		&app.ExclusionReason,
		pq.Array(&app.TemplateRefs),
		&app.Keywords,
		&app.ContactEmail,
		&app.SourceURL,
		&app.Channel,
		&app.SourceLabel,
		&app.Notes,
		&app.DeadlineMissing,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return Application{}, err
	}

	if compat.Valid {
		v := int(compat.Int64)
		app.Compatibility = &v
	}
	return app, nil
}

func (s *Postgres) List(ctx context.Context, limit, offset int) ([]Application, int, error) {
	limit = clampLimit(limit, 50, 200)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+appColumns+`
FROM applications
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		app, err := scanApp(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	return apps, total, rows.Err()
}

func (s *Postgres) Get(ctx context.Context, id string) (Application, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+appColumns+`
FROM applications
WHERE id = $1
`, id)

	app, err := scanApp(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (s *Postgres) Create(ctx context.Context, app Application) (Application, error) {
	if !ValidStatus(app.Status) {
		return Application{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	err := s.insert(ctx, s.db, app)
	if isUniqueViolation(err) {
		return Application{}, ErrDuplicate
	}
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Postgres) insert(ctx context.Context, ex execer, app Application) error {
	var compat sql.NullInt64
	if app.Compatibility != nil {
		compat = sql.NullInt64{Int64: int64(*app.Compatibility), Valid: true}
	}

	_, err := ex.ExecContext(ctx, `
INSERT INTO applications (
    id, company, title, location, deadline, status, priority,
    compatibility, matching_skills, missing_requirements, recommended_channel,
    required_documents, excluded, exclusion_reason, template_refs, keywords,
    contact_email, source_url, channel, source_label, notes, deadline_missing,
    created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
`,
		app.ID, app.Company, app.Title, app.Location, app.Deadline, app.Status, app.Priority,
		compat, pq.Array(app.MatchingSkills), pq.Array(app.MissingRequirements), app.RecommendedChannel,
		pq.Array(app.RequiredDocuments), app.Excluded, app.ExclusionReason, pq.Array(app.TemplateRefs), app.Keywords,
		app.ContactEmail, app.SourceURL, app.Channel, app.SourceLabel, app.Notes, app.DeadlineMissing,
		app.CreatedAt, app.UpdatedAt)
	return err
}

func (s *Postgres) Update(ctx context.Context, id string, p Patch) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := applyPatch(&app, p); err != nil {
		return err
	}

	var compat sql.NullInt64
	if app.Compatibility != nil {
		compat = sql.NullInt64{Int64: int64(*app.Compatibility), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
UPDATE applications SET
    company = $2,
    title = $3,
    location = $4,
    deadline = $5,
    status = $6,
    priority = $7,
    compatibility = $8,
    matching_skills = $9,
    missing_requirements = $10,
    recommended_channel = $11,
    required_documents = $12,
    excluded = $13,
    exclusion_reason = $14,
    template_refs = $15,
    keywords = $16,
    contact_email = $17,
    source_url = $18,
    notes = $19,
    deadline_missing = $20,
    updated_at = NOW()
WHERE id = $1
`,
		id, app.Company, app.Title, app.Location, app.Deadline, app.Status, app.Priority,
		compat, pq.Array(app.MatchingSkills), pq.Array(app.MissingRequirements), app.RecommendedChannel,
		pq.Array(app.RequiredDocuments), app.Excluded, app.ExclusionReason, pq.Array(app.TemplateRefs),
		app.Keywords, app.ContactEmail, app.SourceURL, app.Notes, app.DeadlineMissing)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) ExistsByCompanyTitle(ctx context.Context, company, title string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
SELECT EXISTS (
    SELECT 1 FROM applications WHERE lower(company) = lower($1) AND lower(title) = lower($2)
)
`, company, title).Scan(&exists)
	return exists, err
}

func (s *Postgres) BulkCreate(ctx context.Context, apps []Application) ([]string, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	inserted := make([]string, 0, len(apps))
	duplicates := 0
	now := time.Now().UTC()
	seen := make(map[string]bool, len(apps))

	for _, app := range apps {
		if !ValidStatus(app.Status) {
			return nil, 0, ErrInvalidStatus
		}
		key := app.DedupeKey()
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true

		app.CreatedAt = now
		app.UpdatedAt = now

		var compat sql.NullInt64
		if app.Compatibility != nil {
			compat = sql.NullInt64{Int64: int64(*app.Compatibility), Valid: true}
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO applications (
    id, company, title, location, deadline, status, priority,
    compatibility, matching_skills, missing_requirements, recommended_channel,
    required_documents, excluded, exclusion_reason, template_refs, keywords,
    contact_email, source_url, channel, source_label, notes, deadline_missing,
    created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
ON CONFLICT (lower(company), lower(title)) DO NOTHING
`,
			app.ID, app.Company, app.Title, app.Location, app.Deadline, app.Status, app.Priority,
			compat, pq.Array(app.MatchingSkills), pq.Array(app.MissingRequirements), app.RecommendedChannel,
			pq.Array(app.RequiredDocuments), app.Excluded, app.ExclusionReason, pq.Array(app.TemplateRefs), app.Keywords,
			app.ContactEmail, app.SourceURL, app.Channel, app.SourceLabel, app.Notes, app.DeadlineMissing,
			app.CreatedAt, app.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			duplicates++
			continue
		}
		inserted = append(inserted, app.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return inserted, duplicates, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
