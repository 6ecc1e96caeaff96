package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is a map-backed Repository used in tests and when no DATABASE_URL is
// configured. List order is deterministic: newest first, then ID.
type Memory struct {
	mu   sync.RWMutex
	apps map[string]Application
	keys map[string]string // dedupe key -> id
}

func NewMemory() *Memory {
	return &Memory{
		apps: make(map[string]Application),
		keys: make(map[string]string),
	}
}

func (m *Memory) List(ctx context.Context, limit, offset int) ([]Application, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]Application, 0, len(m.apps))
	for _, app := range m.apps {
		all = append(all, app)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	limit = clampLimit(limit, 50, 200)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []Application{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *Memory) Get(ctx context.Context, id string) (Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (m *Memory) Create(ctx context.Context, app Application) (Application, error) {
	if !ValidStatus(app.Status) {
		return Application{}, ErrInvalidStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[app.DedupeKey()]; exists {
		return Application{}, ErrDuplicate
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	m.apps[app.ID] = app
	m.keys[app.DedupeKey()] = app.ID
	return app, nil
}

func (m *Memory) Update(ctx context.Context, id string, p Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.apps[id]
	if !ok {
		return ErrNotFound
	}
	oldKey := app.DedupeKey()
	if err := applyPatch(&app, p); err != nil {
		return err
	}
	newKey := app.DedupeKey()
	if newKey != oldKey {
		if _, exists := m.keys[newKey]; exists {
			return ErrDuplicate
		}
		delete(m.keys, oldKey)
		m.keys[newKey] = id
	}
	app.UpdatedAt = time.Now().UTC()
	m.apps[id] = app
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.apps[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.keys, app.DedupeKey())
	delete(m.apps, id)
	return nil
}

func (m *Memory) ExistsByCompanyTitle(ctx context.Context, company, title string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := Application{Company: company, Title: title}.DedupeKey()
	_, ok := m.keys[key]
	return ok, nil
}

func (m *Memory) BulkCreate(ctx context.Context, apps []Application) ([]string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := make([]string, 0, len(apps))
	duplicates := 0
	now := time.Now().UTC()
	for _, app := range apps {
		if !ValidStatus(app.Status) {
			return inserted, duplicates, ErrInvalidStatus
		}
		key := app.DedupeKey()
		if _, exists := m.keys[key]; exists {
			duplicates++
			continue
		}
		app.CreatedAt = now
		app.UpdatedAt = now
		m.apps[app.ID] = app
		m.keys[key] = app.ID
		inserted = append(inserted, app.ID)
	}
	return inserted, duplicates, nil
}
