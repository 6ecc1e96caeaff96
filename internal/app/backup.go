package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbaudet/applytrack/internal/store"
)

// BackupReport summarizes a backup restore.
type BackupReport struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// Export returns every stored record for download.
func (s *Service) Export(ctx context.Context) ([]store.Application, error) {
	return s.listAll(ctx)
}

// Required backup keys; each must be present as a JSON string. Deadline may
// be the empty string so records without a deadline still round-trip.
var backupRequiredKeys = []string{"company", "title", "location", "status", "deadline"}

// ImportBackup restores records from an exported JSON array. Entries failing
// validation are skipped; the rest proceed. Re-importing an unchanged export
// yields all duplicates and no new records.
func (s *Service) ImportBackup(ctx context.Context, data []byte) (BackupReport, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return BackupReport{}, fmt.Errorf("decode backup: %w", err)
	}

	report := BackupReport{}
	apps := make([]store.Application, 0, len(raw))
	for _, entry := range raw {
		app, ok := decodeBackupEntry(entry)
		if !ok {
			report.Skipped++
			continue
		}
		apps = append(apps, app)
	}

	inserted, duplicates, err := s.repo.BulkCreate(ctx, apps)
	if err != nil {
		return BackupReport{}, fmt.Errorf("restore backup: %w", err)
	}
	report.Imported = len(inserted)
	report.Duplicates = duplicates

	s.logger.Info("backup restored",
		"imported", report.Imported,
		"skipped", report.Skipped,
		"duplicates", report.Duplicates)
	return report, nil
}

func decodeBackupEntry(entry json.RawMessage) (store.Application, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return store.Application{}, false
	}
	for _, key := range backupRequiredKeys {
		raw, present := fields[key]
		if !present {
			return store.Application{}, false
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return store.Application{}, false
		}
	}

	var app store.Application
	if err := json.Unmarshal(entry, &app); err != nil {
		return store.Application{}, false
	}
	if !store.ValidStatus(app.Status) {
		return store.Application{}, false
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	return app, true
}
