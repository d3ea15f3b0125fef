package store

import (
	"context"
	"encoding/json"
	"fmt"

	"influencer-dashboard/internal/models"
)

// RecordExport stores an export audit row and marks the event processed in
// one transaction. It reports false when the event was already recorded.
func (s *Store) RecordExport(ctx context.Context, event *models.ReportExportedEvent) (bool, error) {
	selection, err := json.Marshal(event.Selection)
	if err != nil {
		return false, fmt.Errorf("failed to marshal selection: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		event.EventID, event.EventType)
	if err != nil {
		return false, fmt.Errorf("failed to mark event processed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO export_audit (event_id, export_kind, row_count, session_id, selection, exported_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.EventID, event.ExportKind, event.Rows, event.SessionID, string(selection), event.Timestamp)
	if err != nil {
		return false, fmt.Errorf("failed to insert export audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit export audit: %w", err)
	}
	return true, nil
}

// ListExports returns the most recent export audit rows
func (s *Store) ListExports(ctx context.Context, limit int) ([]models.ExportAudit, error) {
	audits := []models.ExportAudit{}
	err := s.db.SelectContext(ctx, &audits,
		"SELECT id, event_id, export_kind, row_count, session_id, selection, exported_at FROM export_audit ORDER BY exported_at DESC LIMIT $1",
		limit)
	return audits, err
}
