package models

import "time"

// Event types
const (
	EventTypeReportExported = "REPORT_EXPORTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportExportedEvent published whenever a CSV export is downloaded
type ReportExportedEvent struct {
	BaseEvent
	ExportKind string    `json:"export_kind"`
	Rows       int       `json:"rows"`
	SessionID  string    `json:"session_id,omitempty"`
	Selection  Selection `json:"selection"`
}

// ExportAudit is the persisted form of a ReportExportedEvent
type ExportAudit struct {
	ID         int64     `db:"id" json:"id"`
	EventID    string    `db:"event_id" json:"event_id"`
	ExportKind string    `db:"export_kind" json:"export_kind"`
	Rows       int       `db:"row_count" json:"rows"`
	SessionID  string    `db:"session_id" json:"session_id"`
	Selection  string    `db:"selection" json:"selection"`
	ExportedAt time.Time `db:"exported_at" json:"exported_at"`
}
