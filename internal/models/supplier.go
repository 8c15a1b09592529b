package models

import (
	"time"

	"github.com/google/uuid"
)

type SupplierStatus string

const (
	SupplierIdle    SupplierStatus = "idle"
	SupplierRunning SupplierStatus = "running"
	SupplierError   SupplierStatus = "error"
)

// Supplier is the reference row for one external catalog source. Connectors
// never create these; the row must exist before a sync can run.
type Supplier struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	IsManual   bool           `json:"is_manual"`
	Status     SupplierStatus `json:"status"`
	LastSyncAt *time.Time     `json:"last_sync_at,omitempty"`
	LastError  string         `json:"last_error,omitempty"`
}

type SessionStatus string

const (
	SessionRunning SessionStatus = "running"
	SessionSuccess SessionStatus = "success"
	SessionFailed  SessionStatus = "failed"
)

// SyncSession records one connector invocation. Immutable once finalized.
type SyncSession struct {
	ID                uuid.UUID     `json:"id"`
	SupplierID        int64         `json:"supplier_id"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        *time.Time    `json:"finished_at,omitempty"`
	ProductsAdded     int           `json:"products_added"`
	ProductsUpdated   int           `json:"products_updated"`
	ProductsSkipped   int           `json:"products_skipped"`
	Errors            []string      `json:"errors,omitempty"`
	Warnings          []string      `json:"warnings,omitempty"`
	Status            SessionStatus `json:"status"`
}
