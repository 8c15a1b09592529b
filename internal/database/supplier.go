package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/audioworx/feedsync/internal/models"
)

// SupplierBySlug looks up the reference row for one external source.
// Connectors never create suppliers; a missing row is an error surfaced
// before any sync work starts.
func (db *DB) SupplierBySlug(ctx context.Context, slug string) (*models.Supplier, error) {
	query := `
		SELECT id, name, slug, is_manual, status, last_sync_at, last_error
		FROM suppliers
		WHERE slug = $1`

	s := &models.Supplier{}
	var lastError *string

	err := db.pool.QueryRow(ctx, query, slug).Scan(
		&s.ID, &s.Name, &s.Slug, &s.IsManual, &s.Status, &s.LastSyncAt, &lastError,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("supplier %q does not exist", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %q: %w", slug, err)
	}

	if lastError != nil {
		s.LastError = *lastError
	}

	return s, nil
}

// SetSupplierStatus flips the connection status before and after a run.
func (db *DB) SetSupplierStatus(ctx context.Context, supplierID int64, status models.SupplierStatus, lastError string) error {
	query := `
		UPDATE suppliers SET
			status = $2,
			last_error = NULLIF($3, ''),
			updated_at = NOW()
		WHERE id = $1`

	_, err := db.pool.Exec(ctx, query, supplierID, status, lastError)
	if err != nil {
		return fmt.Errorf("failed to set supplier status: %w", err)
	}

	return nil
}

// MarkSyncResult records the end of a run on the supplier row itself.
func (db *DB) MarkSyncResult(ctx context.Context, supplierID int64, status models.SupplierStatus, lastError string) error {
	query := `
		UPDATE suppliers SET
			status = $2,
			last_error = NULLIF($3, ''),
			last_sync_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := db.pool.Exec(ctx, query, supplierID, status, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark sync result: %w", err)
	}

	return nil
}

// Suppliers lists all supplier reference rows.
func (db *DB) Suppliers(ctx context.Context) ([]*models.Supplier, error) {
	query := `
		SELECT id, name, slug, is_manual, status, last_sync_at, last_error
		FROM suppliers
		ORDER BY name`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		s := &models.Supplier{}
		var lastError *string

		err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.IsManual, &s.Status, &s.LastSyncAt, &lastError)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}

		if lastError != nil {
			s.LastError = *lastError
		}

		suppliers = append(suppliers, s)
	}

	return suppliers, rows.Err()
}
