package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/audioworx/feedsync/internal/models"
)

// StartSession opens a sync session row for one connector invocation.
func (db *DB) StartSession(ctx context.Context, supplierID int64) (*models.SyncSession, error) {
	session := &models.SyncSession{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Status:     models.SessionRunning,
	}

	query := `
		INSERT INTO sync_sessions (id, supplier_id, status, started_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING started_at`

	err := db.pool.QueryRow(ctx, query, session.ID, supplierID, session.Status).
		Scan(&session.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to start sync session: %w", err)
	}

	return session, nil
}

// FinalizeSession writes counts, errors and warnings and closes the session.
// Sessions are immutable after this.
func (db *DB) FinalizeSession(ctx context.Context, session *models.SyncSession) error {
	errs, err := json.Marshal(session.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal session errors: %w", err)
	}

	warnings, err := json.Marshal(session.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal session warnings: %w", err)
	}

	query := `
		UPDATE sync_sessions SET
			status = $2,
			products_added = $3,
			products_updated = $4,
			products_skipped = $5,
			errors = $6,
			warnings = $7,
			finished_at = NOW()
		WHERE id = $1 AND finished_at IS NULL
		RETURNING finished_at`

	var finishedAt time.Time
	err = db.pool.QueryRow(ctx, query,
		session.ID, session.Status,
		session.ProductsAdded, session.ProductsUpdated, session.ProductsSkipped,
		errs, warnings,
	).Scan(&finishedAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("sync session %s is already finalized", session.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to finalize sync session: %w", err)
	}

	session.FinishedAt = &finishedAt
	return nil
}

// RecentSessions lists the most recent sync sessions across all suppliers.
func (db *DB) RecentSessions(ctx context.Context, limit int) ([]*models.SyncSession, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, supplier_id, status, started_at, finished_at,
			   products_added, products_updated, products_skipped,
			   errors, warnings
		FROM sync_sessions
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.SyncSession
	for rows.Next() {
		s := &models.SyncSession{}
		var errs, warnings []byte

		err := rows.Scan(
			&s.ID, &s.SupplierID, &s.Status, &s.StartedAt, &s.FinishedAt,
			&s.ProductsAdded, &s.ProductsUpdated, &s.ProductsSkipped,
			&errs, &warnings,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync session: %w", err)
		}

		if len(errs) > 0 {
			if err := json.Unmarshal(errs, &s.Errors); err != nil {
				return nil, fmt.Errorf("failed to unmarshal session errors: %w", err)
			}
		}
		if len(warnings) > 0 {
			if err := json.Unmarshal(warnings, &s.Warnings); err != nil {
				return nil, fmt.Errorf("failed to unmarshal session warnings: %w", err)
			}
		}

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
