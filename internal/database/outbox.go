package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// OutboxStatusPending indicates the event is waiting to be published
	OutboxStatusPending = "pending"
	// OutboxStatusProcessed indicates the event was published to its stream
	OutboxStatusProcessed = "processed"
	// OutboxStatusFailed indicates publishing failed (will be retried)
	OutboxStatusFailed = "failed"
	// OutboxStatusDeadLetter indicates the event failed too many times
	OutboxStatusDeadLetter = "dead_letter"

	// MaxRetryCount is the maximum number of retries before moving to dead letter
	MaxRetryCount = 5
)

// Event types emitted by the product upserters.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
)

// StreamCatalogSync is the Redis stream the admin dashboard consumes.
const StreamCatalogSync = "stream:catalog_sync"

// OutboxEvent is written in the same transaction as the product change it
// describes, so the dashboard never sees an event for a write that rolled
// back.
type OutboxEvent struct {
	ID            uuid.UUID       `db:"id"`
	AggregateType string          `db:"aggregate_type"`
	AggregateID   string          `db:"aggregate_id"`
	EventType     string          `db:"event_type"`
	Payload       json.RawMessage `db:"payload"`
	TargetStream  string          `db:"target_stream"`
	Status        string          `db:"status"`
	RetryCount    int             `db:"retry_count"`
	ErrorMessage  *string         `db:"error_message"`
	CreatedAt     time.Time       `db:"created_at"`
	ProcessedAt   *time.Time      `db:"processed_at"`
}

// OutboxRepository handles outbox event persistence
type OutboxRepository struct {
	db *DB
}

func NewOutboxRepository(db *DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func insertOutboxWithTx(ctx context.Context, tx pgx.Tx, event *OutboxEvent) error {
	if event.AggregateType == "" || event.EventType == "" || event.TargetStream == "" {
		return fmt.Errorf("outbox event is missing required fields")
	}
	if len(event.Payload) == 0 {
		return fmt.Errorf("outbox event has no payload")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}

	query := `
		INSERT INTO outbox_events (
			id, aggregate_type, aggregate_id, event_type,
			payload, target_stream, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := tx.QueryRow(ctx, query,
		event.ID, event.AggregateType, event.AggregateID, event.EventType,
		event.Payload, event.TargetStream, event.Status,
	).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

// InsertWithTx inserts an event into the outbox within a caller-owned transaction.
func (r *OutboxRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, event *OutboxEvent) error {
	return insertOutboxWithTx(ctx, tx, event)
}

// GetPending returns events waiting to be published, oldest first.
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type,
			   payload, target_stream, status, retry_count,
			   error_message, created_at, processed_at
		FROM outbox_events
		WHERE status IN ($1, $2)
		ORDER BY created_at ASC
		LIMIT $3`

	rows, err := r.db.pool.Query(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		e := &OutboxEvent{}
		err := rows.Scan(
			&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Payload, &e.TargetStream, &e.Status, &e.RetryCount,
			&e.ErrorMessage, &e.CreatedAt, &e.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// MarkProcessed records a successful publish.
func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events SET
			status = $2,
			processed_at = NOW()
		WHERE id = $1`

	_, err := r.db.pool.Exec(ctx, query, id, OutboxStatusProcessed)
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}

	return nil
}

// MarkFailed bumps the retry count, moving the event to the dead letter
// status once MaxRetryCount is exceeded.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause error) error {
	query := `
		UPDATE outbox_events SET
			status = CASE WHEN retry_count + 1 >= $3 THEN $4 ELSE $2 END,
			retry_count = retry_count + 1,
			error_message = $5
		WHERE id = $1`

	msg := cause.Error()
	_, err := r.db.pool.Exec(ctx, query, id,
		OutboxStatusFailed, MaxRetryCount, OutboxStatusDeadLetter, msg)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}

	return nil
}
