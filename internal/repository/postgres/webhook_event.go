package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/webhookevent"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type webhookEventRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewWebhookEventRepository(db *postgres.DB, logger *logger.Logger) webhookevent.Repository {
	return &webhookEventRepository{db: db, logger: logger}
}

// Create relies on the event_id unique constraint: a concurrent or repeated
// delivery inserts nothing and reports false.
func (r *webhookEventRepository) Create(ctx context.Context, event *webhookevent.Event) (bool, error) {
	query := `
		INSERT INTO webhook_events (
			id,
			event_id,
			resource_type,
			event_type,
			summary,
			raw_payload,
			received_at
		)
		VALUES (
			:id,
			:event_id,
			:resource_type,
			:event_type,
			:summary,
			:raw_payload,
			:received_at
		)
		ON CONFLICT (event_id) DO NOTHING
	`

	res, err := exec(ctx, r.db, "webhook event", query, event)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError(err, "Failed to record webhook event")
	}

	r.logger.Debugw("recorded webhook event",
		"event_id", event.EventID,
		"resource_type", event.ResourceType,
		"first_seen", n == 1,
	)
	return n == 1, nil
}

func (r *webhookEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM webhook_events WHERE event_id = $1)`, eventID)
	if err != nil {
		return false, dbError(err, "Failed to look up webhook event")
	}
	return exists, nil
}

func (r *webhookEventRepository) Get(ctx context.Context, eventID string) (*webhookevent.Event, error) {
	var e webhookevent.Event
	if err := get(ctx, r.db, &e, "webhook_event", eventID,
		`SELECT * FROM webhook_events WHERE event_id = $1`, eventID); err != nil {
		return nil, err
	}
	return &e, nil
}
