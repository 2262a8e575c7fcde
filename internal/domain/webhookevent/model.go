package webhookevent

import (
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
)

// Event is one entry of the dedup ledger: a provider notification seen for the first time.
// Entries are append-only.
type Event struct {
	ID           string      `db:"id" json:"id"`
	EventID      string      `db:"event_id" json:"event_id"`
	ResourceType string      `db:"resource_type" json:"resource_type"`
	EventType    string      `db:"event_type" json:"event_type"`
	Summary      *string     `db:"summary" json:"summary,omitempty"`
	RawPayload   types.JSONB `db:"raw_payload" json:"-"`
	ReceivedAt   time.Time   `db:"received_at" json:"received_at"`
}

func NewEvent(eventID, resourceType, eventType string, raw []byte) *Event {
	return &Event{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WEBHOOK_EVENT),
		EventID:      eventID,
		ResourceType: resourceType,
		EventType:    eventType,
		RawPayload:   types.JSONB(raw),
		ReceivedAt:   time.Now().UTC(),
	}
}

func (e *Event) Validate() error {
	if e.EventID == "" {
		return ierr.NewError("event id is missing").
			WithHint("Notification must carry an id").
			Mark(ierr.ErrMalformedPayload)
	}
	return nil
}
