package webhookevent

import (
	"context"
)

// Repository defines the interface for the notification ledger
type Repository interface {
	// Create inserts event unless its EventID is already recorded.
	// It reports whether a new entry was written.
	Create(ctx context.Context, event *Event) (bool, error)
	Exists(ctx context.Context, eventID string) (bool, error)
	Get(ctx context.Context, eventID string) (*Event, error)
}
