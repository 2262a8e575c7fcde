package capture

import (
	"context"
)

// Repository defines the interface for capture persistence
type Repository interface {
	Create(ctx context.Context, capture *Capture) error
	GetByProviderID(ctx context.Context, providerID string) (*Capture, error)
	Update(ctx context.Context, capture *Capture) error
}
