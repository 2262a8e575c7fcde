package refund

import (
	"context"
)

// Repository defines the interface for refund persistence
type Repository interface {
	Create(ctx context.Context, refund *Refund) error
	GetByProviderID(ctx context.Context, providerID string) (*Refund, error)
	Update(ctx context.Context, refund *Refund) error
}
