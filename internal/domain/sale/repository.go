package sale

import (
	"context"
)

// Repository defines the interface for sale persistence
type Repository interface {
	Create(ctx context.Context, sale *Sale) error
	GetByProviderID(ctx context.Context, providerID string) (*Sale, error)
	Update(ctx context.Context, sale *Sale) error
}
