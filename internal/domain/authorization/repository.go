package authorization

import (
	"context"
)

// Repository defines the interface for authorization persistence
type Repository interface {
	Create(ctx context.Context, authorization *Authorization) error
	GetByProviderID(ctx context.Context, providerID string) (*Authorization, error)
	Update(ctx context.Context, authorization *Authorization) error
}
