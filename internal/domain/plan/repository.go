package plan

import (
	"context"
)

// Repository defines the interface for plan persistence
type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	// GetByProviderID returns an ierr.ErrNotFound marked error when absent
	GetByProviderID(ctx context.Context, providerID string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error

	ListDefinitions(ctx context.Context, planID string) ([]*PaymentDefinition, error)
	CreateDefinition(ctx context.Context, definition *PaymentDefinition) error
	UpdateDefinition(ctx context.Context, definition *PaymentDefinition) error
}
