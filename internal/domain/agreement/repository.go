package agreement

import (
	"context"

	"github.com/flexprice/paymirror/internal/types"
)

// Repository defines the interface for agreement persistence
type Repository interface {
	Create(ctx context.Context, agreement *Agreement) error
	GetByProviderID(ctx context.Context, providerID string) (*Agreement, error)
	// GetPendingByToken finds the not yet executed agreement created with token
	GetPendingByToken(ctx context.Context, token string) (*Agreement, error)
	Update(ctx context.Context, agreement *Agreement) error
	// Supersede retires the record id in favour of survivorID. The retired
	// record loses its token and client and is excluded from lookups.
	Supersede(ctx context.Context, id, survivorID string) error
	List(ctx context.Context, filter *types.ReportFilter) ([]*Agreement, error)
	Count(ctx context.Context, filter *types.ReportFilter) (int, error)
}
