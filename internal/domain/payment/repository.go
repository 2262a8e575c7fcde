package payment

import (
	"context"

	"github.com/flexprice/paymirror/internal/types"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByProviderID(ctx context.Context, providerID string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	List(ctx context.Context, filter *types.ReportFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.ReportFilter) (int, error)

	CreateTransaction(ctx context.Context, txn *Transaction) error
	ListTransactions(ctx context.Context, paymentID string) ([]*Transaction, error)
}
