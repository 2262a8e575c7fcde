package transactionlog

import (
	"context"
)

// Repository defines the interface for payment transaction log persistence
type Repository interface {
	Create(ctx context.Context, log *Log) error
	Update(ctx context.Context, log *Log) error
	ListByPayment(ctx context.Context, paymentRef string) ([]*Log, error)
}
