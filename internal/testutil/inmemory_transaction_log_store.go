package testutil

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/transactionlog"
)

// InMemoryTransactionLogStore implements transactionlog.Repository
type InMemoryTransactionLogStore struct {
	*InMemoryStore[*transactionlog.Log]
}

var _ transactionlog.Repository = (*InMemoryTransactionLogStore)(nil)

func NewInMemoryTransactionLogStore() *InMemoryTransactionLogStore {
	return &InMemoryTransactionLogStore{
		InMemoryStore: NewInMemoryStore[*transactionlog.Log](),
	}
}

func (s *InMemoryTransactionLogStore) Create(ctx context.Context, l *transactionlog.Log) error {
	return s.InMemoryStore.Create(ctx, l.ID, clone(l))
}

func (s *InMemoryTransactionLogStore) Update(ctx context.Context, l *transactionlog.Log) error {
	return s.InMemoryStore.Update(ctx, l.ID, clone(l))
}

func (s *InMemoryTransactionLogStore) ListByPayment(ctx context.Context, paymentRef string) ([]*transactionlog.Log, error) {
	return s.InMemoryStore.List(ctx, paymentRef, func(_ context.Context, l *transactionlog.Log, f interface{}) bool {
		return l.PaymentRef == f.(string)
	}, func(a, b *transactionlog.Log) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
