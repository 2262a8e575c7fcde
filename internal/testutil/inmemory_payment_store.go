package testutil

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryResourceStore[payment.Payment]
	transactions *InMemoryStore[*payment.Transaction]
}

var _ payment.Repository = (*InMemoryPaymentStore)(nil)

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryResourceStore: NewInMemoryResourceStore("payment",
			func(p *payment.Payment) string { return p.ID },
			func(p *payment.Payment) string { return p.ProviderID },
		),
		transactions: NewInMemoryStore[*payment.Transaction](),
	}
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.ReportFilter) ([]*payment.Payment, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	all := s.forClient(filter.ClientID)
	sortByCreated(all,
		func(p *payment.Payment) int64 { return p.CreatedAt.UnixNano() },
		func(p *payment.Payment) string { return p.ID },
	)
	return paginate(all, filter), nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	return len(s.forClient(filter.ClientID)), nil
}

func (s *InMemoryPaymentStore) CreateTransaction(ctx context.Context, txn *payment.Transaction) error {
	if err := s.failure(); err != nil {
		return err
	}
	return s.transactions.Create(ctx, txn.ID, clone(txn))
}

func (s *InMemoryPaymentStore) ListTransactions(ctx context.Context, paymentID string) ([]*payment.Transaction, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	items, err := s.transactions.List(ctx, paymentID, func(_ context.Context, t *payment.Transaction, f interface{}) bool {
		return t.PaymentID == f.(string)
	}, func(a, b *payment.Transaction) bool {
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(t *payment.Transaction, _ int) *payment.Transaction { return clone(t) }), nil
}

func (s *InMemoryPaymentStore) forClient(clientID string) []*payment.Payment {
	return lo.Filter(s.All(), func(p *payment.Payment, _ int) bool {
		return lo.FromPtr(p.ClientID) == clientID
	})
}

func (s *InMemoryPaymentStore) Clear() {
	s.InMemoryResourceStore.Clear()
	s.transactions.Clear()
}
