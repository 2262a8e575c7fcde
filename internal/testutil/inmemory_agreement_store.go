package testutil

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/agreement"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

// InMemoryAgreementStore implements agreement.Repository
type InMemoryAgreementStore struct {
	*InMemoryResourceStore[agreement.Agreement]
}

var _ agreement.Repository = (*InMemoryAgreementStore)(nil)

func NewInMemoryAgreementStore() *InMemoryAgreementStore {
	return &InMemoryAgreementStore{NewInMemoryResourceStore("agreement",
		func(a *agreement.Agreement) string { return a.ID },
		func(a *agreement.Agreement) string { return lo.FromPtr(a.ProviderID) },
	)}
}

func (s *InMemoryAgreementStore) Create(ctx context.Context, a *agreement.Agreement) error {
	if !a.IsExecuted() && a.PaymentToken != nil {
		if _, err := s.GetPendingByToken(ctx, *a.PaymentToken); err == nil {
			return ierr.NewErrorf("pending agreement %s already exists", *a.PaymentToken).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	return s.InMemoryResourceStore.Create(ctx, a)
}

func (s *InMemoryAgreementStore) GetPendingByToken(ctx context.Context, token string) (*agreement.Agreement, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	a, ok := s.Find(func(a *agreement.Agreement) bool {
		return !a.IsExecuted() && !a.IsSuperseded() && lo.FromPtr(a.PaymentToken) == token
	})
	if !ok {
		return nil, ierr.NewErrorf("pending agreement %s not found", token).
			Mark(ierr.ErrNotFound)
	}
	return clone(a), nil
}

// Update never clears a provider id that is already recorded
func (s *InMemoryAgreementStore) Update(ctx context.Context, a *agreement.Agreement) error {
	if err := s.failure(); err != nil {
		return err
	}
	current, err := s.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	next := clone(a)
	if current.IsExecuted() {
		next.ProviderID = current.ProviderID
	}
	return s.InMemoryStore.Update(ctx, a.ID, next)
}

func (s *InMemoryAgreementStore) Supersede(ctx context.Context, id, survivorID string) error {
	if err := s.failure(); err != nil {
		return err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsExecuted() {
		return ierr.NewErrorf("agreement %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	next := clone(current)
	next.PaymentToken = nil
	next.ClientID = nil
	next.SupersededBy = lo.ToPtr(survivorID)
	next.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, id, next)
}

// Addressable returns the records that are not superseded
func (s *InMemoryAgreementStore) Addressable() []*agreement.Agreement {
	return lo.Filter(s.All(), func(a *agreement.Agreement, _ int) bool {
		return !a.IsSuperseded()
	})
}

func (s *InMemoryAgreementStore) List(ctx context.Context, filter *types.ReportFilter) ([]*agreement.Agreement, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	all := s.forClient(filter.ClientID)
	sortByCreated(all,
		func(a *agreement.Agreement) int64 { return a.CreatedAt.UnixNano() },
		func(a *agreement.Agreement) string { return a.ID },
	)
	return paginate(all, filter), nil
}

func (s *InMemoryAgreementStore) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	return len(s.forClient(filter.ClientID)), nil
}

func (s *InMemoryAgreementStore) forClient(clientID string) []*agreement.Agreement {
	return lo.Filter(s.All(), func(a *agreement.Agreement, _ int) bool {
		return !a.IsSuperseded() && lo.FromPtr(a.ClientID) == clientID
	})
}

func paginate[T any](items []T, filter *types.ReportFilter) []T {
	start := filter.GetOffset()
	if start >= len(items) {
		return []T{}
	}
	end := start + filter.GetLimit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
