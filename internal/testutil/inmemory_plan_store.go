package testutil

import (
	"context"
	"sort"

	"github.com/flexprice/paymirror/internal/domain/plan"
	ierr "github.com/flexprice/paymirror/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryResourceStore[plan.Plan]
	definitions *InMemoryStore[*plan.PaymentDefinition]
}

var _ plan.Repository = (*InMemoryPlanStore)(nil)

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryResourceStore: NewInMemoryResourceStore("plan",
			func(p *plan.Plan) string { return p.ID },
			func(p *plan.Plan) string { return p.ProviderID },
		),
		definitions: NewInMemoryStore[*plan.PaymentDefinition](),
	}
}

func (s *InMemoryPlanStore) ListDefinitions(ctx context.Context, planID string) ([]*plan.PaymentDefinition, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	items, err := s.definitions.List(ctx, planID, func(_ context.Context, d *plan.PaymentDefinition, f interface{}) bool {
		return d.PlanID == f.(string)
	}, func(a, b *plan.PaymentDefinition) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	out := make([]*plan.PaymentDefinition, 0, len(items))
	for _, d := range items {
		out = append(out, clone(d))
	}
	return out, nil
}

func (s *InMemoryPlanStore) CreateDefinition(ctx context.Context, d *plan.PaymentDefinition) error {
	if err := s.failure(); err != nil {
		return err
	}
	if _, ok := s.definitions.Find(func(existing *plan.PaymentDefinition) bool {
		return existing.DefinitionID == d.DefinitionID
	}); ok {
		return ierr.NewErrorf("payment definition %s already exists", d.DefinitionID).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.definitions.Create(ctx, d.ID, clone(d))
}

func (s *InMemoryPlanStore) UpdateDefinition(ctx context.Context, d *plan.PaymentDefinition) error {
	if err := s.failure(); err != nil {
		return err
	}
	return s.definitions.Update(ctx, d.ID, clone(d))
}

// DefinitionsByID returns the stored definitions of planID keyed by provider definition id
func (s *InMemoryPlanStore) DefinitionsByID(planID string) map[string]*plan.PaymentDefinition {
	defs, _ := s.ListDefinitions(context.Background(), planID)
	out := make(map[string]*plan.PaymentDefinition, len(defs))
	for _, d := range defs {
		out[d.DefinitionID] = d
	}
	return out
}

func (s *InMemoryPlanStore) Clear() {
	s.InMemoryResourceStore.Clear()
	s.definitions.Clear()
}

func sortByCreated[T any](items []T, createdAt func(T) int64, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		if createdAt(items[i]) == createdAt(items[j]) {
			return id(items[i]) < id(items[j])
		}
		return createdAt(items[i]) > createdAt(items[j])
	})
}
