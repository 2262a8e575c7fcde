package testutil

import (
	"context"
	"sync"

	ierr "github.com/flexprice/paymirror/internal/errors"
)

// InMemoryResourceStore backs the repositories of mirrored provider
// resources: records keyed by local id and unique by provider id. Records
// are copied on the way in and out so callers never share state with it.
type InMemoryResourceStore[T any] struct {
	*InMemoryStore[*T]
	entity       string
	idOf         func(*T) string
	providerIDOf func(*T) string

	errMu sync.RWMutex
	err   error
}

func NewInMemoryResourceStore[T any](entity string, idOf, providerIDOf func(*T) string) *InMemoryResourceStore[T] {
	return &InMemoryResourceStore[T]{
		InMemoryStore: NewInMemoryStore[*T](),
		entity:        entity,
		idOf:          idOf,
		providerIDOf:  providerIDOf,
	}
}

// FailWith makes every operation return err until it is called with nil
func (s *InMemoryResourceStore[T]) FailWith(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.err = err
}

func (s *InMemoryResourceStore[T]) failure() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.err
}

func (s *InMemoryResourceStore[T]) Create(ctx context.Context, item *T) error {
	if err := s.failure(); err != nil {
		return err
	}
	id := s.idOf(item)
	if id == "" {
		return ierr.NewErrorf("%s id cannot be empty", s.entity).
			Mark(ierr.ErrValidation)
	}
	if pid := s.providerIDOf(item); pid != "" {
		if _, ok := s.lookup(pid); ok {
			return ierr.NewErrorf("%s %s already exists", s.entity, pid).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	return s.InMemoryStore.Create(ctx, id, clone(item))
}

func (s *InMemoryResourceStore[T]) GetByProviderID(ctx context.Context, providerID string) (*T, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	item, ok := s.lookup(providerID)
	if !ok {
		return nil, ierr.NewErrorf("%s %s not found", s.entity, providerID).
			Mark(ierr.ErrNotFound)
	}
	return clone(item), nil
}

func (s *InMemoryResourceStore[T]) Update(ctx context.Context, item *T) error {
	if err := s.failure(); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, s.idOf(item), clone(item))
}

// All returns copies of every stored record
func (s *InMemoryResourceStore[T]) All() []*T {
	items, _ := s.InMemoryStore.List(context.Background(), nil, nil, nil)
	out := make([]*T, 0, len(items))
	for _, item := range items {
		out = append(out, clone(item))
	}
	return out
}

func (s *InMemoryResourceStore[T]) lookup(providerID string) (*T, bool) {
	if providerID == "" {
		return nil, false
	}
	return s.InMemoryStore.Find(func(item *T) bool {
		return s.providerIDOf(item) == providerID
	})
}

func clone[T any](item *T) *T {
	if item == nil {
		return nil
	}
	c := *item
	return &c
}
