package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/paymirror/internal/domain/webhookevent"
	ierr "github.com/flexprice/paymirror/internal/errors"
)

// InMemoryWebhookEventStore implements webhookevent.Repository
type InMemoryWebhookEventStore struct {
	*InMemoryStore[*webhookevent.Event]

	errMu sync.RWMutex
	err   error
}

var _ webhookevent.Repository = (*InMemoryWebhookEventStore)(nil)

func NewInMemoryWebhookEventStore() *InMemoryWebhookEventStore {
	return &InMemoryWebhookEventStore{
		InMemoryStore: NewInMemoryStore[*webhookevent.Event](),
	}
}

// FailWith makes every operation return err until it is called with nil
func (s *InMemoryWebhookEventStore) FailWith(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.err = err
}

func (s *InMemoryWebhookEventStore) failure() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.err
}

// Create keys entries by event id so that a second delivery loses the insert
func (s *InMemoryWebhookEventStore) Create(ctx context.Context, event *webhookevent.Event) (bool, error) {
	if err := s.failure(); err != nil {
		return false, err
	}
	err := s.InMemoryStore.Create(ctx, event.EventID, clone(event))
	if ierr.IsAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *InMemoryWebhookEventStore) Exists(ctx context.Context, eventID string) (bool, error) {
	if err := s.failure(); err != nil {
		return false, err
	}
	_, err := s.InMemoryStore.Get(ctx, eventID)
	if ierr.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *InMemoryWebhookEventStore) Get(ctx context.Context, eventID string) (*webhookevent.Event, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	e, err := s.InMemoryStore.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return clone(e), nil
}
