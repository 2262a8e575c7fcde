// Package ledger keeps the append-only record of provider notifications
// used to process each event at most once.
package ledger

import (
	"context"

	"github.com/flexprice/paymirror/internal/cache"
	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/domain/webhookevent"
	"github.com/flexprice/paymirror/internal/logger"
)

// Ledger answers whether an event was already processed. The database
// unique constraint on event_id is authoritative; the cache only short
// circuits redeliveries of events known to be committed.
type Ledger struct {
	repo   webhookevent.Repository
	cache  cache.Cache
	cfg    *config.Configuration
	logger *logger.Logger
}

func New(repo webhookevent.Repository, c cache.Cache, cfg *config.Configuration, logger *logger.Logger) *Ledger {
	return &Ledger{repo: repo, cache: c, cfg: cfg, logger: logger}
}

func (l *Ledger) HasSeen(ctx context.Context, eventID string) (bool, error) {
	if _, ok := l.cache.Get(ctx, seenKey(eventID)); ok {
		return true, nil
	}
	seen, err := l.repo.Exists(ctx, eventID)
	if err != nil {
		return false, err
	}
	if seen {
		l.MarkSeen(ctx, eventID)
	}
	return seen, nil
}

// Record appends event unless its id is already present. It reports
// whether this call wrote the entry; a concurrent delivery of the same
// event loses the race and gets false.
func (l *Ledger) Record(ctx context.Context, event *webhookevent.Event) (bool, error) {
	if err := event.Validate(); err != nil {
		return false, err
	}
	first, err := l.repo.Create(ctx, event)
	if err != nil {
		return false, err
	}
	if !first {
		l.logger.Debugw("event already recorded", "event_id", event.EventID)
	}
	return first, nil
}

// MarkSeen caches a committed event id. Call it only after the transaction
// holding the ledger entry has committed.
func (l *Ledger) MarkSeen(ctx context.Context, eventID string) {
	l.cache.Set(ctx, seenKey(eventID), true, l.cfg.Cache.SeenEventTTL)
}

func seenKey(eventID string) string {
	return cache.GenerateKey(cache.PrefixSeenEvent, eventID)
}
