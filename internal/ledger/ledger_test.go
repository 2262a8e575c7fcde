package ledger

import (
	"context"
	"testing"

	"github.com/flexprice/paymirror/internal/cache"
	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/domain/webhookevent"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(cacheEnabled bool) (*Ledger, *testutil.InMemoryWebhookEventStore) {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = cacheEnabled
	log := logger.NewNopLogger()
	store := testutil.NewInMemoryWebhookEventStore()
	return New(store, cache.NewInMemoryCache(cfg, log), cfg, log), store
}

func TestRecordIsInsertIfAbsent(t *testing.T) {
	l, _ := newTestLedger(true)
	ctx := context.Background()

	first, err := l.Record(ctx, webhookevent.NewEvent("WH-1", "sale", "PAYMENT.SALE.COMPLETED", []byte(`{}`)))
	require.NoError(t, err)
	assert.True(t, first)

	first, err = l.Record(ctx, webhookevent.NewEvent("WH-1", "sale", "PAYMENT.SALE.COMPLETED", []byte(`{}`)))
	require.NoError(t, err)
	assert.False(t, first)
}

func TestRecordRequiresEventID(t *testing.T) {
	l, _ := newTestLedger(true)

	_, err := l.Record(context.Background(), webhookevent.NewEvent("", "sale", "", nil))
	assert.True(t, ierr.IsMalformedPayload(err))
}

func TestHasSeen(t *testing.T) {
	l, store := newTestLedger(true)
	ctx := context.Background()

	seen, err := l.HasSeen(ctx, "WH-2")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = l.Record(ctx, webhookevent.NewEvent("WH-2", "plan", "BILLING.PLAN.CREATED", []byte(`{}`)))
	require.NoError(t, err)

	seen, err = l.HasSeen(ctx, "WH-2")
	require.NoError(t, err)
	assert.True(t, seen)

	// answered from the cache once the entry is known
	store.FailWith(ierr.NewError("down").Mark(ierr.ErrStoreUnavailable))
	seen, err = l.HasSeen(ctx, "WH-2")
	require.NoError(t, err)
	assert.True(t, seen)

	_, err = l.HasSeen(ctx, "WH-3")
	assert.True(t, ierr.IsStoreUnavailable(err))
}

func TestHasSeenWithoutCache(t *testing.T) {
	l, _ := newTestLedger(false)
	ctx := context.Background()

	_, err := l.Record(ctx, webhookevent.NewEvent("WH-4", "refund", "PAYMENT.SALE.REFUNDED", []byte(`{}`)))
	require.NoError(t, err)

	seen, err := l.HasSeen(ctx, "WH-4")
	require.NoError(t, err)
	assert.True(t, seen)
}
