package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactional functions inline. In-memory stores
// have no rollback, so tests that need it assert on returned errors only.
type MockPostgresClient struct {
	logger *logger.Logger
	txs    atomic.Int64
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

type txMarker struct{}

// WithTx executes the given function without a real transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.txs.Add(1)
	return fn(context.WithValue(ctx, txMarker{}, true))
}

// InTx reports whether ctx was handed out by MockPostgresClient.WithTx
func InTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}

// Querier is never used by in-memory stores
func (c *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}

// TxCount returns how many transactions were started
func (c *MockPostgresClient) TxCount() int64 {
	return c.txs.Load()
}
