package postgres

import (
	"context"
)

// IClient defines the interface for postgres client operations
type IClient interface {
	// WithTx wraps the given function in a transaction. Nested calls run
	// inside a savepoint of the outer transaction.
	WithTx(ctx context.Context, fn func(context.Context) error) error

	// Querier returns the current transaction if in one, or the pool
	Querier(ctx context.Context) Querier
}

// Client is the IClient backed by the sqlx pool
type Client struct {
	db *DB
}

func NewClient(db *DB) IClient {
	return &Client{db: db}
}

func (c *Client) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return c.db.WithTx(ctx, fn)
}

func (c *Client) Querier(ctx context.Context) Querier {
	return c.db.GetQuerier(ctx)
}
