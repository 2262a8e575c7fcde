package testutil

import (
	"github.com/flexprice/paymirror/internal/domain/authorization"
	"github.com/flexprice/paymirror/internal/domain/capture"
	"github.com/flexprice/paymirror/internal/domain/refund"
	"github.com/flexprice/paymirror/internal/domain/sale"
)

// InMemorySaleStore implements sale.Repository
type InMemorySaleStore struct {
	*InMemoryResourceStore[sale.Sale]
}

func NewInMemorySaleStore() *InMemorySaleStore {
	return &InMemorySaleStore{NewInMemoryResourceStore("sale",
		func(s *sale.Sale) string { return s.ID },
		func(s *sale.Sale) string { return s.ProviderID },
	)}
}

// InMemoryAuthorizationStore implements authorization.Repository
type InMemoryAuthorizationStore struct {
	*InMemoryResourceStore[authorization.Authorization]
}

func NewInMemoryAuthorizationStore() *InMemoryAuthorizationStore {
	return &InMemoryAuthorizationStore{NewInMemoryResourceStore("authorization",
		func(a *authorization.Authorization) string { return a.ID },
		func(a *authorization.Authorization) string { return a.ProviderID },
	)}
}

// InMemoryCaptureStore implements capture.Repository
type InMemoryCaptureStore struct {
	*InMemoryResourceStore[capture.Capture]
}

func NewInMemoryCaptureStore() *InMemoryCaptureStore {
	return &InMemoryCaptureStore{NewInMemoryResourceStore("capture",
		func(c *capture.Capture) string { return c.ID },
		func(c *capture.Capture) string { return c.ProviderID },
	)}
}

// InMemoryRefundStore implements refund.Repository
type InMemoryRefundStore struct {
	*InMemoryResourceStore[refund.Refund]
}

func NewInMemoryRefundStore() *InMemoryRefundStore {
	return &InMemoryRefundStore{NewInMemoryResourceStore("refund",
		func(r *refund.Refund) string { return r.ID },
		func(r *refund.Refund) string { return r.ProviderID },
	)}
}

var (
	_ sale.Repository          = (*InMemorySaleStore)(nil)
	_ authorization.Repository = (*InMemoryAuthorizationStore)(nil)
	_ capture.Repository       = (*InMemoryCaptureStore)(nil)
	_ refund.Repository        = (*InMemoryRefundStore)(nil)
)
