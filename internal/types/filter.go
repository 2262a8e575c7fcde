package types

import (
	ierr "github.com/flexprice/paymirror/internal/errors"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
)

// ReportFilter scopes report listings to one identity-provider client
type ReportFilter struct {
	ClientID string `json:"-" form:"-"`
	Limit    int    `json:"limit" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset   int    `json:"offset" form:"offset" validate:"omitempty,min=0"`
}

func NewDefaultReportFilter(clientID string) *ReportFilter {
	return &ReportFilter{
		ClientID: clientID,
		Limit:    FILTER_DEFAULT_LIMIT,
	}
}

func (f *ReportFilter) GetLimit() int {
	if f.Limit <= 0 {
		return FILTER_DEFAULT_LIMIT
	}
	if f.Limit > FILTER_MAX_LIMIT {
		return FILTER_MAX_LIMIT
	}
	return f.Limit
}

func (f *ReportFilter) GetOffset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

func (f *ReportFilter) Validate() error {
	if f.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Reports are scoped to the calling client").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaginationResponse represents standardized pagination metadata
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse represents a paginated response with items
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

func NewListResponse[T any](items []T, total, limit, offset int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items: items,
		Pagination: PaginationResponse{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	}
}
