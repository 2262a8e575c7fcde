package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewError("missing").Mark(ErrNotFound), http.StatusNotFound},
		{"validation", NewError("bad").Mark(ErrValidation), http.StatusBadRequest},
		{"terminal", NewError("final").Mark(ErrTerminalState), http.StatusConflict},
		{"parent", NewError("orphan").Mark(ErrParentNotFound), http.StatusUnprocessableEntity},
		{"store wins over database", WithError(NewError("conn reset").Mark(ErrDatabase)).Mark(ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"unmarked", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestIsReconcileRejection(t *testing.T) {
	assert.True(t, IsReconcileRejection(NewError("x").Mark(ErrParentNotFound)))
	assert.True(t, IsReconcileRejection(NewError("x").Mark(ErrMalformedPayload)))
	assert.True(t, IsReconcileRejection(NewError("x").Mark(ErrTerminalState)))
	assert.False(t, IsReconcileRejection(NewError("x").Mark(ErrDatabase)))
	assert.False(t, IsReconcileRejection(nil))
}

func TestBuilderKeepsHintsAndDetails(t *testing.T) {
	err := NewError("sale has no parent").
		WithHint("Sale parent could not be resolved").
		WithReportableDetails(map[string]any{"sale_id": "S-1"}).
		Mark(ErrParentNotFound)

	assert.True(t, IsParentNotFound(err))
	assert.Contains(t, errors.GetAllHints(err), "Sale parent could not be resolved")
	assert.Equal(t, ErrCodeParentNotFound, Code(err))
}
