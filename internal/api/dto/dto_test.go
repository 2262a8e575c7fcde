package dto

import (
	"net/http"
	"testing"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderRequest(t *testing.T) {
	req, err := NewProviderRequest([]byte(`{"intent":"sale"}`))
	require.NoError(t, err)
	fields, err := req.Fields()
	require.NoError(t, err)
	assert.Equal(t, "sale", fields["intent"])

	for _, raw := range []string{``, `[]`, `"x"`, `{bad`} {
		_, err := NewProviderRequest([]byte(raw))
		assert.True(t, ierr.IsValidation(err), raw)
	}
}

func TestProviderResponseRender(t *testing.T) {
	res := &gateway.Result{StatusCode: http.StatusCreated, Body: []byte(`{"id":"P-1"}`)}

	body, err := NewRecordedResponse(res, types.ResourceKindPlan, "plan_1").Render()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"plan_1","plan":{"id":"P-1"}}`, string(body))

	body, err = NewProviderResponse(res).Render()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"P-1"}`, string(body))

	failed := &gateway.Result{StatusCode: http.StatusBadRequest, Body: []byte(`{"name":"VALIDATION_ERROR"}`)}
	body, err = NewRecordedResponse(failed, types.ResourceKindPlan, "").Render()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"VALIDATION_ERROR"}`, string(body))

	body, err = NewProviderResponse(&gateway.Result{StatusCode: http.StatusNoContent}).Render()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
}

func TestNotificationResponse(t *testing.T) {
	r := NewNotificationResponse(&reconcile.Result{
		Kind:    types.ResourceKindRefund,
		Outcome: reconcile.OutcomeRejected,
		Reason:  "parent_not_found",
	})
	assert.Equal(t, "refund", r.Resource)
	assert.Empty(t, r.ID)
	assert.Equal(t, "rejected", r.Outcome)
	assert.Equal(t, "parent_not_found", r.Reason)
}
