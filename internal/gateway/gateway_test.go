package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/httpclient"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method    string
	path      string
	body      string
	auth      string
	requestID string
}

func newTestGateway(t *testing.T, status int, response string) (Gateway, *[]recorded) {
	t.Helper()

	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method:    r.Method,
			path:      r.URL.Path,
			body:      string(body),
			auth:      r.Header.Get(HeaderAuthorization),
			requestID: r.Header.Get(HeaderRequestID),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	cfg := config.GetDefaultConfig()
	cfg.PayPal.BaseURL = srv.URL
	log := logger.NewNopLogger()
	client := httpclient.NewClient(httpclient.ClientConfig{Timeout: 5 * time.Second}, log)
	return NewPayPalGateway(cfg, client, log), &calls
}

func TestCreatePayment(t *testing.T) {
	gw, calls := newTestGateway(t, http.StatusCreated, `{"id":"PAY-1","state":"created"}`)

	ctx := types.SetClientID(context.Background(), "client-1")
	res, err := gw.Create(ctx, types.ResourceKindPayment, "tok", []byte(`{"intent":"sale"}`))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.JSONEq(t, `{"id":"PAY-1","state":"created"}`, string(res.Body))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/v1/payments/payment", call.path)
	assert.Equal(t, "Bearer tok", call.auth)
	assert.NotEmpty(t, call.requestID)
}

func TestCreateRequestIDIsDeterministic(t *testing.T) {
	gw, calls := newTestGateway(t, http.StatusCreated, `{}`)
	ctx := types.SetClientID(context.Background(), "client-1")

	_, err := gw.Create(ctx, types.ResourceKindPlan, "tok", []byte(`{"name":"a"}`))
	require.NoError(t, err)
	_, err = gw.Create(ctx, types.ResourceKindPlan, "tok", []byte(`{"name":"a"}`))
	require.NoError(t, err)
	_, err = gw.Create(ctx, types.ResourceKindPlan, "tok", []byte(`{"name":"b"}`))
	require.NoError(t, err)

	require.Len(t, *calls, 3)
	assert.Equal(t, (*calls)[0].requestID, (*calls)[1].requestID)
	assert.NotEqual(t, (*calls)[0].requestID, (*calls)[2].requestID)
}

func TestCreateRequestIDFollowsOriginalBody(t *testing.T) {
	gw, calls := newTestGateway(t, http.StatusCreated, `{}`)
	original := []byte(`{"intent":"sale","transactions":[{}]}`)
	ctx := types.SetIdempotencySource(types.SetClientID(context.Background(), "client-1"), original)

	_, err := gw.Create(ctx, types.ResourceKindPayment, "tok", []byte(`{"intent":"sale","transactions":[{"invoice_number":"PM-a"}]}`))
	require.NoError(t, err)
	_, err = gw.Create(ctx, types.ResourceKindPayment, "tok", []byte(`{"intent":"sale","transactions":[{"invoice_number":"PM-b"}]}`))
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, (*calls)[0].requestID, (*calls)[1].requestID)
	assert.Contains(t, (*calls)[1].body, "PM-b")
}

func TestActivatePlan(t *testing.T) {
	gw, calls := newTestGateway(t, http.StatusOK, ``)

	res, err := gw.Activate(context.Background(), types.ResourceKindPlan, "P-1", "tok")
	require.NoError(t, err)
	assert.True(t, res.OK())

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPatch, (*calls)[0].method)
	assert.Equal(t, "/v1/payments/billing-plans/P-1", (*calls)[0].path)
	assert.JSONEq(t, `[{"op":"replace","path":"/","value":{"state":"ACTIVE"}}]`, (*calls)[0].body)

	_, err = gw.Activate(context.Background(), types.ResourceKindPayment, "PAY-1", "tok")
	assert.Error(t, err)
}

func TestExecutePaths(t *testing.T) {
	gw, calls := newTestGateway(t, http.StatusOK, `{}`)

	_, err := gw.Execute(context.Background(), types.ResourceKindPayment, "PAY-1", "tok", []byte(`{"payer_id":"X"}`))
	require.NoError(t, err)
	_, err = gw.Execute(context.Background(), types.ResourceKindAgreement, "EC-1", "tok", nil)
	require.NoError(t, err)
	_, err = gw.Execute(context.Background(), types.ResourceKindPlan, "P-1", "tok", nil)
	assert.Error(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/v1/payments/payment/PAY-1/execute", (*calls)[0].path)
	assert.Equal(t, "/v1/payments/billing-agreements/EC-1/agreement-execute", (*calls)[1].path)
	assert.Equal(t, "{}", (*calls)[1].body)
}

func TestErrorResponsePassedThrough(t *testing.T) {
	gw, _ := newTestGateway(t, http.StatusBadRequest, `{"name":"VALIDATION_ERROR"}`)

	res, err := gw.Get(context.Background(), types.ResourceKindPayment, "PAY-1", "tok")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"name":"VALIDATION_ERROR"}`, string(res.Body))
}
