// Package gateway performs the synchronous calls to the payment provider.
//
// Provider responses are returned as they were received. A non-2xx
// response is not an error here: callers pass its status and body back
// to their own caller and write nothing locally.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/flexprice/paymirror/internal/config"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/httpclient"
	"github.com/flexprice/paymirror/internal/idempotency"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "PayPal-Request-Id"
)

var activatePatch = []byte(`[{"op":"replace","path":"/","value":{"state":"ACTIVE"}}]`)

// Result is the provider's status code and raw response body
type Result struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx response
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Gateway is the provider API used by the synchronous flows
type Gateway interface {
	Create(ctx context.Context, kind types.ResourceKind, token string, payload []byte) (*Result, error)
	Activate(ctx context.Context, kind types.ResourceKind, id, token string) (*Result, error)
	Execute(ctx context.Context, kind types.ResourceKind, key, token string, payload []byte) (*Result, error)
	Get(ctx context.Context, kind types.ResourceKind, id, token string) (*Result, error)
}

type paypalGateway struct {
	baseURL    string
	client     httpclient.Client
	idempotent *idempotency.Generator
	logger     *logger.Logger
}

func NewPayPalGateway(cfg *config.Configuration, client httpclient.Client, logger *logger.Logger) Gateway {
	return &paypalGateway{
		baseURL:    strings.TrimRight(cfg.PayPal.BaseURL, "/"),
		client:     client,
		idempotent: idempotency.NewGenerator(),
		logger:     logger,
	}
}

func (g *paypalGateway) Create(ctx context.Context, kind types.ResourceKind, token string, payload []byte) (*Result, error) {
	base, err := g.collection(kind)
	if err != nil {
		return nil, err
	}
	headers := g.headers(token)
	source := payload
	if original := types.GetIdempotencySource(ctx); original != nil {
		source = original
	}
	headers[HeaderRequestID] = g.requestID(ctx, idempotency.CreateScope(kind.String()), source)
	return g.send(ctx, http.MethodPost, base, headers, payload)
}

func (g *paypalGateway) Activate(ctx context.Context, kind types.ResourceKind, id, token string) (*Result, error) {
	if kind != types.ResourceKindPlan {
		return nil, ierr.NewErrorf("%s cannot be activated", kind).
			Mark(ierr.ErrInvalidOperation)
	}
	base, err := g.collection(kind)
	if err != nil {
		return nil, err
	}
	return g.send(ctx, http.MethodPatch, base+"/"+id, g.headers(token), activatePatch)
}

// Execute posts to the kind's execute endpoint: payments by id, agreements
// by approval token
func (g *paypalGateway) Execute(ctx context.Context, kind types.ResourceKind, key, token string, payload []byte) (*Result, error) {
	base, err := g.collection(kind)
	if err != nil {
		return nil, err
	}

	var url string
	switch kind {
	case types.ResourceKindPayment:
		url = fmt.Sprintf("%s/%s/execute", base, key)
	case types.ResourceKindAgreement:
		url = fmt.Sprintf("%s/%s/agreement-execute", base, key)
	default:
		return nil, ierr.NewErrorf("%s cannot be executed", kind).
			Mark(ierr.ErrInvalidOperation)
	}
	if payload == nil {
		payload = []byte("{}")
	}

	headers := g.headers(token)
	headers[HeaderRequestID] = g.requestID(ctx, idempotency.ExecuteScope(kind.String()), append([]byte(key+":"), payload...))
	return g.send(ctx, http.MethodPost, url, headers, payload)
}

func (g *paypalGateway) Get(ctx context.Context, kind types.ResourceKind, id, token string) (*Result, error) {
	base, err := g.collection(kind)
	if err != nil {
		return nil, err
	}
	return g.send(ctx, http.MethodGet, base+"/"+id, g.headers(token), nil)
}

func (g *paypalGateway) collection(kind types.ResourceKind) (string, error) {
	switch kind {
	case types.ResourceKindPlan:
		return g.baseURL + "/v1/payments/billing-plans", nil
	case types.ResourceKindAgreement:
		return g.baseURL + "/v1/payments/billing-agreements", nil
	case types.ResourceKindPayment:
		return g.baseURL + "/v1/payments/payment", nil
	}
	return "", ierr.NewErrorf("no provider endpoint for %s", kind).
		Mark(ierr.ErrInvalidOperation)
}

func (g *paypalGateway) headers(token string) map[string]string {
	return map[string]string{
		HeaderAuthorization: "Bearer " + token,
		"Accept":            "application/json",
	}
}

// requestID derives the provider idempotency key from the calling client,
// the inbound request id and the payload, so a client retrying the same
// request does not create a second resource. Create uses the client's
// original body when the caller amended it.
func (g *paypalGateway) requestID(ctx context.Context, scope idempotency.Scope, payload []byte) string {
	return g.idempotent.GenerateKey(scope, map[string]interface{}{
		"client_id":  types.GetClientID(ctx),
		"request_id": types.GetRequestID(ctx),
		"payload":    idempotency.PayloadDigest(payload),
	})
}

func (g *paypalGateway) send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Result, error) {
	resp, err := g.client.Send(ctx, &httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			g.logger.Infow("provider returned an error response",
				"method", method,
				"url", url,
				"status", httpErr.StatusCode,
			)
			return &Result{StatusCode: httpErr.StatusCode, Body: httpErr.Response}, nil
		}
		g.logger.Errorw("provider call failed", "method", method, "url", url, "error", err)
		return nil, err
	}

	g.logger.Debugw("provider call succeeded", "method", method, "url", url, "status", resp.StatusCode)
	return &Result{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}
