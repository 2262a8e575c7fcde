package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/types"
)

var _ gateway.Gateway = (*MockGateway)(nil)

// GatewayCall is one recorded provider call
type GatewayCall struct {
	Op      string
	Kind    types.ResourceKind
	Key     string
	Token   string
	Payload []byte
	// KeySource is the body the provider request id is derived from
	KeySource []byte
	InTx      bool
}

// MockGateway answers provider calls from registered responses.
// Unregistered calls get a 404 with an empty JSON body.
type MockGateway struct {
	mu        sync.Mutex
	responses map[string]*gateway.Result
	errs      map[string]error
	calls     []GatewayCall
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		responses: make(map[string]*gateway.Result),
		errs:      make(map[string]error),
	}
}

func mockKey(op string, kind types.ResourceKind, key string) string {
	return fmt.Sprintf("%s:%s:%s", op, kind, key)
}

// OnCreate registers the response for creating kind
func (m *MockGateway) OnCreate(kind types.ResourceKind, status int, body string) {
	m.register(mockKey("create", kind, ""), status, body)
}

func (m *MockGateway) OnActivate(kind types.ResourceKind, id string, status int, body string) {
	m.register(mockKey("activate", kind, id), status, body)
}

func (m *MockGateway) OnExecute(kind types.ResourceKind, key string, status int, body string) {
	m.register(mockKey("execute", kind, key), status, body)
}

func (m *MockGateway) OnGet(kind types.ResourceKind, id string, status int, body string) {
	m.register(mockKey("get", kind, id), status, body)
}

// FailCreate makes creating kind return err as a transport failure
func (m *MockGateway) FailCreate(kind types.ResourceKind, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[mockKey("create", kind, "")] = err
}

func (m *MockGateway) register(key string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = &gateway.Result{StatusCode: status, Body: []byte(body)}
}

func (m *MockGateway) Create(ctx context.Context, kind types.ResourceKind, token string, payload []byte) (*gateway.Result, error) {
	source := payload
	if original := types.GetIdempotencySource(ctx); original != nil {
		source = original
	}
	return m.answer(ctx, GatewayCall{Op: "create", Kind: kind, Token: token, Payload: payload, KeySource: source}, mockKey("create", kind, ""))
}

func (m *MockGateway) Activate(ctx context.Context, kind types.ResourceKind, id, token string) (*gateway.Result, error) {
	return m.answer(ctx, GatewayCall{Op: "activate", Kind: kind, Key: id, Token: token}, mockKey("activate", kind, id))
}

func (m *MockGateway) Execute(ctx context.Context, kind types.ResourceKind, key, token string, payload []byte) (*gateway.Result, error) {
	return m.answer(ctx, GatewayCall{Op: "execute", Kind: kind, Key: key, Token: token, Payload: payload}, mockKey("execute", kind, key))
}

func (m *MockGateway) Get(ctx context.Context, kind types.ResourceKind, id, token string) (*gateway.Result, error) {
	return m.answer(ctx, GatewayCall{Op: "get", Kind: kind, Key: id, Token: token}, mockKey("get", kind, id))
}

func (m *MockGateway) answer(ctx context.Context, call GatewayCall, key string) (*gateway.Result, error) {
	call.InTx = InTx(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if res, ok := m.responses[key]; ok {
		return &gateway.Result{StatusCode: res.StatusCode, Body: res.Body}, nil
	}
	return &gateway.Result{StatusCode: http.StatusNotFound, Body: []byte(`{}`)}, nil
}

// Calls returns the recorded calls in order
func (m *MockGateway) Calls() []GatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GatewayCall(nil), m.calls...)
}

// Clear forgets registered responses and recorded calls
func (m *MockGateway) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = make(map[string]*gateway.Result)
	m.errs = make(map[string]error)
	m.calls = nil
}
