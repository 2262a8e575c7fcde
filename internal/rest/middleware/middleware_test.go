package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenVerifier map[string]bool

func (v tokenVerifier) Verify(_ context.Context, token string) error {
	if v[token] {
		return nil
	}
	return ierr.NewError("token rejected").
		WithHint("Invalid access token").
		Mark(ierr.ErrUnauthorized)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler())
	r.Use(ClientAuthMiddleware(tokenVerifier{"good": true}, logger.NewNopLogger()))
	r.GET("/whoami", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"client_id":      types.GetClientID(ctx),
			"provider_token": types.GetProviderToken(ctx),
			"request_id":     types.GetRequestID(ctx),
		})
	})
	return r
}

func doRequest(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClientAuthMiddleware(t *testing.T) {
	r := newTestRouter()

	w := doRequest(r, map[string]string{
		types.HeaderClientID:      "client-1",
		types.HeaderClientToken:   "good",
		types.HeaderProviderToken: "A21",
		types.HeaderRequestID:     "req-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"client_id":"client-1","provider_token":"A21","request_id":"req-1"}`, w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(types.HeaderRequestID))
}

func TestClientAuthMiddlewareMissingHeaders(t *testing.T) {
	r := newTestRouter()

	w := doRequest(r, map[string]string{
		types.HeaderClientID:    "client-1",
		types.HeaderClientToken: "good",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Paypal-Access-Token")
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))
}

func TestClientAuthMiddlewareInvalidToken(t *testing.T) {
	r := newTestRouter()

	w := doRequest(r, map[string]string{
		types.HeaderClientID:      "client-1",
		types.HeaderClientToken:   "expired",
		types.HeaderProviderToken: "A21",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid access token")
}
