package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexprice/paymirror/internal/config"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) Verifier {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tokenInfoPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("access_token") == "good" {
			_, _ = w.Write([]byte(`{"scope":["profile"],"expires_in":3599}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"Access Token not valid"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.GetDefaultConfig()
	cfg.OpenAM.Enabled = true
	cfg.OpenAM.BaseURL = srv.URL
	cfg.OpenAM.Timeout = 5 * time.Second
	return NewVerifier(cfg, logger.NewNopLogger())
}

func TestVerify(t *testing.T) {
	v := newTestVerifier(t)

	require.NoError(t, v.Verify(context.Background(), "good"))

	err := v.Verify(context.Background(), "expired")
	assert.True(t, ierr.IsUnauthorized(err))
	assert.Equal(t, http.StatusUnauthorized, ierr.HTTPStatusFromErr(err))

	err = v.Verify(context.Background(), "")
	assert.True(t, ierr.IsUnauthorized(err))
}

func TestDisabledVerifierAcceptsAll(t *testing.T) {
	cfg := config.GetDefaultConfig()
	v := NewVerifier(cfg, logger.NewNopLogger())
	assert.NoError(t, v.Verify(context.Background(), "anything"))
}
