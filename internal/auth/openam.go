// Package auth verifies the identity-provider tokens sent with client requests.
package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/flexprice/paymirror/internal/config"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/httpclient"
	"github.com/flexprice/paymirror/internal/logger"
)

const tokenInfoPath = "/openam/oauth2/tokeninfo"

// Verifier checks a user's access token with the identity provider
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// NewVerifier returns the OpenAM verifier, or one that accepts every token
// when OpenAM is disabled
func NewVerifier(cfg *config.Configuration, log *logger.Logger) Verifier {
	if !cfg.OpenAM.Enabled {
		log.Warnw("openam token verification is disabled")
		return allowAll{}
	}
	return NewOpenAMVerifier(cfg, httpclient.NewClient(httpclient.ClientConfig{
		Timeout:  cfg.OpenAM.Timeout,
		RetryMax: 1,
	}, log), log)
}

type openAMVerifier struct {
	baseURL string
	client  httpclient.Client
	logger  *logger.Logger
}

func NewOpenAMVerifier(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) Verifier {
	return &openAMVerifier{
		baseURL: strings.TrimRight(cfg.OpenAM.BaseURL, "/"),
		client:  client,
		logger:  log,
	}
}

func (v *openAMVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ierr.NewError("access token is missing").
			WithHint("Openam-Client-Token header is required").
			Mark(ierr.ErrUnauthorized)
	}

	_, err := v.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     v.baseURL + tokenInfoPath + "?" + url.Values{"access_token": []string{token}}.Encode(),
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err == nil {
		return nil
	}

	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		v.logger.Infow("openam rejected access token", "status", httpErr.StatusCode)
		return ierr.NewErrorf("openam rejected access token with status %d", httpErr.StatusCode).
			WithHint("Invalid access token").
			WithReportableDetails(map[string]any{"status": httpErr.StatusCode}).
			Mark(ierr.ErrUnauthorized)
	}

	v.logger.Errorw("openam token check failed", "error", err)
	return err
}

type allowAll struct{}

func (allowAll) Verify(context.Context, string) error { return nil }
