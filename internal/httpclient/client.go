package httpclient

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/flexprice/paymirror/internal/config"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	RetryMax  int
	RateLimit float64
	RateBurst int
}

// DefaultClient implements the Client interface. Requests wait on a shared
// rate limiter and are retried on connection errors, 429 and 5xx.
type DefaultClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewPayPalClient creates the client used for provider calls
func NewPayPalClient(cfg *config.Configuration, log *logger.Logger) Client {
	return NewClient(ClientConfig{
		Timeout:   cfg.PayPal.Timeout,
		RetryMax:  cfg.PayPal.RetryMax,
		RateLimit: cfg.PayPal.RateLimit,
		RateBurst: cfg.PayPal.RateBurst,
	}, log)
}

func NewClient(cfg ClientConfig, log *logger.Logger) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = &retryLogger{log: log}
	// Hand the last response back instead of a generic "giving up" error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	return &DefaultClient{client: rc, limiter: limiter}
}

// Send makes an HTTP request and returns the response
func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Request cancelled while waiting for rate limit").
			Mark(ierr.ErrHTTPClient)
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	if req.Body != nil {
		httpReq.ContentLength = int64(len(req.Body))
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The payment provider could not be reached").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read provider response").
			Mark(ierr.ErrHTTPClient)
	}

	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	// Return HTTP error for non-2xx responses
	if resp.StatusCode >= 400 {
		return nil, NewError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}

// retryLogger adapts the zap logger to retryablehttp.LeveledLogger
type retryLogger struct {
	log *logger.Logger
}

func (l *retryLogger) Error(msg string, kv ...interface{}) { l.log.Errorw(msg, kv...) }
func (l *retryLogger) Info(msg string, kv ...interface{})  { l.log.Debugw(msg, kv...) }
func (l *retryLogger) Debug(msg string, kv ...interface{}) { l.log.Debugw(msg, kv...) }
func (l *retryLogger) Warn(msg string, kv ...interface{})  { l.log.Warnw(msg, kv...) }
