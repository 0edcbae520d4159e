package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/adminkit/logger"
)

// Adapter is a configured HTTP client with default headers and auth.
// It is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithTransport replaces the round tripper of the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		if rt != nil {
			a.httpClient.Transport = rt
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		log:    logger.Get("httpclient"),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Do sends the request and buffers the response. Non-2xx statuses return
// the Response together with a classified *Error.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	fields := logger.Fields(
		"adapter", a.config.Name,
		logger.FieldVerb, req.Method,
		logger.FieldPath, req.Path,
	)

	resp, err := a.execute(ctx, req)

	fields[logger.FieldDuration] = time.Since(start).Milliseconds()
	if resp != nil {
		fields[logger.FieldStatusCode] = resp.StatusCode
	}
	if err != nil {
		a.log.WithContext(ctx).Debug("http request failed", logger.MergeWithError(fields, err))
	} else {
		a.log.WithContext(ctx).Debug("http request completed", fields)
	}
	return resp, err
}

func (a *Adapter) execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}

	return result, nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if a.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("Accept", "application/json")
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides the adapter default.
	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		if v == nil {
			return nil, "", nil
		}
		return v.encode()
	case MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case json.RawMessage:
		return bytes.NewReader(v), "application/json", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// HasAuth reports whether requests carry a credential by default.
func (a *Adapter) HasAuth() bool {
	return a.config.Auth.HasCredential()
}

// Close releases idle connections.
func (a *Adapter) Close() {
	a.httpClient.CloseIdleConnections()
}

// Config returns the adapter's configuration.
func (a *Adapter) Config() Config {
	return a.config
}
