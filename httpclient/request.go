package httpclient

import "context"

// Doer sends a Request and returns the buffered Response.
// Adapter implements it; tests substitute fakes.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(ctx context.Context, req Request) (*Response, error)

// Do calls f(ctx, req).
func (f DoerFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE).
	Method string
	// Path is appended to the adapter's BaseURL. Can be a full URL.
	Path string
	// Headers are request-specific headers (merged with adapter defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string,
	// *MultipartBody, or any value that will be JSON-encoded.
	Body any
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
