// Package httpclient provides the HTTP adapter every admin API call goes
// through: base URL resolution, default headers, bearer auth, JSON and
// multipart encoding, and status-code error classification.
//
// Callers depend on the Doer interface so tests can substitute fakes.
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://admin.example.com",
//	    Auth:    httpclient.BearerAuth(token),
//	})
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/api/projects",
//	})
//
// Non-2xx responses return both the *Response and a classified *Error whose
// BodyMessage carries the server's "message" field when present.
package httpclient
