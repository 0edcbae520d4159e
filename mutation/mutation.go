package mutation

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/adminkit/client"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/observability"
)

// Default user-facing messages.
const (
	DefaultSuccessMessage = "Success!"
	DefaultFailureMessage = "Something went wrong. Try again."
)

// Options are the adapter defaults. A zero Verb means POST.
type Options struct {
	Path           string
	Verb           Verb
	SuccessMessage string
	Secure         bool
}

// Variables override the defaults for one call.
type Variables struct {
	// Verb is matched case-insensitively; empty keeps the default.
	Verb string
	// Path replaces Options.Path when set.
	Path string
	// Data is the payload: a body for POST, PUT, PATCH and DELETE, query
	// parameters for GET.
	Data any
}

// Adapter dispatches mutations through a client.Source. It holds no
// mutable state and is safe for concurrent use.
type Adapter struct {
	source  client.Source
	opts    Options
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates an Adapter.
func New(source client.Source, opts Options) *Adapter {
	if opts.Verb == VerbDefault {
		opts.Verb = VerbPost
	}
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = DefaultSuccessMessage
	}
	return &Adapter{
		source:  source,
		opts:    opts,
		log:     logger.Get("mutation"),
		metrics: observability.DefaultMetrics(),
	}
}

// Options returns the resolved defaults.
func (a *Adapter) Options() Options { return a.opts }

// Call is a shaped request ready to be sent once.
type Call struct {
	adapter *Adapter
	verb    Verb
	req     httpclient.Request
}

// Verb returns the effective verb.
func (c *Call) Verb() Verb { return c.verb }

// Request returns a copy of the shaped request.
func (c *Call) Request() httpclient.Request { return c.req }

// Secure reports whether the call goes through the secure client.
func (c *Call) Secure() bool { return c.adapter.opts.Secure }

// Prepare resolves verb and path and shapes the request. Every error it
// returns is a configuration error raised before any I/O.
func (a *Adapter) Prepare(vars Variables) (*Call, error) {
	verb, err := ParseVerb(vars.Verb)
	if err != nil {
		return nil, err
	}
	if verb == VerbDefault {
		verb = a.opts.Verb
	}

	path := vars.Path
	if path == "" {
		path = a.opts.Path
	}
	if path == "" {
		return nil, apperrors.MissingTarget()
	}

	shape, ok := shapers[verb]
	if !ok {
		return nil, apperrors.UnsupportedVerb(verb.String())
	}
	req, err := shape(path, vars.Data)
	if err != nil {
		return nil, err
	}

	return &Call{adapter: a, verb: verb, req: req}, nil
}

// Mutate prepares and executes a call.
func (a *Adapter) Mutate(ctx context.Context, vars Variables) (*Result, error) {
	call, err := a.Prepare(vars)
	if err != nil {
		return nil, err
	}
	return call.Execute(ctx)
}

// Execute sends the request exactly once. Failures are returned as *Error
// carrying the message to show the user.
func (c *Call) Execute(ctx context.Context) (res *Result, err error) {
	a := c.adapter
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, observability.SpanMutationExecute,
		attribute.String(observability.AttrVerb, c.verb.String()),
		attribute.String(observability.AttrPath, c.req.Path),
		attribute.Bool(observability.AttrSecure, a.opts.Secure),
	)
	defer func() { observability.EndSpan(span, err) }()

	log := a.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldVerb, c.verb.String(),
		logger.FieldPath, c.req.Path,
		logger.FieldSecure, a.opts.Secure,
	)
	log.Debug("dispatching mutation", fields)

	resp, doErr := a.source.Client(a.opts.Secure).Do(ctx, c.req)
	elapsed := time.Since(start)
	fields[logger.FieldDuration] = elapsed.Milliseconds()
	if resp != nil {
		fields[logger.FieldStatusCode] = resp.StatusCode
		span.SetAttributes(attribute.Int(observability.AttrStatusCode, resp.StatusCode))
	}

	if doErr != nil {
		mErr := newError(resp, doErr)
		log.Warn("mutation failed", logger.MergeWithError(fields, doErr))
		a.metrics.RecordMutation(ctx, c.verb.String(), "error", elapsed)
		return nil, mErr
	}

	res = &Result{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Message:    successMessage(resp.Body, a.opts.SuccessMessage),
	}
	log.Debug("mutation succeeded", fields)
	a.metrics.RecordMutation(ctx, c.verb.String(), "success", elapsed)
	return res, nil
}

// Result is a successful mutation response.
type Result struct {
	StatusCode int
	Body       []byte
	// Message is the response's top-level "message", else the adapter's
	// SuccessMessage.
	Message string
}

// Decode unmarshals the result body into T.
func Decode[T any](r *Result) (T, error) {
	var zero T
	if r == nil {
		return zero, nil
	}
	v, err := httpclient.Decode[T](r.Body)
	if err != nil {
		return zero, apperrors.InvalidResponse(err)
	}
	return v, nil
}

// successMessage reads a top-level string "message" from body.
func successMessage(body []byte, fallback string) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil || len(payload.Message) == 0 {
		return fallback
	}
	var msg string
	if json.Unmarshal(payload.Message, &msg) != nil || msg == "" {
		return fallback
	}
	return msg
}
