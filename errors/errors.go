package errors

import (
	"fmt"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status returned by the remote API, 0 when no call was made.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// MissingTarget is returned when neither a call-time nor a default path is set.
func MissingTarget() *AppError {
	return New(ErrCodeMissingTarget, "No URL provided for the API request.")
}

// UnsupportedVerb is returned for verbs outside GET, POST, PUT, PATCH and DELETE.
func UnsupportedVerb(verb string) *AppError {
	return New(ErrCodeUnsupportedVerb, fmt.Sprintf("Unsupported HTTP verb %q.", verb)).
		WithDetail("verb", verb)
}

// InvalidPayload is returned when a payload cannot be encoded for the chosen verb.
func InvalidPayload(reason string) *AppError {
	return New(ErrCodeInvalidPayload, fmt.Sprintf("Invalid payload: %s", reason))
}

// Validation creates an error for failed struct validation.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ConfigInvalid wraps a configuration validation failure.
func ConfigInvalid(field, reason string) *AppError {
	e := New(ErrCodeConfigInvalid, fmt.Sprintf("Invalid configuration: %s", reason))
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// CredentialUnavailable wraps a credential store failure.
func CredentialUnavailable(store string, cause error) *AppError {
	return New(ErrCodeCredentialUnavailable, fmt.Sprintf("The %s credential store is unavailable.", store)).
		WithDetail("store", store).
		WithCause(cause)
}

// Unauthorized is returned when the remote API rejects the credential.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required. Run `adminctl login` first."
	}
	e := New(ErrCodeUnauthorized, reason)
	e.HTTPStatus = 401
	return e
}

// RequestFailed wraps a failed remote call with the message shown to the user.
func RequestFailed(status int, message string, cause error) *AppError {
	e := New(ErrCodeRequestFailed, message).WithCause(cause)
	e.HTTPStatus = status
	return e
}

// InvalidResponse wraps a response decoding failure.
func InvalidResponse(cause error) *AppError {
	return New(ErrCodeInvalidResponse, "The API returned an unexpected response.").WithCause(cause)
}

// Join joins non-empty messages with "; ".
func Join(messages ...string) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m = strings.TrimSpace(m); m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, "; ")
}
