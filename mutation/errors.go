package mutation

import (
	"errors"
	"fmt"

	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
)

// Error is a failed mutation. Message is the text shown to the user.
type Error struct {
	Message    string
	StatusCode int
	Err        error
}

func newError(resp *httpclient.Response, err error) *Error {
	e := &Error{Message: DefaultFailureMessage, Err: err}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		if msg, ok := apperrors.ExtractMessage(resp.Body); ok {
			e.Message = msg
			return e
		}
	}
	var hErr *httpclient.Error
	if errors.As(err, &hErr) {
		if e.StatusCode == 0 {
			e.StatusCode = hErr.StatusCode
		}
		if msg, ok := hErr.BodyMessage(); ok {
			e.Message = msg
		}
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mutation failed (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mutation failed: %s", e.Message)
}

// Unwrap returns the transport error.
func (e *Error) Unwrap() error { return e.Err }

// FailureMessage returns the user-facing text for err.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var mErr *Error
	if errors.As(err, &mErr) && mErr.Message != "" {
		return mErr.Message
	}
	var hErr *httpclient.Error
	if errors.As(err, &hErr) {
		if msg, ok := hErr.BodyMessage(); ok {
			return msg
		}
	}
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return DefaultFailureMessage
}

// IsConfigError reports whether err was raised by Prepare before any I/O.
func IsConfigError(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeMissingTarget) ||
		apperrors.HasCode(err, apperrors.ErrCodeUnsupportedVerb) ||
		apperrors.HasCode(err, apperrors.ErrCodeInvalidPayload)
}
