package errors

import (
	"encoding/json"
	stderrors "errors"
)

// ErrorResponse is the envelope some API deployments use for failures.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent by the server.
type ErrorBody struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// messageBody matches both the flat {"message": ...} shape and the
// {"error": {"message": ...}} envelope.
type messageBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// ExtractMessage returns the server-supplied message from a JSON body.
// A top-level "message" wins over a nested "error.message". The second
// return value is false when the body carries neither.
func ExtractMessage(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var mb messageBody
	if err := json.Unmarshal(body, &mb); err != nil {
		return "", false
	}
	if mb.Message != "" {
		return mb.Message, true
	}
	if len(mb.Error) > 0 {
		var nested ErrorBody
		if err := json.Unmarshal(mb.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message, true
		}
		var plain string
		if err := json.Unmarshal(mb.Error, &plain); err == nil && plain != "" {
			return plain, true
		}
	}
	return "", false
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
