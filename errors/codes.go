package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Dispatch errors, raised before any network I/O.
const (
	// ErrCodeMissingTarget indicates no request path could be resolved.
	ErrCodeMissingTarget ErrorCode = "MISSING_TARGET"
	// ErrCodeUnsupportedVerb indicates an HTTP verb outside the supported set.
	ErrCodeUnsupportedVerb ErrorCode = "UNSUPPORTED_VERB"
	// ErrCodeInvalidPayload indicates a payload that cannot be shaped for the verb.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
)

// Configuration and credential errors
const (
	// ErrCodeValidation indicates a struct failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
	// ErrCodeConfigInvalid indicates invalid configuration.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ErrCodeCredentialUnavailable indicates the credential store could not be read or written.
	ErrCodeCredentialUnavailable ErrorCode = "CREDENTIAL_UNAVAILABLE"
	// ErrCodeUnauthorized indicates the remote API rejected the credential.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Remote errors
const (
	// ErrCodeRequestFailed indicates the remote call failed.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"
	// ErrCodeInvalidResponse indicates a response body that could not be decoded.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRequestFailed:         true,
	ErrCodeCredentialUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
