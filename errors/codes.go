package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Startup errors
const (
	// ErrCodeConfiguration indicates a missing or invalid required setting.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
)

// Identity provider errors (retryable)
const (
	// ErrCodeTransport indicates the identity provider could not be reached or
	// answered with a failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeTimeout indicates an outbound request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication/Authorization errors
const (
	// ErrCodeForbidden indicates the session lacks a required role.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeTokenExpired indicates the access token has expired.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidToken indicates the token failed verification.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeStateMismatch indicates the OAuth2 state did not match the session.
	ErrCodeStateMismatch ErrorCode = "STATE_MISMATCH"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransport: true,
	ErrCodeTimeout:   true,
	ErrCodeInternal:  false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
