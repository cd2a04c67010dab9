// Package errors provides the structured error taxonomy used across cognitoauth.
// It implements AppError with machine-readable codes, HTTP status mapping and
// retryable detection following RFC 7807 and Google AIP-193.
//
// Codes, not instances, identify a failure. AppError.Is compares codes, so a
// constructor result can be used as an errors.Is target:
//
//	if errors.Is(err, apperrors.TokenExpired()) { ... }
package errors
