// Package logger provides structured logging for cognitoauth using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. Secrets and raw tokens
// must never be passed as fields.
//
// # Usage
//
//	log := logger.NewDefault("cognito").WithComponent("jwks")
//	log.Debug("keys fetched", logger.Fields(logger.FieldMaxAge, 3600))
package logger
