// Package validation provides input and configuration validation for
// cognitoauth.
//
// Struct tag validation uses go-playground/validator. Field names in errors
// come from the mapstructure tag, so they match the environment keys a host
// sets.
//
//	type Settings struct {
//	    ClientID string `mapstructure:"client_id" validate:"required"`
//	}
//	err := validation.ValidateConfig(&s) // CONFIGURATION_ERROR naming client_id
//
// Required checks a single request value and yields INVALID_INPUT:
//
//	err := validation.Required("code", code)
package validation
