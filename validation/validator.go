package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/cognitoauth/errors"
)

// FieldError names a field and what is wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Required returns an INVALID_INPUT error naming field when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return invalidInput([]FieldError{{Field: field, Message: "is required"}})
}

// invalidInput reports every field in one INVALID_INPUT error; the fields
// are also attached under the "fields" detail.
func invalidInput(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, f := range fields {
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fields)
}
