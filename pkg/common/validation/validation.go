// Package validation provides common validation utilities for great-appender.
package validation

import (
	"strconv"

	gferrors "github.com/vnykmshr/great-appender/pkg/common/errors"
)

// ValidateNonNegative validates that an integer value is non-negative (>= 0).
// Returns a ValidationError if the value is negative.
func ValidateNonNegative(module, field string, value int) error {
	if value < 0 {
		return gferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

// ParseNonNegativeInt parses a decimal byte count and validates it.
func ParseNonNegativeInt(module, field, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, gferrors.NewValidationError(module, field, raw, "must be numeric").
			WithHint("use a whole number of bytes")
	}
	if err := ValidateNonNegative(module, field, n); err != nil {
		return 0, err
	}
	return n, nil
}
