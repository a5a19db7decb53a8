package mapping

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a required source field that is absent or malformed.
// Mapping never silently substitutes zero values for required input.
var ErrMissingField = errors.New("required source field missing")

func missingField(record, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrMissingField, record, field)
}

func malformedField(record, field string, err error) error {
	return fmt.Errorf("%w: %s.%s: %v", ErrMissingField, record, field, err)
}
