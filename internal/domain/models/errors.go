package models

import "errors"

// Validation errors are raised before any I/O and are never partially applied.
var (
	ErrInvalidPeriod    = errors.New("invalid period key")
	ErrPeriodOutOfRange = errors.New("period outside supported range")
	ErrInvalidMenuRef   = errors.New("invalid menu reference")
)

// IsValidation reports whether err belongs to the validation taxonomy.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrPeriodOutOfRange) ||
		errors.Is(err, ErrInvalidMenuRef)
}
