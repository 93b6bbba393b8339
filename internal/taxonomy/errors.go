package taxonomy

import "errors"

// Domain errors for taxonomy operations.
var (
	ErrSourceMissing  = errors.New("taxonomy source not found")
	ErrSourceInvalid  = errors.New("taxonomy source invalid")
	ErrUnknownSection = errors.New("unknown taxonomy section")
	ErrNotFound       = errors.New("taxonomy entry not found")
)
