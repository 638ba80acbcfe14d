package directory

import "errors"

// Domain errors for the directory package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, directory.ErrInvalidName) {
//	    // handle empty name
//	}
var (
	// ErrInvalidName is returned when a device or scene name is empty.
	ErrInvalidName = errors.New("directory: invalid name")

	// ErrInvalidEntry is returned when an entry is missing its zone or id.
	ErrInvalidEntry = errors.New("directory: invalid entry")
)
