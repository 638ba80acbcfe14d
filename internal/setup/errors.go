package setup

import "errors"

// Sentinel errors for setup operations.
var (
	// ErrInvalidSetupFile indicates the file is not a usable setup export.
	ErrInvalidSetupFile = errors.New("setup: invalid setup file")

	// ErrFileTooLarge indicates the file exceeds the size limit.
	ErrFileTooLarge = errors.New("setup: file exceeds maximum size limit")
)
