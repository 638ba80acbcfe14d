package control

import "errors"

// Validation failures keep the gateway client's established phrasing
// verbatim; embedders match on these exact messages.
var (
	// ErrNoSuchDevice is returned when a device name is not in the
	// directory. The gateway is never contacted.
	ErrNoSuchDevice = errors.New("No such device")

	// ErrNoSuchScene is returned when a scene name is not in the
	// directory. The gateway is never contacted.
	ErrNoSuchScene = errors.New("No scene with that name exists")

	// ErrInvalidDimState is returned when a dim value is neither "on",
	// "off", nor an integer within 0-100. String-encoded numbers count
	// as invalid.
	ErrInvalidDimState = errors.New("State value not valid (on/off or 0-100 integer)")
)
