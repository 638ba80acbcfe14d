package rpc

import "errors"

// Error is the JSON-RPC error object returned by the gateway. Message
// travels to callers verbatim; Code carries the gateway's numeric code
// (-32601 for unknown methods, lower firmware-specific values otherwise).
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Error returns the gateway's own phrasing, unwrapped and unprefixed,
// so callers see exactly what the remote UI would show.
func (e *Error) Error() string {
	return e.Message
}

// Sentinels for replies that carry no usable error object. The phrasing
// (spelling included) matches the gateway web client verbatim; do not
// correct it, embedders match on these strings.
var (
	// ErrUnknown is returned for non-200 replies whose body has
	// neither an error object nor a result to quote.
	ErrUnknown = errors.New("Unknown error occured") //nolint:misspell // gateway phrasing

	// ErrUnsupportedMethod is returned when the gateway answers 200
	// with the literal "unsupported method called" result.
	ErrUnsupportedMethod = errors.New("Unsupported method called")
)
