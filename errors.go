package xcomfort

import (
	"errors"

	"github.com/kevinsch95/xcomfort-shc-api/internal/control"
	"github.com/kevinsch95/xcomfort-shc-api/internal/rpc"
	"github.com/kevinsch95/xcomfort-shc-api/internal/session"
)

// Construction failures. The phrasing matches the gateway client's
// established messages verbatim; embedders match on these strings.
var (
	// ErrNoBaseURL is returned by New when Options.BaseURL is empty.
	ErrNoBaseURL = errors.New("No baseUrl supplied")

	// ErrNoUsername is returned by New when Options.Username is empty.
	ErrNoUsername = errors.New("No username supplied")

	// ErrNoPassword is returned by New when Options.Password is empty.
	ErrNoPassword = errors.New("No password supplied")
)

// ErrNoCache is returned by CacheHealth when the client was built
// without a name cache.
var ErrNoCache = errors.New("xcomfort: no name cache configured")

// Errors surfaced by the session, dispatch and control layers,
// re-exported so callers can errors.Is against this package alone.
var (
	// ErrWrongCredentials means the gateway rejected the account (403).
	ErrWrongCredentials = session.ErrWrongCredentials

	// ErrLoginFailed means the handshake failed for any other reason.
	ErrLoginFailed = session.ErrLoginFailed

	// ErrUnknown means the gateway replied non-200 with nothing usable
	// in the body.
	ErrUnknown = rpc.ErrUnknown

	// ErrUnsupportedMethod means the gateway does not implement the
	// invoked method.
	ErrUnsupportedMethod = rpc.ErrUnsupportedMethod

	// ErrNoSuchDevice means the device name is not in the directory.
	ErrNoSuchDevice = control.ErrNoSuchDevice

	// ErrNoSuchScene means the scene name is not in the directory.
	ErrNoSuchScene = control.ErrNoSuchScene

	// ErrInvalidDimState means the dim value is neither "on", "off",
	// nor an integer within 0-100.
	ErrInvalidDimState = control.ErrInvalidDimState
)
