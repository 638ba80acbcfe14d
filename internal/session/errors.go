package session

import "errors"

// Login failures that map to gateway responses keep the gateway's
// user-facing phrasing verbatim, so embedders can match on the exact
// messages the remote UI shows.
var (
	// ErrWrongCredentials is returned when the gateway rejects the
	// account with HTTP 403.
	ErrWrongCredentials = errors.New("Wrong username or password")

	// ErrLoginFailed is returned for any other non-200 login response.
	ErrLoginFailed = errors.New("Login failed")
)

// ErrNoSessionCookie is returned when a 200 login response carries no
// recognisable session cookie.
var ErrNoSessionCookie = errors.New("session: login response carried no session cookie")
