// Package session implements the remote login handshake against an
// xComfort Smart Home Controller.
//
// # Handshake
//
// The gateway has no token endpoint for remote clients; it reuses the
// web UI's form login:
//
//	POST {base_url}/system/http/login
//	Content-Type: application/x-www-form-urlencoded
//
//	rakey=...&remotable_user=...&upassword=...&referer=/bcgui/index.html
//
// A successful response (200) sets a servlet session cookie. The cookie
// name varies in casing across firmware, so extraction is
// case-insensitive over JSESSIONID/SESSIONID variants. The value is an
// opaque token carried on every JSON-RPC request until the gateway
// expires it.
//
// A 403 means the account itself was rejected; anything else non-200 is
// reported as a generic login failure.
//
// # Concurrency
//
// Login is safe to call from many goroutines; concurrent calls share a
// single in-flight handshake (singleflight), and every caller observes
// the token that handshake produced.
package session
