// Package xcomfort is a remote client for the Eaton xComfort Smart
// Home Controller (SHC).
//
// It speaks the gateway's remote interface: a form login that yields a
// session cookie, and JSON-RPC 2.0 over HTTP POST for everything else.
// On top of the raw dispatch it keeps a directory of friendly device
// and scene names, so callers address "Kitchen Light" instead of zone
// and datapoint ids.
//
// # Construction
//
//	client, err := xcomfort.New(ctx, xcomfort.Options{
//	    BaseURL:   "http://192.168.1.10",
//	    Username:  "remote",
//	    Password:  "secret",
//	    AutoSetup: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// AutoSetup walks the gateway's zones and registers every device and
// scene it reports. ImportSetupPath loads a YAML export instead, and
// wins when both are set. Cache.Path persists the directory in SQLite
// between runs; SaveCache re-persists after manual registrations and
// CacheHealth checks the cache file still answers queries.
//
// # Commands
//
//	ok, err := client.SetDimState(ctx, "Kitchen Light", 75)
//	ok, err = client.TriggerScene(ctx, "Movie Night")
//
// A true result is the gateway's acknowledgement; a false result with
// a nil error is a refusal, not a failure. Unknown names and invalid
// dim values fail locally, before any network traffic, with the
// client's established messages ("No such device", "State value not
// valid (on/off or 0-100 integer)", "No scene with that name exists").
//
// # Synchronous and asynchronous forms
//
// Every operation has both forms built on one flow: the synchronous
// call is a receive from the asynchronous future's Done channel.
//
//	call := client.Go(ctx, "StatusControlFunction/getZones", nil, nil)
//	// ... other work ...
//	<-call.Done
//	if call.Error != nil { ... }
//
// # Sessions
//
// Login is automatic: the dispatcher performs the handshake before the
// first RPC and again whenever the gateway expires the session (one
// relogin and retry per call). Concurrent expiries collapse into a
// single handshake. An explicit Login remains available to validate
// credentials up front.
//
// # Errors
//
// Contract errors are sentinel values (ErrWrongCredentials,
// ErrNoSuchDevice, ...) checked with errors.Is; gateway error objects
// surface as *Error with the gateway's own message and code. Every
// surfaced error is also published to subscribers registered with
// OnError.
package xcomfort
