// Package shctest implements an in-memory Smart Home Controller gateway
// for tests.
//
// This package provides:
//   - The form login endpoint, issuing JSESSIONID session cookies
//   - The JSON-RPC dispatch endpoint with session enforcement
//   - Per-method scripted responses (results or error objects)
//   - Request recording for asserting methods and params on the wire
//   - Session invalidation to drive the relogin-and-retry path
//
// # Usage
//
//	gw := shctest.New(shctest.Options{Username: "user", Password: "pass"})
//	gw.HandleResult("StatusControlFunction/getZones",
//	    []map[string]string{{"zoneId": "hz_1", "name": "Hall"}})
//
//	srv := httptest.NewServer(gw)
//	defer srv.Close()
//	// point a client at srv.URL
//
// Unscripted methods respond the way the real gateway does: a 200 with
// the result string "unsupported method called". Requests without a live
// session cookie get a plain 401.
package shctest
