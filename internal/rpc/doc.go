// Package rpc implements the JSON-RPC 2.0 dispatcher for the xComfort
// Smart Home Controller's remote endpoint.
//
// # Wire format
//
// Every call is an HTTP POST to {base_url}/remote/json-rpc carrying the
// session cookie and an envelope of the form:
//
//	{"method": "StatusControlFunction/controlDevice",
//	 "params": ["hz_1", "xCo:2752512.2", "on"],
//	 "id": 7,
//	 "jsonrpc": "2.0"}
//
// Method names are "Interface/operation" pairs defined by the gateway
// firmware. Params are positional; a call without parameters sends the
// empty array, never null. Request ids increment per client and are
// used only for log correlation, replies arrive on the same HTTP
// exchange.
//
// # Reply conventions
//
// The gateway predates strict JSON-RPC and mixes HTTP status, error
// objects and in-band result markers. The dispatcher normalises them in
// a fixed order:
//
//  1. Transport failures surface as wrapped errors.
//  2. HTTP 401 triggers one relogin and one retry of the original
//     call; whatever the retry produces is final.
//  3. A reply with an error object fails with its message verbatim,
//     regardless of HTTP status.
//  4. Any other non-200 reply fails: with the result field as the
//     message when present, with "Unknown error occured" when not.
//  5. A 200 whose result is "unsupported method called" (in any
//     casing) fails with "Unsupported method called".
//  6. Anything else succeeds with the raw result.
//
// # Calling styles
//
// Client.Go returns a net/rpc-style future whose Done channel receives
// the completed Call; Client.Call is literally a receive from that
// channel. Both styles therefore share one dispatch path, including the
// relogin retry, event publication and telemetry.
package rpc
