package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	rpcPath        = "/remote/json-rpc"
	jsonRPCVersion = "2.0"

	// unsupportedMethodResult is the literal result the gateway sends,
	// with HTTP 200, for RPC methods its firmware does not implement.
	unsupportedMethodResult = "unsupported method called"
)

// request is the JSON-RPC 2.0 envelope posted to the gateway.
type request struct {
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
	JSONRPC string `json:"jsonrpc"`
}

// response is the gateway's reply envelope. Exactly one of Result and
// Error is populated on well-formed replies.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// interpret applies the gateway's reply conventions, in order:
//
//  1. An explicit error object wins regardless of HTTP status.
//  2. Otherwise a non-200 status fails: with the result field quoted as
//     the message when present, with ErrUnknown when not.
//  3. A 200 whose result is the unsupported-method marker
//     (case-insensitive) fails with ErrUnsupportedMethod.
//  4. Anything else succeeds with the raw result.
func interpret(status int, body []byte) (json.RawMessage, error) {
	var resp response
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			if status != http.StatusOK {
				return nil, ErrUnknown
			}
			return nil, fmt.Errorf("rpc: decoding response: %w", err)
		}
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	if status != http.StatusOK {
		if msg, ok := resultMessage(resp.Result); ok {
			return nil, errors.New(msg)
		}
		return nil, ErrUnknown
	}

	if msg, ok := resultMessage(resp.Result); ok && strings.EqualFold(msg, unsupportedMethodResult) {
		return nil, ErrUnsupportedMethod
	}

	return resp.Result, nil
}

// resultMessage renders a result field as text where it can stand in
// for an error message: JSON strings unquote, other non-null values
// pass through as raw JSON.
func resultMessage(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}
