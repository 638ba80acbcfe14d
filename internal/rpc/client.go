package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// SessionManager supplies the session token and refreshes it when the
// gateway expires it mid-flight.
type SessionManager interface {
	Token() string
	Login(ctx context.Context) (string, error)
}

// EventSink receives every error the dispatcher surfaces, in addition
// to the caller getting it back directly.
type EventSink interface {
	PublishError(err error)
}

// noopSink drops events.
type noopSink struct{}

func (noopSink) PublishError(error) {}

// Recorder observes completed calls for telemetry.
type Recorder interface {
	RecordCall(method string, outcome string, elapsed time.Duration)
}

// noopRecorder drops measurements.
type noopRecorder struct{}

func (noopRecorder) RecordCall(string, string, time.Duration) {}

// Logger defines the logging interface used by the Client.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Call represents an in-flight or completed RPC.
//
// The synchronous path is built on the asynchronous one: Client.Call is
// a receive from the Done channel of a Client.Go future, so both styles
// run the exact same dispatch code.
type Call struct {
	Method string          // The gateway method, "Interface/method"
	Params []any           // Positional parameters as sent
	Result json.RawMessage // The raw result on success
	Error  error           // Set after completion on failure
	Done   chan *Call      // Receives *Call when the call completes
}

// done signals completion without ever blocking the dispatcher; a Done
// channel with no capacity left simply misses the notification.
func (call *Call) done() {
	select {
	case call.Done <- call:
	default:
	}
}

// Client dispatches JSON-RPC 2.0 calls to the gateway's remote
// endpoint and normalises its reply conventions into Go errors.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	baseURL string
	http    *http.Client
	session SessionManager

	logger   Logger
	events   EventSink
	recorder Recorder

	id atomic.Uint64
}

// NewClient creates a dispatcher for the gateway at baseURL.
// A nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, session SessionManager) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		session:  session,
		logger:   noopLogger{},
		events:   noopSink{},
		recorder: noopRecorder{},
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// SetEventSink routes surfaced errors to sink.
func (c *Client) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = noopSink{}
	}
	c.events = sink
}

// SetRecorder routes call telemetry to rec.
func (c *Client) SetRecorder(rec Recorder) {
	if rec == nil {
		rec = noopRecorder{}
	}
	c.recorder = rec
}

// Go invokes the method asynchronously. It returns the Call structure
// representing the invocation; the same structure arrives on the done
// channel when the call completes.
//
// If done is nil a fresh buffered channel is allocated. If non-nil it
// must be buffered, or Go deliberately panics: an unbuffered channel
// would stall the dispatcher on an inattentive caller.
func (c *Client) Go(ctx context.Context, method string, params []any, done chan *Call) *Call {
	call := &Call{
		Method: method,
		Params: params,
	}
	if done == nil {
		done = make(chan *Call, 1)
	} else if cap(done) == 0 {
		panic("rpc: done channel is unbuffered")
	}
	call.Done = done

	go func() {
		call.Result, call.Error = c.dispatch(ctx, method, params)
		call.done()
	}()

	return call
}

// Call invokes the method and waits for it to complete.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - method: Gateway method, e.g. "StatusControlFunction/controlDevice"
//   - params: Positional parameters; nil is sent as the empty array
//
// Returns:
//   - json.RawMessage: The raw result on success
//   - error: The normalised failure (see package documentation)
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	call := <-c.Go(ctx, method, params, make(chan *Call, 1)).Done
	return call.Result, call.Error
}

// dispatch runs one RPC exchange, including the single relogin retry
// the gateway's short-lived sessions make routine.
func (c *Client) dispatch(ctx context.Context, method string, params []any) (result json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			c.events.PublishError(err)
		}
		c.recorder.RecordCall(method, outcome, time.Since(start))
	}()

	if c.session.Token() == "" {
		if _, err = c.session.Login(ctx); err != nil {
			return nil, err
		}
	}

	status, body, err := c.post(ctx, method, params)
	if err != nil {
		return nil, err
	}

	// The gateway expires sessions aggressively. One relogin, one
	// retry; a second 401 falls through to interpret like any reply.
	if status == http.StatusUnauthorized {
		c.logger.Debug("session expired, reauthenticating", "method", method)
		if _, err = c.session.Login(ctx); err != nil {
			return nil, err
		}
		status, body, err = c.post(ctx, method, params)
		if err != nil {
			return nil, err
		}
	}

	result, err = interpret(status, body)
	if err != nil {
		c.logger.Warn("rpc failed", "method", method, "status", status, "error", err)
		return nil, err
	}

	return result, nil
}

// post sends one JSON-RPC envelope and returns the raw reply.
func (c *Client) post(ctx context.Context, method string, params []any) (int, []byte, error) {
	if params == nil {
		params = []any{}
	}

	payload, err := json.Marshal(request{
		Method:  method,
		Params:  params,
		ID:      c.id.Add(1),
		JSONRPC: jsonRPCVersion,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("rpc: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("rpc: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("rpc: posting request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body, best effort

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("rpc: reading response: %w", err)
	}

	return resp.StatusCode, body, nil
}
