package control

import (
	"context"
	"encoding/json"
	"math"

	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
)

// Gateway methods driven by the control surface.
const (
	methodControlDevice = "StatusControlFunction/controlDevice"
	methodTriggerScene  = "SceneFunction/triggerScene"
)

// Dispatcher is the JSON-RPC surface commands are sent through.
type Dispatcher interface {
	Call(ctx context.Context, method string, params []any) (json.RawMessage, error)
}

// Directory is the name lookup consulted before any command leaves the
// client.
type Directory interface {
	Device(name string) (directory.DeviceEntry, bool)
	Scene(name string) (directory.SceneEntry, bool)
}

// Logger defines the logging interface used by the Controller.
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

// Result represents an in-flight or completed command, mirroring the
// dispatcher's Call future at the command level.
//
// OK reports whether the gateway acknowledged with status "ok". A false
// OK with a nil Error is a negative acknowledgement, not a failure.
type Result struct {
	Name  string       // Friendly name the command targeted
	OK    bool         // Gateway acknowledged with status "ok"
	Error error        // Set after completion on failure
	Done  chan *Result // Receives *Result when the command completes
}

// done signals completion without blocking; a full Done channel misses
// the notification.
func (r *Result) done() {
	select {
	case r.Done <- r:
	default:
	}
}

// Controller validates commands against the directory and drives them
// through the dispatcher.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Controller struct {
	rpc    Dispatcher
	dir    Directory
	logger Logger
}

// New creates a controller over the given dispatcher and directory.
func New(rpc Dispatcher, dir Directory) *Controller {
	return &Controller{
		rpc:    rpc,
		dir:    dir,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// SetDimState switches or dims the named device and waits for the
// gateway's acknowledgement.
//
// state must be exactly "on", exactly "off", or an integer within
// 0-100; anything else fails with ErrInvalidDimState before any network
// traffic. An unknown name fails with ErrNoSuchDevice, likewise without
// network traffic.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - name: Friendly device name as registered in the directory
//   - state: "on", "off", or an integer 0-100
//
// Returns:
//   - bool: true if the gateway answered status "ok", false otherwise
//   - error: Validation or dispatch failure
func (c *Controller) SetDimState(ctx context.Context, name string, state any) (bool, error) {
	result := <-c.GoSetDimState(ctx, name, state, make(chan *Result, 1)).Done
	return result.OK, result.Error
}

// GoSetDimState is the asynchronous form of SetDimState. It returns the
// Result future immediately; the same Result arrives on the done
// channel when the command completes.
//
// If done is nil a fresh buffered channel is allocated; a non-nil done
// must be buffered or GoSetDimState panics.
func (c *Controller) GoSetDimState(ctx context.Context, name string, state any, done chan *Result) *Result {
	result := newResult(name, done)
	go func() {
		result.OK, result.Error = c.setDimState(ctx, name, state)
		result.done()
	}()
	return result
}

// setDimState is the single code path behind both SetDimState forms.
func (c *Controller) setDimState(ctx context.Context, name string, state any) (bool, error) {
	entry, ok := c.dir.Device(name)
	if !ok {
		return false, ErrNoSuchDevice
	}
	if !validDimState(state) {
		return false, ErrInvalidDimState
	}

	raw, err := c.rpc.Call(ctx, methodControlDevice, []any{entry.ZoneID, entry.ID, state})
	if err != nil {
		return false, err
	}

	ok = statusOK(raw)
	c.logger.Debug("device command acknowledged", "name", name, "ok", ok)
	return ok, nil
}

// TriggerScene activates the named scene and waits for the gateway's
// acknowledgement. An unknown name fails with ErrNoSuchScene before any
// network traffic.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - name: Friendly scene name as registered in the directory
//
// Returns:
//   - bool: true if the gateway answered status "ok", false otherwise
//   - error: Validation or dispatch failure
func (c *Controller) TriggerScene(ctx context.Context, name string) (bool, error) {
	result := <-c.GoTriggerScene(ctx, name, make(chan *Result, 1)).Done
	return result.OK, result.Error
}

// GoTriggerScene is the asynchronous form of TriggerScene, with the
// same done-channel contract as GoSetDimState.
func (c *Controller) GoTriggerScene(ctx context.Context, name string, done chan *Result) *Result {
	result := newResult(name, done)
	go func() {
		result.OK, result.Error = c.triggerScene(ctx, name)
		result.done()
	}()
	return result
}

// triggerScene is the single code path behind both TriggerScene forms.
func (c *Controller) triggerScene(ctx context.Context, name string) (bool, error) {
	entry, ok := c.dir.Scene(name)
	if !ok {
		return false, ErrNoSuchScene
	}

	raw, err := c.rpc.Call(ctx, methodTriggerScene, []any{entry.ZoneID, entry.ID})
	if err != nil {
		return false, err
	}

	ok = statusOK(raw)
	c.logger.Debug("scene command acknowledged", "name", name, "ok", ok)
	return ok, nil
}

func newResult(name string, done chan *Result) *Result {
	if done == nil {
		done = make(chan *Result, 1)
	} else if cap(done) == 0 {
		panic("control: done channel is unbuffered")
	}
	return &Result{
		Name: name,
		Done: done,
	}
}

// validDimState reports whether state is exactly "on", exactly "off",
// or an integer within 0-100. Numeric strings are rejected; fractional
// values are rejected.
func validDimState(state any) bool {
	switch s := state.(type) {
	case string:
		return s == "on" || s == "off"
	case int:
		return s >= 0 && s <= 100
	case int64:
		return s >= 0 && s <= 100
	case float64:
		return s == math.Trunc(s) && s >= 0 && s <= 100
	default:
		return false
	}
}

// statusOK reads the acknowledgement object's status field. Anything
// that is not an object with status "ok" counts as a negative
// acknowledgement.
func statusOK(raw json.RawMessage) bool {
	var ack struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &ack); err != nil {
		return false
	}
	return ack.Status == "ok"
}
