package setup

import (
	"context"
	"encoding/json"

	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
)

// Client is the surface the collaborators need from a connected client:
// the ability to issue RPCs and the directory to populate.
type Client interface {
	Call(ctx context.Context, method string, params []any) (json.RawMessage, error)
	Directory() *directory.Registry
}

// Setup is the collaborator contract the client construction drives.
// Exactly one of the two runs per construction: ImportSetup when an
// import path was supplied, InitialSetup when auto-setup was requested.
type Setup interface {
	InitialSetup(ctx context.Context, client Client) error
	ImportSetup(ctx context.Context, path string, client Client) error
}

// Logger defines the logging interface used by the Runner.
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

// Runner is the standard Setup implementation: YAML imports from disk,
// discovery over the gateway's listing RPCs.
type Runner struct {
	logger Logger
}

// NewRunner creates a setup runner.
func NewRunner() *Runner {
	return &Runner{logger: noopLogger{}}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}
