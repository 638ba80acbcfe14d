package xcomfort

import (
	"github.com/kevinsch95/xcomfort-shc-api/internal/control"
	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/config"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/logging"
	"github.com/kevinsch95/xcomfort-shc-api/internal/rpc"
)

// Re-export core types for external use.
type (
	// Call is an in-flight or completed raw RPC.
	Call = rpc.Call
	// Error is the JSON-RPC error object returned by the gateway.
	Error = rpc.Error
	// Result is an in-flight or completed device or scene command.
	Result = control.Result
	// DeviceEntry is a device's gateway address: zone, id, type.
	DeviceEntry = directory.DeviceEntry
	// SceneEntry is a scene's gateway address: zone and id.
	SceneEntry = directory.SceneEntry
	// NamedDevice pairs a friendly name with its device entry.
	NamedDevice = directory.NamedDevice
	// NamedScene pairs a friendly name with its scene entry.
	NamedScene = directory.NamedScene
	// NameObject holds both listings, marshalling empty ones to [].
	NameObject = directory.NameObject
	// Directory is the insertion-ordered name registry.
	Directory = directory.Registry
	// Logger is the structured logger every component logs through.
	Logger = logging.Logger
	// LogOptions configures a Logger's level, format and output.
	LogOptions = config.LoggingConfig
)

// NewLogger builds a structured logger from the given options,
// stamping every record with the service name and version.
func NewLogger(opts LogOptions, version string) *Logger {
	return logging.New(opts, version)
}
