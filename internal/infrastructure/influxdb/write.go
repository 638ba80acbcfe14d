package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordCall writes a completed RPC call measurement.
//
// This is the primary telemetry hook: the dispatcher reports every call
// it completes, successful or not. The write is non-blocking; data is
// batched and sent asynchronously.
//
// Parameters:
//   - method: The RPC method invoked (e.g., "StatusControlFunction/controlDevice")
//   - outcome: "ok" or "error"
//   - elapsed: Wall time the call took, including any relogin retry
func (c *Client) RecordCall(method string, outcome string, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"rpc_calls",
		map[string]string{
			"instance": c.instanceID,
			"method":   method,
			"outcome":  outcome,
		},
		map[string]interface{}{
			"duration_ms": float64(elapsed) / float64(time.Millisecond),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteLoginMetric writes a login attempt measurement.
//
// Parameters:
//   - outcome: "ok" or "error"
//   - elapsed: Wall time the handshake took
func (c *Client) WriteLoginMetric(outcome string, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"logins",
		map[string]string{
			"instance": c.instanceID,
			"outcome":  outcome,
		},
		map[string]interface{}{
			"duration_ms": float64(elapsed) / float64(time.Millisecond),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSetupMetric writes a directory population measurement.
//
// Used to track how long discovery or import runs take and how much
// they register.
//
// Parameters:
//   - source: "discovery", "import", or "cache"
//   - devices: Devices registered by the run
//   - scenes: Scenes registered by the run
//   - elapsed: Wall time the run took
func (c *Client) WriteSetupMetric(source string, devices int, scenes int, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"setup_runs",
		map[string]string{
			"instance": c.instanceID,
			"source":   source,
		},
		map[string]interface{}{
			"devices":     devices,
			"scenes":      scenes,
			"duration_ms": float64(elapsed) / float64(time.Millisecond),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods. The
// instance tag is added automatically.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	merged := make(map[string]string, len(tags)+1)
	for k, v := range tags {
		merged[k] = v
	}
	merged["instance"] = c.instanceID

	point := write.NewPoint(measurement, merged, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
