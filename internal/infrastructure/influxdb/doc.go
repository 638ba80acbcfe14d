// Package influxdb provides optional call telemetry over InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched metric writing, and health monitoring.
//
// # Purpose
//
// This package records what the client does against the gateway:
//   - Per-call latency and outcome ("rpc_calls")
//   - Login handshake attempts ("logins")
//   - Directory population runs ("setup_runs")
//
// Telemetry is entirely optional. The dispatcher takes a Recorder
// interface and defaults to a no-op; this package is only wired when
// the configuration enables it.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "home",
//	    Bucket:  "xcomfort",
//	}
//
//	client, err := influxdb.Connect(cfg, instanceID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.RecordCall("StatusControlFunction/getZones", "ok", 42*time.Millisecond)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via
// the SetOnError callback. Connection and health check errors are
// returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size,
// flush_interval). A slow or absent InfluxDB never blocks an RPC.
package influxdb
