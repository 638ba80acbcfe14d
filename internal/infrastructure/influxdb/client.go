package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/config"
)

const (
	// connectTimeout bounds the ping that verifies a new connection.
	connectTimeout = 10 * time.Second

	// pingTimeout bounds HealthCheck's ping.
	pingTimeout = 5 * time.Second

	// Batching defaults, applied when the config leaves them zero.
	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds

	// millisecondsPerSecond converts FlushInterval for the write API.
	millisecondsPerSecond = 1000
)

// Client records gateway traffic telemetry in InfluxDB v2: one point
// per RPC call, login handshake and setup run. Writes are batched and
// non-blocking, so an unreachable telemetry server never slows a
// command; write failures surface through the SetOnError callback
// instead.
//
// Every point carries the owning client's instance id as a tag, so
// several clients can share a bucket.
//
// All methods are safe for concurrent use.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	// instanceID tags every point this recorder writes.
	instanceID string

	// connected tracks the last known connection state.
	connected bool
	mu        sync.RWMutex

	// onError receives asynchronous write failures.
	onError func(err error)
}

// writeOptions applies the batching defaults the config may omit.
func writeOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	flush := cfg.FlushInterval
	if flush <= 0 {
		flush = defaultFlushInterval
	}
	// #nosec G115 -- both floored to a positive value above
	return influxdb2.DefaultOptions().
		SetBatchSize(uint(batch)).
		SetFlushInterval(uint(flush) * millisecondsPerSecond)
}

// Connect builds a telemetry recorder against the configured InfluxDB
// server and verifies it answers a ping. When the config has telemetry
// switched off it returns ErrDisabled without dialing.
func Connect(cfg config.InfluxDBConfig, instanceID string) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, writeOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	c := &Client{
		client:     client,
		writeAPI:   client.WriteAPI(cfg.Org, cfg.Bucket),
		instanceID: instanceID,
		connected:  true,
	}
	go c.forwardWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// forwardWriteErrors drains the write API's failure channel into the
// registered callback. The channel closes when the recorder closes.
func (c *Client) forwardWriteErrors(errs <-chan error) {
	for err := range errs {
		c.mu.RLock()
		callback := c.onError
		c.mu.RUnlock()

		if callback != nil {
			callback(err)
		}
	}
}

// Close flushes buffered telemetry and disconnects. It always returns
// nil; the signature matches the client's other closable components.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.writeAPI.Flush()
	c.client.Close()

	return nil
}

// HealthCheck pings the telemetry server, bounded by pingTimeout even
// when the caller's context carries no deadline. A recorder that never
// connected, or was closed, reports ErrNotConnected without dialing.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(pingCtx)
	if err != nil {
		return fmt.Errorf("pinging telemetry server: %w", err)
	}
	if !healthy {
		return fmt.Errorf("telemetry server not healthy")
	}

	return nil
}

// IsConnected reports the last known connection state. HealthCheck
// performs an active ping.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SetOnError registers a callback for asynchronous write failures.
// Writes are non-blocking, so the callback is the only place they
// surface; the root client points it at its error event bus.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = callback
}

// Flush blocks until buffered points are written. Tests and shutdown
// paths use it to observe writes without waiting out the flush
// interval. No-op once closed.
func (c *Client) Flush() {
	if c.writeAPI == nil {
		return
	}
	if !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
