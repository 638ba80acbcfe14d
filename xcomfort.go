package xcomfort

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kevinsch95/xcomfort-shc-api/internal/control"
	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
	"github.com/kevinsch95/xcomfort-shc-api/internal/events"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/config"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/database"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/influxdb"
	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/logging"
	"github.com/kevinsch95/xcomfort-shc-api/internal/rpc"
	"github.com/kevinsch95/xcomfort-shc-api/internal/session"
	"github.com/kevinsch95/xcomfort-shc-api/internal/setup"
)

// Default values applied by New when an option is zero.
const (
	// defaultHTTPTimeout bounds every HTTP request when no custom
	// client is supplied.
	defaultHTTPTimeout = 15 * time.Second

	// defaultCacheBusyTimeout is the SQLite busy timeout for the name
	// cache, in seconds.
	defaultCacheBusyTimeout = 5
)

// InfluxOptions configures the optional call telemetry sink.
type InfluxOptions = config.InfluxDBConfig

// CacheOptions configures the optional SQLite name cache. An empty
// Path disables it.
type CacheOptions = config.CacheConfig

// Setup populates the directory during construction. The default
// implementation discovers over the gateway's listing RPCs and imports
// YAML exports from disk; tests inject their own to count invocations.
type Setup = setup.Setup

// Options configures a Client.
//
// BaseURL, Username and Password are required; everything else has a
// usable zero value.
type Options struct {
	// BaseURL is the root of the gateway, e.g. "http://192.168.1.10".
	BaseURL string

	// Username and Password are the remote account on the gateway.
	Username string
	Password string

	// RemoteKey is the additional access key some gateways require.
	RemoteKey string

	// AutoSetup discovers zones, devices and scenes from the gateway
	// during New, under the names configured on it.
	AutoSetup bool

	// ImportSetupPath points at a YAML setup export to load instead of
	// discovering. When set, AutoSetup is ignored.
	ImportSetupPath string

	// Cache enables the SQLite name cache when its Path is set. The
	// directory is saved there after a setup run and loaded from there
	// when no setup ran.
	Cache CacheOptions

	// HTTPClient overrides the HTTP client used for every request.
	// Leave nil to get a client bounded by HTTPTimeout.
	HTTPClient *http.Client

	// HTTPTimeout bounds requests of the derived client when
	// HTTPClient is nil. Zero means 15 seconds.
	HTTPTimeout time.Duration

	// Logger receives structured logs from every component. Leave nil
	// to discard them.
	Logger *logging.Logger

	// Influx enables call telemetry when its Enabled field is true.
	Influx InfluxOptions

	// Setup overrides the construction-time directory population.
	// Leave nil for the standard discovery/import runner.
	Setup Setup
}

// Client is a remote client for an Eaton xComfort Smart Home
// Controller.
//
// It holds one logical gateway session, a directory mapping friendly
// names to gateway addresses, and the command surface built on both.
// All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	instanceID string
	logger     *logging.Logger

	bus       *events.Bus
	session   *session.Manager
	rpc       *rpc.Client
	dir       *directory.Registry
	control   *control.Controller
	telemetry *influxdb.Client
	db        *database.DB
	store     *directory.Store
}

// New creates a Client for the gateway at opts.BaseURL.
//
// Construction validates the required options, wires the session and
// dispatch layers, and then populates the directory exactly once:
// from the import file when ImportSetupPath is set, by discovery when
// AutoSetup is set, from the cache when neither is and Cache.Path is.
//
// Parameters:
//   - ctx: Context bounding construction-time network and disk work
//   - opts: Client configuration
//
// Returns:
//   - *Client: Ready client; callers should Close it when done
//   - error: If options are invalid or a setup run fails
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if opts.Username == "" {
		return nil, ErrNoUsername
	}
	if opts.Password == "" {
		return nil, ErrNoPassword
	}

	instanceID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("instance", instanceID)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	bus := events.NewBus()

	sess := session.NewManager(session.Credentials{
		BaseURL:   opts.BaseURL,
		Username:  opts.Username,
		Password:  opts.Password,
		RemoteKey: opts.RemoteKey,
	}, httpClient)
	sess.SetLogger(logger)

	dispatcher := rpc.NewClient(opts.BaseURL, httpClient, sess)
	dispatcher.SetLogger(logger)
	dispatcher.SetEventSink(bus)

	dir := directory.NewRegistry()
	dir.SetLogger(logger)

	ctrl := control.New(dispatcher, dir)
	ctrl.SetLogger(logger)

	c := &Client{
		instanceID: instanceID,
		logger:     logger,
		bus:        bus,
		session:    sess,
		rpc:        dispatcher,
		dir:        dir,
		control:    ctrl,
	}

	if opts.Influx.Enabled {
		telemetry, err := influxdb.Connect(opts.Influx, instanceID)
		if err != nil {
			return nil, fmt.Errorf("connecting telemetry: %w", err)
		}
		telemetry.SetOnError(func(err error) {
			bus.PublishError(err)
		})
		dispatcher.SetRecorder(telemetry)
		sess.SetRecorder(telemetry)
		c.telemetry = telemetry
	}

	if opts.Cache.Path != "" {
		if err := c.openCache(ctx, opts.Cache); err != nil {
			c.closeQuietly()
			return nil, err
		}
	}

	if err := c.populate(ctx, opts); err != nil {
		c.closeQuietly()
		return nil, err
	}

	return c, nil
}

// openCache connects the SQLite name cache and prepares its schema.
func (c *Client) openCache(ctx context.Context, opts CacheOptions) error {
	busyTimeout := opts.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = defaultCacheBusyTimeout
	}
	db, err := database.Open(database.Config{
		Path:        opts.Path,
		WALMode:     opts.WALMode,
		BusyTimeout: busyTimeout,
	})
	if err != nil {
		return err
	}

	store := directory.NewStore(db)
	if err := store.Init(ctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return fmt.Errorf("preparing name cache: %w", err)
	}

	c.db = db
	c.store = store
	return nil
}

// populate fills the directory exactly once: import wins over
// discovery, and the cache only loads when neither ran.
func (c *Client) populate(ctx context.Context, opts Options) error {
	runner := opts.Setup
	if runner == nil {
		r := setup.NewRunner()
		r.SetLogger(c.logger)
		runner = r
	}

	start := time.Now()
	source := ""
	switch {
	case opts.ImportSetupPath != "":
		if err := runner.ImportSetup(ctx, opts.ImportSetupPath, c); err != nil {
			return err
		}
		source = "import"
	case opts.AutoSetup:
		if err := runner.InitialSetup(ctx, c); err != nil {
			return err
		}
		source = "discovery"
	}

	switch {
	case source != "" && c.store != nil:
		devices, scenes := c.dir.Snapshot()
		if err := c.store.Save(ctx, devices, scenes); err != nil {
			c.logger.Warn("persisting name cache failed", "error", err)
		}
	case source == "" && c.store != nil:
		source = c.loadCache(ctx)
	}

	if source != "" && c.telemetry != nil {
		c.telemetry.WriteSetupMetric(source, c.dir.DeviceCount(), c.dir.SceneCount(), time.Since(start))
	}
	return nil
}

// loadCache warms the directory from the cache store. It returns
// "cache" when entries were applied and "" otherwise; cache problems
// degrade to an empty directory rather than failing construction.
func (c *Client) loadCache(ctx context.Context) string {
	devices, scenes, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("loading name cache failed", "error", err)
		return ""
	}
	if len(devices) == 0 && len(scenes) == 0 {
		return ""
	}
	if err := c.dir.Replace(devices, scenes); err != nil {
		c.logger.Warn("applying cached names failed", "error", err)
		return ""
	}
	return "cache"
}

// Login performs the gateway handshake and stores the session token.
//
// Calling it up front is optional: the dispatcher logs in on demand
// before the first RPC and again whenever the gateway expires the
// session.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: ErrWrongCredentials, ErrLoginFailed, or a transport error
func (c *Client) Login(ctx context.Context) error {
	_, err := c.session.Login(ctx)
	return err
}

// Call invokes a raw gateway method and waits for its result.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - method: Gateway method, "Interface/method"
//   - params: Positional parameters; nil sends an empty array
//
// Returns:
//   - json.RawMessage: The raw result on success
//   - error: Gateway error object, contract error, or transport error
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	return c.rpc.Call(ctx, method, params)
}

// Go invokes a raw gateway method asynchronously. It returns the
// in-flight Call immediately; completion is signalled on Done.
//
// A nil done allocates a buffered channel; a caller-supplied done must
// have capacity or Go panics.
func (c *Client) Go(ctx context.Context, method string, params []any, done chan *Call) *Call {
	return c.rpc.Go(ctx, method, params, done)
}

// SetDimState switches or dims the named device and waits for the
// gateway's acknowledgement.
//
// state must be exactly "on", exactly "off", or an integer within
// 0-100. The result is true iff the gateway acknowledged with status
// "ok"; a refusal is a false result, not an error.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - name: Friendly device name as registered in the directory
//   - state: "on", "off", or an integer 0-100
//
// Returns:
//   - bool: Whether the gateway acknowledged the command
//   - error: ErrNoSuchDevice, ErrInvalidDimState, or a dispatch error
func (c *Client) SetDimState(ctx context.Context, name string, state any) (bool, error) {
	return c.control.SetDimState(ctx, name, state)
}

// GoSetDimState is the asynchronous form of SetDimState.
func (c *Client) GoSetDimState(ctx context.Context, name string, state any, done chan *Result) *Result {
	return c.control.GoSetDimState(ctx, name, state, done)
}

// TriggerScene activates the named scene and waits for the gateway's
// acknowledgement.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - name: Friendly scene name as registered in the directory
//
// Returns:
//   - bool: Whether the gateway acknowledged the command
//   - error: ErrNoSuchScene or a dispatch error
func (c *Client) TriggerScene(ctx context.Context, name string) (bool, error) {
	return c.control.TriggerScene(ctx, name)
}

// GoTriggerScene is the asynchronous form of TriggerScene.
func (c *Client) GoTriggerScene(ctx context.Context, name string, done chan *Result) *Result {
	return c.control.GoTriggerScene(ctx, name, done)
}

// DeviceNames lists every registered device name in insertion order.
func (c *Client) DeviceNames() []string {
	return c.dir.DeviceNames()
}

// SceneNames lists every registered scene name in insertion order.
func (c *Client) SceneNames() []string {
	return c.dir.SceneNames()
}

// NameObject returns both listings at once. The slices are never nil,
// so an empty directory marshals to {"devices":[],"scenes":[]}.
func (c *Client) NameObject() NameObject {
	return c.dir.NameObject()
}

// Directory exposes the name registry, for registering entries by hand
// or snapshotting its contents.
func (c *Client) Directory() *Directory {
	return c.dir
}

// OnError subscribes fn to every error the client surfaces, in
// addition to the failing caller getting it back directly. The
// returned cancel removes the subscription.
func (c *Client) OnError(fn func(error)) (cancel func()) {
	return c.bus.SubscribeErrors(fn)
}

// InstanceID returns the identifier tagged onto this client's logs
// and telemetry.
func (c *Client) InstanceID() string {
	return c.instanceID
}

// SaveCache persists the current directory to the name cache. It is a
// no-op without a configured cache.
//
// New already persists after a setup run; call this after registering
// entries by hand.
func (c *Client) SaveCache(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	devices, scenes := c.dir.Snapshot()
	return c.store.Save(ctx, devices, scenes)
}

// CacheHealth runs a test query against the name cache. A client
// constructed without a cache reports ErrNoCache rather than
// succeeding vacuously.
func (c *Client) CacheHealth(ctx context.Context) error {
	if c.db == nil {
		return ErrNoCache
	}
	return c.db.HealthCheck(ctx)
}

// Close releases the client's local resources: it flushes telemetry
// and closes the name cache. The gateway session is left to expire on
// its own; the protocol has no logout.
func (c *Client) Close() error {
	if c.telemetry != nil {
		c.telemetry.Close() //nolint:errcheck // Best effort flush on shutdown
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// closeQuietly releases resources on construction error paths.
func (c *Client) closeQuietly() {
	if err := c.Close(); err != nil {
		c.logger.Warn("cleanup after failed construction", "error", err)
	}
}
