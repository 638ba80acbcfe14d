package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Gateway endpoint and form fields for the remote login handshake.
// The SHC authenticates remote clients with the same form its web UI
// posts, so the field names follow the gateway, not this client.
const (
	loginPath    = "/system/http/login"
	loginReferer = "/bcgui/index.html"

	fieldRemoteKey = "rakey"
	fieldUsername  = "remotable_user"
	fieldPassword  = "upassword"
	fieldReferer   = "referer"
)

// sessionCookiePattern matches the session cookie across gateway
// firmware variants: JSESSIONID, jsessionid, SESSIONID.
var sessionCookiePattern = regexp.MustCompile(`(?i)^j?sessionid$`)

// Logger defines the logging interface used by the Manager.
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

// Recorder observes completed login handshakes for telemetry.
type Recorder interface {
	WriteLoginMetric(outcome string, elapsed time.Duration)
}

// noopRecorder drops measurements.
type noopRecorder struct{}

func (noopRecorder) WriteLoginMetric(string, time.Duration) {}

// Credentials identifies the Smart Home Controller and the remote
// account used on it. RemoteKey may be empty for gateways that only
// check username and password.
type Credentials struct {
	BaseURL   string
	Username  string
	Password  string
	RemoteKey string
}

// Manager owns the login handshake and the current session token.
//
// The token is an opaque cookie value minted by the gateway; the
// Manager never inspects it beyond extraction. Concurrent Login calls
// are collapsed into a single in-flight handshake so a burst of
// commands after session expiry produces one login, not a stampede.
//
// All public methods are thread-safe.
type Manager struct {
	creds    Credentials
	client   *http.Client
	logger   Logger
	recorder Recorder

	group singleflight.Group

	mu    sync.RWMutex
	token string
}

// NewManager creates a session manager for the given account.
// A nil client falls back to http.DefaultClient.
func NewManager(creds Credentials, client *http.Client) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	return &Manager{
		creds:    creds,
		client:   client,
		logger:   noopLogger{},
		recorder: noopRecorder{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// SetRecorder routes handshake telemetry to rec.
func (m *Manager) SetRecorder(rec Recorder) {
	if rec == nil {
		rec = noopRecorder{}
	}
	m.recorder = rec
}

// Token returns the current session token, or the empty string before
// the first successful login.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Login performs the form handshake against the gateway and stores the
// session token for subsequent requests.
//
// Failure modes:
//   - HTTP 403: ErrWrongCredentials
//   - any other non-200 status: ErrLoginFailed
//   - 200 without a session cookie: ErrNoSessionCookie
//   - transport problems: wrapped underlying error
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - string: The session token now in effect
//   - error: One of the failure modes above
func (m *Manager) Login(ctx context.Context) (string, error) {
	v, err, _ := m.group.Do("login", func() (any, error) {
		return m.login(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// login runs one handshake. Only ever invoked through the singleflight
// group, so at most one copy runs at a time.
func (m *Manager) login(ctx context.Context) (token string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.recorder.WriteLoginMetric(outcome, time.Since(start))
	}()

	form := url.Values{
		fieldRemoteKey: {m.creds.RemoteKey},
		fieldUsername:  {m.creds.Username},
		fieldPassword:  {m.creds.Password},
		fieldReferer:   {loginReferer},
	}

	endpoint := strings.TrimRight(m.creds.BaseURL, "/") + loginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("session: building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session: posting login form: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body, best effort

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain only

	switch {
	case resp.StatusCode == http.StatusForbidden:
		m.logger.Warn("login rejected", "status", resp.StatusCode)
		return "", ErrWrongCredentials
	case resp.StatusCode != http.StatusOK:
		m.logger.Warn("login failed", "status", resp.StatusCode)
		return "", ErrLoginFailed
	}

	for _, c := range resp.Cookies() {
		if sessionCookiePattern.MatchString(c.Name) {
			token = c.Value
			break
		}
	}
	if token == "" {
		return "", ErrNoSessionCookie
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	m.logger.Debug("session established", "token_len", len(token))
	return token, nil
}
