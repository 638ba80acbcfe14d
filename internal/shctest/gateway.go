package shctest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// sessionCookie is the cookie name the gateway issues and expects.
const sessionCookie = "JSESSIONID"

// Options configures the credentials the fake gateway accepts.
type Options struct {
	// Username and Password are matched against the login form's
	// remotable_user and upassword fields.
	Username string
	Password string

	// RemoteKey, when set, is matched against the rakey field.
	// Empty accepts any rakey value, including none.
	RemoteKey string
}

// Request is one recorded JSON-RPC call.
type Request struct {
	Method     string
	Params     []any
	Authorized bool
}

// RPCError is an error object a scripted handler can return.
type RPCError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HandlerFunc produces the result or error for one scripted method.
type HandlerFunc func(params []any) (any, *RPCError)

// Gateway is an in-memory stand-in for the Smart Home Controller's
// remote interface. It speaks the same two endpoints the real gateway
// does: the form login and the JSON-RPC dispatch.
//
// Methods respond per their scripted handlers; unscripted methods get
// the gateway's stock "unsupported method called" result. Sessions are
// issued on login and checked on every RPC, and can be invalidated to
// drive the relogin path.
type Gateway struct {
	opts   Options
	router chi.Router

	mu          sync.Mutex
	handlers    map[string]HandlerFunc
	sessions    map[string]bool
	requests    []Request
	logins      int
	loginStatus int // non-zero forces this status on login
}

// New creates a fake gateway accepting the given credentials.
func New(opts Options) *Gateway {
	g := &Gateway{
		opts:     opts,
		handlers: make(map[string]HandlerFunc),
		sessions: make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Post("/system/http/login", g.handleLogin)
	r.Post("/remote/json-rpc", g.handleRPC)
	g.router = r

	return g
}

// ServeHTTP dispatches to the gateway's routes, so a Gateway can be
// handed straight to httptest.NewServer.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// Handle scripts fn as the responder for method.
func (g *Gateway) Handle(method string, fn HandlerFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[method] = fn
}

// HandleResult scripts a fixed result for method.
func (g *Gateway) HandleResult(method string, result any) {
	g.Handle(method, func([]any) (any, *RPCError) {
		return result, nil
	})
}

// HandleError scripts a fixed error object for method.
func (g *Gateway) HandleError(method string, message string, code int) {
	g.Handle(method, func([]any) (any, *RPCError) {
		return nil, &RPCError{Message: message, Code: code}
	})
}

// Requests returns a copy of every RPC call received so far, in order.
func (g *Gateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Request, len(g.requests))
	copy(out, g.requests)
	return out
}

// Logins returns how many successful logins the gateway has issued.
func (g *Gateway) Logins() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.logins
}

// InvalidateSessions revokes every issued session. The next RPC on an
// old cookie gets a 401, forcing the client through relogin.
func (g *Gateway) InvalidateSessions() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions = make(map[string]bool)
}

// SetLoginStatus forces every subsequent login to fail with status.
// Passing 0 restores normal credential checking.
func (g *Gateway) SetLoginStatus(status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loginStatus = status
}

// handleLogin implements the form login endpoint.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	forced := g.loginStatus
	g.mu.Unlock()
	if forced != 0 {
		w.WriteHeader(forced)
		return
	}

	user := r.PostFormValue("remotable_user")
	pass := r.PostFormValue("upassword")
	key := r.PostFormValue("rakey")

	if user != g.opts.Username || pass != g.opts.Password {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if g.opts.RemoteKey != "" && key != g.opts.RemoteKey {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	token := newToken()
	g.mu.Lock()
	g.sessions[token] = true
	g.logins++
	g.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookie,
		Value: token,
		Path:  "/",
	})
	w.WriteHeader(http.StatusOK)
}

// rpcRequest mirrors the JSON-RPC envelope the client sends.
type rpcRequest struct {
	Method  string          `json:"method"`
	Params  []any           `json:"params"`
	ID      json.RawMessage `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
}

// handleRPC implements the JSON-RPC dispatch endpoint.
func (g *Gateway) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	authorized := g.authorized(r)
	g.mu.Lock()
	g.requests = append(g.requests, Request{
		Method:     req.Method,
		Params:     req.Params,
		Authorized: authorized,
	})
	handler, scripted := g.handlers[req.Method]
	g.mu.Unlock()

	if !authorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if !scripted {
		writeResult(w, req.ID, "unsupported method called")
		return
	}

	result, rpcErr := handler(req.Params)
	if rpcErr != nil {
		writeError(w, req.ID, rpcErr)
		return
	}
	writeResult(w, req.ID, result)
}

// authorized reports whether the request carries a live session cookie.
func (g *Gateway) authorized(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessions[cookie.Value]
}

// writeResult writes a JSON-RPC result envelope.
func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	writeJSON(w, map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

// writeError writes a JSON-RPC error envelope.
func writeError(w http.ResponseWriter, id json.RawMessage, rpcErr *RPCError) {
	writeJSON(w, map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcErr,
	})
}

// writeJSON writes v with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	json.NewEncoder(w).Encode(v)
}

// newToken generates a random session token.
func newToken() string {
	b := make([]byte, 16)
	//nolint:errcheck // crypto/rand.Read never fails on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}
