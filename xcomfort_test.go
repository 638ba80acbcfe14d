package xcomfort_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	xcomfort "github.com/kevinsch95/xcomfort-shc-api"
	"github.com/kevinsch95/xcomfort-shc-api/internal/setup"
	"github.com/kevinsch95/xcomfort-shc-api/internal/shctest"
)

// newGateway starts a scripted gateway with one zone holding one
// dimmable light and one scene.
func newGateway(t *testing.T) (*shctest.Gateway, *httptest.Server) {
	t.Helper()

	gw := shctest.New(shctest.Options{Username: "remote", Password: "secret"})
	gw.HandleResult("StatusControlFunction/getZones",
		[]map[string]string{{"zoneId": "hz_1", "name": "Living Room"}})
	gw.HandleResult("StatusControlFunction/getDevices",
		[]map[string]string{{"id": "xCo:1.1", "name": "Ceiling Light", "type": "DimActuator"}})
	gw.HandleResult("SceneFunction/getScenes",
		[]map[string]string{{"id": "42", "name": "Movie Night"}})
	gw.HandleResult("StatusControlFunction/controlDevice",
		map[string]string{"status": "ok"})
	gw.HandleResult("SceneFunction/triggerScene",
		map[string]string{"status": "ok"})

	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)
	return gw, srv
}

// newClient constructs a client against srv with discovery enabled.
func newClient(t *testing.T, srv *httptest.Server) *xcomfort.Client {
	t.Helper()

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:   srv.URL,
		Username:  "remote",
		Password:  "secret",
		AutoSetup: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// fakeSetup counts collaborator invocations.
type fakeSetup struct {
	mu           sync.Mutex
	initialCalls int
	importCalls  int
	importPath   string
}

func (f *fakeSetup) InitialSetup(_ context.Context, _ setup.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialCalls++
	return nil
}

func (f *fakeSetup) ImportSetup(_ context.Context, path string, _ setup.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importCalls++
	f.importPath = path
	return nil
}

func TestNew_ValidatesOptionsInOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    xcomfort.Options
		want    error
		message string
	}{
		{
			name:    "missing everything reports baseUrl first",
			opts:    xcomfort.Options{},
			want:    xcomfort.ErrNoBaseURL,
			message: "No baseUrl supplied",
		},
		{
			name:    "missing username",
			opts:    xcomfort.Options{BaseURL: "http://gw"},
			want:    xcomfort.ErrNoUsername,
			message: "No username supplied",
		},
		{
			name:    "missing password",
			opts:    xcomfort.Options{BaseURL: "http://gw", Username: "remote"},
			want:    xcomfort.ErrNoPassword,
			message: "No password supplied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := xcomfort.New(ctx, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
			if err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestNew_AutoSetupPopulatesDirectory(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)

	if got := client.DeviceNames(); !reflect.DeepEqual(got, []string{"Ceiling Light"}) {
		t.Errorf("DeviceNames() = %v", got)
	}
	if got := client.SceneNames(); !reflect.DeepEqual(got, []string{"Movie Night"}) {
		t.Errorf("SceneNames() = %v", got)
	}
	if gw.Logins() != 1 {
		t.Errorf("Logins() = %d, want 1 (discovery shares one session)", gw.Logins())
	}
}

func TestNew_AutoSetupFailure(t *testing.T) {
	gw, srv := newGateway(t)
	gw.HandleError("StatusControlFunction/getZones", "internal failure", -32000)

	_, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:   srv.URL,
		Username:  "remote",
		Password:  "secret",
		AutoSetup: true,
	})
	if err == nil {
		t.Fatal("New() expected error when discovery fails")
	}
}

func TestNew_ImportWinsOverAutoSetup(t *testing.T) {
	_, srv := newGateway(t)
	collab := &fakeSetup{}

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:         srv.URL,
		Username:        "remote",
		Password:        "secret",
		AutoSetup:       true,
		ImportSetupPath: "/tmp/export.yaml",
		Setup:           collab,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if collab.importCalls != 1 {
		t.Errorf("importCalls = %d, want 1", collab.importCalls)
	}
	if collab.initialCalls != 0 {
		t.Errorf("initialCalls = %d, want 0 when an import path is set", collab.initialCalls)
	}
	if collab.importPath != "/tmp/export.yaml" {
		t.Errorf("importPath = %q", collab.importPath)
	}
}

func TestNew_AutoSetupRunsExactlyOnce(t *testing.T) {
	_, srv := newGateway(t)
	collab := &fakeSetup{}

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:   srv.URL,
		Username:  "remote",
		Password:  "secret",
		AutoSetup: true,
		Setup:     collab,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if collab.initialCalls != 1 {
		t.Errorf("initialCalls = %d, want 1", collab.initialCalls)
	}
	if collab.importCalls != 0 {
		t.Errorf("importCalls = %d, want 0", collab.importCalls)
	}
}

func TestNew_NoSetupLeavesDirectoryEmpty(t *testing.T) {
	gw, srv := newGateway(t)

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:  srv.URL,
		Username: "remote",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if n := len(client.DeviceNames()); n != 0 {
		t.Errorf("DeviceNames() len = %d, want 0", n)
	}
	if len(gw.Requests()) != 0 {
		t.Errorf("gateway saw %d requests, want none", len(gw.Requests()))
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	_, srv := newGateway(t)

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:  srv.URL,
		Username: "remote",
		Password: "wrong",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	err = client.Login(context.Background())
	if !errors.Is(err, xcomfort.ErrWrongCredentials) {
		t.Fatalf("Login() error = %v, want ErrWrongCredentials", err)
	}
	if err.Error() != "Wrong username or password" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCall_ReloginOn401(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)

	gw.InvalidateSessions()

	raw, err := client.Call(context.Background(), "StatusControlFunction/getZones", nil)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	var zones []map[string]string
	if err := json.Unmarshal(raw, &zones); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(zones) != 1 || zones[0]["zoneId"] != "hz_1" {
		t.Errorf("zones = %v", zones)
	}

	// One login for discovery, one forced by the invalidation
	if gw.Logins() != 2 {
		t.Errorf("Logins() = %d, want 2", gw.Logins())
	}
}

func TestCall_UnsupportedMethod(t *testing.T) {
	_, srv := newGateway(t)
	client := newClient(t, srv)

	_, err := client.Call(context.Background(), "NoSuchFunction/nothing", nil)
	if !errors.Is(err, xcomfort.ErrUnsupportedMethod) {
		t.Fatalf("Call() error = %v, want ErrUnsupportedMethod", err)
	}
	if err.Error() != "Unsupported method called" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCall_GatewayErrorObject(t *testing.T) {
	gw, srv := newGateway(t)
	gw.HandleError("DiagFunction/boom", "device unreachable", -32000)
	client := newClient(t, srv)

	_, err := client.Call(context.Background(), "DiagFunction/boom", nil)
	if err == nil {
		t.Fatal("Call() expected error")
	}

	var rpcErr *xcomfort.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error %T does not unwrap to *Error", err)
	}
	if rpcErr.Message != "device unreachable" || rpcErr.Code != -32000 {
		t.Errorf("rpcErr = %+v", rpcErr)
	}
}

func TestGo_FutureCompletes(t *testing.T) {
	_, srv := newGateway(t)
	client := newClient(t, srv)

	call := client.Go(context.Background(), "StatusControlFunction/getZones", nil, nil)

	select {
	case <-call.Done:
	case <-time.After(5 * time.Second):
		t.Fatal("future never completed")
	}
	if call.Error != nil {
		t.Fatalf("call.Error = %v", call.Error)
	}
	if len(call.Result) == 0 {
		t.Error("call.Result is empty")
	}
}

func TestSetDimState_EndToEnd(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)

	ok, err := client.SetDimState(context.Background(), "Ceiling Light", 75)
	if err != nil {
		t.Fatalf("SetDimState() error = %v", err)
	}
	if !ok {
		t.Error("SetDimState() = false, want acknowledgement")
	}

	reqs := gw.Requests()
	last := reqs[len(reqs)-1]
	if last.Method != "StatusControlFunction/controlDevice" {
		t.Fatalf("method = %q", last.Method)
	}
	want := []any{"hz_1", "xCo:1.1", float64(75)}
	if !reflect.DeepEqual(last.Params, want) {
		t.Errorf("params = %v, want %v", last.Params, want)
	}
}

func TestSetDimState_OnTravelsAsString(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)

	if _, err := client.SetDimState(context.Background(), "Ceiling Light", "on"); err != nil {
		t.Fatalf("SetDimState() error = %v", err)
	}

	reqs := gw.Requests()
	last := reqs[len(reqs)-1]
	if got := last.Params[2]; got != "on" {
		t.Errorf("state param = %v (%T), want \"on\"", got, got)
	}
}

func TestSetDimState_UnknownDevice(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)
	before := len(gw.Requests())

	_, err := client.SetDimState(context.Background(), "Basement Light", 10)
	if !errors.Is(err, xcomfort.ErrNoSuchDevice) {
		t.Fatalf("SetDimState() error = %v, want ErrNoSuchDevice", err)
	}
	if err.Error() != "No such device" {
		t.Errorf("message = %q", err.Error())
	}
	if len(gw.Requests()) != before {
		t.Error("unknown device still reached the gateway")
	}
}

func TestSetDimState_InvalidValue(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)
	before := len(gw.Requests())

	_, err := client.SetDimState(context.Background(), "Ceiling Light", "75")
	if !errors.Is(err, xcomfort.ErrInvalidDimState) {
		t.Fatalf("SetDimState() error = %v, want ErrInvalidDimState", err)
	}
	if err.Error() != "State value not valid (on/off or 0-100 integer)" {
		t.Errorf("message = %q", err.Error())
	}
	if len(gw.Requests()) != before {
		t.Error("invalid value still reached the gateway")
	}
}

func TestSetDimState_NegativeAck(t *testing.T) {
	gw, srv := newGateway(t)
	gw.HandleResult("StatusControlFunction/controlDevice", map[string]string{"status": "busy"})
	client := newClient(t, srv)

	ok, err := client.SetDimState(context.Background(), "Ceiling Light", "off")
	if err != nil {
		t.Fatalf("SetDimState() error = %v", err)
	}
	if ok {
		t.Error("SetDimState() = true for a non-ok status")
	}
}

func TestTriggerScene_EndToEnd(t *testing.T) {
	gw, srv := newGateway(t)
	client := newClient(t, srv)

	ok, err := client.TriggerScene(context.Background(), "Movie Night")
	if err != nil {
		t.Fatalf("TriggerScene() error = %v", err)
	}
	if !ok {
		t.Error("TriggerScene() = false, want acknowledgement")
	}

	reqs := gw.Requests()
	last := reqs[len(reqs)-1]
	if last.Method != "SceneFunction/triggerScene" {
		t.Fatalf("method = %q", last.Method)
	}
	want := []any{"hz_1", "42"}
	if !reflect.DeepEqual(last.Params, want) {
		t.Errorf("params = %v, want %v", last.Params, want)
	}
}

func TestTriggerScene_UnknownScene(t *testing.T) {
	_, srv := newGateway(t)
	client := newClient(t, srv)

	_, err := client.TriggerScene(context.Background(), "Disco")
	if !errors.Is(err, xcomfort.ErrNoSuchScene) {
		t.Fatalf("TriggerScene() error = %v, want ErrNoSuchScene", err)
	}
	if err.Error() != "No scene with that name exists" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGoSetDimState_FutureCompletes(t *testing.T) {
	_, srv := newGateway(t)
	client := newClient(t, srv)

	res := client.GoSetDimState(context.Background(), "Ceiling Light", 30, nil)

	select {
	case <-res.Done:
	case <-time.After(5 * time.Second):
		t.Fatal("future never completed")
	}
	if res.Error != nil {
		t.Fatalf("res.Error = %v", res.Error)
	}
	if !res.OK {
		t.Error("res.OK = false")
	}
}

func TestOnError_PublishesSurfacedErrors(t *testing.T) {
	_, srv := newGateway(t)
	client := newClient(t, srv)

	var mu sync.Mutex
	var seen []error
	cancel := client.OnError(func(err error) {
		mu.Lock()
		seen = append(seen, err)
		mu.Unlock()
	})

	_, err := client.Call(context.Background(), "NoSuchFunction/nothing", nil)
	if err == nil {
		t.Fatal("Call() expected error")
	}

	mu.Lock()
	got := len(seen)
	mu.Unlock()
	if got != 1 {
		t.Fatalf("subscriber saw %d errors, want 1", got)
	}
	mu.Lock()
	if !errors.Is(seen[0], xcomfort.ErrUnsupportedMethod) {
		t.Errorf("seen = %v", seen[0])
	}
	mu.Unlock()

	// After cancel the subscriber is silent
	cancel()
	_, _ = client.Call(context.Background(), "NoSuchFunction/nothing", nil) //nolint:errcheck // failure is the point

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 {
		t.Errorf("subscriber saw %d errors after cancel, want still 1", len(seen))
	}
}

func TestNameObject_EmptyMarshalsToEmptyArrays(t *testing.T) {
	_, srv := newGateway(t)

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:  srv.URL,
		Username: "remote",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	data, err := json.Marshal(client.NameObject())
	if err != nil {
		t.Fatalf("marshalling: %v", err)
	}
	if string(data) != `{"devices":[],"scenes":[]}` {
		t.Errorf("marshalled = %s", data)
	}
}

func TestNew_ImportSetupFromFile(t *testing.T) {
	_, srv := newGateway(t)

	content := `
zones:
  - zoneId: hz_9
    name: Attic
    devices:
      - id: "xCo:9.1"
        name: Attic Light
        type: SwitchActuator
`
	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing export: %v", err)
	}

	client, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:         srv.URL,
		Username:        "remote",
		Password:        "secret",
		ImportSetupPath: path,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if got := client.DeviceNames(); !reflect.DeepEqual(got, []string{"Attic Light"}) {
		t.Errorf("DeviceNames() = %v", got)
	}
}

func TestNew_CacheRoundTrip(t *testing.T) {
	gw, srv := newGateway(t)
	cachePath := filepath.Join(t.TempDir(), "names.db")

	first, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:   srv.URL,
		Username:  "remote",
		Password:  "secret",
		AutoSetup: true,
		Cache:     xcomfort.CacheOptions{Path: cachePath, WALMode: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	requestsAfterDiscovery := len(gw.Requests())

	second, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:  srv.URL,
		Username: "remote",
		Password: "secret",
		Cache:    xcomfort.CacheOptions{Path: cachePath, WALMode: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer second.Close() //nolint:errcheck // Test cleanup

	if got := second.DeviceNames(); !reflect.DeepEqual(got, []string{"Ceiling Light"}) {
		t.Errorf("DeviceNames() from cache = %v", got)
	}
	if got := second.SceneNames(); !reflect.DeepEqual(got, []string{"Movie Night"}) {
		t.Errorf("SceneNames() from cache = %v", got)
	}
	if len(gw.Requests()) != requestsAfterDiscovery {
		t.Error("cache-backed construction still contacted the gateway")
	}

	// The cached entries resolve to working commands
	ok, err := second.SetDimState(context.Background(), "Ceiling Light", "on")
	if err != nil || !ok {
		t.Errorf("SetDimState() = %v, %v", ok, err)
	}
}

func TestCacheHealth(t *testing.T) {
	_, srv := newGateway(t)

	bare := newClient(t, srv)
	if err := bare.CacheHealth(context.Background()); !errors.Is(err, xcomfort.ErrNoCache) {
		t.Errorf("CacheHealth() without cache = %v, want ErrNoCache", err)
	}

	cached, err := xcomfort.New(context.Background(), xcomfort.Options{
		BaseURL:   srv.URL,
		Username:  "remote",
		Password:  "secret",
		AutoSetup: true,
		Cache:     xcomfort.CacheOptions{Path: filepath.Join(t.TempDir(), "names.db"), WALMode: true},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cached.Close() //nolint:errcheck // Test cleanup

	if err := cached.CacheHealth(context.Background()); err != nil {
		t.Errorf("CacheHealth() with cache = %v, want nil", err)
	}
}

func TestInstanceID_Unique(t *testing.T) {
	_, srv := newGateway(t)

	a := newClient(t, srv)
	b := newClient(t, srv)

	if a.InstanceID() == "" || a.InstanceID() == b.InstanceID() {
		t.Errorf("instance ids = %q, %q", a.InstanceID(), b.InstanceID())
	}
}
