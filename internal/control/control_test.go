package control

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
)

// fakeDispatcher records calls and plays back scripted results.
type fakeDispatcher struct {
	mu      sync.Mutex
	methods []string
	params  [][]any
	result  json.RawMessage
	err     error
}

func (f *fakeDispatcher) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods = append(f.methods, method)
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeDispatcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.methods)
}

func (f *fakeDispatcher) lastCall() (string, []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.methods) == 0 {
		return "", nil
	}
	return f.methods[len(f.methods)-1], f.params[len(f.params)-1]
}

func testDirectory(t *testing.T) *directory.Registry {
	t.Helper()
	r := directory.NewRegistry()
	if err := r.AddDevice("Kitchen Light", directory.DeviceEntry{ZoneID: "hz_1", ID: "xCo:1.2", Type: "DimActuator"}); err != nil {
		t.Fatalf("AddDevice() error = %v", err)
	}
	if err := r.AddScene("Movie Night", directory.SceneEntry{ZoneID: "hz_2", ID: "7"}); err != nil {
		t.Fatalf("AddScene() error = %v", err)
	}
	return r
}

func TestSetDimState_DispatchesControlDevice(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	ok, err := c.SetDimState(context.Background(), "Kitchen Light", "on")
	if err != nil {
		t.Fatalf("SetDimState() error = %v", err)
	}
	if !ok {
		t.Error("SetDimState() = false, want true for status ok")
	}

	method, params := disp.lastCall()
	if method != "StatusControlFunction/controlDevice" {
		t.Errorf("method = %q", method)
	}
	want := []any{"hz_1", "xCo:1.2", "on"}
	if len(params) != 3 || params[0] != want[0] || params[1] != want[1] || params[2] != want[2] {
		t.Errorf("params = %v, want %v", params, want)
	}
}

func TestSetDimState_IntegerValueTravelsAsGiven(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	if _, err := c.SetDimState(context.Background(), "Kitchen Light", 42); err != nil {
		t.Fatalf("SetDimState() error = %v", err)
	}

	_, params := disp.lastCall()
	if params[2] != 42 {
		t.Errorf("params[2] = %v (%T), want 42 as given", params[2], params[2])
	}
}

func TestSetDimState_UnknownDeviceNeverDispatches(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	_, err := c.SetDimState(context.Background(), "Basement Light", "on")
	if !errors.Is(err, ErrNoSuchDevice) {
		t.Errorf("error = %v, want ErrNoSuchDevice", err)
	}
	if err.Error() != "No such device" {
		t.Errorf("message = %q, want exact phrasing", err.Error())
	}
	if disp.calls() != 0 {
		t.Errorf("dispatcher called %d times, want 0", disp.calls())
	}
}

func TestSetDimState_ValueValidation(t *testing.T) {
	tests := []struct {
		name  string
		state any
		valid bool
	}{
		{name: "on", state: "on", valid: true},
		{name: "off", state: "off", valid: true},
		{name: "zero", state: 0, valid: true},
		{name: "hundred", state: 100, valid: true},
		{name: "mid-range int", state: 55, valid: true},
		{name: "integral float", state: float64(20), valid: true},
		{name: "int64", state: int64(30), valid: true},
		{name: "negative", state: -1, valid: false},
		{name: "above range", state: 101, valid: false},
		{name: "numeric string", state: "20", valid: false},
		{name: "misspelled on", state: "onn", valid: false},
		{name: "fractional", state: 49.5, valid: false},
		{name: "bool", state: true, valid: false},
		{name: "nil", state: nil, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
			c := New(disp, testDirectory(t))

			_, err := c.SetDimState(context.Background(), "Kitchen Light", tt.state)
			if tt.valid {
				if err != nil {
					t.Fatalf("SetDimState(%v) error = %v, want nil", tt.state, err)
				}
				if disp.calls() != 1 {
					t.Errorf("dispatcher called %d times, want 1", disp.calls())
				}
				return
			}

			if !errors.Is(err, ErrInvalidDimState) {
				t.Errorf("SetDimState(%v) error = %v, want ErrInvalidDimState", tt.state, err)
			}
			if err != nil && err.Error() != "State value not valid (on/off or 0-100 integer)" {
				t.Errorf("message = %q, want exact phrasing", err.Error())
			}
			if disp.calls() != 0 {
				t.Errorf("dispatcher called %d times for invalid value, want 0", disp.calls())
			}
		})
	}
}

func TestSetDimState_NegativeAcknowledgement(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{name: "status not ok", result: `{"status":"error"}`},
		{name: "no status field", result: `{"value":"on"}`},
		{name: "non-object result", result: `"done"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp := &fakeDispatcher{result: json.RawMessage(tt.result)}
			c := New(disp, testDirectory(t))

			ok, err := c.SetDimState(context.Background(), "Kitchen Light", "off")
			if err != nil {
				t.Fatalf("SetDimState() error = %v, want nil (negative ack is not a failure)", err)
			}
			if ok {
				t.Error("SetDimState() = true, want false")
			}
		})
	}
}

func TestSetDimState_DispatchFailurePropagates(t *testing.T) {
	dispatchErr := errors.New("Unknown error occured") //nolint:misspell // gateway phrasing
	disp := &fakeDispatcher{err: dispatchErr}
	c := New(disp, testDirectory(t))

	_, err := c.SetDimState(context.Background(), "Kitchen Light", "on")
	if !errors.Is(err, dispatchErr) {
		t.Errorf("error = %v, want dispatcher failure", err)
	}
}

func TestTriggerScene_DispatchesTriggerScene(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	ok, err := c.TriggerScene(context.Background(), "Movie Night")
	if err != nil {
		t.Fatalf("TriggerScene() error = %v", err)
	}
	if !ok {
		t.Error("TriggerScene() = false, want true")
	}

	method, params := disp.lastCall()
	if method != "SceneFunction/triggerScene" {
		t.Errorf("method = %q", method)
	}
	if len(params) != 2 || params[0] != "hz_2" || params[1] != "7" {
		t.Errorf("params = %v, want [hz_2 7]", params)
	}
}

func TestTriggerScene_UnknownSceneNeverDispatches(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	_, err := c.TriggerScene(context.Background(), "Party Mode")
	if !errors.Is(err, ErrNoSuchScene) {
		t.Errorf("error = %v, want ErrNoSuchScene", err)
	}
	if err.Error() != "No scene with that name exists" {
		t.Errorf("message = %q, want exact phrasing", err.Error())
	}
	if disp.calls() != 0 {
		t.Errorf("dispatcher called %d times, want 0", disp.calls())
	}
}

func TestTriggerScene_ExactMatchLookup(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	_, err := c.TriggerScene(context.Background(), "movie night")
	if !errors.Is(err, ErrNoSuchScene) {
		t.Errorf("lookup is exact-match; error = %v, want ErrNoSuchScene", err)
	}
}

func TestTriggerScene_NegativeAcknowledgement(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"busy"}`)}
	c := New(disp, testDirectory(t))

	ok, err := c.TriggerScene(context.Background(), "Movie Night")
	if err != nil {
		t.Fatalf("TriggerScene() error = %v", err)
	}
	if ok {
		t.Error("TriggerScene() = true, want false")
	}
}

func TestGoSetDimState_DeliversResult(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	result := c.GoSetDimState(context.Background(), "Kitchen Light", 75, nil)

	select {
	case completed := <-result.Done:
		if completed != result {
			t.Error("Done delivered a different Result")
		}
		if completed.Error != nil {
			t.Errorf("Error = %v", completed.Error)
		}
		if !completed.OK {
			t.Error("OK = false, want true")
		}
		if completed.Name != "Kitchen Light" {
			t.Errorf("Name = %q", completed.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command never completed")
	}
}

func TestGoTriggerScene_SharedDoneChannel(t *testing.T) {
	disp := &fakeDispatcher{result: json.RawMessage(`{"status":"ok"}`)}
	c := New(disp, testDirectory(t))

	done := make(chan *Result, 2)
	c.GoTriggerScene(context.Background(), "Movie Night", done)
	c.GoSetDimState(context.Background(), "Kitchen Light", "off", done)

	for i := 0; i < 2; i++ {
		select {
		case result := <-done:
			if result.Error != nil {
				t.Errorf("%s: Error = %v", result.Name, result.Error)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("commands never completed")
		}
	}
}

func TestGoSetDimState_UnbufferedDonePanics(t *testing.T) {
	c := New(&fakeDispatcher{}, testDirectory(t))

	defer func() {
		if recover() == nil {
			t.Error("GoSetDimState() with unbuffered done channel did not panic")
		}
	}()
	c.GoSetDimState(context.Background(), "Kitchen Light", "on", make(chan *Result))
}
