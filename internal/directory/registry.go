package directory

import "sync"

// Logger defines the logging interface used by the Registry.
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

// Registry maps friendly names to gateway addresses for devices and
// scenes. It is the only lookup the control surface consults; nothing
// talks to the gateway by name.
//
// Listings preserve insertion order: the order names were registered is
// the order DeviceNames, SceneNames and NameObject report them.
// Re-registering a name replaces its entry but keeps its original
// position.
//
// All public methods are thread-safe.
type Registry struct {
	mu          sync.RWMutex
	devices     map[string]DeviceEntry
	deviceOrder []string
	scenes      map[string]SceneEntry
	sceneOrder  []string
	logger      Logger
}

// NewRegistry creates an empty directory registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]DeviceEntry),
		scenes:  make(map[string]SceneEntry),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// AddDevice registers a device under the given friendly name.
//
// Returns ErrInvalidName for an empty name and ErrInvalidEntry when the
// entry is missing its zone or id.
func (r *Registry) AddDevice(name string, entry DeviceEntry) error {
	if name == "" {
		return ErrInvalidName
	}
	if entry.ZoneID == "" || entry.ID == "" {
		return ErrInvalidEntry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[name]; !exists {
		r.deviceOrder = append(r.deviceOrder, name)
	}
	r.devices[name] = entry

	r.logger.Debug("device registered", "name", name, "zone", entry.ZoneID, "type", entry.Type)
	return nil
}

// AddScene registers a scene under the given friendly name.
//
// Returns ErrInvalidName for an empty name and ErrInvalidEntry when the
// entry is missing its zone or id.
func (r *Registry) AddScene(name string, entry SceneEntry) error {
	if name == "" {
		return ErrInvalidName
	}
	if entry.ZoneID == "" || entry.ID == "" {
		return ErrInvalidEntry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scenes[name]; !exists {
		r.sceneOrder = append(r.sceneOrder, name)
	}
	r.scenes[name] = entry

	r.logger.Debug("scene registered", "name", name, "zone", entry.ZoneID)
	return nil
}

// Device looks up a device by friendly name.
func (r *Registry) Device(name string) (DeviceEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.devices[name]
	return entry, ok
}

// Scene looks up a scene by friendly name.
func (r *Registry) Scene(name string) (SceneEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.scenes[name]
	return entry, ok
}

// DeviceNames returns all device names in insertion order.
// The returned slice is a copy; callers can safely modify it.
func (r *Registry) DeviceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.deviceOrder))
	copy(names, r.deviceOrder)
	return names
}

// SceneNames returns all scene names in insertion order.
// The returned slice is a copy; callers can safely modify it.
func (r *Registry) SceneNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.sceneOrder))
	copy(names, r.sceneOrder)
	return names
}

// NameObject returns both name listings at once, each in insertion
// order. The slices are never nil, so the JSON form is always
// {"devices":[...],"scenes":[...]}.
func (r *Registry) NameObject() NameObject {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj := NameObject{
		Devices: make([]string, len(r.deviceOrder)),
		Scenes:  make([]string, len(r.sceneOrder)),
	}
	copy(obj.Devices, r.deviceOrder)
	copy(obj.Scenes, r.sceneOrder)
	return obj
}

// DeviceCount returns the number of registered devices.
func (r *Registry) DeviceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// SceneCount returns the number of registered scenes.
func (r *Registry) SceneCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenes)
}

// Snapshot returns the full directory in listing order, for
// persistence. The returned slices are copies.
func (r *Registry) Snapshot() ([]NamedDevice, []NamedScene) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]NamedDevice, 0, len(r.deviceOrder))
	for _, name := range r.deviceOrder {
		devices = append(devices, NamedDevice{Name: name, Entry: r.devices[name]})
	}
	scenes := make([]NamedScene, 0, len(r.sceneOrder))
	for _, name := range r.sceneOrder {
		scenes = append(scenes, NamedScene{Name: name, Entry: r.scenes[name]})
	}
	return devices, scenes
}

// Replace swaps the whole directory for the given snapshot, keeping the
// snapshot's order. Entries are validated up front; on any invalid
// input the registry is left untouched.
func (r *Registry) Replace(devices []NamedDevice, scenes []NamedScene) error {
	for _, d := range devices {
		if d.Name == "" {
			return ErrInvalidName
		}
		if d.Entry.ZoneID == "" || d.Entry.ID == "" {
			return ErrInvalidEntry
		}
	}
	for _, s := range scenes {
		if s.Name == "" {
			return ErrInvalidName
		}
		if s.Entry.ZoneID == "" || s.Entry.ID == "" {
			return ErrInvalidEntry
		}
	}

	deviceMap := make(map[string]DeviceEntry, len(devices))
	deviceOrder := make([]string, 0, len(devices))
	for _, d := range devices {
		if _, exists := deviceMap[d.Name]; !exists {
			deviceOrder = append(deviceOrder, d.Name)
		}
		deviceMap[d.Name] = d.Entry
	}

	sceneMap := make(map[string]SceneEntry, len(scenes))
	sceneOrder := make([]string, 0, len(scenes))
	for _, s := range scenes {
		if _, exists := sceneMap[s.Name]; !exists {
			sceneOrder = append(sceneOrder, s.Name)
		}
		sceneMap[s.Name] = s.Entry
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = deviceMap
	r.deviceOrder = deviceOrder
	r.scenes = sceneMap
	r.sceneOrder = sceneOrder

	r.logger.Info("directory replaced", "devices", len(deviceOrder), "scenes", len(sceneOrder))
	return nil
}
