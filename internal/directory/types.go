package directory

// DeviceEntry locates a device on the gateway: the zone that owns it,
// its datapoint id, and the device type the gateway reports
// (DimActuator, SwitchActuator, ...).
type DeviceEntry struct {
	ZoneID string `json:"zoneId" yaml:"zoneId"`
	ID     string `json:"id"     yaml:"id"`
	Type   string `json:"type"   yaml:"type"`
}

// SceneEntry locates a scene on the gateway.
type SceneEntry struct {
	ZoneID string `json:"zoneId" yaml:"zoneId"`
	ID     string `json:"id"     yaml:"id"`
}

// NamedDevice pairs a friendly name with its entry, in listing order.
// Snapshot and Replace move these between registry and cache.
type NamedDevice struct {
	Name  string
	Entry DeviceEntry
}

// NamedScene pairs a friendly name with its entry, in listing order.
type NamedScene struct {
	Name  string
	Entry SceneEntry
}

// NameObject is the directory summary handed to embedders: every known
// device and scene name, each list in insertion order.
type NameObject struct {
	Devices []string `json:"devices"`
	Scenes  []string `json:"scenes"`
}
