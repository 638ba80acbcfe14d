package directory

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kevinsch95/xcomfort-shc-api/internal/infrastructure/database"
	_ "github.com/mattn/go-sqlite3"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	s := NewStore(db)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s
}

func TestStore_InitIsIdempotent(t *testing.T) {
	s := testStore(t)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	devices := []NamedDevice{
		{Name: "Kitchen Light", Entry: DeviceEntry{ZoneID: "hz_1", ID: "xCo:1.2", Type: "DimActuator"}},
		{Name: "Hall Switch", Entry: DeviceEntry{ZoneID: "hz_2", ID: "xCo:3.4", Type: "SwitchActuator"}},
		{Name: "Attic Fan", Entry: DeviceEntry{ZoneID: "hz_1", ID: "xCo:5.6", Type: "SwitchActuator"}},
	}
	scenes := []NamedScene{
		{Name: "Movie Night", Entry: SceneEntry{ZoneID: "hz_1", ID: "1"}},
		{Name: "All Off", Entry: SceneEntry{ZoneID: "hz_1", ID: "2"}},
	}

	if err := s.Save(ctx, devices, scenes); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gotDevices, gotScenes, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(gotDevices, devices) {
		t.Errorf("devices = %+v, want %+v", gotDevices, devices)
	}
	if !reflect.DeepEqual(gotScenes, scenes) {
		t.Errorf("scenes = %+v, want %+v", gotScenes, scenes)
	}
}

func TestStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := []NamedDevice{
		{Name: "Old Lamp", Entry: DeviceEntry{ZoneID: "hz_1", ID: "d1"}},
	}
	if err := s.Save(ctx, first, nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := []NamedDevice{
		{Name: "New Lamp", Entry: DeviceEntry{ZoneID: "hz_2", ID: "d2", Type: "DimActuator"}},
		{Name: "New Fan", Entry: DeviceEntry{ZoneID: "hz_2", ID: "d3"}},
	}
	if err := s.Save(ctx, second, nil); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	gotDevices, gotScenes, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(gotDevices, second) {
		t.Errorf("devices = %+v, want only second snapshot", gotDevices)
	}
	if len(gotScenes) != 0 {
		t.Errorf("scenes = %+v, want empty", gotScenes)
	}
}

func TestStore_LoadEmptyCache(t *testing.T) {
	s := testStore(t)

	devices, scenes, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(devices) != 0 || len(scenes) != 0 {
		t.Errorf("Load() = %v, %v, want empty cache", devices, scenes)
	}
}

func TestStore_OrderSurvivesUnorderedInsertNames(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Names deliberately not alphabetical; order must come from
	// position, not from name collation.
	devices := []NamedDevice{
		{Name: "Zebra", Entry: DeviceEntry{ZoneID: "hz_1", ID: "d1"}},
		{Name: "Apple", Entry: DeviceEntry{ZoneID: "hz_1", ID: "d2"}},
		{Name: "Mango", Entry: DeviceEntry{ZoneID: "hz_1", ID: "d3"}},
	}
	if err := s.Save(ctx, devices, nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var names []string
	for _, d := range got {
		names = append(names, d.Name)
	}
	if !reflect.DeepEqual(names, []string{"Zebra", "Apple", "Mango"}) {
		t.Errorf("names = %v, want saved order", names)
	}
}

func TestStore_RegistryIntegration(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	r := NewRegistry()
	_ = r.AddDevice("Kitchen Light", DeviceEntry{ZoneID: "hz_1", ID: "xCo:1.2", Type: "DimActuator"})
	_ = r.AddScene("Movie Night", SceneEntry{ZoneID: "hz_1", ID: "1"})

	devices, scenes := r.Snapshot()
	if err := s.Save(ctx, devices, scenes); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	warm := NewRegistry()
	gotDevices, gotScenes, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := warm.Replace(gotDevices, gotScenes); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	entry, ok := warm.Device("Kitchen Light")
	if !ok || entry.Type != "DimActuator" {
		t.Errorf("warm registry lookup = %+v, %v", entry, ok)
	}
	if _, ok := warm.Scene("Movie Night"); !ok {
		t.Error("warm registry missing scene")
	}
}

// TestStore_OverManagedCacheHandle runs the store against the managed
// cache handle instead of a bare *sql.DB, the way the client wires it.
func TestStore_OverManagedCacheHandle(t *testing.T) {
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "names.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	s := NewStore(db)
	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	devices := []NamedDevice{
		{Name: "Ceiling Light", Entry: DeviceEntry{ZoneID: "hz_1", ID: "xCo:1.1", Type: "DimActuator"}},
	}
	scenes := []NamedScene{
		{Name: "Movie Night", Entry: SceneEntry{ZoneID: "hz_1", ID: "1"}},
	}
	if err := s.Save(ctx, devices, scenes); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gotDevices, gotScenes, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(gotDevices, devices) {
		t.Errorf("devices = %+v, want %+v", gotDevices, devices)
	}
	if !reflect.DeepEqual(gotScenes, scenes) {
		t.Errorf("scenes = %+v, want %+v", gotScenes, scenes)
	}

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() after save error = %v", err)
	}
}
