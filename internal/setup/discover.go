package setup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
)

// Gateway listing methods used by discovery.
const (
	methodGetZones   = "StatusControlFunction/getZones"
	methodGetDevices = "StatusControlFunction/getDevices"
	methodGetScenes  = "SceneFunction/getScenes"
)

// zoneInfo is one element of the gateway's zone listing.
type zoneInfo struct {
	ZoneID string `json:"zoneId"`
	Name   string `json:"name"`
}

// deviceInfo is one element of a zone's device listing.
type deviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// sceneInfo is one element of a zone's scene listing.
type sceneInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InitialSetup walks the gateway's zones and registers every device and
// scene it reports, under the names configured on the gateway.
//
// Rows the gateway returns without a name or id are skipped with a
// warning rather than failing the run; gateways with half-commissioned
// zones produce them routinely.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - client: The connected client whose directory is populated
//
// Returns:
//   - error: If any listing RPC fails or decodes badly
func (r *Runner) InitialSetup(ctx context.Context, client Client) error {
	raw, err := client.Call(ctx, methodGetZones, nil)
	if err != nil {
		return fmt.Errorf("setup: listing zones: %w", err)
	}

	var zones []zoneInfo
	if err := json.Unmarshal(raw, &zones); err != nil {
		return fmt.Errorf("setup: decoding zone listing: %w", err)
	}

	dir := client.Directory()
	for _, zone := range zones {
		if zone.ZoneID == "" {
			r.logger.Warn("skipping zone without id", "name", zone.Name)
			continue
		}
		if err := r.discoverZoneDevices(ctx, client, dir, zone); err != nil {
			return err
		}
		if err := r.discoverZoneScenes(ctx, client, dir, zone); err != nil {
			return err
		}
	}

	r.logger.Info("initial setup complete",
		"zones", len(zones),
		"devices", dir.DeviceCount(),
		"scenes", dir.SceneCount(),
	)
	return nil
}

func (r *Runner) discoverZoneDevices(ctx context.Context, client Client, dir *directory.Registry, zone zoneInfo) error {
	raw, err := client.Call(ctx, methodGetDevices, []any{zone.ZoneID})
	if err != nil {
		return fmt.Errorf("setup: listing devices in zone %s: %w", zone.ZoneID, err)
	}

	var devices []deviceInfo
	if err := json.Unmarshal(raw, &devices); err != nil {
		return fmt.Errorf("setup: decoding device listing for zone %s: %w", zone.ZoneID, err)
	}

	for _, d := range devices {
		if d.Name == "" || d.ID == "" {
			r.logger.Warn("skipping unnamed device row", "zone", zone.ZoneID, "id", d.ID)
			continue
		}
		entry := directory.DeviceEntry{ZoneID: zone.ZoneID, ID: d.ID, Type: d.Type}
		if err := dir.AddDevice(d.Name, entry); err != nil {
			return fmt.Errorf("setup: registering device %q: %w", d.Name, err)
		}
	}
	return nil
}

func (r *Runner) discoverZoneScenes(ctx context.Context, client Client, dir *directory.Registry, zone zoneInfo) error {
	raw, err := client.Call(ctx, methodGetScenes, []any{zone.ZoneID})
	if err != nil {
		return fmt.Errorf("setup: listing scenes in zone %s: %w", zone.ZoneID, err)
	}

	var scenes []sceneInfo
	if err := json.Unmarshal(raw, &scenes); err != nil {
		return fmt.Errorf("setup: decoding scene listing for zone %s: %w", zone.ZoneID, err)
	}

	for _, s := range scenes {
		if s.Name == "" || s.ID == "" {
			r.logger.Warn("skipping unnamed scene row", "zone", zone.ZoneID, "id", s.ID)
			continue
		}
		entry := directory.SceneEntry{ZoneID: zone.ZoneID, ID: s.ID}
		if err := dir.AddScene(s.Name, entry); err != nil {
			return fmt.Errorf("setup: registering scene %q: %w", s.Name, err)
		}
	}
	return nil
}
