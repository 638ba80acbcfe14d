package setup

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kevinsch95/xcomfort-shc-api/internal/directory"
)

// MaxFileSize is the maximum allowed setup file size (10MB). Real
// exports are a few kilobytes; anything near the cap is not one.
const MaxFileSize = 10 * 1024 * 1024

// ImportSetup loads a YAML setup export from disk and registers its
// contents, replacing nothing: entries add to whatever the directory
// already holds, repeated names keeping their first position.
//
// Parameters:
//   - ctx: Context for cancellation (reserved; parsing is local)
//   - path: Filesystem path to the setup export
//   - client: The connected client whose directory is populated
//
// Returns:
//   - error: If the file cannot be read, parsed, or applied
func (r *Runner) ImportSetup(ctx context.Context, path string, client Client) error {
	file, err := ParseFile(path)
	if err != nil {
		return err
	}

	dir := client.Directory()
	if err := apply(file, dir); err != nil {
		return err
	}

	r.logger.Info("setup imported",
		"path", path,
		"zones", len(file.Zones),
		"devices", dir.DeviceCount(),
		"scenes", dir.SceneCount(),
	)
	return nil
}

// ParseFile reads and validates a setup export from disk.
func ParseFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("setup: reading setup file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("setup: reading setup file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses and validates a setup export from memory.
func ParseBytes(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetupFile, err)
	}

	for i, zone := range file.Zones {
		if zone.ID == "" {
			return nil, fmt.Errorf("%w: zone %d has no zoneId", ErrInvalidSetupFile, i)
		}
		for _, d := range zone.Devices {
			if d.ID == "" || d.Name == "" {
				return nil, fmt.Errorf("%w: zone %s has a device without id or name", ErrInvalidSetupFile, zone.ID)
			}
		}
		for _, s := range zone.Scenes {
			if s.ID == "" || s.Name == "" {
				return nil, fmt.Errorf("%w: zone %s has a scene without id or name", ErrInvalidSetupFile, zone.ID)
			}
		}
	}

	return &file, nil
}

// apply registers a parsed file's contents into the directory.
func apply(file *File, dir *directory.Registry) error {
	for _, zone := range file.Zones {
		for _, d := range zone.Devices {
			entry := directory.DeviceEntry{ZoneID: zone.ID, ID: d.ID, Type: d.Type}
			if err := dir.AddDevice(d.Name, entry); err != nil {
				return fmt.Errorf("setup: registering device %q: %w", d.Name, err)
			}
		}
		for _, s := range zone.Scenes {
			entry := directory.SceneEntry{ZoneID: zone.ID, ID: s.ID}
			if err := dir.AddScene(s.Name, entry); err != nil {
				return fmt.Errorf("setup: registering scene %q: %w", s.Name, err)
			}
		}
	}
	return nil
}
