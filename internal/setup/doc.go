// Package setup populates the name directory, either from a YAML setup
// export on disk or by discovery against a live gateway.
//
// # Import
//
// ImportSetup parses a zones→devices/scenes YAML file (see the File
// type for the layout) and registers every row. Import is strict: a
// malformed file fails before anything is registered, and a row the
// file declares incompletely is an error, not a skip.
//
// # Discovery
//
// InitialSetup drives three gateway listings per run:
//
//	StatusControlFunction/getZones     []               → [{zoneId, name}]
//	StatusControlFunction/getDevices   [zoneId]         → [{id, name, type}]
//	SceneFunction/getScenes            [zoneId]         → [{id, name}]
//
// Discovery is tolerant where import is strict: rows a gateway reports
// without a usable name or id are logged and skipped, since
// half-commissioned zones produce them routinely.
//
// Both collaborators only add names; they never clear the directory.
// Listing order follows the gateway's reporting order (import: file
// order), which is what the directory preserves.
package setup
