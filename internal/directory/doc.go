// Package directory maintains the name directory of an xComfort
// gateway: which friendly names map to which device and scene
// addresses.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────┐
//	│                    Directory                       │
//	│                                                    │
//	│  ┌──────────────────┐        ┌──────────────────┐  │
//	│  │     Registry     │ Snap/  │      Store       │  │
//	│  │   (registry.go)  │◀──────▶│    (store.go)    │  │
//	│  │                  │ Replace│                  │  │
//	│  │ • name lookups   │        │ • SQLite cache   │  │
//	│  │ • ordered lists  │        │ • position cols  │  │
//	│  │ • thread safety  │        │ • transactional  │  │
//	│  └──────────────────┘        └──────────────────┘  │
//	└────────────────────────────────────────────────────┘
//
// The registry is authoritative at runtime; the store only warms it up
// across restarts. Setup (import or discovery) writes the registry, the
// control surface reads it.
//
// # Ordering
//
// Name listings report insertion order, and re-registering a name keeps
// its original position. Tooling built against the directory tends to
// display these lists directly, so the order users configured things in
// is the order they see.
package directory
