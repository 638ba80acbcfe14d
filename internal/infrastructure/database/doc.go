// Package database provides SQLite connectivity for the local name cache.
//
// The cache stores the device and scene directory between runs so a
// client constructed without auto-setup or an import file can still
// resolve names without talking to the gateway first. It is disposable:
// the directory can always be rebuilt from the gateway's listings, so
// this package carries no schema versioning. The owning store creates
// its tables idempotently on first use.
//
// Open pins the pool to a single connection and keeps the file private
// to the owning user (0600). WAL mode, when enabled, lets a load
// overlap a save; the busy timeout keeps a statement from failing
// immediately on a locked cache.
//
// Usage:
//
//	db, err := database.Open(database.Config{
//	    Path:        "/var/lib/xcomfort/cache.db",
//	    WALMode:     true,
//	    BusyTimeout: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
