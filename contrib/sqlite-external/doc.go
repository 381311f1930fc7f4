// Package sqliteexternal registers the CGO SQLite driver (github.com/mattn/go-sqlite3).
//
// It is linked in by core/sqlite when building with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/versedist
//
// Without the tag the corpus is read through the pure Go modernc.org/sqlite
// driver.
package sqliteexternal
