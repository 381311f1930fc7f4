//go:build cgo_sqlite

package sqliteexternal

import (
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" database/sql driver
)

const (
	// DriverName is the database/sql driver name registered by mattn/go-sqlite3.
	DriverName = "sqlite3"

	// DriverPackage is the import path of the underlying driver.
	DriverPackage = "github.com/mattn/go-sqlite3"
)
