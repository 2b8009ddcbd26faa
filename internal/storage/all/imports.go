// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import runs the init functions
// of each backend, which register their factories and DDL bootstrappers.
// After importing it the following storage kinds are available:
//
//   - "postgres" (census/internal/storage/postgres)
//   - "mssql"    (census/internal/storage/mssql)
//   - "mysql"    (census/internal/storage/mysql)
//   - "sqlite"   (census/internal/storage/sqlite)
//
// Binaries that want a subset can import individual backends instead.
package all

import (
	_ "census/internal/storage/mssql"
	_ "census/internal/storage/mysql"
	_ "census/internal/storage/postgres"
	_ "census/internal/storage/sqlite"
)
