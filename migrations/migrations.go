// Package migrations embeds the PostgreSQL schema applied by sql-migrate.
package migrations

import "embed"

// FS holds every migration file
//
//go:embed *.sql
var FS embed.FS
