// Package migrations embeds the goose SQL migrations for the Postgres backend.
// The server applies them on startup; integration tests apply them in TestMain.
package migrations

import "embed"

// FS holds every *.sql migration, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
