// Package migrations embeds the SQL migration files for the index store.
package migrations

import "embed"

// FS contains the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
