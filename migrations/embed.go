// Package migrations embeds the SQL schema applied by goose at startup.
package migrations

import "embed"

// FS holds the ordered goose migration files
//
//go:embed *.sql
var FS embed.FS
