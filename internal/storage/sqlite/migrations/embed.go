package migrations

import "embed"

// FS contains embedded SQLite migrations for the dungeon archive.
//
//go:embed *.sql
var FS embed.FS
