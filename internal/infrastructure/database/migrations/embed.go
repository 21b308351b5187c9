// Package migrations embeds the SQL migration files so the binaries carry
// their own schema without requiring files on disk.
package migrations

import "embed"

// Dir is the directory inside FS holding the PostgreSQL migrations
const Dir = "postgres"

//go:embed postgres/*.sql
var FS embed.FS
