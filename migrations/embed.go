// Package migrations holds the SQL schema for every supported dialect.
package migrations

import "embed"

// Files contains one subdirectory of ordered .sql files per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var Files embed.FS
