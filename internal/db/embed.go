package db

import "embed"

// migrationsFS holds the audit store schema migrations, compiled into the
// binary so deployments need no migration files on disk.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
