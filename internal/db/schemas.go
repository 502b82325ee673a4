package db

import "embed"

// sqlSchemas holds the read-model migrations, embedded at compile time.
//
//go:embed migrations/*.sql
var sqlSchemas embed.FS
