package postgres

import "embed"

// Migrations holds the golang-migrate files for the lending schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the files.
const MigrationsDir = "migrations"
