// Package db содержит SQL-миграции, встроенные в бинарник.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir задаёт каталог миграций внутри Migrations.
const MigrationsDir = "migrations"
