// Package migrations embeds the goose SQL migrations. The SQL is kept to the
// subset shared by PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
