// Package migrations holds the schema history of the training database.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set applied by db.Migrate.
var Migrations = migrate.NewMigrations()

func init() {
	// Migration names are taken from the registering file name.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
