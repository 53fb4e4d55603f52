package database

import (
	"database/sql"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Migrate runs the embedded goose migrations against the database. The
// driver must already be registered (we use the pgx stdlib driver).
func Migrate(databaseURL string, migrations fs.FS, dir string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(db, dir)
}
