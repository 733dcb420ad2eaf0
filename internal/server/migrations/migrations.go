// Package migrations embeds the goose SQL migrations for each supported
// database dialect and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var dialects = map[string]goose.Dialect{
	DriverPostgres: goose.DialectPostgres,
	DriverSQLite:   goose.DialectSQLite3,
}

// Up applies every pending migration for driver and returns the number applied.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("no migrations for driver %q", driver)
	}

	sub, err := fs.Sub(files, driver)
	if err != nil {
		return 0, err
	}

	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}

	res, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate up: %w", err)
	}
	return len(res), nil
}
