package sqlstore

import (
	"embed"
	"fmt"
	"io/fs"
)

// Schema migrations are embedded so the binary migrates itself at startup;
// there is no separate migrations artifact to deploy. Each supported driver
// has its own dialect directory.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded migrations filesystem for use with
// goose.SetBaseFS.
func MigrationsFS() fs.FS {
	return migrationsFS
}

// MigrationsDir returns the embedded directory containing the migration
// files for the given database driver.
func MigrationsDir(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "migrations/postgres", nil
	case "sqlite":
		return "migrations/sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (expected postgres or sqlite)", driver)
	}
}

// GooseDialect maps a database driver name to the dialect name goose expects.
func GooseDialect(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "postgres", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (expected postgres or sqlite)", driver)
	}
}
