package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version  int
	filename string
}

// Migrate applies every embedded *.up.sql file that is not yet recorded in
// schema_migrations, each inside its own transaction.
func Migrate(database *sql.DB) error {
	if _, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	pending, err := upMigrations()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(database)
	if err != nil {
		return err
	}

	for _, next := range pending {
		if applied[next.version] {
			continue
		}
		if err := apply(database, next); err != nil {
			return err
		}
		slog.Info("applied migration", "version", next.version, "file", next.filename)
	}

	return nil
}

func upMigrations() ([]migration, error) {
	filenames, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	migrations := make([]migration, 0, len(filenames))
	for _, path := range filenames {
		filename := strings.TrimPrefix(path, "migrations/")
		version, err := extractVersion(filename)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration{version: version, filename: filename})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func appliedVersions(database *sql.DB) (map[int]bool, error) {
	rows, err := database.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func apply(database *sql.DB, next migration) error {
	content, err := migrationsFS.ReadFile("migrations/" + next.filename)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", next.filename, err)
	}

	transaction, err := database.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction for migration %d: %w", next.version, err)
	}
	defer transaction.Rollback()

	if _, err := transaction.Exec(string(content)); err != nil {
		return fmt.Errorf("executing migration %s: %w", next.filename, err)
	}
	if _, err := transaction.Exec("INSERT INTO schema_migrations (version) VALUES (?)", next.version); err != nil {
		return fmt.Errorf("recording migration %d: %w", next.version, err)
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", next.version, err)
	}
	return nil
}

func extractVersion(filename string) (int, error) {
	prefix, _, found := strings.Cut(filename, "_")
	if !found {
		return 0, fmt.Errorf("migration %s has no version prefix", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("parsing version of migration %s: %w", filename, err)
	}
	return version, nil
}
