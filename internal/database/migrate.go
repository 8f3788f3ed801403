package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/safar/petshop/migrations"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("direction must be 'up' or 'down', got %q", raw)
	}
}

// MigrationFiles lists the embedded files for direction, in execution order.
func MigrationFiles(direction Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	suffix := fmt.Sprintf(".%s.sql", direction)
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	if direction == Down {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	return files, nil
}

// Migrate applies (or reverts) every migration not yet recorded in
// schema_migrations. It returns the names of the files it executed.
func Migrate(ctx context.Context, db *sql.DB, direction Direction) ([]string, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := MigrationFiles(direction)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, filename := range files {
		version := migrationVersion(filename)

		err := WithTransaction(ctx, db, DefaultTxOptions(), func(tx *sql.Tx) error {
			var applied bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
				version).Scan(&applied); err != nil {
				return fmt.Errorf("check migration %s: %w", version, err)
			}
			if applied == (direction == Up) {
				return errSkipMigration
			}

			content, err := fs.ReadFile(migrations.FS, filename)
			if err != nil {
				return fmt.Errorf("read migration file %s: %w", filename, err)
			}
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("execute migration %s: %w", filename, err)
			}

			if direction == Up {
				_, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
			} else {
				_, err = tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version)
			}
			if err != nil {
				return fmt.Errorf("record migration %s: %w", version, err)
			}
			return nil
		})
		if errors.Is(err, errSkipMigration) {
			continue
		}
		if err != nil {
			return ran, err
		}
		ran = append(ran, filename)
	}

	return ran, nil
}

var errSkipMigration = errors.New("migration already in desired state")

func migrationVersion(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = strings.TrimSuffix(name, ".up")
	return strings.TrimSuffix(name, ".down")
}
