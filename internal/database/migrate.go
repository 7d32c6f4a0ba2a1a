package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"stackit/internal/middleware"
)

// Migration is one versioned SQL schema step, loaded from an embedded
// NNNNNN_name.up.sql file with an optional matching .down.sql.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	if err := RegisterMigrations(migrationFS); err != nil {
		middleware.Logger.Error("Embedded migrations failed to register",
			slog.String("error", err.Error()))
	}
}

// RegisterMigrations adds the migrations found under migrations/ in the given
// filesystem to the registry, keeping it sorted by version.
func RegisterMigrations(efs embed.FS) error {
	parsed, err := parseMigrations(efs)
	if err != nil {
		return err
	}
	migrations = append(migrations, parsed...)
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return nil
}

// parseMigrations reads NNNNNN_name.up.sql files from migrations/. A missing
// down script is allowed; that migration simply cannot be rolled back.
// Non-numeric or duplicate versions are registry corruption and fail hard.
func parseMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var parsed []Migration
	byVersion := make(map[int]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		versionStr, migName, ok := strings.Cut(base, "_")
		if !ok {
			middleware.Logger.Warn("Skipping migration with invalid name", slog.String("file", name))
			continue
		}
		version, err := strconv.Atoi(versionStr)
		if err != nil {
			return nil, fmt.Errorf("migration %s: version %q is not numeric", name, versionStr)
		}
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d (%s and %s)", version, prev, name)
		}
		byVersion[version] = name

		up, err := fs.ReadFile(fsys, path.Join("migrations", name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		m := Migration{Version: version, Name: migName, UpScript: string(up)}
		if down, err := fs.ReadFile(fsys, path.Join("migrations", base+".down.sql")); err == nil {
			m.DownScript = string(down)
		} else {
			middleware.Logger.Warn("Migration has no down script", slog.String("file", name))
		}
		parsed = append(parsed, m)
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Version < parsed[j].Version })
	return parsed, nil
}

// GetMigrations returns the registered migrations in version order.
func GetMigrations() []Migration {
	return migrations
}

// GetMigrationByVersion returns the registered migration with the given
// version, or nil.
func GetMigrationByVersion(version int) *Migration {
	for _, m := range migrations {
		if m.Version == version {
			return &m
		}
	}
	return nil
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}
