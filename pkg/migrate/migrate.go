package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DefaultDir = "pkg/migrate/migrations"

	// EmbeddedDir is the directory name inside Migrations.
	EmbeddedDir = "migrations"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Migrations ships the SQL files inside the binary so deploys do not depend on
// the working directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Options selects the goose dialect and migration source. A nil FS reads Dir
// from disk.
type Options struct {
	Dialect string
	Dir     string
	FS      fs.FS
}

func (o Options) withDefaults() Options {
	if o.Dialect == "" {
		o.Dialect = DialectPostgres
	}
	if o.Dir == "" {
		if o.FS != nil {
			o.Dir = EmbeddedDir
		} else {
			o.Dir = DefaultDir
		}
	}
	return o
}

func (o Options) prepare() error {
	if err := goose.SetDialect(o.Dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(o.FS)
	return nil
}

// Run executes a goose command such as up, down, status or version.
func Run(ctx context.Context, db *sql.DB, opts Options, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if command == "" {
		return fmt.Errorf("command is required")
	}
	opts = opts.withDefaults()
	if err := opts.prepare(); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, opts.Dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up or down to targetVersion (YYYYMMDDHHMMSS).
func MigrateToVersion(ctx context.Context, db *sql.DB, opts Options, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	opts = opts.withDefaults()
	if err := opts.prepare(); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, opts.Dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, opts.Dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}
