// Package localdb bootstraps the sqlite database backing the client's
// durable local state and applies the embedded goose migrations.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/altronvault/altron/internal/client/migrations"
	"github.com/altronvault/altron/internal/filex"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local state database at dsn
// and brings its schema up to date. File-backed DSNs get their parent
// directory created first.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if path, ok := filePath(dsn); ok {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// filePath extracts the filesystem path from a sqlite DSN, reporting false
// for in-memory databases.
func filePath(dsn string) (string, bool) {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return "", false
		}
		path = path[:i]
	}
	if path == ":memory:" || path == "" {
		return "", false
	}
	return path, true
}
