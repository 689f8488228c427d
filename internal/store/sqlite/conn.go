package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode. Pass ":memory:" for an in-process test database.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the cache tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS DiscoveryCache (
            CacheKey TEXT PRIMARY KEY,
            Payload BLOB NOT NULL,
            CreatedAt TIMESTAMP NOT NULL,
            TTLMinutes INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS PrepArtifacts (
            ItemId TEXT PRIMARY KEY,
            SourceKind TEXT NOT NULL,
            Summary TEXT NOT NULL,
            Model TEXT NOT NULL,
            GeneratedAt TIMESTAMP NOT NULL
        );`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
