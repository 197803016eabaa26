package statedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion tracks the current database schema version.
// Bump this when adding migrations.
const SchemaVersion = 1

// Metadata keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaLastModified  = "last_modified"
)

// StateDB persists favorites, search history and small preferences in a
// SQLite file. Safe for concurrent use; WAL mode plus a busy timeout lets
// the CLI and a running TUI share the file.
type StateDB struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at dbPath with WAL mode and busy timeout.
func Open(dbPath string) (*StateDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("statedb: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("statedb: open: %w", err)
	}

	pragmas := []struct{ name, stmt string }{
		{"wal mode", "PRAGMA journal_mode=WAL"},
		{"busy timeout", "PRAGMA busy_timeout=5000"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("statedb: %s: %w", p.name, err)
		}
	}

	return &StateDB{db: db}, nil
}

// OpenMigrated opens dbPath and brings its schema up to date.
func OpenMigrated(dbPath string) (*StateDB, error) {
	s, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close checkpoints WAL and closes the database.
func (s *StateDB) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// Migrate creates tables if they don't exist and records the schema version.
func (s *StateDB) Migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("statedb: begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tables := []struct{ name, ddl string }{
		{"metadata", `
			CREATE TABLE IF NOT EXISTS metadata (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`},
		{"favorites", `
			CREATE TABLE IF NOT EXISTS favorites (
				key        TEXT PRIMARY KEY,
				created_at INTEGER NOT NULL
			)`},
		{"history", `
			CREATE TABLE IF NOT EXISTS history (
				seq  INTEGER PRIMARY KEY AUTOINCREMENT,
				text TEXT NOT NULL
			)`},
	}
	for _, tbl := range tables {
		if _, err := tx.Exec(tbl.ddl); err != nil {
			return fmt.Errorf("statedb: create %s: %w", tbl.name, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)",
		MetaSchemaVersion, strconv.Itoa(SchemaVersion),
	); err != nil {
		return fmt.Errorf("statedb: set schema version: %w", err)
	}

	return tx.Commit()
}

// --- Favorites ---

// LoadFavorites returns all favorite keys in key order.
func (s *StateDB) LoadFavorites() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM favorites ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("statedb: load favorites: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// SaveFavorites replaces the stored set with keys. Keys already present keep
// their original created_at.
func (s *StateDB) SaveFavorites(keys []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("statedb: begin save favorites: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("CREATE TEMP TABLE IF NOT EXISTS keep_favorites (key TEXT PRIMARY KEY)"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM keep_favorites"); err != nil {
		return err
	}

	now := time.Now().Unix()
	for _, k := range keys {
		if _, err := tx.Exec("INSERT OR IGNORE INTO keep_favorites (key) VALUES (?)", k); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO favorites (key, created_at) VALUES (?, ?)", k, now,
		); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM favorites WHERE key NOT IN (SELECT key FROM keep_favorites)"); err != nil {
		return err
	}
	if err := touchTx(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// AddFavorite inserts one key. Adding an existing key is a no-op.
func (s *StateDB) AddFavorite(key string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO favorites (key, created_at) VALUES (?, ?)",
		key, time.Now().Unix(),
	)
	return err
}

// --- History ---

// LoadHistory returns stored filter history, oldest first.
func (s *StateDB) LoadHistory() ([]string, error) {
	rows, err := s.db.Query("SELECT text FROM history ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("statedb: load history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

// SaveHistory replaces the stored history with entries (oldest first).
func (s *StateDB) SaveHistory(entries []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("statedb: begin save history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM history"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO history (text) VALUES (?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- Metadata ---

// SetMeta sets a key-value pair in the metadata table.
func (s *StateDB) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta gets a value from the metadata table. Returns "" if not found.
func (s *StateDB) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Touch records a change timestamp another process can poll.
func (s *StateDB) Touch() error {
	return s.SetMeta(MetaLastModified, strconv.FormatInt(time.Now().UnixNano(), 10))
}

func touchTx(tx *sql.Tx) error {
	_, err := tx.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)",
		MetaLastModified, strconv.FormatInt(time.Now().UnixNano(), 10),
	)
	return err
}

// LastModified returns the last change timestamp, or 0 if none was recorded.
func (s *StateDB) LastModified() (int64, error) {
	val, err := s.GetMeta(MetaLastModified)
	if err != nil || val == "" {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}
