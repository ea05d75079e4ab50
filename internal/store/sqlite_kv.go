package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const (
	SQLiteFileName = "annotate.sqlite"
	schemaVersion  = 1
)

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, SQLiteFileName)
}

// SQLiteKV is the on-disk KV store of a workspace.
type SQLiteKV struct {
	db *sql.DB
}

// OpenKV opens (and migrates) the workspace database. Callers must Close it.
func (s Store) OpenKV(ctx context.Context) (*SQLiteKV, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps a TUI and a CLI share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v BLOB NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "schema_version").Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "schema_version", strconv.Itoa(schemaVersion))
		return err
	case err != nil:
		return err
	}
	got, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("sqlite: invalid schema_version %q", v)
	}
	if got > schemaVersion {
		return fmt.Errorf("sqlite: schema_version %d is newer than supported (%d)", got, schemaVersion)
	}
	return nil
}

func (k *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := k.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (k *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		key, value, time.Now().UTC().UnixMilli())
	return err
}

func (k *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := k.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

// Keys returns the stored keys in sorted order.
func (k *SQLiteKV) Keys(ctx context.Context) ([]string, error) {
	rows, err := k.db.QueryContext(ctx, `SELECT k FROM kv ORDER BY k`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

func (k *SQLiteKV) Close() error {
	if k == nil || k.db == nil {
		return nil
	}
	return k.db.Close()
}
