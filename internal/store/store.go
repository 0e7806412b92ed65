// Package store keeps eduquiz's durable state in SQLite: the key/value
// table behind kv.Store and the LLM request log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	_ "modernc.org/sqlite"
)

// pragmas run on the single pooled connection right after open.
var pragmas = [...]struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
	{"synchronous", "NORMAL"},
}

// Store owns the SQLite connection.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open connects to the database at dsn and creates any missing tables.
func Open(dsn string) (_ *Store, err error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()
	// One connection keeps pragmas and :memory: databases consistent.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := m.Create(context.Background(), Tables...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, drv: drv, seq: seq}, nil
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

// KV exposes the kv_entries table as a kv.Store.
func (s *Store) KV() *KV { return &KV{db: s.db} }

func (s *Store) EventRepo() EventRepo { return &eventRepo{db: s.db, seq: s.seq} }

// Path picks the database file: explicit if set, then $EDUQUIZ_DB, then
// eduquiz.db under the XDG data directory. The parent directory is
// created.
func Path(explicit string) (string, error) {
	p := explicit
	if p == "" {
		p = os.Getenv("EDUQUIZ_DB")
	}
	if p == "" {
		data := os.Getenv("XDG_DATA_HOME")
		if data == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			data = filepath.Join(home, ".local", "share")
		}
		p = filepath.Join(data, "eduquiz", "eduquiz.db")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(p), err)
	}
	return p, nil
}
