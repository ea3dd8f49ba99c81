package dataaccess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	keys TEXT NOT NULL DEFAULT '{}',
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_type ON records(type);
CREATE TABLE IF NOT EXISTS record_keys (
	record_id TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (record_id, name)
);
CREATE INDEX IF NOT EXISTS idx_record_keys_lookup ON record_keys(name, value);
`

// SQLiteStore keeps records in a single table with a side table indexing their keys.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil && path != ":memory:" {
		_ = db.Close()
		return nil, fmt.Errorf("error setting journal mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec *entities.Record) error {
	keys, err := json.Marshal(rec.Keys)
	if err != nil {
		return fmt.Errorf("error encoding keys: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (id, type, keys, payload, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET type = excluded.type, keys = excluded.keys,
			payload = excluded.payload, updated_at = excluded.updated_at`,
		rec.ID, string(rec.Type), string(keys), string(rec.Payload), rec.UpdatedAt.String())
	if err != nil {
		return fmt.Errorf("error upserting record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM record_keys WHERE record_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("error clearing keys: %w", err)
	}
	for name, value := range rec.Keys {
		if _, err := tx.ExecContext(ctx, `INSERT INTO record_keys (record_id, name, value) VALUES (?, ?, ?)`, rec.ID, name, value); err != nil {
			return fmt.Errorf("error indexing key %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*entities.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, type, keys, payload, updated_at FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting record: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM record_keys WHERE record_id = ?`, id); err != nil {
		return fmt.Errorf("error deleting keys: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Scan(ctx context.Context, typ entities.RecordType) ([]*entities.Record, error) {
	return s.Find(ctx, typ, nil)
}

func (s *SQLiteStore) Find(ctx context.Context, typ entities.RecordType, match map[string]string) ([]*entities.Record, error) {
	var (
		sb   strings.Builder
		args = []any{string(typ)}
	)
	sb.WriteString(`SELECT id, type, keys, payload, updated_at FROM records WHERE type = ?`)
	for name, value := range match {
		sb.WriteString(` AND id IN (SELECT record_id FROM record_keys WHERE name = ? AND value = ?)`)
		args = append(args, name, value)
	}
	sb.WriteString(` ORDER BY id`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("error finding records: %w", err)
	}
	defer rows.Close()

	out := make([]*entities.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Backend() string { return "sqlite" }

func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entities.Record, error) {
	var (
		rec       entities.Record
		typ       string
		keys      string
		payload   string
		updatedAt custom.Datetime
	)
	if err := row.Scan(&rec.ID, &typ, &keys, &payload, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keys), &rec.Keys); err != nil {
		return nil, fmt.Errorf("error decoding keys: %w", err)
	}

	rec.Type = entities.RecordType(typ)
	rec.Payload = json.RawMessage(payload)
	rec.UpdatedAt = updatedAt
	return &rec, nil
}
