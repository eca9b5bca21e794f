package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/cooccur/pkg/cooccur/corpus"
)

// Store keeps a cleaned dataset in a SQLite file so it can be re-read as a
// corpus. It is a dataset source and sink only; reports are never stored.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the schema
// if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	text TEXT,
	clean_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS doc_attrs (
	doc_seq INTEGER NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(doc_seq, name),
	FOREIGN KEY(doc_seq) REFERENCES documents(seq) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertRecords writes a batch of records and their attributes in a single
// transaction. Re-inserting an existing id keeps its first position in the
// corpus and replaces its attributes.
func (s *Store) UpsertRecords(ctx context.Context, records []corpus.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range records {
		if err := upsert(ctx, tx, rec); err != nil {
			return fmt.Errorf("upsert %q: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

func upsert(ctx context.Context, tx *sql.Tx, rec corpus.Record) error {
	if rec.ID == "" {
		return errors.New("record id is required")
	}

	const stmt = `
INSERT INTO documents (id, text, clean_text)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	text=excluded.text,
	clean_text=excluded.clean_text
RETURNING seq;
`
	var seq int64
	if err := tx.QueryRowContext(ctx, stmt, rec.ID, rec.Text, rec.CleanText).Scan(&seq); err != nil {
		return err
	}
	return replaceDocAttrs(ctx, tx, seq, rec.Attrs)
}

func replaceDocAttrs(ctx context.Context, tx *sql.Tx, seq int64, attrs map[string]string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_attrs WHERE doc_seq=?`, seq); err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_attrs (doc_seq, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for name, value := range attrs {
		if name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, seq, name, value); err != nil {
			return err
		}
	}
	return nil
}

// Documents loads every stored document in insertion order, tokenizing the
// clean text and attaching attributes. The raw text is kept as the "text"
// attribute, matching the CSV reader.
func (s *Store) Documents(ctx context.Context) ([]corpus.Document, error) {
	attrs, err := s.loadAttrs(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT seq, id, COALESCE(text, ''), clean_text FROM documents ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []corpus.Document
	for rows.Next() {
		var (
			seq             int64
			id, text, clean string
		)
		if err := rows.Scan(&seq, &id, &text, &clean); err != nil {
			return nil, err
		}
		a := attrs[seq]
		if a == nil {
			a = make(map[string]string)
		}
		if _, ok := a["text"]; !ok {
			a["text"] = text
		}
		docs = append(docs, corpus.NewDocument(id, clean, a))
	}
	return docs, rows.Err()
}

func (s *Store) loadAttrs(ctx context.Context) (map[int64]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_seq, name, value FROM doc_attrs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]map[string]string)
	for rows.Next() {
		var (
			seq         int64
			name, value string
		)
		if err := rows.Scan(&seq, &name, &value); err != nil {
			return nil, err
		}
		if out[seq] == nil {
			out[seq] = make(map[string]string)
		}
		out[seq][name] = value
	}
	return out, rows.Err()
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}
