package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/gerunddev/creolewiki/internal/page"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	name       TEXT    NOT NULL,
	revision   INTEGER NOT NULL,
	content    TEXT    NOT NULL,
	attributes TEXT    NOT NULL DEFAULT '{}',
	directives TEXT    NOT NULL DEFAULT '{}',
	PRIMARY KEY (name, revision)
);

CREATE TABLE IF NOT EXISTS attachments (
	page TEXT NOT NULL,
	name TEXT NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (page, name)
);
`

// SQLite keeps every revision of every page in a SQLite database
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a database. path may be ":memory:".
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Put stores a new revision of a page and returns its number
func (s *SQLite) Put(ctx context.Context, info page.Info) (int64, error) {
	attributes, err := json.Marshal(orEmpty(info.Attributes))
	if err != nil {
		return 0, fmt.Errorf("failed to encode attributes: %w", err)
	}
	directives, err := json.Marshal(orEmpty(info.Directives))
	if err != nil {
		return 0, fmt.Errorf("failed to encode directives: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var revision int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(revision), 0) + 1 FROM pages WHERE name = ?`, info.Name).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("failed to read revision: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (name, revision, content, attributes, directives) VALUES (?, ?, ?, ?, ?)`,
		info.Name, revision, info.Content, string(attributes), string(directives))
	if err != nil {
		return 0, fmt.Errorf("failed to insert page: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit page: %w", err)
	}
	return revision, nil
}

// Attach stores or replaces an attachment of a page
func (s *SQLite) Attach(ctx context.Context, ref page.Reference, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO attachments (page, name, data) VALUES (?, ?, ?)`,
		ref.Name, name, data)
	if err != nil {
		return fmt.Errorf("failed to store attachment: %w", err)
	}
	return nil
}

func (s *SQLite) List() ([]page.Reference, error) {
	rows, err := s.db.Query(`SELECT DISTINCT name FROM pages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var refs []page.Reference
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		refs = append(refs, page.Ref(name))
	}
	return refs, rows.Err()
}

func (s *SQLite) Get(ref page.Reference, revision int64) (page.Info, error) {
	query := `SELECT revision, content, attributes, directives FROM pages WHERE name = ? ORDER BY revision DESC LIMIT 1`
	args := []any{ref.Name}
	if revision >= 0 {
		query = `SELECT revision, content, attributes, directives FROM pages WHERE name = ? AND revision = ?`
		args = append(args, revision)
	}

	info := page.Info{Reference: ref}
	var attributes, directives string
	err := s.db.QueryRow(query, args...).Scan(&info.Revision, &info.Content, &attributes, &directives)
	if errors.Is(err, sql.ErrNoRows) {
		return page.Info{}, fmt.Errorf("%w: %s", page.ErrNotFound, ref.Name)
	}
	if err != nil {
		return page.Info{}, fmt.Errorf("failed to read page: %w", err)
	}

	if err := json.Unmarshal([]byte(attributes), &info.Attributes); err != nil {
		return page.Info{}, fmt.Errorf("failed to decode attributes: %w", err)
	}
	if err := json.Unmarshal([]byte(directives), &info.Directives); err != nil {
		return page.Info{}, fmt.Errorf("failed to decode directives: %w", err)
	}
	return info, nil
}

func (s *SQLite) Exists(ref page.Reference) (bool, error) {
	return s.exists(`SELECT 1 FROM pages WHERE name = ? LIMIT 1`, ref.Name)
}

func (s *SQLite) AttachmentExists(ref page.Reference, name string) (bool, error) {
	return s.exists(`SELECT 1 FROM attachments WHERE page = ? AND name = ?`, ref.Name, name)
}

// Attachments lists the attachment names of a page
func (s *SQLite) Attachments(ref page.Reference) ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM attachments WHERE page = ? ORDER BY name`, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// OpenAttachment returns the content of an attachment
func (s *SQLite) OpenAttachment(ref page.Reference, name string) (io.ReadCloser, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM attachments WHERE page = ? AND name = ?`, ref.Name, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", page.ErrNotFound, ref.Name, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *SQLite) exists(query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query store: %w", err)
	}
	return true, nil
}

func orEmpty[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return M{}
	}
	return m
}
