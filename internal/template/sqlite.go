/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	applog "labelstudio/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// language=SQL
// dialect=SQLite
const createTemplatesSQL = `CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	page_width REAL NOT NULL,
	page_height REAL NOT NULL,
	orientation TEXT NOT NULL,
	include_logo INTEGER NOT NULL DEFAULT 0,
	logo_ref TEXT NOT NULL DEFAULT '',
	snapshot BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// language=SQL
// dialect=SQLite
const upsertTemplateSQL = `INSERT INTO templates(id, name, page_width, page_height, orientation, include_logo, logo_ref, snapshot, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		page_width = excluded.page_width,
		page_height = excluded.page_height,
		orientation = excluded.orientation,
		include_logo = excluded.include_logo,
		logo_ref = excluded.logo_ref,
		snapshot = excluded.snapshot,
		updated_at = excluded.updated_at`

// language=SQL
// dialect=SQLite
const selectTemplateSQL = `SELECT id, name, page_width, page_height, orientation, include_logo, logo_ref, snapshot, updated_at
	FROM templates WHERE id = ?`

// language=SQL
// dialect=SQLite
const listTemplatesSQL = `SELECT id, name, page_width, page_height, orientation, include_logo, logo_ref, snapshot, updated_at
	FROM templates ORDER BY updated_at DESC`

// SQLiteStore keeps templates in a local embedded database, used as the
// offline cache when the shared backend is unreachable.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens (creating if needed) the template database at dir/labels.sqlite
// with WAL mode and a busy timeout.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	l := applog.WithComponent("template")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	path := filepath.ToSlash(filepath.Join(dir, "labels.sqlite"))
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTemplatesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure templates table: %w", err)
	}
	l.Debug("sqlite template store ready", slog.String("path", path))
	return &SQLiteStore{db: db, log: l}, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save upserts the template, assigning an id when it has none. Saving twice
// with the same id overwrites in place.
func (s *SQLiteStore) Save(ctx context.Context, t Template) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.put(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Update overwrites an existing record; it is an error if id is empty.
func (s *SQLiteStore) Update(ctx context.Context, id string, t Template) error {
	if id == "" {
		return &PersistenceError{Op: "update", Name: t.Name, Reason: "missing id"}
	}
	t.ID = id
	return s.put(ctx, t)
}

func (s *SQLiteStore) put(ctx context.Context, t Template) error {
	blob, err := encodeSnapshot(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertTemplateSQL,
		t.ID, t.Name, t.PageWidth, t.PageHeight, t.Orientation,
		boolToInt(t.IncludeLogo), t.LogoRef, blob, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return &PersistenceError{Op: "save", ID: t.ID, Reason: "write record", Err: err}
	}
	return nil
}

// Load fetches and validates one template.
func (s *SQLiteStore) Load(ctx context.Context, id string) (Template, error) {
	row := s.db.QueryRowContext(ctx, selectTemplateSQL, id)
	t, err := scanTemplate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, &PersistenceError{Op: "load", ID: id, Reason: "not found"}
	}
	if err != nil {
		return Template{}, &PersistenceError{Op: "load", ID: id, Reason: "read record", Err: err}
	}
	return t, nil
}

// List returns all templates, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx, listTemplatesSQL)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Reason: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()
	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, &PersistenceError{Op: "list", Reason: "scan row", Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Reason: "iterate rows", Err: err}
	}
	return out, nil
}

// Delete removes a template; deleting an absent id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Reason: "delete record", Err: err}
	}
	return nil
}

func scanTemplate(scan func(dest ...any) error) (Template, error) {
	var (
		t       Template
		logo    int
		blob    []byte
		updated string
	)
	if err := scan(&t.ID, &t.Name, &t.PageWidth, &t.PageHeight, &t.Orientation, &logo, &t.LogoRef, &blob, &updated); err != nil {
		return Template{}, err
	}
	t.IncludeLogo = logo != 0
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		t.UpdatedAt = ts
	}
	snap, err := decodeSnapshot(t.ID, blob)
	if err != nil {
		return Template{}, err
	}
	t.Snapshot = snap
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
