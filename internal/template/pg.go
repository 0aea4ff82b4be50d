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
	"time"

	"github.com/google/uuid"

	// Register the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// language=SQL
// dialect=PostgreSQL
const pgCreateTemplatesSQL = `CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	page_width DOUBLE PRECISION NOT NULL,
	page_height DOUBLE PRECISION NOT NULL,
	orientation TEXT NOT NULL,
	include_logo BOOLEAN NOT NULL DEFAULT FALSE,
	logo_ref TEXT NOT NULL DEFAULT '',
	snapshot JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// language=SQL
// dialect=PostgreSQL
const pgUpsertTemplateSQL = `INSERT INTO templates(id, name, page_width, page_height, orientation, include_logo, logo_ref, snapshot, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		page_width = EXCLUDED.page_width,
		page_height = EXCLUDED.page_height,
		orientation = EXCLUDED.orientation,
		include_logo = EXCLUDED.include_logo,
		logo_ref = EXCLUDED.logo_ref,
		snapshot = EXCLUDED.snapshot,
		updated_at = EXCLUDED.updated_at`

// PGStore backs templates with a shared Postgres database for multi-seat
// deployments. It satisfies the same Store contract as SQLiteStore.
type PGStore struct {
	db *sql.DB
}

// OpenPG connects with the pgx stdlib driver and ensures the schema exists.
func OpenPG(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, pgCreateTemplatesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure templates table: %w", err)
	}
	return &PGStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PGStore) Close() error { return s.db.Close() }

// Save upserts the template, assigning an id when it has none.
func (s *PGStore) Save(ctx context.Context, t Template) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.put(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Update overwrites an existing record in place.
func (s *PGStore) Update(ctx context.Context, id string, t Template) error {
	if id == "" {
		return &PersistenceError{Op: "update", Name: t.Name, Reason: "missing id"}
	}
	t.ID = id
	return s.put(ctx, t)
}

func (s *PGStore) put(ctx context.Context, t Template) error {
	blob, err := encodeSnapshot(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, pgUpsertTemplateSQL,
		t.ID, t.Name, t.PageWidth, t.PageHeight, t.Orientation,
		t.IncludeLogo, t.LogoRef, blob, time.Now().UTC())
	if err != nil {
		return &PersistenceError{Op: "save", ID: t.ID, Reason: "write record", Err: err}
	}
	return nil
}

// Load fetches and validates one template.
func (s *PGStore) Load(ctx context.Context, id string) (Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, page_width, page_height, orientation, include_logo, logo_ref, snapshot, updated_at
		 FROM templates WHERE id = $1`, id)
	t, err := s.scan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, &PersistenceError{Op: "load", ID: id, Reason: "not found"}
	}
	if err != nil {
		return Template{}, &PersistenceError{Op: "load", ID: id, Reason: "read record", Err: err}
	}
	return t, nil
}

// List returns all templates, newest first.
func (s *PGStore) List(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, page_width, page_height, orientation, include_logo, logo_ref, snapshot, updated_at
		 FROM templates ORDER BY updated_at DESC`)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Reason: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()
	var out []Template
	for rows.Next() {
		t, err := s.scan(rows.Scan)
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

// Delete removes a template; absent ids are not an error.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Reason: "delete record", Err: err}
	}
	return nil
}

func (s *PGStore) scan(scan func(dest ...any) error) (Template, error) {
	var (
		t    Template
		blob []byte
	)
	if err := scan(&t.ID, &t.Name, &t.PageWidth, &t.PageHeight, &t.Orientation, &t.IncludeLogo, &t.LogoRef, &blob, &t.UpdatedAt); err != nil {
		return Template{}, err
	}
	snap, err := decodeSnapshot(t.ID, blob)
	if err != nil {
		return Template{}, err
	}
	t.Snapshot = snap
	return t, nil
}
