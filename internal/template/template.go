/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package template persists label/document templates: page metadata plus an
// opaque scene snapshot. Stores are awaited-but-not-retried collaborators;
// retry/backoff belongs to the caller and the in-memory scene stays
// authoritative until a save succeeds.
package template

import (
	"context"
	"time"

	"labelstudio/internal/element"
)

// Template is the persisted record. Page dimensions are physical millimeters;
// the snapshot keeps its own canonical pixel geometry.
type Template struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	PageWidth   float64          `json:"pageWidth"`
	PageHeight  float64          `json:"pageHeight"`
	Orientation string           `json:"orientation"` // "portrait" | "landscape"
	IncludeLogo bool             `json:"includeLogo"`
	LogoRef     string           `json:"logoRef,omitempty"`
	Snapshot    element.Snapshot `json:"snapshot"`
	UpdatedAt   time.Time        `json:"updatedAt,omitempty"`
}

// Store is the persistence contract. Save assigns and returns an id when the
// template has none; Update and repeated Save with the same id are idempotent
// overwrites, never appends.
type Store interface {
	Save(ctx context.Context, t Template) (string, error)
	Load(ctx context.Context, id string) (Template, error)
	Update(ctx context.Context, id string, t Template) error
	List(ctx context.Context) ([]Template, error)
	Delete(ctx context.Context, id string) error
}

// encodeSnapshot serializes and schema-validates the snapshot blob.
func encodeSnapshot(t Template) ([]byte, error) {
	blob, err := element.EncodeSnapshot(t.Snapshot)
	if err != nil {
		return nil, &PersistenceError{Op: "save", Name: t.Name, Reason: "encode snapshot", Err: err}
	}
	if err := ValidateSnapshotJSON(blob); err != nil {
		return nil, err
	}
	return blob, nil
}

// decodeSnapshot validates and parses a stored snapshot blob.
func decodeSnapshot(id string, blob []byte) (element.Snapshot, error) {
	if err := ValidateSnapshotJSON(blob); err != nil {
		return element.Snapshot{}, err
	}
	snap, err := element.DecodeSnapshot(blob)
	if err != nil {
		return element.Snapshot{}, &PersistenceError{Op: "load", ID: id, Reason: "decode snapshot", Err: err}
	}
	return snap, nil
}
