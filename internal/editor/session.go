/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor provides the per-document editing session: selection plus
// the manipulation verbs over a scene, with one history entry per committed
// mutation. A Session is an explicit object owned by its caller; there is no
// package-level editor state.
package editor

import (
	"log/slog"

	"github.com/google/uuid"

	"labelstudio/internal/element"
	"labelstudio/internal/history"
	applog "labelstudio/internal/log"
	"labelstudio/internal/scene"
)

// DuplicateOffset is the canonical-unit nudge applied to a duplicated
// element so the clone is visibly apart from its source.
const DuplicateOffset = 20

// Direction names the axis movement for MoveSelected.
type Direction string

const (
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
)

// Session binds a scene to a history manager and tracks the single selection.
type Session struct {
	sc       *scene.Scene
	hist     *history.Manager
	selected string
	log      *slog.Logger
}

// NewSession wires the scene's commit notifications into the history manager
// and seeds the page's present state.
func NewSession(sc *scene.Scene, hist *history.Manager) *Session {
	s := &Session{sc: sc, hist: hist, log: applog.WithComponent("editor")}
	hist.Track(sc.Page(), sc.Snapshot())
	sc.OnCommit(func(snap element.Snapshot) {
		hist.Commit(sc.Page(), snap)
	})
	return s
}

// Scene exposes the underlying canvas surface for rendering and export.
func (s *Session) Scene() *scene.Scene { return s.sc }

// Snapshot captures the committed element list of the session's page.
func (s *Session) Snapshot() element.Snapshot { return s.sc.Snapshot() }

// Selected returns the selected element id, or "" when nothing is selected.
func (s *Session) Selected() string { return s.selected }

// Select makes the element with the given id the sole selection.
func (s *Session) Select(id string) error {
	if _, err := s.sc.ByID(id); err != nil {
		return err
	}
	s.selected = id
	return nil
}

// ClearSelection drops the selection. Selection changes are not mutations and
// never create history entries.
func (s *Session) ClearSelection() { s.selected = "" }

// Click applies the selection contract: an element hit becomes the sole
// selection, empty space (or a guide, which can never be hit) clears it.
func (s *Session) Click(p scene.Pt) (element.Element, bool) {
	el, ok := s.sc.HitTest(p)
	if !ok {
		s.selected = ""
		return element.Element{}, false
	}
	s.selected = el.ID
	return el, true
}

// AddElement creates an element at its type's deterministic default position,
// auto-selects it and commits one history entry.
func (s *Session) AddElement(t element.Type, d element.Defaults) (element.Element, error) {
	d = s.placeDefaults(t, d)
	el, err := element.New(t, d)
	if err != nil {
		return element.Element{}, err
	}
	if err := s.sc.Add(el); err != nil {
		return element.Element{}, err
	}
	s.selected = el.ID
	s.sc.Commit()
	s.log.Debug("element added", slog.String("id", el.ID), slog.String("type", string(t)))
	el, _ = s.sc.ByID(el.ID)
	return el, nil
}

// placeDefaults fills unset geometry with the per-type anchor: text is
// margin-relative near the top-left, shapes and images are page-centered.
// An explicit position, including (0,0) with Placed set, is kept as-is.
func (s *Session) placeDefaults(t element.Type, d element.Defaults) element.Defaults {
	pw, ph := s.sc.PageSize()
	d.Page = s.sc.Page()
	if d.Placed || d.X != 0 || d.Y != 0 {
		return d
	}
	switch t {
	case element.TypeText:
		d.X, d.Y = 20, 40
	default:
		w, h := d.Width, d.Height
		d.X = (pw - w) / 2
		d.Y = (ph - h) / 2
	}
	return d
}

// MoveSelected nudges the selection along one axis. Without a selection it is
// a silent no-op per the select-then-act contract.
func (s *Session) MoveSelected(dir Direction, amount float64) {
	el, ok := s.selectedElement()
	if !ok {
		return
	}
	switch dir {
	case DirLeft:
		el.X -= amount
	case DirRight:
		el.X += amount
	case DirUp:
		el.Y -= amount
	case DirDown:
		el.Y += amount
	default:
		return
	}
	if err := s.sc.Update(el); err != nil {
		s.log.Warn("move failed", slog.String("id", el.ID), slog.Any("err", err))
		return
	}
	s.sc.Commit()
}

// UpdateSelectedProperty sets one style or content field on the selection.
// Unknown properties and illegal property/type combinations are rejected with
// a ValidationError; no selection means no-op, never an error.
func (s *Session) UpdateSelectedProperty(name string, value any) error {
	el, ok := s.selectedElement()
	if !ok {
		return nil
	}
	if err := applyProperty(&el, name, value); err != nil {
		return err
	}
	if err := s.sc.Update(el); err != nil {
		return err
	}
	s.sc.Commit()
	return nil
}

// DeleteSelected removes the selection. Guides are unreachable here because
// they can never be selected in the first place.
func (s *Session) DeleteSelected() {
	el, ok := s.selectedElement()
	if !ok {
		return
	}
	if err := s.sc.Remove(el.ID); err != nil {
		s.log.Warn("delete failed", slog.String("id", el.ID), slog.Any("err", err))
		return
	}
	s.selected = ""
	s.sc.Commit()
}

// DuplicateSelected clones the selection with a fresh id at a +20,+20 offset
// and makes the clone the new selection.
func (s *Session) DuplicateSelected() (element.Element, bool) {
	el, ok := s.selectedElement()
	if !ok {
		return element.Element{}, false
	}
	clone := el
	clone.ID = uuid.NewString()
	clone.X += DuplicateOffset
	clone.Y += DuplicateOffset
	if err := s.sc.Add(clone); err != nil {
		s.log.Warn("duplicate failed", slog.String("id", el.ID), slog.Any("err", err))
		return element.Element{}, false
	}
	s.selected = clone.ID
	s.sc.Commit()
	clone, _ = s.sc.ByID(clone.ID)
	return clone, true
}

// BringForward swaps the selection with its next front neighbor. At the front
// boundary nothing changes and no history entry is created.
func (s *Session) BringForward() { s.swapZ(+1) }

// SendBackward swaps the selection with its next back neighbor.
func (s *Session) SendBackward() { s.swapZ(-1) }

func (s *Session) swapZ(delta int) {
	el, ok := s.selectedElement()
	if !ok {
		return
	}
	moved, err := s.sc.SwapZ(el.ID, delta)
	if err != nil {
		s.log.Warn("reorder failed", slog.String("id", el.ID), slog.Any("err", err))
		return
	}
	if moved {
		s.sc.Commit()
	}
}

// Undo rehydrates the scene from the previous snapshot. A stale selection id
// is cleared rather than surfaced as an error.
func (s *Session) Undo() bool {
	snap, ok := s.hist.Undo(s.sc.Page())
	if !ok {
		return false
	}
	s.sc.LoadSnapshot(snap)
	s.dropStaleSelection()
	return true
}

// Redo is the symmetric inverse of Undo.
func (s *Session) Redo() bool {
	snap, ok := s.hist.Redo(s.sc.Page())
	if !ok {
		return false
	}
	s.sc.LoadSnapshot(snap)
	s.dropStaleSelection()
	return true
}

func (s *Session) dropStaleSelection() {
	if s.selected == "" {
		return
	}
	if _, err := s.sc.ByID(s.selected); err != nil {
		s.selected = ""
	}
}

func (s *Session) selectedElement() (element.Element, bool) {
	if s.selected == "" {
		return element.Element{}, false
	}
	el, err := s.sc.ByID(s.selected)
	if err != nil {
		// stale id, e.g. after an undo that removed the element
		s.selected = ""
		return element.Element{}, false
	}
	return el, true
}
