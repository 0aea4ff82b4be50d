/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the live in-memory representation of the currently
// displayed page: the ordered element list, the non-content guide overlay,
// hit-testing and the canonical-to-display unit conversion. A scene has a
// single writer, the owning editor session; it is not safe for concurrent use
// and does not need to be.
package scene

import (
	"fmt"

	"labelstudio/internal/element"
)

// Pt is a point in canonical pixels.
type Pt struct{ X, Y float64 }

// CommitFunc receives exactly one notification per discrete, committed
// mutation. Intermediate drag frames are staged and never reach it.
type CommitFunc func(element.Snapshot)

// Scene is the canvas surface for one page.
type Scene struct {
	page       int
	pageW      float64 // canonical px
	pageH      float64
	scale      float64 // display units per canonical px
	elements   []element.Element
	guides     []Guide
	showGuides bool
	onCommit   CommitFunc
	staged     bool
}

// New creates a scene for the given page with canonical page dimensions.
// Guides are derived from the page size and the given margin.
func New(page int, pageW, pageH, margin float64) *Scene {
	s := &Scene{
		page:       page,
		pageW:      pageW,
		pageH:      pageH,
		scale:      1,
		showGuides: true,
	}
	s.guides = buildGuides(pageW, pageH, margin)
	return s
}

// OnCommit registers the committed-change listener. At most one listener is
// supported; the editor session owns it.
func (s *Scene) OnCommit(fn CommitFunc) { s.onCommit = fn }

// Page returns the page number this scene displays.
func (s *Scene) Page() int { return s.page }

// PageSize returns canonical page dimensions.
func (s *Scene) PageSize() (w, h float64) { return s.pageW, s.pageH }

// SetScale updates the display scale factor (zoom or physical-unit mapping).
// Stored coordinates are never rewritten by a scale change.
func (s *Scene) SetScale(scale float64) {
	if scale > 0 {
		s.scale = scale
	}
}

// Scale returns the current display scale factor.
func (s *Scene) Scale() float64 { return s.scale }

// ToDisplay converts a canonical point to display coordinates.
func (s *Scene) ToDisplay(p Pt) Pt { return Pt{X: p.X * s.scale, Y: p.Y * s.scale} }

// ToCanonical converts a display point back to canonical coordinates.
func (s *Scene) ToCanonical(p Pt) Pt { return Pt{X: p.X / s.scale, Y: p.Y / s.scale} }

// Elements returns a copy of the ordered element list (index = z-order).
func (s *Scene) Elements() []element.Element {
	out := make([]element.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Len returns the number of content elements; guides are not counted.
func (s *Scene) Len() int { return len(s.elements) }

// ByID returns the element with the given id.
func (s *Scene) ByID(id string) (element.Element, error) {
	for _, el := range s.elements {
		if el.ID == id {
			return el, nil
		}
	}
	return element.Element{}, &NotFoundError{ID: id, Page: s.page}
}

// Add appends el at the front of the z-order.
func (s *Scene) Add(el element.Element) error {
	if err := el.Validate(); err != nil {
		return err
	}
	if _, err := s.ByID(el.ID); err == nil {
		return fmt.Errorf("add element: duplicate id %s", el.ID)
	}
	el.Page = s.page
	s.elements = append(s.elements, el)
	s.renumber()
	return nil
}

// Update replaces the stored element with the same id in place, keeping its
// z-order position.
func (s *Scene) Update(el element.Element) error {
	if err := el.Validate(); err != nil {
		return err
	}
	for i := range s.elements {
		if s.elements[i].ID == el.ID {
			el.Page = s.page
			el.ZOrder = i
			s.elements[i] = el
			return nil
		}
	}
	return &NotFoundError{ID: el.ID, Page: s.page}
}

// Remove deletes the element with the given id.
func (s *Scene) Remove(id string) error {
	for i := range s.elements {
		if s.elements[i].ID == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			s.renumber()
			return nil
		}
	}
	return &NotFoundError{ID: id, Page: s.page}
}

// SwapZ exchanges the z-order of the element with its neighbor. delta must be
// +1 (toward front) or -1 (toward back). At a boundary it reports false and
// changes nothing.
func (s *Scene) SwapZ(id string, delta int) (bool, error) {
	idx := -1
	for i := range s.elements {
		if s.elements[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, &NotFoundError{ID: id, Page: s.page}
	}
	j := idx + delta
	if j < 0 || j >= len(s.elements) {
		return false, nil
	}
	s.elements[idx], s.elements[j] = s.elements[j], s.elements[idx]
	s.renumber()
	return true, nil
}

// HitTest returns the topmost element whose bounds contain the canonical
// point. Guides are invisible to hit-testing by construction: they are not in
// the element list at all.
func (s *Scene) HitTest(p Pt) (element.Element, bool) {
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i].Contains(p.X, p.Y) {
			return s.elements[i], true
		}
	}
	return element.Element{}, false
}

// Stage marks the scene as carrying uncommitted interactive edits (mid-drag
// frames). Commit is the only way out of the staged state.
func (s *Scene) Stage() { s.staged = true }

// Staged reports whether uncommitted edits are pending.
func (s *Scene) Staged() bool { return s.staged }

// Commit finalizes the current state as one discrete change and fires the
// committed notification exactly once.
func (s *Scene) Commit() {
	s.staged = false
	if s.onCommit != nil {
		s.onCommit(s.Snapshot())
	}
}

// Snapshot captures the full element state of this page. Guides are excluded.
func (s *Scene) Snapshot() element.Snapshot {
	snap := element.Snapshot{Page: s.page, Elements: make([]element.Element, len(s.elements))}
	copy(snap.Elements, s.elements)
	snap.Normalize()
	return snap
}

// LoadSnapshot rehydrates the scene from a snapshot (undo, redo, template
// load). It does not fire a commit; the caller decides history semantics.
func (s *Scene) LoadSnapshot(snap element.Snapshot) {
	s.elements = make([]element.Element, len(snap.Elements))
	copy(s.elements, snap.Elements)
	for i := range s.elements {
		s.elements[i].Page = s.page
	}
	s.renumber()
	s.staged = false
}

func (s *Scene) renumber() {
	for i := range s.elements {
		s.elements[i].ZOrder = i
	}
}
