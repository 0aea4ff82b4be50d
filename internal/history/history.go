/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history implements undo/redo over whole-scene snapshots with a
// past/present/future model, scoped per page. Entries are complete copies,
// not diffs; layouts hold tens of elements so O(n) memory per step is fine.
package history

import "labelstudio/internal/element"

// Config controls depth safeguards.
type Config struct {
	// MaxDepth limits past entries per page; oldest are pruned. 0 = unlimited.
	MaxDepth int
}

type stack struct {
	past    []element.Snapshot
	present element.Snapshot
	future  []element.Snapshot
}

// Manager keeps one undo/redo stack per page. Switching pages neither shares
// nor consumes history across pages.
type Manager struct {
	cfg   Config
	pages map[int]*stack
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, pages: make(map[int]*stack)}
}

func (m *Manager) page(n int) *stack {
	st, ok := m.pages[n]
	if !ok {
		st = &stack{}
		m.pages[n] = st
	}
	return st
}

// Track seeds the present state for a page without creating an undo entry.
// Call it once when a page's scene is first hydrated.
func (m *Manager) Track(page int, snap element.Snapshot) {
	st := m.page(page)
	st.present = snap.Clone()
	st.past = nil
	st.future = nil
}

// Commit records one discrete mutation: present moves to past, the new
// snapshot becomes present, and any redo entries are discarded.
func (m *Manager) Commit(page int, snap element.Snapshot) {
	st := m.page(page)
	st.past = append(st.past, st.present)
	st.present = snap.Clone()
	st.future = nil
	if m.cfg.MaxDepth > 0 && len(st.past) > m.cfg.MaxDepth {
		drop := len(st.past) - m.cfg.MaxDepth
		st.past = append([]element.Snapshot{}, st.past[drop:]...)
	}
}

// Undo steps the page back one entry. On empty history it reports false and
// changes nothing; it never errors.
func (m *Manager) Undo(page int) (element.Snapshot, bool) {
	st := m.page(page)
	if len(st.past) == 0 {
		return element.Snapshot{}, false
	}
	st.future = append(st.future, st.present)
	st.present = st.past[len(st.past)-1]
	st.past = st.past[:len(st.past)-1]
	return st.present.Clone(), true
}

// Redo is the symmetric inverse of Undo; no-op when nothing was undone.
func (m *Manager) Redo(page int) (element.Snapshot, bool) {
	st := m.page(page)
	if len(st.future) == 0 {
		return element.Snapshot{}, false
	}
	st.past = append(st.past, st.present)
	st.present = st.future[len(st.future)-1]
	st.future = st.future[:len(st.future)-1]
	return st.present.Clone(), true
}

// CanUndo reports whether the page has undoable entries.
func (m *Manager) CanUndo(page int) bool { return len(m.page(page).past) > 0 }

// CanRedo reports whether the page has redoable entries.
func (m *Manager) CanRedo(page int) bool { return len(m.page(page).future) > 0 }

// Present returns the page's current tracked snapshot.
func (m *Manager) Present(page int) element.Snapshot { return m.page(page).present.Clone() }

// ClearPage drops all history for a page, e.g. on template reset.
func (m *Manager) ClearPage(page int) { delete(m.pages, page) }

// Stats returns tracked pages and total stored entries for diagnostics.
func (m *Manager) Stats() (pages, entries int) {
	pages = len(m.pages)
	for _, st := range m.pages {
		entries += len(st.past) + len(st.future) + 1
	}
	return pages, entries
}
