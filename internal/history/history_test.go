/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"testing"

	"labelstudio/internal/element"
)

func snapWith(t *testing.T, content string) element.Snapshot {
	t.Helper()
	el, err := element.New(element.TypeText, element.Defaults{Content: content})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := element.Snapshot{Elements: []element.Element{el}}
	s.Normalize()
	return s
}

func TestUndoRedoLaws(t *testing.T) {
	m := NewManager(Config{})
	pg := 0
	s0 := element.Snapshot{}
	s1 := snapWith(t, "one")
	s2 := snapWith(t, "two")
	m.Track(pg, s0)
	m.Commit(pg, s1)
	m.Commit(pg, s2)

	got, ok := m.Undo(pg)
	if !ok || !got.Equal(s1) {
		t.Fatalf("undo should restore the state after the previous operation")
	}
	got, ok = m.Redo(pg)
	if !ok || !got.Equal(s2) {
		t.Fatalf("redo should restore the undone state")
	}
}

func TestUndoOnEmptyIsNoop(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo(7); ok {
		t.Fatalf("undo with empty past must report false")
	}
	if _, ok := m.Redo(7); ok {
		t.Fatalf("redo with empty future must report false")
	}
}

func TestNewMutationClearsRedo(t *testing.T) {
	m := NewManager(Config{})
	pg := 1
	m.Track(pg, element.Snapshot{})
	m.Commit(pg, snapWith(t, "a"))
	m.Commit(pg, snapWith(t, "b"))
	if _, ok := m.Undo(pg); !ok {
		t.Fatalf("undo failed")
	}
	if !m.CanRedo(pg) {
		t.Fatalf("expected redoable entry after undo")
	}
	m.Commit(pg, snapWith(t, "c"))
	if m.CanRedo(pg) {
		t.Fatalf("a new mutation after undo must clear the redo stack")
	}
}

func TestHistoryIsPageScoped(t *testing.T) {
	m := NewManager(Config{})
	m.Track(0, element.Snapshot{})
	m.Commit(0, snapWith(t, "page0"))
	if m.CanUndo(1) {
		t.Fatalf("page 1 must not see page 0 history")
	}
	if !m.CanUndo(0) {
		t.Fatalf("page 0 history lost")
	}
}

func TestMaxDepthPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxDepth: 3})
	pg := 0
	m.Track(pg, element.Snapshot{})
	for i := 0; i < 10; i++ {
		m.Commit(pg, snapWith(t, "x"))
	}
	undos := 0
	for {
		if _, ok := m.Undo(pg); !ok {
			break
		}
		undos++
	}
	if undos != 3 {
		t.Fatalf("expected depth capped at 3, got %d undos", undos)
	}
}
