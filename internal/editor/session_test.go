/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"testing"

	"labelstudio/internal/element"
	"labelstudio/internal/history"
	"labelstudio/internal/scene"
)

func newTestSession(t *testing.T) (*Session, *history.Manager) {
	t.Helper()
	sc := scene.New(0, 595, 842, 14)
	h := history.NewManager(history.Config{})
	return NewSession(sc, h), h
}

func ids(els []element.Element) []string {
	out := make([]string, len(els))
	for i, e := range els {
		out[i] = e.ID
	}
	return out
}

func TestAddAutoSelectsAndCommitsOnce(t *testing.T) {
	s, h := newTestSession(t)
	el, err := s.AddElement(element.TypeText, element.Defaults{Content: "Care: wash cold"})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if s.Selected() != el.ID {
		t.Fatalf("new element not auto-selected")
	}
	if _, entries := h.Stats(); entries != 2 { // present + one past entry
		t.Fatalf("expected exactly one history entry after add, stats=%d", entries)
	}
}

func TestAddElementHonorsExplicitOrigin(t *testing.T) {
	s, _ := newTestSession(t)
	at, err := s.AddElement(element.TypeRect, element.Defaults{X: 0, Y: 0, Placed: true, Width: 40, Height: 20})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if at.X != 0 || at.Y != 0 {
		t.Fatalf("explicit (0,0) placement lost: (%g,%g)", at.X, at.Y)
	}
	// without Placed, a zero position still means "use the type anchor"
	def, err := s.AddElement(element.TypeRect, element.Defaults{Width: 40, Height: 20})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if def.X == 0 && def.Y == 0 {
		t.Fatalf("unplaced rect should land at the page-centered anchor")
	}
}

func TestRestyleSelectedBold(t *testing.T) {
	// add "Invoice No: FF-Q-001" at (14,55) fontSize 10, then set fontWeight=bold
	s, _ := newTestSession(t)
	el, err := s.AddElement(element.TypeText, element.Defaults{
		X: 14, Y: 55, Content: "Invoice No: FF-Q-001",
		Style: element.Style{FontSize: 10, FontWeight: "normal", FontStyle: "normal", TextAlign: "left", Fill: "#000000", Opacity: 1},
	})
	if err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	if err := s.UpdateSelectedProperty("fontWeight", "bold"); err != nil {
		t.Fatalf("UpdateSelectedProperty: %v", err)
	}
	got := s.Scene().Elements()[0]
	if got.Style.FontWeight != "bold" {
		t.Fatalf("fontWeight not applied: %+v", got.Style)
	}
	if got.X != 14 || got.Y != 55 || got.Content != el.Content || got.Style.FontSize != 10 {
		t.Fatalf("restyle changed unrelated fields: %+v", got)
	}
}

func TestUpdatePropertyRejectsIllegalCombos(t *testing.T) {
	s, _ := newTestSession(t)
	if _, err := s.AddElement(element.TypeRect, element.Defaults{Width: 50, Height: 30}); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	var ve *element.ValidationError
	if err := s.UpdateSelectedProperty("fontSize", 14.0); !errors.As(err, &ve) {
		t.Fatalf("fontSize on rect should be a ValidationError, got %v", err)
	}
	if err := s.UpdateSelectedProperty("sparkle", true); !errors.As(err, &ve) {
		t.Fatalf("unknown property should be a ValidationError, got %v", err)
	}
	if err := s.UpdateSelectedProperty("opacity", 4.2); !errors.As(err, &ve) {
		t.Fatalf("out-of-range opacity should be a ValidationError, got %v", err)
	}
}

func TestNoSelectionOpsAreNoops(t *testing.T) {
	s, h := newTestSession(t)
	s.MoveSelected(DirRight, 10)
	s.DeleteSelected()
	if _, ok := s.DuplicateSelected(); ok {
		t.Fatalf("duplicate without selection must report false")
	}
	s.BringForward()
	s.SendBackward()
	if err := s.UpdateSelectedProperty("fill", "#ff0000"); err != nil {
		t.Fatalf("update without selection must be a silent no-op, got %v", err)
	}
	if _, entries := h.Stats(); entries != 1 { // only the tracked present
		t.Fatalf("no-ops must not create history entries, stats=%d", entries)
	}
}

func TestMoveSelected(t *testing.T) {
	s, _ := newTestSession(t)
	el, _ := s.AddElement(element.TypeRect, element.Defaults{X: 100, Y: 100, Width: 10, Height: 10})
	s.MoveSelected(DirRight, 5)
	s.MoveSelected(DirUp, 2)
	got, err := s.Scene().ByID(el.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.X != 105 || got.Y != 98 {
		t.Fatalf("move wrong: (%g,%g)", got.X, got.Y)
	}
}

func TestDuplicateThenDeleteRestoresElementSet(t *testing.T) {
	s, _ := newTestSession(t)
	orig, _ := s.AddElement(element.TypeRect, element.Defaults{X: 30, Y: 30, Width: 40, Height: 40})
	before := s.Scene().Snapshot()

	clone, ok := s.DuplicateSelected()
	if !ok {
		t.Fatalf("duplicate failed")
	}
	if clone.ID == orig.ID {
		t.Fatalf("clone must get a fresh id")
	}
	if clone.X != orig.X+DuplicateOffset || clone.Y != orig.Y+DuplicateOffset {
		t.Fatalf("clone offset wrong: %+v", clone)
	}
	if s.Selected() != clone.ID {
		t.Fatalf("clone must become the selection")
	}

	s.DeleteSelected()
	if !s.Scene().Snapshot().Equal(before) {
		t.Fatalf("duplicate+delete must restore the pre-duplicate element set")
	}
}

func TestZOrderSwapAndUndo(t *testing.T) {
	// scene [A B C]; bringForward(A) -> [B A C]; undo -> [A B C]
	s, _ := newTestSession(t)
	a, _ := s.AddElement(element.TypeRect, element.Defaults{Width: 10, Height: 10})
	b, _ := s.AddElement(element.TypeRect, element.Defaults{Width: 10, Height: 10})
	c, _ := s.AddElement(element.TypeRect, element.Defaults{Width: 10, Height: 10})

	if err := s.Select(a.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	s.BringForward()
	got := ids(s.Scene().Elements())
	want := []string{b.ID, a.ID, c.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after bringForward want %v got %v", want, got)
		}
	}
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	got = ids(s.Scene().Elements())
	want = []string{a.ID, b.ID, c.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after undo want %v got %v", want, got)
		}
	}
}

func TestZOrderBoundaryNoops(t *testing.T) {
	s, h := newTestSession(t)
	a, _ := s.AddElement(element.TypeRect, element.Defaults{Width: 10, Height: 10})
	b, _ := s.AddElement(element.TypeRect, element.Defaults{Width: 10, Height: 10})
	_, entriesBefore := h.Stats()

	if err := s.Select(b.ID); err != nil { // front-most
		t.Fatalf("Select: %v", err)
	}
	s.BringForward()
	if err := s.Select(a.ID); err != nil { // back-most
		t.Fatalf("Select: %v", err)
	}
	s.SendBackward()

	if _, entries := h.Stats(); entries != entriesBefore {
		t.Fatalf("boundary reorders must not create history entries")
	}
	got := ids(s.Scene().Elements())
	if got[0] != a.ID || got[1] != b.ID {
		t.Fatalf("boundary reorders must not change order: %v", got)
	}
}

func TestUndoRedoAcrossOperations(t *testing.T) {
	s, _ := newTestSession(t)
	if _, err := s.AddElement(element.TypeText, element.Defaults{Content: "first"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.UpdateSelectedProperty("content", "second"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if got := s.Scene().Elements()[0].Content; got != "first" {
		t.Fatalf("undo should restore previous content, got %q", got)
	}
	if !s.Redo() {
		t.Fatalf("redo failed")
	}
	if got := s.Scene().Elements()[0].Content; got != "second" {
		t.Fatalf("redo should restore undone content, got %q", got)
	}
	// a fresh mutation after undo clears redo
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if err := s.UpdateSelectedProperty("content", "third"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Redo() {
		t.Fatalf("redo after a new mutation must be a no-op")
	}
}

func TestUndoPastAddClearsStaleSelection(t *testing.T) {
	s, _ := newTestSession(t)
	if _, err := s.AddElement(element.TypeRect, element.Defaults{Width: 10, Height: 10}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if s.Selected() != "" {
		t.Fatalf("selection must be cleared when its element is undone away")
	}
	// acting on the stale selection is a no-op, not an error
	s.DeleteSelected()
	s.MoveSelected(DirLeft, 5)
}

func TestClickSelectsAndClears(t *testing.T) {
	s, _ := newTestSession(t)
	el, _ := s.AddElement(element.TypeRect, element.Defaults{X: 10, Y: 10, Width: 50, Height: 50})
	got, ok := s.Click(scene.Pt{X: 20, Y: 20})
	if !ok || got.ID != el.ID {
		t.Fatalf("click should select the hit element")
	}
	if _, ok := s.Click(scene.Pt{X: 500, Y: 800}); ok {
		t.Fatalf("clicking empty space should miss")
	}
	if s.Selected() != "" {
		t.Fatalf("clicking empty space should clear selection")
	}
}
