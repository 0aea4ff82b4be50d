/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

import (
	"errors"
	"testing"
)

func TestNewAssignsUniqueIDs(t *testing.T) {
	a, err := New(TypeText, Defaults{Content: "Size M"})
	if err != nil {
		t.Fatalf("New text: %v", err)
	}
	b, err := New(TypeText, Defaults{Content: "Size L"})
	if err != nil {
		t.Fatalf("New text: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestValidationPerType(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		d    Defaults
		ok   bool
	}{
		{"text empty content", TypeText, Defaults{Content: "   "}, false},
		{"text ok", TypeText, Defaults{Content: "Invoice No: FF-Q-001"}, true},
		{"rect no size", TypeRect, Defaults{}, false},
		{"rect ok", TypeRect, Defaults{Width: 40, Height: 20}, true},
		{"line negative", TypeLine, Defaults{Width: -5, Height: 1}, false},
		{"circle ok", TypeCircle, Defaults{Width: 30, Height: 30}, true},
		{"image no ref", TypeImage, Defaults{}, false},
		{"barcode ok", TypeBarcode, Defaults{Content: "8901234567890", Width: 120, Height: 40}, true},
		{"unknown type", Type("blob"), Defaults{}, false},
	}
	for _, tc := range cases {
		_, err := New(tc.typ, tc.d)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
			}
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	txt, _ := New(TypeText, Defaults{X: 14, Y: 55, Content: "Invoice No: FF-Q-001", Style: Style{FontSize: 10, FontWeight: "bold", TextAlign: "right", Fill: "#102030", Opacity: 1}})
	bc, _ := New(TypeBarcode, Defaults{X: 5, Y: 80, Width: 120, Height: 40, Content: "code128:FF-Q-001"})
	rect, _ := New(TypeRect, Defaults{X: 0, Y: 0, Width: 200, Height: 100})
	s := Snapshot{Page: 2, Elements: []Element{rect, txt, bc}}
	s.Normalize()

	blob, err := EncodeSnapshot(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(s) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", s, got)
	}
	if got.Elements[1].Style.FontWeight != "bold" || got.Elements[1].X != 14 {
		t.Fatalf("style/geometry lost in round trip: %+v", got.Elements[1])
	}
}

func TestDecodeRejectsMalformedElements(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`{"page":0,"elements":[{"id":"x","type":"text","content":""}]}`)); err == nil {
		t.Fatalf("expected validation failure for empty text content")
	}
	if _, err := DecodeSnapshot([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode failure for malformed json")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	el, _ := New(TypeRect, Defaults{Width: 10, Height: 10})
	s := Snapshot{Elements: []Element{el}}
	cp := s.Clone()
	cp.Elements[0].X = 99
	if s.Elements[0].X == 99 {
		t.Fatalf("clone aliases original element slice")
	}
}
