/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package element defines the typed data model for one placed graphical item
// on a label or document page: text runs, lines, rectangles, circles, images
// and barcodes. Coordinates are stored once in canonical pixels at base
// resolution; display zoom never rewrites them.
package element

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type enumerates the supported element kinds.
type Type string

const (
	TypeText    Type = "text"
	TypeLine    Type = "line"
	TypeRect    Type = "rect"
	TypeCircle  Type = "circle"
	TypeImage   Type = "image"
	TypeBarcode Type = "barcode"
)

// Types lists all valid element types in a stable order.
var Types = []Type{TypeText, TypeLine, TypeRect, TypeCircle, TypeImage, TypeBarcode}

// Valid reports whether t is a known element type.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeLine, TypeRect, TypeCircle, TypeImage, TypeBarcode:
		return true
	}
	return false
}

// Style carries the visual attributes of an element. Colors are "#rrggbb"
// strings; they are parsed where rendering happens, not here.
type Style struct {
	FontSize    float64 `json:"fontSize,omitempty"`
	FontWeight  string  `json:"fontWeight,omitempty"` // "normal" | "bold"
	FontStyle   string  `json:"fontStyle,omitempty"`  // "normal" | "italic"
	TextAlign   string  `json:"textAlign,omitempty"`  // "left" | "center" | "right"
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
}

// Element is one placed graphical unit. ZOrder mirrors the element's position
// in the owning snapshot list; the list is authoritative.
type Element struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Content string  `json:"content,omitempty"`
	Style   Style   `json:"style"`
	Page    int     `json:"page"`
	ZOrder  int     `json:"zOrder"`
}

// Defaults seeds New with initial geometry and content per element type.
// Placed marks X/Y as an explicit position so a requested (0,0) is honored
// instead of being treated as unset.
type Defaults struct {
	X, Y          float64
	Placed        bool
	Width, Height float64
	Content       string
	Style         Style
	Page          int
}

// DefaultStyle is applied where a caller supplies a zero Style.
func DefaultStyle() Style {
	return Style{
		FontSize:    12,
		FontWeight:  "normal",
		FontStyle:   "normal",
		TextAlign:   "left",
		Fill:        "#000000",
		Stroke:      "#000000",
		StrokeWidth: 1,
		Opacity:     1,
	}
}

// New creates a validated element of the given type with a fresh unique id.
func New(t Type, d Defaults) (Element, error) {
	if !t.Valid() {
		return Element{}, &ValidationError{Type: string(t), Reason: "unknown element type"}
	}
	st := d.Style
	if st == (Style{}) {
		st = DefaultStyle()
	}
	el := Element{
		ID:      uuid.NewString(),
		Type:    t,
		X:       d.X,
		Y:       d.Y,
		Width:   d.Width,
		Height:  d.Height,
		Content: d.Content,
		Style:   st,
		Page:    d.Page,
	}
	if err := el.Validate(); err != nil {
		return Element{}, err
	}
	return el, nil
}

// Validate enforces the per-type element contract.
func (e Element) Validate() error {
	if !e.Type.Valid() {
		return &ValidationError{ID: e.ID, Type: string(e.Type), Reason: "unknown element type"}
	}
	if strings.TrimSpace(e.ID) == "" {
		return &ValidationError{Type: string(e.Type), Reason: "missing id"}
	}
	switch e.Type {
	case TypeText:
		if strings.TrimSpace(e.Content) == "" {
			return &ValidationError{ID: e.ID, Type: string(e.Type), Reason: "text requires non-empty content"}
		}
	case TypeLine, TypeRect, TypeCircle:
		if e.Width <= 0 || e.Height <= 0 {
			return &ValidationError{ID: e.ID, Type: string(e.Type), Reason: fmt.Sprintf("requires positive width/height, got %gx%g", e.Width, e.Height)}
		}
	case TypeImage, TypeBarcode:
		if strings.TrimSpace(e.Content) == "" {
			return &ValidationError{ID: e.ID, Type: string(e.Type), Reason: "requires a content reference"}
		}
	}
	return nil
}

// Bounds returns the axis-aligned canonical-space bounding box. Text uses a
// crude glyph metric; the raster backend measures precisely at render time.
func (e Element) Bounds() (x, y, w, h float64) {
	w, h = e.Width, e.Height
	if e.Type == TypeText {
		fs := e.Style.FontSize
		if fs <= 0 {
			fs = 12
		}
		if w == 0 {
			w = fs * 0.6 * float64(len(e.Content))
		}
		if h == 0 {
			h = fs * 1.2
		}
	}
	return e.X, e.Y, w, h
}

// Contains reports whether the canonical point lies inside the element bounds.
func (e Element) Contains(px, py float64) bool {
	x, y, w, h := e.Bounds()
	return px >= x && py >= y && px <= x+w && py <= y+h
}
