/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"strings"

	"labelstudio/internal/element"
)

// The property table is the enumerated, typed surface for restyling: each
// entry names the element types it applies to and coerces/validates the
// incoming value.

type propSpec struct {
	types map[element.Type]bool
	apply func(*element.Element, any) bool // false = wrong value type/range
}

func allTypes() map[element.Type]bool {
	m := make(map[element.Type]bool, len(element.Types))
	for _, t := range element.Types {
		m[t] = true
	}
	return m
}

func typeSet(ts ...element.Type) map[element.Type]bool {
	m := make(map[element.Type]bool, len(ts))
	for _, t := range ts {
		m[t] = true
	}
	return m
}

var propTable = map[string]propSpec{
	"x": {allTypes(), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if ok {
			e.X = f
		}
		return ok
	}},
	"y": {allTypes(), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if ok {
			e.Y = f
		}
		return ok
	}},
	"width": {typeSet(element.TypeLine, element.TypeRect, element.TypeCircle, element.TypeImage, element.TypeBarcode), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if !ok || f <= 0 {
			return false
		}
		e.Width = f
		return true
	}},
	"height": {typeSet(element.TypeLine, element.TypeRect, element.TypeCircle, element.TypeImage, element.TypeBarcode), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if !ok || f <= 0 {
			return false
		}
		e.Height = f
		return true
	}},
	"content": {typeSet(element.TypeText, element.TypeImage, element.TypeBarcode), func(e *element.Element, v any) bool {
		s, ok := asString(v)
		if !ok || strings.TrimSpace(s) == "" {
			return false
		}
		e.Content = s
		return true
	}},
	"fontSize": {typeSet(element.TypeText), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if !ok || f <= 0 {
			return false
		}
		e.Style.FontSize = f
		return true
	}},
	"fontWeight": {typeSet(element.TypeText), func(e *element.Element, v any) bool {
		s, ok := asString(v)
		if !ok || (s != "normal" && s != "bold") {
			return false
		}
		e.Style.FontWeight = s
		return true
	}},
	"fontStyle": {typeSet(element.TypeText), func(e *element.Element, v any) bool {
		s, ok := asString(v)
		if !ok || (s != "normal" && s != "italic") {
			return false
		}
		e.Style.FontStyle = s
		return true
	}},
	"textAlign": {typeSet(element.TypeText), func(e *element.Element, v any) bool {
		s, ok := asString(v)
		if !ok || (s != "left" && s != "center" && s != "right") {
			return false
		}
		e.Style.TextAlign = s
		return true
	}},
	"fill": {typeSet(element.TypeText, element.TypeRect, element.TypeCircle), func(e *element.Element, v any) bool {
		s, ok := asString(v)
		if !ok || !validHexColor(s) {
			return false
		}
		e.Style.Fill = s
		return true
	}},
	"stroke": {typeSet(element.TypeLine, element.TypeRect, element.TypeCircle), func(e *element.Element, v any) bool {
		s, ok := asString(v)
		if !ok || !validHexColor(s) {
			return false
		}
		e.Style.Stroke = s
		return true
	}},
	"strokeWidth": {typeSet(element.TypeLine, element.TypeRect, element.TypeCircle), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if !ok || f < 0 {
			return false
		}
		e.Style.StrokeWidth = f
		return true
	}},
	"opacity": {allTypes(), func(e *element.Element, v any) bool {
		f, ok := asFloat(v)
		if !ok || f < 0 || f > 1 {
			return false
		}
		e.Style.Opacity = f
		return true
	}},
}

func applyProperty(el *element.Element, name string, value any) error {
	spec, ok := propTable[name]
	if !ok {
		return &element.ValidationError{ID: el.ID, Type: string(el.Type), Property: name, Reason: "unknown property"}
	}
	if !spec.types[el.Type] {
		return &element.ValidationError{ID: el.ID, Type: string(el.Type), Property: name, Reason: "property not applicable to this element type"}
	}
	cp := *el
	if !spec.apply(&cp, value) {
		return &element.ValidationError{ID: el.ID, Type: string(el.Type), Property: name, Reason: "value has wrong type or is out of range"}
	}
	if err := cp.Validate(); err != nil {
		return err
	}
	*el = cp
	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
