/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import "labelstudio/internal/element"

// TextAlign mirrors the element anchor for the document writer.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// StyleAttr is the single style attribute a text run can carry on the
// physical-document path. The interactive canvas allows bold and italic
// together; this writer can express only one per run, bold taking precedence.
type StyleAttr string

const (
	StyleNone   StyleAttr = ""
	StyleBold   StyleAttr = "B"
	StyleItalic StyleAttr = "I"
)

// TextInstruction is one placement command for the document-rendering
// collaborator: put Content at (X, Y) with the given size, style and anchor.
// Y is the baseline, one font size below the element's stored Y.
type TextInstruction struct {
	Content  string
	X, Y     float64
	FontSize float64
	Style    StyleAttr
	Align    TextAlign
}

// BuildTextInstructions converts a snapshot's text elements, in z-order, into
// placement instructions. Non-text elements are left to the shape path of the
// document writer; they are never silently dropped.
func BuildTextInstructions(snap element.Snapshot) []TextInstruction {
	var out []TextInstruction
	for _, el := range snap.Elements {
		if el.Type != element.TypeText {
			continue
		}
		fs := el.Style.FontSize
		if fs <= 0 {
			fs = 12
		}
		out = append(out, TextInstruction{
			Content:  el.Content,
			X:        el.X,
			Y:        el.Y + fs,
			FontSize: fs,
			Style:    styleAttr(el.Style),
			Align:    align(el.Style.TextAlign),
		})
	}
	return out
}

func styleAttr(st element.Style) StyleAttr {
	switch {
	case st.FontWeight == "bold":
		return StyleBold
	case st.FontStyle == "italic":
		return StyleItalic
	default:
		return StyleNone
	}
}

func align(s string) TextAlign {
	switch s {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		return AlignLeft
	}
}
