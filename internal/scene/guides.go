/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// GuideKind distinguishes the page border from the margin frame.
type GuideKind string

const (
	GuideBorder GuideKind = "border"
	GuideMargin GuideKind = "margin"
)

// Guide is a non-content overlay rectangle. Guides live only inside the
// scene: they are excluded from hit-testing, selection, snapshots and export.
type Guide struct {
	Kind GuideKind
	X, Y float64
	W, H float64
}

func buildGuides(pageW, pageH, margin float64) []Guide {
	gs := []Guide{{Kind: GuideBorder, X: 0, Y: 0, W: pageW, H: pageH}}
	if margin > 0 && 2*margin < pageW && 2*margin < pageH {
		gs = append(gs, Guide{Kind: GuideMargin, X: margin, Y: margin, W: pageW - 2*margin, H: pageH - 2*margin})
	}
	return gs
}

// Guides returns the overlay rectangles for drawing when visible.
func (s *Scene) Guides() []Guide {
	out := make([]Guide, len(s.guides))
	copy(out, s.guides)
	return out
}

// GuidesVisible reports the current guide overlay toggle.
func (s *Scene) GuidesVisible() bool { return s.showGuides }

// SetGuidesVisible toggles the guide overlay. Export uses this around a
// render and restores the prior value unconditionally.
func (s *Scene) SetGuidesVisible(v bool) { s.showGuides = v }
