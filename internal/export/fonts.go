/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// The raster backend renders text with the Go fonts so output is identical on
// every platform; no system font lookup is involved.

var (
	fontOnce sync.Once
	fontErr  error
	sfnts    map[string]*opentype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		sfnts = make(map[string]*opentype.Font, 4)
		for key, data := range map[string][]byte{
			"regular":    goregular.TTF,
			"bold":       gobold.TTF,
			"italic":     goitalic.TTF,
			"bolditalic": gobolditalic.TTF,
		} {
			f, err := opentype.Parse(data)
			if err != nil {
				fontErr = fmt.Errorf("parse %s font: %w", key, err)
				return
			}
			sfnts[key] = f
		}
	})
	return fontErr
}

// face returns a sized face for the weight/style combination. The raster
// path supports bold and italic together; only the physical-document path
// carries the single-attribute limitation.
func face(weight, style string, sizePx float64) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	key := "regular"
	switch {
	case weight == "bold" && style == "italic":
		key = "bolditalic"
	case weight == "bold":
		key = "bold"
	case style == "italic":
		key = "italic"
	}
	fc, err := opentype.NewFace(sfnts[key], &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size %s face: %w", key, err)
	}
	return fc, nil
}
