/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assets resolves the payloads behind image-type elements: generated
// barcodes, logos and other raster references. Resolution is asynchronous by
// nature; elements live with a placeholder until their payload arrives and
// are never left content-less on failure.
package assets

import (
	"fmt"
	"image"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
)

// Symbology names the supported barcode families. Garment labels mostly use
// code128 for style/lot numbers and ean13 for retail.
type Symbology string

const (
	SymCode128 Symbology = "code128"
	SymEAN     Symbology = "ean13"
	SymQR      Symbology = "qr"
)

// Barcode encodes value under the given symbology and scales the symbol to
// w×h pixels.
func Barcode(value string, sym Symbology, w, h int) (image.Image, error) {
	if strings.TrimSpace(value) == "" {
		return nil, &AssetResolutionError{Ref: value, Reason: "empty barcode value"}
	}
	if w <= 0 || h <= 0 {
		return nil, &AssetResolutionError{Ref: value, Reason: fmt.Sprintf("invalid barcode size %dx%d", w, h)}
	}
	var (
		bc  barcode.Barcode
		err error
	)
	switch sym {
	case SymCode128:
		bc, err = code128.Encode(value)
	case SymEAN:
		bc, err = ean.Encode(value)
	case SymQR:
		bc, err = qr.Encode(value, qr.M, qr.Auto)
	default:
		return nil, &AssetResolutionError{Ref: value, Reason: fmt.Sprintf("unknown symbology %q", sym)}
	}
	if err != nil {
		return nil, &AssetResolutionError{Ref: value, Reason: "encode failed", Err: err}
	}
	scaled, err := barcode.Scale(bc, w, h)
	if err != nil {
		return nil, &AssetResolutionError{Ref: value, Reason: "scale failed", Err: err}
	}
	return scaled, nil
}

// ParseBarcodeRef splits an element content reference of the form
// "symbology:value" (e.g. "code128:FF-Q-001"). A bare value defaults to
// code128.
func ParseBarcodeRef(ref string) (Symbology, string) {
	if i := strings.IndexByte(ref, ':'); i > 0 {
		sym := Symbology(strings.ToLower(ref[:i]))
		switch sym {
		case SymCode128, SymEAN, SymQR:
			return sym, ref[i+1:]
		}
	}
	return SymCode128, ref
}
