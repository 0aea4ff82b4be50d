/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"math"

	"github.com/jung-kurt/gofpdf"

	"labelstudio/internal/assets"
	"labelstudio/internal/element"
	"labelstudio/internal/scene"
)

// DocumentOptions fixes the physical output size. Width/Height are in
// millimeters; Orientation is informational metadata ("portrait" or
// "landscape", already reflected in the dimensions).
type DocumentOptions struct {
	PageWidthMM  float64
	PageHeightMM float64
	Orientation  string
	Title        string
}

// Document renders the scene, guides excluded, into a printable PDF at the
// given physical page size. Text follows the placement-instruction contract;
// lines, rectangles, circles and images are carried via the writer's shape
// primitives rather than being silently dropped.
func Document(ctx context.Context, sc *scene.Scene, res *assets.Resolver, opt DocumentOptions) ([]byte, error) {
	if opt.PageWidthMM <= 0 || opt.PageHeightMM <= 0 {
		return nil, &ExportError{Target: "document", Reason: fmt.Sprintf("invalid physical page size %gx%g mm", opt.PageWidthMM, opt.PageHeightMM)}
	}
	pw, ph := sc.PageSize()
	if pw <= 0 || ph <= 0 {
		return nil, &ExportError{Target: "document", Reason: "scene has no page size"}
	}
	// canonical px -> mm, uniform on x/y per the fixed aspect template pages
	kx := opt.PageWidthMM / pw
	ky := opt.PageHeightMM / ph

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: opt.PageWidthMM, Ht: opt.PageHeightMM},
	})
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	pdf.SetAuthor("labelstudio", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: opt.PageWidthMM, Ht: opt.PageHeightMM})

	snap := sc.Snapshot()

	// shapes and images first pass in z-order, text instructions second; both
	// walks preserve relative order within their kind
	imgIdx := 0
	for _, el := range snap.Elements {
		switch el.Type {
		case element.TypeText:
			// handled below via instructions
		case element.TypeLine:
			setStroke(pdf, el)
			pdf.Line(el.X*kx, el.Y*ky, (el.X+el.Width)*kx, (el.Y+el.Height)*ky)
		case element.TypeRect:
			setStroke(pdf, el)
			setFill(pdf, el)
			pdf.Rect(el.X*kx, el.Y*ky, el.Width*kx, el.Height*ky, rectStyle(el))
		case element.TypeCircle:
			setStroke(pdf, el)
			setFill(pdf, el)
			pdf.Ellipse((el.X+el.Width/2)*kx, (el.Y+el.Height/2)*ky, el.Width/2*kx, el.Height/2*ky, 0, rectStyle(el))
		case element.TypeImage, element.TypeBarcode:
			if err := placeImage(ctx, pdf, res, el, kx, ky, imgIdx); err != nil {
				return nil, err
			}
			imgIdx++
		}
	}

	for _, in := range BuildTextInstructions(snap) {
		pdf.SetFont("Helvetica", string(in.Style), in.FontSize)
		x := in.X * kx
		switch in.Align {
		case AlignCenter:
			x -= pdf.GetStringWidth(in.Content) / 2
		case AlignRight:
			x -= pdf.GetStringWidth(in.Content)
		}
		pdf.Text(x, in.Y*ky, in.Content)
	}

	if pdf.Err() {
		return nil, &ExportError{Target: "document", Reason: "writer error", Err: pdf.Error()}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &ExportError{Target: "document", Reason: "write pdf", Err: err}
	}
	return buf.Bytes(), nil
}

func placeImage(ctx context.Context, pdf *gofpdf.Fpdf, res *assets.Resolver, el element.Element, kx, ky float64, idx int) error {
	w := int(math.Round(el.Width))
	h := int(math.Round(el.Height))
	if w <= 0 || h <= 0 {
		return nil
	}
	src := assets.Placeholder(w, h)
	if res != nil {
		if img, err := res.Resolve(ctx, el.Content); err == nil {
			src = img
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return &ExportError{Target: "document", Reason: "encode embedded image", Err: err}
	}
	name := fmt.Sprintf("el-%d", idx)
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	pdf.ImageOptions(name, el.X*kx, el.Y*ky, el.Width*kx, el.Height*ky, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

func rectStyle(el element.Element) string {
	style := ""
	if el.Style.Fill != "" {
		style += "F"
	}
	if el.Style.StrokeWidth > 0 && el.Style.Stroke != "" {
		style += "D"
	}
	if style == "" {
		style = "D"
	}
	return style
}

func setStroke(pdf *gofpdf.Fpdf, el element.Element) {
	c := parseColor(el.Style.Stroke, 1)
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	w := el.Style.StrokeWidth
	if w <= 0 {
		w = 0.2
	}
	pdf.SetLineWidth(w * 0.2646) // px to mm at 96 dpi
}

func setFill(pdf *gofpdf.Fpdf, el element.Element) {
	c := parseColor(el.Style.Fill, 1)
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
