/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a scene into deliverables: raster images at a
// resolution multiplier, and a physical-size printable PDF document.
package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"labelstudio/internal/assets"
	"labelstudio/internal/element"
	applog "labelstudio/internal/log"
	"labelstudio/internal/scene"
)

// RasterFormat selects the encoder for Raster.
type RasterFormat string

const (
	FormatPNG  RasterFormat = "png"
	FormatJPEG RasterFormat = "jpeg"
)

// RasterOptions controls raster export.
type RasterOptions struct {
	Format      RasterFormat
	Multiplier  float64 // output pixels per canonical pixel, e.g. 3 for 3x
	JPEGQuality int     // 0 uses the encoder default
}

// Raster renders the full scene, guides excluded, at pageSize×Multiplier and
// returns the encoded image. Guide visibility is forced off for the render
// and restored unconditionally, success or failure.
func Raster(ctx context.Context, sc *scene.Scene, res *assets.Resolver, opt RasterOptions) ([]byte, error) {
	if opt.Multiplier <= 0 {
		opt.Multiplier = 1
	}
	switch opt.Format {
	case FormatPNG, FormatJPEG:
	default:
		return nil, &ExportError{Target: "raster", Reason: "unsupported format " + string(opt.Format)}
	}

	prev := sc.GuidesVisible()
	sc.SetGuidesVisible(false)
	defer sc.SetGuidesVisible(prev)

	pw, ph := sc.PageSize()
	m := opt.Multiplier
	w := int(math.Round(pw * m))
	h := int(math.Round(ph * m))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, xdraw.Src)

	l := applog.WithComponent("export")
	for _, el := range sc.Elements() {
		if err := drawElement(ctx, img, el, m, res); err != nil {
			l.Warn("element render degraded", slog.String("id", el.ID), slog.String("type", string(el.Type)), slog.Any("err", err))
		}
	}

	var buf bytes.Buffer
	switch opt.Format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, &ExportError{Target: "raster", Reason: "encode png", Err: err}
		}
	case FormatJPEG:
		q := opt.JPEGQuality
		if q <= 0 {
			q = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, &ExportError{Target: "raster", Reason: "encode jpeg", Err: err}
		}
	}
	return buf.Bytes(), nil
}

func drawElement(ctx context.Context, img *image.RGBA, el element.Element, m float64, res *assets.Resolver) error {
	switch el.Type {
	case element.TypeText:
		return drawText(img, el, m)
	case element.TypeLine:
		drawLine(img, el, m)
	case element.TypeRect:
		drawRect(img, el, m)
	case element.TypeCircle:
		drawCircle(img, el, m)
	case element.TypeImage, element.TypeBarcode:
		return drawImage(ctx, img, el, m, res)
	}
	return nil
}

func drawText(img *image.RGBA, el element.Element, m float64) error {
	fs := el.Style.FontSize
	if fs <= 0 {
		fs = 12
	}
	fc, err := face(el.Style.FontWeight, el.Style.FontStyle, fs*m)
	if err != nil {
		return err
	}
	defer func() { _ = fc.Close() }()
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: parseColor(el.Style.Fill, el.Style.Opacity)},
		Face: fc,
	}
	x := el.X * m
	// baseline sits one font size below the anchor, matching the document path
	y := (el.Y + fs) * m
	adv := d.MeasureString(el.Content)
	switch el.Style.TextAlign {
	case "center":
		x -= float64(adv) / 64 / 2
	case "right":
		x -= float64(adv) / 64
	}
	d.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)}
	d.DrawString(el.Content)
	return nil
}

func drawLine(img *image.RGBA, el element.Element, m float64) {
	col := parseColor(el.Style.Stroke, el.Style.Opacity)
	sw := el.Style.StrokeWidth
	if sw <= 0 {
		sw = 1
	}
	x0 := int(math.Round(el.X * m))
	y0 := int(math.Round(el.Y * m))
	x1 := int(math.Round((el.X + el.Width) * m))
	y1 := int(math.Round((el.Y + el.Height) * m))
	th := int(math.Round(sw * m))
	if th < 1 {
		th = 1
	}
	// Bresenham over the segment, thickened orthogonally
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	x, y := x0, y0
	for {
		for ox := -th / 2; ox <= th/2; ox++ {
			for oy := -th / 2; oy <= th/2; oy++ {
				setPixel(img, x+ox, y+oy, col)
			}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func drawRect(img *image.RGBA, el element.Element, m float64) {
	x0 := int(math.Round(el.X * m))
	y0 := int(math.Round(el.Y * m))
	x1 := int(math.Round((el.X+el.Width)*m)) - 1
	y1 := int(math.Round((el.Y+el.Height)*m)) - 1
	if el.Style.Fill != "" {
		fc := parseColor(el.Style.Fill, el.Style.Opacity)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				setPixel(img, x, y, fc)
			}
		}
	}
	if el.Style.StrokeWidth > 0 && el.Style.Stroke != "" {
		strokeRect(img, x0, y0, x1, y1, parseColor(el.Style.Stroke, el.Style.Opacity))
	}
}

func drawCircle(img *image.RGBA, el element.Element, m float64) {
	cx := (el.X + el.Width/2) * m
	cy := (el.Y + el.Height/2) * m
	rx := el.Width / 2 * m
	ry := el.Height / 2 * m
	if rx <= 0 || ry <= 0 {
		return
	}
	fill := el.Style.Fill != ""
	fc := parseColor(el.Style.Fill, el.Style.Opacity)
	stc := parseColor(el.Style.Stroke, el.Style.Opacity)
	sw := el.Style.StrokeWidth * m
	x0 := int(math.Floor(cx - rx - 1))
	x1 := int(math.Ceil(cx + rx + 1))
	y0 := int(math.Floor(cy - ry - 1))
	y1 := int(math.Ceil(cy + ry + 1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			d := dx*dx + dy*dy
			if fill && d <= 1 {
				setPixel(img, x, y, fc)
			}
			if sw > 0 {
				// ring test on the normalized distance
				edge := math.Abs(math.Sqrt(d) - 1)
				if edge*math.Min(rx, ry) <= sw/2 {
					setPixel(img, x, y, stc)
				}
			}
		}
	}
}

func drawImage(ctx context.Context, img *image.RGBA, el element.Element, m float64, res *assets.Resolver) error {
	w := int(math.Round(el.Width * m))
	h := int(math.Round(el.Height * m))
	if w <= 0 || h <= 0 {
		return nil
	}
	var src image.Image
	if res != nil {
		var err error
		src, err = res.Resolve(ctx, el.Content)
		if err != nil {
			// degrade to placeholder, never abort the rest of the scene
			src = assets.Placeholder(w, h)
		}
	} else {
		src = assets.Placeholder(w, h)
	}
	x0 := int(math.Round(el.X * m))
	y0 := int(math.Round(el.Y * m))
	dst := image.Rect(x0, y0, x0+w, y0+h)
	xdraw.ApproxBiLinear.Scale(img, dst, src, src.Bounds(), xdraw.Over, nil)
	return nil
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		setPixel(img, x, y0, col)
		setPixel(img, x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		setPixel(img, x0, y, col)
		setPixel(img, x1, y, col)
	}
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}

// parseColor converts "#rrggbb" to RGBA, applying the element opacity to the
// alpha channel. Unparseable values fall back to opaque black.
func parseColor(s string, opacity float64) color.RGBA {
	c := color.RGBA{A: 255}
	if len(s) == 7 && s[0] == '#' {
		var vals [3]uint8
		ok := true
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(s[1+2*i])
			lo, ok2 := hexVal(s[2+2*i])
			if !ok1 || !ok2 {
				ok = false
				break
			}
			vals[i] = hi<<4 | lo
		}
		if ok {
			c.R, c.G, c.B = vals[0], vals[1], vals[2]
		}
	}
	if opacity >= 0 && opacity < 1 {
		c.A = uint8(math.Round(255 * opacity))
	}
	return c
}

func hexVal(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func floatToFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(f * 64))
}
