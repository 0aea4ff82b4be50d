//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"labelstudio/internal/assets"
	"labelstudio/internal/config"
	"labelstudio/internal/crash"
	"labelstudio/internal/editor"
	"labelstudio/internal/element"
	"labelstudio/internal/export"
	"labelstudio/internal/history"
	applog "labelstudio/internal/log"
	"labelstudio/internal/scene"
	"labelstudio/internal/template"
	"labelstudio/internal/version"
)

// Canonical pixels per millimeter at the 72 dpi design scale.
const pxPerMM = 72.0 / 25.4

// Run starts the Fyne-based label designer. templateID may be empty for a
// blank A4 canvas; otherwise the template is loaded from the local store.
func Run(templateID string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting designer", slog.String("version", version.String()))

	cfg, _, err := config.Load()
	if err != nil {
		return err
	}

	pageW := cfg.Page.WidthMM * pxPerMM
	pageH := cfg.Page.HeightMM * pxPerMM
	sc := scene.New(0, pageW, pageH, cfg.Page.MarginPx)
	hist := history.NewManager(history.Config{MaxDepth: 200})
	sess := editor.NewSession(sc, hist)
	res := assets.NewResolver(10 * time.Second)

	defer func() { crash.Recover(sess) }()

	storeDir, _ := config.Path()
	store, err := template.OpenSQLite(filepath.Join(filepath.Dir(storeDir), "templates"))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	current := template.Template{
		Name:        "untitled",
		PageWidth:   cfg.Page.WidthMM,
		PageHeight:  cfg.Page.HeightMM,
		Orientation: cfg.Page.Orientation,
	}
	if templateID != "" {
		t, err := store.Load(context.Background(), templateID)
		if err != nil {
			return err
		}
		current = t
		sc.LoadSnapshot(t.Snapshot)
	}

	a := app.NewWithID("labelstudio")
	w := a.NewWindow("Label Studio " + version.String())
	w.Resize(fyne.NewSize(1100, 820))

	preview := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	preview.FillMode = canvas.ImageFillContain
	status := widget.NewLabel("ready")

	refresh := func() {
		buf, err := export.Raster(context.Background(), sc, res, export.RasterOptions{
			Format:     export.FormatPNG,
			Multiplier: 1,
		})
		if err != nil {
			l.Error("preview render failed", slog.Any("err", err))
			status.SetText("render error: " + err.Error())
			return
		}
		img, err := png.Decode(bytes.NewReader(buf))
		if err != nil {
			l.Error("preview decode failed", slog.Any("err", err))
			return
		}
		preview.Image = img
		preview.Refresh()
		if id := sess.Selected(); id != "" {
			status.SetText("selected: " + id)
		} else {
			status.SetText(fmt.Sprintf("%d elements", sc.Len()))
		}
	}

	addElement := func(t element.Type) {
		d := element.Defaults{}
		switch t {
		case element.TypeText:
			d.Content = "Text"
		case element.TypeLine:
			d.Width, d.Height = 120, 1
		case element.TypeRect, element.TypeCircle:
			d.Width, d.Height = 120, 80
		case element.TypeImage:
			d.Width, d.Height = 96, 96
			d.Content = "file:logo.png"
		case element.TypeBarcode:
			d.Width, d.Height = 160, 60
			d.Content = "code128:0000000000"
		}
		if _, err := sess.AddElement(t, d); err != nil {
			dialog.ShowError(err, w)
			return
		}
		refresh()
	}

	toolbar := container.NewHBox(
		widget.NewButton("Text", func() { addElement(element.TypeText) }),
		widget.NewButton("Line", func() { addElement(element.TypeLine) }),
		widget.NewButton("Rect", func() { addElement(element.TypeRect) }),
		widget.NewButton("Circle", func() { addElement(element.TypeCircle) }),
		widget.NewButton("Image", func() { addElement(element.TypeImage) }),
		widget.NewButton("Barcode", func() { addElement(element.TypeBarcode) }),
		widget.NewSeparator(),
		widget.NewButton("Undo", func() { sess.Undo(); refresh() }),
		widget.NewButton("Redo", func() { sess.Redo(); refresh() }),
		widget.NewButton("Duplicate", func() { sess.DuplicateSelected(); refresh() }),
		widget.NewButton("Delete", func() { sess.DeleteSelected(); refresh() }),
		widget.NewButton("Forward", func() { sess.BringForward(); refresh() }),
		widget.NewButton("Backward", func() { sess.SendBackward(); refresh() }),
		widget.NewSeparator(),
		widget.NewButton("Guides", func() {
			sc.SetGuidesVisible(!sc.GuidesVisible())
			refresh()
		}),
	)

	saveBtn := widget.NewButton("Save", func() {
		current.Snapshot = sc.Snapshot()
		id, err := store.Save(context.Background(), current)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		current.ID = id
		status.SetText("saved " + id)
	})
	exportPNG := widget.NewButton("Export PNG", func() {
		buf, err := export.Raster(context.Background(), sc, res, export.RasterOptions{
			Format:      export.FormatPNG,
			Multiplier:  cfg.Export.RasterMultiplier,
			JPEGQuality: cfg.Export.JPEGQuality,
		})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		out := filepath.Join(os.TempDir(), "label.png")
		if err := os.WriteFile(out, buf, 0o644); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("exported " + out)
	})
	exportPDF := widget.NewButton("Export PDF", func() {
		buf, err := export.Document(context.Background(), sc, res, export.DocumentOptions{
			PageWidthMM:  current.PageWidth,
			PageHeightMM: current.PageHeight,
			Orientation:  current.Orientation,
			Title:        current.Name,
		})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		out := filepath.Join(os.TempDir(), "label.pdf")
		if err := os.WriteFile(out, buf, 0o644); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("exported " + out)
	})

	nameEntry := widget.NewEntry()
	nameEntry.SetText(current.Name)
	nameEntry.OnChanged = func(v string) { current.Name = v }

	side := container.NewVBox(
		widget.NewLabel("Template"),
		nameEntry,
		saveBtn,
		exportPNG,
		exportPDF,
	)

	w.SetContent(container.NewBorder(toolbar, status, side, nil, preview))
	refresh()
	w.ShowAndRun()
	return nil
}
