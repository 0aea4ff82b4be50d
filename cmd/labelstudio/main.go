/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"labelstudio/internal/assets"
	"labelstudio/internal/config"
	"labelstudio/internal/crash"
	"labelstudio/internal/element"
	"labelstudio/internal/export"
	applog "labelstudio/internal/log"
	"labelstudio/internal/scene"
	"labelstudio/internal/telemetry"
	"labelstudio/internal/template"
	"labelstudio/internal/ui"
	"labelstudio/internal/version"
)

// Canonical pixels per millimeter at the 72 dpi design scale.
const pxPerMM = 72.0 / 25.4

func usage() {
	fmt.Println("Label Studio — label and invoice template designer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  labelstudio version|-v|--version           Show version")
	fmt.Println("  labelstudio list                           List stored templates")
	fmt.Println("  labelstudio show <id>                      Print one template summary")
	fmt.Println("  labelstudio delete <id>                    Delete a stored template")
	fmt.Println("  labelstudio export-png <id> <out.png>      Render a template to PNG")
	fmt.Println("  labelstudio export-jpeg <id> <out.jpg>     Render a template to JPEG")
	fmt.Println("  labelstudio export-pdf <id> <out.pdf>      Render a template to PDF")
	fmt.Println("  labelstudio import <snapshot.json> <name>  Import a recovery snapshot as a template")
	fmt.Println("  labelstudio ui [<id>]                      Launch designer (build with -tags fyne)")
}

// templateStore is the closable store surface the CLI binds to; the concrete
// backend is picked from configuration at startup.
type templateStore interface {
	template.Store
	Close() error
}

// openStore returns the shared Postgres store when a DSN is configured
// (backend.pg_dsn or LS_PG_DSN), otherwise the per-user SQLite store.
func openStore(ctx context.Context, cfg config.AppConfig) (templateStore, error) {
	if cfg.Backend.PGDSN != "" {
		return template.OpenPG(ctx, cfg.Backend.PGDSN)
	}
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	return template.OpenSQLite(filepath.Join(filepath.Dir(path), "templates"))
}

// sceneFor rehydrates a stored template into a renderable scene.
func sceneFor(t template.Template, marginPx float64) *scene.Scene {
	w := t.PageWidth * pxPerMM
	h := t.PageHeight * pxPerMM
	sc := scene.New(t.Snapshot.Page, w, h, marginPx)
	sc.LoadSnapshot(t.Snapshot)
	return sc
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer func() { crash.Recover(nil) }()

	cfg, _, err := config.Load()
	if err != nil {
		fail(l, "config load failed", err)
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) <= 1 {
		usage()
		return
	}

	ctx := context.Background()
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Label Studio — label and invoice template designer")
		fmt.Println(version.String())

	case "list":
		store, err := openStore(ctx, cfg)
		if err != nil {
			fail(l, "open store failed", err)
		}
		defer func() { _ = store.Close() }()
		all, err := store.List(ctx)
		if err != nil {
			fail(l, "list failed", err)
		}
		if len(all) == 0 {
			fmt.Println("No templates stored.")
			return
		}
		for _, t := range all {
			fmt.Printf("%s  %-24s  %.0fx%.0fmm  %d elements  %s\n",
				t.ID, t.Name, t.PageWidth, t.PageHeight, len(t.Snapshot.Elements),
				t.UpdatedAt.Local().Format(time.RFC3339))
		}

	case "show":
		if len(args) < 3 {
			fmt.Println("show requires <id>")
			usage()
			os.Exit(2)
		}
		store, err := openStore(ctx, cfg)
		if err != nil {
			fail(l, "open store failed", err)
		}
		defer func() { _ = store.Close() }()
		t, err := store.Load(ctx, args[2])
		if err != nil {
			fail(l, "load failed", err)
		}
		fmt.Printf("Template: %s (%s)\n", t.Name, t.ID)
		fmt.Printf("Page: %.0fx%.0fmm %s\n", t.PageWidth, t.PageHeight, t.Orientation)
		for _, el := range t.Snapshot.Elements {
			fmt.Printf("  z=%d %-8s at (%.0f,%.0f) %q\n", el.ZOrder, el.Type, el.X, el.Y, el.Content)
		}

	case "delete":
		if len(args) < 3 {
			fmt.Println("delete requires <id>")
			usage()
			os.Exit(2)
		}
		store, err := openStore(ctx, cfg)
		if err != nil {
			fail(l, "open store failed", err)
		}
		defer func() { _ = store.Close() }()
		if err := store.Delete(ctx, args[2]); err != nil {
			fail(l, "delete failed", err)
		}
		fmt.Println("Deleted", args[2])

	case "export-png", "export-jpeg", "export-pdf":
		if len(args) < 4 {
			fmt.Printf("%s requires <id> and <out>\n", args[1])
			usage()
			os.Exit(2)
		}
		store, err := openStore(ctx, cfg)
		if err != nil {
			fail(l, "open store failed", err)
		}
		defer func() { _ = store.Close() }()
		t, err := store.Load(ctx, args[2])
		if err != nil {
			fail(l, "load failed", err)
		}
		sc := sceneFor(t, cfg.Page.MarginPx)
		res := assets.NewResolver(time.Duration(cfg.Backend.TimeoutMs) * time.Millisecond)

		started := time.Now()
		var buf []byte
		switch args[1] {
		case "export-png", "export-jpeg":
			format := export.FormatPNG
			if args[1] == "export-jpeg" {
				format = export.FormatJPEG
			}
			buf, err = export.Raster(ctx, sc, res, export.RasterOptions{
				Format:      format,
				Multiplier:  cfg.Export.RasterMultiplier,
				JPEGQuality: cfg.Export.JPEGQuality,
			})
		case "export-pdf":
			buf, err = export.Document(ctx, sc, res, export.DocumentOptions{
				PageWidthMM:  t.PageWidth,
				PageHeightMM: t.PageHeight,
				Orientation:  t.Orientation,
				Title:        t.Name,
			})
		}
		if err != nil {
			fail(l, "export failed", err)
		}
		if err := os.WriteFile(args[3], buf, 0o644); err != nil {
			fail(l, "write output failed", err)
		}
		telemetry.ExportEvent(args[1], len(t.Snapshot.Elements), time.Since(started).Milliseconds())
		fmt.Printf("Exported %s to %s (%d bytes)\n", t.Name, args[3], len(buf))

	case "import":
		if len(args) < 4 {
			fmt.Println("import requires <snapshot.json> and <name>")
			usage()
			os.Exit(2)
		}
		blob, err := os.ReadFile(args[2])
		if err != nil {
			fail(l, "read snapshot failed", err)
		}
		if err := template.ValidateSnapshotJSON(blob); err != nil {
			fail(l, "snapshot validation failed", err)
		}
		snap, err := element.DecodeSnapshot(blob)
		if err != nil {
			fail(l, "decode snapshot failed", err)
		}
		store, err := openStore(ctx, cfg)
		if err != nil {
			fail(l, "open store failed", err)
		}
		defer func() { _ = store.Close() }()
		id, err := store.Save(ctx, template.Template{
			Name:        args[3],
			PageWidth:   cfg.Page.WidthMM,
			PageHeight:  cfg.Page.HeightMM,
			Orientation: cfg.Page.Orientation,
			Snapshot:    snap,
		})
		if err != nil {
			fail(l, "save failed", err)
		}
		telemetry.TemplateEvent("import", len(snap.Elements))
		fmt.Println("Imported as", id)

	case "ui":
		var id string
		if len(args) >= 3 {
			id = args[2]
		}
		if err := ui.Run(id); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

	default:
		usage()
	}
}
