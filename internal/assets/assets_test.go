/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBarcodeCode128(t *testing.T) {
	img, err := Barcode("FF-Q-001", SymCode128, 240, 80)
	if err != nil {
		t.Fatalf("Barcode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 240 || b.Dy() != 80 {
		t.Fatalf("expected 240x80 symbol, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestBarcodeErrors(t *testing.T) {
	var are *AssetResolutionError
	if _, err := Barcode("", SymCode128, 100, 40); !errors.As(err, &are) {
		t.Fatalf("empty value: expected AssetResolutionError, got %v", err)
	}
	if _, err := Barcode("x", Symbology("datamatrix99"), 100, 40); !errors.As(err, &are) {
		t.Fatalf("unknown symbology: expected AssetResolutionError, got %v", err)
	}
	if _, err := Barcode("not-a-number", SymEAN, 100, 40); !errors.As(err, &are) {
		t.Fatalf("bad ean payload: expected AssetResolutionError, got %v", err)
	}
}

func TestParseBarcodeRef(t *testing.T) {
	if sym, val := ParseBarcodeRef("qr:https://ff.example/p/1"); sym != SymQR || val != "https://ff.example/p/1" {
		t.Fatalf("qr ref parsed wrong: %v %v", sym, val)
	}
	if sym, val := ParseBarcodeRef("FF-Q-001"); sym != SymCode128 || val != "FF-Q-001" {
		t.Fatalf("bare ref should default to code128: %v %v", sym, val)
	}
}

func TestResolveFileAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, Placeholder(10, 10)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewResolver(time.Second)
	img, err := r.Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Fatalf("decoded wrong image: %v", img.Bounds())
	}
	// second resolve hits the cache even if the file disappears
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := r.Resolve(context.Background(), path); err != nil {
		t.Fatalf("cached Resolve: %v", err)
	}
}

func TestResolveHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = png.Encode(w, Placeholder(8, 8))
	}))
	defer srv.Close()
	r := NewResolver(time.Second)
	img, err := r.Resolve(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("decoded wrong image: %v", img.Bounds())
	}
}

func TestResolveFailureKeepsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	r := NewResolver(time.Second)
	var are *AssetResolutionError
	if _, err := r.Resolve(context.Background(), srv.URL); !errors.As(err, &are) {
		t.Fatalf("expected AssetResolutionError, got %v", err)
	}

	filled := make(chan struct{}, 1)
	ph := r.ResolveInto(context.Background(), srv.URL, func(image.Image) { filled <- struct{}{} })
	if ph == nil {
		t.Fatalf("placeholder must be returned immediately")
	}
	select {
	case <-filled:
		t.Fatalf("fill must not run when resolution fails")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestResolveIntoFills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = png.Encode(w, Placeholder(6, 6))
	}))
	defer srv.Close()
	r := NewResolver(time.Second)
	filled := make(chan image.Image, 1)
	_ = r.ResolveInto(context.Background(), srv.URL, func(img image.Image) { filled <- img })
	select {
	case img := <-filled:
		if img.Bounds().Dx() != 6 {
			t.Fatalf("filled wrong image: %v", img.Bounds())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fill callback never ran")
	}
}
