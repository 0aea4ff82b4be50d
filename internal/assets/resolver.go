/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	applog "labelstudio/internal/log"
)

// Resolver turns content references of image and barcode elements into
// decoded raster payloads. References are barcode specs ("code128:..."),
// local file paths, or http(s) URLs. Resolved payloads are cached by ref.
type Resolver struct {
	client *http.Client
	log    *slog.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewResolver builds a resolver with the given request timeout (0 means 10s).
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		client: &http.Client{Timeout: timeout},
		log:    applog.WithComponent("assets"),
		cache:  make(map[string]image.Image),
	}
}

// Resolve fetches and decodes the payload behind ref synchronously.
func (r *Resolver) Resolve(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &AssetResolutionError{Ref: ref, Reason: "empty reference"}
	}
	r.mu.Lock()
	if img, ok := r.cache[ref]; ok {
		r.mu.Unlock()
		return img, nil
	}
	r.mu.Unlock()

	img, err := r.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[ref] = img
	r.mu.Unlock()
	return img, nil
}

// ResolveInto implements placeholder-then-fill: it returns a placeholder
// immediately and invokes fill from a goroutine once the real payload
// arrives. On failure fill is never called, so the element keeps its prior
// image or the placeholder; it is never left content-less.
func (r *Resolver) ResolveInto(ctx context.Context, ref string, fill func(image.Image)) image.Image {
	ph := Placeholder(64, 64)
	go func() {
		img, err := r.Resolve(ctx, ref)
		if err != nil {
			r.log.Warn("asset resolution failed, keeping placeholder", slog.String("ref", ref), slog.Any("err", err))
			return
		}
		fill(img)
	}()
	return ph
}

func (r *Resolver) fetch(ctx context.Context, ref string) (image.Image, error) {
	if sym, val := ParseBarcodeRef(ref); strings.HasPrefix(ref, string(SymCode128)+":") ||
		strings.HasPrefix(ref, string(SymEAN)+":") || strings.HasPrefix(ref, string(SymQR)+":") {
		return Barcode(val, sym, 240, 80)
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.fetchHTTP(ctx, ref)
	}
	return r.fetchFile(strings.TrimPrefix(ref, "file:"))
}

func (r *Resolver) fetchFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AssetResolutionError{Ref: path, Reason: "open file", Err: err}
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &AssetResolutionError{Ref: path, Reason: "decode image", Err: err}
	}
	return img, nil
}

func (r *Resolver) fetchHTTP(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &AssetResolutionError{Ref: url, Reason: "build request", Err: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &AssetResolutionError{Ref: url, Reason: "fetch", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AssetResolutionError{Ref: url, Reason: fmt.Sprintf("server returned %s", resp.Status)}
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, &AssetResolutionError{Ref: url, Reason: "decode image", Err: err}
	}
	return img, nil
}

// Placeholder is the neutral gray box shown while a payload is in flight or
// after it failed to resolve.
func Placeholder(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}}, image.Point{}, draw.Src)
	// thin darker border so the placeholder reads as a frame, not blank space
	bc := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	for x := 0; x < w; x++ {
		img.SetRGBA(x, 0, bc)
		img.SetRGBA(x, h-1, bc)
	}
	for y := 0; y < h; y++ {
		img.SetRGBA(0, y, bc)
		img.SetRGBA(w-1, y, bc)
	}
	return img
}
