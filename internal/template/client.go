/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package template

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the shared template service over HTTP JSON. It implements
// Store; PUT with an id is the idempotent overwrite path.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a template service client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// wireTemplate is the on-the-wire record. The snapshot travels as the exact
// blob produced by encodeSnapshot so both ends validate the same bytes.
type wireTemplate struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	PageWidth   float64         `json:"page_width"`
	PageHeight  float64         `json:"page_height"`
	Orientation string          `json:"orientation"`
	IncludeLogo bool            `json:"include_logo"`
	LogoRef     string          `json:"logo_ref,omitempty"`
	Snapshot    json.RawMessage `json:"snapshot"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

func toWire(t Template) (wireTemplate, error) {
	blob, err := encodeSnapshot(t)
	if err != nil {
		return wireTemplate{}, err
	}
	return wireTemplate{
		ID:          t.ID,
		Name:        t.Name,
		PageWidth:   t.PageWidth,
		PageHeight:  t.PageHeight,
		Orientation: t.Orientation,
		IncludeLogo: t.IncludeLogo,
		LogoRef:     t.LogoRef,
		Snapshot:    json.RawMessage(blob),
	}, nil
}

func fromWire(w wireTemplate) (Template, error) {
	snap, err := decodeSnapshot(w.ID, []byte(w.Snapshot))
	if err != nil {
		return Template{}, err
	}
	return Template{
		ID:          w.ID,
		Name:        w.Name,
		PageWidth:   w.PageWidth,
		PageHeight:  w.PageHeight,
		Orientation: w.Orientation,
		IncludeLogo: w.IncludeLogo,
		LogoRef:     w.LogoRef,
		Snapshot:    snap,
		UpdatedAt:   w.UpdatedAt,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return errStatusNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

var errStatusNotFound = fmt.Errorf("not found")

// Save POSTs a new template and returns the server-assigned id. When the
// template already carries an id it is forwarded to Update instead.
func (c *Client) Save(ctx context.Context, t Template) (string, error) {
	if t.ID != "" {
		if err := c.Update(ctx, t.ID, t); err != nil {
			return "", err
		}
		return t.ID, nil
	}
	w, err := toWire(t)
	if err != nil {
		return "", err
	}
	var out wireTemplate
	if err := c.doJSON(ctx, http.MethodPost, "/api/templates", w, &out); err != nil {
		return "", &PersistenceError{Op: "save", Name: t.Name, Reason: "post template", Err: err}
	}
	if out.ID == "" {
		return "", &PersistenceError{Op: "save", Name: t.Name, Reason: "server returned no id"}
	}
	return out.ID, nil
}

// Update PUTs the full record at its id. Repeating the call with the same
// payload leaves exactly one record on the server.
func (c *Client) Update(ctx context.Context, id string, t Template) error {
	if id == "" {
		return &PersistenceError{Op: "update", Name: t.Name, Reason: "missing id"}
	}
	t.ID = id
	w, err := toWire(t)
	if err != nil {
		return err
	}
	path := "/api/templates/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPut, path, w, nil); err != nil {
		return &PersistenceError{Op: "update", ID: id, Reason: "put template", Err: err}
	}
	return nil
}

// Load GETs one template by id.
func (c *Client) Load(ctx context.Context, id string) (Template, error) {
	var w wireTemplate
	path := "/api/templates/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &w); err != nil {
		if err == errStatusNotFound {
			return Template{}, &PersistenceError{Op: "load", ID: id, Reason: "not found"}
		}
		return Template{}, &PersistenceError{Op: "load", ID: id, Reason: "get template", Err: err}
	}
	return fromWire(w)
}

// List GETs all templates visible to the caller.
func (c *Client) List(ctx context.Context) ([]Template, error) {
	var ws []wireTemplate
	if err := c.doJSON(ctx, http.MethodGet, "/api/templates", nil, &ws); err != nil {
		return nil, &PersistenceError{Op: "list", Reason: "get templates", Err: err}
	}
	out := make([]Template, 0, len(ws))
	for _, w := range ws {
		t, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Delete removes a template on the server. A 404 is treated as success so the
// call stays idempotent.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := "/api/templates/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil && err != errStatusNotFound {
		return &PersistenceError{Op: "delete", ID: id, Reason: "delete template", Err: err}
	}
	return nil
}
