/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"labelstudio/internal/element"
)

type fakeScene struct {
	snap element.Snapshot
}

func (f *fakeScene) Snapshot() element.Snapshot { return f.snap }

func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LS_CRASH_DIR", dir)

	exitCode := -1
	prevExit := exitFn
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = prevExit }()

	st := element.DefaultStyle()
	sc := &fakeScene{snap: element.Snapshot{
		Page: 0,
		Elements: []element.Element{
			{ID: "t1", Type: element.TypeText, X: 20, Y: 40, Content: "SKU-100", Style: st},
		},
	}}

	func() {
		defer Recover(sc)
		panic("boom")
	}()

	if exitCode != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read crash dir: %v", err)
	}
	var reportPath, recoveryPath string
	for _, e := range entries {
		switch {
		case strings.HasPrefix(e.Name(), "crash-"):
			reportPath = filepath.Join(dir, e.Name())
		case strings.HasPrefix(e.Name(), "recovery-"):
			recoveryPath = filepath.Join(dir, e.Name())
		}
	}
	if reportPath == "" {
		t.Fatalf("no crash report written")
	}
	if recoveryPath == "" {
		t.Fatalf("no emergency snapshot written")
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "Panic: boom") {
		t.Fatalf("report missing panic value:\n%s", report)
	}
	if !strings.Contains(string(report), "Stack:") {
		t.Fatalf("report missing stack trace")
	}

	blob, err := os.ReadFile(recoveryPath)
	if err != nil {
		t.Fatalf("read recovery snapshot: %v", err)
	}
	snap, err := element.DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("recovery snapshot not decodable: %v", err)
	}
	if len(snap.Elements) != 1 || snap.Elements[0].Content != "SKU-100" {
		t.Fatalf("recovery snapshot lost content: %+v", snap)
	}
}

func TestRecoverNoopWithoutPanic(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LS_CRASH_DIR", dir)

	called := false
	prevExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = prevExit }()

	func() {
		defer Recover(nil)
	}()

	if called {
		t.Fatalf("Recover must not exit when there is no panic")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no files should be written without a panic")
	}
}
