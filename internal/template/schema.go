/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package template

import (
	_ "embed"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed snapshot.schema.json
var snapshotSchema []byte

// ValidateSnapshotJSON checks a snapshot blob against the embedded JSON
// Schema before it crosses a persistence boundary, so a malformed snapshot
// never reaches a store and a corrupted record never hydrates a scene.
func ValidateSnapshotJSON(blob []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(snapshotSchema)
	docLoader := gojsonschema.NewBytesLoader(blob)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return &PersistenceError{Op: "validate", Reason: "schema check failed", Err: err}
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &PersistenceError{Op: "validate", Reason: "snapshot does not conform to schema: " + strings.Join(msgs, "; ")}
	}
	return nil
}
