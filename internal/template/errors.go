/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package template

import "fmt"

// PersistenceError reports a failed save/load/update against a template
// store. Local edits are never discarded because of one.
type PersistenceError struct {
	Op     string // save, load, update, list, delete
	ID     string
	Name   string
	Reason string
	Err    error
}

func (e *PersistenceError) Error() string {
	ref := e.ID
	if ref == "" {
		ref = e.Name
	}
	if e.Err != nil {
		return fmt.Sprintf("template %s %q: %s: %v", e.Op, ref, e.Reason, e.Err)
	}
	return fmt.Sprintf("template %s %q: %s", e.Op, ref, e.Reason)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
