/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import "fmt"

// ExportError reports a failed raster or document export. Exports are
// read-only over the scene; a failure never leaves it modified.
type ExportError struct {
	Target string // "raster" or "document"
	Reason string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s export: %s: %v", e.Target, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s export: %s", e.Target, e.Reason)
}

func (e *ExportError) Unwrap() error { return e.Err }
