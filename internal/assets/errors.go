/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import "fmt"

// AssetResolutionError reports a barcode, logo or image reference that could
// not be resolved to a raster payload.
type AssetResolutionError struct {
	Ref    string
	Reason string
	Err    error
}

func (e *AssetResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve asset %q: %s: %v", e.Ref, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve asset %q: %s", e.Ref, e.Reason)
}

func (e *AssetResolutionError) Unwrap() error { return e.Err }
