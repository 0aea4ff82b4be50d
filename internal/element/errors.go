/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

import "fmt"

// ValidationError reports a malformed element definition for its declared
// type, or an illegal property/type combination.
type ValidationError struct {
	ID       string
	Type     string
	Property string
	Reason   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Property != "" && e.ID != "":
		return fmt.Sprintf("invalid property %q for %s element %s: %s", e.Property, e.Type, e.ID, e.Reason)
	case e.Property != "":
		return fmt.Sprintf("invalid property %q for %s element: %s", e.Property, e.Type, e.Reason)
	case e.ID != "":
		return fmt.Sprintf("invalid %s element %s: %s", e.Type, e.ID, e.Reason)
	default:
		return fmt.Sprintf("invalid %s element: %s", e.Type, e.Reason)
	}
}
