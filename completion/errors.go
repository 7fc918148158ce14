// Copyright 2025 the treewave authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package completion

import "github.com/brickingsoft/errors"

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "promise/completion"
)

var (
	// ErrRejected is the synthetic rejection reason used whenever a
	// rejection is requested without a reason of its own, such as
	// CompleteError(nil) or Rejected(nil).
	ErrRejected = errors.Define("promise rejected", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))

	// ErrTimedOut reports that a bounded wait gave up before the cell
	// settled. It is only ever returned by WaitFor; the library never
	// stores it in a cell.
	ErrTimedOut = errors.Define("promise wait timed out", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
)

// IsTimedOut reports whether err is a wait timeout.
func IsTimedOut(err error) bool {
	return errors.Is(err, ErrTimedOut)
}
