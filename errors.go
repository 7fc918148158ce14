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

package promise

import (
	"fmt"

	"github.com/brickingsoft/errors"

	"github.com/treewave/promise/completion"
)

const (
	nilCallbackPanicMsg = "promise: the provided callback is nil"
	nilCtxPanicMsg      = "promise: the provided context is nil"
)

// Sentinels of the completion substrate, re-exported for callers that only
// import this package.
var (
	// ErrRejected is the synthetic rejection reason used when a rejection
	// is requested without a reason, as in Reject(nil) or a Resolver's
	// Reject(nil).
	ErrRejected = completion.ErrRejected

	// ErrTimedOut is returned by WaitFor when the deadline passes first.
	// The promise is left untouched and can still settle.
	ErrTimedOut = completion.ErrTimedOut
)

// PanicError is the rejection reason of a promise whose callback or
// initializer panicked. V is the recovered panic value.
type PanicError struct {
	V any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("promise: callback panicked: %v", e.V)
}

// IsPanic reports whether err originated from a recovered callback panic.
func IsPanic(err error) bool {
	var pe PanicError
	return errors.As(err, &pe)
}

// IsTimeout reports whether err is a wait timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimedOut)
}
