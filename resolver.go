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

import "github.com/treewave/promise/completion"

// Resolver is the completion side of a promise, detached from the
// observation side. It is handed to NewInit callbacks and returned by
// WithResolvers, and it is safe to share between goroutines.
//
// A Resolver settles the promise it was created for at most once.
// Whichever of Resolve and Reject arrives first wins; later calls
// report false and change nothing.
type Resolver struct {
	cell *completion.Cell
}

// Resolve fulfills the promise with v, converted like Promise.Complete.
// It reports whether this call is the one that settled the promise.
func (r *Resolver) Resolve(v any) bool {
	return r.cell.Complete(unwrapFuture(v))
}

// Reject rejects the promise with err. A nil err is replaced by
// ErrRejected. It reports whether this call is the one that settled
// the promise.
func (r *Resolver) Reject(err error) bool {
	return r.cell.CompleteError(err)
}

// IsPending reports whether the promise is not yet settled.
func (r *Resolver) IsPending() bool {
	return r.cell.IsPending()
}

// IsResolved reports whether the promise settled with a value.
func (r *Resolver) IsResolved() bool {
	return r.cell.IsResolved()
}

// IsRejected reports whether the promise settled with an error.
func (r *Resolver) IsRejected() bool {
	return r.cell.IsRejected()
}
