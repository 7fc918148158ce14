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

// callbacks.go: the callback types and the runners that route a callback's
// outcome into the next cell.

package promise

import (
	"github.com/treewave/promise/completion"
	"github.com/treewave/promise/dynval"
)

// ThenFunc transforms the value of a resolved promise. The returned value
// completes the next promise through the full conversion: returning a
// *Promise chains it in, returning an error value rejects, and returning
// (nil, nil) resolves to null. A non-nil error return rejects the next
// promise with it.
type ThenFunc func(val dynval.Value) (any, error)

// TapFunc observes the value of a resolved promise. A nil return passes
// the value through unchanged; a non-nil error rejects the next promise.
type TapFunc func(val dynval.Value) error

// CatchFunc handles the rejection reason of a rejected promise. Its return
// value completes the next promise exactly like a ThenFunc's, which is how
// a chain heals back to a resolved state. A non-nil error return replaces
// the original rejection.
type CatchFunc func(reason error) (any, error)

// CatchTapFunc observes the rejection reason of a rejected promise. A nil
// return marks the rejection handled and the next promise resolves to
// null; a non-nil error return rejects with it.
type CatchTapFunc func(reason error) error

// InitFunc completes a newly constructed promise through its Resolver. A
// non-nil error return rejects the promise, unless the resolver was
// already used.
type InitFunc func(r *Resolver) error

// completeWith feeds a callback's returned value into next, unwrapping a
// returned promise to its working cell so it gets adopted, not wrapped.
func completeWith(next *completion.Cell, out any) {
	next.Complete(unwrapFuture(out))
}

// unwrapFuture maps a *Promise to its working cell, leaving every other
// value untouched.
func unwrapFuture(v any) any {
	if p, ok := v.(*Promise); ok && p != nil {
		return p.cell
	}
	return v
}

// recoverSettle is deferred around every user callback. A panic inside the
// callback becomes a rejection of the next cell instead of taking down the
// completing goroutine.
func recoverSettle(next *completion.Cell) {
	if v := recover(); v != nil {
		next.CompleteError(PanicError{V: v})
	}
}

func runThen(next *completion.Cell, cb ThenFunc, val dynval.Value) {
	defer recoverSettle(next)
	out, err := cb(val)
	if err != nil {
		next.CompleteError(err)
		return
	}
	completeWith(next, out)
}

func runTap(next *completion.Cell, cb TapFunc, val dynval.Value) {
	defer recoverSettle(next)
	if err := cb(val); err != nil {
		next.CompleteError(err)
		return
	}
	next.Complete(val)
}

func runCatch(next *completion.Cell, cb CatchFunc, reason error) {
	defer recoverSettle(next)
	out, err := cb(reason)
	if err != nil {
		next.CompleteError(err)
		return
	}
	completeWith(next, out)
}

func runCatchTap(next *completion.Cell, cb CatchTapFunc, reason error) {
	defer recoverSettle(next)
	if err := cb(reason); err != nil {
		next.CompleteError(err)
		return
	}
	next.Complete(nil)
}

func runInit(c *completion.Cell, r *Resolver, init InitFunc) {
	defer recoverSettle(c)
	if err := init(r); err != nil {
		c.CompleteError(err)
	}
}
