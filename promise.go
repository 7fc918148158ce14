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
	"context"
	"sync/atomic"
	"time"

	"github.com/treewave/promise/completion"
	"github.com/treewave/promise/dynval"
)

// Promise is one link of a waterfall chain over a completion cell.
//
// Each promise has a working cell, holding the outcome of this link, and
// shares the root cell of its chain. Continuations (Then, Tap, Catch,
// CatchTap) derive new links with fresh working cells; Complete and
// CompleteError always target the root, so a chain built before its input
// exists starts processing the moment the root is completed, no matter
// which link the completion was called on. Observation (IsPending, Wait,
// Done, ...) always targets the working cell.
//
// A Promise with no upstream is its own root.
type Promise struct {
	cell *completion.Cell
	root *completion.Cell

	// the group this promise was constructed through, inherited by
	// derived links. nil for the default group.
	group *Group

	// set once anything is attached to or waiting on this link. a link
	// that rejects while this is still false is an uncaught rejection.
	observed atomic.Bool
}

// newPromise builds a promise over its cells and registers it with g.
// It must run before any continuation is attached to c, so the group's
// settlement observer fires first.
func newPromise(g *Group, c, root *completion.Cell) *Promise {
	p := &Promise{cell: c, root: root, group: g}
	g.track(p)
	return p
}

// Then derives a promise that resolves with the value returned by cb once
// p resolves. If p rejects, cb is skipped and the rejection propagates
// unchanged. A nil cb panics.
func (p *Promise) Then(cb ThenFunc) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	p.observed.Store(true)
	next := completion.New()
	np := newPromise(p.group, next, p.root)
	p.cell.OnSettle(func(r completion.Result) {
		if r.Rejected() {
			next.CompleteError(r.Err())
			return
		}
		runThen(next, cb, r.Val())
	})
	return np
}

// Tap derives a promise that runs cb for its side effects once p resolves
// and passes p's value through unchanged. A non-nil error return (or a
// panic) rejects the derived promise. If p rejects, cb is skipped and the
// rejection propagates unchanged. A nil cb panics.
func (p *Promise) Tap(cb TapFunc) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	p.observed.Store(true)
	next := completion.New()
	np := newPromise(p.group, next, p.root)
	p.cell.OnSettle(func(r completion.Result) {
		if r.Rejected() {
			next.CompleteError(r.Err())
			return
		}
		runTap(next, cb, r.Val())
	})
	return np
}

// Catch derives a promise that resolves with the value returned by cb once
// p rejects; this is how a chain heals. A non-nil error return (or a
// panic) rejects the derived promise, replacing the original reason. If p
// resolves, cb is skipped and the value passes through unchanged. A nil cb
// panics.
func (p *Promise) Catch(cb CatchFunc) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	p.observed.Store(true)
	next := completion.New()
	np := newPromise(p.group, next, p.root)
	p.cell.OnSettle(func(r completion.Result) {
		if !r.Rejected() {
			next.Complete(r.Val())
			return
		}
		runCatch(next, cb, r.Err())
	})
	return np
}

// CatchTap derives a promise that runs cb for its side effects once p
// rejects. A nil return marks the rejection handled and the derived
// promise resolves to null; a non-nil error return (or a panic) rejects
// with it. If p resolves, cb is skipped and the value passes through
// unchanged. A nil cb panics.
func (p *Promise) CatchTap(cb CatchTapFunc) *Promise {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	p.observed.Store(true)
	next := completion.New()
	np := newPromise(p.group, next, p.root)
	p.cell.OnSettle(func(r completion.Result) {
		if !r.Rejected() {
			next.Complete(r.Val())
			return
		}
		runCatchTap(next, cb, r.Err())
	})
	return np
}

// Complete completes the chain's root cell with v, converted the usual
// way: a *Promise or *completion.Cell is adopted, an error rejects, nil
// resolves to null, and anything else resolves to its canonical value. It
// returns whether this call won the root's transition; after a winner
// every later attempt returns false.
func (p *Promise) Complete(v any) bool {
	return p.root.Complete(unwrapFuture(v))
}

// CompleteError rejects the chain's root cell. A nil err is replaced by
// ErrRejected. It returns whether this call won the root's transition.
func (p *Promise) CompleteError(err error) bool {
	return p.root.CompleteError(err)
}

// IsPending reports whether this link has not settled yet.
func (p *Promise) IsPending() bool { return p.cell.IsPending() }

// IsResolved reports whether this link settled with a value.
func (p *Promise) IsResolved() bool { return p.cell.IsResolved() }

// IsRejected reports whether this link settled with an error.
func (p *Promise) IsRejected() bool { return p.cell.IsRejected() }

// Wait blocks until this link settles and returns its value or its
// rejection reason.
func (p *Promise) Wait() (dynval.Value, error) {
	p.observed.Store(true)
	r := p.cell.Wait()
	return r.Val(), r.Err()
}

// WaitFor blocks until this link settles or d elapses. On timeout it
// returns ErrTimedOut and the promise is untouched: it is still pending
// and still completable.
func (p *Promise) WaitFor(d time.Duration) (dynval.Value, error) {
	p.observed.Store(true)
	r := p.cell.WaitFor(d)
	return r.Val(), r.Err()
}

// WaitContext blocks until this link settles or ctx is done. When ctx wins
// the returned error is ctx.Err() and the promise is untouched. A nil ctx
// panics.
func (p *Promise) WaitContext(ctx context.Context) (dynval.Value, error) {
	if ctx == nil {
		panic(nilCtxPanicMsg)
	}
	p.observed.Store(true)
	r := p.cell.WaitContext(ctx)
	return r.Val(), r.Err()
}

// Done returns a channel that is closed once this link settles, for use in
// select statements.
func (p *Promise) Done() <-chan struct{} {
	p.observed.Store(true)
	return p.cell.Done()
}

// Cell returns this link's working cell, for code that operates on the
// completion substrate directly. Completing a promise with another
// promise, or with a cell, adopts that cell's outcome.
func (p *Promise) Cell() *completion.Cell {
	p.observed.Store(true)
	return p.cell
}
