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

// Package completion implements the single-assignment completion cell that
// the promise package is built on.
//
// A Cell starts pending and moves exactly once to resolved, holding a
// canonical dynval.Value, or rejected, holding an error. The transition is
// arbitrated so that among any number of concurrent completion attempts
// exactly one reports success; every later attempt is a silent no-op.
//
// The package owns no goroutines. Callbacks registered with OnSettle run on
// the goroutine that completes the cell, or synchronously on the
// registering goroutine when the cell is already terminal.
package completion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/treewave/promise/dynval"
)

const (
	nilCallbackPanicMsg = "completion: the provided callback is nil"
	nilContextPanicMsg  = "completion: the provided context is nil"
)

// cell states. the state is pending until the final outcome is known, even
// while an adopted inner cell is still being awaited.
const (
	statePending int32 = iota
	stateResolved
	stateRejected
)

// cell fates. the fate gate is what makes the transition at-most-once:
// whichever call moves the fate from unresolved to resolving owns the
// transition, even if the outcome only lands later through adoption.
const (
	fateUnresolved int32 = iota
	fateResolving
	fateResolved
)

// closedChan is a reusable already-closed channel for cells that are
// terminal from birth.
var closedChan = make(chan struct{})

func init() {
	close(closedChan)
}

// Result is the outcome of a settled cell: a canonical value, or an error.
type Result struct {
	val dynval.Value
	err error
}

// Val returns the resolved value. It is the null value for rejected results.
func (r Result) Val() dynval.Value { return r.val }

// Err returns the rejection reason, or nil for resolved results.
func (r Result) Err() error { return r.err }

// Rejected reports whether the result carries a rejection.
func (r Result) Rejected() bool { return r.err != nil }

func (r Result) String() string {
	if r.err != nil {
		return "rejected(" + r.err.Error() + ")"
	}
	return "resolved(" + r.val.String() + ")"
}

// Cell is a single-assignment asynchronous completion cell.
//
// The zero Cell is not usable; create cells with New, Resolved, Rejected,
// or From.
type Cell struct {
	state atomic.Int32
	fate  atomic.Int32

	// mu serializes OnSettle registration against settlement, so a
	// callback is either queued before the terminal transition or runs
	// synchronously after it. There is no window to lose one in.
	mu   sync.Mutex
	subs []func(Result)

	// done is closed at settlement, after res and state are in place.
	// The close is the happens-before edge every waiter relies on.
	done chan struct{}
	res  Result
}

// New returns a pending cell.
func New() *Cell {
	return &Cell{done: make(chan struct{})}
}

// Resolved returns a cell that is resolved from birth, holding
// dynval.Of(v). The value is converted, not awaited: a future-like v ends
// up an opaque leaf here. Use New followed by Complete to adopt futures.
func Resolved(v any) *Cell {
	c := &Cell{done: closedChan}
	c.res = Result{val: dynval.Of(v)}
	c.state.Store(stateResolved)
	c.fate.Store(fateResolved)
	return c
}

// Rejected returns a cell that is rejected from birth. A nil err is
// replaced by ErrRejected.
func Rejected(err error) *Cell {
	if err == nil {
		err = ErrRejected
	}
	c := &Cell{done: closedChan}
	c.res = Result{err: err}
	c.state.Store(stateRejected)
	c.fate.Store(fateResolved)
	return c
}

// From converts an arbitrary value to a cell: a *Cell is returned as-is, an
// error yields a rejected cell, and anything else (nil included) yields a
// resolved cell holding the converted value.
func From(v any) *Cell {
	switch x := v.(type) {
	case *Cell:
		if x == nil {
			return Resolved(nil)
		}
		return x
	case error:
		return Rejected(x)
	default:
		return Resolved(v)
	}
}

// Complete converts v and attempts the terminal transition. It returns
// whether this call won the transition; once a cell has a winner every
// later attempt returns false without blocking.
//
// The conversion follows From, with two extra rules: a dynval.Value is
// stored as-is, and a *Cell is adopted rather than wrapped. Adoption wins
// the transition immediately (competing completions lose from that point
// on) but the cell stays pending to observers until the inner cell
// settles, at which point its outcome becomes this cell's outcome.
// Because adopted cells may themselves be waiting on adoptions, a chain of
// nested future-likes flattens level by level until a plain outcome lands.
func (c *Cell) Complete(v any) bool {
	switch x := v.(type) {
	case nil:
		return c.settle(Result{})
	case dynval.Value:
		return c.settle(Result{val: x})
	case *Cell:
		if x == nil {
			return c.settle(Result{})
		}
		return c.adopt(x)
	case error:
		return c.CompleteError(x)
	default:
		return c.settle(Result{val: dynval.Of(v)})
	}
}

// CompleteError attempts the terminal transition to rejected. A nil err is
// replaced by ErrRejected. It returns whether this call won the transition.
func (c *Cell) CompleteError(err error) bool {
	if err == nil {
		err = ErrRejected
	}
	return c.settle(Result{err: err})
}

func (c *Cell) settle(r Result) bool {
	if !c.fate.CompareAndSwap(fateUnresolved, fateResolving) {
		return false
	}
	c.finalize(r)
	return true
}

func (c *Cell) adopt(src *Cell) bool {
	if !c.fate.CompareAndSwap(fateUnresolved, fateResolving) {
		return false
	}
	src.OnSettle(c.finalize)
	return true
}

// finalize publishes the outcome. It runs exactly once per cell, on the
// goroutine that completed the cell or, for adoptions, the one that
// settled the inner cell.
func (c *Cell) finalize(r Result) {
	c.mu.Lock()
	c.res = r
	if r.err != nil {
		c.state.Store(stateRejected)
	} else {
		c.state.Store(stateResolved)
	}
	c.fate.Store(fateResolved)
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	close(c.done)

	for _, fn := range subs {
		fn(r)
	}
}

// State returns "pending", "resolved", or "rejected".
func (c *Cell) State() string {
	switch c.state.Load() {
	case stateResolved:
		return "resolved"
	case stateRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// IsPending reports whether the cell has not settled yet. A cell that has
// adopted a still-pending inner cell is pending.
func (c *Cell) IsPending() bool { return c.state.Load() == statePending }

// IsResolved reports whether the cell settled with a value.
func (c *Cell) IsResolved() bool { return c.state.Load() == stateResolved }

// IsRejected reports whether the cell settled with an error.
func (c *Cell) IsRejected() bool { return c.state.Load() == stateRejected }

// OnSettle registers fn to be called exactly once with the cell's outcome.
//
// If the cell is still pending, fn is queued; queued callbacks run on the
// completing goroutine, in registration order, after the cell is already
// observably terminal. If the cell is already terminal, fn runs
// synchronously before OnSettle returns. A nil fn panics.
func (c *Cell) OnSettle(fn func(Result)) {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}
	c.mu.Lock()
	if c.state.Load() == statePending {
		c.subs = append(c.subs, fn)
		c.mu.Unlock()
		return
	}
	r := c.res
	c.mu.Unlock()
	fn(r)
}

// Wait blocks until the cell settles and returns its outcome.
func (c *Cell) Wait() Result {
	<-c.done
	return c.res
}

// WaitFor blocks until the cell settles or d elapses. On timeout it
// returns a Result carrying ErrTimedOut; the cell itself is untouched and
// can still settle normally afterwards.
func (c *Cell) WaitFor(d time.Duration) Result {
	select {
	case <-c.done:
		return c.res
	default:
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-c.done:
		return c.res
	case <-t.C:
		return Result{err: ErrTimedOut}
	}
}

// WaitContext blocks until the cell settles or ctx is done, whichever
// comes first. When ctx wins, the returned Result carries ctx.Err() and
// the cell is untouched. A nil ctx panics.
func (c *Cell) WaitContext(ctx context.Context) Result {
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	select {
	case <-c.done:
		return c.res
	case <-ctx.Done():
		return Result{err: ctx.Err()}
	}
}

// Done returns a channel that is closed once the cell settles, for use in
// select statements. After it is closed, Wait returns without blocking.
func (c *Cell) Done() <-chan struct{} {
	return c.done
}
