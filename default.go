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
	"time"
)

// The package-level constructors below create promises on the default
// group: they track nothing and carry no handlers. Use NewGroup for
// lifecycle tracking, settlement logging, or uncaught rejection handling.

// New returns a pending promise that is its own root. Complete it through
// Complete, CompleteError, or by handing its chain to someone else and
// completing any link of it.
func New() *Promise {
	return newCall(nil)
}

// NewInit returns a pending promise after synchronously invoking init with
// a Resolver bound to it.
//
// Whatever settles the promise first wins: if init returns a non-nil error
// or panics before using the resolver, the promise is rejected with that
// failure (panics are wrapped in PanicError); if the resolver was already
// used, a later error return or panic changes nothing. The init function
// may also keep the resolver and use it after returning, which leaves the
// promise pending in the meantime.
//
// It panics if a nil function is passed.
func NewInit(init InitFunc) *Promise {
	return initCall(nil, init)
}

// Resolve returns a promise resolved with v's canonical value.
//
// Two inputs get special treatment, matching Complete: an error value
// yields a rejected promise, and a *Promise or *completion.Cell yields a
// promise sharing that future's outcome, settling whenever it does. A nil
// v resolves to null.
func Resolve(v any) *Promise {
	return resolveCall(nil, v)
}

// Reject returns a promise rejected with err. A nil err is replaced by
// ErrRejected.
func Reject(err error) *Promise {
	return rejectCall(nil, err)
}

// WithResolvers returns a pending promise together with the Resolver that
// completes it, for code that hands the two ends to different owners.
func WithResolvers() (*Promise, *Resolver) {
	return resolversCall(nil)
}

// Delay returns a promise that settles with v's outcome after at least
// duration d.
//
// The outcome follows Resolve's rules: an error value rejects, anything
// else resolves. By default both outcomes are delayed; passing OnSuccess
// or OnError restricts the delay to that outcome, settling the other
// immediately.
func Delay(v any, d time.Duration, cond ...DelayCond) *Promise {
	return delayCall(nil, v, d, cond...)
}

// Ctx returns a promise that is rejected with ctx.Err() once ctx is done.
// It is useful as a Race entry to bound a wait for other promises. A ctx
// that can never be done yields a promise that is never settled. A nil
// ctx panics.
func Ctx(ctx context.Context) *Promise {
	return ctxCall(nil, ctx)
}

// All returns a promise for the values of all the given promises, as a
// list in the same order they were passed, regardless of the order they
// settle in.
//
// It rejects as soon as any input rejects, with that input's reason,
// without waiting for the remaining inputs. An empty input yields a
// promise already resolved with an empty list.
func All(promises ...*Promise) *Promise {
	return allCall(nil, promises)
}

// Race returns a promise that settles exactly like the first input to
// settle, value or error. An empty input yields a promise already
// resolved with null.
func Race(promises ...*Promise) *Promise {
	return raceCall(nil, promises)
}
