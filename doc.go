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

// Package promise provides a dynamically typed, chainable promise built
// around a single-assignment completion cell.
//
// A Promise carries one value of type dynval.Value, or one rejection
// reason of type error. Settling is externally driven: promises are
// completed through Complete and CompleteError (or through a Resolver),
// not by running a supplied function on a new goroutine.
//
// A Promise has three states, and it can be in only one of them, at any time:
// Pending: the promise has not settled yet.
// Resolved: the promise settled with a value.
// Rejected: the promise settled with an error.
//
// General Notes:-
//
// * Once a promise settles, its result never changes. Completing an
// already settled promise is a no-op that reports false: the first
// completer wins, and losing the race is not an error.
//
// * Complete accepts any Go value and converts it with dynval.Of. An
// error value completes the promise as rejected, and another Promise
// is adopted: the outer promise reserves its settlement immediately
// but stays pending until the inner one settles, then mirrors it.
//
// Callback Notes:-
//
// * Then, Tap, Catch, and CatchTap each return a new Promise that
// settles after the receiver settles and the callback, if it ran, has
// returned.
//
// * A rejection skips Then and Tap callbacks and propagates along the
// chain until some link heals it with Catch or CatchTap.
//
// * Completing a derived promise feeds the first link of its chain:
// Complete acts on the chain's root, while waiting and state probes
// act on the link itself.
//
// * If a callback panics, the derived promise is rejected with a
// PanicError carrying the recovered value.
//
// Group Notes:-
//
// * The package-level constructors operate on a default group, which
// tracks nothing. A Group created by NewGroup tracks every promise
// made through it, including derived links, until settlement. It can
// wait for all of them, log their settlements, and report rejections
// that nothing observed.
package promise
