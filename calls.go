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

// calls.go: the constructor implementations shared between the package
// level API and Group methods.

package promise

import (
	"context"
	"time"

	"github.com/treewave/promise/completion"
)

func newCall(g *Group) *Promise {
	c := completion.New()
	return newPromise(g, c, c)
}

func initCall(g *Group, init InitFunc) *Promise {
	if init == nil {
		panic(nilCallbackPanicMsg)
	}
	c := completion.New()
	p := newPromise(g, c, c)
	runInit(c, &Resolver{cell: c}, init)
	return p
}

func resolveCall(g *Group, v any) *Promise {
	c := completion.From(unwrapFuture(v))
	return newPromise(g, c, c)
}

func rejectCall(g *Group, err error) *Promise {
	c := completion.Rejected(err)
	return newPromise(g, c, c)
}

func resolversCall(g *Group) (*Promise, *Resolver) {
	p := newCall(g)
	return p, &Resolver{cell: p.cell}
}

func delayCall(g *Group, v any, d time.Duration, cond ...DelayCond) *Promise {
	flags := getDelayFlags(cond)
	c := completion.New()
	p := newPromise(g, c, c)
	go delayHandler(c, unwrapFuture(v), d, flags)
	return p
}

// delayHandler settles c with v's outcome, sleeping first when the delay
// condition covers that outcome.
func delayHandler(c *completion.Cell, v any, d time.Duration, flags delayFlags) {
	if err, ok := v.(error); ok {
		if flags.onError {
			time.Sleep(d)
		}
		c.CompleteError(err)
		return
	}
	if flags.onSuccess {
		time.Sleep(d)
	}
	c.Complete(v)
}

func ctxCall(g *Group, ctx context.Context) *Promise {
	if ctx == nil {
		panic(nilCtxPanicMsg)
	}
	if ctx.Done() == nil {
		// this ctx can never be done, so the equivalent outcome is a
		// promise that's never settled. return that equivalent value
		// without tracking it or creating any unneeded resources.
		c := completion.New()
		return &Promise{cell: c, root: c}
	}

	c := completion.New()
	p := newPromise(g, c, c)
	context.AfterFunc(ctx, func() {
		c.CompleteError(ctx.Err())
	})
	return p
}
