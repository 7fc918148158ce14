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
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/treewave/promise/completion"
)

// GroupConfig carries the ambient configuration of a Group.
type GroupConfig struct {
	// UncaughtRejectionHandler is called with the rejection reason of any
	// group promise that settles rejected with nothing attached to it: no
	// continuation, no wait, no observer. Such a rejection would otherwise
	// go unnoticed.
	UncaughtRejectionHandler func(err error)

	// Logger receives one Debug event per settled group promise and, when
	// no UncaughtRejectionHandler is set, one Warn event per uncaught
	// rejection. A nil Logger disables logging.
	Logger *zerolog.Logger
}

// Group scopes promise construction. Promises created through a group,
// including every link later derived from them, are tracked until they
// settle, report their settlement to the group's logger, and surface
// uncaught rejections through the group's handler.
//
// A nil *Group is valid everywhere and behaves like the default group:
// nothing is tracked and no handlers run. The package-level constructors
// are exactly that.
type Group struct {
	core groupCore
}

type groupCore struct {
	uncaughtRejectionHandler func(err error)
	logger                   *zerolog.Logger

	wg sync.WaitGroup
}

// NewGroup returns a new group, optionally configured by the first non-nil
// config passed.
func NewGroup(c ...*GroupConfig) *Group {
	g := &Group{}

	if len(c) != 0 && c[0] != nil {
		if cb := c[0].UncaughtRejectionHandler; cb != nil {
			g.core.uncaughtRejectionHandler = cb
		}
		if l := c[0].Logger; l != nil {
			g.core.logger = l
		}
	}

	return g
}

// New is like the package-level New, on this group.
func (g *Group) New() *Promise {
	return newCall(g)
}

// NewInit is like the package-level NewInit, on this group.
func (g *Group) NewInit(init InitFunc) *Promise {
	return initCall(g, init)
}

// Resolve is like the package-level Resolve, on this group.
func (g *Group) Resolve(v any) *Promise {
	return resolveCall(g, v)
}

// Reject is like the package-level Reject, on this group.
func (g *Group) Reject(err error) *Promise {
	return rejectCall(g, err)
}

// WithResolvers is like the package-level WithResolvers, on this group.
func (g *Group) WithResolvers() (*Promise, *Resolver) {
	return resolversCall(g)
}

// Delay is like the package-level Delay, on this group.
func (g *Group) Delay(v any, d time.Duration, cond ...DelayCond) *Promise {
	return delayCall(g, v, d, cond...)
}

// Ctx is like the package-level Ctx, on this group.
func (g *Group) Ctx(ctx context.Context) *Promise {
	return ctxCall(g, ctx)
}

// All is like the package-level All, on this group.
func (g *Group) All(promises ...*Promise) *Promise {
	return allCall(g, promises)
}

// Race is like the package-level Race, on this group.
func (g *Group) Race(promises ...*Promise) *Promise {
	return raceCall(g, promises)
}

// Wait blocks until every pending promise created through the group,
// including derived links, has settled. A group promise that can never
// settle makes Wait block forever.
func (g *Group) Wait() {
	if g == nil {
		return
	}
	g.core.wg.Wait()
}

// track registers p with the group. Promises that are already terminal at
// construction only get their settlement logged: they cannot be waited
// for meaningfully, and rejecting synchronously is an explicit act that
// shouldn't count as uncaught.
func (g *Group) track(p *Promise) {
	if g == nil {
		return
	}
	c := p.cell
	if !c.IsPending() {
		g.logSettled(c.Wait())
		return
	}

	// register before attaching, so a settlement racing this call is
	// accounted for either way.
	g.core.wg.Add(1)
	c.OnSettle(func(r completion.Result) {
		g.logSettled(r)
		if r.Rejected() && !p.observed.Load() {
			g.uncaught(r.Err())
		}
		g.core.wg.Done()
	})
}

func (g *Group) logSettled(r completion.Result) {
	l := g.core.logger
	if l == nil {
		return
	}
	if r.Rejected() {
		l.Debug().Str("state", "rejected").Err(r.Err()).Msg("promise settled")
	} else {
		l.Debug().Str("state", "resolved").Stringer("value", r.Val()).Msg("promise settled")
	}
}

func (g *Group) uncaught(err error) {
	if cb := g.core.uncaughtRejectionHandler; cb != nil {
		cb(err)
		return
	}
	if l := g.core.logger; l != nil {
		l.Warn().Err(err).Msg("uncaught promise rejection")
	}
}
