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
	"sync/atomic"

	"github.com/treewave/promise/completion"
	"github.com/treewave/promise/dynval"
)

// allCall and raceCall settle their result from inside the input
// promises' settlement callbacks. No goroutine is spawned: the cell's
// at-most-once transition arbitrates between racing inputs.

func allCall(g *Group, promises []*Promise) *Promise {
	if len(promises) == 0 {
		return resolveCall(g, dynval.List())
	}

	out := completion.New()
	p := newPromise(g, out, out)

	vals := make([]dynval.Value, len(promises))
	var remaining atomic.Int32
	remaining.Store(int32(len(promises)))

	for i, in := range promises {
		in.observed.Store(true)
		in.cell.OnSettle(func(r completion.Result) {
			if r.Rejected() {
				out.CompleteError(r.Err())
				return
			}
			vals[i] = r.Val()
			if remaining.Add(-1) == 0 {
				out.Complete(dynval.List(vals...))
			}
		})
	}

	return p
}

func raceCall(g *Group, promises []*Promise) *Promise {
	if len(promises) == 0 {
		return resolveCall(g, nil)
	}

	out := completion.New()
	p := newPromise(g, out, out)

	for _, in := range promises {
		in.observed.Store(true)
		in.cell.OnSettle(func(r completion.Result) {
			if r.Rejected() {
				out.CompleteError(r.Err())
			} else {
				out.Complete(r.Val())
			}
		})
	}

	return p
}
