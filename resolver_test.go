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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithResolvers(t *testing.T) {
	t.Run("resolve", func(t *testing.T) {
		p, r := WithResolvers()
		require.True(t, r.IsPending())

		require.True(t, r.Resolve("v"))
		require.True(t, r.IsResolved())
		require.False(t, r.IsPending())

		val, err := p.Wait()
		require.NoError(t, err)
		require.Equal(t, "v", val.AsText())
	})

	t.Run("reject", func(t *testing.T) {
		wantErr := newStrError()
		p, r := WithResolvers()

		require.True(t, r.Reject(wantErr))
		require.True(t, r.IsRejected())

		_, err := p.Wait()
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("reject without a reason", func(t *testing.T) {
		p, r := WithResolvers()
		require.True(t, r.Reject(nil))
		_, err := p.Wait()
		require.ErrorIs(t, err, ErrRejected)
	})

	t.Run("whichever comes first wins", func(t *testing.T) {
		p, r := WithResolvers()
		require.True(t, r.Resolve(1))
		require.False(t, r.Reject(newStrError()))
		require.False(t, r.Resolve(2))

		val, err := p.Wait()
		require.NoError(t, err)
		require.Equal(t, int64(1), val.AsInt())
	})

	t.Run("resolving with a promise adopts it", func(t *testing.T) {
		inner := New()
		p, r := WithResolvers()

		require.True(t, r.Resolve(inner))
		require.True(t, r.IsPending()) // reserved, not yet settled

		inner.Complete("from inner")
		val, err := p.Wait()
		require.NoError(t, err)
		require.Equal(t, "from inner", val.AsText())
	})

	t.Run("exactly one concurrent winner", func(t *testing.T) {
		p, r := WithResolvers()
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				if r.Resolve(n) {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()
		require.Equal(t, int32(1), wins.Load())
		require.True(t, p.IsResolved())
	})
}

func TestNewInit(t *testing.T) {
	t.Run("runs synchronously", func(t *testing.T) {
		ran := false
		p := NewInit(func(r *Resolver) error {
			ran = true
			r.Resolve(10)
			return nil
		})
		require.True(t, ran)
		require.True(t, p.IsResolved())

		val, err := p.Wait()
		require.NoError(t, err)
		require.Equal(t, int64(10), val.AsInt())
	})

	t.Run("returned error rejects", func(t *testing.T) {
		wantErr := newStrError()
		p := NewInit(func(r *Resolver) error {
			return wantErr
		})
		require.True(t, p.IsRejected())

		_, err := p.Wait()
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("resolver beats the returned error", func(t *testing.T) {
		p := NewInit(func(r *Resolver) error {
			r.Resolve("kept")
			return newStrError()
		})
		val, err := p.Wait()
		require.NoError(t, err)
		require.Equal(t, "kept", val.AsText())
	})

	t.Run("resolver outlives the initializer", func(t *testing.T) {
		var res *Resolver
		p := NewInit(func(r *Resolver) error {
			res = r
			return nil
		})
		require.True(t, p.IsPending())

		res.Resolve("later")
		val, err := p.Wait()
		require.NoError(t, err)
		require.Equal(t, "later", val.AsText())
	})

	t.Run("nil initializer panics", func(t *testing.T) {
		require.PanicsWithValue(t, nilCallbackPanicMsg, func() {
			NewInit(nil)
		})
	})
}
