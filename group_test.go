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
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treewave/promise/dynval"
)

func TestGroupWait(t *testing.T) {
	t.Run("waits for every promise", func(t *testing.T) {
		g := NewGroup()

		const n = 8
		proms := make([]*Promise, n)
		for i := range proms {
			proms[i] = g.New()
		}

		var wg sync.WaitGroup
		for i, p := range proms {
			wg.Add(1)
			go func(i int, p *Promise) {
				defer wg.Done()
				time.Sleep(time.Duration(i) * time.Millisecond)
				p.Complete(i)
			}(i, p)
		}

		g.Wait()
		for _, p := range proms {
			require.True(t, p.IsResolved())
		}
		wg.Wait()
	})

	t.Run("derived links count", func(t *testing.T) {
		g := NewGroup()
		root := g.New()
		last := root.Then(func(val dynval.Value) (any, error) {
			return val.AsInt() + 1, nil
		}).Then(func(val dynval.Value) (any, error) {
			return val.AsInt() + 1, nil
		})

		go root.Complete(1)

		g.Wait()
		require.True(t, last.IsResolved())
		val, _ := last.Wait()
		require.Equal(t, int64(3), val.AsInt())
	})

	t.Run("empty group returns immediately", func(t *testing.T) {
		NewGroup().Wait()
	})
}

func TestGroupLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	g := NewGroup(&GroupConfig{Logger: &logger})

	p := g.New()
	p.Complete("logged")

	out := buf.String()
	assert.Contains(t, out, `"message":"promise settled"`)
	assert.Contains(t, out, `"state":"resolved"`)
	assert.Contains(t, out, `"value":"\"logged\""`)

	buf.Reset()
	q := g.New()
	q.Then(func(val dynval.Value) (any, error) { return nil, nil })
	q.CompleteError(newStrError())

	out = buf.String()
	assert.Contains(t, out, `"state":"rejected"`)
	assert.Contains(t, out, `"error":"str_test_error"`)
}

func TestGroupUncaughtRejections(t *testing.T) {
	t.Run("unobserved rejection is reported", func(t *testing.T) {
		var got []error
		g := NewGroup(&GroupConfig{
			UncaughtRejectionHandler: func(err error) { got = append(got, err) },
		})

		wantErr := newStrError()
		p := g.New()
		p.CompleteError(wantErr)

		require.Len(t, got, 1)
		require.ErrorIs(t, got[0], wantErr)
	})

	t.Run("only the chain tail is reported", func(t *testing.T) {
		var got []error
		g := NewGroup(&GroupConfig{
			UncaughtRejectionHandler: func(err error) { got = append(got, err) },
		})

		wantErr := newPtrError()
		root := g.New()
		root.Then(func(val dynval.Value) (any, error) {
			return nil, nil
		}).Then(func(val dynval.Value) (any, error) {
			return nil, nil
		})

		root.CompleteError(wantErr)

		// the intermediate links each have a continuation attached; only
		// the dangling last link goes unobserved.
		require.Len(t, got, 1)
		require.ErrorIs(t, got[0], wantErr)
	})

	t.Run("a catch silences the chain", func(t *testing.T) {
		var got []error
		g := NewGroup(&GroupConfig{
			UncaughtRejectionHandler: func(err error) { got = append(got, err) },
		})

		root := g.New()
		root.Then(func(val dynval.Value) (any, error) {
			return nil, nil
		}).CatchTap(func(reason error) error {
			return nil
		})

		root.CompleteError(newStrError())
		require.Empty(t, got)
	})

	t.Run("an attached observer silences the report", func(t *testing.T) {
		var got []error
		g := NewGroup(&GroupConfig{
			UncaughtRejectionHandler: func(err error) { got = append(got, err) },
		})

		p := g.New()
		done := p.Done() // observing, like Wait or a continuation
		p.CompleteError(newStrError())

		g.Wait()
		<-done
		require.Empty(t, got)
	})

	t.Run("born rejected promises are exempt", func(t *testing.T) {
		var got []error
		g := NewGroup(&GroupConfig{
			UncaughtRejectionHandler: func(err error) { got = append(got, err) },
		})

		g.Reject(newStrError())
		g.Wait()
		require.Empty(t, got)
	})

	t.Run("falls back to a warn log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		g := NewGroup(&GroupConfig{Logger: &logger})

		p := g.New()
		p.CompleteError(newStrError())

		out := buf.String()
		assert.Contains(t, out, `"level":"warn"`)
		assert.Contains(t, out, `"message":"uncaught promise rejection"`)
	})
}

func TestNilGroup(t *testing.T) {
	var g *Group

	// a nil group is the default group: usable, untracked.
	g.Wait()

	p := g.New()
	require.True(t, p.IsPending())
	p.Complete(1)

	_, err := g.Reject(newStrError()).Wait()
	require.Error(t, err)
}

func TestNewGroupConfig(t *testing.T) {
	require.NotNil(t, NewGroup())
	require.NotNil(t, NewGroup(nil))

	called := false
	g := NewGroup(&GroupConfig{
		UncaughtRejectionHandler: func(err error) { called = true },
	})
	p := g.New()
	p.CompleteError(newStrError())
	require.True(t, called)
}
