// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import "context"

// Future is a uniform "result that may not be ready yet" type. Dispatch
// runs every handler through Async and waits on that Future; a handler
// may also return a *Future (from Ready or Async) as its value, and
// Dispatch then waits on that one as well. The shape
// mirrors the teacher's Conn.Call wait-on-channel pattern
// (rchan := make(chan *Response); select { case <-rchan: ...; case
// <-ctx.Done(): ... }), generalized to a reusable value.
type Future struct {
	done chan struct{}
	val  interface{}
	err  error
}

// Ready returns a Future that is already complete with value/err.
func Ready(value interface{}, err error) *Future {
	f := &Future{done: make(chan struct{})}
	f.val, f.err = value, err
	close(f.done)

	return f
}

// Async runs fn on its own goroutine and returns a Future that completes
// when fn returns.
func Async(fn func() (interface{}, error)) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		f.val, f.err = fn()
	}()

	return f
}

// Wait blocks until the future completes or ctx is done, whichever comes
// first. A context cancellation surfaces as ctx.Err(), distinct from any
// error the handler itself produced.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
