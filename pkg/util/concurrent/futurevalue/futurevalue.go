/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package futurevalue

import (
	"context"
	"fmt"
	"sync"
)

// valueHolder holds the actual value
type valueHolder struct {
	value interface{}
	err   error
}

// Value implements a Future Value that is settled once (and only once).
// Any number of Go routines may attempt to settle it; the first Set wins and
// later calls are ignored. Any number of Go routines may invoke Get, and will
// wait until the value has been settled.
type Value struct {
	once   sync.Once
	done   chan struct{}
	holder valueHolder
}

// New returns a new, unsettled future value
func New() *Value {
	return &Value{done: make(chan struct{})}
}

// Set settles the value. It returns true if this call settled the value,
// false if it had already been settled.
func (f *Value) Set(value interface{}, err error) bool {
	settled := false
	f.once.Do(func() {
		f.holder = valueHolder{value: value, err: err}
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel that is closed once the value is settled
func (f *Value) Done() <-chan struct{} {
	return f.done
}

// Get waits for the value to be settled or for ctx to be done.
func (f *Value) Get(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.holder.value, f.holder.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// MustGet returns the settled value. If it was settled with an error
// then this function will panic.
func (f *Value) MustGet() interface{} {
	value, err := f.Get(context.Background())
	if err != nil {
		panic(fmt.Sprintf("get returned error: %s", err))
	}
	return value
}

// IsSet returns true if the value has been set, otherwise false is returned
func (f *Value) IsSet() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
