/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package futurevalue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func ExampleValue_Get() {
	fv := New()

	done := make(chan bool)
	go func() {
		value, err := fv.Get(context.Background())
		if err != nil {
			fmt.Printf("Error returned from Get: %s\n", err)
		}
		fmt.Println(value)
		done <- true
	}()

	fv.Set("submitted", nil)
	<-done
	// Output: submitted
}

func TestFutureValueGet(t *testing.T) {
	expectedValue := "Value1"
	fv := New()

	concurrency := 100
	var wg sync.WaitGroup
	wg.Add(concurrency)

	results := make(chan interface{}, concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			value, err := fv.Get(context.Background())
			if err != nil {
				results <- err
				return
			}
			results <- value
		}()
	}

	assert.False(t, fv.IsSet())
	assert.True(t, fv.Set(expectedValue, nil))
	wg.Wait()
	close(results)

	for r := range results {
		assert.Equal(t, expectedValue, r)
	}
	assert.True(t, fv.IsSet())
	assert.Equal(t, expectedValue, fv.MustGet())
}

func TestFirstSetWins(t *testing.T) {
	fv := New()

	var wg sync.WaitGroup
	winners := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if fv.Set(i, nil) {
				winners <- i
			}
		}(i)
	}
	wg.Wait()
	close(winners)

	var won []int
	for w := range winners {
		won = append(won, w)
	}
	assert.Len(t, won, 1)
	assert.Equal(t, won[0], fv.MustGet())

	assert.False(t, fv.Set(nil, errors.New("late error")), "late signals are ignored")
	value, err := fv.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, won[0], value)
}

func TestGetError(t *testing.T) {
	fv := New()
	fv.Set(nil, errors.New("error event"))

	_, err := fv.Get(context.Background())
	assert.EqualError(t, err, "error event")
	assert.Panics(t, func() { fv.MustGet() })
}

func TestGetContextDone(t *testing.T) {
	fv := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fv.Get(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)

	select {
	case <-fv.Done():
		t.Fatal("value must not be settled")
	default:
	}
}
