/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

func TestRetryRequired(t *testing.T) {
	attempts := 3
	transientErr := status.New(status.TestStatus, status.GenericTransient.ToInt32(), "", nil)
	inputErr := status.InvalidInputf("fcn is required")
	unknownErr := fmt.Errorf("Unknown")

	r := New(Opts{
		Attempts:       attempts,
		BackoffFactor:  2,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
	})
	for i := 1; i <= attempts; i++ {
		_, ok := r.Required(transientErr)
		assert.True(t, ok, "Expected retry to be required on transient error")
	}
	_, ok := r.Required(transientErr)
	assert.False(t, ok, "Expected retry to not be required after exhausting attempts")

	r = WithDefaults()
	_, ok = r.Required(inputErr)
	assert.False(t, ok, "Expected retry to not be required on input error")
	_, ok = r.Required(errors.Wrap(inputErr, "wrapped"))
	assert.False(t, ok, "Expected retry to not be required on wrapped input error")
	_, ok = r.Required(errors.WithMessage(context.Canceled, "query"))
	assert.False(t, ok, "Expected retry to not be required on cancellation")
	_, ok = r.Required(nil)
	assert.False(t, ok)

	backoff, ok := WithAttempts(2).Required(unknownErr)
	assert.True(t, ok, "Expected unclassified errors to be transient by default")
	assert.Equal(t, DefaultInitialBackoff, backoff)
}

func TestRetryableCodes(t *testing.T) {
	r := New(Opts{
		Attempts:       5,
		InitialBackoff: time.Millisecond,
		RetryableCodes: TransportRetryableCodes,
	})

	_, ok := r.Required(status.New(status.LedgerServerStatus, status.ServiceUnavailable.ToInt32(), "", nil))
	assert.True(t, ok)
	_, ok = r.Required(status.New(status.ChaincodeStatus, 500, "", nil))
	assert.False(t, ok, "chaincode errors are not in the transport set")
	_, ok = r.Required(fmt.Errorf("Unknown"))
	assert.False(t, ok, "unclassified errors are not in the transport set")
}

func TestDefaultsAreConstantBackoff(t *testing.T) {
	i := WithDefaults().(*impl)
	for n := 0; n < DefaultAttempts; n++ {
		assert.Equal(t, 2*time.Second, i.backoffPeriod())
		i.retries++
	}
}

func TestBackoffPeriod(t *testing.T) {
	testAttempts := 10
	testBackoffFactor := 3.34
	testInitialBackoff := 2 * time.Second
	floatInitBackoff := float64(testInitialBackoff)
	testMaxBackoff := 30 * time.Second
	r := New(Opts{
		Attempts:       testAttempts,
		BackoffFactor:  testBackoffFactor,
		InitialBackoff: testInitialBackoff,
		MaxBackoff:     testMaxBackoff,
	})
	i := r.(*impl)
	assert.Equal(t, testInitialBackoff, i.backoffPeriod(), "Expected initial backoff on first attempt")
	i.retries = 1
	assert.Equal(t, time.Duration(floatInitBackoff*testBackoffFactor), i.backoffPeriod(),
		"Expected initial backoff multiplied by backoff factor on second attempt")
	i.retries = 2
	assert.Equal(t, time.Duration(floatInitBackoff*testBackoffFactor*testBackoffFactor),
		i.backoffPeriod(), "Expected exponential backoff")
	i.retries = 3
	assert.Equal(t, testMaxBackoff, i.backoffPeriod(), "Expected max backoff")
}
