/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/multi"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
)

var logger = logging.NewLogger("mortgagesdk/retry")

// Invocation is the function to be invoked.
type Invocation func(ctx context.Context) (interface{}, error)

// BeforeRetryHandler is a function that's invoked before
// a retry attempt with the error of the failed attempt and
// the number of the attempt about to be made.
type BeforeRetryHandler func(err error, attempt int)

// WaitFunc waits for the backoff period or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// RetryableInvoker manages invocations that could return
// errors and retries the invocation on transient errors.
type RetryableInvoker struct {
	handler     Handler
	beforeRetry BeforeRetryHandler
	wait        WaitFunc
}

// InvokerOpt is an invoker option
type InvokerOpt func(invoker *RetryableInvoker)

// WithBeforeRetry specifies a function to call before a retry attempt
func WithBeforeRetry(beforeRetry BeforeRetryHandler) InvokerOpt {
	return func(invoker *RetryableInvoker) {
		invoker.beforeRetry = beforeRetry
	}
}

// WithWait replaces the timer based backoff wait
func WithWait(wait WaitFunc) InvokerOpt {
	return func(invoker *RetryableInvoker) {
		invoker.wait = wait
	}
}

// NewInvoker creates a new RetryableInvoker. The handler carries the retry
// count, so an invoker serves exactly one logical operation.
func NewInvoker(handler Handler, opts ...InvokerOpt) *RetryableInvoker {
	invoker := &RetryableInvoker{
		handler: handler,
		wait:    timerWait,
	}
	for _, opt := range opts {
		opt(invoker)
	}
	return invoker
}

// Invoke invokes the given function and performs retries according
// to the retry options. Attempts are strictly sequential.
func (ri *RetryableInvoker) Invoke(ctx context.Context, invocation Invocation) (interface{}, error) {
	attemptNum := 0
	var lastErr error

	for {
		attemptNum++
		if attemptNum > 1 {
			logger.Infof("Retry attempt #%d on error [%s]", attemptNum, lastErr)
		}

		retval, err := invocation(ctx)
		if err == nil {
			if attemptNum > 1 {
				logger.Debugf("Success on attempt #%d after error [%s]", attemptNum, lastErr)
			}
			return retval, nil
		}

		logger.Debugf("Failed with err [%s] on attempt #%d. Checking if retry is warranted...", err, attemptNum)
		backoff, ok := ri.resolveRetry(err)
		if !ok {
			logger.Debugf("... retry for err [%s] is NOT warranted after %d attempt(s).", err, attemptNum)
			return nil, err
		}

		if ri.beforeRetry != nil {
			ri.beforeRetry(err, attemptNum+1)
		}
		if werr := ri.wait(ctx, backoff); werr != nil {
			return nil, errors.WithMessagef(err, "retry aborted after %d attempt(s): %s", attemptNum, werr)
		}
		lastErr = err
	}
}

func (ri *RetryableInvoker) resolveRetry(err error) (time.Duration, bool) {
	errs, ok := err.(multi.Errors)
	if !ok {
		errs = append(errs, err)
	}
	for _, e := range errs {
		if backoff, ok := ri.handler.Required(e); ok {
			return backoff, true
		}
	}
	return 0, false
}

func timerWait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
