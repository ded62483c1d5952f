/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides bounded retransmission of ledger operations.
// Every operation kind (query, invoke, register, enroll) goes through the same
// policy: input errors settle immediately, any other failure is retried up to
// Opts.Attempts times with a backoff between attempts.
package retry

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

// Opts defines the retry parameters
type Opts struct {
	// Attempts the number of retry attempts, made after the initial attempt
	Attempts int
	// InitialBackoff the backoff interval for the first retry attempt
	InitialBackoff time.Duration
	// MaxBackoff the maximum backoff interval for any retry attempt
	MaxBackoff time.Duration
	// BackoffFactor the factor by which the InitialBackoff is exponentially
	// incremented for consecutive retry attempts. A factor of 1 keeps the
	// backoff constant.
	BackoffFactor float64
	// RetryableCodes restricts retries to the given status codes, mapped by group.
	// When empty every failure except an input error is considered transient.
	RetryableCodes map[status.Group][]status.Code
}

// Handler retry handler interface decides whether a retry is required for the given
// error and how long to wait before it
type Handler interface {
	Required(err error) (backoff time.Duration, ok bool)
}

// impl retry Handler implementation. A handler counts the retries of one
// logical operation and must not be shared between operations.
type impl struct {
	opts    Opts
	retries int
}

// New retry Handler with the given opts
func New(opts Opts) Handler {
	if opts.BackoffFactor <= 0 {
		opts.BackoffFactor = DefaultBackoffFactor
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = opts.InitialBackoff
	}
	return &impl{opts: opts}
}

// WithDefaults new retry Handler with default opts
func WithDefaults() Handler {
	return New(DefaultOpts)
}

// WithAttempts new retry Handler with given attempts. Other opts are set to default.
func WithAttempts(attempts int) Handler {
	opts := DefaultOpts
	opts.Attempts = attempts
	return New(opts)
}

// Required determines if retry is required for the given error and returns
// the backoff to wait before the next attempt
func (i *impl) Required(err error) (time.Duration, bool) {
	if err == nil || i.retries >= i.opts.Attempts {
		return 0, false
	}
	if !i.isRetryable(err) {
		return 0, false
	}

	backoff := i.backoffPeriod()
	i.retries++
	return backoff, true
}

// Retries returns the number of retries granted so far
func (i *impl) Retries() int {
	return i.retries
}

// backoffPeriod calculates the backoff duration based on the provided opts
func (i *impl) backoffPeriod() time.Duration {
	backoff, max := float64(i.opts.InitialBackoff), float64(i.opts.MaxBackoff)
	for j := 0; j < i.retries && backoff < max; j++ {
		backoff *= i.opts.BackoffFactor
	}
	if backoff > max {
		backoff = max
	}

	return time.Duration(backoff)
}

// isRetryable determines if the given error is transient
func (i *impl) isRetryable(err error) bool {
	if status.IsInvalidInput(err) {
		return false
	}
	cause := errors.Cause(err)
	if cause == context.Canceled {
		return false
	}

	if len(i.opts.RetryableCodes) == 0 {
		return true
	}

	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	for _, code := range i.opts.RetryableCodes[s.Group] {
		if status.Code(s.Code) == code {
			return true
		}
	}
	return false
}
