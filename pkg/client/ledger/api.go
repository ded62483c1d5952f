/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger/invoke"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/retry"
	"github.com/bankledger/mortgage-sdk-go/pkg/metrics"
)

// opts allows the user to specify more advanced options for one request
type requestOptions struct {
	Timeout time.Duration
	Retry   retry.Opts
	// retrySet is true when Retry was given explicitly
	retrySet    bool
	beforeRetry retry.BeforeRetryHandler
	wait        retry.WaitFunc
}

// RequestOption func for each Opts argument
type RequestOption func(opts *requestOptions) error

//Response contains the result of a settled operation
type Response invoke.Response

//WithTimeout bounds the wait for the terminal event of each attempt
func WithTimeout(timeout time.Duration) RequestOption {
	return func(o *requestOptions) error {
		o.Timeout = timeout
		return nil
	}
}

// WithRetry option to configure retries for one request
func WithRetry(retryOpt retry.Opts) RequestOption {
	return func(o *requestOptions) error {
		o.Retry = retryOpt
		o.retrySet = true
		return nil
	}
}

// WithBeforeRetry registers a hook called before each retry of the request
func WithBeforeRetry(beforeRetry retry.BeforeRetryHandler) RequestOption {
	return func(o *requestOptions) error {
		o.beforeRetry = beforeRetry
		return nil
	}
}

// WithWait replaces the backoff wait of the request
func WithWait(wait retry.WaitFunc) RequestOption {
	return func(o *requestOptions) error {
		o.wait = wait
		return nil
	}
}

// ClientOption describes a functional parameter for the New constructor
type ClientOption func(*Client) error

// WithDefaultRetry sets the retry options of every request
func WithDefaultRetry(opts retry.Opts) ClientOption {
	return func(c *Client) error {
		c.retryOpts = opts
		return nil
	}
}

// WithDefaultTimeout sets the per attempt timeout of every request
func WithDefaultTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		c.timeout = timeout
		return nil
	}
}

// WithRegistration sets the affiliation group and default roles of registrations
func WithRegistration(opts invoke.RegistrationOpts) ClientOption {
	return func(c *Client) error {
		c.registration = opts
		return nil
	}
}

// WithMetrics sets the instruments the client reports to
func WithMetrics(m *metrics.ClientMetrics) ClientOption {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// WithRateLimit throttles attempts to at most limit per second with the given burst.
// A zero limit disables throttling.
func WithRateLimit(limit float64, burst int) ClientOption {
	return func(c *Client) error {
		if limit <= 0 {
			c.limiter = nil
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
		return nil
	}
}
