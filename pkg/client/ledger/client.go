/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger enables access to a ledger network with bounded retries.
//
// Every operation (query, invoke, register, enroll) runs the handler chain of
// its kind inside a retry invoker: input errors settle at once, any other
// failure is retried with a fixed backoff until the attempts are exhausted.
// The settled error is always an *outcome.Outcome.
//
//  Basic Flow:
//  1) Prepare a ledger.Network
//  2) Create a client with New
//  3) Call Query, Invoke, Register or Enroll
package ledger

import (
	reqContext "context"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger/invoke"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/retry"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	ledgerapi "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/metrics"
)

var logger = logging.NewLogger("mortgagesdk/client")

const defaultAttemptTimeout = 30 * time.Second

// Client performs retried operations against a ledger network.
// It is safe for concurrent use; every call owns its retry state.
type Client struct {
	network      ledgerapi.Network
	retryOpts    retry.Opts
	timeout      time.Duration
	registration invoke.RegistrationOpts
	metrics      *metrics.ClientMetrics
	limiter      *rate.Limiter
}

// New returns a Client for network
func New(network ledgerapi.Network, opts ...ClientOption) (*Client, error) {
	if network == nil {
		return nil, errors.New("network is required")
	}

	c := &Client{
		network:   network,
		retryOpts: retry.DefaultOpts,
		timeout:   defaultAttemptTimeout,
		registration: invoke.RegistrationOpts{
			AffiliationGroup: "group1",
			DefaultRoles:     []string{"client"},
		},
		metrics: metrics.NewDiscard(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WithMessage(err, "failed to apply client option")
		}
	}
	return c, nil
}

// Network returns the network the client submits to
func (c *Client) Network() ledgerapi.Network {
	return c.network
}

// Query submits spec as a read-only request on behalf of user. The response
// payload is the parsed JSON result.
func (c *Client) Query(ctx reqContext.Context, user string, spec request.Spec, options ...RequestOption) (Response, error) {
	return c.InvokeHandler(ctx, invoke.NewQueryHandler(), &invoke.RequestContext{
		Kind:     invoke.QueryKind,
		Identity: user,
		Spec:     spec,
	}, options...)
}

// Invoke submits spec as a state-changing request on behalf of user. It
// returns as soon as the transaction was accepted for ordering.
func (c *Client) Invoke(ctx reqContext.Context, user string, spec request.Spec, options ...RequestOption) (Response, error) {
	return c.InvokeHandler(ctx, invoke.NewInvokeHandler(), &invoke.RequestContext{
		Kind:     invoke.InvokeKind,
		Identity: user,
		Spec:     spec,
	}, options...)
}

// Register registers username with the CA. affiliation is disclosed as the
// role attribute. The response carries the enrollment secret.
func (c *Client) Register(ctx reqContext.Context, username, affiliation string, roles []string, options ...RequestOption) (Response, error) {
	return c.InvokeHandler(ctx, invoke.NewRegisterHandler(), &invoke.RequestContext{
		Kind:     invoke.RegisterKind,
		Identity: username,
		Registration: invoke.Registration{
			Username:    username,
			Affiliation: affiliation,
			Roles:       roles,
		},
	}, options...)
}

// Enroll exchanges the enrollment secret of username for its certificate
func (c *Client) Enroll(ctx reqContext.Context, username, password string, options ...RequestOption) (Response, error) {
	return c.InvokeHandler(ctx, invoke.NewEnrollHandler(), &invoke.RequestContext{
		Kind:     invoke.EnrollKind,
		Identity: username,
		Secret:   password,
	}, options...)
}

//InvokeHandler runs handler for the request with retries. template is copied
//for every attempt so no state leaks from a failed attempt into the next one.
func (c *Client) InvokeHandler(ctx reqContext.Context, handler invoke.Handler, template *invoke.RequestContext, options ...RequestOption) (Response, error) {
	o, err := c.prepareOptsFromOptions(options...)
	if err != nil {
		return Response{}, outcome.Internal("Failed to read request options", err)
	}

	op := string(template.Kind)
	start := time.Now()
	defer c.metrics.ObserveSince(op, start)

	clientContext := &invoke.ClientContext{
		Network:      c.network,
		Registration: c.registration,
		Timeout:      o.Timeout,
	}

	invokerOpts := []retry.InvokerOpt{
		retry.WithBeforeRetry(func(err error, attempt int) {
			logger.Warnf("%s attempt #%d failed, retrying: %s", op, attempt-1, err)
			c.metrics.Retries.With(metrics.OperationLabel, op).Add(1)
			if o.beforeRetry != nil {
				o.beforeRetry(err, attempt)
			}
		}),
	}
	if o.wait != nil {
		invokerOpts = append(invokerOpts, retry.WithWait(o.wait))
	}

	invoker := retry.NewInvoker(retry.New(o.Retry), invokerOpts...)
	resp, err := invoker.Invoke(ctx, func(ctx reqContext.Context) (interface{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limiter wait failed")
			}
		}
		c.metrics.Attempts.With(metrics.OperationLabel, op).Add(1)

		requestContext := *template
		requestContext.Ctx = ctx
		requestContext.Response = invoke.Response{}
		requestContext.Error = nil
		requestContext.Member = nil

		handler.Handle(&requestContext, clientContext)
		if requestContext.Error != nil {
			return nil, requestContext.Error
		}
		return requestContext.Response, nil
	})
	if err != nil {
		settled := outcome.FromError(err, failureMessage(template.Kind))
		logger.Errorf("%s settled with %s: %s", op, settled.StatusCode, err)
		c.metrics.Outcomes.With(metrics.OperationLabel, op, metrics.StatusLabel, settled.StatusCode.String()).Add(1)
		return Response{}, settled
	}

	c.metrics.Outcomes.With(metrics.OperationLabel, op, metrics.StatusLabel, outcome.Success.String()).Add(1)
	return Response(resp.(invoke.Response)), nil
}

func failureMessage(kind invoke.Kind) string {
	switch kind {
	case invoke.QueryKind:
		return "Failed to query the ledger"
	case invoke.InvokeKind:
		return "Failed to invoke the ledger"
	case invoke.RegisterKind:
		return "Failed to register user"
	case invoke.EnrollKind:
		return "Failed to enroll user"
	default:
		return "Ledger operation failed"
	}
}

//prepareOptsFromOptions reads request options, starting from the client defaults
func (c *Client) prepareOptsFromOptions(options ...RequestOption) (requestOptions, error) {
	o := requestOptions{}
	for _, option := range options {
		if err := option(&o); err != nil {
			return o, errors.WithMessage(err, "Failed to read opts")
		}
	}
	if !o.retrySet {
		o.Retry = c.retryOpts
	}
	if o.Timeout == 0 {
		o.Timeout = c.timeout
	}
	return o, nil
}
