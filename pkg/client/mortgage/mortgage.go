/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mortgage creates and reads loan applications on the ledger.
package mortgage

import (
	reqContext "context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/validate"
	"github.com/bankledger/mortgage-sdk-go/pkg/util/decode"
)

var logger = logging.NewLogger("mortgagesdk/mortgage")

// Chaincode functions
const (
	CreateFcn = "CreateLoanApplication"
	GetFcn    = "GetLoanApplication"
)

// Ledger is the subset of the ledger client used by this package
type Ledger interface {
	Query(ctx reqContext.Context, user string, spec request.Spec, options ...ledger.RequestOption) (ledger.Response, error)
	Invoke(ctx reqContext.Context, user string, spec request.Spec, options ...ledger.RequestOption) (ledger.Response, error)
}

// Client performs loan application operations
type Client struct {
	ledger  Ledger
	builder *request.Builder
	opts    []ledger.RequestOption
}

// New returns a Client submitting through l with specs built by builder.
// opts are applied to every ledger request.
func New(l Ledger, builder *request.Builder, opts ...ledger.RequestOption) (*Client, error) {
	if l == nil {
		return nil, errors.New("ledger client is required")
	}
	if builder == nil {
		return nil, errors.New("request builder is required")
	}
	return &Client{ledger: l, builder: builder, opts: opts}, nil
}

// Create records application under id on behalf of user. application is
// not modified; on success the body is a copy of it carrying id.
func (c *Client) Create(ctx reqContext.Context, user, id string, application *LoanApplication) *outcome.Outcome {
	if !validate.IsValidString(user) {
		return outcome.Invalid("user is invalid")
	}
	if !validate.IsValidString(id) {
		return outcome.Invalid("id is invalid")
	}
	if !validate.IsValidJSON(application) || !validate.IsValid(*application) {
		return outcome.Invalid("loan application is invalid")
	}

	stored := *application
	stored.ID = id
	payload, err := json.Marshal(&stored)
	if err != nil {
		return outcome.Invalid("loan application is invalid")
	}

	spec, err := c.builder.Build(CreateFcn, id, string(payload))
	if err != nil {
		logger.Errorf("building %s request failed: %s", CreateFcn, err)
		return outcome.Internal("Could not create loan application", err)
	}

	resp, err := c.ledger.Invoke(ctx, user, spec, c.opts...)
	if err != nil {
		logger.Errorf("could not create loan application [%s]: %s", id, err)
		return outcome.FromError(err, "Could not create loan application")
	}

	logger.Infof("Created loan application [%s] in transaction [%s]", id, resp.TxID)
	return outcome.OK(&stored)
}

// Get reads the loan application stored under id. On success the body is a
// *LoanApplication.
func (c *Client) Get(ctx reqContext.Context, user, id string) *outcome.Outcome {
	if !validate.IsValidString(user) {
		return outcome.Invalid("user is invalid")
	}
	if !validate.IsValidString(id) {
		return outcome.Invalid("id is invalid")
	}

	spec, err := c.builder.Build(GetFcn, id)
	if err != nil {
		logger.Errorf("building %s request failed: %s", GetFcn, err)
		return outcome.Internal("Could not fetch loan application", err)
	}

	resp, err := c.ledger.Query(ctx, user, spec, c.opts...)
	if err != nil {
		logger.Errorf("could not fetch loan application [%s]: %s", id, err)
		return outcome.FromError(err, "Could not fetch loan application")
	}

	application := &LoanApplication{}
	if err := decode.Into(resp.Payload, application); err != nil {
		logger.Errorf("loan application [%s] is malformed: %s", id, err)
		return outcome.Internal("Could not fetch loan application", err)
	}
	return outcome.OK(application)
}
