/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package identity registers users with the certificate authority, records
// them on the ledger and logs them in by enrollment.
package identity

import (
	reqContext "context"

	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	ledgerapi "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/validate"
)

var logger = logging.NewLogger("mortgagesdk/identity")

// CreateUserFcn is the chaincode function recording a registered user
const CreateUserFcn = "createUser"

// Ledger is the subset of the ledger client used by this package
type Ledger interface {
	Invoke(ctx reqContext.Context, user string, spec request.Spec, options ...ledger.RequestOption) (ledger.Response, error)
	Register(ctx reqContext.Context, username, affiliation string, roles []string, options ...ledger.RequestOption) (ledger.Response, error)
	Enroll(ctx reqContext.Context, username, password string, options ...ledger.RequestOption) (ledger.Response, error)
	Network() ledgerapi.Network
}

// Credentials are returned by a successful registration
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Session is returned by a successful login
type Session struct {
	Username    string `json:"username" yaml:"username"`
	Certificate string `json:"certificate" yaml:"certificate"`
}

// Client performs identity operations
type Client struct {
	ledger      Ledger
	builder     *request.Builder
	registrarID string
	requestOpts []ledger.RequestOption
}

// New returns a Client. registrarID is the identity that records new users
// on the ledger.
func New(l Ledger, builder *request.Builder, registrarID string, opts ...ledger.RequestOption) (*Client, error) {
	if l == nil {
		return nil, errors.New("ledger client is required")
	}
	if builder == nil {
		return nil, errors.New("request builder is required")
	}
	if registrarID == "" {
		return nil, errors.New("registrar id is required")
	}
	return &Client{ledger: l, builder: builder, registrarID: registrarID, requestOpts: opts}, nil
}

// RegisterUser registers username with the CA and then records it on the
// ledger as the registrar. It succeeds only when both steps succeed; the body
// is the user's Credentials. affiliation becomes the role attribute of the
// user's certificate.
func (c *Client) RegisterUser(ctx reqContext.Context, username, affiliation string, roles ...string) *outcome.Outcome {
	if !validate.IsValidString(username) {
		return outcome.Invalid("Could not register user. Invalid username")
	}
	if !validate.IsValidString(affiliation) {
		return outcome.Invalid("Could not register user. Invalid affiliation")
	}

	resp, err := c.ledger.Register(ctx, username, affiliation, roles, c.requestOpts...)
	if err != nil {
		logger.Errorf("Could not register user on blockchain [%s]: %s", username, err)
		return outcome.FromError(err, "Could not register user")
	}
	logger.Infof("Successfully registered user on blockchain: %s", username)

	spec, err := c.builder.Build(CreateUserFcn, username, affiliation)
	if err != nil {
		return outcome.Internal("Could not register user", err)
	}
	if _, err := c.ledger.Invoke(ctx, c.registrarID, spec, c.requestOpts...); err != nil {
		// the CA registration is not rolled back
		logger.Errorf("Could not create user [%s] on blockchain ledger after registration: %s", username, err)
		return outcome.Internal("Could not register user", err)
	}
	logger.Infof("Successfully created user on blockchain ledger: %s", username)

	return outcome.OK(&Credentials{Username: username, Password: resp.Secret})
}

// LoginUser enrolls username with password. The body is a Session holding
// the enrollment certificate.
func (c *Client) LoginUser(ctx reqContext.Context, username, password string) *outcome.Outcome {
	if !validate.IsValidString(username) {
		return outcome.Invalid("Could not login user. Invalid username")
	}
	if !validate.IsValidString(password) {
		return outcome.Invalid("Could not login user. Invalid password")
	}

	resp, err := c.ledger.Enroll(ctx, username, password, c.requestOpts...)
	if err != nil {
		logger.Errorf("Could not login user on blockchain [%s]: %s", username, err)
		return outcome.FromError(err, "Could not login user")
	}

	logger.Infof("Successfully logged in user on blockchain: %s", username)
	session := &Session{Username: username}
	if resp.Enrollment != nil {
		session.Certificate = string(resp.Enrollment.Cert)
	}
	return outcome.OK(session)
}

// IsUserRegistered reports, as a bool body, whether username is known to the CA
func (c *Client) IsUserRegistered(ctx reqContext.Context, username string) *outcome.Outcome {
	return c.memberStatus(ctx, username, "registration", ledgerapi.Member.IsRegistered)
}

// IsUserEnrolled reports, as a bool body, whether username holds an enrollment certificate
func (c *Client) IsUserEnrolled(ctx reqContext.Context, username string) *outcome.Outcome {
	return c.memberStatus(ctx, username, "enrollment", ledgerapi.Member.IsEnrolled)
}

func (c *Client) memberStatus(ctx reqContext.Context, username, what string, check func(ledgerapi.Member, reqContext.Context) (bool, error)) *outcome.Outcome {
	if !validate.IsValidString(username) {
		return outcome.Invalid("username is invalid")
	}

	failure := "Could not get user " + what + " status"
	member, err := c.ledger.Network().Member(ctx, username)
	if err != nil {
		logger.Errorf("%s [%s]: %s", failure, username, err)
		return outcome.Internal(failure, err)
	}
	ok, err := check(member, ctx)
	if err != nil {
		logger.Errorf("%s [%s]: %s", failure, username, err)
		return outcome.Internal(failure, err)
	}
	return outcome.OK(ok)
}
