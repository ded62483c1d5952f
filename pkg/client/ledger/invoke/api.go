/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package invoke provides the handlers that perform a single attempt of a
// ledger operation: query, invoke, register or enroll.
package invoke

import (
	reqContext "context"
	"time"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

// Kind identifies the ledger operation a handler chain performs
type Kind string

// Operation kinds
const (
	QueryKind    Kind = "query"
	InvokeKind   Kind = "invoke"
	RegisterKind Kind = "register"
	EnrollKind   Kind = "enroll"
)

// Registration holds the user supplied part of a registration
type Registration struct {
	Username    string
	Affiliation string
	Roles       []string
}

//Response contains the result of one attempt
type Response struct {
	// Payload is the parsed query result
	Payload interface{}
	// TxID is the id of a submitted transaction
	TxID string
	// Secret is the enrollment secret returned by registration
	Secret string
	// Enrollment is the material returned by enrollment
	Enrollment *ledger.Enrollment
}

//Handler for chaining the steps of an attempt
type Handler interface {
	Handle(context *RequestContext, clientContext *ClientContext)
}

// RegistrationOpts are the fixed parts of every registration request
type RegistrationOpts struct {
	// AffiliationGroup is the CA affiliation new users are placed in
	AffiliationGroup string
	// DefaultRoles are granted when the caller names none
	DefaultRoles []string
}

//ClientContext contains context parameters for handler execution
type ClientContext struct {
	Network      ledger.Network
	Registration RegistrationOpts
	// Timeout bounds the wait for a terminal event of one attempt
	Timeout time.Duration
}

//RequestContext contains request and response parameters for handler execution
type RequestContext struct {
	Ctx  reqContext.Context
	Kind Kind
	// Identity is the user the operation is performed as
	Identity string

	Spec         request.Spec
	Registration Registration
	Secret       string

	Member   ledger.Member
	Response Response
	Error    error
}
