/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package outcome defines the result envelope returned by every public
// operation of the SDK: a status code plus a body.
package outcome

import (
	"encoding/json"
	"fmt"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

// StatusCode classifies an Outcome
type StatusCode int

const (
	// Success the operation completed
	Success StatusCode = 200
	// InvalidInput the request was malformed and never reached the ledger
	InvalidInput StatusCode = 400
	// NotFound the requested record does not exist
	NotFound StatusCode = 404
	// InternalServerError any other failure, including exhausted retries
	InternalServerError StatusCode = 500
)

var statusText = map[StatusCode]string{
	Success:             "SUCCESS",
	InvalidInput:        "INVALID_INPUT",
	NotFound:            "NOT_FOUND",
	InternalServerError: "INTERNAL_SERVER_ERROR",
}

func (c StatusCode) String() string {
	if s, ok := statusText[c]; ok {
		return s
	}
	return fmt.Sprintf("STATUS_%d", int(c))
}

// Outcome is the settled result of an operation. A failed Outcome is also an
// error so it can travel through error returns unchanged.
type Outcome struct {
	StatusCode StatusCode  `json:"statusCode" yaml:"statusCode"`
	Body       interface{} `json:"body" yaml:"body"`

	cause error
}

// OK returns a successful Outcome carrying body
func OK(body interface{}) *Outcome {
	return &Outcome{StatusCode: Success, Body: body}
}

// Invalid returns an InvalidInput Outcome with a descriptive message
func Invalid(format string, args ...interface{}) *Outcome {
	return &Outcome{StatusCode: InvalidInput, Body: fmt.Sprintf(format, args...)}
}

// Internal returns an InternalServerError Outcome. cause is retained for
// logging but is never part of the body.
func Internal(msg string, cause error) *Outcome {
	return &Outcome{StatusCode: InternalServerError, Body: msg, cause: cause}
}

// Missing returns a NotFound Outcome
func Missing(msg string, cause error) *Outcome {
	return &Outcome{StatusCode: NotFound, Body: msg, cause: cause}
}

// IsSuccess returns true for a Success outcome
func (o *Outcome) IsSuccess() bool {
	return o != nil && o.StatusCode == Success
}

// Err returns the Outcome as an error, or nil on success
func (o *Outcome) Err() error {
	if o.IsSuccess() {
		return nil
	}
	return o
}

func (o *Outcome) Error() string {
	return fmt.Sprintf("%s: %v", o.StatusCode, o.Body)
}

// Cause returns the underlying failure. It satisfies github.com/pkg/errors.Cause.
func (o *Outcome) Cause() error {
	return o.cause
}

// Unwrap returns the underlying failure
func (o *Outcome) Unwrap() error {
	return o.cause
}

// MarshalJSON renders the envelope as {"statusCode": ..., "body": ...}
func (o *Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StatusCode int         `json:"statusCode"`
		Body       interface{} `json:"body"`
	}{int(o.StatusCode), o.Body})
}

// FromError classifies err into an Outcome. Input errors keep their message
// while every other failure is an InternalServerError reported with msg, so
// ledger internals never reach the caller. A failed Outcome keeps its status
// and takes msg as body. NotFound outcomes are only built with Missing.
func FromError(err error, msg string) *Outcome {
	if err == nil {
		return OK(nil)
	}
	if o, ok := err.(*Outcome); ok {
		if o.StatusCode == InvalidInput || o.StatusCode == Success {
			return o
		}
		cause := o.cause
		if cause == nil {
			cause = o
		}
		return &Outcome{StatusCode: o.StatusCode, Body: msg, cause: cause}
	}

	s, ok := status.FromError(err)
	if !ok {
		return Internal(msg, err)
	}
	if s.Group == status.ClientStatus && status.Code(s.Code) == status.InvalidInput {
		return &Outcome{StatusCode: InvalidInput, Body: s.Message, cause: err}
	}
	// a ledger or CA NotFound is an exhausted transient failure, not a 404
	return Internal(msg, err)
}
