/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger defines the capabilities the SDK consumes from a ledger
// network client: membership resolution, query and invoke submission,
// registration and enrollment.
package ledger

import (
	"context"
)

// EventKind identifies a signal emitted by an in-flight operation
type EventKind int

const (
	// Submitted the transaction was accepted for ordering
	Submitted EventKind = iota
	// Complete the operation reached its final state. For a query the event
	// carries the result payload.
	Complete
	// Error the operation failed
	Error
)

var eventKindName = map[EventKind]string{
	Submitted: "submitted",
	Complete:  "complete",
	Error:     "error",
}

func (k EventKind) String() string {
	if s, ok := eventKindName[k]; ok {
		return s
	}
	return "unknown"
}

// Event is one signal of an in-flight operation
type Event struct {
	Kind    EventKind
	TxID    string
	Payload []byte
	Err     error
}

// Request is a query or invoke submitted through a Member
type Request struct {
	ChaincodeID string
	Fcn         string
	Args        [][]byte
	// Attrs names the identity attributes disclosed to the chaincode
	Attrs []string
}

// Attribute defines additional attributes that may be passed along during registration
type Attribute struct {
	Name  string
	Value string
	ECert bool
}

// RegistrationRequest defines the attributes required to register a user with the CA
type RegistrationRequest struct {
	// Name is the unique name of the identity
	Name string
	// Type of identity being registered (e.g. 'peer, app, user')
	Type string
	// MaxEnrollments is the number of times the secret can be reused to enroll.
	// Zero means the CA default.
	MaxEnrollments int
	// The identity's affiliation e.g. group1
	Affiliation string
	// Optional attributes associated with this identity
	Attributes []Attribute
	// Roles granted to the identity
	Roles []string
	// Registrar is the identity performing the registration
	Registrar string
	// Secret is an optional password. If not provided, a random secret is
	// generated by the CA
	Secret string
}

// Enrollment is the cryptographic material issued by the CA
type Enrollment struct {
	EnrollmentID string
	// Cert is the PEM encoded enrollment certificate
	Cert []byte
	// Key is the PEM encoded private key, if it was generated client side
	Key []byte
}

// Member is the per-identity handle through which operations are submitted.
//
// Query and Invoke return a channel of events for the submitted operation.
// Implementations close the channel when no further events will be sent and
// must stop sending once ctx is done, so that a consumer that has already
// settled can walk away.
type Member interface {
	Identity() string
	Query(ctx context.Context, request Request) (<-chan Event, error)
	Invoke(ctx context.Context, request Request) (<-chan Event, error)
	Register(ctx context.Context, request *RegistrationRequest) (string, error)
	Enroll(ctx context.Context, secret string) (*Enrollment, error)
	IsRegistered(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
}

// Network resolves membership handles
type Network interface {
	Member(ctx context.Context, identity string) (Member, error)
	// Registrar returns the identity allowed to register new users
	Registrar(ctx context.Context) (string, error)
	Close() error
}
