/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package status defines metadata for errors returned by the SDK. This
// information is used by the retry handler to tell transient failures apart
// from input errors, and by callers to classify an outcome.
// Status codes are divided by group, where each group represents a particular
// component and the codes correspond to those returned by the component.
package status

import (
	"fmt"

	"github.com/pkg/errors"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/multi"
)

// Status provides additional information about an unsuccessful operation
// performed by the SDK. Essentially, this object contains metadata about
// an error returned by the SDK.
type Status struct {
	// Group status group
	Group Group
	// Code status code
	Code int32
	// Message status message
	Message string
	// Details any additional status details
	Details []interface{}
}

// Group of status to help users infer status codes from various components
type Group int32

const (
	// UnknownStatus unknown status group
	UnknownStatus Group = iota

	// GRPCTransportStatus is the status associated with requests made over
	// gRPC connections to the ledger network
	GRPCTransportStatus

	// LedgerServerStatus status returned by a ledger peer or orderer
	LedgerServerStatus
	// CAServerStatus status returned by the certificate authority
	CAServerStatus

	// ClientStatus is a status inferred by the SDK itself, for example
	// input validation or a missing terminal event
	ClientStatus

	// ChaincodeStatus defines the status codes returned by chaincode
	ChaincodeStatus

	// DatastoreStatus status returned by the mirror datastore
	DatastoreStatus

	// TestStatus is used by tests to create retry codes.
	TestStatus
)

// GroupName maps the groups in this packages to human-readable strings
var GroupName = map[int32]string{
	0: "Unknown",
	1: "gRPC Transport Status",
	2: "Ledger Server Status",
	3: "CA Server Status",
	4: "Client Status",
	5: "Chaincode status",
	6: "Datastore status",
	7: "Test status",
}

func (g Group) String() string {
	if s, ok := GroupName[int32(g)]; ok {
		return s
	}
	return UnknownStatus.String()
}

// FromError returns a Status representing err if available,
// otherwise it returns nil, false.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return &Status{Code: int32(OK)}, true
	}
	if s, ok := err.(*Status); ok {
		return s, true
	}
	unwrappedErr := errors.Cause(err)
	if s, ok := unwrappedErr.(*Status); ok {
		return s, true
	}
	if m, ok := unwrappedErr.(multi.Errors); ok {
		// Return all of the errors in the details
		var details []interface{}
		for _, err := range m {
			details = append(details, err)
		}
		return New(ClientStatus, MultipleErrors.ToInt32(), m.Error(), details), true
	}
	if gs, ok := grpcstatus.FromError(unwrappedErr); ok {
		return NewFromGRPCStatus(gs), true
	}

	return nil, false
}

// IsInvalidInput returns true if err carries the InvalidInput client code.
// Input errors are never transient.
func IsInvalidInput(err error) bool {
	s, ok := FromError(err)
	return ok && err != nil && s.Group == ClientStatus && Code(s.Code) == InvalidInput
}

// Is returns true if err carries the given group and code.
func Is(err error, group Group, code Code) bool {
	s, ok := FromError(err)
	return ok && err != nil && s.Group == group && Code(s.Code) == code
}

func (s *Status) Error() string {
	return fmt.Sprintf("%s Code: (%d) %s. Description: %s", s.Group.String(), s.Code, s.codeString(), s.Message)
}

func (s *Status) codeString() string {
	switch s.Group {
	case GRPCTransportStatus:
		return ToGRPCStatusCode(s.Code).String()
	case ClientStatus, LedgerServerStatus, CAServerStatus, ChaincodeStatus, DatastoreStatus, TestStatus:
		return ToSDKStatusCode(s.Code).String()
	default:
		return Unknown.String()
	}
}

// New returns a Status with the given parameters
func New(group Group, code int32, msg string, details []interface{}) *Status {
	return &Status{Group: group, Code: code, Message: msg, Details: details}
}

// Errorf returns a Status in the given group with a formatted message
func Errorf(group Group, code Code, format string, args ...interface{}) *Status {
	return New(group, code.ToInt32(), fmt.Sprintf(format, args...), nil)
}

// InvalidInputf returns a client status describing a malformed input
func InvalidInputf(format string, args ...interface{}) *Status {
	return Errorf(ClientStatus, InvalidInput, format, args...)
}

// NewFromGRPCStatus new Status from gRPC status response
func NewFromGRPCStatus(s *grpcstatus.Status) *Status {
	if s == nil {
		return nil
	}
	details := make([]interface{}, len(s.Proto().Details))
	for i, detail := range s.Proto().Details {
		details[i] = detail
	}

	return &Status{Group: GRPCTransportStatus, Code: s.Proto().Code,
		Message: s.Message(), Details: details}
}

// NewFromChaincodeError returns Status when a chaincode error occurs
func NewFromChaincodeError(code int, message string) *Status {
	return &Status{Group: ChaincodeStatus, Code: int32(code),
		Message: message, Details: nil}
}
