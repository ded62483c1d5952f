/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"strconv"

	grpcCodes "google.golang.org/grpc/codes"
)

// Code represents a status code
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Unknown represents status codes that are uncategorized or unknown to the SDK
	Unknown Code = 1

	// ConnectionFailed is returned when the membership handle could not be
	// resolved or the network could not be reached
	ConnectionFailed Code = 2

	// InvalidInput is returned when a request is structurally malformed.
	// It is never retried.
	InvalidInput Code = 3

	// EmptyCert is returned when enrollment yields no certificate
	EmptyCert Code = 4

	// Timeout operation timed out
	Timeout Code = 5

	// NoTerminalSignal is returned when an event stream closes before a
	// terminal event was observed
	NoTerminalSignal Code = 6

	// MultipleErrors multiple errors occurred
	MultipleErrors Code = 7

	// ParseFailed is returned when a query payload is not valid JSON
	ParseFailed Code = 8

	// NotFound is returned when a record does not exist
	NotFound Code = 9

	// MirrorWriteFailed is returned when the ledger write succeeded but the
	// mirror datastore write did not
	MirrorWriteFailed Code = 10

	// AccessDenied is returned when the caller's attributes do not satisfy
	// the function policy
	AccessDenied Code = 11

	// GenericTransient is generally used by tests to indicate that a retry is possible
	GenericTransient Code = 12

	// ServiceUnavailable is returned by a ledger node that is not ready
	ServiceUnavailable Code = 503

	// InternalServerError is returned by a ledger node on an unexpected failure
	InternalServerError Code = 500
)

// CodeName maps the codes in this packages to human-readable strings
var CodeName = map[int32]string{
	0:   "OK",
	1:   "UNKNOWN",
	2:   "CONNECTION_FAILED",
	3:   "INVALID_INPUT",
	4:   "EMPTY_CERT",
	5:   "TIMEOUT",
	6:   "NO_TERMINAL_SIGNAL",
	7:   "MULTIPLE_ERRORS",
	8:   "PARSE_FAILED",
	9:   "NOT_FOUND",
	10:  "MIRROR_WRITE_FAILED",
	11:  "ACCESS_DENIED",
	12:  "GENERIC_TRANSIENT",
	500: "INTERNAL_SERVER_ERROR",
	503: "SERVICE_UNAVAILABLE",
}

// ToInt32 cast to int32
func (c Code) ToInt32() int32 {
	return int32(c)
}

// String representation of the code
func (c Code) String() string {
	if s, ok := CodeName[c.ToInt32()]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// ToSDKStatusCode cast to SDK status code
func ToSDKStatusCode(c int32) Code {
	return Code(c)
}

// ToGRPCStatusCode cast to gRPC status code
func ToGRPCStatusCode(c int32) grpcCodes.Code {
	return grpcCodes.Code(c)
}
