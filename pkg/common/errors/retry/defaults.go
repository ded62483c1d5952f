/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"time"

	grpcCodes "google.golang.org/grpc/codes"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

const (
	// DefaultAttempts number of retry attempts made by default.
	// An operation is attempted at most DefaultAttempts+1 times.
	DefaultAttempts = 5
	// DefaultInitialBackoff default backoff between attempts
	DefaultInitialBackoff = 2000 * time.Millisecond
	// DefaultMaxBackoff default maximum backoff
	DefaultMaxBackoff = DefaultInitialBackoff
	// DefaultBackoffFactor keeps the backoff constant
	DefaultBackoffFactor = 1.0
)

// DefaultOpts default retry options for ledger operations
var DefaultOpts = Opts{
	Attempts:       DefaultAttempts,
	InitialBackoff: DefaultInitialBackoff,
	MaxBackoff:     DefaultMaxBackoff,
	BackoffFactor:  DefaultBackoffFactor,
}

// TransportRetryableCodes is a restrictive code set that only retries
// failures known to be transient in the network transport and ledger nodes.
// It can be assigned to Opts.RetryableCodes when blanket retries are unwanted.
var TransportRetryableCodes = map[status.Group][]status.Code{
	status.ClientStatus: {
		status.ConnectionFailed,
		status.Timeout,
		status.NoTerminalSignal,
	},
	status.LedgerServerStatus: {
		status.ServiceUnavailable,
		status.InternalServerError,
	},
	status.GRPCTransportStatus: {
		status.Code(grpcCodes.Unavailable),
		status.Code(grpcCodes.DeadlineExceeded),
	},
	status.TestStatus: {
		status.GenericTransient,
	},
}
