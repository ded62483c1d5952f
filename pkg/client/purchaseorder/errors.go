/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package purchaseorder

import (
	"fmt"

	"github.com/pkg/errors"
)

// MirrorError reports a purchase order write that reached the ledger but not
// the mirror datastore. The two are inconsistent until the record is
// reconciled from the ledger.
type MirrorError struct {
	// Operation is create or update
	Operation string
	ID        string
	// TxID is the ledger transaction that was accepted
	TxID string
	Err  error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("purchase order [%s] %s was submitted to the ledger in transaction [%s] but the mirror write failed: %s",
		e.ID, e.Operation, e.TxID, e.Err)
}

// Cause returns the datastore error
func (e *MirrorError) Cause() error {
	return e.Err
}

// Unwrap returns the datastore error
func (e *MirrorError) Unwrap() error {
	return e.Err
}

// IsMirrorFailure returns true if err, or an error it wraps, is a *MirrorError.
// It accepts the Outcome returned by Create and Update.
func IsMirrorFailure(err error) bool {
	var m *MirrorError
	return errors.As(err, &m)
}
