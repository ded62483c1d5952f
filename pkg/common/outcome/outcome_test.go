/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package outcome

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

func TestFromError(t *testing.T) {
	o := FromError(nil, "unused")
	assert.True(t, o.IsSuccess())
	assert.NoError(t, o.Err())

	o = FromError(errors.WithMessage(status.InvalidInputf("username is required"), "register"), "Failed to register user")
	assert.Equal(t, InvalidInput, o.StatusCode)
	assert.Equal(t, "username is required", o.Body)

	ledgerErr := status.New(status.LedgerServerStatus, status.ServiceUnavailable.ToInt32(), "peer0 unavailable", nil)
	o = FromError(ledgerErr, "Failed to create loan application")
	assert.Equal(t, InternalServerError, o.StatusCode)
	assert.Equal(t, "Failed to create loan application", o.Body, "ledger details must not leak")
	assert.Equal(t, ledgerErr, errors.Cause(o))

	for _, group := range []status.Group{status.ChaincodeStatus, status.CAServerStatus, status.DatastoreStatus} {
		o = FromError(status.Errorf(group, status.NotFound, "la404"), "Could not fetch loan application")
		assert.Equal(t, InternalServerError, o.StatusCode, "%v NotFound", group)
		assert.Equal(t, "Could not fetch loan application", o.Body)
	}

	missing := FromError(Missing("Purchase order not found", nil), "Purchase order not found")
	assert.Equal(t, NotFound, missing.StatusCode, "an explicit Missing outcome keeps its status")

	o = FromError(errors.New("boom"), "Failed")
	assert.Equal(t, InternalServerError, o.StatusCode)

	same := Invalid("bad %s", "id")
	assert.Same(t, same, FromError(same, "ignored"))

	relabeled := FromError(Internal("Failed to invoke the ledger", ledgerErr), "Could not create loan application")
	assert.Equal(t, InternalServerError, relabeled.StatusCode)
	assert.Equal(t, "Could not create loan application", relabeled.Body)
	assert.Equal(t, ledgerErr, errors.Cause(relabeled))
}

func TestOutcomeJSON(t *testing.T) {
	raw, err := json.Marshal(OK(map[string]string{"id": "la42", "status": "Submitted"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"body":{"id":"la42","status":"Submitted"}}`, string(raw))

	raw, err = json.Marshal(Internal("Failed", errors.New("secret detail")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":500,"body":"Failed"}`, string(raw))
}

func TestOutcomeError(t *testing.T) {
	o := Invalid("fcn is required")
	assert.Equal(t, "INVALID_INPUT: fcn is required", o.Error())
	assert.Equal(t, o, o.Err())
	assert.Equal(t, "STATUS_418", StatusCode(418).String())

	var nilOutcome *Outcome
	assert.False(t, nilOutcome.IsSuccess())
}
