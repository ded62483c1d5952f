/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package storetest verifies datastore.Store implementations
package storetest

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
)

// RunContract exercises the behavior every datastore.Store must have
func RunContract(t *testing.T, store datastore.Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "purchaseOrder", "po1")
	assert.True(t, errors.Is(err, datastore.ErrNotFound), "get of a missing record: %v", err)

	err = store.Update(ctx, "purchaseOrder", "po1", []byte(`{"id":"po1"}`))
	assert.True(t, errors.Is(err, datastore.ErrNotFound), "update of a missing record: %v", err)

	require.NoError(t, store.Create(ctx, "purchaseOrder", "po1", []byte(`{"id":"po1","status":"Submitted"}`)))

	err = store.Create(ctx, "purchaseOrder", "po1", []byte(`{"id":"po1"}`))
	assert.True(t, errors.Is(err, datastore.ErrAlreadyExists), "duplicate create: %v", err)

	record, err := store.Get(ctx, "purchaseOrder", "po1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"po1","status":"Submitted"}`, string(record))

	require.NoError(t, store.Update(ctx, "purchaseOrder", "po1", []byte(`{"id":"po1","status":"Approved"}`)))
	record, err = store.Get(ctx, "purchaseOrder", "po1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"po1","status":"Approved"}`, string(record))

	// models are separate namespaces
	_, err = store.Get(ctx, "loanApplication", "po1")
	assert.True(t, errors.Is(err, datastore.ErrNotFound))
	require.NoError(t, store.Create(ctx, "loanApplication", "po1", []byte(`{"id":"la"}`)))
}
