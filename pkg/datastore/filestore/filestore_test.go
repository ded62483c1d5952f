/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/datastore"
	"github.com/bankledger/mortgage-sdk-go/pkg/datastore/storetest"
)

func TestDefaultStore(t *testing.T) {
	s, err := New(&Options{Path: t.TempDir()})
	require.NoError(t, err)
	storetest.RunContract(t, s)

	_, err = os.Stat(filepath.Join(s.GetPath(), "purchaseOrder", "po1.json"))
	assert.NoError(t, err)
}

func TestStoreWithCustomKeySerializer(t *testing.T) {
	dir := t.TempDir()
	s, err := New(&Options{
		Path: dir,
		KeySerializer: func(model, id string) (string, error) {
			return filepath.Join(dir, "mypath", model+"-"+id, "valuefile"), nil
		},
	})
	require.NoError(t, err)
	storetest.RunContract(t, s)

	_, err = os.Stat(filepath.Join(dir, "mypath", "purchaseOrder-po1", "valuefile"))
	assert.NoError(t, err)
}

func TestNewFails(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
	_, err = New(&Options{})
	assert.Error(t, err)
}

func TestRejectsInvalidKeys(t *testing.T) {
	s, err := New(&Options{Path: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, s.Create(ctx, "purchaseOrder", "../escape", []byte("{}")))
	assert.Error(t, s.Create(ctx, "", "po1", []byte("{}")))
	assert.Error(t, s.Create(ctx, "purchaseOrder", "po1", nil))

	_, err = s.Get(ctx, "purchaseOrder", "..")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, datastore.ErrNotFound))
}
