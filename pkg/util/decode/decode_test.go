/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
	Nested struct {
		Name string `json:"name"`
	} `json:"nested"`
}

func TestInto(t *testing.T) {
	var r record
	err := Into(map[string]interface{}{
		"id":     "la42",
		"amount": float64(350000),
		"nested": map[string]interface{}{"name": "x"},
	}, &r)
	require.NoError(t, err)
	assert.Equal(t, "la42", r.ID)
	assert.Equal(t, 350000, r.Amount)
	assert.Equal(t, "x", r.Nested.Name)
}

func TestIntoFails(t *testing.T) {
	var r record
	assert.Error(t, Into(map[string]interface{}{"amount": "lots"}, &r))
	assert.Error(t, Into("not a map", &r))
}
