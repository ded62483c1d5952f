//go:build integration

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/identity"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/mortgage"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/core/config"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

// TestFabricSampleFlow runs against a Fabric network described by the
// connection profile in MORTGAGE_SDK_FABRIC_CONFIG with the mortgage
// chaincode instantiated on mychannel.
func TestFabricSampleFlow(t *testing.T) {
	if os.Getenv("MORTGAGE_SDK_FABRIC_CONFIG") == "" {
		t.Skip("MORTGAGE_SDK_FABRIC_CONFIG is not set")
	}

	s, err := sdk.New(config.FromFile(filepath.Join("..", "fixtures", "config", "config_fabric.yaml")))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	user := fmt.Sprintf("loanofficer%d", time.Now().UnixNano())

	o := s.Identity().RegisterUser(ctx, user, "Bank_Admin")
	require.Equal(t, outcome.Success, o.StatusCode, "%v", o)
	credentials := o.Body.(*identity.Credentials)

	o = s.Identity().LoginUser(ctx, user, credentials.Password)
	require.Equal(t, outcome.Success, o.StatusCode, "%v", o)

	id := fmt.Sprintf("la%d", time.Now().Unix())
	o = s.Mortgage().Create(ctx, user, id, &mortgage.LoanApplication{PropertyID: "prop1", RequestedAmount: 4000000})
	require.Equal(t, outcome.Success, o.StatusCode, "%v", o)

	o = s.Mortgage().Get(ctx, user, id)
	require.Equal(t, outcome.Success, o.StatusCode, "%v", o)
	assert.Equal(t, id, o.Body.(*mortgage.LoanApplication).ID)
}
