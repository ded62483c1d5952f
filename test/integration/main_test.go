/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/identity"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/core/config"
	"github.com/bankledger/mortgage-sdk-go/pkg/ledger/memledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

var configPath = filepath.Join("..", "fixtures", "config", "config_test.yaml")

// testSetup is an SDK over an in-memory network the test can inject faults into
type testSetup struct {
	SDK      *sdk.SDK
	Network  *memledger.Network
	Registry *prometheus.Registry
}

func newTestSetup(t *testing.T, opts ...sdk.Option) *testSetup {
	network, err := memledger.New()
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	s, err := sdk.New(config.FromFile(configPath), append([]sdk.Option{sdk.WithNetwork(network), sdk.WithRegistry(registry)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return &testSetup{SDK: s, Network: network, Registry: registry}
}

// enrolledUser registers and logs in username
func (ts *testSetup) enrolledUser(t *testing.T, username, affiliation string) {
	ctx := context.Background()

	o := ts.SDK.Identity().RegisterUser(ctx, username, affiliation)
	require.Equal(t, outcome.Success, o.StatusCode, "%v", o)
	credentials := o.Body.(*identity.Credentials)

	o = ts.SDK.Identity().LoginUser(ctx, username, credentials.Password)
	require.Equal(t, outcome.Success, o.StatusCode, "%v", o)
}

// counter returns the value of the counter name with the given operation label
func (ts *testSetup) counter(t *testing.T, name, operation string) float64 {
	families, err := ts.Registry.Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "operation" && label.GetValue() == operation {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}
