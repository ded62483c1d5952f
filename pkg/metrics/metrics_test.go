/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)

	m.Attempts.With(OperationLabel, "query").Add(3)
	m.Retries.With(OperationLabel, "query").Add(2)
	m.Outcomes.With(OperationLabel, "query", StatusLabel, "SUCCESS").Add(1)
	m.MirrorFailures.With(OperationLabel, "createPurchaseOrder").Add(1)
	m.ObserveSince("query", time.Now().Add(-time.Second))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["mortgagesdk_ledger_attempts_total"])
	assert.True(t, names["mortgagesdk_ledger_retries_total"])
	assert.True(t, names["mortgagesdk_ledger_outcomes_total"])
	assert.True(t, names["mortgagesdk_ledger_operation_duration_seconds"])
	assert.True(t, names["mortgagesdk_datastore_mirror_failures_total"])

	count, err := testutil.GatherAndCount(reg, "mortgagesdk_ledger_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDiscard(t *testing.T) {
	m := NewDiscard()
	assert.NotPanics(t, func() {
		m.Attempts.With(OperationLabel, "invoke").Add(1)
		m.ObserveSince("invoke", time.Now())
	})
}
