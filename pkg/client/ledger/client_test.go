/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger/invoke"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/retry"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	ledgerapi "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	mockledger "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger/mocks"
	"github.com/bankledger/mortgage-sdk-go/pkg/metrics"
)

const testUser = "vojha26"

var transientErr = status.New(status.LedgerServerStatus, status.ServiceUnavailable.ToInt32(), "peer0 unavailable", nil)

type waitRecorder struct {
	waits []time.Duration
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.waits = append(w.waits, d)
	return nil
}

func setupClient(t *testing.T, network ledgerapi.Network, opts ...ClientOption) *Client {
	c, err := New(network, opts...)
	require.NoError(t, err)
	return c
}

func loanSpec(t *testing.T) request.Spec {
	spec, err := request.New(request.Params{ChaincodeID: "cc1", Fcn: "GetLoanApplication", Args: []string{"la42"}})
	require.NoError(t, err)
	return spec
}

func TestNewRequiresNetwork(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestQuerySuccess(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil)
	member.EXPECT().Query(gomock.Any(), gomock.Any()).Return(mockledger.Completed(`{"id":"la42","status":"Submitted"}`), nil)

	resp, err := setupClient(t, network).Query(context.Background(), testUser, loanSpec(t))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "la42", "status": "Submitted"}, resp.Payload)
}

func TestInvokeRetriesThenSucceeds(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).Times(3)
	gomock.InOrder(
		member.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(mockledger.Failed(transientErr), nil),
		member.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(mockledger.Failed(transientErr), nil),
		member.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(mockledger.SubmittedThenCompleted("tx3"), nil),
	)

	recorder := &waitRecorder{}
	var retried []int
	resp, err := setupClient(t, network).Invoke(context.Background(), testUser, loanSpec(t),
		WithWait(recorder.wait),
		WithBeforeRetry(func(err error, attempt int) { retried = append(retried, attempt) }),
	)

	require.NoError(t, err)
	assert.Equal(t, "tx3", resp.TxID)
	assert.Equal(t, []int{2, 3}, retried)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, recorder.waits)
}

func TestTransientFailureExhaustsAttempts(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).Times(retry.DefaultAttempts + 1)
	member.EXPECT().Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ledgerapi.Request) (<-chan ledgerapi.Event, error) {
			return mockledger.Failed(transientErr), nil
		}).Times(retry.DefaultAttempts + 1)

	recorder := &waitRecorder{}
	_, err := setupClient(t, network).Query(context.Background(), testUser, loanSpec(t), WithWait(recorder.wait))

	require.Error(t, err)
	o, ok := err.(*outcome.Outcome)
	require.True(t, ok)
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, "Failed to query the ledger", o.Body, "raw ledger errors must not leak")
	assert.Len(t, recorder.waits, retry.DefaultAttempts)
}

func TestSucceedsOnAttemptK(t *testing.T) {
	for k := 1; k <= retry.DefaultAttempts+1; k++ {
		mockCtrl := gomock.NewController(t)

		member := mockledger.NewMockMember(mockCtrl)
		network := mockledger.NewMockNetwork(mockCtrl)
		network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).Times(k)

		attempts := 0
		member.EXPECT().Enroll(gomock.Any(), "pw").
			DoAndReturn(func(context.Context, string) (*ledgerapi.Enrollment, error) {
				attempts++
				if attempts < k {
					return nil, errors.New("CA unreachable")
				}
				return &ledgerapi.Enrollment{EnrollmentID: testUser, Cert: []byte("cert")}, nil
			}).Times(k)

		recorder := &waitRecorder{}
		resp, err := setupClient(t, network).Enroll(context.Background(), testUser, "pw", WithWait(recorder.wait))
		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, []byte("cert"), resp.Enrollment.Cert)
		assert.Equal(t, k, attempts)
		assert.Len(t, recorder.waits, k-1)

		mockCtrl.Finish()
	}
}

func TestInvalidInputShortCircuits(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	// no expectations: the network must never be contacted
	network := mockledger.NewMockNetwork(mockCtrl)
	c := setupClient(t, network)
	recorder := &waitRecorder{}

	_, err := c.Register(context.Background(), "", "Bank", nil, WithWait(recorder.wait))
	o, ok := err.(*outcome.Outcome)
	require.True(t, ok)
	assert.Equal(t, outcome.InvalidInput, o.StatusCode)
	assert.Equal(t, "username is required", o.Body)

	_, err = c.Enroll(context.Background(), testUser, "", WithWait(recorder.wait))
	assert.Equal(t, outcome.InvalidInput, err.(*outcome.Outcome).StatusCode)

	_, err = c.Query(context.Background(), testUser, request.Spec{}, WithWait(recorder.wait))
	assert.Equal(t, outcome.InvalidInput, err.(*outcome.Outcome).StatusCode)

	_, err = c.Invoke(context.Background(), "", loanSpec(t), WithWait(recorder.wait))
	assert.Equal(t, outcome.InvalidInput, err.(*outcome.Outcome).StatusCode)

	assert.Empty(t, recorder.waits)
}

func TestRegister(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), "vojha26").Return(member, nil)
	network.EXPECT().Registrar(gomock.Any()).Return("admin", nil)
	member.EXPECT().Register(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *ledgerapi.RegistrationRequest) (string, error) {
			assert.Equal(t, "group9", req.Affiliation)
			assert.Equal(t, []string{"teller"}, req.Roles)
			return "s3cret", nil
		})

	c := setupClient(t, network, WithRegistration(invoke.RegistrationOpts{AffiliationGroup: "group9", DefaultRoles: []string{"teller"}}))
	resp, err := c.Register(context.Background(), "vojha26", "Bank_Home_Loan_Admin", nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", resp.Secret)
}

func TestMetricsAreReported(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).Times(2)
	gomock.InOrder(
		member.EXPECT().Query(gomock.Any(), gomock.Any()).Return(mockledger.Failed(transientErr), nil),
		member.EXPECT().Query(gomock.Any(), gomock.Any()).Return(mockledger.Completed(`{}`), nil),
	)

	reg := prometheus.NewRegistry()
	c := setupClient(t, network, WithMetrics(metrics.NewPrometheus(reg)), WithRateLimit(1000, 10))

	_, err := c.Query(context.Background(), testUser, loanSpec(t), WithWait((&waitRecorder{}).wait))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "mortgagesdk_ledger_retries_total", "mortgagesdk_ledger_outcomes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestContextCanceled(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil)
	member.EXPECT().Query(gomock.Any(), gomock.Any()).Return(mockledger.Failed(transientErr), nil)

	ctx, cancel := context.WithCancel(context.Background())
	c := setupClient(t, network, WithDefaultRetry(retry.Opts{Attempts: 5, InitialBackoff: time.Hour}))

	_, err := c.Query(ctx, testUser, loanSpec(t), WithBeforeRetry(func(error, int) { cancel() }))
	require.Error(t, err)
	assert.Equal(t, outcome.InternalServerError, err.(*outcome.Outcome).StatusCode)
}

