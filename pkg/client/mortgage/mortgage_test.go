/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mortgage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/retry"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	ledgerapi "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	mockledger "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger/mocks"
)

const testUser = "vojha26"

func setupClient(t *testing.T, network ledgerapi.Network) *Client {
	l, err := ledger.New(network, ledger.WithDefaultRetry(retry.Opts{Attempts: 5, InitialBackoff: time.Millisecond}))
	require.NoError(t, err)
	c, err := New(l, request.NewBuilder("mortgage"))
	require.NoError(t, err)
	return c
}

func sampleApplication() *LoanApplication {
	return &LoanApplication{
		PropertyID:      "prop1",
		BuyerID:         "buyer1",
		Status:          "Submitted",
		RequestedAmount: 350000,
		FinancialInfo:   FinancialInfo{MonthlySalary: 12000},
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, request.NewBuilder("mortgage"))
	assert.Error(t, err)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	l, err := ledger.New(mockledger.NewMockNetwork(mockCtrl))
	require.NoError(t, err)
	_, err = New(l, nil)
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil)
	member.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ledgerapi.Request) (<-chan ledgerapi.Event, error) {
			assert.Equal(t, "mortgage", req.ChaincodeID)
			assert.Equal(t, CreateFcn, req.Fcn)
			require.Len(t, req.Args, 2)
			assert.Equal(t, "la42", string(req.Args[0]))

			var stored LoanApplication
			require.NoError(t, json.Unmarshal(req.Args[1], &stored))
			assert.Equal(t, "la42", stored.ID)
			assert.Equal(t, 350000, stored.RequestedAmount)
			return mockledger.SubmittedThenCompleted("tx1"), nil
		})

	application := sampleApplication()
	o := setupClient(t, network).Create(context.Background(), testUser, "la42", application)
	require.True(t, o.IsSuccess(), o.Error())
	assert.Equal(t, "la42", o.Body.(*LoanApplication).ID)
	assert.Empty(t, application.ID, "the caller's application must not be modified")
	assert.NotSame(t, application, o.Body)
}

func TestCreateFailureLeavesApplicationUntouched(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).AnyTimes()
	member.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(nil, errors.New("orderer down")).AnyTimes()

	application := sampleApplication()
	o := setupClient(t, network).Create(context.Background(), testUser, "la42", application)
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, *sampleApplication(), *application)
}

func TestCreateInvalidInput(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	c := setupClient(t, mockledger.NewMockNetwork(mockCtrl))

	tests := []struct {
		name        string
		user, id    string
		application *LoanApplication
		body        string
	}{
		{name: "no user", id: "la1", application: sampleApplication(), body: "user is invalid"},
		{name: "no id", user: testUser, application: sampleApplication(), body: "id is invalid"},
		{name: "no application", user: testUser, id: "la1", body: "loan application is invalid"},
		{name: "empty application", user: testUser, id: "la1", application: &LoanApplication{}, body: "loan application is invalid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := c.Create(context.Background(), tc.user, tc.id, tc.application)
			assert.Equal(t, outcome.InvalidInput, o.StatusCode)
			assert.Equal(t, tc.body, o.Body)
		})
	}
}

func TestCreateFailure(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).Times(retry.DefaultAttempts + 1)
	member.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ledgerapi.Request) (<-chan ledgerapi.Event, error) {
			return mockledger.Failed(status.New(status.ChaincodeStatus, 500, "caller does not have access", nil)), nil
		}).Times(retry.DefaultAttempts + 1)

	o := setupClient(t, network).Create(context.Background(), testUser, "la42", sampleApplication())
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, "Could not create loan application", o.Body)
}

func TestGet(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil)
	member.EXPECT().Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ledgerapi.Request) (<-chan ledgerapi.Event, error) {
			assert.Equal(t, GetFcn, req.Fcn)
			assert.Equal(t, [][]byte{[]byte("la42")}, req.Args)
			return mockledger.Completed(`{"id":"la42","status":"Submitted","requestedAmount":350000,"personalInfo":{"firstname":"Varun"}}`), nil
		})

	o := setupClient(t, network).Get(context.Background(), testUser, "la42")
	require.True(t, o.IsSuccess(), o.Error())
	application := o.Body.(*LoanApplication)
	assert.Equal(t, "la42", application.ID)
	assert.Equal(t, "Submitted", application.Status)
	assert.Equal(t, 350000, application.RequestedAmount)
	assert.Equal(t, "Varun", application.PersonalInfo.Firstname)
}

func TestGetInvalidInput(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	c := setupClient(t, mockledger.NewMockNetwork(mockCtrl))
	assert.Equal(t, outcome.InvalidInput, c.Get(context.Background(), "", "la42").StatusCode)
	assert.Equal(t, outcome.InvalidInput, c.Get(context.Background(), testUser, "").StatusCode)
}

func TestGetMalformedRecord(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil)
	member.EXPECT().Query(gomock.Any(), gomock.Any()).Return(mockledger.Completed(`{"requestedAmount":"a lot"}`), nil)

	o := setupClient(t, network).Get(context.Background(), testUser, "la42")
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
}

func TestGetMissingOnLedgerIsInternalError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), testUser).Return(member, nil).Times(retry.DefaultAttempts + 1)
	member.EXPECT().Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ledgerapi.Request) (<-chan ledgerapi.Event, error) {
			return mockledger.Failed(status.Errorf(status.ChaincodeStatus, status.NotFound, "loan application [la404] not found")), nil
		}).Times(retry.DefaultAttempts + 1)

	o := setupClient(t, network).Get(context.Background(), testUser, "la404")
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, "Could not fetch loan application", o.Body)
}
