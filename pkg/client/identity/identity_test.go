/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/ledger"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/request"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/retry"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	ledgerapi "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
	mockledger "github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger/mocks"
)

const registrar = "admin"

func setupClient(t *testing.T, network ledgerapi.Network) *Client {
	l, err := ledger.New(network, ledger.WithDefaultRetry(retry.Opts{Attempts: 5, InitialBackoff: time.Millisecond}))
	require.NoError(t, err)
	c, err := New(l, request.NewBuilder("mortgage"), registrar)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	l, err := ledger.New(mockledger.NewMockNetwork(mockCtrl))
	require.NoError(t, err)

	_, err = New(nil, request.NewBuilder("cc"), registrar)
	assert.Error(t, err)
	_, err = New(l, nil, registrar)
	assert.Error(t, err)
	_, err = New(l, request.NewBuilder("cc"), "")
	assert.Error(t, err)
}

func TestRegisterUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	user := mockledger.NewMockMember(mockCtrl)
	admin := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)

	gomock.InOrder(
		network.EXPECT().Member(gomock.Any(), "vojha26").Return(user, nil),
		network.EXPECT().Registrar(gomock.Any()).Return(registrar, nil),
		user.EXPECT().Register(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *ledgerapi.RegistrationRequest) (string, error) {
				assert.Equal(t, "vojha26", req.Name)
				assert.Equal(t, []string{"client"}, req.Roles)
				return "s3cret", nil
			}),
		network.EXPECT().Member(gomock.Any(), registrar).Return(admin, nil),
		admin.EXPECT().Invoke(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req ledgerapi.Request) (<-chan ledgerapi.Event, error) {
				assert.Equal(t, CreateUserFcn, req.Fcn)
				assert.Equal(t, [][]byte{[]byte("vojha26"), []byte("Bank_Admin")}, req.Args)
				return mockledger.SubmittedThenCompleted("tx1"), nil
			}),
	)

	o := setupClient(t, network).RegisterUser(context.Background(), "vojha26", "Bank_Admin")
	require.True(t, o.IsSuccess(), o.Error())
	assert.Equal(t, &Credentials{Username: "vojha26", Password: "s3cret"}, o.Body)
}

func TestRegisterUserInvalidInput(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	// zero network calls
	c := setupClient(t, mockledger.NewMockNetwork(mockCtrl))

	o := c.RegisterUser(context.Background(), "", "Bank")
	assert.Equal(t, outcome.InvalidInput, o.StatusCode)
	o = c.RegisterUser(context.Background(), "vojha26", "")
	assert.Equal(t, outcome.InvalidInput, o.StatusCode)
}

func TestRegisterUserLedgerStepFails(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	user := mockledger.NewMockMember(mockCtrl)
	admin := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), "vojha26").Return(user, nil)
	network.EXPECT().Registrar(gomock.Any()).Return(registrar, nil)
	user.EXPECT().Register(gomock.Any(), gomock.Any()).Return("s3cret", nil)
	network.EXPECT().Member(gomock.Any(), registrar).Return(admin, nil).Times(retry.DefaultAttempts + 1)
	admin.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(nil, errors.New("peer down")).Times(retry.DefaultAttempts + 1)

	o := setupClient(t, network).RegisterUser(context.Background(), "vojha26", "Bank_Admin")
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, "Could not register user", o.Body, "no partial success is exposed")
}

func TestLoginUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), "vojha26").Return(member, nil).Times(2)
	gomock.InOrder(
		member.EXPECT().Enroll(gomock.Any(), "s3cret").Return(nil, errors.New("enrollment race")),
		member.EXPECT().Enroll(gomock.Any(), "s3cret").Return(&ledgerapi.Enrollment{EnrollmentID: "vojha26", Cert: []byte("PEM")}, nil),
	)

	c := setupClient(t, network)
	o := c.LoginUser(context.Background(), "vojha26", "s3cret")
	require.True(t, o.IsSuccess(), o.Error())
	assert.Equal(t, &Session{Username: "vojha26", Certificate: "PEM"}, o.Body)

	assert.Equal(t, "Could not login user. Invalid password", c.LoginUser(context.Background(), "vojha26", "").Body)
}

func TestLoginUserFails(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), "vojha26").Return(member, nil).AnyTimes()
	member.EXPECT().Enroll(gomock.Any(), "wrong").Return(nil, errors.New("authentication failure")).Times(retry.DefaultAttempts + 1)

	o := setupClient(t, network).LoginUser(context.Background(), "vojha26", "wrong")
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, "Could not login user", o.Body)
}

func TestMemberStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	member := mockledger.NewMockMember(mockCtrl)
	network := mockledger.NewMockNetwork(mockCtrl)
	network.EXPECT().Member(gomock.Any(), "vojha26").Return(member, nil).Times(2)
	network.EXPECT().Member(gomock.Any(), "ghost").Return(nil, errors.New("unknown"))
	member.EXPECT().IsRegistered(gomock.Any()).Return(true, nil)
	member.EXPECT().IsEnrolled(gomock.Any()).Return(false, nil)

	c := setupClient(t, network)
	assert.Equal(t, true, c.IsUserRegistered(context.Background(), "vojha26").Body)
	assert.Equal(t, false, c.IsUserEnrolled(context.Background(), "vojha26").Body)

	o := c.IsUserEnrolled(context.Background(), "ghost")
	assert.Equal(t, outcome.InternalServerError, o.StatusCode)
	assert.Equal(t, "Could not get user enrollment status", o.Body)

	assert.Equal(t, outcome.InvalidInput, c.IsUserRegistered(context.Background(), "").StatusCode)
}
