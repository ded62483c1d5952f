/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabric

import (
	"context"

	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel/invoke"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/msp"
	fabretry "github.com/hyperledger/fabric-sdk-go/pkg/common/errors/retry"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

// noRetry disables the retries of fabric-sdk-go
var noRetry = channel.WithRetry(fabretry.Opts{})

type member struct {
	network  *Network
	identity string
}

func (m *member) Identity() string {
	return m.identity
}

func (m *member) Query(ctx context.Context, request ledger.Request) (<-chan ledger.Event, error) {
	cc, err := m.network.channelClient(m.identity)
	if err != nil {
		return nil, err
	}

	events := make(chan ledger.Event, 1)
	go func() {
		defer close(events)
		resp, err := cc.Query(toChannelRequest(request), noRetry, channel.WithParentContext(ctx))
		if err != nil {
			send(ctx, events, ledger.Event{Kind: ledger.Error, Err: classify(err)})
			return
		}
		send(ctx, events, ledger.Event{Kind: ledger.Complete, TxID: string(resp.TransactionID), Payload: resp.Payload})
	}()
	return events, nil
}

func (m *member) Invoke(ctx context.Context, request ledger.Request) (<-chan ledger.Event, error) {
	cc, err := m.network.channelClient(m.identity)
	if err != nil {
		return nil, err
	}

	events := make(chan ledger.Event, 2)
	go func() {
		defer close(events)
		handler := invoke.NewProposalProcessorHandler(
			invoke.NewEndorsementHandler(
				invoke.NewEndorsementValidationHandler(
					&submitHandler{ctx: ctx, events: events},
				),
			),
		)
		if _, err := cc.InvokeHandler(handler, toChannelRequest(request), noRetry, channel.WithParentContext(ctx)); err != nil {
			send(ctx, events, ledger.Event{Kind: ledger.Error, Err: classify(err)})
		}
	}()
	return events, nil
}

func (m *member) Register(ctx context.Context, request *ledger.RegistrationRequest) (string, error) {
	secret, err := m.network.msp.Register(toRegistrationRequest(request))
	if err != nil {
		return "", classify(err)
	}
	return secret, nil
}

func (m *member) Enroll(ctx context.Context, secret string) (*ledger.Enrollment, error) {
	if err := m.network.msp.Enroll(m.identity, msp.WithSecret(secret)); err != nil {
		return nil, classify(err)
	}
	id, err := m.network.msp.GetSigningIdentity(m.identity)
	if err != nil {
		return nil, classify(err)
	}
	// the private key stays in the SDK's credential store
	return &ledger.Enrollment{EnrollmentID: m.identity, Cert: id.EnrollmentCertificate()}, nil
}

// IsRegistered is true for enrolled identities and for identities known to the CA
func (m *member) IsRegistered(ctx context.Context) (bool, error) {
	enrolled, err := m.IsEnrolled(ctx)
	if err != nil || enrolled {
		return enrolled, err
	}
	if _, err := m.network.msp.GetIdentity(m.identity); err != nil {
		logger.Debugf("identity [%s] is not known to the CA: %s", m.identity, err)
		return false, nil
	}
	return true, nil
}

func (m *member) IsEnrolled(ctx context.Context) (bool, error) {
	_, err := m.network.msp.GetSigningIdentity(m.identity)
	if err == msp.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

func send(ctx context.Context, events chan<- ledger.Event, ev ledger.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
