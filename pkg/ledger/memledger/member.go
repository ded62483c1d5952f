/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memledger

import (
	"context"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

type member struct {
	network  *Network
	identity string
}

func (m *member) Identity() string {
	return m.identity
}

// Query runs the request read-only and emits a Complete event carrying the result
func (m *member) Query(ctx context.Context, request ledger.Request) (<-chan ledger.Event, error) {
	if err := m.network.checkOpen(); err != nil {
		return nil, err
	}
	if ch, ok := m.injected(ctx, OpQuery); ok {
		return ch, nil
	}

	txID, payload, err := m.network.execute(m.identity, request, true)
	if err != nil {
		logger.Debugf("query %s by [%s] failed: %s", request.Fcn, m.identity, err)
		return m.network.emit(ctx, ledger.Event{Kind: ledger.Error, TxID: txID, Err: err}), nil
	}
	return m.network.emit(ctx, ledger.Event{Kind: ledger.Complete, TxID: txID, Payload: payload}), nil
}

// Invoke runs the request, applies its writes and emits Submitted followed by Complete
func (m *member) Invoke(ctx context.Context, request ledger.Request) (<-chan ledger.Event, error) {
	if err := m.network.checkOpen(); err != nil {
		return nil, err
	}
	if ch, ok := m.injected(ctx, OpInvoke); ok {
		return ch, nil
	}

	txID, payload, err := m.network.execute(m.identity, request, false)
	if err != nil {
		logger.Debugf("invoke %s by [%s] failed: %s", request.Fcn, m.identity, err)
		return m.network.emit(ctx, ledger.Event{Kind: ledger.Error, TxID: txID, Err: err}), nil
	}
	logger.Debugf("invoke %s by [%s] committed in [%s]", request.Fcn, m.identity, txID)
	return m.network.emit(ctx,
		ledger.Event{Kind: ledger.Submitted, TxID: txID},
		ledger.Event{Kind: ledger.Complete, TxID: txID, Payload: payload},
	), nil
}

func (m *member) injected(ctx context.Context, op Op) (<-chan ledger.Event, bool) {
	fault, ok := m.network.faults.next(op)
	if !ok {
		return nil, false
	}
	logger.Debugf("injecting %s fault into %s by [%s]", faultName(fault.Mode), op, m.identity)
	switch fault.Mode {
	case FaultNoTerminal:
		return m.network.emit(ctx), true
	case FaultHang:
		return hang(ctx), true
	default:
		return m.network.emit(ctx, ledger.Event{Kind: ledger.Error, Err: fault.Err}), true
	}
}

// Register registers a new identity named by request
func (m *member) Register(ctx context.Context, request *ledger.RegistrationRequest) (string, error) {
	if err := m.network.checkOpen(); err != nil {
		return "", err
	}
	if err := m.failure(OpRegister); err != nil {
		return "", err
	}
	return m.network.ca.Register(request)
}

// Enroll exchanges secret for a certificate of this member
func (m *member) Enroll(ctx context.Context, secret string) (*ledger.Enrollment, error) {
	if err := m.network.checkOpen(); err != nil {
		return nil, err
	}
	if err := m.failure(OpEnroll); err != nil {
		return nil, err
	}
	return m.network.ca.Enroll(m.identity, secret)
}

func (m *member) failure(op Op) error {
	fault, ok := m.network.faults.next(op)
	if !ok {
		return nil
	}
	if fault.Mode == FaultError {
		return fault.Err
	}
	return status.Errorf(status.CAServerStatus, status.ServiceUnavailable, "injected %s failure", op)
}

func (m *member) IsRegistered(ctx context.Context) (bool, error) {
	if err := m.network.checkOpen(); err != nil {
		return false, err
	}
	return m.network.ca.IsRegistered(m.identity), nil
}

func (m *member) IsEnrolled(ctx context.Context) (bool, error) {
	if err := m.network.checkOpen(); err != nil {
		return false, err
	}
	return m.network.ca.IsEnrolled(m.identity), nil
}

func faultName(mode FaultMode) string {
	switch mode {
	case FaultNoTerminal:
		return "no-terminal"
	case FaultHang:
		return "hang"
	default:
		return "error"
	}
}
