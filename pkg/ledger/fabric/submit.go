/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabric

import (
	"context"

	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel/invoke"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/providers/fab"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

// submitHandler sends the endorsed transaction to the orderer and reports
// Submitted, then waits for the commit event and reports Complete
type submitHandler struct {
	ctx    context.Context
	events chan<- ledger.Event
}

func (h *submitHandler) Handle(requestContext *invoke.RequestContext, clientContext *invoke.ClientContext) {
	txID := string(requestContext.Response.TransactionID)

	reg, statusNotifier, err := clientContext.EventService.RegisterTxStatusEvent(txID)
	if err != nil {
		requestContext.Error = status.Errorf(status.LedgerServerStatus, status.ConnectionFailed, "registering for status of transaction [%s] failed: %s", txID, err)
		return
	}
	defer clientContext.EventService.Unregister(reg)

	tx, err := clientContext.Transactor.CreateTransaction(fab.TransactionRequest{
		Proposal:          requestContext.Response.Proposal,
		ProposalResponses: requestContext.Response.Responses,
	})
	if err != nil {
		requestContext.Error = classify(err)
		return
	}
	if _, err := clientContext.Transactor.SendTransaction(tx); err != nil {
		requestContext.Error = classify(err)
		return
	}
	send(h.ctx, h.events, ledger.Event{Kind: ledger.Submitted, TxID: txID})

	select {
	case txStatus := <-statusNotifier:
		requestContext.Response.TxValidationCode = txStatus.TxValidationCode
		// zero is VALID
		if txStatus.TxValidationCode != 0 {
			requestContext.Error = status.Errorf(status.LedgerServerStatus, status.Unknown, "transaction [%s] failed validation: %s", txID, txStatus.TxValidationCode)
			return
		}
		send(h.ctx, h.events, ledger.Event{Kind: ledger.Complete, TxID: txID})
	case <-requestContext.Ctx.Done():
		requestContext.Error = status.Errorf(status.ClientStatus, status.Timeout, "no commit event for transaction [%s]", txID)
	}
}
