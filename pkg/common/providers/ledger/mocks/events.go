/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockledger

import (
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

// Events returns a closed, buffered event channel holding the given events.
// It is used as the return value of mocked Query and Invoke calls.
func Events(events ...ledger.Event) <-chan ledger.Event {
	ch := make(chan ledger.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

// Completed returns a stream holding one Complete event with payload
func Completed(payload string) <-chan ledger.Event {
	return Events(ledger.Event{Kind: ledger.Complete, Payload: []byte(payload)})
}

// SubmittedThenCompleted returns a stream holding the events of a committed transaction
func SubmittedThenCompleted(txID string) <-chan ledger.Event {
	return Events(
		ledger.Event{Kind: ledger.Submitted, TxID: txID},
		ledger.Event{Kind: ledger.Complete, TxID: txID},
	)
}

// Failed returns a stream holding one Error event
func Failed(err error) <-chan ledger.Event {
	return Events(ledger.Event{Kind: ledger.Error, Err: err})
}
