/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memledger

import (
	"sync"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

// Op is an operation kind faults can be injected into
type Op string

// Operations
const (
	OpQuery    Op = "query"
	OpInvoke   Op = "invoke"
	OpRegister Op = "register"
	OpEnroll   Op = "enroll"
)

// FaultMode selects how an injected fault shows
type FaultMode int

const (
	// FaultError fails the operation. Query and invoke emit an error event.
	FaultError FaultMode = iota
	// FaultNoTerminal closes the event stream without a terminal event
	FaultNoTerminal
	// FaultHang keeps the event stream open until the caller gives up
	FaultHang
)

// Fault makes the next Count operations of kind Op fail
type Fault struct {
	Op    Op
	Count int
	Mode  FaultMode
	// Err is reported in FaultError mode. A service unavailable status is used if nil.
	Err error
}

type faults struct {
	mu      sync.Mutex
	pending map[Op][]Fault
}

func newFaults() *faults {
	return &faults{pending: make(map[Op][]Fault)}
}

func (f *faults) add(fault Fault) {
	if fault.Count <= 0 {
		return
	}
	if fault.Mode == FaultError && fault.Err == nil {
		fault.Err = status.Errorf(status.LedgerServerStatus, status.ServiceUnavailable, "injected %s failure", fault.Op)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[fault.Op] = append(f.pending[fault.Op], fault)
}

// next consumes one occurrence of the first pending fault for op
func (f *faults) next(op Op) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	queue := f.pending[op]
	if len(queue) == 0 {
		return Fault{}, false
	}
	fault := queue[0]
	queue[0].Count--
	if queue[0].Count == 0 {
		queue = queue[1:]
	}
	f.pending[op] = queue
	return fault, true
}

func (f *faults) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = make(map[Op][]Fault)
}
