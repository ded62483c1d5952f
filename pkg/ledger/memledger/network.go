/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package memledger is an in-process ledger network. It runs chaincode
// functions against an in-memory world state, issues identities through an
// embedded CA and emits operation events asynchronously, like a remote
// network would. Faults can be injected per operation kind.
package memledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/logging"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/ledger"
)

var logger = logging.NewLogger("mortgagesdk/memledger")

const (
	defaultRegistrar       = "admin"
	defaultRegistrarSecret = "adminpw"
)

// Network is an in-memory ledger.Network
type Network struct {
	mu         sync.RWMutex
	ca         *CA
	chaincodes map[string]*Chaincode
	state      map[string]map[string][]byte
	faults     *faults
	latency    time.Duration
	registrar  string
	secret     string
	closed     bool
}

// Option configures a Network
type Option func(n *Network) error

// WithChaincode installs cc under id
func WithChaincode(id string, cc *Chaincode) Option {
	return func(n *Network) error {
		n.chaincodes[id] = cc
		return nil
	}
}

// WithRegistrar sets the bootstrap registrar identity and its secret
func WithRegistrar(id, secret string) Option {
	return func(n *Network) error {
		n.registrar = id
		n.secret = secret
		return nil
	}
}

// WithLatency delays every emitted event by d
func WithLatency(d time.Duration) Option {
	return func(n *Network) error {
		n.latency = d
		return nil
	}
}

// New returns a Network with an enrolled registrar. Without a WithChaincode
// option the mortgage chaincode is installed as "mortgage".
func New(opts ...Option) (*Network, error) {
	ca, err := NewCA("memledger-ca")
	if err != nil {
		return nil, err
	}
	n := &Network{
		ca:         ca,
		chaincodes: make(map[string]*Chaincode),
		state:      make(map[string]map[string][]byte),
		faults:     newFaults(),
		registrar:  defaultRegistrar,
		secret:     defaultRegistrarSecret,
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, errors.WithMessage(err, "failed to apply network option")
		}
	}
	if len(n.chaincodes) == 0 {
		n.chaincodes["mortgage"] = NewMortgageChaincode()
	}

	if _, err := ca.Register(&ledger.RegistrationRequest{
		Name:        n.registrar,
		Affiliation: "org1",
		Attributes:  []ledger.Attribute{{Name: "role", Value: "registrar"}, {Name: "username", Value: n.registrar}},
		Roles:       []string{"client", "user", "admin"},
		Secret:      n.secret,
	}); err != nil {
		return nil, errors.WithMessage(err, "failed to register bootstrap registrar")
	}
	if _, err := ca.Enroll(n.registrar, n.secret); err != nil {
		return nil, errors.WithMessage(err, "failed to enroll bootstrap registrar")
	}
	return n, nil
}

// InjectFault queues a fault
func (n *Network) InjectFault(f Fault) {
	n.faults.add(f)
}

// ClearFaults drops all pending faults
func (n *Network) ClearFaults() {
	n.faults.clear()
}

// CA returns the embedded certificate authority
func (n *Network) CA() *CA {
	return n.ca
}

// Member returns the handle of identity. The identity does not need to be
// registered; operations that require enrollment fail until it is.
func (n *Network) Member(ctx context.Context, identity string) (ledger.Member, error) {
	if err := n.checkOpen(); err != nil {
		return nil, err
	}
	if identity == "" {
		return nil, errors.New("identity is required")
	}
	return &member{network: n, identity: identity}, nil
}

// Registrar returns the bootstrap registrar
func (n *Network) Registrar(ctx context.Context) (string, error) {
	if err := n.checkOpen(); err != nil {
		return "", err
	}
	return n.registrar, nil
}

// Close rejects further operations
func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

// State returns the value of key in the world state of chaincode ccID
func (n *Network) State(ccID, key string) []byte {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.state[ccID][key]
	if !ok {
		return nil
	}
	return append([]byte{}, v...)
}

func (n *Network) checkOpen() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return status.Errorf(status.ClientStatus, status.ConnectionFailed, "network is closed")
	}
	return nil
}

// execute runs request as caller. Writes are applied before it returns.
func (n *Network) execute(caller string, request ledger.Request, readOnly bool) (string, []byte, error) {
	if !n.ca.IsEnrolled(caller) {
		return "", nil, status.Errorf(status.LedgerServerStatus, status.AccessDenied, "identity [%s] is not enrolled", caller)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	cc, ok := n.chaincodes[request.ChaincodeID]
	if !ok {
		return "", nil, status.Errorf(status.LedgerServerStatus, status.NotFound, "chaincode [%s] is not installed", request.ChaincodeID)
	}
	state, ok := n.state[request.ChaincodeID]
	if !ok {
		state = make(map[string][]byte)
		n.state[request.ChaincodeID] = state
	}

	registered := n.ca.attributes(caller)
	disclosed := make(map[string]string, len(request.Attrs))
	for _, name := range request.Attrs {
		if v, ok := registered[name]; ok {
			disclosed[name] = v
		}
	}

	args := make([]string, len(request.Args))
	for i, a := range request.Args {
		args[i] = string(a)
	}

	stub := &Stub{
		txID:     uuid.New().String(),
		caller:   caller,
		attrs:    disclosed,
		readOnly: readOnly,
		state:    state,
		writes:   make(map[string][]byte),
	}
	payload, err := cc.execute(stub, request.Fcn, args)
	if err != nil {
		return stub.txID, nil, err
	}
	for k, v := range stub.writes {
		state[k] = v
	}
	return stub.txID, payload, nil
}

// emit sends events on a new channel after the configured latency. The
// channel is closed when all events were sent or ctx is done.
func (n *Network) emit(ctx context.Context, events ...ledger.Event) <-chan ledger.Event {
	ch := make(chan ledger.Event, len(events))
	go func() {
		defer close(ch)
		for _, ev := range events {
			if n.latency > 0 {
				timer := time.NewTimer(n.latency)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return
				}
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// hang returns a channel that stays open until ctx is done
func hang(ctx context.Context) <-chan ledger.Event {
	ch := make(chan ledger.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
