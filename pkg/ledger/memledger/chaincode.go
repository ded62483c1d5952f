/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memledger

import (
	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

// Function is a chaincode function. It returns the payload of the call.
type Function func(stub *Stub, args []string) ([]byte, error)

// Stub gives a chaincode function access to world state and to the
// attributes the caller disclosed
type Stub struct {
	txID     string
	caller   string
	attrs    map[string]string
	readOnly bool
	state    map[string][]byte
	writes   map[string][]byte
}

// TxID returns the id of the current transaction
func (s *Stub) TxID() string {
	return s.txID
}

// Caller returns the enrollment id of the submitter
func (s *Stub) Caller() string {
	return s.caller
}

// GetAttribute returns a disclosed attribute of the submitter
func (s *Stub) GetAttribute(name string) (string, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// GetState returns the value of key, or nil if it does not exist.
// Writes of the current transaction are visible.
func (s *Stub) GetState(key string) ([]byte, error) {
	if v, ok := s.writes[key]; ok {
		return v, nil
	}
	return s.state[key], nil
}

// PutState records a write. Writes are applied when the transaction is submitted.
func (s *Stub) PutState(key string, value []byte) error {
	if s.readOnly {
		return status.Errorf(status.ChaincodeStatus, status.InvalidInput, "PutState is not allowed in a query")
	}
	if key == "" {
		return status.Errorf(status.ChaincodeStatus, status.InvalidInput, "key must not be empty")
	}
	s.writes[key] = append([]byte{}, value...)
	return nil
}

// Chaincode is a set of named functions with optional access rules
type Chaincode struct {
	functions map[string]Function
	acl       map[string]*govaluate.EvaluableExpression
}

// NewChaincode returns an empty Chaincode
func NewChaincode() *Chaincode {
	return &Chaincode{
		functions: make(map[string]Function),
		acl:       make(map[string]*govaluate.EvaluableExpression),
	}
}

// Define adds function fcn
func (cc *Chaincode) Define(fcn string, f Function) *Chaincode {
	cc.functions[fcn] = f
	return cc
}

// Restrict guards fcn with a boolean expression over the caller's disclosed
// attributes, for example "role == 'Bank_Admin'". Attributes that were not
// disclosed evaluate as empty strings.
func (cc *Chaincode) Restrict(fcn, expression string) error {
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return errors.Wrapf(err, "invalid access rule for [%s]", fcn)
	}
	cc.acl[fcn] = expr
	return nil
}

func (cc *Chaincode) execute(stub *Stub, fcn string, args []string) ([]byte, error) {
	f, ok := cc.functions[fcn]
	if !ok {
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "Invalid function name [%s]", fcn)
	}
	if err := cc.authorize(stub, fcn); err != nil {
		return nil, err
	}
	return f(stub, args)
}

func (cc *Chaincode) authorize(stub *Stub, fcn string) error {
	expr, ok := cc.acl[fcn]
	if !ok {
		return nil
	}

	params := make(map[string]interface{})
	for _, v := range expr.Vars() {
		params[v] = ""
	}
	for k, v := range stub.attrs {
		params[k] = v
	}

	result, err := expr.Evaluate(params)
	if err != nil {
		return errors.Wrapf(err, "evaluating access rule for [%s] failed", fcn)
	}
	if allowed, ok := result.(bool); !ok || !allowed {
		return status.Errorf(status.ChaincodeStatus, status.AccessDenied,
			"caller with %s and role %s does not have access to invoke %s", stub.attrs["username"], stub.attrs["role"], fcn)
	}
	return nil
}
