/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memledger

import (
	"encoding/json"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/errors/status"
)

// Key prefixes of the records kept by the mortgage chaincode
const (
	loanApplicationPrefix = "LA_"
	purchaseOrderPrefix   = "PO_"
	userPrefix            = "USER_"
)

// LoanAdminRule is the access rule guarding loan application creation
const LoanAdminRule = "role == 'Bank_Admin'"

// NewMortgageChaincode returns the chaincode serving loan applications,
// purchase orders and user records
func NewMortgageChaincode() *Chaincode {
	cc := NewChaincode().
		Define("CreateLoanApplication", createLoanApplication).
		Define("GetLoanApplication", getRecord(loanApplicationPrefix, "loan application")).
		Define("createPurchaseOrder", createPurchaseOrder).
		Define("updatePurchaseOrder", updatePurchaseOrder).
		Define("getPurchaseOrder", getRecord(purchaseOrderPrefix, "purchase order")).
		Define("createUser", createUser)
	if err := cc.Restrict("CreateLoanApplication", LoanAdminRule); err != nil {
		panic(err)
	}
	return cc
}

func createLoanApplication(stub *Stub, args []string) ([]byte, error) {
	if len(args) < 2 {
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "Expected atleast two arguments for loan application creation")
	}
	if !json.Valid([]byte(args[1])) {
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "loan application is not valid JSON")
	}
	if err := stub.PutState(loanApplicationPrefix+args[0], []byte(args[1])); err != nil {
		return nil, err
	}
	return []byte(args[1]), nil
}

func getRecord(prefix, what string) Function {
	return func(stub *Stub, args []string) ([]byte, error) {
		if len(args) < 1 || args[0] == "" {
			return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "Expected the %s id", what)
		}
		value, err := stub.GetState(prefix + args[0])
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, status.Errorf(status.ChaincodeStatus, status.NotFound, "%s [%s] not found", what, args[0])
		}
		return value, nil
	}
}

func createPurchaseOrder(stub *Stub, args []string) ([]byte, error) {
	return putPurchaseOrder(stub, args, false)
}

func updatePurchaseOrder(stub *Stub, args []string) ([]byte, error) {
	return putPurchaseOrder(stub, args, true)
}

func putPurchaseOrder(stub *Stub, args []string, mustExist bool) ([]byte, error) {
	if len(args) < 2 || args[0] == "" {
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "Expected the purchase order id and record")
	}
	if !json.Valid([]byte(args[1])) {
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "purchase order is not valid JSON")
	}

	key := purchaseOrderPrefix + args[0]
	existing, err := stub.GetState(key)
	if err != nil {
		return nil, err
	}
	switch {
	case mustExist && existing == nil:
		return nil, status.Errorf(status.ChaincodeStatus, status.NotFound, "purchase order [%s] not found", args[0])
	case !mustExist && existing != nil:
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "purchase order [%s] already exists", args[0])
	}

	if err := stub.PutState(key, []byte(args[1])); err != nil {
		return nil, err
	}
	return []byte(args[1]), nil
}

type userRecord struct {
	Username    string `json:"username"`
	Affiliation string `json:"affiliation"`
	CreatedBy   string `json:"createdBy"`
}

func createUser(stub *Stub, args []string) ([]byte, error) {
	if len(args) < 2 || args[0] == "" {
		return nil, status.Errorf(status.ChaincodeStatus, status.InvalidInput, "Expected the username and affiliation")
	}
	record, err := json.Marshal(&userRecord{Username: args[0], Affiliation: args[1], CreatedBy: stub.Caller()})
	if err != nil {
		return nil, err
	}
	if err := stub.PutState(userPrefix+args[0], record); err != nil {
		return nil, err
	}
	return record, nil
}
