/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mortgage

// PersonalInfo of the buyer
type PersonalInfo struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	DOB       string `json:"DOB"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
}

// FinancialInfo of the buyer, monthly amounts
type FinancialInfo struct {
	MonthlySalary      int `json:"monthlySalary"`
	MonthlyRent        int `json:"monthlyRent"`
	OtherExpenditure   int `json:"otherExpenditure"`
	MonthlyLoanPayment int `json:"monthlyLoanPayment"`
}

// LoanApplication is the mortgage record kept on the ledger
type LoanApplication struct {
	ID                     string        `json:"id"`
	PropertyID             string        `json:"propertyId"`
	LandID                 string        `json:"landId"`
	PermitID               string        `json:"permitId"`
	BuyerID                string        `json:"buyerId"`
	AppraisalApplicationID string        `json:"appraiserApplicationId"`
	SalesContractID        string        `json:"salesContractId"`
	PersonalInfo           PersonalInfo  `json:"personalInfo"`
	FinancialInfo          FinancialInfo `json:"financialInfo"`
	Status                 string        `json:"status"`
	RequestedAmount        int           `json:"requestedAmount"`
	FairMarketValue        int           `json:"fairMarketValue"`
	ApprovedAmount         int           `json:"approvedAmount"`
	ReviewerID             string        `json:"reviewerId"`
	LastModifiedDate       string        `json:"lastModifiedDate"`
}
