/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package purchaseorder

// Statuses of a purchase order
const (
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusShipped   = "Shipped"
	StatusRejected  = "Rejected"
)

// Item is a line of a purchase order
type Item struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// PurchaseOrder is the record written to the ledger and mirrored to the datastore
type PurchaseOrder struct {
	ID             string `json:"id"`
	Company        string `json:"company"`
	Supplier       string `json:"supplier"`
	Items          []Item `json:"items"`
	Status         string `json:"status"`
	LastModifiedBy string `json:"lastModifiedBy"`
}
