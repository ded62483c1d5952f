/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mortgagesdk lets Go developers drive the mortgage and purchase order
// workflows of a permissioned ledger with retries built in.
//
// Packages for end developer usage
//
// pkg/sdk: Wires configuration, the ledger network, the mirror datastore and
// metrics into ready to use clients.
//
// pkg/client/identity: Registers and enrolls users with the certificate authority.
//
// pkg/client/mortgage: Creates and reads loan applications.
//
// pkg/client/purchaseorder: Creates, updates and reads purchase orders, which
// are mirrored to the datastore after every ledger write.
//
// pkg/client/ledger: Runs queries, invokes, registrations and enrollments
// against the ledger with retry, timeout and commit waiting.
//
// Basic workflow
//
//      1) Create an SDK instance using a configuration.
//      2) Register and log in a user with the identity client.
//      3) Use the mortgage or purchase order clients on behalf of that user.
//         Every call returns an outcome carrying a status code and a body.
//      4) Call Close() to release the network and the datastore.
//
// cmd/mortgagectl exposes the same operations on the command line and over HTTP.
package mortgagesdk
