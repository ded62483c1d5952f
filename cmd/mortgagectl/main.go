/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Command mortgagectl drives the mortgage and purchase order workflow from
// the command line and serves it over HTTP.
package main

func main() {
	Execute()
}
