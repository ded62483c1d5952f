/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/purchaseorder"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

var poCmd = &cobra.Command{
	Use:     "po",
	Aliases: []string{"purchase-order"},
	Short:   "Create, update and read purchase orders",
}

var poCreateCmd = &cobra.Command{
	Use:   "create <user> <company> <order-json|->",
	Short: "Record a purchase order as company",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var po purchaseorder.PurchaseOrder
		if err := readJSONArg(args[2], &po); err != nil {
			return err
		}
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			return s.PurchaseOrders().Create(cmd.Context(), args[0], args[1], &po)
		})
	},
}

var poUpdateCmd = &cobra.Command{
	Use:   "update <user> <company> <id> <order-json|->",
	Short: "Update a purchase order as company",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var po purchaseorder.PurchaseOrder
		if err := readJSONArg(args[3], &po); err != nil {
			return err
		}
		po.ID = args[2]
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			return s.PurchaseOrders().Update(cmd.Context(), args[0], args[1], &po)
		})
	},
}

var poGetCmd = &cobra.Command{
	Use:   "get <user> <id>",
	Short: "Read a purchase order from the mirror datastore",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromLedger, _ := cmd.Flags().GetBool("ledger")
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			if fromLedger {
				return s.PurchaseOrders().GetFromLedger(cmd.Context(), args[0], args[1])
			}
			return s.PurchaseOrders().Get(cmd.Context(), args[0], args[1])
		})
	},
}

func init() {
	rootCmd.AddCommand(poCmd)
	poCmd.AddCommand(poCreateCmd, poUpdateCmd, poGetCmd)
	poGetCmd.Flags().Bool("ledger", false, "Read from the ledger instead of the mirror")
}
