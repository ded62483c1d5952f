/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/mortgage"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

var mortgageCmd = &cobra.Command{
	Use:   "mortgage",
	Short: "Create and read loan applications",
}

var mortgageCreateCmd = &cobra.Command{
	Use:   "create <user> <id> <application-json|->",
	Short: "Record a loan application",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var application mortgage.LoanApplication
		if err := readJSONArg(args[2], &application); err != nil {
			return err
		}
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			return s.Mortgage().Create(cmd.Context(), args[0], args[1], &application)
		})
	},
}

var mortgageGetCmd = &cobra.Command{
	Use:   "get <user> <id>",
	Short: "Read a loan application",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			return s.Mortgage().Get(cmd.Context(), args[0], args[1])
		})
	},
}

func init() {
	rootCmd.AddCommand(mortgageCmd)
	mortgageCmd.AddCommand(mortgageCreateCmd, mortgageGetCmd)
}
