/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Register and log in users",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <username> <affiliation>",
	Short: "Register a user; the affiliation becomes the user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, _ := cmd.Flags().GetStringSlice("roles")
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			return s.Identity().RegisterUser(cmd.Context(), args[0], args[1], roles...)
		})
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Enroll a user with the secret returned by register",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			return s.Identity().LoginUser(cmd.Context(), args[0], args[1])
		})
	},
}

var userStatusCmd = &cobra.Command{
	Use:   "status <username>",
	Short: "Show whether a user is registered and enrolled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSDK(cmd, func(s *sdk.SDK) *outcome.Outcome {
			registered := s.Identity().IsUserRegistered(cmd.Context(), args[0])
			if !registered.IsSuccess() {
				return registered
			}
			enrolled := s.Identity().IsUserEnrolled(cmd.Context(), args[0])
			if !enrolled.IsSuccess() {
				return enrolled
			}
			return outcome.OK(map[string]interface{}{
				"username":   args[0],
				"registered": registered.Body,
				"enrolled":   enrolled.Body,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userRegisterCmd, userLoginCmd, userStatusCmd)
	userRegisterCmd.Flags().StringSlice("roles", nil, "CA roles; defaults to registrar.roles")
}
