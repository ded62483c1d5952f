/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/bankledger/mortgage-sdk-go/pkg/client/identity"
	"github.com/bankledger/mortgage-sdk-go/pkg/client/mortgage"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run the sample flow: register, login, create and read a loan application",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		affiliation, _ := cmd.Flags().GetString("affiliation")

		s, err := newSDK(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		format, _ := cmd.Flags().GetString("output")
		o := runSample(cmd.Context(), s, cmd.OutOrStdout(), format, user, affiliation)
		return printOutcome(cmd, o)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().String("user", "loanofficer", "User to register")
	sampleCmd.Flags().String("affiliation", "Bank_Admin", "Affiliation, which becomes the user's role")
}

// runSample returns the first failed outcome, or the fetched application
func runSample(ctx context.Context, s *sdk.SDK, w io.Writer, format, user, affiliation string) *outcome.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	o := s.Identity().RegisterUser(ctx, user, affiliation)
	if !o.IsSuccess() {
		return o
	}
	credentials := o.Body.(*identity.Credentials)

	if o = s.Identity().LoginUser(ctx, user, credentials.Password); !o.IsSuccess() {
		return o
	}

	id := fmt.Sprintf("la%d", rand.Intn(99999)+1)
	application := &mortgage.LoanApplication{
		PropertyID: "prop1",
		LandID:     "land1",
		PermitID:   "permit1",
		BuyerID:    "buyer1",
		PersonalInfo: mortgage.PersonalInfo{
			Firstname: "Ada",
			Lastname:  "Lovelace",
			Email:     "ada@example.com",
			Mobile:    "99999999",
		},
		FinancialInfo: mortgage.FinancialInfo{
			MonthlySalary:      10000,
			MonthlyRent:        10000,
			MonthlyLoanPayment: 4000,
		},
		Status:           "Submitted",
		RequestedAmount:  4000000,
		FairMarketValue:  5800000,
		ApprovedAmount:   4000000,
		ReviewerID:       "bond",
		LastModifiedDate: "21/09/2016 2:30pm",
	}
	if o = s.Mortgage().Create(ctx, user, id, application); !o.IsSuccess() {
		return o
	}
	if err := render(w, format, o); err != nil {
		return outcome.Internal("Could not print loan application", err)
	}

	return s.Mortgage().Get(ctx, user, id)
}
