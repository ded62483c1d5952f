/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bankledger/mortgage-sdk-go/pkg/common/outcome"
	"github.com/bankledger/mortgage-sdk-go/pkg/common/providers/core"
	"github.com/bankledger/mortgage-sdk-go/pkg/core/config"
	"github.com/bankledger/mortgage-sdk-go/pkg/sdk"
)

var rootCmd = &cobra.Command{
	Use:           "mortgagectl",
	Short:         "mortgagectl talks to the mortgage ledger",
	Long:          `mortgagectl registers users, records loan applications and purchase orders on the ledger, and serves the same operations over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (yaml or json); defaults and MORTGAGE_SDK_* variables apply when empty")
	rootCmd.PersistentFlags().StringP("output", "o", "yaml", "Output format: yaml or json")
}

func configProvider(cmd *cobra.Command) core.ConfigProvider {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.FromDefaults()
	}
	return config.FromFile(path)
}

func newSDK(cmd *cobra.Command) (*sdk.SDK, error) {
	s, err := sdk.New(configProvider(cmd))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to initialize SDK")
	}
	return s, nil
}

// errFailedOutcome makes the process exit non-zero after the outcome is printed
var errFailedOutcome = errors.New("operation failed")

func printOutcome(cmd *cobra.Command, o *outcome.Outcome) error {
	format, _ := cmd.Flags().GetString("output")
	if err := render(cmd.OutOrStdout(), format, o); err != nil {
		return err
	}
	if !o.IsSuccess() {
		return errFailedOutcome
	}
	return nil
}

// render writes o as json, or as yaml keeping the json field names and order
func render(w io.Writer, format string, o *outcome.Outcome) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "failed to encode outcome")
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return errors.Wrap(err, "failed to convert outcome")
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return errors.Wrap(err, "failed to write outcome")
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles the json input carries
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// withSDK runs fn with an SDK that is closed afterwards
func withSDK(cmd *cobra.Command, fn func(s *sdk.SDK) *outcome.Outcome) error {
	s, err := newSDK(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return printOutcome(cmd, fn(s))
}

func readJSONArg(arg string, v interface{}) error {
	data := []byte(arg)
	if arg == "-" {
		var err error
		if data, err = io.ReadAll(os.Stdin); err != nil {
			return errors.Wrap(err, "failed to read stdin")
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}
	return nil
}
