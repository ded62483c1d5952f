/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bankledger/mortgage-sdk-go/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the user, loan application and purchase order operations as a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSDK(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = s.Config().ServerAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.New(s.Identity(), s.Mortgage(), s.PurchaseOrders(), s.Gatherer()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return errors.Wrap(err, "server error")
		case sig := <-shutdown:
			fmt.Fprintf(cmd.OutOrStdout(), "Shutting down on %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return errors.Wrapf(err, "graceful shutdown did not complete in %v", shutdownTimeout)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address; defaults to server.address")
}
