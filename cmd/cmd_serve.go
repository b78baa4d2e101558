// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcodagnone/alertae/alerts"
	"github.com/jcodagnone/alertae/geocoding"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the alerts API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx)
	},
}

func serve(ctx context.Context) (err error) {
	geocoder, err := newGeocoder(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := newStore()
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, closeStore())
	}()

	service := alerts.NewService(geocoding.NewResolver(geocoder), store)

	server, err := alerts.NewServer(service)
	if err != nil {
		return err
	}

	err = server.Run(ctx, config.GetString(keyListen))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func init() {
	flags := serveCmd.Flags()
	flags.String(keyListen, ":8080", "address the API listens on")
	addGeocoderFlags(flags)
	addStoreFlags(flags)
	addHTTPFlags(flags)

	rootCmd.AddCommand(serveCmd)
}
