// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jcodagnone/alertae/alerts"
	"github.com/jcodagnone/alertae/geocoding"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var resolveOptions struct {
	address  geocoding.Address
	file     string
	planOnly bool
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Geocode addresses through the fallback tiers",
	Long: `
Geocodes a single address given with the address flags, or every address of
a JSON array read with --file ("-" reads stdin). Prints one JSON line per
address with the tier that resolved it. --plan prints the queries that would
be sent without calling the geocoder.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addresses := []geocoding.Address{resolveOptions.address}

		if resolveOptions.file != "" {
			var err error

			addresses, err = readAddresses(resolveOptions.file)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()

		if resolveOptions.planOnly {
			return printPlans(out, addresses)
		}

		geocoder, err := newGeocoder(cmd.Context())
		if err != nil {
			return err
		}

		return resolveAll(cmd.Context(), geocoding.NewResolver(geocoder), addresses, out)
	},
}

func readAddresses(filename string) ([]geocoding.Address, error) {
	var r io.Reader = os.Stdin

	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("opening addresses: %w", err)
		}
		defer f.Close()

		r = f
	}

	var addresses []geocoding.Address
	if err := json.NewDecoder(r).Decode(&addresses); err != nil {
		return nil, fmt.Errorf("decoding addresses from %s: %w", filename, err)
	}

	return addresses, nil
}

type planLine struct {
	Address  geocoding.Address   `json:"address"`
	Attempts []geocoding.Attempt `json:"attempts"`
}

func printPlans(w io.Writer, addresses []geocoding.Address) error {
	enc := json.NewEncoder(w)

	for _, a := range addresses {
		if err := enc.Encode(planLine{Address: a, Attempts: geocoding.Plan(a)}); err != nil {
			return err
		}
	}

	return nil
}

type resolveLine struct {
	Address    geocoding.Address     `json:"address"`
	Resolution *geocoding.Resolution `json:"resolution,omitempty"`
	Error      string                `json:"error,omitempty"`
}

type addressResolver interface {
	Resolve(ctx context.Context, a geocoding.Address) (*geocoding.Resolution, error)
}

// resolveAll resolves addresses sequentially, writing one JSON line each.
func resolveAll(ctx context.Context, resolver addressResolver, addresses []geocoding.Address, w io.Writer) error {
	var bar *progressbar.ProgressBar
	if len(addresses) > 1 && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(addresses),
			progressbar.OptionSetDescription("Resolving addresses"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	enc := json.NewEncoder(w)
	notFound := 0

	for _, a := range addresses {
		line := resolveLine{Address: a}

		res, err := resolver.Resolve(ctx, a)

		switch {
		case err == nil:
			line.Resolution = res
		case errors.Is(err, geocoding.ErrAddressNotFound):
			notFound++
			line.Error = err.Error()
		default:
			return err
		}

		if err := enc.Encode(line); err != nil {
			return err
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	if notFound > 0 {
		return fmt.Errorf("%d of %d addresses: %w", notFound, len(addresses), geocoding.ErrAddressNotFound)
	}

	return nil
}

func init() {
	flags := resolveCmd.Flags()
	flags.StringVar(&resolveOptions.address.Street, "street", "", "street and number")
	flags.StringVar(&resolveOptions.address.Neighborhood, "neighborhood", "", "neighborhood")
	flags.StringVar(&resolveOptions.address.City, "city", "", "city")
	flags.StringVar(&resolveOptions.address.State, "state", "", "state")
	flags.StringVar(&resolveOptions.address.Country, "country", alerts.DefaultCountry, "country")
	flags.StringVar(&resolveOptions.file, "file", "", "JSON array of addresses to resolve")
	flags.BoolVar(&resolveOptions.planOnly, "plan", false, "print the geocoding queries without resolving them")
	addGeocoderFlags(flags)
	addHTTPFlags(flags)

	rootCmd.AddCommand(resolveCmd)
}
