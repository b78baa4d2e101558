// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/alertae/alerts"
	"github.com/jcodagnone/alertae/geocoding"
	"github.com/jcodagnone/alertae/utils/httputils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each one is also read from the environment, upper
// cased with dashes replaced by underscores (supabase-url -> SUPABASE_URL).
const (
	keySupabaseURL        = "supabase-url"
	keySupabaseAnonKey    = "supabase-anon-key"
	keyGeocoder           = "geocoder"
	keyGeocodingAPIURL    = "geocoding-api-url"
	keyGeocodingRateLimit = "geocoding-rate-limit"
	keyGoogleMapsAPIKey   = "google-maps-api-key"
	keyGoogleProject      = "google-project"
	keyStore              = "store"
	keyDuckDBPath         = "duckdb-path"
	keyListen             = "listen"
	keyUserAgent          = "user-agent"
	keyHTTPTrace          = "http-trace"
	keyHTTPBodyTrace      = "http-body-trace"
	keyEnvFile            = "env-file"
)

var config = viper.New()

// loadConfig loads the .env file, then binds the command flags so that
// flags > environment > defaults.
func loadConfig(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString(keyEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()

	if err := config.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	return nil
}

func addHTTPFlags(flags *pflag.FlagSet) {
	flags.String(keyUserAgent, "", "User-Agent for outbound requests")
	flags.Bool(keyHTTPTrace, false, "trace outbound HTTP requests to stderr")
	flags.Bool(keyHTTPBodyTrace, false, "include bodies in the HTTP trace")
}

func addGeocoderFlags(flags *pflag.FlagSet) {
	flags.String(keyGeocoder, "nominatim", "geocoding provider: nominatim or google")
	flags.String(keyGeocodingAPIURL, geocoding.DefaultNominatimURL, "Nominatim search endpoint")
	flags.Float64(keyGeocodingRateLimit, 1, "maximum geocoding requests per second (0 disables the limit)")
	flags.String(keyGoogleMapsAPIKey, "", "Google Maps API key; looked up through ADC when empty")
	flags.String(keyGoogleProject, "", "Google Cloud project used for the ADC key lookup")
}

func addStoreFlags(flags *pflag.FlagSet) {
	flags.String(keyStore, "supabase", "alerts store: supabase or duckdb")
	flags.String(keySupabaseURL, "", "Supabase project URL")
	flags.String(keySupabaseAnonKey, "", "Supabase API key")
	flags.String(keyDuckDBPath, "alertae.duckdb", "DuckDB database file, for --store=duckdb")
}

func userAgent() string {
	if ua := config.GetString(keyUserAgent); ua != "" {
		return ua
	}

	return fmt.Sprintf("alertae/%s (+https://github.com/jcodagnone/alertae)", Version)
}

func traceWriter() io.Writer {
	if config.GetBool(keyHTTPTrace) || config.GetBool(keyHTTPBodyTrace) {
		return os.Stderr
	}

	return nil
}

// newGeocoder builds the configured geocoding provider.
func newGeocoder(ctx context.Context) (geocoding.Geocoder, error) {
	client := httputils.NewClient(httputils.ClientOptions{
		UserAgent:   userAgent(),
		TraceWriter: traceWriter(),
		TraceBody:   config.GetBool(keyHTTPBodyTrace),
		RateLimit:   config.GetFloat64(keyGeocodingRateLimit),
	})

	switch provider := config.GetString(keyGeocoder); provider {
	case "", "nominatim":
		endpoint := config.GetString(keyGeocodingAPIURL)
		log.Printf("📍 Geocoding: Nominatim (%s)", endpoint)

		return geocoding.NewNominatimGeocoder(endpoint, client), nil
	case "google":
		apiKey := config.GetString(keyGoogleMapsAPIKey)
		if apiKey == "" {
			log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

			var err error

			apiKey, err = geocoding.APIKeyFromADC(ctx, config.GetString(keyGoogleProject), "")
			if err != nil {
				return nil, fmt.Errorf("retrieving Google Maps API key via ADC: %w", err)
			}

			log.Println("✅ Successfully retrieved Google Maps API Key via ADC")
		}

		log.Println("📍 Geocoding: Google Maps")

		return geocoding.NewGoogleMapsGeocoder(apiKey, geocoding.WithGoogleMapsHTTPClient(client)), nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q", provider)
	}
}

// newStore builds the configured alerts store. The returned function releases
// its resources.
func newStore() (alerts.Store, func() error, error) {
	noop := func() error { return nil }

	switch kind := config.GetString(keyStore); kind {
	case "", "supabase":
		store, err := alerts.NewSupabaseStore(alerts.SupabaseOptions{
			URL:         config.GetString(keySupabaseURL),
			APIKey:      config.GetString(keySupabaseAnonKey),
			UserAgent:   userAgent(),
			TraceWriter: traceWriter(),
			TraceBody:   config.GetBool(keyHTTPBodyTrace),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configuring supabase: %w", err)
		}

		log.Printf("🗄️  Store: Supabase (%s)", config.GetString(keySupabaseURL))

		return store, noop, nil
	case "duckdb":
		dbpath := config.GetString(keyDuckDBPath)

		db, err := sql.Open("duckdb", dbpath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}

		store := alerts.NewDuckDBStore(db)
		if err := store.CreateSchema(); err != nil {
			return nil, nil, errors.Join(err, db.Close())
		}

		log.Printf("🗄️  Store: DuckDB (%s)", dbpath)

		return store, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", kind)
	}
}

func init() {
	rootCmd.PersistentFlags().String(keyEnvFile, ".env", "dotenv file loaded before reading the environment")
}
