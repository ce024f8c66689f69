package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// cliIdentity is the rate limit identity of one-shot lookups.
const cliIdentity = "cli"

func newValidateCmd() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "validate <address>",
		Short: "Validate an address and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, svc *service.GeolocationService) (any, error) {
				return svc.ValidateAddress(ctx, models.AddressRequest{Address: args[0], CountryCode: country}, cliIdentity)
			})
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "restrict results to an ISO 3166-1 country code")

	return cmd
}

func newCoordinatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coordinates <address>",
		Short: "Geocode an address and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, svc *service.GeolocationService) (any, error) {
				return svc.GetCoordinates(ctx, args[0], cliIdentity)
			})
		},
	}
}

func newNearbyCmd() *cobra.Command {
	var (
		radius    int
		placeType string
	)

	cmd := &cobra.Command{
		Use:   "nearby <address>",
		Short: "List places near an address and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, func(ctx context.Context, svc *service.GeolocationService) (any, error) {
				return svc.FindNearbyPlacesByAddress(ctx, args[0], radius, placeType, cliIdentity)
			})
		},
	}
	cmd.Flags().IntVar(&radius, "radius", service.DefaultRadius, "search radius in meters")
	cmd.Flags().StringVar(&placeType, "type", "", "restrict results to a place type, e.g. cafe")

	return cmd
}

// runLookup builds the service from configuration, runs one lookup and prints its result.
// The result is printed even when the lookup fails, so the message is visible.
func runLookup(
	cmd *cobra.Command,
	lookup func(ctx context.Context, svc *service.GeolocationService) (any, error),
) error {
	ctx := cmd.Context()
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	application, err := buildApp(ctx, cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer func() {
		if errClose := application.store.Close(); errClose != nil {
			logger.ErrorContext(ctx, "Failed to close cache store", "error", errClose)
		}
	}()

	result, err := lookup(ctx, application.service)
	if errPrint := printJSON(cmd.OutOrStdout(), result); errPrint != nil {
		return errPrint
	}
	if err != nil {
		logger.DebugContext(ctx, "Lookup failed", slog.String("error", err.Error()))
		return fmt.Errorf("lookup failed: %w", err)
	}

	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}

	return nil
}
