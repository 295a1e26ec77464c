// Package main provides the dropwatch CLI entrypoint.
// It wires subcommands (watch, check, tld), loads configuration, and
// initializes logging.
package main

import (
	"context"
	"dropwatch/internal/config"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois"
	"dropwatch/pkg/whois/whoisexec"
	"dropwatch/pkg/whois/whoisnet"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit statuses, mapped from the semantic kind of the command error.
const (
	exitNotFound          = 1
	exitInvalidInput      = 2
	exitDependencyMissing = 3
	exitUnparseableTime   = 4
	exitInterrupted       = 130
)

// exitCode maps a command error to the process exit status. Unclassified
// errors count as the generic failure status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, serrors.ErrInterrupted):
		return exitInterrupted
	case errors.Is(err, serrors.ErrParse):
		return exitUnparseableTime
	case errors.Is(err, serrors.ErrDependencyMissing):
		return exitDependencyMissing
	case errors.Is(err, serrors.ErrValidation), errors.Is(err, serrors.ErrAlreadyExists):
		return exitInvalidInput
	default:
		return exitNotFound
	}
}

// newLookupClient builds the whois client selected by the configuration.
func newLookupClient(cfg *config.Config) (whois.Client, error) {
	switch cfg.Lookup.Client {
	case "net":
		return whoisnet.New(cfg.Lookup.Timeout), nil
	case "system", "":
		client, err := whoisexec.New(cfg.Lookup.Binary, cfg.Lookup.Timeout)
		if err != nil {
			return nil, fmt.Errorf("could not create lookup client: %w", err)
		}

		return client, nil
	default:
		return nil, serrors.With(serrors.ErrValidation,
			"unknown lookup client %q, want system or net", cfg.Lookup.Client)
	}
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:          "dropwatch",
		Short:        "Watches a domain's whois until it drops",
		SilenceUsage: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		watchCommand(cfg),
		checkCommand(cfg),
		tldCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(exitCode(err)) //nolint: gocritic
	}
}
