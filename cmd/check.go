package main

import (
	"context"
	"dropwatch/internal/config"
	"dropwatch/internal/registry"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkAvailableStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"})
	checkRegisteredStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"})
	detailLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"})
)

func checkCommand(cfg *config.Config) *cobra.Command {
	var (
		pattern string
		details bool
	)

	cmd := &cobra.Command{
		Use:   "check <domain>",
		Short: "Performs a single availability check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runCheck(ctx, cfg, args[0], pattern, details)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "availability regex overriding the registry entry")
	cmd.Flags().BoolVar(&details, "details", false, "show registrar and expiry of a registered domain")

	return cmd
}

func runCheck(ctx context.Context, cfg *config.Config, domainName string, pattern string, details bool) error {
	storePath, err := cfg.UserStorePath()
	if err != nil {
		return err
	}
	reg := registry.Load(ctx, storePath)

	entry, err := reg.Resolve(domainName)
	if err != nil {
		return err
	}

	availabilityPattern := entry.Pattern
	if pattern != "" {
		availabilityPattern = pattern
	}
	matcher, err := whois.NewMatcher(availabilityPattern)
	if err != nil {
		return err
	}

	client, err := newLookupClient(cfg)
	if err != nil {
		return err
	}

	raw, err := client.Query(ctx, domainName, entry.Server)
	if err != nil {
		return fmt.Errorf("could not query %s: %w", entry.Server, err)
	}

	if whois.RateLimited(raw) {
		return serrors.With(serrors.ErrRateLimited, "lookup service is rate limiting queries")
	}

	if matcher.Available(raw) {
		fmt.Printf("%s %s\n", domainName, checkAvailableStyle.Render("appears AVAILABLE"))

		return nil
	}

	fmt.Printf("%s %s\n", domainName, checkRegisteredStyle.Render("appears registered"))
	if details {
		printDetails(ctx, raw)
	}

	return serrors.With(serrors.ErrNotFound, "domain appears registered")
}

// printDetails renders registrar and lifecycle data of a registered domain.
// Parse failures only lose the detail block, never the verdict.
func printDetails(ctx context.Context, raw string) {
	d, err := whois.ParseDetails(raw)
	if err != nil {
		logger.Warn(ctx, "could not parse whois response for details", zap.Error(err))

		return
	}

	row := func(label string, value string) {
		if value != "" {
			fmt.Printf("  %s %s\n", detailLabelStyle.Render(label+":"), value)
		}
	}

	row("registrar", d.Registrar)
	row("created", d.CreatedDate)
	row("updated", d.UpdatedDate)
	row("expires", d.ExpirationDate)
	row("name servers", strings.Join(d.NameServers, ", "))
	row("status", strings.Join(d.Statuses, ", "))
}
