package main

import (
	"context"
	"dropwatch/internal/config"
	"dropwatch/internal/metrics"
	"dropwatch/internal/notify"
	"dropwatch/internal/registry"
	"dropwatch/internal/watch"
	"dropwatch/pkg/domain"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout bounds the cleanup work after the run ends: in-flight
// notifications and the metrics listener.
const shutdownTimeout = 10 * time.Second

// parseTarget reads the --target value: unix epoch seconds or RFC3339.
func parseTarget(value string) (*int64, error) {
	if value == "" {
		return nil, nil //nolint: nilnil
	}

	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &epoch, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrParse, err, "could not parse target time")
	}
	epoch := t.Unix()

	return &epoch, nil
}

// setupMetrics starts the debug listener when one is configured. It returns
// the recorder feeding it (nil when disabled) and a stop function.
func setupMetrics(ctx context.Context, cfg *config.Config) (*metrics.Recorder, func(ctx context.Context)) {
	if cfg.Metrics.Addr == "" {
		return nil, func(context.Context) {}
	}

	server, rec, err := metrics.NewServer(ctx, metrics.Options{
		Addr: cfg.Metrics.Addr,
		Path: cfg.Metrics.Path,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create metrics server", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting metrics server...", zap.String("addr", cfg.Metrics.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start metrics server", zap.Error(err))
			}
		}
	}()

	return rec, func(ctx context.Context) {
		logger.Info(ctx, "stopping metrics server...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop metrics server", zap.Error(err))
		}
	}
}

func watchCommand(cfg *config.Config) *cobra.Command {
	var (
		interval  int64
		targetStr string
		maxChecks uint
		pattern   string
		autoYes   bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "watch <domain>",
		Short: "Polls whois until the domain becomes available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			baseInterval := cfg.Watch.Interval
			if cmd.Flags().Changed("interval") {
				baseInterval = interval
			}

			targetEpoch, err := parseTarget(targetStr)
			if err != nil {
				return err
			}

			target := domain.Target{
				Domain:          args[0],
				BaseInterval:    baseInterval,
				TargetEpoch:     targetEpoch,
				MaxChecks:       maxChecks,
				PatternOverride: pattern,
			}

			return runWatch(ctx, cfg, target, autoYes, jsonOut)
		},
	}

	cmd.Flags().Int64Var(&interval, "interval", 0, "base polling interval in seconds (default from config)")
	cmd.Flags().StringVar(&targetStr, "target", "", "drop time as unix epoch seconds or RFC3339")
	cmd.Flags().UintVar(&maxChecks, "max-checks", 0, "stop after this many checks (0 = unlimited)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "availability regex overriding the registry entry")
	cmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "answer the grace prompt with continue")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit one JSON object per event instead of styled text")

	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, target domain.Target, autoYes bool, jsonOut bool) error {
	storePath, err := cfg.UserStorePath()
	if err != nil {
		return err
	}
	reg := registry.Load(ctx, storePath)

	entry, err := reg.Resolve(target.Domain)
	if err != nil {
		return err
	}

	client, err := newLookupClient(cfg)
	if err != nil {
		return err
	}

	rec, stopMetrics := setupMetrics(ctx, cfg)
	dispatcher := notify.New(notify.Config{
		To:       cfg.Notify.To,
		From:     cfg.Notify.From,
		Host:     cfg.Notify.Host,
		Port:     cfg.Notify.Port,
		Username: cfg.Notify.Username,
		Password: cfg.Notify.Password,
	}, rec)

	decider := watch.Decider(watch.NewPromptDecider(os.Stdin, os.Stdout))
	if autoYes {
		decider = watch.NewAutoDecider()
	}

	w, err := watch.New(target, entry,
		watch.Deps{Client: client, Decider: decider, Notifier: dispatcher, Recorder: rec},
		watch.Options{CountdownTick: cfg.Watch.CountdownTick, JSON: jsonOut, Out: os.Stdout})
	if err != nil {
		return err
	}

	runErr := w.Run(ctx)

	// the run context may already be canceled; cleanup gets its own window
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	dispatcher.Flush(shutdownCtx)
	stopMetrics(shutdownCtx)

	return runErr
}
