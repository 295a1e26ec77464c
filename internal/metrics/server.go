// Package metrics configures the optional debug listener: prometheus metrics
// backed by an OpenTelemetry meter, plus pprof. The listener is off unless an
// address is configured; the Recorder still works (as a no-op) without it.
package metrics

import (
	"context"
	"dropwatch/pkg/controller"
	"dropwatch/pkg/logger"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap/exp/zapslog"
)

// DefaultPath is where prometheus metrics are served when no path is configured.
const DefaultPath = "/metrics"

const readHeaderTimeout = 10 * time.Second

// Options holds configuration for the debug listener.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. "127.0.0.1:9090".
	Addr string
	// Path is the HTTP path at which prometheus metrics are served.
	Path string
}

// NewServer wires up and returns the debug HTTP server together with the
// Recorder that feeds it. It sets up:
// - Prometheus metrics endpoint (Path)
// - OpenTelemetry metrics exporter (Prometheus)
// - pprof endpoints for profiling
// The mux is wrapped with the access-logging middleware.
func NewServer(ctx context.Context, opts Options) (*http.Server, *Recorder, error) {
	mux := http.NewServeMux()

	// prometheus metrics endpoint
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	mux.Handle(path, promhttp.Handler())

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	rec, err := NewRecorder(mp)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create recorder: %w", err)
	}

	// pprof
	mux.Handle("/debug/pprof/", controller.PprofMux())

	// logger
	handler := controller.WithLogger(mux)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog: slog.NewLogLogger(
			zapslog.NewHandler(logger.Get(ctx).Core()), slog.LevelError),
	}, rec, nil
}
