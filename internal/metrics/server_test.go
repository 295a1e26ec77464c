package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dropwatch/internal/metrics"
	"dropwatch/pkg/domain"
	"dropwatch/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// The exporter registers on the process-global prometheus registry, so the
// server is built once and every scrape assertion lives here.
func TestNewServer_ServesRecordedMetrics(t *testing.T) {
	ctx := context.Background()

	srv, rec, err := metrics.NewServer(ctx, metrics.Options{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec.Cycle(ctx, domain.PhaseGrace)
	rec.Cycle(ctx, domain.PhaseGrace)
	rec.Lookup(ctx, metrics.OutcomeNoMatch, 120*time.Millisecond)
	rec.Notification(ctx, "smtp", true)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, metrics.DefaultPath, nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "dropwatch_cycles_total")
	require.Contains(t, body, `phase="GRACE"`)
	require.Contains(t, body, "dropwatch_lookups_total")
	require.Contains(t, body, `outcome="no_match"`)
	require.Contains(t, body, "dropwatch_lookup_duration_seconds")
	require.Contains(t, body, "dropwatch_notifications_total")
	require.Contains(t, body, `backend="smtp"`)

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "goroutine")
}

func TestNewRecorder_NilProviderIsNoop(t *testing.T) {
	rec, err := metrics.NewRecorder(nil)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestRecorder_NilReceiverIsSafe(t *testing.T) {
	ctx := context.Background()

	var rec *metrics.Recorder
	require.NotPanics(t, func() {
		rec.Cycle(ctx, domain.PhaseCool)
		rec.Lookup(ctx, metrics.OutcomeError, time.Second)
		rec.Notification(ctx, "sendmail", false)
	})
}
