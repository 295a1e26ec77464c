// Package notify dispatches watch events to the operator as mail, trying a
// chain of delivery backends in priority order. Dispatch is best-effort: a
// failed notification is logged and never terminates a run.
package notify

import (
	"context"
	"dropwatch/internal/metrics"
	"dropwatch/pkg/domain"
	"dropwatch/pkg/logger"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSendTimeout bounds a single delivery attempt across the whole
// backend chain.
const DefaultSendTimeout = 30 * time.Second

// Config is the mail configuration. Dispatch is enabled only when every
// field is set; a partial subset is treated as "not configured", not as an
// error.
type Config struct {
	To       string
	From     string
	Host     string
	Port     int
	Username string
	Password string
}

// Enabled reports whether all six fields are present.
func (c Config) Enabled() bool {
	return c.To != "" && c.From != "" && c.Host != "" && c.Port != 0 &&
		c.Username != "" && c.Password != ""
}

// Sender delivers one rendered message through a single backend.
//
//go:generate mockgen -package mocknotify -source=notify.go -destination=mock/mocknotify.go *
type Sender interface {
	// Name identifies the backend in logs.
	Name() string
	// Send delivers the message or reports why it could not. A missing
	// backend tool is an error like any other; the dispatcher falls through.
	Send(ctx context.Context, cfg Config, subject string, body string) error
}

// Dispatcher fans watch events out to the first backend that accepts them.
// Delivery happens on a background goroutine so the polling loop never
// blocks on mail servers.
type Dispatcher struct {
	cfg     Config
	senders []Sender
	timeout time.Duration
	rec     *metrics.Recorder

	wg sync.WaitGroup
}

// New builds a Dispatcher over the default backend chain: direct SMTP first,
// then the sendmail and mailx system tools. rec may be nil.
func New(cfg Config, rec *metrics.Recorder) *Dispatcher {
	d := NewWithSenders(cfg, []Sender{SMTP{}, Sendmail{}, Mailx{}})
	d.rec = rec

	return d
}

// NewWithSenders builds a Dispatcher over an explicit backend chain, tried
// in the given order.
func NewWithSenders(cfg Config, senders []Sender) *Dispatcher {
	return &Dispatcher{cfg: cfg, senders: senders, timeout: DefaultSendTimeout}
}

// Notify dispatches ev in the background. It returns immediately and never
// reports an error; delivery failures are logged.
func (d *Dispatcher) Notify(ctx context.Context, ev domain.Event) {
	if !d.cfg.Enabled() {
		logger.Debug(ctx, "notifications not configured, skipping event",
			zap.String("kind", string(ev.Kind)), zap.String("domain", ev.Domain))

		return
	}

	subject, body := render(ev)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		// The run context may end right after a match; delivery still gets
		// its own bounded window.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		d.send(sendCtx, ev, subject, body)
	}()
}

// Flush blocks until in-flight deliveries finish or ctx ends. Call it before
// process exit so a success mail is not lost to a fast shutdown.
func (d *Dispatcher) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(ctx, "gave up waiting for in-flight notifications", zap.Error(ctx.Err()))
	}
}

func (d *Dispatcher) send(ctx context.Context, ev domain.Event, subject string, body string) {
	for _, s := range d.senders {
		err := s.Send(ctx, d.cfg, subject, body)
		d.rec.Notification(ctx, s.Name(), err == nil)
		if err == nil {
			logger.Info(ctx, "notification sent",
				zap.String("backend", s.Name()),
				zap.String("kind", string(ev.Kind)),
				zap.String("domain", ev.Domain))

			return
		}
		logger.Debug(ctx, "notification backend failed, falling through",
			zap.String("backend", s.Name()), zap.Error(err))
	}

	logger.Warn(ctx, "all notification backends failed",
		zap.String("kind", string(ev.Kind)), zap.String("domain", ev.Domain))
}

// render maps an event to its fixed subject and body.
func render(ev domain.Event) (string, string) {
	var subject, body string
	switch ev.Kind {
	case domain.EventSuccess:
		subject = fmt.Sprintf("dropwatch: %s appears AVAILABLE", ev.Domain)
		body = fmt.Sprintf("The domain %s appears to be available for registration.", ev.Domain)
	case domain.EventTargetReached:
		subject = fmt.Sprintf("dropwatch: %s target time crossed", ev.Domain)
		body = fmt.Sprintf("The target time for %s has been crossed; the watcher entered the grace window.", ev.Domain)
	case domain.EventGraceEntered:
		subject = fmt.Sprintf("dropwatch: %s grace window exceeded", ev.Domain)
		body = fmt.Sprintf("The grace window for %s passed without a drop; polling is cooling down.", ev.Domain)
	default:
		subject = fmt.Sprintf("dropwatch: %s", ev.Domain)
		body = string(ev.Kind)
	}
	if ev.Details != "" {
		body += "\n\n" + ev.Details
	}

	return subject, body
}
