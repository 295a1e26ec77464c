// Package watch runs the polling loop for one domain: a lookup per cycle,
// phase-scheduled waits between cycles, and a single escalation point when
// the drop window passes without the domain coming free.
package watch

import (
	"context"
	"dropwatch/internal/metrics"
	"dropwatch/internal/phase"
	"dropwatch/pkg/domain"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"
	"dropwatch/pkg/whois"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configure the presentation side of a run.
type Options struct {
	// CountdownTick is how often the between-cycle countdown redraws.
	// Zero means one second.
	CountdownTick time.Duration
	// JSON switches the run output to one JSON object per event.
	JSON bool
	// Out is where run progress is written, normally stdout.
	Out io.Writer
}

// Deps are the collaborators a run needs. Recorder may be nil.
type Deps struct {
	Client   whois.Client
	Decider  Decider
	Notifier Notifier
	Recorder *metrics.Recorder
}

// pollState is the mutable per-run state. It is owned by the single Run
// goroutine; the alert flags flip false to true at most once per run.
type pollState struct {
	checks           uint
	targetAlerted    bool
	graceAlerted     bool
	intervalOverride int64
}

// Watcher drives the cycle loop for a single domain until a terminal state:
// the domain comes free (success), the check limit is hit or the operator
// quits (not found), the lookup service rate-limits us (fatal), or the run
// is interrupted.
type Watcher struct {
	target  domain.Target
	server  string
	matcher whois.Matcher
	deps    Deps
	opts    Options

	render *renderer
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error

	state pollState
}

// Option adjusts a Watcher beyond its Options.
type Option func(*Watcher)

// WithNow replaces the clock, useful for tests.
func WithNow(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

// WithSleep replaces the between-cycle countdown wait, useful for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Watcher) { w.sleep = sleep }
}

// New builds a Watcher for target against the given registry entry. The
// availability pattern is compiled here so a bad pattern fails the run
// before the first lookup; target.PatternOverride, when set, supersedes the
// entry's pattern.
func New(target domain.Target, entry domain.TLDEntry, deps Deps, opts Options, extra ...Option) (*Watcher, error) {
	pattern := entry.Pattern
	if target.PatternOverride != "" {
		pattern = target.PatternOverride
	}

	matcher, err := whois.NewMatcher(pattern)
	if err != nil {
		return nil, fmt.Errorf("could not compile availability pattern: %w", err)
	}

	if opts.CountdownTick <= 0 {
		opts.CountdownTick = time.Second
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	w := &Watcher{
		target:  target,
		server:  entry.Server,
		matcher: matcher,
		deps:    deps,
		opts:    opts,
		render:  newRenderer(opts.Out, opts.JSON),
		now:     time.Now,
	}
	w.sleep = w.countdown

	for _, opt := range extra {
		opt(w)
	}

	return w, nil
}

// Run executes cycles until a terminal state. It returns nil when the domain
// appears available; other terminals are reported through semantic kinds:
// ErrNotFound (check limit reached or operator quit), ErrRateLimited, and
// ErrInterrupted.
func (w *Watcher) Run(ctx context.Context) error {
	ctx = logger.WithFields(ctx,
		zap.String("runID", uuid.New().String()),
		zap.String("domain", w.target.Domain))

	logger.Info(ctx, "starting watch",
		zap.String("server", w.server),
		zap.String("pattern", w.matcher.Pattern()),
		zap.Int64("baseInterval", w.target.BaseInterval),
		zap.Uint("maxChecks", w.target.MaxChecks))

	for {
		done, err := w.cycle(ctx)
		if done || err != nil {
			return err
		}
	}
}

// cycle runs one check. It reports done on terminal success; a terminal
// failure comes back as an error carrying its semantic kind.
func (w *Watcher) cycle(ctx context.Context) (bool, error) {
	res, err := phase.Calculate(w.target.BaseInterval, w.target.TargetEpoch, w.now().Unix())
	if err != nil {
		return false, fmt.Errorf("could not compute phase: %w", err)
	}
	w.deps.Recorder.Cycle(ctx, res.Phase)

	outcome, qerr := w.query(ctx)
	if qerr != nil {
		if ctx.Err() != nil {
			return false, serrors.Wrap(serrors.ErrInterrupted, ctx.Err(), "watch interrupted")
		}
		// This cycle counts as "no match"; the next one retries.
		logger.Warn(ctx, "lookup failed, retrying next cycle", zap.Error(qerr))
	}

	switch outcome {
	case metrics.OutcomeRateLimited:
		w.render.rateLimited(w.now(), w.target.Domain)

		return false, serrors.With(serrors.ErrRateLimited, "lookup service is rate limiting queries")
	case metrics.OutcomeMatch:
		w.state.checks++
		w.render.available(w.now(), w.target.Domain, w.state.checks)
		w.deps.Notifier.Notify(ctx, domain.Event{
			Kind:    domain.EventSuccess,
			Domain:  w.target.Domain,
			Details: fmt.Sprintf("Matched availability pattern %q.", w.matcher.Pattern()),
		})
		w.deps.Notifier.Flush(ctx)
		logger.Info(ctx, "domain appears available", zap.Uint("checks", w.state.checks))

		return true, nil
	}

	if err := w.evaluateTriggers(ctx); err != nil {
		return false, err
	}

	w.state.checks++
	if w.target.MaxChecks > 0 && w.state.checks >= w.target.MaxChecks {
		w.render.limitReached(w.now(), w.target.Domain, w.state.checks)

		return false, serrors.With(serrors.ErrNotFound, "check limit reached without a match")
	}

	wait := res.Interval
	if w.state.intervalOverride > 0 {
		wait = time.Duration(w.state.intervalOverride) * time.Second
	}

	w.render.cycle(w.now(), w.target.Domain, w.state.checks, res.Phase, wait)
	logger.Debug(ctx, "cycle complete",
		zap.String("phase", string(res.Phase)),
		zap.Duration("nextInterval", wait),
		zap.Uint("checks", w.state.checks))

	if err := w.sleep(ctx, wait); err != nil {
		return false, serrors.Wrap(serrors.ErrInterrupted, err, "watch interrupted")
	}

	return false, nil
}

// query performs one lookup, classifies the response and records the outcome.
func (w *Watcher) query(ctx context.Context) (string, error) {
	start := w.now()
	raw, err := w.deps.Client.Query(ctx, w.target.Domain, w.server)
	elapsed := w.now().Sub(start)

	var outcome string
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case whois.RateLimited(raw):
		// Screened before availability so a throttle page can never read as
		// an available domain.
		outcome = metrics.OutcomeRateLimited
	case w.matcher.Available(raw):
		outcome = metrics.OutcomeMatch
	default:
		outcome = metrics.OutcomeNoMatch
	}
	w.deps.Recorder.Lookup(ctx, outcome, elapsed)

	return outcome, err
}

// evaluateTriggers fires the once-per-run target and grace alerts. The error
// return is terminal for the run; ActionQuit surfaces as ErrNotFound.
func (w *Watcher) evaluateTriggers(ctx context.Context) error {
	if w.target.TargetEpoch == nil {
		return nil
	}

	now := w.now().Unix()
	target := *w.target.TargetEpoch

	if !w.state.targetAlerted && now >= target {
		w.state.targetAlerted = true
		w.render.targetReached(w.now(), w.target.Domain)
		w.deps.Notifier.Notify(ctx, domain.Event{Kind: domain.EventTargetReached, Domain: w.target.Domain})
		logger.Info(ctx, "target time crossed, entering grace window")
	}

	graceStart, _ := w.target.GraceStartEpoch()
	if w.state.graceAlerted || now <= graceStart {
		return nil
	}

	w.state.graceAlerted = true
	sinceTarget := time.Duration(now-target) * time.Second
	w.render.graceEntered(w.now(), w.target.Domain, sinceTarget)
	w.deps.Notifier.Notify(ctx, domain.Event{
		Kind:    domain.EventGraceEntered,
		Domain:  w.target.Domain,
		Details: fmt.Sprintf("No drop seen %s past the target time.", sinceTarget.Round(time.Second)),
	})

	decision, err := w.deps.Decider.Decide(ctx, w.target.Domain, sinceTarget)
	if err != nil {
		if errors.Is(err, serrors.ErrInterrupted) {
			return err
		}
		logger.Warn(ctx, "could not resolve grace prompt, continuing", zap.Error(err))

		return nil
	}

	switch decision.Action {
	case ActionQuit:
		w.render.declined(w.now(), w.target.Domain)

		return serrors.With(serrors.ErrNotFound, "stopped at operator request")
	case ActionCustomInterval:
		w.state.intervalOverride = decision.Interval
		logger.Info(ctx, "switching to custom interval", zap.Int64("intervalSeconds", decision.Interval))
	case ActionContinue:
	}

	return nil
}

// countdown waits out the interval, redrawing the remaining time every tick.
func (w *Watcher) countdown(ctx context.Context, d time.Duration) error {
	deadline := w.now().Add(d)

	ticker := time.NewTicker(w.opts.CountdownTick)
	defer ticker.Stop()
	defer w.render.endCountdown()

	w.render.countdown(d)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			remaining := deadline.Sub(w.now())
			if remaining <= 0 {
				return nil
			}
			w.render.countdown(remaining)
		}
	}
}
