package watch

import (
	"dropwatch/pkg/domain"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-faster/jx"
)

var (
	timeStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"})
	domainStyle     = lipgloss.NewStyle().Bold(true)
	registeredStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"})
	availableStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"})
	alertStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"})
	fatalStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"})

	phaseStyles = map[domain.Phase]lipgloss.Style{
		domain.PhasePre:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"}),
		domain.PhaseHeat:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}),
		domain.PhaseGrace: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}),
		domain.PhaseCool:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}),
	}
)

const countdownWidth = 32

// renderer writes run progress to the terminal, either as styled text or as
// a stream of JSON objects (one per event) for machine consumers.
type renderer struct {
	out  io.Writer
	json bool
}

func newRenderer(out io.Writer, json bool) *renderer {
	return &renderer{out: out, json: json}
}

// event writes one JSON event object. Every event carries its name and time;
// fields appends the event-specific rest.
func (r *renderer) event(name string, ts time.Time, fields func(e *jx.Encoder)) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("event")
	e.Str(name)
	e.FieldStart("time")
	e.Str(ts.UTC().Format(time.RFC3339))
	if fields != nil {
		fields(&e)
	}
	e.ObjEnd()

	fmt.Fprintf(r.out, "%s\n", e.Bytes())
}

func (r *renderer) cycle(ts time.Time, domainName string, check uint, ph domain.Phase, wait time.Duration) {
	if r.json {
		r.event("cycle", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
			e.FieldStart("check")
			e.UInt64(uint64(check))
			e.FieldStart("phase")
			e.Str(string(ph))
			e.FieldStart("available")
			e.Bool(false)
			e.FieldStart("next_interval_seconds")
			e.Int64(int64(wait / time.Second))
		})

		return
	}

	fmt.Fprintf(r.out, "%s check #%d %s %s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		check,
		domainStyle.Render(domainName),
		phaseStyles[ph].Render(string(ph)),
		registeredStyle.Render("still registered"))
}

func (r *renderer) available(ts time.Time, domainName string, check uint) {
	if r.json {
		r.event("available", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
			e.FieldStart("check")
			e.UInt64(uint64(check))
			e.FieldStart("available")
			e.Bool(true)
		})

		return
	}

	fmt.Fprintf(r.out, "%s %s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		domainStyle.Render(domainName),
		availableStyle.Render(fmt.Sprintf("appears AVAILABLE after %d check(s)", check)))
}

func (r *renderer) targetReached(ts time.Time, domainName string) {
	if r.json {
		r.event("target_reached", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
		})

		return
	}

	fmt.Fprintf(r.out, "%s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		alertStyle.Render("target time crossed, entering grace window"))
}

func (r *renderer) graceEntered(ts time.Time, domainName string, sinceTarget time.Duration) {
	if r.json {
		r.event("grace_entered", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
			e.FieldStart("since_target_seconds")
			e.Int64(int64(sinceTarget / time.Second))
		})

		return
	}

	fmt.Fprintf(r.out, "%s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		alertStyle.Render("grace window exceeded without a drop"))
}

func (r *renderer) limitReached(ts time.Time, domainName string, checks uint) {
	if r.json {
		r.event("limit_reached", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
			e.FieldStart("checks")
			e.UInt64(uint64(checks))
		})

		return
	}

	fmt.Fprintf(r.out, "%s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		registeredStyle.Render(fmt.Sprintf("check limit reached after %d check(s), still registered", checks)))
}

func (r *renderer) declined(ts time.Time, domainName string) {
	if r.json {
		r.event("declined", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
		})

		return
	}

	fmt.Fprintf(r.out, "%s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		registeredStyle.Render("stopping at operator request"))
}

func (r *renderer) rateLimited(ts time.Time, domainName string) {
	if r.json {
		r.event("rate_limited", ts, func(e *jx.Encoder) {
			e.FieldStart("domain")
			e.Str(domainName)
		})

		return
	}

	fmt.Fprintf(r.out, "%s %s\n",
		timeStyle.Render(ts.Format("15:04:05")),
		fatalStyle.Render("lookup service is rate limiting us, stopping"))
}

// countdown rewrites the current line with the time left until the next
// check. Suppressed in JSON mode to keep the stream one-object-per-line.
func (r *renderer) countdown(remaining time.Duration) {
	if r.json {
		return
	}

	fmt.Fprintf(r.out, "\r%s",
		timeStyle.Render(fmt.Sprintf("next check in %4ds", int(remaining/time.Second))))
}

func (r *renderer) endCountdown() {
	if r.json {
		return
	}

	fmt.Fprintf(r.out, "\r%s\r", strings.Repeat(" ", countdownWidth))
}
