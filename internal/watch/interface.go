package watch

import (
	"context"
	"dropwatch/pkg/domain"
	"time"
)

// Action is the operator's choice at the grace escalation prompt.
type Action string

const (
	// ActionContinue keeps polling on the cool-down schedule.
	ActionContinue Action = "CONTINUE"
	// ActionQuit ends the run cleanly without a match.
	ActionQuit Action = "QUIT"
	// ActionCustomInterval keeps polling at a fixed operator-chosen interval.
	ActionCustomInterval Action = "CUSTOM_INTERVAL"
)

// Decision is the resolved outcome of the grace escalation prompt. Interval
// is the chosen polling interval in seconds and is only meaningful when
// Action is ActionCustomInterval.
type Decision struct {
	Action   Action
	Interval int64
}

//go:generate mockgen -package mockwatch -source=interface.go -destination=mock/mockwatch.go *

// Decider resolves the grace escalation: when a run is this far past its
// target without a drop, it decides whether to keep going, stop, or switch
// to a custom interval. Called at most once per run.
type Decider interface {
	Decide(ctx context.Context, domainName string, sinceTarget time.Duration) (Decision, error)
}

// Notifier dispatches watch events to the operator.
type Notifier interface {
	Notify(ctx context.Context, ev domain.Event)
	Flush(ctx context.Context)
}
