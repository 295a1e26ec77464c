package domain

// EventKind identifies the notification-worthy moments of a watch run.
type EventKind string

const (
	// EventSuccess indicates the watched domain appears available.
	EventSuccess EventKind = "SUCCESS"
	// EventTargetReached indicates the target time has been crossed and the
	// watcher entered the grace window.
	EventTargetReached EventKind = "TARGET_REACHED"
	// EventGraceEntered indicates the grace window passed without a drop and
	// the watcher moved to cooldown.
	EventGraceEntered EventKind = "GRACE_ENTERED"
)

// Event is a single notification payload. Events are constructed and
// dispatched within one polling cycle and never persisted.
type Event struct {
	Kind    EventKind `json:"kind"`
	Domain  string    `json:"domain"`
	Details string    `json:"details,omitempty"`
}
