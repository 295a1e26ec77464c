package domain

// GraceWindowSeconds is the length of the grace window that follows the
// target time. Registries rarely release a name at the announced instant;
// the window covers the usual delay before escalating to the operator.
const GraceWindowSeconds int64 = 10800

// Target describes a single domain watch: which name to poll, how often,
// and (optionally) when the name is expected to drop. A Target is immutable
// for the lifetime of a run; all mutable polling state lives in the watcher.
type Target struct {
	// Domain is the fully qualified name being watched, e.g. "example.io".
	Domain string `json:"domain"`

	// BaseInterval is the polling interval in seconds used while no target
	// time is near. Must be positive.
	BaseInterval int64 `json:"baseInterval"`

	// TargetEpoch is the expected drop time as a unix timestamp, or nil when
	// the drop time is unknown.
	TargetEpoch *int64 `json:"targetEpoch,omitempty"`

	// MaxChecks bounds the number of polling cycles; zero means unlimited.
	MaxChecks uint `json:"maxChecks,omitempty"`

	// PatternOverride replaces the registry availability pattern for this run
	// when non-empty.
	PatternOverride string `json:"-"`
}

// GraceStartEpoch returns the unix timestamp at which the grace window is
// exhausted: the name has not dropped, polling cools down and the operator is
// consulted once. The second return is false when no target time is set.
func (t Target) GraceStartEpoch() (int64, bool) {
	if t.TargetEpoch == nil {
		return 0, false
	}

	return *t.TargetEpoch + GraceWindowSeconds, true
}
