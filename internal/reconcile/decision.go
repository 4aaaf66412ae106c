package reconcile

import "showstub/internal/sonarr"

// Decision is the per-show classification computed fresh every pass. Nothing
// about a prior pass is consulted; the filesystem and the media server are
// reconciled toward whatever is decided now.
type Decision int

const (
	// DecisionFilteredOut marks shows outside the working set: unmonitored,
	// or carrying a lifecycle status the pass does not act on.
	DecisionFilteredOut Decision = iota
	// DecisionEnded marks finished shows whose stubs get cleaned up.
	DecisionEnded
	// DecisionHasRealMedia marks shows with at least one real episode on
	// disk. Any leftover stub is removed and no overlay entry is made.
	DecisionHasRealMedia
	// DecisionNeedsStub marks monitored shows awaiting their first episode.
	// These get a stub, a media-server sync, and an overlay entry.
	DecisionNeedsStub
)

func (d Decision) String() string {
	switch d {
	case DecisionFilteredOut:
		return "filtered-out"
	case DecisionEnded:
		return "ended"
	case DecisionHasRealMedia:
		return "has-real-media"
	case DecisionNeedsStub:
		return "needs-stub"
	default:
		return "unknown"
	}
}

// Classify maps one show onto a decision. Unmonitored shows are filtered
// before the ended check, so disabling monitoring always withdraws a show
// from management without triggering cleanup.
func Classify(show sonarr.Show, hasRealMedia bool) Decision {
	if !show.Monitored {
		return DecisionFilteredOut
	}
	if show.Ended() {
		return DecisionEnded
	}
	if !show.Active() {
		return DecisionFilteredOut
	}
	if hasRealMedia {
		return DecisionHasRealMedia
	}
	return DecisionNeedsStub
}
