package workspace

import "github.com/tordrt/fdnorm/internal/fd"

// EventKind identifies a workspace state change
type EventKind int

const (
	EventProposed EventKind = iota + 1
	EventWithdrawn
	EventNormalized
	EventCommitted
	EventDiscarded
)

func (k EventKind) String() string {
	switch k {
	case EventProposed:
		return "proposed"
	case EventWithdrawn:
		return "withdrawn"
	case EventNormalized:
		return "normalized"
	case EventCommitted:
		return "committed"
	case EventDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Event reports a state change of a workspace. NormalForm is the
// classification of the preview after the change, zero if it could not be
// computed or the relation is wider than the attribute limit.
type Event struct {
	Kind       EventKind
	Session    string
	Relation   string
	NormalForm fd.NormalForm
}
