package poller

// State is the poll loop's position within a cycle.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateEvaluating
	StateNotifying
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateEvaluating:
		return "evaluating"
	case StateNotifying:
		return "notifying"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}
