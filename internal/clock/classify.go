package clock

import (
	"errors"

	"github.com/johnsonjh/isntpsynced/pkg/logger"
)

// Verdict is the outcome of a clock check, ordered by confidence.
// CheckFailed carries no confidence information.
type Verdict int

const (
	CheckFailed Verdict = iota
	NotSynchronized
	ProbablySynchronized
	Synchronized
)

// tightBoundSeconds is the whole-second limit both error bounds must stay
// under for an unconfirmed clock to count as probably synchronized.
const tightBoundSeconds = 1

func (v Verdict) String() string {
	switch v {
	case NotSynchronized:
		return "not_synchronized"
	case ProbablySynchronized:
		return "probably_synchronized"
	case Synchronized:
		return "synchronized"
	default:
		return "check_failed"
	}
}

// Confident is false only for CheckFailed.
func (v Verdict) Confident() bool {
	return v != CheckFailed
}

// AtLeast compares confidence. CheckFailed is never at least anything,
// and nothing is at least CheckFailed.
func (v Verdict) AtLeast(other Verdict) bool {
	if !v.Confident() || !other.Confident() {
		return false
	}
	return v >= other
}

// NeedsDaemonLookup is true when the operator benefits from knowing which
// sync daemon, if any, is running.
func (v Verdict) NeedsDaemonLookup() bool {
	return v == NotSynchronized || v == CheckFailed
}

// Classify queries the kernel once and reduces the result to a Verdict.
// The returned state is nil when the query failed.
func Classify(q Querier) (Verdict, *TimeKernelState, error) {
	state, err := q.Query()
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			logger.SafeDebug("clock", "No kernel time query on this platform", map[string]interface{}{
				"family": q.Family().String(),
			})
		} else {
			logger.SafeDebug("clock", "Kernel time query failed", map[string]interface{}{
				"family": q.Family().String(),
				"error":  err.Error(),
			})
		}
		return CheckFailed, nil, err
	}

	verdict := ClassifyState(state)

	logger.SafeDebug("clock", "Kernel time state classified", map[string]interface{}{
		"family":       state.Family.String(),
		"state":        StateString(state.State),
		"status":       state.Status.String(),
		"max_error_us": state.MaxError.Microseconds(),
		"est_error_us": state.EstError.Microseconds(),
		"verdict":      verdict.String(),
	})

	return verdict, state, nil
}

// ClassifyState applies the decision procedure to an existing snapshot.
func ClassifyState(state *TimeKernelState) Verdict {
	if state.Synchronized {
		return Synchronized
	}

	// The kernel has not confirmed sync. Tight bounds on both errors still
	// indicate a converged clock whose status bit has not flipped yet.
	if state.MaxErrorSeconds() < tightBoundSeconds && state.EstErrorSeconds() < tightBoundSeconds {
		return ProbablySynchronized
	}

	return NotSynchronized
}
