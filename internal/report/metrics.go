package report

import (
	"github.com/johnsonjh/isntpsynced/internal/check"
	"github.com/johnsonjh/isntpsynced/internal/clock"
	"github.com/johnsonjh/isntpsynced/internal/daemon"
	"github.com/johnsonjh/isntpsynced/pkg/metrics"
)

var allVerdicts = []string{
	clock.CheckFailed.String(),
	clock.NotSynchronized.String(),
	clock.ProbablySynchronized.String(),
	clock.Synchronized.String(),
}

// RecordMetrics copies a result into the clock metrics. Series for parts
// of the check that did not run are left unset.
func RecordMetrics(m *metrics.ClockMetrics, r *check.Result) {
	m.SetVerdict(r.Verdict.String(), allVerdicts)
	m.SetCheckSuccess(r.Err == nil)

	if s := r.State; s != nil {
		m.SetKernelState(
			s.Family.String(),
			s.Synchronized,
			s.MaxError.Seconds(),
			s.EstError.Seconds(),
			int32(s.Status),
			s.State,
		)
	}

	if r.DaemonChecked {
		known := daemon.Known()
		names := make([]string, 0, len(known))
		for _, n := range known {
			names = append(names, n.String())
		}
		m.SetDaemon(r.Daemon.String(), names)
	}

	if r.ReferenceServer != "" {
		up := r.ReferenceErr == nil && r.Reference != nil
		offset := 0.0
		if up {
			offset = r.Reference.Offset.Seconds()
		}
		m.SetReference(r.ReferenceServer, up, offset)
	}
}
