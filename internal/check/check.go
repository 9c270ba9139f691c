// Package check runs one clock synchronization check: the kernel verdict,
// the gated sync daemon lookup and the optional reference probe.
package check

import (
	"context"
	"errors"

	"github.com/johnsonjh/isntpsynced/internal/clock"
	"github.com/johnsonjh/isntpsynced/internal/daemon"
	"github.com/johnsonjh/isntpsynced/internal/reference"
	"github.com/johnsonjh/isntpsynced/pkg/logger"
)

// DaemonFinder reports the running sync daemon
type DaemonFinder interface {
	Find() daemon.Name
}

// OffsetProber measures the host offset against a reference server
type OffsetProber interface {
	Probe(ctx context.Context) (*reference.Offset, error)
	Server() string
}

// Checker wires the parts of a check together. Identifier and Reference
// are optional; a nil Identifier skips the daemon lookup entirely.
type Checker struct {
	Querier    clock.Querier
	Identifier DaemonFinder
	Reference  OffsetProber
}

// Result is the outcome of one Run
type Result struct {
	Verdict clock.Verdict
	State   *clock.TimeKernelState // nil when the kernel query failed
	Err     error                  // kernel query error, if any

	Daemon        daemon.Name
	DaemonChecked bool

	Reference       *reference.Offset
	ReferenceServer string
	ReferenceErr    error
}

// Run performs the check. The kernel is queried exactly once and the
// process table is scanned only when the verdict calls for it.
func (c *Checker) Run(ctx context.Context) *Result {
	verdict, state, err := clock.Classify(c.Querier)

	result := &Result{
		Verdict: verdict,
		State:   state,
		Err:     err,
	}

	if verdict.NeedsDaemonLookup() && c.Identifier != nil {
		result.Daemon = c.Identifier.Find()
		result.DaemonChecked = true
	}

	if c.Reference != nil {
		result.ReferenceServer = c.Reference.Server()
		result.Reference, result.ReferenceErr = c.Reference.Probe(ctx)
		if result.ReferenceErr != nil {
			logger.SafeDebug("check", "Reference probe failed", map[string]interface{}{
				"server": result.ReferenceServer,
				"error":  result.ReferenceErr.Error(),
			})
		}
	}

	logger.SafeInfo("check", "Clock check completed", map[string]interface{}{
		"verdict":        verdict.String(),
		"daemon_checked": result.DaemonChecked,
		"daemon":         result.Daemon.String(),
	})

	return result
}

// Unsupported is true when the platform has no kernel time query
func (r *Result) Unsupported() bool {
	return errors.Is(r.Err, clock.ErrUnsupported)
}

// ExitCode maps the result to the process exit status. Only an OS-level
// query failure is nonzero; every verdict, including an unsupported
// platform, exits 0.
func (r *Result) ExitCode() int {
	if errors.Is(r.Err, clock.ErrQueryFailed) {
		return 1
	}
	return 0
}
