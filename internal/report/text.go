package report

import (
	"fmt"
	"io"

	"github.com/johnsonjh/isntpsynced/internal/check"
	"github.com/johnsonjh/isntpsynced/internal/clock"
	"github.com/johnsonjh/isntpsynced/internal/daemon"
)

const (
	msgSynchronized    = "The system clock is synchronized with an NTP server."
	msgNotSynchronized = "The system clock is NOT synchronized with an NTP server."
	msgProbablyUnsync  = "The time is probably synchronized despite UNSYNC flag."
	msgProbablyNotOK   = "The time is probably synchronized despite the lack of TIME_OK status."
	msgUnsupported     = "Unsupported operating system."
)

// TextRenderer prints the human-readable report. Positive findings go to
// Out, negative ones to Err.
type TextRenderer struct {
	Out io.Writer
	Err io.Writer
}

// lineWriter keeps the first write error and drops everything after it
type lineWriter struct {
	err error
}

func (lw *lineWriter) println(w io.Writer, format string, args ...interface{}) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(w, format+"\n", args...)
}

// Render implements Renderer
func (t *TextRenderer) Render(r *check.Result) error {
	lw := &lineWriter{}

	if r.State != nil {
		lw.println(t.Out, "Max error: %d seconds", r.State.MaxErrorSeconds())
		lw.println(t.Out, "Estimated error: %d seconds", r.State.EstErrorSeconds())
	}

	switch r.Verdict {
	case clock.Synchronized:
		lw.println(t.Out, "%s", msgSynchronized)
	case clock.ProbablySynchronized:
		lw.println(t.Out, "%s", probablyMessage(r.State))
	case clock.NotSynchronized:
		lw.println(t.Err, "%s", msgNotSynchronized)
	default:
		if r.Unsupported() {
			lw.println(t.Err, "%s", msgUnsupported)
		} else if r.Err != nil {
			lw.println(t.Err, "%s", r.Err.Error())
		}
		lw.println(t.Err, "%s", msgNotSynchronized)
	}

	if r.DaemonChecked {
		if r.Daemon == daemon.None {
			lw.println(t.Err, "%s", r.Daemon.RunningMessage())
		} else {
			lw.println(t.Out, "%s", r.Daemon.RunningMessage())
		}
	}

	if r.ReferenceServer != "" {
		if r.ReferenceErr != nil {
			lw.println(t.Err, "Reference offset (%s) unavailable: %v", r.ReferenceServer, r.ReferenceErr)
		} else if r.Reference != nil {
			lw.println(t.Out, "Reference offset (%s): %+.6fs", r.ReferenceServer, r.Reference.Offset.Seconds())
		}
	}

	return lw.err
}

// probablyMessage names the indicator the kernel failed to confirm:
// the status return code on the BSDs, the UNSYNC bit elsewhere
func probablyMessage(state *clock.TimeKernelState) string {
	if state != nil && state.Family == clock.FamilyBSD {
		return msgProbablyNotOK
	}
	return msgProbablyUnsync
}
