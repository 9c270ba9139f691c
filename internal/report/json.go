package report

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/johnsonjh/isntpsynced/internal/check"
	"github.com/johnsonjh/isntpsynced/internal/clock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONRenderer prints the result as a single JSON object
type JSONRenderer struct {
	Out io.Writer
}

type document struct {
	Verdict   string        `json:"verdict"`
	Error     string        `json:"error,omitempty"`
	Kernel    *kernelDoc    `json:"kernel,omitempty"`
	Daemon    *daemonDoc    `json:"daemon,omitempty"`
	Reference *referenceDoc `json:"reference,omitempty"`
}

type kernelDoc struct {
	Family          string `json:"family"`
	Synchronized    bool   `json:"synchronized"`
	State           string `json:"state"`
	StateCode       int    `json:"state_code"`
	Status          string `json:"status"`
	StatusWord      int32  `json:"status_word"`
	LeapPending     bool   `json:"leap_pending"`
	MaxErrorSeconds int64  `json:"max_error_seconds"`
	EstErrorSeconds int64  `json:"est_error_seconds"`
	MaxErrorMicros  int64  `json:"max_error_us"`
	EstErrorMicros  int64  `json:"est_error_us"`
}

type daemonDoc struct {
	Running string `json:"running"`
}

type referenceDoc struct {
	Server        string  `json:"server"`
	OffsetSeconds float64 `json:"offset_seconds,omitempty"`
	RTTSeconds    float64 `json:"rtt_seconds,omitempty"`
	Stratum       uint8   `json:"stratum,omitempty"`
	Samples       int     `json:"samples"`
	Error         string  `json:"error,omitempty"`
}

// Render implements Renderer
func (j *JSONRenderer) Render(r *check.Result) error {
	enc := json.NewEncoder(j.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(r))
}

func newDocument(r *check.Result) *document {
	doc := &document{Verdict: r.Verdict.String()}

	if r.Err != nil {
		doc.Error = r.Err.Error()
	}

	if s := r.State; s != nil {
		doc.Kernel = &kernelDoc{
			Family:          s.Family.String(),
			Synchronized:    s.Synchronized,
			State:           clock.StateString(s.State),
			StateCode:       s.State,
			Status:          s.Status.String(),
			StatusWord:      int32(s.Status),
			LeapPending:     s.HasLeapSecond(),
			MaxErrorSeconds: s.MaxErrorSeconds(),
			EstErrorSeconds: s.EstErrorSeconds(),
			MaxErrorMicros:  s.MaxError.Microseconds(),
			EstErrorMicros:  s.EstError.Microseconds(),
		}
	}

	if r.DaemonChecked {
		doc.Daemon = &daemonDoc{Running: r.Daemon.String()}
	}

	if r.ReferenceServer != "" {
		ref := &referenceDoc{Server: r.ReferenceServer}
		if r.ReferenceErr != nil {
			ref.Error = r.ReferenceErr.Error()
		} else if r.Reference != nil {
			ref.OffsetSeconds = r.Reference.Offset.Seconds()
			ref.RTTSeconds = r.Reference.RTT.Seconds()
			ref.Stratum = r.Reference.Stratum
			ref.Samples = r.Reference.Samples
		}
		doc.Reference = ref
	}

	return doc
}
