package report

import (
	"bytes"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsonjh/isntpsynced/internal/check"
	"github.com/johnsonjh/isntpsynced/internal/clock"
	"github.com/johnsonjh/isntpsynced/internal/daemon"
	"github.com/johnsonjh/isntpsynced/internal/reference"
)

func renderText(t *testing.T, r *check.Result) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	require.NoError(t, (&TextRenderer{Out: &out, Err: &errOut}).Render(r))
	return out.String(), errOut.String()
}

func linuxState(synced bool, maxUs, estUs int64) *clock.TimeKernelState {
	if synced {
		return clock.NewKernelState(clock.FamilyLinux, clock.TIME_OK, clock.STA_PLL, maxUs, estUs)
	}
	return clock.NewKernelState(clock.FamilyLinux, clock.TIME_ERROR, clock.STA_PLL|clock.STA_UNSYNC, maxUs, estUs)
}

func TestNew(t *testing.T) {
	r, err := New("text", &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &TextRenderer{}, r)

	r, err = New("", &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &TextRenderer{}, r)

	r, err = New("json", &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &JSONRenderer{}, r)

	_, err = New("xml", &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTextSynchronized(t *testing.T) {
	out, errOut := renderText(t, &check.Result{
		Verdict: clock.Synchronized,
		State:   linuxState(true, 3500000, 12000),
	})

	assert.Equal(t, "Max error: 3 seconds\n"+
		"Estimated error: 0 seconds\n"+
		"The system clock is synchronized with an NTP server.\n", out)
	assert.Empty(t, errOut)
}

func TestTextProbablySynchronized(t *testing.T) {
	out, errOut := renderText(t, &check.Result{
		Verdict: clock.ProbablySynchronized,
		State:   linuxState(false, 500000, 300000),
	})

	assert.Equal(t, "Max error: 0 seconds\n"+
		"Estimated error: 0 seconds\n"+
		"The time is probably synchronized despite UNSYNC flag.\n", out)
	assert.Empty(t, errOut)
}

func TestTextProbablySynchronizedBSD(t *testing.T) {
	state := clock.NewKernelState(clock.FamilyBSD, clock.TIME_ERROR, clock.STA_UNSYNC, 1000, 1000)

	out, _ := renderText(t, &check.Result{Verdict: clock.ProbablySynchronized, State: state})

	assert.Contains(t, out, "The time is probably synchronized despite the lack of TIME_OK status.\n")
}

func TestTextNotSynchronizedWithDaemon(t *testing.T) {
	tests := []struct {
		name       string
		daemon     daemon.Name
		wantOut    string
		wantErrOut string
	}{
		{
			name:       "chrony",
			daemon:     daemon.Chrony,
			wantOut:    "Chrony is running.\n",
			wantErrOut: "",
		},
		{
			name:       "timesyncd",
			daemon:     daemon.SystemdTimesyncd,
			wantOut:    "systemd-timesyncd is running.\n",
			wantErrOut: "",
		},
		{
			name:       "ntpd",
			daemon:     daemon.NTPD,
			wantOut:    "NTPD is running.\n",
			wantErrOut: "",
		},
		{
			name:       "none",
			daemon:     daemon.None,
			wantOut:    "",
			wantErrOut: "No recognized NTP synchronization service is running.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := renderText(t, &check.Result{
				Verdict:       clock.NotSynchronized,
				State:         linuxState(false, 2000000, 100000),
				Daemon:        tt.daemon,
				DaemonChecked: true,
			})

			assert.Equal(t, "Max error: 2 seconds\nEstimated error: 0 seconds\n"+tt.wantOut, out)
			assert.Equal(t, "The system clock is NOT synchronized with an NTP server.\n"+tt.wantErrOut, errOut)
		})
	}
}

func TestTextCheckFailed(t *testing.T) {
	out, errOut := renderText(t, &check.Result{
		Verdict:       clock.CheckFailed,
		Err:           &clock.QueryError{Call: "adjtimex", Err: syscall.EPERM},
		DaemonChecked: true,
	})

	assert.Empty(t, out)
	assert.Equal(t, "adjtimex failed: operation not permitted\n"+
		"The system clock is NOT synchronized with an NTP server.\n"+
		"No recognized NTP synchronization service is running.\n", errOut)
}

func TestTextUnsupported(t *testing.T) {
	out, errOut := renderText(t, &check.Result{
		Verdict: clock.CheckFailed,
		Err:     clock.ErrUnsupported,
	})

	assert.Empty(t, out)
	assert.Equal(t, "Unsupported operating system.\n"+
		"The system clock is NOT synchronized with an NTP server.\n", errOut)
}

func TestTextReference(t *testing.T) {
	out, _ := renderText(t, &check.Result{
		Verdict:         clock.Synchronized,
		State:           linuxState(true, 0, 0),
		ReferenceServer: "time.example.com",
		Reference:       &reference.Offset{Server: "time.example.com", Offset: -1500 * time.Microsecond, Samples: 3},
	})
	assert.True(t, strings.HasSuffix(out, "Reference offset (time.example.com): -0.001500s\n"), out)

	_, errOut := renderText(t, &check.Result{
		Verdict:         clock.Synchronized,
		State:           linuxState(true, 0, 0),
		ReferenceServer: "time.example.com",
		ReferenceErr:    reference.ErrNoSamples,
	})
	assert.Equal(t, "Reference offset (time.example.com) unavailable: no valid reference samples\n", errOut)
}

type failingWriter struct {
	writes int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("broken pipe")
}

func TestTextWriteError(t *testing.T) {
	w := &failingWriter{}
	err := (&TextRenderer{Out: w, Err: w}).Render(&check.Result{
		Verdict: clock.Synchronized,
		State:   linuxState(true, 0, 0),
	})

	assert.EqualError(t, err, "broken pipe")
	assert.Equal(t, 1, w.writes)
}
