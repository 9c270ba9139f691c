package clock

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewKernelStateNormalization(t *testing.T) {
	tests := []struct {
		name     string
		family   Family
		state    int
		status   int32
		expected bool
	}{
		{"linux_time_ok", FamilyLinux, TIME_OK, STA_PLL, true},
		{"linux_time_error", FamilyLinux, TIME_ERROR, STA_PLL | STA_UNSYNC, false},
		{"linux_leap_pending_is_not_ok", FamilyLinux, TIME_INS, STA_INS, false},
		{"bsd_time_ok", FamilyBSD, TIME_OK, 0, true},
		{"bsd_time_error", FamilyBSD, TIME_ERROR, STA_UNSYNC, false},
		{"solaris_unsync_clear", FamilySolaris, TIME_ERROR, STA_PLL, true},
		{"solaris_unsync_set", FamilySolaris, TIME_OK, STA_UNSYNC, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := NewKernelState(tt.family, tt.state, tt.status, 0, 0)
			assert.Equal(t, tt.expected, ks.Synchronized)
			assert.Equal(t, tt.family, ks.Family)
			assert.Equal(t, tt.state, ks.State)
			assert.Equal(t, Status(tt.status), ks.Status)
		})
	}
}

func TestKernelStateErrorSeconds(t *testing.T) {
	tests := []struct {
		name        string
		maxUs       int64
		estUs       int64
		expectedMax int64
		expectedEst int64
	}{
		{"sub_second", 500000, 300000, 0, 0},
		{"boundary", 999999, 1000000, 0, 1},
		{"large", 16000000, 2500000, 16, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := NewKernelState(FamilyLinux, TIME_ERROR, STA_UNSYNC, tt.maxUs, tt.estUs)
			assert.Equal(t, tt.expectedMax, ks.MaxErrorSeconds())
			assert.Equal(t, tt.expectedEst, ks.EstErrorSeconds())
			assert.Equal(t, time.Duration(tt.maxUs)*time.Microsecond, ks.MaxError)
		})
	}
}

func TestKernelStateHasLeapSecond(t *testing.T) {
	tests := []struct {
		name     string
		status   int32
		expected bool
	}{
		{"no_leap", 0, false},
		{"leap_insert", STA_INS, true},
		{"leap_delete", STA_DEL, true},
		{"other_flags", STA_PLL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := NewKernelState(FamilyLinux, TIME_OK, tt.status, 0, 0)
			assert.Equal(t, tt.expected, ks.HasLeapSecond())
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "", Status(0).String())
	assert.Equal(t, "STA_UNSYNC", Status(STA_UNSYNC).String())
	assert.Equal(t, "STA_PLL | STA_UNSYNC | STA_NANO", Status(STA_PLL|STA_UNSYNC|STA_NANO).String())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    int
		expected string
	}{
		{TIME_OK, "TIME_OK"},
		{TIME_INS, "TIME_INS"},
		{TIME_DEL, "TIME_DEL"},
		{TIME_OOP, "TIME_OOP"},
		{TIME_WAIT, "TIME_WAIT"},
		{TIME_ERROR, "TIME_ERROR"},
		{99, "TIME_UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, StateString(tt.state))
		})
	}
}

func TestFamily(t *testing.T) {
	assert.Equal(t, "linux", FamilyLinux.String())
	assert.Equal(t, "bsd", FamilyBSD.String())
	assert.Equal(t, "solaris", FamilySolaris.String())
	assert.Equal(t, "unsupported", FamilyUnsupported.String())

	assert.Equal(t, "adjtimex", FamilyLinux.Call())
	assert.Equal(t, "ntp_adjtime", FamilyBSD.Call())
	assert.Equal(t, "ntp_adjtime", FamilySolaris.Call())
	assert.Equal(t, "", FamilyUnsupported.Call())
}

func TestQueryError(t *testing.T) {
	err := error(&QueryError{Call: "adjtimex", Err: syscall.EPERM})

	assert.Equal(t, "adjtimex failed: operation not permitted", err.Error())
	assert.True(t, errors.Is(err, ErrQueryFailed))
	assert.True(t, errors.Is(err, syscall.EPERM))
	assert.False(t, errors.Is(err, ErrUnsupported))
}

func TestKernelQuerierFamilyMatchesPlatform(t *testing.T) {
	q := NewKernelQuerier()
	state, err := q.Query()
	if err != nil {
		if q.Family() == FamilyUnsupported {
			assert.ErrorIs(t, err, ErrUnsupported)
			return
		}
		t.Skipf("Kernel time query failed on %s: %v", q.Family(), err)
	}

	assert.Equal(t, q.Family(), state.Family)
	assert.GreaterOrEqual(t, int64(state.MaxError), int64(0))
	t.Logf("Kernel state: state=%s status=%s max=%v est=%v",
		StateString(state.State), state.Status, state.MaxError, state.EstError)
}
