// Package clock reads the kernel's time-adjustment state and classifies how
// confident the host can be that its clock is synchronized.
package clock

import (
	"errors"
	"strings"
	"time"

	"github.com/johnsonjh/isntpsynced/pkg/mathutil"
)

// Kernel clock states returned by adjtimex(2) / ntp_adjtime(2).
// The values are shared by Linux, the BSDs and Solaris.
const (
	TIME_OK    = 0 // Clock synchronized
	TIME_INS   = 1 // Insert leap second
	TIME_DEL   = 2 // Delete leap second
	TIME_OOP   = 3 // Leap second in progress
	TIME_WAIT  = 4 // Leap second has occurred
	TIME_ERROR = 5 // Clock not synchronized
)

// Kernel status bits (struct timex .status).
const (
	STA_PLL       = 0x0001
	STA_PPSFREQ   = 0x0002
	STA_PPSTIME   = 0x0004
	STA_FLL       = 0x0008
	STA_INS       = 0x0010
	STA_DEL       = 0x0020
	STA_UNSYNC    = 0x0040
	STA_FREQHOLD  = 0x0080
	STA_PPSSIGNAL = 0x0100
	STA_PPSJITTER = 0x0200
	STA_PPSWANDER = 0x0400
	STA_PPSERROR  = 0x0800
	STA_CLOCKERR  = 0x1000
	STA_NANO      = 0x2000
	STA_MODE      = 0x4000
	STA_CLK       = 0x8000
)

var (
	// ErrUnsupported is returned on platforms without a kernel time-adjustment query.
	ErrUnsupported = errors.New("unsupported operating system")

	// ErrQueryFailed matches any *QueryError.
	ErrQueryFailed = errors.New("kernel time query failed")
)

// QueryError is returned when the query primitive exists but the call errored.
type QueryError struct {
	Call string // adjtimex, ntp_adjtime
	Err  error  // errno from the kernel
}

func (e *QueryError) Error() string {
	return e.Call + " failed: " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports ErrQueryFailed as a match so callers need not know the errno.
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}

// Family identifies how a platform reports synchronization.
type Family int

const (
	FamilyUnsupported Family = iota
	FamilyLinux              // return code == TIME_OK
	FamilyBSD                // return code == TIME_OK
	FamilySolaris            // STA_UNSYNC cleared
)

func (f Family) String() string {
	switch f {
	case FamilyLinux:
		return "linux"
	case FamilyBSD:
		return "bsd"
	case FamilySolaris:
		return "solaris"
	default:
		return "unsupported"
	}
}

// Call returns the name of the query primitive used by the family.
func (f Family) Call() string {
	switch f {
	case FamilyLinux:
		return "adjtimex"
	case FamilyBSD, FamilySolaris:
		return "ntp_adjtime"
	default:
		return ""
	}
}

// Status is the bitmask from struct timex.
type Status int32

func (status Status) String() string {
	var labels []string

	for _, item := range []struct {
		bit   Status
		label string
	}{
		{STA_PLL, "STA_PLL"},
		{STA_PPSFREQ, "STA_PPSFREQ"},
		{STA_PPSTIME, "STA_PPSTIME"},
		{STA_FLL, "STA_FLL"},
		{STA_INS, "STA_INS"},
		{STA_DEL, "STA_DEL"},
		{STA_UNSYNC, "STA_UNSYNC"},
		{STA_FREQHOLD, "STA_FREQHOLD"},
		{STA_PPSSIGNAL, "STA_PPSSIGNAL"},
		{STA_PPSJITTER, "STA_PPSJITTER"},
		{STA_PPSWANDER, "STA_PPSWANDER"},
		{STA_PPSERROR, "STA_PPSERROR"},
		{STA_CLOCKERR, "STA_CLOCKERR"},
		{STA_NANO, "STA_NANO"},
		{STA_MODE, "STA_MODE"},
		{STA_CLK, "STA_CLK"},
	} {
		if status&item.bit == item.bit {
			labels = append(labels, item.label)
		}
	}

	return strings.Join(labels, " | ")
}

// StateString renders a kernel clock state return code.
func StateString(state int) string {
	switch state {
	case TIME_OK:
		return "TIME_OK"
	case TIME_INS:
		return "TIME_INS"
	case TIME_DEL:
		return "TIME_DEL"
	case TIME_OOP:
		return "TIME_OOP"
	case TIME_WAIT:
		return "TIME_WAIT"
	case TIME_ERROR:
		return "TIME_ERROR"
	default:
		return "TIME_UNKNOWN"
	}
}

// TimeKernelState is one snapshot of the kernel time-adjustment state.
type TimeKernelState struct {
	Family       Family
	Synchronized bool          // normalized: true when the kernel says it is in sync
	MaxError     time.Duration // upper bound on clock error
	EstError     time.Duration // estimated clock error
	Status       Status        // raw status word
	State        int           // raw return code of the query
}

// NewKernelState normalizes the raw query output of a platform family.
// maxErrUs and estErrUs are in microseconds on every supported platform.
func NewKernelState(family Family, state int, status int32, maxErrUs, estErrUs int64) *TimeKernelState {
	ks := &TimeKernelState{
		Family:   family,
		MaxError: mathutil.Microseconds(maxErrUs),
		EstError: mathutil.Microseconds(estErrUs),
		Status:   Status(status),
		State:    state,
	}

	switch family {
	case FamilySolaris:
		ks.Synchronized = status&STA_UNSYNC == 0
	default:
		ks.Synchronized = state == TIME_OK
	}

	return ks
}

// MaxErrorSeconds returns the max error bound truncated to whole seconds
func (k *TimeKernelState) MaxErrorSeconds() int64 {
	return mathutil.WholeSeconds(k.MaxError)
}

// EstErrorSeconds returns the estimated error truncated to whole seconds
func (k *TimeKernelState) EstErrorSeconds() int64 {
	return mathutil.WholeSeconds(k.EstError)
}

// HasLeapSecond returns true if a leap second is pending
func (k *TimeKernelState) HasLeapSecond() bool {
	return k.Status&STA_INS != 0 || k.Status&STA_DEL != 0
}

// Querier performs the single read-only kernel query for a platform family.
type Querier interface {
	Query() (*TimeKernelState, error)
	Family() Family
}
