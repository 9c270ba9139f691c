//go:build (freebsd || netbsd) && (amd64 || arm64)
// +build freebsd netbsd
// +build amd64 arm64

package clock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ntp_adjtime is syscall 176 on both FreeBSD and NetBSD.
const sysNtpAdjtime = 176

// timex matches struct timex from <sys/timex.h> on 64-bit FreeBSD and NetBSD
type timex struct {
	Modes     uint32
	Offset    int64
	Freq      int64
	Maxerror  int64
	Esterror  int64
	Status    int32
	Constant  int64
	Precision int64
	Tolerance int64
	Ppsfreq   int64
	Jitter    int64
	Shift     int32
	Stabil    int64
	Jitcnt    int64
	Calcnt    int64
	Errcnt    int64
	Stbcnt    int64
}

// KernelQuerier reads kernel NTP state via ntp_adjtime(2)
type KernelQuerier struct{}

// NewKernelQuerier returns the querier for the running platform
func NewKernelQuerier() *KernelQuerier {
	return &KernelQuerier{}
}

// Family reports FamilyBSD
func (k *KernelQuerier) Family() Family {
	return FamilyBSD
}

// Query calls ntp_adjtime with modes = 0 so no parameter is changed
func (k *KernelQuerier) Query() (*TimeKernelState, error) {
	var tx timex

	r1, _, errno := unix.Syscall(sysNtpAdjtime, uintptr(unsafe.Pointer(&tx)), 0, 0)
	if errno != 0 {
		return nil, &QueryError{Call: FamilyBSD.Call(), Err: errno}
	}

	return NewKernelState(FamilyBSD, int(r1), tx.Status, tx.Maxerror, tx.Esterror), nil
}
