//go:build linux
// +build linux

package clock

import (
	"golang.org/x/sys/unix"
)

// KernelQuerier reads kernel NTP state via adjtimex(2)
type KernelQuerier struct{}

// NewKernelQuerier returns the querier for the running platform
func NewKernelQuerier() *KernelQuerier {
	return &KernelQuerier{}
}

// Family reports FamilyLinux
func (k *KernelQuerier) Family() Family {
	return FamilyLinux
}

// Query calls adjtimex with Modes = 0 so no parameter is changed
func (k *KernelQuerier) Query() (*TimeKernelState, error) {
	var tx unix.Timex

	state, err := unix.Adjtimex(&tx)
	if err != nil {
		return nil, &QueryError{Call: FamilyLinux.Call(), Err: err}
	}

	return NewKernelState(FamilyLinux, state, tx.Status, int64(tx.Maxerror), int64(tx.Esterror)), nil
}
