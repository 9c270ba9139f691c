//go:build solaris && cgo
// +build solaris,cgo

package clock

/*
#include <sys/types.h>
#include <sys/time.h>
#include <sys/timex.h>
*/
import "C"

// KernelQuerier reads kernel NTP state via ntp_adjtime(2)
type KernelQuerier struct{}

// NewKernelQuerier returns the querier for the running platform
func NewKernelQuerier() *KernelQuerier {
	return &KernelQuerier{}
}

// Family reports FamilySolaris
func (k *KernelQuerier) Family() Family {
	return FamilySolaris
}

// Query calls ntp_adjtime with modes = 0 so no parameter is changed
func (k *KernelQuerier) Query() (*TimeKernelState, error) {
	var tx C.struct_timex

	rc, err := C.ntp_adjtime(&tx)
	if rc == -1 {
		return nil, &QueryError{Call: FamilySolaris.Call(), Err: err}
	}

	return NewKernelState(FamilySolaris, int(rc), int32(tx.status), int64(tx.maxerror), int64(tx.esterror)), nil
}
