//go:build !linux && !(solaris && cgo) && !((freebsd || netbsd) && (amd64 || arm64))

package clock

// KernelQuerier is the stub for platforms without a supported query primitive
type KernelQuerier struct{}

// NewKernelQuerier returns the querier for the running platform
func NewKernelQuerier() *KernelQuerier {
	return &KernelQuerier{}
}

// Family reports FamilyUnsupported
func (k *KernelQuerier) Family() Family {
	return FamilyUnsupported
}

// Query never issues a syscall and always returns ErrUnsupported
func (k *KernelQuerier) Query() (*TimeKernelState, error) {
	return nil, ErrUnsupported
}
