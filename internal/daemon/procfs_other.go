//go:build !linux
// +build !linux

package daemon

// DefaultProcPath is unused on platforms without procfs
const DefaultProcPath = ""

type unavailableSource struct{}

// NewSystemSource returns the process source for the running platform
func NewSystemSource(string) ProcessSource {
	return unavailableSource{}
}

func (unavailableSource) Commands() ([]string, error) {
	return nil, ErrUnavailable
}
