//go:build linux
// +build linux

package daemon

import (
	"github.com/prometheus/procfs"
)

// DefaultProcPath is where procfs is normally mounted
const DefaultProcPath = procfs.DefaultMountPoint

// ProcfsSource reads process command lines from a procfs mount
type ProcfsSource struct {
	mountPoint string
}

// NewSystemSource returns the process source for the running platform
func NewSystemSource(mountPoint string) ProcessSource {
	if mountPoint == "" {
		mountPoint = DefaultProcPath
	}
	return &ProcfsSource{mountPoint: mountPoint}
}

// Commands returns argv[0] of every process. Processes that exit during the
// scan, kernel threads and unreadable entries are skipped.
func (s *ProcfsSource) Commands() ([]string, error) {
	fs, err := procfs.NewFS(s.mountPoint)
	if err != nil {
		return nil, err
	}

	procs, err := fs.AllProcs()
	if err != nil {
		return nil, err
	}

	commands := make([]string, 0, len(procs))
	for _, p := range procs {
		args, err := p.CmdLine()
		if err != nil || len(args) == 0 {
			continue
		}
		commands = append(commands, args[0])
	}

	return commands, nil
}
