// Package daemon identifies which time-synchronization service, if any, is
// running on the host by scanning the process table.
package daemon

import (
	"errors"
	"strings"

	"github.com/johnsonjh/isntpsynced/pkg/logger"
)

// ErrUnavailable is returned by sources on platforms without process inspection.
var ErrUnavailable = errors.New("process inspection unavailable")

// Name is a recognized sync daemon. The zero value means none was recognized.
type Name string

const (
	None             Name = ""
	Chrony           Name = "chronyd"
	SystemdTimesyncd Name = "systemd-timesyncd"
	NTPD             Name = "ntpd"
)

// known lists the daemons in reporting priority, each with the command
// substrings that identify it.
var known = []struct {
	name     Name
	patterns []string
}{
	{Chrony, []string{"chronyd"}},
	{SystemdTimesyncd, []string{"systemd-timesyncd"}},
	{NTPD, []string{"ntpd", "ntpd4", "xntpd"}},
}

// Known returns the recognized daemon names in priority order.
func Known() []Name {
	names := make([]Name, 0, len(known))
	for _, k := range known {
		names = append(names, k.name)
	}
	return names
}

func (n Name) String() string {
	if n == None {
		return "none"
	}
	return string(n)
}

// RunningMessage is the operator-facing line for the lookup result.
func (n Name) RunningMessage() string {
	switch n {
	case Chrony:
		return "Chrony is running."
	case SystemdTimesyncd:
		return "systemd-timesyncd is running."
	case NTPD:
		return "NTPD is running."
	default:
		return "No recognized NTP synchronization service is running."
	}
}

// ProcessSource enumerates the invoked command of every visible process.
type ProcessSource interface {
	Commands() ([]string, error)
}

// Identifier finds the highest-priority sync daemon in a process source.
type Identifier struct {
	source ProcessSource
}

// NewIdentifier creates an identifier over the given source
func NewIdentifier(source ProcessSource) *Identifier {
	return &Identifier{source: source}
}

// Find scans the process table once. Any source failure degrades to None.
func (i *Identifier) Find() Name {
	if i == nil || i.source == nil {
		return None
	}

	commands, err := i.source.Commands()
	if err != nil {
		logger.SafeDebug("daemon", "Process inspection failed, daemon unknown", map[string]interface{}{
			"error": err.Error(),
		})
		return None
	}

	name := match(commands)

	logger.SafeDebug("daemon", "Process table scanned", map[string]interface{}{
		"processes": len(commands),
		"daemon":    name.String(),
	})

	return name
}

// match returns the first known daemon, in priority order, whose pattern
// occurs in any command.
func match(commands []string) Name {
	for _, k := range known {
		for _, pattern := range k.patterns {
			for _, cmd := range commands {
				if strings.Contains(cmd, pattern) {
					return k.name
				}
			}
		}
	}
	return None
}
