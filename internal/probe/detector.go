// Package probe decides the health of a service on a host and restarts
// unhealthy services.
package probe

import (
	"strings"

	"github.com/rileyhilliard/svcmon/internal/util"
)

// DefaultDatabaseService is the service name that gets database detection.
const DefaultDatabaseService = "mysql"

// RunningMarker is the substring `service mysqld status` prints for a
// running server.
const RunningMarker = "Active: active (running)"

// Kind is a detector variant. The set is closed: each service family with
// bespoke status/restart handling gets its own Kind, everything else is
// Systemd.
type Kind int

const (
	// Systemd queries the unit with systemctl.
	Systemd Kind = iota
	// Database uses the SysV service wrapper for mysqld.
	Database
)

func (k Kind) String() string {
	switch k {
	case Database:
		return "database"
	default:
		return "systemd"
	}
}

// StatusCommand returns the command that reports the service's state.
func (k Kind) StatusCommand(service string) string {
	switch k {
	case Database:
		return "service mysqld status"
	default:
		return "systemctl is-active " + util.ShellArg(service)
	}
}

// RestartCommand returns the command that restarts the service.
func (k Kind) RestartCommand(service string) string {
	switch k {
	case Database:
		return "service mysqld restart"
	default:
		return "sudo systemctl restart " + util.ShellArg(service)
	}
}

// Healthy classifies the stdout of StatusCommand.
func (k Kind) Healthy(stdout string) bool {
	switch k {
	case Database:
		return strings.Contains(stdout, RunningMarker)
	default:
		return strings.TrimSpace(stdout) == "active"
	}
}

// Classifier maps service names to detector kinds.
type Classifier struct {
	// DatabaseService is the name handled by the Database kind.
	DatabaseService string
}

// DefaultClassifier treats "mysql" as the database service.
func DefaultClassifier() Classifier {
	return Classifier{DatabaseService: DefaultDatabaseService}
}

// KindFor returns the detector for service.
func (c Classifier) KindFor(service string) Kind {
	if c.DatabaseService != "" && service == c.DatabaseService {
		return Database
	}
	return Systemd
}
