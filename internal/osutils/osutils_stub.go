//go:build !windows

package osutils

import (
	"log"
	"os"
)

// IsAdmin reports whether the process runs with elevated privileges.
// On Unix that means root, which X11 grabs do not require.
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// EnsureFirewallRule is a stub for non-Windows platforms
func EnsureFirewallRule(port int) error {
	log.Println("Firewall: Automatic rule management is only supported on Windows")
	return nil
}
