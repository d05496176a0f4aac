// Package autostart provides auto-start on login.
package autostart

// Enable enables auto-start on login
func Enable() error {
	return enablePlatform()
}

// Disable disables auto-start on login
func Disable() error {
	return disablePlatform()
}

// IsEnabled checks if auto-start is enabled
func IsEnabled() bool {
	return isEnabledPlatform()
}
