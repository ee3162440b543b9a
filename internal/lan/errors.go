package lan

import "errors"

var (
	// ErrDeviceNotFound is returned when a command targets a device ID
	// that is not (or no longer) in the registry. No traffic is sent.
	ErrDeviceNotFound = errors.New("device not found in registry")

	// ErrNotRunning is returned by operations that need a started
	// controller (commands, snapshots) before Start or after Stop.
	ErrNotRunning = errors.New("controller is not running")

	// ErrAlreadyRunning is returned by Start on a running controller.
	ErrAlreadyRunning = errors.New("controller is already running")
)
