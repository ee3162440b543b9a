// Package lan implements the LAN discovery and control transport.
//
// A Controller replaces the cloud round-trip for supported devices: it
// learns which devices are present on the local network, pushes commands
// to specific devices, and correlates asynchronous status replies back to
// the right device.
//
// # Discovery
//
// The controller multicasts a scan request to 239.255.255.250:4001 once
// at startup and then on a fixed period (default 5 s). Devices reply with
// their identity to the receiver socket bound on port 4002; each
// previously-unseen device ID is added to an in-memory registry. Models
// absent from the configured capability list are registered anyway with a
// warning - capability lists lag newly released models, and unknown
// models often still work.
//
// # Command Delivery
//
// Commands are unicast JSON datagrams to the device's port 4003:
//
//	ctrl := lan.New(cfg, lan.WithOnUpdate(onUpdate))
//	if err := ctrl.Start(); err != nil {
//	    return err
//	}
//	defer ctrl.Stop()
//
//	err := ctrl.Control(ctx, deviceID, "turn", map[string]int{"value": 1})
//
// The error covers only the local send: UDP gives no delivery guarantee,
// devices send no acknowledgment, and there is no retry. Control sends
// the command, waits a short settle delay, and pulls fresh status; the
// resulting status reply arrives through the update callback.
//
// # Eviction
//
// A failed unicast send evicts the target device from the registry, so
// subsequent commands fail fast with ErrDeviceNotFound instead of timing
// out against a dead address. The next scan reply the device answers
// re-registers it - at its current address, which is also how address
// changes eventually heal (a scan reply for an already-known ID does not
// refresh the stored address).
//
// # Concurrency
//
// One event loop goroutine owns the registry and the send socket; a
// reader goroutine feeds it received datagrams. Callers' commands enter
// the loop through a request channel and resolve to plain error returns.
// The Controller's exported methods are safe for concurrent use; the
// update callback runs on the event loop and must not block or call the
// controller synchronously.
package lan
