// Package tui implements the interactive watch view for glowlan.
//
// The view shows the live device registry - one line per discovered
// device with a capability marker, model SKU, and address - and, under
// each device, the latest correlated status payload with its age. The
// registry is re-polled once per second; status lines update the moment
// a reply is correlated.
//
// The model follows the standard bubbletea shape and is driven by two
// inputs: a DeviceSource for registry snapshots and a channel of Updates
// the caller feeds from the transport's update callback.
package tui
