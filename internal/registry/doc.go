// Package registry holds the in-memory set of discovered devices.
//
// A Registry maps stable device identifiers to DeviceRecords and supports
// a secondary lookup by current network address, which the transport uses
// to correlate inbound status replies to the device that sent them.
//
// # Lifecycle
//
// A record is created when a scan reply carries a previously-unseen device
// ID, never updated in place by later scan replies, and destroyed when a
// unicast send to its address fails (the transport treats a failed send as
// the device having left the network). After removal a later scan reply
// for the same ID registers it as new again.
//
// # Thread Safety
//
// Registry is NOT safe for concurrent use. It carries no locking on
// purpose: the transport confines all registry access to its single event
// loop goroutine. Callers embedding a Registry elsewhere must provide
// their own confinement or synchronization.
package registry
