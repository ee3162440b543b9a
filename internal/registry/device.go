package registry

import (
	"encoding/json"
	"fmt"
	"time"
)

// DeviceRecord represents one discovered device on the local network
type DeviceRecord struct {
	// ID is the stable device identifier, unique within the registry
	ID string

	// SKU is the model identifier (e.g., "H6159")
	SKU string

	// IP is the device's current network address. It can go stale: a scan
	// reply for an already-known ID does not refresh it (see Registry.Add).
	IP string

	// LANCapable reports whether the SKU was found in the configured
	// capability list at discovery time. Devices with unknown SKUs are
	// still tracked best-effort.
	LANCapable bool

	// Extra holds the raw scan-reply payload so protocol-supplied fields
	// the transport doesn't model pass through opaquely.
	Extra json.RawMessage

	// DiscoveredAt is when the device was first registered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the record
func (d *DeviceRecord) String() string {
	return fmt.Sprintf("Device %s (%s) at %s", d.ID, d.SKU, d.IP)
}
