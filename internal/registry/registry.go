package registry

// Registry is the in-memory collection of currently known devices, keyed
// by device ID with a secondary lookup by network address.
//
// The registry is deliberately unlocked. All access is confined to the
// controller's event loop goroutine; nothing preempts an operation
// mid-flight, so each insert, lookup, and remove is atomic with respect
// to observers. Do not share a Registry across goroutines.
type Registry struct {
	devices map[string]*DeviceRecord
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		devices: make(map[string]*DeviceRecord),
	}
}

// Add inserts the record if its ID is not already present and reports
// whether an insertion occurred.
//
// A record for an already-known ID is a no-op, not an update: a device
// whose address changed between scans keeps its stale registry address
// until a failed send evicts it and a later scan re-adds it. This is a
// known staleness window, kept intentionally.
func (r *Registry) Add(record *DeviceRecord) bool {
	if _, exists := r.devices[record.ID]; exists {
		return false
	}
	r.devices[record.ID] = record
	return true
}

// FindByID returns the record with the given device ID, or nil
func (r *Registry) FindByID(id string) *DeviceRecord {
	return r.devices[id]
}

// FindByAddress returns a record whose current IP equals addr, or nil.
//
// When two devices share an address (address reuse, NAT edge cases) it is
// undefined which one is returned - first match wins. Documented
// limitation, not a contract.
func (r *Registry) FindByAddress(addr string) *DeviceRecord {
	for _, record := range r.devices {
		if record.IP == addr {
			return record
		}
	}
	return nil
}

// Remove deletes the record with the given device ID. Idempotent:
// removing an absent ID is a no-op.
func (r *Registry) Remove(id string) {
	delete(r.devices, id)
}

// Len returns the number of registered devices
func (r *Registry) Len() int {
	return len(r.devices)
}

// Devices returns a snapshot slice of all registered records. The slice
// is freshly allocated; mutating it does not affect the registry.
func (r *Registry) Devices() []*DeviceRecord {
	out := make([]*DeviceRecord, 0, len(r.devices))
	for _, record := range r.devices {
		out = append(out, record)
	}
	return out
}
