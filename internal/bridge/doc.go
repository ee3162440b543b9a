// Package bridge exposes the live device registry over HTTP and
// WebSocket for host applications running outside this process.
//
// The bridge is read-only: it lists what the transport has discovered and
// streams correlated status updates. Control traffic stays with the
// library API (and its delivery semantics); the bridge deliberately does
// not proxy commands.
//
// # Endpoints
//
//   - GET /api/devices - JSON snapshot of the registry
//   - GET /ws         - WebSocket stream of status updates, one JSON
//     object per update: {"device_id": ..., "payload": {...}}
//
// # Wiring
//
// The bridge's Publish method has the transport's update-callback shape:
//
//	var srv *bridge.Server
//	ctrl := lan.New(cfg, lan.WithOnUpdate(func(id string, p map[string]interface{}) {
//	    srv.Publish(id, p)
//	}))
//	srv, err := bridge.New(&bridge.Config{ListenAddr: addr, Source: ctrl})
//
// Publish never blocks the caller. Updates to a saturated fanout or a
// slow subscriber are dropped; subscribers needing current state re-poll
// /api/devices.
package bridge
