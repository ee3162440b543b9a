// Package protocol implements the LAN wire protocol for glowlan devices.
//
// This package handles parsing, validation, and construction of the JSON
// datagrams exchanged with devices over UDP. It owns the fixed network
// constants (multicast group and the three well-known ports) and the
// envelope shape, and nothing else: payload semantics beyond the envelope
// belong to the caller.
//
// # Protocol Overview
//
// Every datagram in both directions is a single JSON envelope:
//
//	{"msg": {"cmd": "<tag>", "data": { ... }}}
//
// Three exchanges use it:
//   - Scan: the host multicasts {"cmd":"scan","data":{"account_topic":"reserve"}}
//     to 239.255.255.250:4001; each device replies to the host's port 4002
//     with {"cmd":"scan","data":{"device":...,"sku":...,"ip":...}}.
//   - Status: the host unicasts {"cmd":"devStatus","data":{}} to a device's
//     port 4003; the device replies to port 4002 with a model-specific
//     status payload under the same tag.
//   - Control: the host unicasts an arbitrary command tag with an opaque
//     parameter object to port 4003. Devices send no acknowledgment.
//
// # Usage Example - Parsing
//
//	env, err := protocol.ParseEnvelope(buf[:n])
//	if err != nil {
//	    // log and drop
//	    return
//	}
//
//	switch env.Msg.Cmd {
//	case protocol.CmdScan:
//	    info, err := env.DeviceInfo()
//	    ...
//	case protocol.CmdDevStatus:
//	    payload, err := env.StatusPayload()
//	    ...
//	}
//
// # Usage Example - Construction
//
//	datagram, err := protocol.BuildControl("turn", map[string]int{"value": 1})
//	if err != nil {
//	    return err
//	}
//	_, err = conn.WriteTo(datagram, deviceAddr)
//
// # Error Handling
//
// Parse errors mean a malformed or foreign datagram and are never fatal;
// callers log and drop. Construction errors indicate unmarshalable caller
// payloads. Unrecognized command tags are not an error at this layer -
// classification is the caller's concern.
//
// # Thread Safety
//
// All parsing and construction functions are stateless and safe for
// concurrent use.
package protocol
