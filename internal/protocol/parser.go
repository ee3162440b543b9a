package protocol

import (
	"encoding/json"
	"fmt"
)

// ParseEnvelope parses a received datagram into an Envelope.
//
// Returns an error when the datagram is not a JSON object of the expected
// shape or carries an empty command tag. The caller drops such datagrams;
// parse failures are never fatal.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed datagram: %w", err)
	}

	if env.Msg.Cmd == "" {
		return nil, fmt.Errorf("malformed datagram: missing cmd tag")
	}

	return &env, nil
}

// DeviceInfo decodes the envelope's data payload as a scan reply.
//
// A valid scan reply must carry both a device identifier and a model SKU;
// replies missing either are rejected. Extra protocol-supplied fields are
// tolerated and ignored here - callers that need them keep Msg.Data raw.
func (e *Envelope) DeviceInfo() (*DeviceInfo, error) {
	if e.Msg.Cmd != CmdScan {
		return nil, fmt.Errorf("not a scan reply: cmd=%q", e.Msg.Cmd)
	}

	var info DeviceInfo
	if err := json.Unmarshal(e.Msg.Data, &info); err != nil {
		return nil, fmt.Errorf("malformed scan reply payload: %w", err)
	}

	if info.Device == "" {
		return nil, fmt.Errorf("scan reply missing device identifier")
	}
	if info.SKU == "" {
		return nil, fmt.Errorf("scan reply missing sku")
	}

	return &info, nil
}

// StatusPayload decodes the envelope's data payload as a generic field map
// and tags it as LAN-sourced. The payload shape is model-specific and
// opaque to the transport; only the source tag is added.
func (e *Envelope) StatusPayload() (map[string]interface{}, error) {
	if e.Msg.Cmd != CmdDevStatus {
		return nil, fmt.Errorf("not a status reply: cmd=%q", e.Msg.Cmd)
	}

	payload := make(map[string]interface{})
	if len(e.Msg.Data) > 0 {
		if err := json.Unmarshal(e.Msg.Data, &payload); err != nil {
			return nil, fmt.Errorf("malformed status payload: %w", err)
		}
	}

	payload["source"] = SourceLAN
	return payload, nil
}
