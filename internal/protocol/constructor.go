package protocol

import (
	"encoding/json"
	"fmt"
)

// Datagram constructor library for building messages to send to devices.
// Every outbound datagram is a single JSON envelope; devices ignore
// datagrams that don't parse, so construction errors here are programmer
// errors (unmarshalable payloads), not protocol errors.

// BuildScanRequest constructs the multicast scan broadcast datagram:
//
//	{"msg":{"cmd":"scan","data":{"account_topic":"reserve"}}}
func BuildScanRequest() ([]byte, error) {
	data, err := json.Marshal(ScanRequest{AccountTopic: AccountTopicReserve})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan request: %w", err)
	}
	return buildEnvelope(CmdScan, data)
}

// BuildStatusRequest constructs the unicast status pull datagram:
//
//	{"msg":{"cmd":"devStatus","data":{}}}
func BuildStatusRequest() ([]byte, error) {
	return buildEnvelope(CmdDevStatus, json.RawMessage(`{}`))
}

// BuildControl constructs a unicast control datagram with an arbitrary
// command tag and parameter payload. The payload shape is owned by the
// caller; this transport only wraps it in the envelope.
func BuildControl(cmd string, params interface{}) ([]byte, error) {
	if cmd == "" {
		return nil, fmt.Errorf("control command tag must not be empty")
	}

	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode control payload: %w", err)
	}
	return buildEnvelope(cmd, data)
}

func buildEnvelope(cmd string, data json.RawMessage) ([]byte, error) {
	out, err := json.Marshal(Envelope{Msg: Message{Cmd: cmd, Data: data}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return out, nil
}
