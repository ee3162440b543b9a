package protocol

import (
	"encoding/json"
	"fmt"
)

// Network constants (verified against live device captures)
const (
	// MulticastGroup is the multicast group address devices join
	MulticastGroup = "239.255.255.250"

	// ScanPort is the port devices listen on for multicast scan requests
	ScanPort = 4001

	// ReceivePort is the port the host binds for all device replies
	ReceivePort = 4002

	// ControlPort is the port devices listen on for unicast commands
	ControlPort = 4003

	// MaxDatagramSize is the receive buffer size; device replies are
	// well under 1 KiB but status payloads vary by model
	MaxDatagramSize = 2048
)

// Command tags carried in the envelope
const (
	// CmdScan identifies scan requests and scan replies
	CmdScan = "scan"

	// CmdDevStatus identifies status requests and status replies
	CmdDevStatus = "devStatus"
)

// AccountTopicReserve is the fixed account_topic value devices expect in
// scan requests. Devices ignore scans carrying anything else.
const AccountTopicReserve = "reserve"

// SourceLAN tags status payloads delivered upward as LAN-originated, so
// the owner can distinguish them from cloud-delivered state.
const SourceLAN = "LAN"

// Envelope is the outer wrapper of every datagram in both directions.
type Envelope struct {
	Msg Message `json:"msg"`
}

// Message carries the command tag and the command-specific payload.
// Data stays raw so payload shapes the transport doesn't understand
// pass through untouched.
type Message struct {
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ScanRequest is the data payload of an outbound scan broadcast.
type ScanRequest struct {
	AccountTopic string `json:"account_topic"`
}

// DeviceInfo is the data payload of an inbound scan reply.
type DeviceInfo struct {
	// Device is the stable device identifier (MAC-derived on most models)
	Device string `json:"device"`

	// SKU is the model identifier (e.g., "H6159")
	SKU string `json:"sku"`

	// IP is the address as reported by the device itself. Not necessarily
	// the packet's actual source address.
	IP string `json:"ip"`

	// BLEVersionHard is the BLE hardware version string
	BLEVersionHard string `json:"bleVersionHard,omitempty"`

	// BLEVersionSoft is the BLE firmware version string
	BLEVersionSoft string `json:"bleVersionSoft,omitempty"`

	// WifiVersionHard is the WiFi hardware version string
	WifiVersionHard string `json:"wifiVersionHard,omitempty"`

	// WifiVersionSoft is the WiFi firmware version string
	WifiVersionSoft string `json:"wifiVersionSoft,omitempty"`
}

// String returns a human-readable string representation of the device info
func (d *DeviceInfo) String() string {
	return fmt.Sprintf("Device %s (%s) at %s", d.Device, d.SKU, d.IP)
}
