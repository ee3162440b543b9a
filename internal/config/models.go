package config

// Config represents the entire glowlan configuration file.
type Config struct {
	Version   int              `yaml:"version"`
	Network   *NetworkConfig   `yaml:"network,omitempty"`
	Discovery *DiscoveryConfig `yaml:"discovery,omitempty"`
	Bridge    *BridgeConfig    `yaml:"bridge,omitempty"`

	// LANSKUs is the static list of model identifiers known to support
	// LAN control. Devices with other SKUs are still tracked, with a
	// warning; the list lags newly released models.
	LANSKUs []string `yaml:"lan_skus,omitempty"`
}

// NetworkConfig holds the transport addressing. These mirror the fixed
// protocol constants and exist mainly for lab setups and tests; real
// devices only speak the defaults.
type NetworkConfig struct {
	MulticastGroup string `yaml:"multicast_group"` // Group devices join (default 239.255.255.250)
	ScanPort       int    `yaml:"scan_port"`       // Devices listen here for scans (default 4001)
	ReceivePort    int    `yaml:"receive_port"`    // Host listens here for replies (default 4002)
	ControlPort    int    `yaml:"control_port"`    // Devices listen here for commands (default 4003)
}

// DiscoveryConfig holds the discovery cadence.
type DiscoveryConfig struct {
	ScanIntervalMS int `yaml:"scan_interval_ms"` // Period between scan broadcasts (default 5000)
	SettleDelayMS  int `yaml:"settle_delay_ms"`  // Wait before pulling status after a control send (default 50)
}

// BridgeConfig holds the optional HTTP/WebSocket bridge settings.
type BridgeConfig struct {
	ListenAddr string `yaml:"listen_addr"` // Bridge bind address (default 127.0.0.1:8093)
}

// defaultLANSKUs covers models with verified LAN control support.
// Unknown models are registered anyway, so staleness here only costs a
// warning line.
var defaultLANSKUs = []string{
	"H5081",
	"H6002", "H6003",
	"H6046", "H6047",
	"H6051", "H6056", "H6059",
	"H6061", "H6062", "H6065", "H6066",
	"H6072", "H6073", "H6076", "H6078",
	"H6083", "H6085", "H6086", "H6087", "H6089",
	"H610A", "H610B", "H6104", "H6109", "H6110", "H6117",
	"H6135", "H6137", "H6141", "H6142", "H6148", "H614A", "H614C", "H614D", "H614E",
	"H6159", "H615A", "H615B", "H615C", "H615D", "H615E",
	"H6160", "H6163", "H6168", "H6172", "H6173", "H6176",
	"H6182", "H6188", "H618A", "H618C", "H618E", "H618F",
	"H6195", "H6199",
	"H7005", "H7012", "H7013", "H7014",
	"H7021", "H7022", "H7028",
	"H7041", "H7042",
	"H7050", "H7051", "H7055",
	"H705A", "H705B", "H7060", "H7061", "H7062", "H7065",
}

// NewConfig creates a Config populated with defaults
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Network: &NetworkConfig{
			MulticastGroup: "239.255.255.250",
			ScanPort:       4001,
			ReceivePort:    4002,
			ControlPort:    4003,
		},
		Discovery: &DiscoveryConfig{
			ScanIntervalMS: 5000,
			SettleDelayMS:  50,
		},
		Bridge: &BridgeConfig{
			ListenAddr: "127.0.0.1:8093",
		},
		LANSKUs: append([]string(nil), defaultLANSKUs...),
	}
}

// IsLANCapable reports whether sku appears in the capability list
func (c *Config) IsLANCapable(sku string) bool {
	for _, s := range c.LANSKUs {
		if s == sku {
			return true
		}
	}
	return false
}
