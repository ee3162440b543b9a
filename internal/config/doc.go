// Package config loads the glowlan configuration file.
//
// Configuration lives in a versioned YAML file under the platform config
// directory (Linux: ~/.config/glowlan/config.yaml). Everything has a
// working default - the file only exists for lab setups, alternate ports,
// and extending the LAN-capable model list ahead of releases.
//
// # File Format
//
//	version: 1
//	network:
//	  multicast_group: 239.255.255.250
//	  scan_port: 4001
//	  receive_port: 4002
//	  control_port: 4003
//	discovery:
//	  scan_interval_ms: 5000
//	  settle_delay_ms: 50
//	bridge:
//	  listen_addr: 127.0.0.1:8093
//	lan_skus:
//	  - H6159
//	  - H6003
//
// # Defaults
//
// A missing file yields the built-in defaults. A present file may omit
// any section; omitted sections and zero-valued fields are filled from
// the defaults, so a file that only overrides scan_interval_ms is valid.
//
// # Capability List
//
// lan_skus replaces the built-in list entirely when present. The list is
// advisory: a discovered device whose SKU is absent still gets tracked,
// with a warning, since capability lists lag newly released models.
package config
