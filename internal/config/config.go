package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "glowlan"
	configFile = "config.yaml"
)

// GetConfigDir returns the OS-appropriate configuration directory for the
// application. This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/glowlan or $HOME/.config/glowlan
//   - macOS: $HOME/.config/glowlan (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\glowlan
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		// Unix-like systems: Use XDG_CONFIG_HOME or $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the configuration from path. An empty path means the default
// location (GetConfigPath). A missing file is not an error: defaults are
// returned, since the transport works out of the box on real devices.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, validates them, and fills in defaults
// for any omitted section.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", cfg.Version)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := NewConfig()

	if cfg.Network == nil {
		cfg.Network = defaults.Network
	} else {
		if cfg.Network.MulticastGroup == "" {
			cfg.Network.MulticastGroup = defaults.Network.MulticastGroup
		}
		if cfg.Network.ScanPort == 0 {
			cfg.Network.ScanPort = defaults.Network.ScanPort
		}
		if cfg.Network.ReceivePort == 0 {
			cfg.Network.ReceivePort = defaults.Network.ReceivePort
		}
		if cfg.Network.ControlPort == 0 {
			cfg.Network.ControlPort = defaults.Network.ControlPort
		}
	}

	if cfg.Discovery == nil {
		cfg.Discovery = defaults.Discovery
	} else {
		if cfg.Discovery.ScanIntervalMS == 0 {
			cfg.Discovery.ScanIntervalMS = defaults.Discovery.ScanIntervalMS
		}
		if cfg.Discovery.SettleDelayMS == 0 {
			cfg.Discovery.SettleDelayMS = defaults.Discovery.SettleDelayMS
		}
	}

	if cfg.Bridge == nil {
		cfg.Bridge = defaults.Bridge
	} else if cfg.Bridge.ListenAddr == "" {
		cfg.Bridge.ListenAddr = defaults.Bridge.ListenAddr
	}

	if cfg.LANSKUs == nil {
		cfg.LANSKUs = defaults.LANSKUs
	}
}

func validate(cfg *Config) error {
	for _, port := range []struct {
		name  string
		value int
	}{
		{"scan_port", cfg.Network.ScanPort},
		{"receive_port", cfg.Network.ReceivePort},
		{"control_port", cfg.Network.ControlPort},
	} {
		if port.value < 1 || port.value > 65535 {
			return fmt.Errorf("invalid %s: %d (must be 1-65535)", port.name, port.value)
		}
	}

	if cfg.Discovery.ScanIntervalMS <= 0 {
		return fmt.Errorf("invalid scan_interval_ms: %d (must be positive)", cfg.Discovery.ScanIntervalMS)
	}
	if cfg.Discovery.SettleDelayMS < 0 {
		return fmt.Errorf("invalid settle_delay_ms: %d (must be non-negative)", cfg.Discovery.SettleDelayMS)
	}

	return nil
}
