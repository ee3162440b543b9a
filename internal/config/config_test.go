package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal file gets defaults",
			data: "version: 1\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Network.MulticastGroup != "239.255.255.250" {
					t.Errorf("multicast_group = %q, want default", cfg.Network.MulticastGroup)
				}
				if cfg.Network.ScanPort != 4001 || cfg.Network.ReceivePort != 4002 || cfg.Network.ControlPort != 4003 {
					t.Errorf("ports = %d/%d/%d, want 4001/4002/4003",
						cfg.Network.ScanPort, cfg.Network.ReceivePort, cfg.Network.ControlPort)
				}
				if cfg.Discovery.ScanIntervalMS != 5000 {
					t.Errorf("scan_interval_ms = %d, want 5000", cfg.Discovery.ScanIntervalMS)
				}
				if cfg.Discovery.SettleDelayMS != 50 {
					t.Errorf("settle_delay_ms = %d, want 50", cfg.Discovery.SettleDelayMS)
				}
				if !cfg.IsLANCapable("H6159") {
					t.Error("default capability list missing H6159")
				}
			},
		},
		{
			name: "partial override keeps other defaults",
			data: "version: 1\ndiscovery:\n  scan_interval_ms: 1000\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Discovery.ScanIntervalMS != 1000 {
					t.Errorf("scan_interval_ms = %d, want 1000", cfg.Discovery.ScanIntervalMS)
				}
				if cfg.Discovery.SettleDelayMS != 50 {
					t.Errorf("settle_delay_ms = %d, want default 50", cfg.Discovery.SettleDelayMS)
				}
			},
		},
		{
			name: "custom sku list replaces defaults",
			data: "version: 1\nlan_skus:\n  - X9999\n",
			check: func(t *testing.T, cfg *Config) {
				if !cfg.IsLANCapable("X9999") {
					t.Error("custom SKU not honored")
				}
				if cfg.IsLANCapable("H6159") {
					t.Error("default SKU list should be replaced, not merged")
				}
			},
		},
		{
			name:    "unsupported version",
			data:    "version: 2\n",
			wantErr: true,
		},
		{
			name:    "invalid port",
			data:    "version: 1\nnetwork:\n  scan_port: 70000\n",
			wantErr: true,
		},
		{
			name:    "negative interval",
			data:    "version: 1\ndiscovery:\n  scan_interval_ms: -5\n",
			wantErr: true,
		},
		{
			name:    "not YAML",
			data:    "{{{{",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidate_ZeroScanInterval(t *testing.T) {
	cfg := NewConfig()
	cfg.Discovery.ScanIntervalMS = 0
	if err := validate(cfg); err == nil {
		t.Error("validate() accepted scan_interval_ms = 0")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if cfg.Network.ScanPort != 4001 {
		t.Errorf("scan_port = %d, want default 4001", cfg.Network.ScanPort)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nbridge:\n  listen_addr: 127.0.0.1:9999\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bridge.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("listen_addr = %q, want 127.0.0.1:9999", cfg.Bridge.ListenAddr)
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG resolution does not apply on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", "glowlan")
	if dir != want {
		t.Errorf("GetConfigDir() = %q, want %q", dir, want)
	}
}
